package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	adapthttp "fitrooms/internal/adapter/http"
	"fitrooms/internal/adapter/memory"
	"fitrooms/internal/adapter/postgres"
	"fitrooms/internal/app"
	"fitrooms/internal/config"
	"fitrooms/internal/domain"
	"fitrooms/internal/logging"
)

// repositories is everything the services persist through.
type repositories interface {
	domain.UserRepository
	domain.RoomRepository
	domain.LogRepository
	domain.PlanRepository
}

type store struct {
	repositories
	sessions domain.SessionRepository
	close    func() error
}

func openStore(cfg config.DatabaseConfig) (*store, error) {
	switch cfg.Driver {
	case "memory":
		db := memory.New()
		return &store{repositories: db, sessions: db.NewSessionRepo(), close: func() error { return nil }}, nil
	case "postgres":
		db, err := postgres.Open(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return &store{repositories: db, sessions: postgres.NewSessionRepo(db), close: db.Close}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// instance bundles the loaded configuration with the wired services.
type instance struct {
	cfg    *config.Config
	log    *zap.Logger
	store  *store
	cal    app.Calendar
	svc    adapthttp.Services
	closer func()
}

func setup(rec app.Recorder) (*instance, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	st, err := openStore(cfg.Database)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	cal := app.NewCalendar(cfg.Location(), time.Now)
	users := app.NewUserService(st, cal)
	rt := &instance{
		cfg:   cfg,
		log:   logger,
		store: st,
		cal:   cal,
		svc: adapthttp.Services{
			Users:    users,
			Auth:     app.NewAuthService(users, st.sessions, cal, cfg.Auth.SessionTTL),
			Rooms:    app.NewRoomService(st, st, st, cal, logger.Named("rooms"), rec),
			Logs:     app.NewLogService(st, st, cal, logger.Named("logs"), rec),
			Plans:    app.NewPlanService(st, st, cal),
			Timeline: app.NewTimelineService(st, st, cal, rec),
		},
	}
	rt.closer = func() {
		if err := st.close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
		_ = logger.Sync()
	}
	return rt, nil
}

// sweep ends rooms past their end date and drops expired sessions.
func (rt *instance) sweep(ctx context.Context) error {
	ended, err := rt.svc.Rooms.SweepRoomStatuses(ctx)
	if err != nil {
		return fmt.Errorf("sweep room statuses: %w", err)
	}
	removed, err := rt.svc.Auth.CleanupExpired(ctx)
	if err != nil {
		return fmt.Errorf("cleanup sessions: %w", err)
	}
	rt.log.Info("sweep finished", zap.Int("rooms_ended", ended), zap.Int64("sessions_removed", removed))
	return nil
}
