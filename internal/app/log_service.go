package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fitrooms/internal/domain"
)

// LogService encapsulates daily log use cases.
type LogService struct {
	logs  domain.LogRepository
	rooms domain.RoomRepository
	cal   Calendar
	log   *zap.Logger
	rec   Recorder
}

// NewLogService creates a LogService. A nil logger or recorder disables that
// output.
func NewLogService(logs domain.LogRepository, rooms domain.RoomRepository, cal Calendar, logger *zap.Logger, rec Recorder) *LogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = NopRecorder{}
	}
	return &LogService{logs: logs, rooms: rooms, cal: cal, log: logger, rec: rec}
}

// Today returns the user's log for today, or nil when none exists yet.
func (s *LogService) Today(ctx context.Context, userID string) (*domain.DailyLog, error) {
	l, err := s.logs.GetLog(ctx, userID, s.cal.Today())
	if err != nil {
		return nil, fmt.Errorf("get today's log: %w", err)
	}
	return l, nil
}

// Submit validates in and records it as the user's log for today. A second
// submission on the same day fails with domain.ErrDuplicateLog.
func (s *LogService) Submit(ctx context.Context, userID string, in LogInput) (*domain.DailyLog, error) {
	l, err := validateLog(in)
	if err != nil {
		return nil, err
	}

	today := s.cal.Today()
	if in.RoomID != nil && *in.RoomID != "" {
		roomID, err := uuid.Parse(*in.RoomID)
		if err != nil {
			return nil, domain.Invalid("roomId", "must be a room id")
		}
		room, _, err := loadMemberRoom(ctx, s.rooms, roomID, userID, nil)
		if err != nil {
			return nil, err
		}
		if ResolveRoomStatus(*room, today) != domain.RoomActive {
			return nil, domain.ErrRoomNotActive
		}
		l.RoomID = &roomID
	}

	l.ID = uuid.New()
	l.UserID = userID
	l.LogDate = today
	l.SubmittedAt = s.cal.Now()

	if err := s.logs.InsertLog(ctx, l); err != nil {
		if errors.Is(err, domain.ErrDuplicateLog) {
			return nil, err
		}
		return nil, fmt.Errorf("insert log: %w", err)
	}
	s.rec.LogSubmitted()
	s.log.Debug("daily log submitted",
		zap.String("user_id", userID),
		zap.Stringer("log_date", today),
		zap.Bool("workout_done", l.WorkoutDone))
	return &l, nil
}
