// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/handlers"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	"fitrooms/internal/app"
	"fitrooms/internal/config"
	"fitrooms/internal/metrics"
)

// Services are the application services the HTTP adapter drives.
type Services struct {
	Users    *app.UserService
	Auth     *app.AuthService
	Rooms    *app.RoomService
	Logs     *app.LogService
	Plans    *app.PlanService
	Timeline *app.TimelineService
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	svc     Services
	cfg     config.Config
	oidc    *OIDC
	cookies *securecookie.SecureCookie
	joins   *clientLimiter
	log     *zap.Logger
	metrics *metrics.Metrics
}

// New creates a Server. oidc may be nil when single sign-on is disabled and
// m may be nil to skip request metrics.
func New(svc Services, cfg config.Config, oidc *OIDC, logger *zap.Logger, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	hashKey := []byte(cfg.Auth.SessionKey)
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
	}
	return &Server{
		svc:     svc,
		cfg:     cfg,
		oidc:    oidc,
		cookies: securecookie.New(hashKey, nil),
		joins:   newClientLimiter(cfg.HTTP.JoinRate, cfg.HTTP.JoinBurst),
		log:     logger,
		metrics: m,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recoverer, s.accessLog)
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/auth/sso/login", s.handleSSOLogin)
	r.Get("/auth/sso/callback", s.handleSSOCallback)

	r.Route("/api", func(api chi.Router) {
		api.Use(withNoCache)
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})
		api.Get("/config", s.handleConfig)
		api.Route("/cron/room-status", func(c chi.Router) {
			c.Use(s.cronAuth)
			c.Get("/", s.handleCronRoomStatus)
			c.Post("/", s.handleCronRoomStatus)
		})

		api.Group(func(p chi.Router) {
			p.Use(s.authMiddleware)

			p.Post("/auth/logout", s.handleLogout)

			p.Get("/me", s.handleMe)
			p.Post("/me/onboarding", s.handleOnboarding)
			p.Put("/me/settings", s.handleSettings)
			p.Get("/dashboard", s.handleDashboard)

			p.Post("/rooms", s.handleCreateRoom)
			p.Route("/rooms/{roomID}", func(room chi.Router) {
				room.Get("/", s.handleGetRoom)
				room.Delete("/", s.handleDeleteRoom)
				room.Get("/feed", s.handleRoomFeed)
				room.Get("/invite", s.handleRoomInvite)
				room.Get("/plan", s.handleGetPlan)
				room.Put("/plan", s.handleSavePlan)
			})

			p.Get("/invites/{token}", s.handlePreviewInvite)
			p.With(s.rateLimitJoins).Post("/invites/{token}/join", s.handleJoinRoom)

			p.Get("/logs/today", s.handleLogToday)
			p.Post("/logs", s.handleSubmitLog)
			p.Get("/timeline", s.handleTimeline)
		})
	})

	if s.cfg.HTTP.WebDir != "" {
		r.Handle("/*", spaFromDisk(s.cfg.HTTP.WebDir))
	}

	if len(s.cfg.HTTP.AllowedOrigins) == 0 {
		return r
	}
	return handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(s.cfg.HTTP.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(r)
}
