package adapthttp

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fitrooms/internal/app"
	"fitrooms/internal/domain"
)

func (s *Server) handleLogToday(w http.ResponseWriter, r *http.Request) {
	l, err := s.svc.Logs.Today(r.Context(), currentUser(r).ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"log": l, "hasLoggedToday": l != nil})
}

func (s *Server) handleSubmitLog(w http.ResponseWriter, r *http.Request) {
	var in app.LogInput
	if err := parseJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	l, err := s.svc.Logs.Submit(r.Context(), currentUser(r).ID, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"log": l})
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	var filter app.TimelineFilter
	var err error
	if filter.From, err = dateQuery(r, "from"); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if filter.To, err = dateQuery(r, "to"); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if v := r.URL.Query().Get("room"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			s.writeServiceError(w, r, domain.Invalid("room", "must be a room id"))
			return
		}
		filter.RoomID = &id
	}

	tl, err := s.svc.Timeline.Timeline(r.Context(), currentUser(r).ID, filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tl)
}

func (s *Server) handleCronRoomStatus(w http.ResponseWriter, r *http.Request) {
	ended, err := s.svc.Rooms.SweepRoomStatuses(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	removed, err := s.svc.Auth.CleanupExpired(r.Context())
	if err != nil {
		s.log.Warn("session cleanup failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, map[string]any{"ended": ended, "sessionsRemoved": removed})
}
