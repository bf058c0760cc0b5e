package adapthttp

import (
	"net/http"

	"fitrooms/internal/app"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": currentUser(r)})
}

func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	var in app.OnboardingInput
	if err := parseJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	user, err := s.svc.Users.CompleteOnboarding(r.Context(), currentUser(r).ID, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var in app.SettingsInput
	if err := parseJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	user, err := s.svc.Users.UpdateSettings(r.Context(), currentUser(r).ID, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.svc.Rooms.Dashboard(r.Context(), currentUser(r).ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}
