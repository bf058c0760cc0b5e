package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fitrooms/internal/app"
)

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var in app.RoomInput
	if err := parseJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	room, err := s.svc.Rooms.CreateRoom(r.Context(), currentUser(r).ID, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"room": room, "inviteToken": room.InviteToken})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	view, err := s.svc.Rooms.GetRoom(r.Context(), roomID, currentUser(r).ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := s.svc.Rooms.DeleteRoom(r.Context(), roomID, currentUser(r).ID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleRoomFeed(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	feed, err := s.svc.Rooms.Feed(r.Context(), roomID, currentUser(r).ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (s *Server) handleRoomInvite(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	token, err := s.svc.Rooms.Invite(r.Context(), roomID, currentUser(r).ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"inviteToken": token})
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	plan, err := s.svc.Plans.Get(r.Context(), roomID, currentUser(r).ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plan": plan})
}

func (s *Server) handleSavePlan(w http.ResponseWriter, r *http.Request) {
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var in app.PlanInput
	if err := parseJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	plan, err := s.svc.Plans.Save(r.Context(), roomID, currentUser(r).ID, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plan": plan})
}

func (s *Server) handlePreviewInvite(w http.ResponseWriter, r *http.Request) {
	preview, err := s.svc.Rooms.PreviewInvite(r.Context(), chi.URLParam(r, "token"), currentUser(r).ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.svc.Rooms.JoinRoom(r.Context(), chi.URLParam(r, "token"), currentUser(r).ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room": room})
}
