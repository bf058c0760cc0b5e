package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"fitrooms/internal/domain"
)

// TimelineFilter narrows a user's timeline. Zero fields do not filter.
type TimelineFilter struct {
	RoomID *uuid.UUID
	From   domain.Date
	To     domain.Date
}

// TimelineStats summarises a user's logging history.
type TimelineStats struct {
	TotalLogs     int `json:"totalLogs"`
	WorkoutDays   int `json:"workoutDays"`
	CurrentStreak int `json:"currentStreak"`
}

// Timeline is a user's filtered log history.
type Timeline struct {
	Logs  []domain.DailyLog `json:"logs"`
	Rooms []domain.Room     `json:"rooms"`
	Stats TimelineStats     `json:"stats"`
}

func (f TimelineFilter) match(l domain.DailyLog) bool {
	if f.RoomID != nil && (l.RoomID == nil || *l.RoomID != *f.RoomID) {
		return false
	}
	if !f.From.IsZero() && l.LogDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && l.LogDate.After(f.To) {
		return false
	}
	return true
}

// BuildUserTimeline filters logs, orders them newest first and computes the
// stats. The streak spans every log regardless of the filter.
func BuildUserTimeline(logs []domain.DailyLog, filter TimelineFilter, today domain.Date) Timeline {
	tl := Timeline{Logs: []domain.DailyLog{}, Rooms: []domain.Room{}}
	logged := make(map[domain.Date]bool, len(logs))
	for _, l := range logs {
		logged[l.LogDate] = true
		if !filter.match(l) {
			continue
		}
		tl.Logs = append(tl.Logs, l)
		if l.WorkoutDone {
			tl.Stats.WorkoutDays++
		}
	}
	sort.SliceStable(tl.Logs, func(i, j int) bool {
		return tl.Logs[i].LogDate.After(tl.Logs[j].LogDate)
	})
	tl.Stats.TotalLogs = len(tl.Logs)
	tl.Stats.CurrentStreak = currentStreak(logged, today, domain.Date{})
	return tl
}

// TimelineService serves a user's cross-room history.
type TimelineService struct {
	rooms domain.RoomRepository
	logs  domain.LogRepository
	cal   Calendar
	rec   Recorder
}

// NewTimelineService creates a TimelineService. A nil rec records nothing.
func NewTimelineService(rooms domain.RoomRepository, logs domain.LogRepository, cal Calendar, rec Recorder) *TimelineService {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &TimelineService{rooms: rooms, logs: logs, cal: cal, rec: rec}
}

// Timeline returns the user's filtered timeline along with the rooms the
// user belongs or belonged to. Deleted rooms are left out.
func (s *TimelineService) Timeline(ctx context.Context, userID string, filter TimelineFilter) (*Timeline, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, domain.Invalid("to", "must not be before from")
	}
	logs, err := s.logs.ListUserLogs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	rooms, err := s.rooms.ListRoomsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	today := s.cal.Today()
	tl := BuildUserTimeline(logs, filter, today)
	for _, r := range rooms {
		if err := refreshRoomStatus(ctx, s.rooms, s.rec, &r, today); err != nil {
			return nil, err
		}
		if r.Status == domain.RoomDeleted {
			continue
		}
		tl.Rooms = append(tl.Rooms, r)
	}
	return &tl, nil
}
