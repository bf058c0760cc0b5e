package app

import (
	"sort"

	"fitrooms/internal/domain"
)

// FeedStatus tells whether a member logged a given day.
type FeedStatus string

const (
	FeedLogged FeedStatus = "logged"
	FeedMissed FeedStatus = "missed"
)

// FeedItem is one member's outcome for one day. Log is set for logged items.
type FeedItem struct {
	Date     domain.Date      `json:"date"`
	UserID   string           `json:"userId"`
	UserName string           `json:"userName"`
	Status   FeedStatus       `json:"status"`
	Log      *domain.DailyLog `json:"log,omitempty"`
}

// MemberStats aggregates one member's activity in a room.
type MemberStats struct {
	UserID        string            `json:"userId"`
	UserName      string            `json:"userName"`
	Role          domain.MemberRole `json:"role"`
	CurrentStreak int               `json:"currentStreak"`
	TotalLogged   int               `json:"totalLogged"`
	MissedDays    int               `json:"missedDays"`
}

// RoomFeed is the derived activity view of a room.
type RoomFeed struct {
	Items []FeedItem    `json:"items"`
	Stats []MemberStats `json:"stats"`
}

// BuildRoomFeed derives the feed and member stats of room on today from its
// members and the logs linked to it.
//
// Each member is evaluated from the later of the room start and the day they
// joined (taken in the location of JoinedAt), up to the earlier of today and
// the room end. A day with a log is logged; a day before today without one is
// missed. Items are ordered newest first, and items of the same day follow
// member join order.
func BuildRoomFeed(room domain.Room, members []domain.Member, logs []domain.DailyLog, today domain.Date) RoomFeed {
	ordered := make([]domain.Member, len(members))
	copy(ordered, members)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.UserID < b.UserID
	})

	byUser := make(map[string]map[domain.Date]*domain.DailyLog, len(ordered))
	for i := range logs {
		l := &logs[i]
		if l.RoomID == nil || *l.RoomID != room.ID {
			continue
		}
		days := byUser[l.UserID]
		if days == nil {
			days = make(map[domain.Date]*domain.DailyLog)
			byUser[l.UserID] = days
		}
		days[l.LogDate] = l
	}

	last := domain.MinDate(today, room.EndDate)
	feed := RoomFeed{Items: []FeedItem{}, Stats: make([]MemberStats, 0, len(ordered))}

	for _, m := range ordered {
		days := byUser[m.UserID]
		start := evaluationStart(room, m)

		for day := start; !day.After(last); day = day.AddDays(1) {
			if l, ok := days[day]; ok {
				feed.Items = append(feed.Items, FeedItem{Date: day, UserID: m.UserID, UserName: m.Name, Status: FeedLogged, Log: l})
			} else if day.Before(today) {
				feed.Items = append(feed.Items, FeedItem{Date: day, UserID: m.UserID, UserName: m.Name, Status: FeedMissed})
			}
		}

		logged := make(map[domain.Date]bool, len(days))
		for d := range days {
			logged[d] = true
		}

		elapsed := max(0, last.DaysSince(start))

		feed.Stats = append(feed.Stats, MemberStats{
			UserID:        m.UserID,
			UserName:      m.Name,
			Role:          m.Role,
			CurrentStreak: currentStreak(logged, today, start),
			TotalLogged:   len(days),
			MissedDays:    max(0, elapsed-len(days)),
		})
	}

	// Items were appended in member order, so a stable sort on date keeps
	// that order within a day.
	sort.SliceStable(feed.Items, func(i, j int) bool {
		return feed.Items[i].Date.After(feed.Items[j].Date)
	})
	return feed
}

func evaluationStart(room domain.Room, m domain.Member) domain.Date {
	if m.JoinedAt.IsZero() {
		return room.StartDate
	}
	return domain.MaxDate(room.StartDate, domain.DateOf(m.JoinedAt, nil))
}
