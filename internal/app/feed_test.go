package app_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitrooms/internal/app"
	"fitrooms/internal/domain"
)

var d0 = domain.NewDate(2024, time.April, 1)

func testRoom(start domain.Date, days int) domain.Room {
	return domain.Room{
		ID:           uuid.New(),
		Name:         "room",
		DurationDays: days,
		StartDate:    start,
		EndDate:      start.AddDays(days),
		Status:       domain.RoomActive,
	}
}

func member(userID, name string, joined domain.Date, offset time.Duration) domain.Member {
	return domain.Member{
		Membership: domain.Membership{
			ID:       uuid.New(),
			UserID:   userID,
			Role:     domain.RoleMember,
			JoinedAt: joined.StartIn(time.UTC).Add(offset),
		},
		Name: name,
	}
}

func logOn(room domain.Room, userID string, day domain.Date) domain.DailyLog {
	id := room.ID
	return domain.DailyLog{ID: uuid.New(), UserID: userID, LogDate: day, RoomID: &id, SleepHours: 7, EnergyLevel: 3}
}

func logsOnDays(room domain.Room, userID string, days ...int) []domain.DailyLog {
	var out []domain.DailyLog
	for _, d := range days {
		out = append(out, logOn(room, userID, room.StartDate.AddDays(d)))
	}
	return out
}

func TestResolveRoomStatus(t *testing.T) {
	room := testRoom(d0, 30)

	assert.Equal(t, domain.RoomActive, app.ResolveRoomStatus(room, room.EndDate))
	assert.Equal(t, domain.RoomEnded, app.ResolveRoomStatus(room, room.EndDate.AddDays(1)))

	room.Status = domain.RoomDeleted
	assert.Equal(t, domain.RoomDeleted, app.ResolveRoomStatus(room, room.EndDate.AddDays(10)))

	room.Status = domain.RoomEnded
	assert.Equal(t, domain.RoomEnded, app.ResolveRoomStatus(room, d0))
}

func TestBuildRoomFeed_StreakScenario(t *testing.T) {
	room := testRoom(d0, 30)
	a := member("a", "Asha", d0, 0)
	logs := logsOnDays(room, "a", 0, 1, 2, 3, 4, 6)

	feed := app.BuildRoomFeed(room, []domain.Member{a}, logs, d0.AddDays(7))

	require.Len(t, feed.Stats, 1)
	st := feed.Stats[0]
	assert.Equal(t, 1, st.CurrentStreak)
	assert.Equal(t, 6, st.TotalLogged)
	assert.Equal(t, 1, st.MissedDays)

	require.Len(t, feed.Items, 7)
	assert.Equal(t, d0.AddDays(6), feed.Items[0].Date)
	assert.Equal(t, app.FeedLogged, feed.Items[0].Status)
	assert.NotNil(t, feed.Items[0].Log)
	assert.Equal(t, d0.AddDays(5), feed.Items[1].Date)
	assert.Equal(t, app.FeedMissed, feed.Items[1].Status)
	assert.Nil(t, feed.Items[1].Log)
}

func TestBuildRoomFeed_ZeroElapsedDays(t *testing.T) {
	room := testRoom(d0, 30)
	members := []domain.Member{member("a", "A", d0, 0), member("b", "B", d0, time.Minute)}

	feed := app.BuildRoomFeed(room, members, nil, d0)

	assert.Empty(t, feed.Items)
	require.Len(t, feed.Stats, 2)
	for _, st := range feed.Stats {
		assert.Zero(t, st.CurrentStreak)
		assert.Zero(t, st.TotalLogged)
		assert.Zero(t, st.MissedDays)
	}
}

func TestBuildRoomFeed_TodayIsNeverMissed(t *testing.T) {
	room := testRoom(d0, 30)
	today := d0.AddDays(2)
	feed := app.BuildRoomFeed(room, []domain.Member{member("a", "A", d0, 0)}, nil, today)

	for _, it := range feed.Items {
		assert.True(t, it.Date.Before(today))
	}
	assert.Len(t, feed.Items, 2)
}

func TestBuildRoomFeed_StreakCoversElapsedDays(t *testing.T) {
	room := testRoom(d0, 30)
	today := d0.AddDays(10)
	var days []int
	for i := 0; i < 10; i++ {
		days = append(days, i)
	}
	logs := logsOnDays(room, "a", days...)

	feed := app.BuildRoomFeed(room, []domain.Member{member("a", "A", d0, 0)}, logs, today)
	assert.Equal(t, 10, feed.Stats[0].CurrentStreak)
	assert.Zero(t, feed.Stats[0].MissedDays)

	logs = append(logs, logOn(room, "a", today))
	feed = app.BuildRoomFeed(room, []domain.Member{member("a", "A", d0, 0)}, logs, today)
	assert.Equal(t, 11, feed.Stats[0].CurrentStreak, "today counts once logged")
}

func TestBuildRoomFeed_MissedPlusLoggedBounded(t *testing.T) {
	room := testRoom(d0, 30)
	members := []domain.Member{member("a", "A", d0, 0)}
	logs := logsOnDays(room, "a", 0, 2, 5, 8, 9)

	for elapsed := 0; elapsed <= 12; elapsed++ {
		today := d0.AddDays(elapsed)
		var visible []domain.DailyLog
		for _, l := range logs {
			if !l.LogDate.After(today) {
				visible = append(visible, l)
			}
		}
		st := app.BuildRoomFeed(room, members, visible, today).Stats[0]

		assert.Equal(t, len(visible), st.TotalLogged, "elapsed=%d", elapsed)
		assert.GreaterOrEqual(t, st.MissedDays, 0)
		assert.LessOrEqual(t, st.MissedDays+st.TotalLogged, max(elapsed, st.TotalLogged), "elapsed=%d", elapsed)
		assert.Equal(t, max(0, elapsed-st.TotalLogged), st.MissedDays, "elapsed=%d", elapsed)
	}
}

func TestBuildRoomFeed_LoggedTodayAfterGap(t *testing.T) {
	room := testRoom(d0, 30)
	today := d0.AddDays(7)
	logs := logsOnDays(room, "a", 0, 1, 2, 3, 4, 6, 7)

	st := app.BuildRoomFeed(room, []domain.Member{member("a", "A", d0, 0)}, logs, today).Stats[0]
	assert.Equal(t, 7, st.TotalLogged)
	assert.Equal(t, 0, st.MissedDays)
	assert.Equal(t, 2, st.CurrentStreak)
	assert.LessOrEqual(t, st.MissedDays+st.TotalLogged, today.DaysSince(d0)+1)
}

func TestBuildRoomFeed_StopsAtEndDate(t *testing.T) {
	room := testRoom(d0, 30)
	feed := app.BuildRoomFeed(room, []domain.Member{member("a", "A", d0, 0)}, nil, room.EndDate.AddDays(20))

	assert.Len(t, feed.Items, 31)
	assert.Equal(t, room.EndDate, feed.Items[0].Date)
	assert.Equal(t, 30, feed.Stats[0].MissedDays)
}

func TestBuildRoomFeed_LateJoinerStartsAtJoinDay(t *testing.T) {
	room := testRoom(d0, 30)
	late := member("b", "B", d0.AddDays(3), 9*time.Hour)
	feed := app.BuildRoomFeed(room, []domain.Member{late}, logsOnDays(room, "b", 3), d0.AddDays(5))

	for _, it := range feed.Items {
		assert.False(t, it.Date.Before(d0.AddDays(3)), "no items before joining")
	}
	assert.Equal(t, 1, feed.Stats[0].MissedDays)
	assert.Equal(t, 0, feed.Stats[0].CurrentStreak)
}

func TestBuildRoomFeed_SameDayOrderFollowsJoinOrder(t *testing.T) {
	room := testRoom(d0, 30)
	first := member("zed", "Zed", d0, 0)
	second := member("amy", "Amy", d0, time.Hour)

	feed := app.BuildRoomFeed(room, []domain.Member{second, first}, nil, d0.AddDays(2))

	require.Len(t, feed.Items, 4)
	assert.Equal(t, "zed", feed.Items[0].UserID)
	assert.Equal(t, "amy", feed.Items[1].UserID)
	assert.Equal(t, "zed", feed.Items[2].UserID)
	assert.Equal(t, "amy", feed.Items[3].UserID)
	assert.Equal(t, "zed", feed.Stats[0].UserID)
}

func TestBuildRoomFeed_IgnoresOtherRooms(t *testing.T) {
	room := testRoom(d0, 30)
	other := testRoom(d0, 30)
	logs := []domain.DailyLog{logOn(other, "a", d0), logOn(room, "a", d0.AddDays(1))}

	st := app.BuildRoomFeed(room, []domain.Member{member("a", "A", d0, 0)}, logs, d0.AddDays(2)).Stats[0]
	assert.Equal(t, 1, st.TotalLogged)
	assert.Equal(t, 1, st.MissedDays)
}
