package app_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitrooms/internal/app"
	"fitrooms/internal/domain"
)

func TestBuildUserTimeline_Filters(t *testing.T) {
	roomA := testRoom(d0, 30)
	roomB := testRoom(d0, 30)
	logs := []domain.DailyLog{
		logOn(roomA, "u", d0),
		logOn(roomB, "u", d0.AddDays(1)),
		logOn(roomA, "u", d0.AddDays(2)),
		logOn(roomA, "u", d0.AddDays(3)),
	}
	logs[2].WorkoutDone = true
	logs[1].WorkoutDone = true
	today := d0.AddDays(4)

	all := app.BuildUserTimeline(logs, app.TimelineFilter{}, today)
	require.Len(t, all.Logs, 4)
	assert.Equal(t, d0.AddDays(3), all.Logs[0].LogDate)
	assert.Equal(t, 4, all.Stats.TotalLogs)
	assert.Equal(t, 2, all.Stats.WorkoutDays)
	assert.Equal(t, 4, all.Stats.CurrentStreak)

	filtered := app.BuildUserTimeline(logs, app.TimelineFilter{
		RoomID: &roomA.ID,
		From:   d0.AddDays(1),
		To:     d0.AddDays(2),
	}, today)
	require.Len(t, filtered.Logs, 1)
	assert.Equal(t, d0.AddDays(2), filtered.Logs[0].LogDate)
	assert.Equal(t, 1, filtered.Stats.TotalLogs)
	assert.Equal(t, 1, filtered.Stats.WorkoutDays)
	assert.Equal(t, 4, filtered.Stats.CurrentStreak, "streak ignores filters")
}

func TestBuildUserTimeline_StreakAcrossRooms(t *testing.T) {
	var logs []domain.DailyLog
	for i := 0; i < 5; i++ {
		l := logOn(testRoom(d0, 30), "u", d0.AddDays(i))
		if i%2 == 0 {
			l.RoomID = nil
		}
		logs = append(logs, l)
	}

	tl := app.BuildUserTimeline(logs, app.TimelineFilter{}, d0.AddDays(4))
	assert.Equal(t, 5, tl.Stats.CurrentStreak)

	tl = app.BuildUserTimeline(logs, app.TimelineFilter{}, d0.AddDays(6))
	assert.Zero(t, tl.Stats.CurrentStreak, "a missed yesterday breaks the streak")
}

func TestBuildUserTimeline_StreakCap(t *testing.T) {
	var logs []domain.DailyLog
	for i := 0; i < 400; i++ {
		logs = append(logs, domain.DailyLog{ID: uuid.New(), UserID: "u", LogDate: d0.AddDays(i)})
	}
	tl := app.BuildUserTimeline(logs, app.TimelineFilter{}, d0.AddDays(399))
	assert.Equal(t, 365, tl.Stats.CurrentStreak)
}
