package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fitrooms/internal/adapter/memory"
	"fitrooms/internal/app"
	"fitrooms/internal/domain"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advanceDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.AddDate(0, 0, n)
}

type spyRecorder struct {
	mu         sync.Mutex
	logs       int
	created    int
	joins      map[string]int
	roomsEnded int
}

func (r *spyRecorder) LogSubmitted() { r.mu.Lock(); r.logs++; r.mu.Unlock() }
func (r *spyRecorder) RoomCreated()  { r.mu.Lock(); r.created++; r.mu.Unlock() }
func (r *spyRecorder) RoomsEnded(n int) {
	r.mu.Lock()
	r.roomsEnded += n
	r.mu.Unlock()
}
func (r *spyRecorder) RoomJoin(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.joins == nil {
		r.joins = make(map[string]int)
	}
	r.joins[result]++
}

type fixture struct {
	db       *memory.DB
	clock    *fakeClock
	rec      *spyRecorder
	users    *app.UserService
	rooms    *app.RoomService
	logs     *app.LogService
	plans    *app.PlanService
	timeline *app.TimelineService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.New()
	clock := &fakeClock{t: time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC)}
	cal := app.NewCalendar(time.UTC, clock.Now)
	rec := &spyRecorder{}
	return &fixture{
		db:       db,
		clock:    clock,
		rec:      rec,
		users:    app.NewUserService(db, cal),
		rooms:    app.NewRoomService(db, db, db, cal, zap.NewNop(), rec),
		logs:     app.NewLogService(db, db, cal, zap.NewNop(), rec),
		plans:    app.NewPlanService(db, db, cal),
		timeline: app.NewTimelineService(db, db, cal, rec),
	}
}

func (f *fixture) user(t *testing.T, id string) *domain.User {
	t.Helper()
	u, err := f.users.GetOrCreateUser(context.Background(), domain.Identity{ExternalID: id, Email: id + "@example.com"})
	require.NoError(t, err)
	return u
}

func (f *fixture) room(t *testing.T, creator string) *domain.Room {
	t.Helper()
	r, err := f.rooms.CreateRoom(context.Background(), creator, app.RoomInput{Name: "Spring", DurationDays: 30})
	require.NoError(t, err)
	return r
}

func entry() app.LogInput {
	breakfast := "poha"
	sleep := 7.0
	energy := 3
	return app.LogInput{Breakfast: &breakfast, SleepHours: &sleep, EnergyLevel: &energy}
}

func entryFor(roomID string) app.LogInput {
	in := entry()
	in.RoomID = &roomID
	return in
}
