package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitrooms/internal/domain"
)

func newRoom(t *testing.T, db *DB, creator string) domain.Room {
	t.Helper()
	start := domain.NewDate(2024, time.January, 1)
	room := domain.Room{
		ID:           uuid.New(),
		Name:         "January cut",
		DurationDays: 30,
		DeadlineTime: domain.DefaultDeadlineTime,
		StartDate:    start,
		EndDate:      start.AddDays(30),
		Status:       domain.RoomActive,
		InviteToken:  uuid.NewString(),
		CreatedAt:    time.Now(),
	}
	creatorM := domain.Membership{ID: uuid.New(), RoomID: room.ID, UserID: creator, Role: domain.RoleCreator, JoinedAt: time.Now()}
	require.NoError(t, db.CreateRoom(context.Background(), room, creatorM))
	return room
}

func TestUserRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	u, err := db.GetUser(ctx, "user_1")
	require.NoError(t, err)
	assert.Nil(t, u)

	_, err = db.CreateUser(ctx, domain.User{ID: "user_1", Email: "a@example.com", Name: "A"})
	require.NoError(t, err)
	_, err = db.CreateUser(ctx, domain.User{ID: "user_2", Email: "a@example.com"})
	assert.Error(t, err, "email must be unique")

	u, err = db.GetUser(ctx, "user_1")
	require.NoError(t, err)
	require.NotNil(t, u)
	u.Name = "Renamed"
	require.NoError(t, db.UpdateUser(ctx, *u))

	u, _ = db.GetUser(ctx, "user_1")
	assert.Equal(t, "Renamed", u.Name)
	assert.ErrorIs(t, db.UpdateUser(ctx, domain.User{ID: "ghost"}), domain.ErrNotFound)
}

func TestAddMemberCapacity(t *testing.T) {
	db := New()
	ctx := context.Background()
	room := newRoom(t, db, "creator")

	for i := 1; i < domain.MaxRoomMembers; i++ {
		m := domain.Membership{ID: uuid.New(), RoomID: room.ID, UserID: uuid.NewString(), Role: domain.RoleMember, JoinedAt: time.Now()}
		require.NoError(t, db.AddMember(ctx, m, domain.MaxRoomMembers))
	}

	extra := domain.Membership{ID: uuid.New(), RoomID: room.ID, UserID: "sixth", Role: domain.RoleMember}
	assert.ErrorIs(t, db.AddMember(ctx, extra, domain.MaxRoomMembers), domain.ErrRoomFull)

	again := domain.Membership{ID: uuid.New(), RoomID: room.ID, UserID: "creator", Role: domain.RoleMember}
	assert.ErrorIs(t, db.AddMember(ctx, again, domain.MaxRoomMembers), domain.ErrAlreadyMember)

	n, err := db.CountMembers(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxRoomMembers, n)
}

func TestRoomStatusTransitions(t *testing.T) {
	db := New()
	ctx := context.Background()
	room := newRoom(t, db, "creator")

	changed, err := db.MarkRoomEnded(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = db.MarkRoomEnded(ctx, room.ID)
	require.NoError(t, err)
	assert.False(t, changed, "ending twice is a no-op")

	active, err := db.ListRoomsByStatus(ctx, domain.RoomActive)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, db.MarkRoomDeleted(ctx, room.ID))
	got, err := db.GetRoomByInviteToken(ctx, room.InviteToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomDeleted, got.Status)

	rooms, err := db.ListRoomsForUser(ctx, "creator")
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestLogRepository(t *testing.T) {
	db := New()
	ctx := context.Background()
	roomID := uuid.New()
	day := domain.NewDate(2024, time.March, 10)

	l := domain.DailyLog{ID: uuid.New(), UserID: "u", LogDate: day, RoomID: &roomID, SleepHours: 7, EnergyLevel: 3}
	require.NoError(t, db.InsertLog(ctx, l))

	dup := l
	dup.ID = uuid.New()
	dup.RoomID = nil
	assert.ErrorIs(t, db.InsertLog(ctx, dup), domain.ErrDuplicateLog)

	require.NoError(t, db.InsertLog(ctx, domain.DailyLog{ID: uuid.New(), UserID: "u", LogDate: day.AddDays(1)}))

	got, err := db.GetLog(ctx, "u", day)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Breakfast)
	assert.Nil(t, got.WeightKg)

	userLogs, err := db.ListUserLogs(ctx, "u")
	require.NoError(t, err)
	require.Len(t, userLogs, 2)
	assert.Equal(t, day.AddDays(1), userLogs[0].LogDate)

	roomLogs, err := db.ListRoomLogs(ctx, roomID)
	require.NoError(t, err)
	assert.Len(t, roomLogs, 1)
}

func TestPlanVersioning(t *testing.T) {
	db := New()
	ctx := context.Background()
	roomID := uuid.New()

	p, err := db.SavePlan(ctx, domain.Plan{ID: uuid.New(), RoomID: roomID, MinLoggingDaysPerWeek: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Version)
	firstID := p.ID

	p, err = db.SavePlan(ctx, domain.Plan{ID: uuid.New(), RoomID: roomID, MinLoggingDaysPerWeek: 6})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Version)
	assert.Equal(t, firstID, p.ID)

	got, err := db.GetPlan(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.MinLoggingDaysPerWeek)
}

func TestSessionRepo(t *testing.T) {
	db := New()
	repo := db.NewSessionRepo()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, domain.Session{TokenHash: "live", UserID: "u", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, domain.Session{TokenHash: "stale", UserID: "u", ExpiresAt: now.Add(-time.Hour)}))

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	s, err := repo.GetByTokenHash(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, s)

	require.NoError(t, repo.Delete(ctx, "live"))
	s, err = repo.GetByTokenHash(ctx, "live")
	require.NoError(t, err)
	assert.Nil(t, s)
}
