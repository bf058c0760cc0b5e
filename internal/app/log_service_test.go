package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitrooms/internal/adapter/memory"
	"fitrooms/internal/app"
	"fitrooms/internal/domain"
)

type mockLogRepo struct {
	insertFn func(ctx context.Context, l domain.DailyLog) error
	getFn    func(ctx context.Context, userID string, day domain.Date) (*domain.DailyLog, error)
}

func (m *mockLogRepo) InsertLog(ctx context.Context, l domain.DailyLog) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, l)
	}
	return nil
}

func (m *mockLogRepo) GetLog(ctx context.Context, userID string, day domain.Date) (*domain.DailyLog, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, day)
	}
	return nil, nil
}

func (m *mockLogRepo) ListRoomLogs(ctx context.Context, roomID uuid.UUID) ([]domain.DailyLog, error) {
	return nil, nil
}

func (m *mockLogRepo) ListUserLogs(ctx context.Context, userID string) ([]domain.DailyLog, error) {
	return nil, nil
}

func TestSubmit_InvalidInputInsertsNothing(t *testing.T) {
	inserted := false
	repo := &mockLogRepo{insertFn: func(context.Context, domain.DailyLog) error {
		inserted = true
		return nil
	}}
	svc := app.NewLogService(repo, memory.New(), app.NewCalendar(time.UTC, nil), nil, nil)

	in := entry()
	energy := 6
	in.EnergyLevel = &energy
	_, err := svc.Submit(context.Background(), "u", in)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, inserted)
}

func TestSubmit_StorageErrorIsNotDuplicate(t *testing.T) {
	repo := &mockLogRepo{insertFn: func(context.Context, domain.DailyLog) error {
		return domain.Storage("insert log", errors.New("connection refused"))
	}}
	svc := app.NewLogService(repo, memory.New(), app.NewCalendar(time.UTC, nil), nil, nil)

	_, err := svc.Submit(context.Background(), "u", entry())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.NotErrorIs(t, err, domain.ErrDuplicateLog)
}

func TestSubmit_OncePerDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	l, err := f.logs.Submit(ctx, "u", entry())
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2024, time.April, 1), l.LogDate)

	_, err = f.logs.Submit(ctx, "u", entry())
	assert.ErrorIs(t, err, domain.ErrDuplicateLog)

	today, err := f.logs.Today(ctx, "u")
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, l.ID, today.ID)

	f.clock.advanceDays(1)
	today, err = f.logs.Today(ctx, "u")
	require.NoError(t, err)
	assert.Nil(t, today)

	_, err = f.logs.Submit(ctx, "u", entry())
	assert.NoError(t, err)
	assert.Equal(t, 2, f.rec.logs)
}

func TestSubmit_OptionalFieldsStayNull(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.logs.Submit(ctx, "u", entry())
	require.NoError(t, err)

	got, err := f.logs.Today(ctx, "u")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.RoomID)
	assert.Nil(t, got.Lunch)
	assert.Nil(t, got.EveningSnacks)
	assert.Nil(t, got.Dinner)
	assert.Nil(t, got.WorkoutType)
	assert.Nil(t, got.WorkoutDurationMinutes)
	assert.Nil(t, got.WorkoutIntensity)
	assert.Nil(t, got.WeightKg)
	assert.Nil(t, got.Note)
}

func TestSubmit_RoomChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := f.room(t, "creator")

	_, err := f.logs.Submit(ctx, "stranger", entryFor(room.ID.String()))
	assert.ErrorIs(t, err, domain.ErrNotMember)

	_, err = f.logs.Submit(ctx, "creator", entryFor("not-a-uuid"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	f.clock.advanceDays(31)
	_, err = f.logs.Submit(ctx, "creator", entryFor(room.ID.String()))
	assert.ErrorIs(t, err, domain.ErrRoomNotActive)

	l, err := f.logs.Submit(ctx, "creator", entry())
	require.NoError(t, err, "a log without a room is still allowed")
	assert.Nil(t, l.RoomID)
}

func TestSubmit_UsesApplicationTimeZone(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	db := memory.New()
	now := time.Date(2024, time.May, 1, 20, 0, 0, 0, time.UTC)
	svc := app.NewLogService(db, db, app.NewCalendar(ist, func() time.Time { return now }), nil, nil)

	l, err := svc.Submit(context.Background(), "u", entry())
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2024, time.May, 2), l.LogDate)
}
