package app_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitrooms/internal/app"
	"fitrooms/internal/domain"
)

func TestPlanService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := f.room(t, "creator")
	_, err := f.rooms.JoinRoom(ctx, room.InviteToken, "member")
	require.NoError(t, err)

	p, err := f.plans.Get(ctx, room.ID, "member")
	require.NoError(t, err)
	assert.Nil(t, p)

	strategy := "walk after dinner"
	p, err = f.plans.Save(ctx, room.ID, "creator", app.PlanInput{Strategy: &strategy})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Version)
	assert.Equal(t, "creator", *p.LastUpdatedBy)

	workouts := 3
	p, err = f.plans.Save(ctx, room.ID, "member", app.PlanInput{MinWorkoutDaysPerWeek: &workouts})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Version)
	assert.Equal(t, "member", *p.LastUpdatedBy)
	assert.Nil(t, p.Strategy, "a save replaces the whole plan")

	_, err = f.plans.Save(ctx, room.ID, "outsider", app.PlanInput{})
	assert.ErrorIs(t, err, domain.ErrNotMember)
	_, err = f.plans.Get(ctx, uuid.New(), "member")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	view, err := f.rooms.GetRoom(ctx, room.ID, "creator")
	require.NoError(t, err)
	require.NotNil(t, view.Plan)
	assert.Equal(t, 2, view.Plan.Version)
}
