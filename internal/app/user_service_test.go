package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitrooms/internal/app"
	"fitrooms/internal/domain"
)

func TestGetOrCreateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.GetOrCreateUser(ctx, domain.Identity{ExternalID: "user_abc", Email: "neha@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "neha", u.Name)
	assert.False(t, u.Onboarded)

	again, err := f.users.GetOrCreateUser(ctx, domain.Identity{ExternalID: "user_abc", DisplayName: "Other"})
	require.NoError(t, err)
	assert.Equal(t, u.CreatedAt, again.CreatedAt)
	assert.Equal(t, "neha", again.Name)

	_, err = f.users.GetOrCreateUser(ctx, domain.Identity{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.users.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestOnboardingAndSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "u")

	height, weight, sleep := 172.0, 70.0, 7.5
	u, err := f.users.CompleteOnboarding(ctx, "u", app.OnboardingInput{
		Name:             "Ravi",
		HeightCm:         &height,
		Weight:           &weight,
		ActivityLevel:    "moderately_active",
		SleepHours:       &sleep,
		WorkoutFrequency: "daily",
		FitnessGoal:      "build_muscle",
	})
	require.NoError(t, err)
	assert.True(t, u.Onboarded)

	stored, err := f.users.Get(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", stored.Name)
	assert.Equal(t, domain.FrequencyDaily, *stored.Profile.WorkoutFrequency)

	_, err = f.users.CompleteOnboarding(ctx, "u", app.OnboardingInput{Name: "Ravi"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	u, err = f.users.UpdateSettings(ctx, "u", app.SettingsInput{Name: "Ravi K", HeightCm: &height})
	require.NoError(t, err)
	assert.Equal(t, "Ravi K", u.Name)
	assert.True(t, u.Onboarded)
	assert.Nil(t, u.Profile.FitnessGoal)
	assert.Equal(t, 70.0, *u.Profile.StartingWeightKg)

	_, err = f.users.UpdateSettings(ctx, "ghost", app.SettingsInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
