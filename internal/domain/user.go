package domain

import (
	"context"
	"time"
)

// User is a person known to the system. ID is the opaque, stable identifier
// supplied by the identity provider.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Profile   Profile   `json:"profile"`
	Onboarded bool      `json:"onboarded"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile holds the optional fitness profile fields of a user.
type Profile struct {
	HeightCm          *float64          `json:"heightCm"`
	StartingWeightKg  *float64          `json:"startingWeightKg"`
	ActivityLevel     *ActivityLevel    `json:"activityLevel"`
	TypicalSleepHours *float64          `json:"typicalSleepHours"`
	WorkoutFrequency  *WorkoutFrequency `json:"workoutFrequency"`
	FitnessGoal       *FitnessGoal      `json:"fitnessGoal"`
}

// Identity is what an identity provider asserts about an authenticated
// principal.
type Identity struct {
	ExternalID  string
	Email       string
	DisplayName string
}

// UserRepository is the port for user persistence. Lookups return (nil, nil)
// when no user matches.
type UserRepository interface {
	GetUser(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, u User) (*User, error)
	UpdateUser(ctx context.Context, u User) error
}
