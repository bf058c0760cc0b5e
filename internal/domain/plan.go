package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Plan is the shared, versioned commitment document of a room.
type Plan struct {
	ID                    uuid.UUID `json:"id"`
	RoomID                uuid.UUID `json:"roomId"`
	Expectations          *string   `json:"expectations"`
	Strategy              *string   `json:"strategy"`
	Targets               *string   `json:"targets"`
	MinWorkoutDaysPerWeek int       `json:"minWorkoutDaysPerWeek"`
	MinLoggingDaysPerWeek int       `json:"minLoggingDaysPerWeek"`
	Version               int       `json:"version"`
	LastUpdatedBy         *string   `json:"lastUpdatedBy"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// PlanRepository is the port for plan persistence.
type PlanRepository interface {
	// GetPlan returns the plan of a room, or (nil, nil).
	GetPlan(ctx context.Context, roomID uuid.UUID) (*Plan, error)
	// SavePlan inserts p at version 1 or, when the room already has a plan,
	// overwrites its content and increments the version. The stored plan is
	// returned.
	SavePlan(ctx context.Context, p Plan) (*Plan, error)
}
