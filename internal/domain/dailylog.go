package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DailyLog is the write-once record of one user's calendar day. Optional
// fields are nil when not provided.
type DailyLog struct {
	ID          uuid.UUID  `json:"id"`
	UserID      string     `json:"userId"`
	LogDate     Date       `json:"logDate"`
	RoomID      *uuid.UUID `json:"roomId"`
	SubmittedAt time.Time  `json:"submittedAt"`

	Breakfast     *string `json:"breakfast"`
	Lunch         *string `json:"lunch"`
	EveningSnacks *string `json:"eveningSnacks"`
	Dinner        *string `json:"dinner"`

	WorkoutDone            bool         `json:"workoutDone"`
	WorkoutType            *WorkoutType `json:"workoutType"`
	WorkoutDurationMinutes *int         `json:"workoutDurationMinutes"`
	WorkoutIntensity       *int         `json:"workoutIntensity"`

	SleepHours  float64  `json:"sleepHours"`
	EnergyLevel int      `json:"energyLevel"`
	WeightKg    *float64 `json:"weightKg"`

	Note *string `json:"note"`
}

// LogRepository is the port for daily log persistence. There is no update or
// delete.
type LogRepository interface {
	// InsertLog stores l, failing with ErrDuplicateLog when the user already
	// has a log for l.LogDate.
	InsertLog(ctx context.Context, l DailyLog) error
	// GetLog returns the user's log for day, or (nil, nil).
	GetLog(ctx context.Context, userID string, day Date) (*DailyLog, error)
	ListRoomLogs(ctx context.Context, roomID uuid.UUID) ([]DailyLog, error)
	// ListUserLogs returns every log of the user, newest first.
	ListUserLogs(ctx context.Context, userID string) ([]DailyLog, error)
}
