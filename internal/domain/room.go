package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MaxRoomMembers is the capacity of every room.
const MaxRoomMembers = 5

// DefaultDeadlineTime is the daily deadline used when none is given.
const DefaultDeadlineTime = "23:59:00"

// AllowedDurations lists the challenge lengths a room may be created with.
var AllowedDurations = []int{30, 60, 90}

// Room is a private, fixed-duration accountability group.
type Room struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	DurationDays int        `json:"durationDays"`
	DeadlineTime string     `json:"deadlineTime"`
	StartDate    Date       `json:"startDate"`
	EndDate      Date       `json:"endDate"`
	Status       RoomStatus `json:"status"`
	InviteToken  string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Membership links a user to a room.
type Membership struct {
	ID       uuid.UUID  `json:"id"`
	RoomID   uuid.UUID  `json:"roomId"`
	UserID   string     `json:"userId"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joinedAt"`
}

// Member is a membership joined with the member's display name.
type Member struct {
	Membership
	Name string `json:"name"`
}

// RoomRepository is the port for room and membership persistence. Single
// lookups return (nil, nil) when nothing matches.
type RoomRepository interface {
	// CreateRoom stores the room and its creator membership atomically.
	CreateRoom(ctx context.Context, room Room, creator Membership) error
	GetRoom(ctx context.Context, id uuid.UUID) (*Room, error)
	GetRoomByInviteToken(ctx context.Context, token string) (*Room, error)
	ListRoomsByStatus(ctx context.Context, status RoomStatus) ([]Room, error)
	ListRoomsForUser(ctx context.Context, userID string) ([]Room, error)
	// MarkRoomEnded moves an active room to ended and reports whether a row
	// changed.
	MarkRoomEnded(ctx context.Context, id uuid.UUID) (bool, error)
	MarkRoomDeleted(ctx context.Context, id uuid.UUID) error

	// AddMember inserts m unless the user is already a member
	// (ErrAlreadyMember) or the room holds capacity members (ErrRoomFull).
	// The check and the insert are atomic.
	AddMember(ctx context.Context, m Membership, capacity int) error
	GetMembership(ctx context.Context, roomID uuid.UUID, userID string) (*Membership, error)
	ListMembers(ctx context.Context, roomID uuid.UUID) ([]Member, error)
	CountMembers(ctx context.Context, roomID uuid.UUID) (int, error)
}
