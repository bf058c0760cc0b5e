// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fitrooms/internal/domain"
)

// DB implements an in-memory database storage with the same constraints as
// the PostgreSQL schema.
type DB struct {
	mu          sync.Mutex
	users       map[string]domain.User
	rooms       map[uuid.UUID]domain.Room
	memberships []domain.Membership
	logs        []domain.DailyLog
	plans       map[uuid.UUID]domain.Plan
	sessions    map[string]*domain.Session
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		users:    make(map[string]domain.User),
		rooms:    make(map[uuid.UUID]domain.Room),
		plans:    make(map[uuid.UUID]domain.Plan),
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.RoomRepository = (*DB)(nil)
var _ domain.LogRepository = (*DB)(nil)
var _ domain.PlanRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

var errDuplicateUser = errors.New("user already exists")

// --- UserRepository ---

// GetUser returns the user with the given id.
func (db *DB) GetUser(ctx context.Context, id string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// CreateUser stores a new user. Ids and emails are unique.
func (db *DB) CreateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[u.ID]; ok {
		return nil, errDuplicateUser
	}
	for _, existing := range db.users {
		if u.Email != "" && existing.Email == u.Email {
			return nil, errDuplicateUser
		}
	}
	db.users[u.ID] = u
	return &u, nil
}

// UpdateUser overwrites an existing user.
func (db *DB) UpdateUser(ctx context.Context, u domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	db.users[u.ID] = u
	return nil
}

// --- RoomRepository ---

// CreateRoom stores a room together with its creator membership.
func (db *DB) CreateRoom(ctx context.Context, room domain.Room, creator domain.Membership) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, r := range db.rooms {
		if r.InviteToken == room.InviteToken {
			return domain.Storage("create room", errors.New("invite token collision"))
		}
	}
	db.rooms[room.ID] = room
	db.memberships = append(db.memberships, creator)
	return nil
}

// GetRoom returns the room with the given id.
func (db *DB) GetRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	r, ok := db.rooms[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// GetRoomByInviteToken returns the room carrying token.
func (db *DB) GetRoomByInviteToken(ctx context.Context, token string) (*domain.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, r := range db.rooms {
		if r.InviteToken == token {
			return &r, nil
		}
	}
	return nil, nil
}

// ListRoomsByStatus returns rooms in the given status, oldest first.
func (db *DB) ListRoomsByStatus(ctx context.Context, status domain.RoomStatus) ([]domain.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Room
	for _, r := range db.rooms {
		if r.Status == status {
			out = append(out, r)
		}
	}
	sortRooms(out)
	return out, nil
}

// ListRoomsForUser returns every room the user is a member of, oldest first.
func (db *DB) ListRoomsForUser(ctx context.Context, userID string) ([]domain.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Room
	for _, m := range db.memberships {
		if m.UserID == userID {
			out = append(out, db.rooms[m.RoomID])
		}
	}
	sortRooms(out)
	return out, nil
}

func sortRooms(rooms []domain.Room) {
	sort.Slice(rooms, func(i, j int) bool {
		if !rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
		}
		return rooms[i].ID.String() < rooms[j].ID.String()
	})
}

// MarkRoomEnded ends an active room.
func (db *DB) MarkRoomEnded(ctx context.Context, id uuid.UUID) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	r, ok := db.rooms[id]
	if !ok || r.Status != domain.RoomActive {
		return false, nil
	}
	r.Status = domain.RoomEnded
	db.rooms[id] = r
	return true, nil
}

// MarkRoomDeleted soft deletes a room.
func (db *DB) MarkRoomDeleted(ctx context.Context, id uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	r, ok := db.rooms[id]
	if !ok {
		return domain.ErrRoomNotFound
	}
	r.Status = domain.RoomDeleted
	db.rooms[id] = r
	return nil
}

// AddMember inserts a membership under the room's capacity.
func (db *DB) AddMember(ctx context.Context, m domain.Membership, capacity int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.rooms[m.RoomID]; !ok {
		return domain.ErrRoomNotFound
	}
	count := 0
	for _, existing := range db.memberships {
		if existing.RoomID != m.RoomID {
			continue
		}
		if existing.UserID == m.UserID {
			return domain.ErrAlreadyMember
		}
		count++
	}
	if count >= capacity {
		return domain.ErrRoomFull
	}
	db.memberships = append(db.memberships, m)
	return nil
}

// GetMembership returns the user's membership in a room.
func (db *DB) GetMembership(ctx context.Context, roomID uuid.UUID, userID string) (*domain.Membership, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, m := range db.memberships {
		if m.RoomID == roomID && m.UserID == userID {
			return &m, nil
		}
	}
	return nil, nil
}

// ListMembers returns a room's members in join order.
func (db *DB) ListMembers(ctx context.Context, roomID uuid.UUID) ([]domain.Member, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Member
	for _, m := range db.memberships {
		if m.RoomID == roomID {
			out = append(out, domain.Member{Membership: m, Name: db.users[m.UserID].Name})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out, nil
}

// CountMembers returns the number of members of a room.
func (db *DB) CountMembers(ctx context.Context, roomID uuid.UUID) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := 0
	for _, m := range db.memberships {
		if m.RoomID == roomID {
			n++
		}
	}
	return n, nil
}

// --- LogRepository ---

// InsertLog stores a daily log, one per user and day.
func (db *DB) InsertLog(ctx context.Context, l domain.DailyLog) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.logs {
		if existing.UserID == l.UserID && existing.LogDate == l.LogDate {
			return domain.ErrDuplicateLog
		}
	}
	db.logs = append(db.logs, l)
	return nil
}

// GetLog returns the user's log for day.
func (db *DB) GetLog(ctx context.Context, userID string, day domain.Date) (*domain.DailyLog, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, l := range db.logs {
		if l.UserID == userID && l.LogDate == day {
			return &l, nil
		}
	}
	return nil, nil
}

// ListRoomLogs returns the logs linked to a room, newest first.
func (db *DB) ListRoomLogs(ctx context.Context, roomID uuid.UUID) ([]domain.DailyLog, error) {
	return db.filterLogs(func(l domain.DailyLog) bool {
		return l.RoomID != nil && *l.RoomID == roomID
	}), nil
}

// ListUserLogs returns the user's logs, newest first.
func (db *DB) ListUserLogs(ctx context.Context, userID string) ([]domain.DailyLog, error) {
	return db.filterLogs(func(l domain.DailyLog) bool {
		return l.UserID == userID
	}), nil
}

func (db *DB) filterLogs(keep func(domain.DailyLog) bool) []domain.DailyLog {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.DailyLog
	for _, l := range db.logs {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LogDate.After(out[j].LogDate)
	})
	return out
}

// --- PlanRepository ---

// GetPlan returns a room's plan.
func (db *DB) GetPlan(ctx context.Context, roomID uuid.UUID) (*domain.Plan, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.plans[roomID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// SavePlan inserts or overwrites a room's plan, bumping its version.
func (db *DB) SavePlan(ctx context.Context, p domain.Plan) (*domain.Plan, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if existing, ok := db.plans[p.RoomID]; ok {
		p.ID = existing.ID
		p.Version = existing.Version + 1
	} else {
		p.Version = 1
	}
	db.plans[p.RoomID] = p
	return &p, nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create stores a session.
func (r *SessionRepo) Create(ctx context.Context, s domain.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[s.TokenHash] = &s
	return nil
}

// GetByTokenHash returns the session stored under hash.
func (r *SessionRepo) GetByTokenHash(ctx context.Context, hash string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.sessions[hash]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// Delete removes a session.
func (r *SessionRepo) Delete(ctx context.Context, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	delete(r.db.sessions, hash)
	return nil
}

// DeleteExpired removes sessions that expired before now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for hash, s := range r.db.sessions {
		if s.ExpiresAt.Before(now) {
			delete(r.db.sessions, hash)
			n++
		}
	}
	return n, nil
}
