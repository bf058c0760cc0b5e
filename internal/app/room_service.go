package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fitrooms/internal/domain"
)

// inviteTokenBytes is the entropy of an invite token; its hex form is 32
// characters.
const inviteTokenBytes = 16

// RoomService encapsulates room lifecycle use cases.
type RoomService struct {
	rooms domain.RoomRepository
	logs  domain.LogRepository
	plans domain.PlanRepository
	cal   Calendar
	log   *zap.Logger
	rec   Recorder
}

// NewRoomService creates a RoomService. A nil logger or recorder disables
// that output.
func NewRoomService(rooms domain.RoomRepository, logs domain.LogRepository, plans domain.PlanRepository, cal Calendar, logger *zap.Logger, rec Recorder) *RoomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = NopRecorder{}
	}
	return &RoomService{rooms: rooms, logs: logs, plans: plans, cal: cal, log: logger, rec: rec}
}

// RoomProgress tells how far into its challenge a room is.
type RoomProgress struct {
	CurrentDay    int `json:"currentDay"`
	TotalDays     int `json:"totalDays"`
	DaysRemaining int `json:"daysRemaining"`
}

func progressOf(room domain.Room, today domain.Date) RoomProgress {
	passed := max(0, today.DaysSince(room.StartDate))
	return RoomProgress{
		CurrentDay:    min(passed+1, room.DurationDays),
		TotalDays:     room.DurationDays,
		DaysRemaining: max(0, room.EndDate.DaysSince(today)),
	}
}

// RoomView is a room as seen by one of its members.
type RoomView struct {
	Room        domain.Room       `json:"room"`
	Members     []domain.Member   `json:"members"`
	Plan        *domain.Plan      `json:"plan"`
	Progress    RoomProgress      `json:"progress"`
	Role        domain.MemberRole `json:"role"`
	LoggedToday bool              `json:"loggedToday"`
}

// InvitePreview describes a room to someone holding its invite token.
type InvitePreview struct {
	Name         string            `json:"name"`
	DurationDays int               `json:"durationDays"`
	StartDate    domain.Date       `json:"startDate"`
	EndDate      domain.Date       `json:"endDate"`
	Status       domain.RoomStatus `json:"status"`
	MemberCount  int               `json:"memberCount"`
	Capacity     int               `json:"capacity"`
	IsMember     bool              `json:"isMember"`
}

// DashboardRoom is one entry of a user's dashboard.
type DashboardRoom struct {
	Room        domain.Room  `json:"room"`
	MemberCount int          `json:"memberCount"`
	Progress    RoomProgress `json:"progress"`
	LoggedToday bool         `json:"loggedToday"`
}

// Dashboard lists a user's rooms split by status.
type Dashboard struct {
	ActiveRooms    []DashboardRoom `json:"activeRooms"`
	EndedRooms     []DashboardRoom `json:"endedRooms"`
	HasLoggedToday bool            `json:"hasLoggedToday"`
}

// CreateRoom validates in and creates a room starting today with creatorID
// as its creator.
func (s *RoomService) CreateRoom(ctx context.Context, creatorID string, in RoomInput) (*domain.Room, error) {
	in, err := validateRoom(in)
	if err != nil {
		return nil, err
	}
	token, err := generateInviteToken()
	if err != nil {
		return nil, fmt.Errorf("generate invite token: %w", err)
	}

	now := s.cal.Now()
	today := s.cal.Today()
	room := domain.Room{
		ID:           uuid.New(),
		Name:         in.Name,
		DurationDays: in.DurationDays,
		DeadlineTime: in.DeadlineTime,
		StartDate:    today,
		EndDate:      today.AddDays(in.DurationDays),
		Status:       domain.RoomActive,
		InviteToken:  token,
		CreatedAt:    now,
	}
	creator := domain.Membership{
		ID:       uuid.New(),
		RoomID:   room.ID,
		UserID:   creatorID,
		Role:     domain.RoleCreator,
		JoinedAt: now,
	}
	if err := s.rooms.CreateRoom(ctx, room, creator); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	s.rec.RoomCreated()
	s.log.Info("room created",
		zap.String("room_id", room.ID.String()),
		zap.String("user_id", creatorID),
		zap.Int("duration_days", room.DurationDays))
	return &room, nil
}

// PreviewInvite describes the room behind token for userID.
func (s *RoomService) PreviewInvite(ctx context.Context, token, userID string) (*InvitePreview, error) {
	room, err := s.roomByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	count, err := s.rooms.CountMembers(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}
	m, err := s.rooms.GetMembership(ctx, room.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return &InvitePreview{
		Name:         room.Name,
		DurationDays: room.DurationDays,
		StartDate:    room.StartDate,
		EndDate:      room.EndDate,
		Status:       room.Status,
		MemberCount:  count,
		Capacity:     domain.MaxRoomMembers,
		IsMember:     m != nil,
	}, nil
}

// JoinRoom adds userID to the room behind token. Checks run in order: the
// room exists, it is active, the user is not yet a member, it has space.
func (s *RoomService) JoinRoom(ctx context.Context, token, userID string) (*domain.Room, error) {
	room, err := s.joinRoom(ctx, token, userID)
	s.rec.RoomJoin(joinResult(err))
	if err != nil {
		return nil, err
	}
	s.log.Info("room joined", zap.String("room_id", room.ID.String()), zap.String("user_id", userID))
	return room, nil
}

func (s *RoomService) joinRoom(ctx context.Context, token, userID string) (*domain.Room, error) {
	room, err := s.roomByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if room.Status != domain.RoomActive {
		return nil, domain.ErrRoomNotActive
	}
	existing, err := s.rooms.GetMembership(ctx, room.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrAlreadyMember
	}
	m := domain.Membership{
		ID:       uuid.New(),
		RoomID:   room.ID,
		UserID:   userID,
		Role:     domain.RoleMember,
		JoinedAt: s.cal.Now(),
	}
	if err := s.rooms.AddMember(ctx, m, domain.MaxRoomMembers); err != nil {
		if errors.Is(err, domain.ErrRoomFull) || errors.Is(err, domain.ErrAlreadyMember) {
			return nil, err
		}
		return nil, fmt.Errorf("add member: %w", err)
	}
	return room, nil
}

func joinResult(err error) string {
	switch {
	case err == nil:
		return JoinOK
	case errors.Is(err, domain.ErrNotFound):
		return JoinNotFound
	case errors.Is(err, domain.ErrRoomNotActive):
		return JoinNotActive
	case errors.Is(err, domain.ErrAlreadyMember):
		return JoinAlready
	case errors.Is(err, domain.ErrRoomFull):
		return JoinFull
	default:
		return JoinStoreFailed
	}
}

// Invite returns the invite token of a room to one of its members.
func (s *RoomService) Invite(ctx context.Context, roomID uuid.UUID, userID string) (string, error) {
	room, _, err := s.memberRoom(ctx, roomID, userID)
	if err != nil {
		return "", err
	}
	return room.InviteToken, nil
}

// GetRoom returns the room with its members and plan.
func (s *RoomService) GetRoom(ctx context.Context, roomID uuid.UUID, userID string) (*RoomView, error) {
	room, m, err := s.memberRoom(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	members, err := s.rooms.ListMembers(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	plan, err := s.plans.GetPlan(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	today := s.cal.Today()
	todayLog, err := s.logs.GetLog(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("get today's log: %w", err)
	}
	return &RoomView{
		Room:        *room,
		Members:     members,
		Plan:        plan,
		Progress:    progressOf(*room, today),
		Role:        m.Role,
		LoggedToday: loggedIn(todayLog, room.ID),
	}, nil
}

// DeleteRoom soft deletes a room. Only its creator may do so; logs are kept.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID uuid.UUID, userID string) error {
	room, m, err := s.memberRoom(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if m.Role != domain.RoleCreator {
		return domain.ErrNotCreator
	}
	if err := s.rooms.MarkRoomDeleted(ctx, room.ID); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	s.log.Info("room deleted", zap.String("room_id", room.ID.String()), zap.String("user_id", userID))
	return nil
}

// Feed returns the derived activity feed of a room.
func (s *RoomService) Feed(ctx context.Context, roomID uuid.UUID, userID string) (*RoomFeed, error) {
	room, _, err := s.memberRoom(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	members, err := s.rooms.ListMembers(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	logs, err := s.logs.ListRoomLogs(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("list room logs: %w", err)
	}
	loc := s.cal.Location()
	for i := range members {
		members[i].JoinedAt = members[i].JoinedAt.In(loc)
	}
	feed := BuildRoomFeed(*room, members, logs, s.cal.Today())
	return &feed, nil
}

// Dashboard returns the user's active and ended rooms. Deleted rooms are
// left out.
func (s *RoomService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	rooms, err := s.rooms.ListRoomsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	today := s.cal.Today()
	todayLog, err := s.logs.GetLog(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("get today's log: %w", err)
	}

	d := &Dashboard{
		ActiveRooms:    []DashboardRoom{},
		EndedRooms:     []DashboardRoom{},
		HasLoggedToday: todayLog != nil,
	}
	for i := range rooms {
		room := &rooms[i]
		if err := s.refreshStatus(ctx, room, today); err != nil {
			return nil, err
		}
		if room.Status == domain.RoomDeleted {
			continue
		}
		count, err := s.rooms.CountMembers(ctx, room.ID)
		if err != nil {
			return nil, fmt.Errorf("count members: %w", err)
		}
		entry := DashboardRoom{
			Room:        *room,
			MemberCount: count,
			Progress:    progressOf(*room, today),
			LoggedToday: loggedIn(todayLog, room.ID),
		}
		if room.Status == domain.RoomActive {
			d.ActiveRooms = append(d.ActiveRooms, entry)
		} else {
			d.EndedRooms = append(d.EndedRooms, entry)
		}
	}
	return d, nil
}

// SweepRoomStatuses ends every active room whose end date has passed and
// returns how many were ended. Running it again is harmless.
func (s *RoomService) SweepRoomStatuses(ctx context.Context) (int, error) {
	rooms, err := s.rooms.ListRoomsByStatus(ctx, domain.RoomActive)
	if err != nil {
		return 0, fmt.Errorf("list active rooms: %w", err)
	}
	today := s.cal.Today()
	ended := 0
	for _, room := range rooms {
		if ResolveRoomStatus(room, today) != domain.RoomEnded {
			continue
		}
		changed, err := s.rooms.MarkRoomEnded(ctx, room.ID)
		if err != nil {
			return ended, fmt.Errorf("end room %s: %w", room.ID, err)
		}
		if changed {
			ended++
		}
	}
	s.rec.RoomsEnded(ended)
	s.log.Info("room status sweep finished", zap.Int("checked", len(rooms)), zap.Int("ended", ended))
	return ended, nil
}

func (s *RoomService) refreshStatus(ctx context.Context, room *domain.Room, today domain.Date) error {
	return refreshRoomStatus(ctx, s.rooms, s.rec, room, today)
}

// refreshRoomStatus resolves room's status for today and persists an
// active-to-ended transition.
func refreshRoomStatus(ctx context.Context, rooms domain.RoomRepository, rec Recorder, room *domain.Room, today domain.Date) error {
	status := ResolveRoomStatus(*room, today)
	if status == room.Status {
		return nil
	}
	changed, err := rooms.MarkRoomEnded(ctx, room.ID)
	if err != nil {
		return fmt.Errorf("end room %s: %w", room.ID, err)
	}
	if changed {
		rec.RoomsEnded(1)
	}
	room.Status = status
	return nil
}

func (s *RoomService) roomByToken(ctx context.Context, token string) (*domain.Room, error) {
	room, err := s.rooms.GetRoomByInviteToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get room by invite: %w", err)
	}
	if room == nil || room.Status == domain.RoomDeleted {
		return nil, domain.ErrRoomNotFound
	}
	if err := s.refreshStatus(ctx, room, s.cal.Today()); err != nil {
		return nil, err
	}
	return room, nil
}

// memberRoom loads a non-deleted room and the caller's membership in it.
// Non-members get ErrNotMember so room existence is not disclosed.
func (s *RoomService) memberRoom(ctx context.Context, roomID uuid.UUID, userID string) (*domain.Room, *domain.Membership, error) {
	return loadMemberRoom(ctx, s.rooms, roomID, userID, func(room *domain.Room) error {
		return s.refreshStatus(ctx, room, s.cal.Today())
	})
}

func loadMemberRoom(ctx context.Context, rooms domain.RoomRepository, roomID uuid.UUID, userID string, refresh func(*domain.Room) error) (*domain.Room, *domain.Membership, error) {
	room, err := rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, nil, fmt.Errorf("get room: %w", err)
	}
	if room == nil || room.Status == domain.RoomDeleted {
		return nil, nil, domain.ErrRoomNotFound
	}
	m, err := rooms.GetMembership(ctx, roomID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("get membership: %w", err)
	}
	if m == nil {
		return nil, nil, domain.ErrNotMember
	}
	if refresh != nil {
		if err := refresh(room); err != nil {
			return nil, nil, err
		}
	}
	return room, m, nil
}

func loggedIn(l *domain.DailyLog, roomID uuid.UUID) bool {
	return l != nil && l.RoomID != nil && *l.RoomID == roomID
}

func generateInviteToken() (string, error) {
	b := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
