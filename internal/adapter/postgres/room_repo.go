package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"fitrooms/internal/domain"
)

var _ domain.RoomRepository = (*DB)(nil)

const roomColumns = "r.id, r.name, r.duration_days, r.deadline_time, r.start_date, r.end_date, r.status, r.invite_token, r.created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*domain.Room, error) {
	var r domain.Room
	err := row.Scan(&r.ID, &r.Name, &r.DurationDays, &r.DeadlineTime, &r.StartDate, &r.EndDate, &r.Status, &r.InviteToken, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRoom inserts a room and its creator membership in one transaction.
func (d *DB) CreateRoom(ctx context.Context, room domain.Room, creator domain.Membership) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO rooms (id, name, duration_days, deadline_time, start_date, end_date, status, invite_token, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			room.ID, room.Name, room.DurationDays, room.DeadlineTime, room.StartDate, room.EndDate, room.Status, room.InviteToken, room.CreatedAt.UTC(),
		)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO room_memberships (id, room_id, user_id, role, joined_at) VALUES ($1, $2, $3, $4, $5)",
			creator.ID, creator.RoomID, creator.UserID, creator.Role, creator.JoinedAt.UTC(),
		)
		return err
	})
	return mapError("create room", err)
}

// GetRoom retrieves a room by id.
func (d *DB) GetRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	return d.getRoom(ctx, "get room", "SELECT "+roomColumns+" FROM rooms r WHERE r.id = $1", id)
}

// GetRoomByInviteToken retrieves the room carrying token.
func (d *DB) GetRoomByInviteToken(ctx context.Context, token string) (*domain.Room, error) {
	return d.getRoom(ctx, "get room by invite", "SELECT "+roomColumns+" FROM rooms r WHERE r.invite_token = $1", token)
}

func (d *DB) getRoom(ctx context.Context, op, query string, arg any) (*domain.Room, error) {
	r, err := scanRoom(d.sql.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(op, err)
	}
	return r, nil
}

// ListRoomsByStatus returns rooms in the given status, oldest first.
func (d *DB) ListRoomsByStatus(ctx context.Context, status domain.RoomStatus) ([]domain.Room, error) {
	return d.listRooms(ctx, "list rooms by status",
		"SELECT "+roomColumns+" FROM rooms r WHERE r.status = $1 ORDER BY r.created_at, r.id", status)
}

// ListRoomsForUser returns every room the user is a member of, oldest first.
func (d *DB) ListRoomsForUser(ctx context.Context, userID string) ([]domain.Room, error) {
	return d.listRooms(ctx, "list rooms for user",
		`SELECT `+roomColumns+` FROM rooms r
		JOIN room_memberships m ON m.room_id = r.id
		WHERE m.user_id = $1 ORDER BY r.created_at, r.id`, userID)
}

func (d *DB) listRooms(ctx context.Context, op, query string, arg any) ([]domain.Room, error) {
	rows, err := d.sql.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		out = append(out, *r)
	}
	return out, mapError(op, rows.Err())
}

// MarkRoomEnded ends a room that is still active.
func (d *DB) MarkRoomEnded(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := d.sql.ExecContext(ctx,
		"UPDATE rooms SET status = 'ended' WHERE id = $1 AND status = 'active'", id)
	if err != nil {
		return false, mapError("end room", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapError("end room", err)
	}
	return n > 0, nil
}

// MarkRoomDeleted soft deletes a room. Its logs are kept.
func (d *DB) MarkRoomDeleted(ctx context.Context, id uuid.UUID) error {
	res, err := d.sql.ExecContext(ctx, "UPDATE rooms SET status = 'deleted' WHERE id = $1", id)
	if err != nil {
		return mapError("delete room", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

// AddMember inserts a membership while holding a lock on the room row, so
// concurrent joins cannot push the room past capacity.
func (d *DB) AddMember(ctx context.Context, m domain.Membership, capacity int) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var id uuid.UUID
		err := tx.QueryRowContext(ctx, "SELECT id FROM rooms WHERE id = $1 FOR UPDATE", m.RoomID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrRoomNotFound
		}
		if err != nil {
			return err
		}

		var exists bool
		err = tx.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM room_memberships WHERE room_id = $1 AND user_id = $2)",
			m.RoomID, m.UserID,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyMember
		}

		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM room_memberships WHERE room_id = $1", m.RoomID).Scan(&count); err != nil {
			return err
		}
		if count >= capacity {
			return domain.ErrRoomFull
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO room_memberships (id, room_id, user_id, role, joined_at) VALUES ($1, $2, $3, $4, $5)",
			m.ID, m.RoomID, m.UserID, m.Role, m.JoinedAt.UTC(),
		)
		return err
	})
	switch {
	case errors.Is(err, domain.ErrRoomNotFound), errors.Is(err, domain.ErrAlreadyMember), errors.Is(err, domain.ErrRoomFull):
		return err
	}
	return mapError("add member", err)
}

// GetMembership returns the user's membership in a room.
func (d *DB) GetMembership(ctx context.Context, roomID uuid.UUID, userID string) (*domain.Membership, error) {
	var m domain.Membership
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, room_id, user_id, role, joined_at FROM room_memberships WHERE room_id = $1 AND user_id = $2",
		roomID, userID,
	).Scan(&m.ID, &m.RoomID, &m.UserID, &m.Role, &m.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("get membership", err)
	}
	return &m, nil
}

// ListMembers returns a room's members with their names, in join order.
func (d *DB) ListMembers(ctx context.Context, roomID uuid.UUID) ([]domain.Member, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT m.id, m.room_id, m.user_id, m.role, m.joined_at, u.name
		FROM room_memberships m JOIN users u ON u.id = m.user_id
		WHERE m.room_id = $1 ORDER BY m.joined_at, m.user_id`,
		roomID,
	)
	if err != nil {
		return nil, mapError("list members", err)
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.RoomID, &m.UserID, &m.Role, &m.JoinedAt, &m.Name); err != nil {
			return nil, mapError("list members", err)
		}
		out = append(out, m)
	}
	return out, mapError("list members", rows.Err())
}

// CountMembers returns the number of members of a room.
func (d *DB) CountMembers(ctx context.Context, roomID uuid.UUID) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM room_memberships WHERE room_id = $1", roomID).Scan(&n)
	return n, mapError("count members", err)
}
