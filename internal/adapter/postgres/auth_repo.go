// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitrooms/internal/domain"
)

var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

const userColumns = `id, COALESCE(email, ''), name, height_cm, starting_weight_kg, activity_level,
	typical_sleep_hours, workout_frequency, fitness_goal, onboarded, created_at, updated_at`

// GetUser retrieves a user by id.
func (d *DB) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var (
		u                         domain.User
		height, weight, sleep     sql.NullFloat64
		activity, frequency, goal sql.NullString
	)
	err := d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1",
		id,
	).Scan(&u.ID, &u.Email, &u.Name, &height, &weight, &activity, &sleep, &frequency, &goal, &u.Onboarded, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("get user", err)
	}
	u.Profile = domain.Profile{
		HeightCm:          floatPtr(height),
		StartingWeightKg:  floatPtr(weight),
		ActivityLevel:     enumPtr[domain.ActivityLevel](activity),
		TypicalSleepHours: floatPtr(sleep),
		WorkoutFrequency:  enumPtr[domain.WorkoutFrequency](frequency),
		FitnessGoal:       enumPtr[domain.FitnessGoal](goal),
	}
	return &u, nil
}

// CreateUser creates a new user.
func (d *DB) CreateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	p := u.Profile
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO users (id, email, name, height_cm, starting_weight_kg, activity_level,
			typical_sleep_hours, workout_frequency, fitness_goal, onboarded, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		u.ID, nullString(u.Email), u.Name, nullFloat(p.HeightCm), nullFloat(p.StartingWeightKg), nullEnum(p.ActivityLevel),
		nullFloat(p.TypicalSleepHours), nullEnum(p.WorkoutFrequency), nullEnum(p.FitnessGoal), u.Onboarded, u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	)
	if err != nil {
		return nil, mapError("create user", err)
	}
	return &u, nil
}

// UpdateUser overwrites the mutable fields of a user.
func (d *DB) UpdateUser(ctx context.Context, u domain.User) error {
	p := u.Profile
	res, err := d.sql.ExecContext(ctx,
		`UPDATE users SET name = $2, height_cm = $3, starting_weight_kg = $4, activity_level = $5,
			typical_sleep_hours = $6, workout_frequency = $7, fitness_goal = $8, onboarded = $9, updated_at = $10
		WHERE id = $1`,
		u.ID, u.Name, nullFloat(p.HeightCm), nullFloat(p.StartingWeightKg), nullEnum(p.ActivityLevel),
		nullFloat(p.TypicalSleepHours), nullEnum(p.WorkoutFrequency), nullEnum(p.FitnessGoal), u.Onboarded, u.UpdatedAt.UTC(),
	)
	if err != nil {
		return mapError("update user", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SessionRepo implements session repository operations on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, s domain.Session) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO sessions (token_hash, user_id, user_agent, ip, expires_at, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		s.TokenHash, s.UserID, s.UserAgent, s.IP, s.ExpiresAt.UTC(), s.CreatedAt.UTC(),
	)
	return mapError("create session", err)
}

// GetByTokenHash retrieves a session by the hash of its token.
func (r *SessionRepo) GetByTokenHash(ctx context.Context, hash string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT token_hash, user_id, user_agent, ip, expires_at, created_at FROM sessions WHERE token_hash = $1",
		hash,
	).Scan(&s.TokenHash, &s.UserID, &s.UserAgent, &s.IP, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("get session", err)
	}
	return &s, nil
}

// Delete deletes a session by token hash.
func (r *SessionRepo) Delete(ctx context.Context, hash string) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE token_hash = $1", hash)
	return mapError("delete session", err)
}

// DeleteExpired deletes all sessions that expired before now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < $1", now.UTC())
	if err != nil {
		return 0, mapError("delete expired sessions", err)
	}
	return res.RowsAffected()
}
