package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"fitrooms/internal/domain"
)

// Unique constraints whose violation callers branch on.
const (
	uniqueLogPerDay     = "daily_logs_user_day_key"
	uniqueRoomMember    = "room_memberships_room_user_key"
	uniqueViolationCode = "23505"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Ping checks the connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE,
			name TEXT NOT NULL,
			height_cm NUMERIC(5,2),
			starting_weight_kg NUMERIC(5,2),
			activity_level TEXT CHECK (activity_level IN ('sedentary','lightly_active','moderately_active','very_active','athlete')),
			typical_sleep_hours NUMERIC(3,1),
			workout_frequency TEXT CHECK (workout_frequency IN ('never','1_2_per_week','3_4_per_week','5_6_per_week','daily')),
			fitness_goal TEXT CHECK (fitness_goal IN ('lose_weight','build_muscle','maintain','improve_fitness','general_health')),
			onboarded BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS rooms (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			duration_days INTEGER NOT NULL CHECK (duration_days IN (30, 60, 90)),
			deadline_time VARCHAR(8) NOT NULL DEFAULT '23:59:00',
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','ended','deleted')),
			invite_token VARCHAR(32) NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL,
			CHECK (end_date = start_date + duration_days)
		);`,
		"CREATE INDEX IF NOT EXISTS idx_rooms_status ON rooms(status);",
		`CREATE TABLE IF NOT EXISTS room_memberships (
			id UUID PRIMARY KEY,
			room_id UUID NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role TEXT NOT NULL CHECK (role IN ('creator','member')),
			joined_at TIMESTAMPTZ NOT NULL,
			CONSTRAINT ` + uniqueRoomMember + ` UNIQUE (room_id, user_id)
		);`,
		"CREATE INDEX IF NOT EXISTS idx_room_memberships_user_id ON room_memberships(user_id);",
		`CREATE TABLE IF NOT EXISTS daily_logs (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			log_date DATE NOT NULL,
			room_id UUID REFERENCES rooms(id) ON DELETE SET NULL,
			submitted_at TIMESTAMPTZ NOT NULL,
			breakfast VARCHAR(300),
			lunch VARCHAR(300),
			evening_snacks VARCHAR(300),
			dinner VARCHAR(300),
			workout_done BOOLEAN NOT NULL DEFAULT FALSE,
			workout_type TEXT CHECK (workout_type IN ('gym','walk','run','rest','other')),
			workout_duration_minutes INTEGER CHECK (workout_duration_minutes BETWEEN 0 AND 1440),
			workout_intensity INTEGER CHECK (workout_intensity BETWEEN 1 AND 5),
			sleep_hours NUMERIC(3,1) NOT NULL CHECK (sleep_hours BETWEEN 0 AND 24),
			energy_level INTEGER NOT NULL CHECK (energy_level BETWEEN 1 AND 5),
			weight_kg NUMERIC(5,2),
			note VARCHAR(200),
			CONSTRAINT ` + uniqueLogPerDay + ` UNIQUE (user_id, log_date)
		);`,
		"CREATE INDEX IF NOT EXISTS idx_daily_logs_room_id ON daily_logs(room_id);",
		`CREATE TABLE IF NOT EXISTS plans (
			id UUID PRIMARY KEY,
			room_id UUID NOT NULL UNIQUE REFERENCES rooms(id) ON DELETE CASCADE,
			expectations VARCHAR(1000),
			strategy VARCHAR(1000),
			targets VARCHAR(500),
			min_workout_days_per_week INTEGER NOT NULL DEFAULT 0 CHECK (min_workout_days_per_week BETWEEN 0 AND 7),
			min_logging_days_per_week INTEGER NOT NULL DEFAULT 1 CHECK (min_logging_days_per_week BETWEEN 1 AND 7),
			version INTEGER NOT NULL DEFAULT 1,
			last_updated_by TEXT REFERENCES users(id) ON DELETE SET NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token_hash TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user_agent TEXT NOT NULL DEFAULT '',
			ip TEXT NOT NULL DEFAULT '',
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// withTx runs fn in a transaction, committing when fn returns nil.
func (d *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// mapError translates driver errors into domain errors. Unique violations
// on the daily log and membership keys get their own sentinels; anything
// else becomes a StorageError.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		switch pqErr.Constraint {
		case uniqueLogPerDay:
			return domain.ErrDuplicateLog
		case uniqueRoomMember:
			return domain.ErrAlreadyMember
		}
	}
	return domain.Storage(op, err)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullStringPtr(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullEnum[T ~string](p *T) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p), Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func stringPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}

func enumPtr[T ~string](n sql.NullString) *T {
	if !n.Valid {
		return nil
	}
	v := T(n.String)
	return &v
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
