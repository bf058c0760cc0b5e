package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"fitrooms/internal/domain"
)

var _ domain.LogRepository = (*DB)(nil)

const logColumns = `id, user_id, log_date, room_id, submitted_at, breakfast, lunch, evening_snacks, dinner,
	workout_done, workout_type, workout_duration_minutes, workout_intensity, sleep_hours, energy_level, weight_kg, note`

func scanLog(row rowScanner) (*domain.DailyLog, error) {
	var (
		l                                domain.DailyLog
		roomID                           uuid.NullUUID
		breakfast, lunch, snacks, dinner sql.NullString
		workoutType, note                sql.NullString
		duration, intensity              sql.NullInt64
		weight                           sql.NullFloat64
	)
	err := row.Scan(&l.ID, &l.UserID, &l.LogDate, &roomID, &l.SubmittedAt, &breakfast, &lunch, &snacks, &dinner,
		&l.WorkoutDone, &workoutType, &duration, &intensity, &l.SleepHours, &l.EnergyLevel, &weight, &note)
	if err != nil {
		return nil, err
	}
	if roomID.Valid {
		l.RoomID = &roomID.UUID
	}
	l.Breakfast = stringPtr(breakfast)
	l.Lunch = stringPtr(lunch)
	l.EveningSnacks = stringPtr(snacks)
	l.Dinner = stringPtr(dinner)
	l.WorkoutType = enumPtr[domain.WorkoutType](workoutType)
	l.WorkoutDurationMinutes = intPtr(duration)
	l.WorkoutIntensity = intPtr(intensity)
	l.WeightKg = floatPtr(weight)
	l.Note = stringPtr(note)
	return &l, nil
}

// InsertLog stores a daily log. A second log for the same user and day
// fails with domain.ErrDuplicateLog.
func (d *DB) InsertLog(ctx context.Context, l domain.DailyLog) error {
	var roomID uuid.NullUUID
	if l.RoomID != nil {
		roomID = uuid.NullUUID{UUID: *l.RoomID, Valid: true}
	}
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO daily_logs (`+logColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		l.ID, l.UserID, l.LogDate, roomID, l.SubmittedAt.UTC(),
		nullStringPtr(l.Breakfast), nullStringPtr(l.Lunch), nullStringPtr(l.EveningSnacks), nullStringPtr(l.Dinner),
		l.WorkoutDone, nullEnum(l.WorkoutType), nullInt(l.WorkoutDurationMinutes), nullInt(l.WorkoutIntensity),
		l.SleepHours, l.EnergyLevel, nullFloat(l.WeightKg), nullStringPtr(l.Note),
	)
	return mapError("insert log", err)
}

// GetLog returns the user's log for day.
func (d *DB) GetLog(ctx context.Context, userID string, day domain.Date) (*domain.DailyLog, error) {
	l, err := scanLog(d.sql.QueryRowContext(ctx,
		"SELECT "+logColumns+" FROM daily_logs WHERE user_id = $1 AND log_date = $2",
		userID, day,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("get log", err)
	}
	return l, nil
}

// ListRoomLogs returns the logs linked to a room, newest first.
func (d *DB) ListRoomLogs(ctx context.Context, roomID uuid.UUID) ([]domain.DailyLog, error) {
	return d.listLogs(ctx, "list room logs",
		"SELECT "+logColumns+" FROM daily_logs WHERE room_id = $1 ORDER BY log_date DESC, submitted_at", roomID)
}

// ListUserLogs returns the user's logs, newest first.
func (d *DB) ListUserLogs(ctx context.Context, userID string) ([]domain.DailyLog, error) {
	return d.listLogs(ctx, "list user logs",
		"SELECT "+logColumns+" FROM daily_logs WHERE user_id = $1 ORDER BY log_date DESC", userID)
}

func (d *DB) listLogs(ctx context.Context, op, query string, arg any) ([]domain.DailyLog, error) {
	rows, err := d.sql.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	var out []domain.DailyLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		out = append(out, *l)
	}
	return out, mapError(op, rows.Err())
}
