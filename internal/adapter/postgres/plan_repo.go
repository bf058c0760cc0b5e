package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"fitrooms/internal/domain"
)

var _ domain.PlanRepository = (*DB)(nil)

const planColumns = `id, room_id, expectations, strategy, targets, min_workout_days_per_week,
	min_logging_days_per_week, version, last_updated_by, updated_at`

func scanPlan(row rowScanner) (*domain.Plan, error) {
	var (
		p                               domain.Plan
		expectations, strategy, targets sql.NullString
		editor                          sql.NullString
	)
	err := row.Scan(&p.ID, &p.RoomID, &expectations, &strategy, &targets, &p.MinWorkoutDaysPerWeek,
		&p.MinLoggingDaysPerWeek, &p.Version, &editor, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Expectations = stringPtr(expectations)
	p.Strategy = stringPtr(strategy)
	p.Targets = stringPtr(targets)
	p.LastUpdatedBy = stringPtr(editor)
	return &p, nil
}

// GetPlan returns a room's plan.
func (d *DB) GetPlan(ctx context.Context, roomID uuid.UUID) (*domain.Plan, error) {
	p, err := scanPlan(d.sql.QueryRowContext(ctx,
		"SELECT "+planColumns+" FROM plans WHERE room_id = $1", roomID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("get plan", err)
	}
	return p, nil
}

// SavePlan inserts a room's plan at version 1 or overwrites it and bumps the
// version in a single statement.
func (d *DB) SavePlan(ctx context.Context, p domain.Plan) (*domain.Plan, error) {
	saved, err := scanPlan(d.sql.QueryRowContext(ctx,
		`INSERT INTO plans (id, room_id, expectations, strategy, targets, min_workout_days_per_week,
			min_logging_days_per_week, version, last_updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9)
		ON CONFLICT (room_id) DO UPDATE SET
			expectations = EXCLUDED.expectations,
			strategy = EXCLUDED.strategy,
			targets = EXCLUDED.targets,
			min_workout_days_per_week = EXCLUDED.min_workout_days_per_week,
			min_logging_days_per_week = EXCLUDED.min_logging_days_per_week,
			version = plans.version + 1,
			last_updated_by = EXCLUDED.last_updated_by,
			updated_at = EXCLUDED.updated_at
		RETURNING `+planColumns,
		p.ID, p.RoomID, nullStringPtr(p.Expectations), nullStringPtr(p.Strategy), nullStringPtr(p.Targets),
		p.MinWorkoutDaysPerWeek, p.MinLoggingDaysPerWeek, nullStringPtr(p.LastUpdatedBy), p.UpdatedAt.UTC(),
	))
	if err != nil {
		return nil, mapError("save plan", err)
	}
	return saved, nil
}
