package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"fitrooms/internal/domain"
)

// PlanService encapsulates room plan use cases. Every member may read and
// edit the plan.
type PlanService struct {
	plans domain.PlanRepository
	rooms domain.RoomRepository
	cal   Calendar
}

// NewPlanService creates a PlanService.
func NewPlanService(plans domain.PlanRepository, rooms domain.RoomRepository, cal Calendar) *PlanService {
	return &PlanService{plans: plans, rooms: rooms, cal: cal}
}

// Get returns the room's plan, or nil when none has been written.
func (s *PlanService) Get(ctx context.Context, roomID uuid.UUID, userID string) (*domain.Plan, error) {
	if _, _, err := loadMemberRoom(ctx, s.rooms, roomID, userID, nil); err != nil {
		return nil, err
	}
	p, err := s.plans.GetPlan(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

// Save validates in and writes it as the room's plan, bumping its version.
func (s *PlanService) Save(ctx context.Context, roomID uuid.UUID, userID string, in PlanInput) (*domain.Plan, error) {
	p, err := validatePlan(in)
	if err != nil {
		return nil, err
	}
	if _, _, err := loadMemberRoom(ctx, s.rooms, roomID, userID, nil); err != nil {
		return nil, err
	}
	p.ID = uuid.New()
	p.RoomID = roomID
	p.LastUpdatedBy = &userID
	p.UpdatedAt = s.cal.Now()

	saved, err := s.plans.SavePlan(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}
	return saved, nil
}
