package app

import (
	"context"
	"fmt"
	"strings"

	"fitrooms/internal/domain"
)

// UserService encapsulates user identity and profile use cases.
type UserService struct {
	users domain.UserRepository
	cal   Calendar
}

// NewUserService creates a UserService.
func NewUserService(users domain.UserRepository, cal Calendar) *UserService {
	return &UserService{users: users, cal: cal}
}

// GetOrCreateUser returns the user for an authenticated identity, creating
// it on first sight.
func (s *UserService) GetOrCreateUser(ctx context.Context, id domain.Identity) (*domain.User, error) {
	if id.ExternalID == "" {
		return nil, domain.Invalid("id", "is required")
	}
	u, err := s.users.GetUser(ctx, id.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u != nil {
		return u, nil
	}

	now := s.cal.Now()
	created, err := s.users.CreateUser(ctx, domain.User{
		ID:        id.ExternalID,
		Email:     id.Email,
		Name:      displayName(id),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		// A concurrent first request may have created the user already.
		if u, getErr := s.users.GetUser(ctx, id.ExternalID); getErr == nil && u != nil {
			return u, nil
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func displayName(id domain.Identity) string {
	if name := strings.TrimSpace(id.DisplayName); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(id.Email, "@"); ok && local != "" {
		return local
	}
	return id.ExternalID
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// CompleteOnboarding stores the user's full profile and marks them onboarded.
func (s *UserService) CompleteOnboarding(ctx context.Context, userID string, in OnboardingInput) (*domain.User, error) {
	name, profile, err := validateOnboarding(in)
	if err != nil {
		return nil, err
	}
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Name = name
	u.Profile = profile
	u.Onboarded = true
	u.UpdatedAt = s.cal.Now()
	if err := s.users.UpdateUser(ctx, *u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// UpdateSettings replaces the user's editable profile fields.
func (s *UserService) UpdateSettings(ctx context.Context, userID string, in SettingsInput) (*domain.User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	name, profile, err := validateSettings(in, u.Profile)
	if err != nil {
		return nil, err
	}
	u.Name = name
	u.Profile = profile
	u.UpdatedAt = s.cal.Now()
	if err := s.users.UpdateUser(ctx, *u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}
