package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"fitrooms/internal/domain"
)

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, domain.ErrRoomNotFound, domain.ErrNotFound)
	assert.ErrorIs(t, domain.ErrNotMember, domain.ErrNotFound)
	assert.ErrorIs(t, domain.ErrRoomFull, domain.ErrCapacity)
	assert.ErrorIs(t, domain.ErrRoomNotActive, domain.ErrState)
	assert.ErrorIs(t, domain.ErrNotCreator, domain.ErrForbidden)
	assert.NotErrorIs(t, domain.ErrDuplicateLog, domain.ErrValidation)
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("submit: %w", domain.Invalid("sleepHours", "must be between %d and %d", 0, 24))

	assert.ErrorIs(t, err, domain.ErrValidation)
	var ve *domain.ValidationError
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, "sleepHours", ve.Field)
		assert.Equal(t, "sleepHours: must be between 0 and 24", ve.Error())
	}
}

func TestStorageError(t *testing.T) {
	assert.NoError(t, domain.Storage("insert log", nil))

	cause := errors.New("connection reset")
	err := domain.Storage("insert log", cause)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "insert log: connection reset", err.Error())
}
