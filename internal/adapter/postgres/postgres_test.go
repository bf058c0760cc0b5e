package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"fitrooms/internal/domain"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError("op", nil))

	dupLog := &pq.Error{Code: uniqueViolationCode, Constraint: uniqueLogPerDay}
	assert.ErrorIs(t, mapError("insert log", fmt.Errorf("exec: %w", dupLog)), domain.ErrDuplicateLog)

	dupMember := &pq.Error{Code: uniqueViolationCode, Constraint: uniqueRoomMember}
	assert.ErrorIs(t, mapError("add member", dupMember), domain.ErrAlreadyMember)

	otherUnique := &pq.Error{Code: uniqueViolationCode, Constraint: "rooms_invite_token_key"}
	err := mapError("create room", otherUnique)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.NotErrorIs(t, err, domain.ErrDuplicateLog)

	err = mapError("get room", errors.New("connection reset"))
	var se *domain.StorageError
	if assert.ErrorAs(t, err, &se) {
		assert.Equal(t, "get room", se.Op)
	}
}

func TestNullHelpers(t *testing.T) {
	assert.False(t, nullString("").Valid)
	assert.True(t, nullString("a@b.c").Valid)
	assert.Nil(t, stringPtr(nullStringPtr(nil)))

	v := 3
	assert.Equal(t, &v, intPtr(nullInt(&v)))

	g := domain.GoalMaintain
	assert.Equal(t, &g, enumPtr[domain.FitnessGoal](nullEnum(&g)))
	assert.Nil(t, floatPtr(nullFloat(nil)))
}
