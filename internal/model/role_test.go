package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleOrdering(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		other   Role
		atLeast bool
	}{
		{"student vs student", RoleStudent, RoleStudent, true},
		{"student vs contributor", RoleStudent, RoleContributor, false},
		{"student vs admin", RoleStudent, RoleAdmin, false},
		{"contributor vs student", RoleContributor, RoleStudent, true},
		{"contributor vs admin", RoleContributor, RoleAdmin, false},
		{"admin vs student", RoleAdmin, RoleStudent, true},
		{"admin vs contributor", RoleAdmin, RoleContributor, true},
		{"admin vs admin", RoleAdmin, RoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.role.AtLeast(tt.other)
			require.NoError(t, err)
			assert.Equal(t, tt.atLeast, got)
		})
	}
}

func TestRoleUnknownIsHardError(t *testing.T) {
	bad := Role("superuser")

	_, err := bad.Level()
	require.Error(t, err)

	var unknownErr *UnknownRoleError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, bad, unknownErr.Role)

	// The comparison itself must fail, never default to lowest privilege.
	_, err = bad.AtLeast(RoleStudent)
	assert.Error(t, err)
	_, err = RoleStudent.AtLeast(bad)
	assert.Error(t, err)

	assert.False(t, bad.Valid())
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("contributor")
	require.NoError(t, err)
	assert.Equal(t, RoleContributor, r)

	_, err = ParseRole("")
	assert.Error(t, err)
	_, err = ParseRole("Admin") // case sensitive
	assert.Error(t, err)
}

func TestContentKindValid(t *testing.T) {
	assert.True(t, KindNote.Valid())
	assert.True(t, KindQuiz.Valid())
	assert.True(t, KindPastPaper.Valid())
	assert.False(t, ContentKind("video").Valid())
	assert.False(t, ContentKind("").Valid())
}
