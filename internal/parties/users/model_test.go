package users

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-admin/internal/grid"
)

func TestDecodeRequiresPasswordOnCreate(t *testing.T) {
	_, err := decode(grid.Values{"name": "Ana", "email": "ana@example.com", "role": "sales", "password": "", "password_confirm": ""})
	var problems grid.Problems
	require.True(t, errors.As(err, &problems))
	assert.Equal(t, "is required", problems["password"])

	_, err = decode(grid.Values{"password": "longenough", "password_confirm": "different"})
	require.True(t, errors.As(err, &problems))
	assert.Contains(t, problems, "password_confirm")
}

func TestDecodeEditOmitsPassword(t *testing.T) {
	in, err := decode(grid.Values{"name": "Ana", "email": "ana@example.com", "role": "sales", "active": "true"})
	require.NoError(t, err)
	assert.Empty(t, in.Password)
	assert.True(t, in.Active)
}

func TestUserValidation(t *testing.T) {
	problems := grid.Problems{}
	grid.Check(grid.NewValidator(), UserInput{Name: "A", Email: "nope", Role: "root", Password: "short"}, problems)
	assert.Equal(t, "must be a valid email address", problems["email"])
	assert.Contains(t, problems["role"], "must be one of")
	assert.Equal(t, "must be at least 8 characters", problems["password"])
}
