package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreOrdered(t *testing.T) {
	steps, err := Migrations()
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "0001_activity_log.sql", steps[0].Name)
	assert.Equal(t, "0002_idempotency_keys.sql", steps[1].Name)
	assert.True(t, strings.Contains(steps[1].SQL, "idempotency_keys"))
}
