package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://erp.local/api")
	t.Setenv("CSRF_SECRET", "s3cret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, "odyssey_admin", cfg.SessionCookie)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRequiresAPI(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("CSRF_SECRET", "s3cret")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsPageSize(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://erp.local/api")
	t.Setenv("CSRF_SECRET", "s3cret")
	t.Setenv("PAGE_SIZE", "500")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "page size")
}
