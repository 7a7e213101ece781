package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/pkg/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "secreto-de-pruebas")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/cafeteria")
	t.Setenv("KRA_BASE_URL", "https://etims-api-sbx.kra.go.ke/etims-api/")
	for _, k := range []string{"LOG_LEVEL", "KRA_TIMEOUT_SECONDS", "KRA_PENDING_RETRY_SECONDS", "ADMIN_EMAIL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "https://etims-api-sbx.kra.go.ke/etims-api", cfg.KRA.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.KRA.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.KRA.PendingRetry)
}

func TestLoad_LogLevel(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)

	t.Setenv("LOG_LEVEL", "verbose")
	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestLoad_SinSecretosFalla(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("KRA_BASE_URL", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "KRA_BASE_URL")
}
