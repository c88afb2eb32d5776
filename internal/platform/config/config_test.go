package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PGSQL_URL", "postgres://localhost/ledger")
	t.Setenv("ALLOCATION_TOLERANCE_PERCENT", "")
	t.Setenv("PAYROLL_GENERATE_CRON", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/ledger", cfg.DatabaseURL)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultJWTIssuer, cfg.JWTIssuer)
	assert.Equal(t, defaultRateLimit, cfg.RateLimit)
	assert.True(t, cfg.AllocationTolerancePercent.Equal(decimal.NewFromInt(1)))
	assert.Empty(t, cfg.PayrollGenerateCron)
	assert.Equal(t, defaultPayrollSystemActor, cfg.PayrollSystemActor)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_FORMAT", "TEXT")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ALLOCATION_TOLERANCE_PERCENT", "2.5")
	t.Setenv("PAYROLL_GENERATE_CRON", "0 6 1 * *")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.AllocationTolerancePercent.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, "0 6 1 * *", cfg.PayrollGenerateCron)
}

func TestLoadConfig_InvalidToleranceFallsBack(t *testing.T) {
	t.Setenv("ALLOCATION_TOLERANCE_PERCENT", "abc")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.AllocationTolerancePercent.Equal(decimal.NewFromInt(1)))
}
