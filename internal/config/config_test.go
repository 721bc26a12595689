package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		// t.Setenv sets the environment variable for the duration of the test
		// and automatically restores it afterwards.
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("APP_ENV", "test")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("SHIPPING_COST", "75.50")
		t.Setenv("ORDER_VERIFY_TOTAL", "true")
		t.Setenv("ORDER_STRICT_TRANSITIONS", "1")
		t.Setenv("NATS_URL", "nats://localhost:4222")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "secret", cfg.JWTSecret)
		assert.True(t, cfg.ShippingCost.Equal(decimal.RequireFromString("75.50")))
		assert.True(t, cfg.VerifyOrderTotal)
		assert.True(t, cfg.StrictStatusTransitions)
		assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_PORT", "")
		t.Setenv("APP_PORT", "")
		t.Setenv("SHIPPING_COST", "not-a-number")
		t.Setenv("ORDER_VERIFY_TOTAL", "maybe")
		t.Setenv("ORDER_STRICT_TRANSITIONS", "")
		t.Setenv("METRICS_NAMESPACE", "")
		t.Setenv("CORS_ALLOWED_ORIGIN", "")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.True(t, cfg.ShippingCost.Equal(decimal.NewFromInt(60)))
		assert.False(t, cfg.VerifyOrderTotal)
		assert.False(t, cfg.StrictStatusTransitions)
		assert.Equal(t, "storefront", cfg.MetricsNamespace)
		assert.Equal(t, "http://localhost:3000", cfg.CORSOrigin)
	})

	t.Run("Missing DB host", func(t *testing.T) {
		t.Setenv("DB_HOST", "")

		cfg, err := Load()
		assert.ErrorIs(t, err, ErrMissingDBHost)
		assert.Nil(t, cfg)
	})
}
