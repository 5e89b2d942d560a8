package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "cookbook", cfg.DBName)
	assert.Equal(t, 1, cfg.MinCookingTime)
	assert.Equal(t, 0, cfg.MaxCookingTime)
	assert.Equal(t, 1, cfg.MinIngredientAmount)
	assert.Equal(t, "media", cfg.MediaDir)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("MIN_COOKING_TIME", "5")
	t.Setenv("MAX_COOKING_TIME", "600")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, 5, cfg.MinCookingTime)
	assert.Equal(t, 600, cfg.MaxCookingTime)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateConfigThresholds(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWTSecret:           "secret",
			DBHost:              "localhost",
			DBPort:              "5432",
			DBName:              "cookbook",
			MinCookingTime:      1,
			MinIngredientAmount: 1,
		}
	}

	cfg := base()
	assert.NoError(t, ValidateConfig(cfg))

	cfg = base()
	cfg.MinCookingTime = 0
	assert.Error(t, ValidateConfig(cfg))

	cfg = base()
	cfg.MaxCookingTime = 1
	cfg.MinCookingTime = 2
	assert.Error(t, ValidateConfig(cfg))

	cfg = base()
	cfg.MinIngredientAmount = 0
	assert.Error(t, ValidateConfig(cfg))
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())
	assert.True(t, IsTest())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}
