package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "forty-two")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DUR", "90s")
	t.Setenv("TEST_SLICE", "a, b ,c,")

	assert.Equal(t, "value", GetEnv("TEST_STR", "fallback"))
	assert.Equal(t, "fallback", GetEnv("TEST_MISSING", "fallback"))

	assert.Equal(t, 42, GetIntEnv("TEST_INT", 7))
	assert.Equal(t, 7, GetIntEnv("TEST_INT_BAD", 7))
	assert.Equal(t, 7, GetIntEnv("TEST_MISSING", 7))

	assert.True(t, GetBoolEnv("TEST_BOOL", false))
	assert.False(t, GetBoolEnv("TEST_MISSING", false))

	assert.Equal(t, 90*time.Second, GetDurationEnv("TEST_DUR", time.Minute))
	assert.Equal(t, time.Minute, GetDurationEnv("TEST_MISSING", time.Minute))

	assert.Equal(t, []string{"a", "b", "c"}, GetStringSliceEnv("TEST_SLICE", nil))
	assert.Equal(t, []string{"x"}, GetStringSliceEnv("TEST_MISSING", []string{"x"}))
}

func TestLoadServiceConfig(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DB_NAME", "marksDB_test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := LoadServiceConfig("test-service")
	require.NoError(t, err)

	assert.Equal(t, "test-service", cfg.ServiceName)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "marksDB_test", cfg.MongoDB.Database)
	assert.Equal(t, "secret", cfg.Security.JWTSecret)
	assert.Equal(t, 24, cfg.Security.JWTExpirationHours)
	require.NoError(t, ValidateServiceConfig(cfg))
}

func TestLoadServiceConfig_RequiresMongoURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := LoadServiceConfig("test-service")
	assert.Error(t, err)
}

func TestLoadServiceConfig_RequiresJWTSecret(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadServiceConfig("test-service")
	assert.Error(t, err)
}
