package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("LV_TEST_INT", "not-a-number")
	t.Setenv("LV_TEST_BOOL", "true")
	t.Setenv("LV_TEST_DURATION", "90s")

	assert.Equal(t, "fallback", GetEnv("LV_TEST_MISSING", "fallback"))
	assert.Equal(t, 7, GetEnvAsInt("LV_TEST_INT", 7))
	assert.True(t, GetEnvAsBool("LV_TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, GetEnvAsDuration("LV_TEST_DURATION", time.Minute))
	assert.Equal(t, time.Minute, GetEnvAsDuration("LV_TEST_MISSING", time.Minute))
}

func TestGetDSN(t *testing.T) {
	t.Setenv("DATABASE_HOST", "db")
	t.Setenv("DATABASE_USER", "postgres")
	t.Setenv("DATABASE_PASSWORD", "password")
	t.Setenv("DATABASE_NAME", "livevibe")
	t.Setenv("DATABASE_PORT", "")

	dsn := GetDSN()
	assert.Contains(t, dsn, "host=db")
	assert.Contains(t, dsn, "dbname=livevibe")
	assert.Contains(t, dsn, "port=5432")
}

func TestPublicBaseURLAndOrigins(t *testing.T) {
	t.Setenv("PUBLIC_BASE_URL", "https://tickets.example.com/")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")

	assert.Equal(t, "https://tickets.example.com", GetPublicBaseURL())
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, GetAllowedOrigins())
}
