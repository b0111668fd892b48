package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvFallbacks(t *testing.T) {
	assert.Equal(t, ":8080", getEnv("WIFITRACK_TEST_UNSET", ":8080"))

	t.Setenv("WIFITRACK_TEST_ADDR", ":9090")
	assert.Equal(t, ":9090", getEnv("WIFITRACK_TEST_ADDR", ":8080"))
}

func TestGetEnvBool(t *testing.T) {
	assert.False(t, getEnvBool("WIFITRACK_TEST_UNSET", false))

	t.Setenv("WIFITRACK_TEST_BOOL", "true")
	assert.True(t, getEnvBool("WIFITRACK_TEST_BOOL", false))

	t.Setenv("WIFITRACK_TEST_BOOL", "not-a-bool")
	assert.True(t, getEnvBool("WIFITRACK_TEST_BOOL", true), "garbage keeps the fallback")
}

func TestGetEnvInt(t *testing.T) {
	assert.Equal(t, 1000, getEnvInt("WIFITRACK_TEST_UNSET", 1000))

	t.Setenv("WIFITRACK_TEST_INT", "250")
	assert.Equal(t, 250, getEnvInt("WIFITRACK_TEST_INT", 1000))

	t.Setenv("WIFITRACK_TEST_INT", "many")
	assert.Equal(t, 1000, getEnvInt("WIFITRACK_TEST_INT", 1000))
}

func TestGetEnvDuration(t *testing.T) {
	assert.Equal(t, 10*time.Second, getEnvDuration("WIFITRACK_TEST_UNSET", 10*time.Second))

	t.Setenv("WIFITRACK_TEST_DUR", "30s")
	assert.Equal(t, 30*time.Second, getEnvDuration("WIFITRACK_TEST_DUR", 10*time.Second))

	t.Setenv("WIFITRACK_TEST_DUR", "soon")
	assert.Equal(t, 10*time.Second, getEnvDuration("WIFITRACK_TEST_DUR", 10*time.Second))
}
