package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"API_URL": "http://backend:4000/api/"}))
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "http://backend:4000/api", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 2, cfg.BackendRetries)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "America/Mexico_City", cfg.TimeZone)
	assert.Equal(t, "America/Mexico_City", cfg.Location().String())
	assert.Equal(t, "consumo", cfg.InfluxDBBucket)
	assert.False(t, cfg.InfluxEnabled())
	assert.Empty(t, cfg.JWTSecret)
}

func TestFromEnvRequiresBackend(t *testing.T) {
	_, err := FromEnv(env(nil))
	assert.Error(t, err)
}

func TestFromEnvPartialInflux(t *testing.T) {
	_, err := FromEnv(env(map[string]string{
		"API_URL":      "http://backend",
		"INFLUXDB_URL": "http://influx:8086",
	}))
	assert.ErrorContains(t, err, "InfluxDB configuration is incomplete")
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"API_URL":              "http://backend",
		"PORT":                 "9090",
		"BACKEND_RETRIES":      "0",
		"SESSION_TTL":          "30m",
		"CORS_ALLOWED_ORIGINS": "http://a.test, http://b.test,",
		"REDIS_ADDR":           "redis:6379",
		"REDIS_DB":             "3",
		"INFLUXDB_URL":         "http://influx:8086",
		"INFLUXDB_TOKEN":       "tok",
		"INFLUXDB_ORG":         "eurbana",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 0, cfg.BackendRetries)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.InfluxEnabled())
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	for key, val := range map[string]string{
		"BACKEND_TIMEOUT":    "soon",
		"REDIS_DB":           "one",
		"DASHBOARD_TIMEZONE": "Mars/Olympus",
	} {
		_, err := FromEnv(env(map[string]string{"API_URL": "http://backend", key: val}))
		assert.Error(t, err, key)
	}
}
