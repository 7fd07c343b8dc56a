package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err, "expected defaults to load")

	assert.Equal(t, "localhost:8000", cfg.ServerAddr)
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 10, cfg.DefaultRoomCapacity)
	assert.Equal(t, 50, cfg.MaxRoomCapacity)
	assert.Equal(t, 24*time.Hour, cfg.RoomExpiry)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
}

func TestLoad_environmentOverrides(t *testing.T) {
	t.Setenv("HUDDLE_SERVER_ADDR", ":9999")
	t.Setenv("HUDDLE_DEFAULT_ROOM_CAPACITY", "4")
	t.Setenv("HUDDLE_ROOM_EXPIRY", "30m")
	t.Setenv("HUDDLE_ALLOWED_ORIGINS", "http://a.example,http://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ServerAddr)
	assert.Equal(t, 4, cfg.DefaultRoomCapacity)
	assert.Equal(t, 30*time.Minute, cfg.RoomExpiry)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_invalidValues(t *testing.T) {
	tcases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "capacity too small", key: "HUDDLE_DEFAULT_ROOM_CAPACITY", value: "1"},
		{name: "max below default", key: "HUDDLE_MAX_ROOM_CAPACITY", value: "5"},
		{name: "zero expiry", key: "HUDDLE_ROOM_EXPIRY", value: "0s"},
		{name: "zero sweep interval", key: "HUDDLE_SWEEP_INTERVAL", value: "0s"},
		{name: "zero rate limit", key: "HUDDLE_RATE_LIMIT_REQUESTS", value: "0"},
		{name: "zero rate window", key: "HUDDLE_RATE_LIMIT_WINDOW", value: "0s"},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err, "expected validation to fail")
		})
	}
}
