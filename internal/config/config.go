package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is loaded from HUDDLE_-prefixed environment variables with
// the defaults below.
type Config struct {
	ServerAddr          string        `envconfig:"SERVER_ADDR" default:"localhost:8000"`
	BaseURL             string        `envconfig:"BASE_URL" default:"http://localhost:8000"`
	AllowedOrigins      []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	DefaultRoomCapacity int           `envconfig:"DEFAULT_ROOM_CAPACITY" default:"10"`
	MaxRoomCapacity     int           `envconfig:"MAX_ROOM_CAPACITY" default:"50"`
	RoomExpiry          time.Duration `envconfig:"ROOM_EXPIRY" default:"24h"`
	SweepInterval       time.Duration `envconfig:"SWEEP_INTERVAL" default:"1h"`
	RateLimitRequests   int           `envconfig:"RATE_LIMIT_REQUESTS" default:"100"`
	RateLimitWindow     time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("huddle", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ServerAddr == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if c.DefaultRoomCapacity < 2 {
		return fmt.Errorf("default room capacity must be at least 2, got %d", c.DefaultRoomCapacity)
	}
	if c.MaxRoomCapacity < c.DefaultRoomCapacity {
		return fmt.Errorf("max room capacity %d is below the default %d", c.MaxRoomCapacity, c.DefaultRoomCapacity)
	}
	if c.RoomExpiry <= 0 {
		return fmt.Errorf("room expiry must be positive, got %s", c.RoomExpiry)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", c.SweepInterval)
	}
	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("rate limit requests must be positive, got %d", c.RateLimitRequests)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", c.RateLimitWindow)
	}

	return nil
}
