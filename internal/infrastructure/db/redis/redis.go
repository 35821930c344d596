package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDialTimeout = 5 * time.Second

// Config describes the identity cache's Redis endpoint.
type Config struct {
	Addr     string
	Password string
	DB       int
	// DialTimeout bounds both the dial and the startup ping. Zero means 5s.
	DialTimeout time.Duration
}

// Connect dials Redis and pings it once so a bad address fails at startup
// instead of on the first cache read.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	dial := cfg.DialTimeout
	if dial <= 0 {
		dial = defaultDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dial,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dial)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s db %d: %w", cfg.Addr, cfg.DB, err)
	}
	return client, nil
}

// Probe reports whether client still answers; it backs the readiness check.
type Probe struct {
	client *redis.Client
}

func NewProbe(client *redis.Client) Probe { return Probe{client: client} }

func (p Probe) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
