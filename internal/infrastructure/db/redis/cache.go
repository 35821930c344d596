package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
)

const defaultCacheTTL = 30 * time.Second

// setUnlessStale writes KEYS[1] unless the stale marker KEYS[2] exists.
var setUnlessStale = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

// OperatorCache keeps resolved operators keyed by email so the access gate
// can skip the store on hot paths.
// Key format: operator:<email>, stale marker operator:<email>:stale
//
// Invalidate leaves a stale marker for one TTL. A reader that loaded the
// record before a concurrent write cannot repopulate the entry while the
// marker lives, so the old role is never served after the write returns.
//
// Redis failures are logged and treated as misses. The password hash is
// never written.
type OperatorCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewOperatorCache wraps client. A non-positive ttl falls back to 30s.
func NewOperatorCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *OperatorCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &OperatorCache{client: client, ttl: ttl, log: log}
}

func (c *OperatorCache) Get(ctx context.Context, email string) (*domain.Operator, bool) {
	raw, err := c.client.Get(ctx, c.key(email)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("email", email).Msg("identity cache read failed")
		}
		return nil, false
	}

	var op domain.Operator
	if err := json.Unmarshal(raw, &op); err != nil {
		c.log.Warn().Err(err).Str("email", email).Msg("identity cache entry corrupt")
		return nil, false
	}
	return &op, true
}

func (c *OperatorCache) Set(ctx context.Context, op *domain.Operator) {
	raw, err := json.Marshal(op)
	if err != nil {
		c.log.Warn().Err(err).Str("email", op.Email).Msg("identity cache encode failed")
		return
	}
	keys := []string{c.key(op.Email), c.staleKey(op.Email)}
	if err := setUnlessStale.Run(ctx, c.client, keys, raw, c.ttl.Milliseconds()).Err(); err != nil {
		c.log.Warn().Err(err).Str("email", op.Email).Msg("identity cache write failed")
	}
}

func (c *OperatorCache) Invalidate(ctx context.Context, emails ...string) {
	if len(emails) == 0 {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, e := range emails {
			pipe.Del(ctx, c.key(e))
			pipe.Set(ctx, c.staleKey(e), 1, c.ttl)
		}
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Strs("emails", emails).Msg("identity cache invalidation failed")
	}
}

func (c *OperatorCache) key(email string) string {
	return "operator:" + email
}

func (c *OperatorCache) staleKey(email string) string {
	return c.key(email) + ":stale"
}
