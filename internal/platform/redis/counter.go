package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

const DefaultKeyPrefix = "eduhub:seq:"

// floorScript raises the counter to ARGV[1] without ever lowering it.
var floorScript = goredis.NewScript(`
local cur = tonumber(redis.call("GET", KEYS[1]) or "0")
local min = tonumber(ARGV[1])
if cur < min then
	redis.call("SET", KEYS[1], min)
	return min
end
return cur
`)

type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Counter hands out ID sequences with INCR, one key per prefix.
type Counter struct {
	log       *logger.Logger
	rdb       *goredis.Client
	keyPrefix string
}

func NewCounter(ctx context.Context, cfg Config, log *logger.Logger) (*Counter, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Counter{
		log:       log.With("service", "RedisCounter"),
		rdb:       rdb,
		keyPrefix: keyPrefix,
	}, nil
}

func (c *Counter) key(prefix domain.IDPrefix) string {
	return c.keyPrefix + string(prefix)
}

func (c *Counter) Next(ctx context.Context, prefix domain.IDPrefix) (int64, error) {
	if c == nil || c.rdb == nil {
		return 0, fmt.Errorf("redis counter not initialized")
	}
	seq, err := c.rdb.Incr(ctx, c.key(prefix)).Result()
	if err != nil {
		return 0, domain.Wrap(domain.CodeInternal, "next sequence", err)
	}
	return seq, nil
}

func (c *Counter) Floor(ctx context.Context, prefix domain.IDPrefix, min int64) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("redis counter not initialized")
	}
	if err := floorScript.Run(ctx, c.rdb, []string{c.key(prefix)}, min).Err(); err != nil {
		return domain.Wrap(domain.CodeInternal, "floor sequence", err)
	}
	c.log.Debug("sequence floored", "prefix", prefix, "min", min)
	return nil
}

// Reset removes every sequence key under the configured prefix.
func (c *Counter) Reset(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, c.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Counter) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
