package slotlock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// unlockScript deletes the key only if it still holds our token, so an
// expired holder never releases someone else's lock.
const unlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisConfig holds lock timing settings.
type RedisConfig struct {
	// TTL bounds how long a crashed holder can block a key.
	TTL time.Duration
	// Wait bounds how long Acquire retries before giving up.
	Wait time.Duration
	// RetryInterval is the pause between SETNX attempts.
	RetryInterval time.Duration
}

// DefaultRedisConfig returns default lock timings.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		TTL:           10 * time.Second,
		Wait:          3 * time.Second,
		RetryInterval: 50 * time.Millisecond,
	}
}

// RedisLocker implements Locker with SET NX PX and a token-checked release.
// It protects every server instance sharing the same Redis.
type RedisLocker struct {
	client   redis.Cmdable
	cfg      RedisConfig
	logger   *zap.Logger
	newToken func() string
}

func NewRedisLocker(client redis.Cmdable, cfg RedisConfig, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{
		client:   client,
		cfg:      cfg,
		logger:   logger,
		newToken: func() string { return uuid.NewString() },
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := l.newToken()

	var deadline time.Time
	if l.cfg.Wait > 0 {
		deadline = time.Now().Add(l.cfg.Wait)
	}

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.cfg.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire slot lock %s: %w", key, err)
		}
		if ok {
			return l.releaser(key, token), nil
		}

		if !deadline.IsZero() && time.Now().Add(l.cfg.RetryInterval).After(deadline) {
			return nil, ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.cfg.RetryInterval):
		}
	}
}

func (l *RedisLocker) releaser(key, token string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := l.client.Eval(ctx, unlockScript, []string{key}, token).Err(); err != nil {
			// The TTL still frees the key eventually.
			l.logger.Warn("failed to release slot lock", zap.String("key", key), zap.Error(err))
		}
	}
}
