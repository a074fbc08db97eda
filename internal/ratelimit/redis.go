package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/v9"
)

// slidingWindow trims the user's sorted set to the window, records the
// request when it fits and returns {allowed, count, resetAtMs}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count < limit then
  redis.call('ZADD', key, now, ARGV[4])
  count = count + 1
  allowed = 1
end
redis.call('PEXPIRE', key, window)

local reset = now + window
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if oldest[2] then
  reset = tonumber(oldest[2]) + window
end
return {allowed, count, reset}
`)

// RedisLimiter shares limits across instances through one sorted set per
// user and scope.
type RedisLimiter struct {
	client    redis.UniversalClient
	keyPrefix string
	now       func() time.Time
}

func NewRedisLimiter(client redis.UniversalClient, keyPrefix string) *RedisLimiter {
	if keyPrefix == "" {
		keyPrefix = "ledger"
	}
	return &RedisLimiter{client: client, keyPrefix: keyPrefix, now: time.Now}
}

// SetClock overrides the time source.
func (l *RedisLimiter) SetClock(now func() time.Time) {
	l.now = now
}

func (l *RedisLimiter) Allow(ctx context.Context, userID uuid.UUID, rule Rule) (Decision, error) {
	member, err := uuid.NewV4()
	if err != nil {
		return Decision{}, err
	}

	key := fmt.Sprintf("%s:ratelimit:%s", l.keyPrefix, bucketKey(userID, rule.Scope))
	result, err := slidingWindow.Run(ctx, l.client, []string{key},
		l.now().UnixMilli(),
		rule.Window.Milliseconds(),
		rule.Limit,
		member.String(),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: %w", err)
	}
	if len(result) != 3 {
		return Decision{}, fmt.Errorf("ratelimit: unexpected script result %v", result)
	}

	return Decision{
		Allowed:   result[0] == 1,
		Limit:     rule.Limit,
		Remaining: max(rule.Limit-int(result[1]), 0),
		ResetAt:   time.UnixMilli(result[2]),
	}, nil
}
