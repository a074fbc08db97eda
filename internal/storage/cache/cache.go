// Package cache provides a redis-backed read-through cache for the dashboard
// aggregation queries of the ledger store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

const defaultKeyPrefix = "ledger"

// Cache stores aggregation results per user under
// keyPrefix:summary:<user>:<generation>.
type Cache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
	logger    *logrus.Logger
}

// New creates a Cache. An empty prefix falls back to "ledger".
func New(client redis.UniversalClient, keyPrefix string, ttl time.Duration, logger *logrus.Logger) *Cache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &Cache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		logger:    logger,
	}
}

func (c *Cache) key(parts ...string) string {
	key := c.keyPrefix
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

func (c *Cache) generationKey(userID uuid.UUID) string {
	return c.key("summary", userID.String(), "gen")
}

// userKey names an entry of the user's current generation. Entries of older
// generations are never read again and expire with their TTL.
func (c *Cache) userKey(userID uuid.UUID, generation int64, parts ...string) string {
	return c.key(append([]string{"summary", userID.String(), strconv.FormatInt(generation, 10)}, parts...)...)
}

// generation reads the user's generation counter. ok is false when redis is
// unreachable, in which case the cache is bypassed.
func (c *Cache) generation(ctx context.Context, userID uuid.UUID) (int64, bool) {
	generation, err := c.client.Get(ctx, c.generationKey(userID)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, true
	case err != nil:
		c.logger.WithError(err).WithField("userID", userID.String()).Warn("Cache.generation.failed")
		return 0, false
	}
	return generation, true
}

func windowParts(window model.Window, kind model.TransactionKind) []string {
	return []string{
		string(kind),
		strconv.FormatInt(window.From.UnixNano(), 10),
		strconv.FormatInt(window.To.UnixNano(), 10),
	}
}

func (c *Cache) get(ctx context.Context, key string, dest any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).WithField("key", key).Warn("Cache.get.failed")
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache.get.corrupt entry")
		return false
	}
	return true
}

func (c *Cache) set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache.set.marshal failed")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache.set.failed")
	}
}

// InvalidateUser moves the user to a new generation so every cached
// aggregation, including one being computed right now, is ignored.
func (c *Cache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	return c.client.Incr(ctx, c.generationKey(userID)).Err()
}

// TransactionTable decorates a transaction table with cached aggregations.
// Redis failures degrade to the wrapped table.
type TransactionTable struct {
	model.ITransactionTable
	cache *Cache
}

var _ model.ITransactionTable = (*TransactionTable)(nil)

// Wrap returns inner with its aggregation reads cached.
func (c *Cache) Wrap(inner model.ITransactionTable) *TransactionTable {
	return &TransactionTable{ITransactionTable: inner, cache: c}
}

func (t *TransactionTable) SumByKind(ctx context.Context, userID uuid.UUID, window model.Window, kind model.TransactionKind) (decimal.Decimal, error) {
	generation, ok := t.cache.generation(ctx, userID)
	if !ok {
		return t.ITransactionTable.SumByKind(ctx, userID, window, kind)
	}
	key := t.cache.userKey(userID, generation, append([]string{"sum"}, windowParts(window, kind)...)...)

	var cached decimal.Decimal
	if t.cache.get(ctx, key, &cached) {
		return cached, nil
	}

	total, err := t.ITransactionTable.SumByKind(ctx, userID, window, kind)
	if err != nil {
		return decimal.Zero, err
	}
	t.cache.set(ctx, key, total)
	return total, nil
}

func (t *TransactionTable) SumGroupedByCategory(ctx context.Context, userID uuid.UUID, window model.Window, kind model.TransactionKind) ([]*model.CategoryTotal, error) {
	generation, ok := t.cache.generation(ctx, userID)
	if !ok {
		return t.ITransactionTable.SumGroupedByCategory(ctx, userID, window, kind)
	}
	key := t.cache.userKey(userID, generation, append([]string{"groups"}, windowParts(window, kind)...)...)

	var cached []*model.CategoryTotal
	if t.cache.get(ctx, key, &cached) {
		return cached, nil
	}

	groups, err := t.ITransactionTable.SumGroupedByCategory(ctx, userID, window, kind)
	if err != nil {
		return nil, err
	}
	t.cache.set(ctx, key, groups)
	return groups, nil
}

func (t *TransactionTable) Insert(ctx context.Context, create *model.TransactionCreate) (*model.Transaction, error) {
	created, err := t.ITransactionTable.Insert(ctx, create)
	if err != nil {
		return nil, err
	}
	if err := t.cache.InvalidateUser(ctx, create.UserID); err != nil {
		t.cache.logger.WithError(err).Warn("Cache.Insert.invalidate failed")
	}
	return created, nil
}
