package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/craftfolio/api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisStore counts requests in Redis so that limits hold across server
// instances. Increments are atomic (INCR), never read-modify-write.
//
// Failure policy is fail-open: when Redis is unreachable the store returns a
// permissive Result instead of an error, trading strictness for
// availability. The first failure is logged once to avoid log spam.
type RedisStore struct {
	rdb      redis.Cmdable
	log      *logger.Logger
	logOnce  sync.Once
	now      func() time.Time
	keySpace string
}

// NewRedisStore creates a RedisStore. keySpace prefixes every Redis key so
// counters do not collide with other uses of the same database.
func NewRedisStore(rdb redis.Cmdable, log *logger.Logger) *RedisStore {
	return &RedisStore{
		rdb:      rdb,
		log:      log,
		now:      time.Now,
		keySpace: "ratelimit:",
	}
}

func (s *RedisStore) failOpen(ctx context.Context, max int, window time.Duration, err error) Result {
	s.logOnce.Do(func() {
		if s.log != nil {
			s.log.Error(ctx).WithMeta(map[string]string{"error": err.Error()}).Logs("Rate limit Redis backend unavailable, failing open")
		}
	})
	return Result{Allowed: true, Remaining: max, ResetAt: s.now().Add(window), Limit: max}
}

func (s *RedisStore) Check(ctx context.Context, key string, max int, window time.Duration) (Result, error) {
	rkey := s.keySpace + key

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, rkey)
	ttl := pipe.TTL(ctx, rkey)
	if _, err := pipe.Exec(ctx); err != nil {
		return s.failOpen(ctx, max, window, err), nil
	}

	count := int(incr.Val())
	expiry := ttl.Val()

	// TTL < 0 means the key has no expiry yet: this increment opened the
	// window, so arm it now.
	if expiry < 0 {
		if err := s.rdb.Expire(ctx, rkey, window).Err(); err != nil {
			return s.failOpen(ctx, max, window, err), nil
		}
		expiry = window
	}

	return Result{
		Allowed:   count <= max,
		Remaining: remaining(max, count),
		ResetAt:   s.now().Add(expiry),
		Limit:     max,
	}, nil
}

func (s *RedisStore) Peek(ctx context.Context, key string, max int) (Result, error) {
	rkey := s.keySpace + key

	pipe := s.rdb.TxPipeline()
	get := pipe.Get(ctx, rkey)
	ttl := pipe.TTL(ctx, rkey)
	_, err := pipe.Exec(ctx)
	if err == redis.Nil {
		return Result{Allowed: true, Remaining: max, ResetAt: s.now(), Limit: max}, nil
	}
	if err != nil {
		return s.failOpen(ctx, max, 0, err), nil
	}

	count, _ := get.Int()
	return Result{
		Allowed:   count <= max,
		Remaining: remaining(max, count),
		ResetAt:   s.now().Add(ttl.Val()),
		Limit:     max,
	}, nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.keySpace+key).Err()
}

func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, s.keySpace+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
