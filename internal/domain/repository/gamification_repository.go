package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skillarena/internal/common"
	"skillarena/internal/domain/gamification"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// GamificationStore keeps one engine state per user and serialises writers
// through a short-lived per-user lock.
type GamificationStore interface {
	Load(ctx context.Context, userID string) (*gamification.State, error)
	Save(ctx context.Context, userID string, s gamification.State) error
	// Lock returns common.ErrStateBusy when another writer holds the lock.
	Lock(ctx context.Context, userID string, ttl time.Duration) (release func(context.Context) error, err error)
}

const (
	statePrefix = "gamification:state:"
	lockPrefix  = "gamification:lock:"
)

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
else
    return 0
end
`)

type redisGamificationStore struct {
	rdb *redis.Client
}

func NewRedisGamificationStore(rdb *redis.Client) GamificationStore {
	return &redisGamificationStore{rdb: rdb}
}

func stateKey(userID string) string { return statePrefix + userID }
func lockKey(userID string) string  { return lockPrefix + userID }

func (s *redisGamificationStore) Load(ctx context.Context, userID string) (*gamification.State, error) {
	raw, err := s.rdb.Get(ctx, stateKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("redisGamificationStore.Load: %v: %w", err, common.ErrUpstream)
	}
	return decodeState(raw)
}

func (s *redisGamificationStore) Save(ctx context.Context, userID string, st gamification.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("redisGamificationStore.Save marshal: %w", err)
	}
	if err := s.rdb.Set(ctx, stateKey(userID), raw, 0).Err(); err != nil {
		return fmt.Errorf("redisGamificationStore.Save: %v: %w", err, common.ErrUpstream)
	}
	return nil
}

func (s *redisGamificationStore) Lock(ctx context.Context, userID string, ttl time.Duration) (func(context.Context) error, error) {
	key := lockKey(userID)
	value := uuid.NewString()

	ok, err := s.rdb.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redisGamificationStore.Lock: %v: %w", err, common.ErrUpstream)
	}
	if !ok {
		return nil, common.ErrStateBusy
	}

	release := func(ctx context.Context) error {
		// Only delete the lock if it is still ours; it may have expired.
		if err := releaseScript.Run(ctx, s.rdb, []string{key}, value).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("redisGamificationStore.release: %w", err)
		}
		return nil
	}
	return release, nil
}

func decodeState(raw []byte) (*gamification.State, error) {
	var st gamification.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode gamification state: %w", err)
	}
	return &st, nil
}
