package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"yarmouktailor/backend/internal/store"
)

const redisKeyPrefix = "yt:session:"

// RedisStore persists sessions in Redis so the storefront can run with more
// than one backend replica. Each session is one JSON value under a TTL key.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, id string) (*State, error) {
	payload, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get %s: %w", id, err)
	}
	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("session decode %s: %w", id, err)
	}
	return &state, nil
}

func (r *RedisStore) Put(ctx context.Context, state *State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("session encode %s: %w", state.ID, err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+state.ID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("session put %s: %w", state.ID, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session delete %s: %w", id, err)
	}
	return nil
}

func (r *RedisStore) PurgeFabricSelection(ctx context.Context, fabricID string) error {
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		payload, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return fmt.Errorf("session purge scan %s: %w", key, err)
		}
		var state State
		if err := json.Unmarshal(payload, &state); err != nil {
			continue
		}
		if state.SelectedFabricID != fabricID {
			continue
		}
		state.SelectedFabricID = ""
		updated, err := json.Marshal(&state)
		if err != nil {
			continue
		}
		if err := r.client.Set(ctx, key, updated, redis.KeepTTL).Err(); err != nil {
			return fmt.Errorf("session purge write %s: %w", key, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("session purge: %w", err)
	}
	return nil
}
