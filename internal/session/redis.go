package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medicloud/portal-service/internal/errs"
)

// RedisStore хранит сессии в Redis, одна запись на sid, с TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Ping проверяет соединение при старте приложения.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func key(sid string) string {
	return "medicloud:session:" + sid
}

func (r *RedisStore) Get(ctx context.Context, sid string) (Session, error) {
	raw, err := r.rdb.Get(ctx, key(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, errs.ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("session redis get: %w", err)
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Session{}, fmt.Errorf("session redis decode: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Put(ctx context.Context, sid string, s Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session redis encode: %w", err)
	}
	if err := r.rdb.Set(ctx, key(sid), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("session redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, sid string) error {
	if err := r.rdb.Del(ctx, key(sid)).Err(); err != nil {
		return fmt.Errorf("session redis del: %w", err)
	}
	return nil
}
