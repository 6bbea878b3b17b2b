package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisSessions struct {
	client *redis.Client
	prefix string
}

// NewRedisSessions returns a SessionStore backed by the redis instance at
// addr. Tokens survive dev-server restarts and expire with their TTL.
func NewRedisSessions(addr, prefix string) SessionStore {
	return &redisSessions{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
	}
}

func (r *redisSessions) key(token string) string {
	return fmt.Sprintf("%s:session:%s", r.prefix, token)
}

func (r *redisSessions) Put(ctx context.Context, token string, user User, ttl time.Duration) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("redis sessions: encode user: %w", err)
	}
	if err := r.client.Set(ctx, r.key(token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis sessions: set: %w", err)
	}
	return nil
}

func (r *redisSessions) Get(ctx context.Context, token string) (User, bool, error) {
	raw, err := r.client.Get(ctx, r.key(token)).Result()
	if err == redis.Nil {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, fmt.Errorf("redis sessions: get: %w", err)
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return User{}, false, fmt.Errorf("redis sessions: decode user: %w", err)
	}
	return user, true, nil
}
