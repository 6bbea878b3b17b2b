package store

import (
	"context"
	"sync"
	"time"
)

// User is the operator a token belongs to.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SessionStore maps bearer tokens to users. The memory implementation is the
// default; the redis one keeps tokens across dev-server restarts.
type SessionStore interface {
	Put(ctx context.Context, token string, user User, ttl time.Duration) error
	Get(ctx context.Context, token string) (User, bool, error)
}

type memorySessions struct {
	mu     sync.Mutex
	tokens map[string]User
}

// NewMemorySessions returns an in-process SessionStore. TTLs are ignored;
// dev-server sessions live as long as the process.
func NewMemorySessions() SessionStore {
	return &memorySessions{tokens: make(map[string]User)}
}

func (m *memorySessions) Put(_ context.Context, token string, user User, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = user
	return nil
}

func (m *memorySessions) Get(_ context.Context, token string) (User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.tokens[token]
	return user, ok, nil
}
