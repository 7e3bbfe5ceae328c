package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStore tracks authenticated phones. Expiry is enforced by Redis
// key TTL, so a stale session disappears without an explicit sweep.
type SessionStore interface {
	Create(ctx context.Context, phone, userID string, ttl time.Duration) error
	UserID(ctx context.Context, phone string) (string, error)
	IsActive(ctx context.Context, phone string) (bool, error)
	Delete(ctx context.Context, phone string) error
}

type sessionStore struct{ rdb *redis.Client }

func NewSessionStore(rdb *redis.Client) SessionStore { return &sessionStore{rdb: rdb} }

func (s *sessionStore) Create(ctx context.Context, phone, userID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, sessionKeyPrefix+phone, userID, ttl).Err()
}

// UserID returns "" when no active session exists for the phone.
func (s *sessionStore) UserID(ctx context.Context, phone string) (string, error) {
	val, err := s.rdb.Get(ctx, sessionKeyPrefix+phone).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *sessionStore) IsActive(ctx context.Context, phone string) (bool, error) {
	id, err := s.UserID(ctx, phone)
	return id != "", err
}

func (s *sessionStore) Delete(ctx context.Context, phone string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+phone).Err()
}
