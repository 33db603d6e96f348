package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "refresh"

var (
	// ErrRedisUnavailable wraps any Redis I/O failure.
	ErrRedisUnavailable = errors.New("redis unavailable")
	// ErrRefreshNotFound is returned when no refresh token is stored for a subject,
	// either because none was written or because it expired.
	ErrRefreshNotFound = errors.New("refresh token not found")
	// ErrInvalidTTL is returned for TTLs Redis cannot express with EX.
	ErrInvalidTTL = errors.New("refresh ttl must be a positive whole number of seconds")
	// ErrEmptySubject is returned when a subject is blank.
	ErrEmptySubject = errors.New("empty subject")
)

// Store is the Redis-backed refresh token custody. Safe for concurrent use.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore returns a Store writing keys under prefix. An empty prefix means
// DefaultPrefix.
func NewStore(r redis.UniversalClient, prefix string) *Store {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{redis: r, prefix: prefix}
}

// Key returns the Redis key holding subject's refresh token.
func (s *Store) Key(subject string) string {
	return s.prefix + ":" + subject
}

// SetRefreshToken overwrites subject's refresh token and its TTL in one command.
// Any previously stored token stops matching immediately.
func (s *Store) SetRefreshToken(ctx context.Context, subject, token string, ttl time.Duration) error {
	if subject == "" {
		return ErrEmptySubject
	}
	if ttl < time.Second || ttl%time.Second != 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTTL, ttl)
	}
	if err := s.redis.SetEx(ctx, s.Key(subject), token, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// GetRefreshToken returns subject's stored refresh token or ErrRefreshNotFound.
func (s *Store) GetRefreshToken(ctx context.Context, subject string) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}
	token, err := s.redis.Get(ctx, s.Key(subject)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrRefreshNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return token, nil
}

// RefreshTTL reports how long subject's refresh record has left.
func (s *Store) RefreshTTL(ctx context.Context, subject string) (time.Duration, error) {
	ttl, err := s.redis.TTL(ctx, s.Key(subject)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	// -2: key missing, -1: no expiry (never written by this store).
	if ttl < 0 {
		return 0, ErrRefreshNotFound
	}
	return ttl, nil
}

// Ping checks Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
