package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session documents in Redis; the cookie only carries the signed id.
type RedisStore struct {
	cfg    Config
	signer *signer
	client *redis.Client
}

// NewRedisStore returns a Redis-backed Store.
func NewRedisStore(cfg Config, client *redis.Client) (*RedisStore, error) {
	sg, err := newSigner(cfg.Secrets)
	if err != nil {
		return nil, err
	}
	return &RedisStore{cfg: cfg, signer: sg, client: client}, nil
}

func (r *RedisStore) key(id string) string {
	return r.cfg.KeyPrefix + id
}

// Get loads the session referenced by the cookie. A missing, invalid or
// expired reference yields a new session; Redis failures are returned.
func (r *RedisStore) Get(ctx context.Context, cookieHeader string) (*Session, error) {
	raw, ok := readCookie(cookieHeader, r.cfg.CookieName)
	if !ok {
		return newSession(), nil
	}
	id, ok := r.signer.unsign(raw)
	if !ok {
		return newSession(), nil
	}

	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return newSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	values, err := decodeValues(data)
	if err != nil {
		return newSession(), nil
	}
	return &Session{id: id, values: values}, nil
}

// Commit writes the session document with a TTL of MaxAge and returns the cookie.
func (r *RedisStore) Commit(ctx context.Context, s *Session) (string, error) {
	if s.id == "" {
		s.id = uuid.NewString()
	}
	data, err := s.encode()
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.id), data, r.cfg.MaxAge).Err(); err != nil {
		return "", fmt.Errorf("redis set session: %w", err)
	}
	return r.cfg.setCookie(r.signer.sign(s.id)), nil
}
