// Package session provides per-browser key/value documents carried by a
// signed cookie, either inline or as a reference to Redis or DynamoDB.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/imrishuroy/orderdesk/internal/aws"
)

// Backends.
const (
	BackendCookie   = "cookie"
	BackendRedis    = "redis"
	BackendDynamoDB = "dynamodb"
)

// Config describes the session cookie and where session documents live.
type Config struct {
	Backend    string        `yaml:"backend" validate:"oneof=cookie redis dynamodb"`
	CookieName string        `yaml:"cookie_name" validate:"required"`
	Secrets    []string      `yaml:"secrets" validate:"min=1,dive,required"`
	Path       string        `yaml:"path"`
	MaxAge     time.Duration `yaml:"max_age" validate:"gt=0"`
	HTTPOnly   bool          `yaml:"http_only"`
	Secure     bool          `yaml:"secure"`
	SameSite   string        `yaml:"same_site" validate:"omitempty,oneof=lax strict none"`
	RedisAddr  string        `yaml:"redis_addr" validate:"required_if=Backend redis"`
	KeyPrefix  string        `yaml:"key_prefix"`
	Table      string        `yaml:"table" validate:"required_if=Backend dynamodb"`
}

// DefaultConfig mirrors the storefront defaults: a lax, http-only cookie named
// order_session that lives for 30 days.
func DefaultConfig() Config {
	return Config{
		Backend:    BackendCookie,
		CookieName: "order_session",
		Path:       "/",
		MaxAge:     30 * 24 * time.Hour,
		HTTPOnly:   true,
		SameSite:   "lax",
		KeyPrefix:  "orderdesk:session:",
	}
}

// Store loads a session from a Cookie header and commits it back into a
// Set-Cookie header value.
type Store interface {
	Get(ctx context.Context, cookieHeader string) (*Session, error)
	Commit(ctx context.Context, s *Session) (string, error)
}

// Deps carries the clients needed by the non-cookie backends.
type Deps struct {
	Redis    *redis.Client
	DynamoDB aws.DynamoDBAPI
}

// New builds the Store selected by cfg.Backend.
func New(cfg Config, deps Deps) (Store, error) {
	switch cfg.Backend {
	case "", BackendCookie:
		return NewCookieStore(cfg)
	case BackendRedis:
		if deps.Redis == nil {
			return nil, errors.New("redis session backend needs a redis client")
		}
		return NewRedisStore(cfg, deps.Redis)
	case BackendDynamoDB:
		if deps.DynamoDB == nil {
			return nil, errors.New("dynamodb session backend needs a dynamodb client")
		}
		return NewDynamoStore(cfg, deps.DynamoDB)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

// Session is one browser's document. It is not safe for concurrent use; a
// session belongs to a single request.
type Session struct {
	id     string
	values map[string]json.RawMessage
	isNew  bool
}

func newSession() *Session {
	return &Session{values: map[string]json.RawMessage{}, isNew: true}
}

// ID is the storage id for Redis and DynamoDB backed sessions; empty for cookie sessions.
func (s *Session) ID() string { return s.id }

// IsNew reports whether the session was created for this request.
func (s *Session) IsNew() bool { return s.isNew }

// Get decodes the value stored under key into out. It reports false when the key is unset.
func (s *Session) Get(key string, out any) (bool, error) {
	raw, ok := s.values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decode session key %q: %w", key, err)
	}
	return true, nil
}

// Set stores v under key.
func (s *Session) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode session key %q: %w", key, err)
	}
	s.values[key] = raw
	return nil
}

func (s *Session) encode() ([]byte, error) {
	return json.Marshal(s.values)
}

func decodeValues(data []byte) (map[string]json.RawMessage, error) {
	values := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// readCookie extracts the named cookie value from a raw Cookie header.
func readCookie(header, name string) (string, bool) {
	if header == "" {
		return "", false
	}
	r := &http.Request{Header: http.Header{"Cookie": []string{header}}}
	c, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// setCookie renders the Set-Cookie header value for value.
func (c Config) setCookie(value string) string {
	ck := &http.Cookie{
		Name:     c.CookieName,
		Value:    value,
		Path:     c.Path,
		MaxAge:   int(c.MaxAge / time.Second),
		HttpOnly: c.HTTPOnly,
		Secure:   c.Secure,
		SameSite: sameSite(c.SameSite),
	}
	return ck.String()
}

func sameSite(v string) http.SameSite {
	switch v {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	case "lax":
		return http.SameSiteLaxMode
	default:
		return http.SameSiteDefaultMode
	}
}
