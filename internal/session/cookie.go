package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
)

// maxCookieSize is the browser limit for a single cookie.
const maxCookieSize = 4096

// ErrCookieTooLarge is returned by CookieStore.Commit when the session no longer fits in a cookie.
var ErrCookieTooLarge = errors.New("session cookie exceeds 4096 bytes")

// CookieStore keeps the whole session document inside the signed cookie.
type CookieStore struct {
	cfg    Config
	signer *signer
}

// NewCookieStore returns a cookie-backed Store.
func NewCookieStore(cfg Config) (*CookieStore, error) {
	sg, err := newSigner(cfg.Secrets)
	if err != nil {
		return nil, err
	}
	return &CookieStore{cfg: cfg, signer: sg}, nil
}

// Get returns the session carried by the cookie, or a new empty session when
// the cookie is absent, unsigned, tampered with or unreadable.
func (c *CookieStore) Get(_ context.Context, cookieHeader string) (*Session, error) {
	raw, ok := readCookie(cookieHeader, c.cfg.CookieName)
	if !ok {
		return newSession(), nil
	}
	payload, ok := c.signer.unsign(raw)
	if !ok {
		return newSession(), nil
	}
	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return newSession(), nil
	}
	values, err := decodeValues(data)
	if err != nil {
		return newSession(), nil
	}
	return &Session{values: values}, nil
}

// Commit serialises the session into a Set-Cookie header value.
func (c *CookieStore) Commit(_ context.Context, s *Session) (string, error) {
	data, err := s.encode()
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	header := c.cfg.setCookie(c.signer.sign(base64.RawURLEncoding.EncodeToString(data)))
	if len(header) > maxCookieSize {
		return "", ErrCookieTooLarge
	}
	return header, nil
}
