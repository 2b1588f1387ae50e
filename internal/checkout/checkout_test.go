package checkout

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/orderdesk/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func cookieStore(t *testing.T) session.Store {
	t.Helper()
	cfg := session.DefaultConfig()
	cfg.Secrets = []string{"test-secret"}
	st, err := session.NewCookieStore(cfg)
	require.NoError(t, err)
	return st
}

// browserCookie turns a Set-Cookie value into the Cookie header sent back by a browser.
func browserCookie(t *testing.T, setCookie string) string {
	t.Helper()
	c, err := http.ParseSetCookie(setCookie)
	require.NoError(t, err)
	return c.Name + "=" + c.Value
}

type fakePublisher struct {
	types  []string
	bodies []string
	attrs  []map[string]string
	err    error
}

func (p *fakePublisher) PublishEvent(ctx context.Context, eventType, body string, attrs map[string]string) error {
	p.types = append(p.types, eventType)
	p.bodies = append(p.bodies, body)
	p.attrs = append(p.attrs, attrs)
	return p.err
}

type fakeMetrics struct {
	outcomes []string
}

func (m *fakeMetrics) RecordCommit(ctx context.Context, variant, outcome string) error {
	m.outcomes = append(m.outcomes, variant+":"+outcome)
	return errors.New("metrics unavailable")
}
