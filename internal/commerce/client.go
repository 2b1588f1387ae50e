// Package commerce talks to the commerce platform's GraphQL admin API.
//
// Every request kind has its own response schema that is validated after
// decoding; a response that does not match is reported as an
// orders.TransportError rather than trusted. Field-level problems come back
// inside data as userErrors and are reported as orders.RemoteFieldError.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/imrishuroy/orderdesk/internal/orders"
)

const maxResponseBytes = 8 << 20

// Config configures the admin API client.
type Config struct {
	ShopDomain  string        `yaml:"shop_domain"`
	AccessToken string        `yaml:"access_token"`
	APIVersion  string        `yaml:"api_version"`
	Endpoint    string        `yaml:"endpoint"` // overrides the URL derived from ShopDomain
	Timeout     time.Duration `yaml:"timeout"`
}

// URL returns the GraphQL endpoint.
func (c Config) URL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	version := c.APIVersion
	if version == "" {
		version = "2024-10"
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", strings.TrimSuffix(c.ShopDomain, "/"), version)
}

// Client is a GraphQL admin API client. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	url        string
	token      string
}

// New returns a Client. httpClient may be nil.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.Endpoint == "" && cfg.ShopDomain == "" {
		return nil, errors.New("commerce: shop domain is required")
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{httpClient: httpClient, url: cfg.URL(), token: cfg.AccessToken}, nil
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// Do posts a query document and decodes envelope.data into out. op names the
// request in errors. Any transport, status, top-level GraphQL error or decode
// failure is returned as *orders.TransportError.
func (c *Client) Do(ctx context.Context, op, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return &orders.TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return &orders.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("X-Shopify-Access-Token", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &orders.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &orders.TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &orders.TransportError{Op: op, Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet(raw))}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &orders.TransportError{Op: op, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if len(env.Errors) > 0 {
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		return &orders.TransportError{Op: op, Err: fmt.Errorf("graphql errors: %s", strings.Join(msgs, "; "))}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &orders.TransportError{Op: op, Err: errors.New("response has no data")}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &orders.TransportError{Op: op, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}

func snippet(b []byte) string {
	const n = 200
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

func malformed(op, format string, args ...any) error {
	return &orders.TransportError{Op: op, Err: fmt.Errorf("malformed response: "+format, args...)}
}
