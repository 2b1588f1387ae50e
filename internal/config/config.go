// Package config loads service configuration from an optional YAML file
// overlaid by environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/imrishuroy/orderdesk/internal/catalog"
	"github.com/imrishuroy/orderdesk/internal/checkout"
	"github.com/imrishuroy/orderdesk/internal/commerce"
	"github.com/imrishuroy/orderdesk/internal/orders"
	"github.com/imrishuroy/orderdesk/internal/session"
	"github.com/imrishuroy/orderdesk/internal/validation"
)

// Catalog sources for the session variant.
const (
	CatalogStatic   = "static"
	CatalogCommerce = "commerce"
)

// PathEnv names the environment variable holding the YAML config path.
const PathEnv = "ORDERDESK_CONFIG"

// Config is the full service configuration.
type Config struct {
	HTTPAddr string   `yaml:"http_addr" validate:"required"`
	RunLocal bool     `yaml:"run_local"`
	LogLevel string   `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Currency string   `yaml:"currency" validate:"required,len=3"`
	Variants []string `yaml:"variants" validate:"min=1,dive,oneof=session remote"`

	Session       session.Config   `yaml:"session" validate:"-"`
	CatalogSource string           `yaml:"catalog_source" validate:"oneof=static commerce"`
	Catalog       []orders.Product `yaml:"catalog" validate:"dive"`
	Commerce      CommerceConfig   `yaml:"commerce"`

	Events  EventsConfig  `yaml:"events"`
	Metrics MetricsConfig `yaml:"metrics"`
	Ledger  LedgerConfig  `yaml:"ledger"`
}

// CommerceConfig configures the remote variant.
type CommerceConfig struct {
	commerce.Config `yaml:",inline"`
	ProductPageSize int `yaml:"product_page_size" validate:"gte=1,lte=250"`
	OrderPageSize   int `yaml:"order_page_size" validate:"gte=1,lte=250"`
}

// EventsConfig points at the SQS queue receiving OrderCommitted events.
// An empty QueueURL disables publishing.
type EventsConfig struct {
	QueueURL string `yaml:"queue_url" validate:"omitempty,url"`
}

// MetricsConfig enables CloudWatch commit metrics when Namespace is set.
type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
}

// LedgerConfig names the DynamoDB table the worker archives events into.
type LedgerConfig struct {
	Table string `yaml:"table"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		HTTPAddr:      ":8080",
		LogLevel:      "info",
		Currency:      "USD",
		Variants:      []string{orders.VariantSession},
		Session:       session.DefaultConfig(),
		CatalogSource: CatalogStatic,
		Catalog:       catalog.DefaultProducts(),
		Commerce: CommerceConfig{
			Config:          commerce.Config{APIVersion: "2024-10", Timeout: 15 * time.Second},
			ProductPageSize: checkout.DefaultProductPageSize,
			OrderPageSize:   checkout.DefaultOrderPageSize,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// ORDERDESK_CONFIG (if any), then environment variables. The result is validated.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv(PathEnv); path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.RunLocal = getEnvBool("RUN_LOCAL", c.RunLocal)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Currency = getEnv("CURRENCY", c.Currency)
	if v := os.Getenv("ORDER_VARIANTS"); v != "" {
		c.Variants = splitList(v)
	}

	c.CatalogSource = getEnv("CATALOG_SOURCE", c.CatalogSource)
	c.Session.Backend = getEnv("SESSION_BACKEND", c.Session.Backend)
	if v := os.Getenv("SESSION_SECRETS"); v != "" {
		c.Session.Secrets = splitList(v)
	}
	c.Session.Secure = getEnvBool("SESSION_SECURE", c.Session.Secure)
	c.Session.RedisAddr = getEnv("REDIS_ADDR", c.Session.RedisAddr)
	c.Session.Table = getEnv("SESSIONS_TABLE", c.Session.Table)

	c.Commerce.ShopDomain = getEnv("SHOPIFY_SHOP_DOMAIN", c.Commerce.ShopDomain)
	c.Commerce.AccessToken = getEnv("SHOPIFY_ACCESS_TOKEN", c.Commerce.AccessToken)
	c.Commerce.APIVersion = getEnv("SHOPIFY_API_VERSION", c.Commerce.APIVersion)
	c.Commerce.Endpoint = getEnv("SHOPIFY_ENDPOINT", c.Commerce.Endpoint)

	c.Events.QueueURL = getEnv("ORDERS_QUEUE_URL", c.Events.QueueURL)
	c.Metrics.Namespace = getEnv("METRICS_NAMESPACE", c.Metrics.Namespace)
	c.Ledger.Table = getEnv("ORDERS_TABLE", c.Ledger.Table)
}

// Validate checks struct tags plus the rules that span fields.
func (c Config) Validate() error {
	v := validation.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Enabled(orders.VariantSession) {
		if err := v.Struct(c.Session); err != nil {
			return fmt.Errorf("invalid config: session: %w", err)
		}
	}
	for _, p := range c.Catalog {
		if p.Price.IsNegative() {
			return fmt.Errorf("invalid config: catalog product %q has a negative price", p.ID)
		}
	}
	if c.NeedsCommerce() {
		if c.Commerce.ShopDomain == "" && c.Commerce.Endpoint == "" {
			return errors.New("invalid config: commerce.shop_domain is required")
		}
		if c.Commerce.AccessToken == "" {
			return errors.New("invalid config: commerce.access_token is required")
		}
	}
	return nil
}

// Enabled reports whether the named order variant is served.
func (c Config) Enabled(variant string) bool {
	return slices.Contains(c.Variants, variant)
}

// NeedsCommerce reports whether the commerce platform client is required.
func (c Config) NeedsCommerce() bool {
	return c.Enabled(orders.VariantRemote) || (c.Enabled(orders.VariantSession) && c.CatalogSource == CatalogCommerce)
}

// SessionBackend is the configured session backend, or "" when the session
// variant is not served.
func (c Config) SessionBackend() string {
	if !c.Enabled(orders.VariantSession) {
		return ""
	}
	return c.Session.Backend
}

// NeedsAWS reports whether any configured component talks to AWS.
func (c Config) NeedsAWS() bool {
	return c.SessionBackend() == session.BackendDynamoDB || c.Events.QueueURL != "" || c.Metrics.Namespace != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
