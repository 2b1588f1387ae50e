package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Line items are Product snapshots copied at
// assembly time so later catalog changes never alter historical orders.
type Product struct {
	ID        string          `json:"id" yaml:"id" validate:"required"`
	Name      string          `json:"name" yaml:"name" validate:"required"`
	Price     decimal.Decimal `json:"price" yaml:"price"`
	VariantID string          `json:"variant_id,omitempty" yaml:"-"` // remote platform only
}

// Order is an assembled order. Total always equals the sum of Items prices
// and Items is never empty.
type Order struct {
	ID        string          `json:"id"`
	Items     []Product       `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"date"`
}

// DraftLine is one line item submitted to the remote draft-order mutation.
type DraftLine struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// ConfirmedOrder is what the remote platform returns once a draft is completed.
type ConfirmedOrder struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
}

// Summary is the display projection shared by the session and remote listers.
type Summary struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []SummaryLine   `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
}

// SummaryLine is a single displayed line item.
type SummaryLine struct {
	Title  string          `json:"title"`
	Amount decimal.Decimal `json:"amount"`
}

// Workflow variants, used for events and metrics.
const (
	VariantSession = "session"
	VariantRemote  = "remote"
)

// CommittedEvent is published after an order is committed and archived by the worker.
type CommittedEvent struct {
	OrderID       string          `json:"order_id"`
	Name          string          `json:"name,omitempty"`
	Variant       string          `json:"variant"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	CommittedAt   time.Time       `json:"committed_at"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}
