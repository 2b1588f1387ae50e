package main

import (
	"context"

	"github.com/imrishuroy/orderdesk/internal/orders"
)

// ledger archives committed orders (implemented by orders.LedgerStore).
type ledger interface {
	Put(ctx context.Context, entry orders.LedgerEntry) error
}
