// Package checkout wires selection, assembly and commit into the two order
// workflows: orders kept in the user's session, and orders created on the
// remote commerce platform.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/imrishuroy/orderdesk/internal/catalog"
	"github.com/imrishuroy/orderdesk/internal/orders"
	"github.com/imrishuroy/orderdesk/internal/session"
)

// ordersKey is the session key holding the append-only order list.
const ordersKey = "orders"

// SessionOrders keeps orders in the caller's session.
type SessionOrders struct {
	Store    session.Store
	Catalog  catalog.Loader
	Notifier *Notifier
	Logger   *slog.Logger

	nowFunc func() time.Time
	newID   func() string
}

// NewSessionOrders returns a SessionOrders flow.
func NewSessionOrders(store session.Store, loader catalog.Loader, notifier *Notifier, logger *slog.Logger) *SessionOrders {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionOrders{
		Store:    store,
		Catalog:  loader,
		Notifier: notifier,
		Logger:   logger,
		nowFunc:  time.Now,
		newID:    orders.NewOrderID,
	}
}

// SessionResult is a committed session order plus the cookie that persists it.
type SessionResult struct {
	Order     orders.Order
	SetCookie string
}

// Products returns the catalog offered on the order form.
func (f *SessionOrders) Products(ctx context.Context) ([]orders.Product, error) {
	products, err := f.Catalog.Load(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return products, nil
}

// List returns the session's orders, newest first.
func (f *SessionOrders) List(ctx context.Context, cookieHeader string) ([]orders.Order, error) {
	s, err := f.Store.Get(ctx, cookieHeader)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	list, err := readOrders(s)
	if err != nil {
		return nil, err
	}
	return orders.NewestFirst(list), nil
}

// Create assembles an order from the submitted product IDs and appends it to
// the session. Nothing is recorded unless the session commit succeeds.
// Identical submissions create distinct orders; there is no deduplication.
func (f *SessionOrders) Create(ctx context.Context, cookieHeader string, productIDs []string) (SessionResult, error) {
	res, err := f.create(ctx, cookieHeader, productIDs)
	f.Notifier.Outcome(ctx, orders.VariantSession, err)
	if err != nil {
		return SessionResult{}, err
	}
	f.Notifier.Committed(ctx, orders.CommittedEvent{
		OrderID:     res.Order.ID,
		Variant:     orders.VariantSession,
		Total:       res.Order.Total,
		ItemCount:   len(res.Order.Items),
		CommittedAt: res.Order.CreatedAt,
	})
	return res, nil
}

func (f *SessionOrders) create(ctx context.Context, cookieHeader string, productIDs []string) (SessionResult, error) {
	sel := orders.CollectSelection(productIDs)
	if len(sel) == 0 {
		return SessionResult{}, &orders.ValidationError{Message: orders.MsgEmptySelection}
	}

	products, err := f.Products(ctx)
	if err != nil {
		return SessionResult{}, err
	}

	asm, err := orders.Assemble(sel, products, f.nowFunc(), f.newID)
	if len(asm.Unmatched) > 0 {
		f.Logger.WarnContext(ctx, "dropping unknown products from selection", "product_ids", asm.Unmatched)
	}
	if err != nil {
		return SessionResult{}, err
	}

	s, err := f.Store.Get(ctx, cookieHeader)
	if err != nil {
		return SessionResult{}, fmt.Errorf("load session: %w", err)
	}
	list, err := readOrders(s)
	if err != nil {
		return SessionResult{}, err
	}
	if err := s.Set(ordersKey, append(list, asm.Order)); err != nil {
		return SessionResult{}, err
	}
	setCookie, err := f.Store.Commit(ctx, s)
	if err != nil {
		return SessionResult{}, fmt.Errorf("commit session: %w", err)
	}

	f.Logger.InfoContext(ctx, "order committed to session",
		"order_id", asm.Order.ID, "items", len(asm.Order.Items), "total", asm.Order.Total.String())
	return SessionResult{Order: asm.Order, SetCookie: setCookie}, nil
}

func readOrders(s *session.Session) ([]orders.Order, error) {
	var list []orders.Order
	if _, err := s.Get(ordersKey, &list); err != nil {
		return nil, err
	}
	return list, nil
}
