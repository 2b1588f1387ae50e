// Package catalog loads the products a user can pick from.
package catalog

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/orderdesk/internal/orders"
)

// Loader returns purchasable products sorted by name. A limit <= 0 means no bound.
// Every call is a fresh read; on failure no partial catalog is returned.
type Loader interface {
	Load(ctx context.Context, limit int) ([]orders.Product, error)
}

// DefaultProducts is the built-in catalog used when none is configured.
func DefaultProducts() []orders.Product {
	return []orders.Product{
		{ID: "1", Name: "Burger", Price: decimal.RequireFromString("5.99")},
		{ID: "2", Name: "Fries", Price: decimal.RequireFromString("2.99")},
		{ID: "3", Name: "Coke", Price: decimal.RequireFromString("1.99")},
	}
}

// Static serves a fixed product list.
type Static struct {
	products []orders.Product
}

// NewStatic returns a Static loader over a copy of products.
func NewStatic(products []orders.Product) *Static {
	cp := make([]orders.Product, len(products))
	copy(cp, products)
	return &Static{products: cp}
}

// Load implements Loader.
func (s *Static) Load(_ context.Context, limit int) ([]orders.Product, error) {
	out := make([]orders.Product, len(s.products))
	copy(out, s.products)
	SortByName(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SortByName orders products by display name, keeping input order for ties.
func SortByName(products []orders.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
}

// VariantMapping returns the product ID to variant ID mapping used by the
// remote order form. Products without a variant are omitted.
func VariantMapping(products []orders.Product) map[string]string {
	m := make(map[string]string, len(products))
	for _, p := range products {
		if p.VariantID != "" {
			m[p.ID] = p.VariantID
		}
	}
	return m
}
