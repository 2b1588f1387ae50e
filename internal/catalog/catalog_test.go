package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/orderdesk/internal/orders"
)

func names(ps []orders.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestStatic_LoadSortsByName(t *testing.T) {
	got, err := NewStatic(DefaultProducts()).Load(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Burger", "Coke", "Fries"}, names(got))
}

func TestStatic_LoadLimit(t *testing.T) {
	got, err := NewStatic(DefaultProducts()).Load(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Burger", "Coke"}, names(got))
}

func TestStatic_LoadReturnsCopies(t *testing.T) {
	src := DefaultProducts()
	s := NewStatic(src)
	src[0].Name = "Changed"

	first, err := s.Load(context.Background(), 0)
	require.NoError(t, err)
	first[0].Price = decimal.NewFromInt(100)

	second, err := s.Load(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "Burger", second[0].Name)
	assert.Equal(t, "5.99", second[0].Price.String())
}

func TestVariantMapping(t *testing.T) {
	got := VariantMapping([]orders.Product{
		{ID: "p1", VariantID: "v1"},
		{ID: "p2"},
	})
	assert.Equal(t, map[string]string{"p1": "v1"}, got)
}
