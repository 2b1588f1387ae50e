package commerce

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/orderdesk/internal/orders"
)

const opOrders = "orders"

type ordersResponse struct {
	Orders *struct {
		Nodes []orderNode `json:"nodes"`
	} `json:"orders"`
}

type orderNode struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	CreatedAt            time.Time `json:"createdAt"`
	CurrentTotalPriceSet moneyBag  `json:"currentTotalPriceSet"`
	LineItems            struct {
		Nodes []struct {
			Title            string   `json:"title"`
			OriginalTotalSet moneyBag `json:"originalTotalSet"`
		} `json:"nodes"`
	} `json:"lineItems"`
}

type moneyBag struct {
	ShopMoney *struct {
		Amount       string `json:"amount"`
		CurrencyCode string `json:"currencyCode"`
	} `json:"shopMoney"`
}

// amount returns zero when the platform omitted the money set.
func (m moneyBag) amount() (decimal.Decimal, string, error) {
	if m.ShopMoney == nil || m.ShopMoney.Amount == "" {
		return decimal.Zero, "", nil
	}
	d, err := decimal.NewFromString(m.ShopMoney.Amount)
	if err != nil {
		return decimal.Zero, "", err
	}
	return d, m.ShopMoney.CurrencyCode, nil
}

// ListOrders reads the `first` most recent orders, newest first, projected onto
// the common display shape. Nothing is cached.
func (c *Client) ListOrders(ctx context.Context, first int) ([]orders.Summary, error) {
	var resp ordersResponse
	if err := c.Do(ctx, opOrders, ordersQuery, map[string]any{"first": first}, &resp); err != nil {
		return nil, err
	}
	if resp.Orders == nil {
		return nil, malformed(opOrders, "missing orders")
	}

	out := make([]orders.Summary, 0, len(resp.Orders.Nodes))
	for i, n := range resp.Orders.Nodes {
		s, err := n.toSummary()
		if err != nil {
			return nil, malformed(opOrders, "order %d: %v", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func (n orderNode) toSummary() (orders.Summary, error) {
	if n.ID == "" {
		return orders.Summary{}, errMissing("id")
	}
	if n.CreatedAt.IsZero() {
		return orders.Summary{}, errMissing("createdAt")
	}
	total, currency, err := n.CurrentTotalPriceSet.amount()
	if err != nil {
		return orders.Summary{}, fmt.Errorf("total: %w", err)
	}

	lines := make([]orders.SummaryLine, 0, len(n.LineItems.Nodes))
	for _, li := range n.LineItems.Nodes {
		amt, _, err := li.OriginalTotalSet.amount()
		if err != nil {
			return orders.Summary{}, fmt.Errorf("line %q: %w", li.Title, err)
		}
		lines = append(lines, orders.SummaryLine{Title: li.Title, Amount: amt})
	}

	return orders.Summary{
		ID:        n.ID,
		Name:      n.Name,
		CreatedAt: n.CreatedAt,
		Items:     lines,
		Total:     total,
		Currency:  currency,
	}, nil
}

func errMissing(field string) error {
	return errors.New("missing " + field)
}
