package commerce

import (
	"context"
	"fmt"
	"time"

	"github.com/imrishuroy/orderdesk/internal/orders"
)

const (
	opDraftCreate   = "draftOrderCreate"
	opDraftComplete = "draftOrderComplete"
)

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// firstUserError returns the first entry as a RemoteFieldError; later entries are discarded.
func firstUserError(errs []userError) error {
	if len(errs) == 0 {
		return nil
	}
	return &orders.RemoteFieldError{Field: errs[0].Field, Message: errs[0].Message}
}

type draftCreateResponse struct {
	DraftOrderCreate *struct {
		DraftOrder *struct {
			ID string `json:"id"`
		} `json:"draftOrder"`
		UserErrors []userError `json:"userErrors"`
	} `json:"draftOrderCreate"`
}

type draftCompleteResponse struct {
	DraftOrderComplete *struct {
		DraftOrder *struct {
			Order *confirmedNode `json:"order"`
		} `json:"draftOrder"`
		UserErrors []userError `json:"userErrors"`
	} `json:"draftOrderComplete"`
}

type confirmedNode struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	CreatedAt            time.Time `json:"createdAt"`
	CurrentTotalPriceSet moneyBag  `json:"currentTotalPriceSet"`
}

func (n confirmedNode) toConfirmed() (orders.ConfirmedOrder, error) {
	if n.ID == "" {
		return orders.ConfirmedOrder{}, errMissing("id")
	}
	if n.CreatedAt.IsZero() {
		return orders.ConfirmedOrder{}, errMissing("createdAt")
	}
	if n.CurrentTotalPriceSet.ShopMoney == nil || n.CurrentTotalPriceSet.ShopMoney.Amount == "" {
		return orders.ConfirmedOrder{}, errMissing("currentTotalPriceSet")
	}
	total, currency, err := n.CurrentTotalPriceSet.amount()
	if err != nil {
		return orders.ConfirmedOrder{}, fmt.Errorf("total: %w", err)
	}
	return orders.ConfirmedOrder{
		ID:        n.ID,
		Name:      n.Name,
		CreatedAt: n.CreatedAt,
		Total:     total,
		Currency:  currency,
	}, nil
}

// CreateDraftOrder submits all lines as one draft order and returns its ID.
func (c *Client) CreateDraftOrder(ctx context.Context, lines []orders.DraftLine) (string, error) {
	vars := map[string]any{
		"input": map[string]any{"lineItems": lines},
	}
	var resp draftCreateResponse
	if err := c.Do(ctx, opDraftCreate, draftOrderCreateMutation, vars, &resp); err != nil {
		return "", err
	}
	payload := resp.DraftOrderCreate
	if payload == nil {
		return "", malformed(opDraftCreate, "missing payload")
	}
	if err := firstUserError(payload.UserErrors); err != nil {
		return "", err
	}
	if payload.DraftOrder == nil || payload.DraftOrder.ID == "" {
		return "", malformed(opDraftCreate, "missing draftOrder.id")
	}
	return payload.DraftOrder.ID, nil
}

// CompleteDraftOrder converts a draft into a confirmed order.
func (c *Client) CompleteDraftOrder(ctx context.Context, draftID string) (orders.ConfirmedOrder, error) {
	var resp draftCompleteResponse
	if err := c.Do(ctx, opDraftComplete, draftOrderCompleteMutation, map[string]any{"id": draftID}, &resp); err != nil {
		return orders.ConfirmedOrder{}, err
	}
	payload := resp.DraftOrderComplete
	if payload == nil {
		return orders.ConfirmedOrder{}, malformed(opDraftComplete, "missing payload")
	}
	if err := firstUserError(payload.UserErrors); err != nil {
		return orders.ConfirmedOrder{}, err
	}
	if payload.DraftOrder == nil || payload.DraftOrder.Order == nil {
		return orders.ConfirmedOrder{}, malformed(opDraftComplete, "missing draftOrder.order")
	}
	confirmed, err := payload.DraftOrder.Order.toConfirmed()
	if err != nil {
		return orders.ConfirmedOrder{}, malformed(opDraftComplete, "order: %v", err)
	}
	return confirmed, nil
}
