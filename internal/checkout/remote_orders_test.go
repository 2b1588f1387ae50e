package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/orderdesk/internal/orders"
)

type fakeRemote struct {
	createLines []orders.DraftLine
	createErr   error
	draftID     string

	completeCalls []string
	completeErr   error
	confirmed     orders.ConfirmedOrder

	products  []orders.Product
	summaries []orders.Summary
	pageSizes []int
}

func (f *fakeRemote) CreateDraftOrder(ctx context.Context, lines []orders.DraftLine) (string, error) {
	f.createLines = lines
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.draftID, nil
}

func (f *fakeRemote) CompleteDraftOrder(ctx context.Context, draftID string) (orders.ConfirmedOrder, error) {
	f.completeCalls = append(f.completeCalls, draftID)
	if f.completeErr != nil {
		return orders.ConfirmedOrder{}, f.completeErr
	}
	return f.confirmed, nil
}

func (f *fakeRemote) ListProducts(ctx context.Context, first int) ([]orders.Product, error) {
	f.pageSizes = append(f.pageSizes, first)
	return f.products, nil
}

func (f *fakeRemote) ListOrders(ctx context.Context, first int) ([]orders.Summary, error) {
	f.pageSizes = append(f.pageSizes, first)
	return f.summaries, nil
}

func newRemote() *fakeRemote {
	return &fakeRemote{
		draftID:   "gid://shopify/DraftOrder/1",
		confirmed: orders.ConfirmedOrder{
			ID:        "gid://shopify/Order/77",
			Name:      "#1077",
			CreatedAt: time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC),
			Total:     decimal.RequireFromString("18.50"),
			Currency:  "USD",
		},
	}
}

func submission(ids ...string) RemoteSubmission {
	return RemoteSubmission{
		SelectedProductIDs: ids,
		VariantMapping: map[string]string{
			"p1": "gid://shopify/ProductVariant/11",
			"p2": "gid://shopify/ProductVariant/22",
		},
	}
}

func TestRemoteOrders_Create(t *testing.T) {
	api := newRemote()
	f := NewRemoteOrders(api, nil, discardLogger())

	got, err := f.Create(context.Background(), submission("p2", "p1"))
	require.NoError(t, err)
	assert.Equal(t, "#1077", got.Name)

	assert.Equal(t, []orders.DraftLine{
		{VariantID: "gid://shopify/ProductVariant/22", Quantity: 1},
		{VariantID: "gid://shopify/ProductVariant/11", Quantity: 1},
	}, api.createLines)
	assert.Equal(t, []string{"gid://shopify/DraftOrder/1"}, api.completeCalls)
}

func TestRemoteOrders_EmptySelectionNeverCallsPlatform(t *testing.T) {
	api := newRemote()
	f := NewRemoteOrders(api, nil, discardLogger())

	_, err := f.Create(context.Background(), submission())
	assert.Equal(t, orders.MsgEmptySelection, orders.UserMessage(err))
	assert.Nil(t, api.createLines)
	assert.Empty(t, api.completeCalls)
}

func TestRemoteOrders_NoVariantsResolved(t *testing.T) {
	api := newRemote()
	f := NewRemoteOrders(api, nil, discardLogger())

	_, err := f.Create(context.Background(), submission("p9"))
	assert.Equal(t, orders.MsgNothingResolved, orders.UserMessage(err))
	assert.Nil(t, api.createLines)
}

func TestCommitDraft_CreateUserErrorSkipsComplete(t *testing.T) {
	api := newRemote()
	api.createErr = &orders.RemoteFieldError{Field: []string{"lineItems"}, Message: "Variant is out of stock"}
	metrics := &fakeMetrics{}
	f := NewRemoteOrders(api, &Notifier{Metrics: metrics, Logger: discardLogger()}, discardLogger())

	_, err := f.Create(context.Background(), submission("p1"))
	require.Error(t, err)
	assert.Equal(t, "Variant is out of stock", orders.UserMessage(err))
	assert.Empty(t, api.completeCalls, "phase two must not run")
	assert.Equal(t, []string{"remote:rejected"}, metrics.outcomes)
}

func TestCommitDraft_CompleteUserError(t *testing.T) {
	api := newRemote()
	api.completeErr = &orders.RemoteFieldError{Message: "Payment pending"}

	_, err := CommitDraft(context.Background(), api, []orders.DraftLine{{VariantID: "v", Quantity: 1}}, discardLogger())
	assert.Equal(t, "Payment pending", orders.UserMessage(err))
	assert.Len(t, api.completeCalls, 1)
}

func TestCommitDraft_TransportFailures(t *testing.T) {
	tests := []struct {
		name       string
		createErr  error
		complErr   error
		expectedOp string
	}{
		{
			name:       "untyped create error is wrapped",
			createErr:  errors.New("connection reset"),
			expectedOp: "draftOrderCreate",
		},
		{
			name:       "typed transport error passes through",
			createErr:  &orders.TransportError{Op: "draftOrderCreate", Err: errors.New("HTTP 500")},
			expectedOp: "draftOrderCreate",
		},
		{
			name:       "complete fails after draft exists",
			complErr:   errors.New("timeout"),
			expectedOp: "draftOrderComplete",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newRemote()
			api.createErr = tt.createErr
			api.completeErr = tt.complErr

			_, err := CommitDraft(context.Background(), api, []orders.DraftLine{{VariantID: "v", Quantity: 1}}, nil)
			require.Error(t, err)
			assert.Equal(t, orders.MsgCreateFailed, orders.UserMessage(err))

			var te *orders.TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.expectedOp, te.Op)
		})
	}
}

func TestRemoteOrders_PublishesCommittedEvent(t *testing.T) {
	api := newRemote()
	pub := &fakePublisher{}
	metrics := &fakeMetrics{}
	f := NewRemoteOrders(api, &Notifier{Publisher: pub, Metrics: metrics, Logger: discardLogger()}, discardLogger())

	_, err := f.Create(context.Background(), submission("p1", "p2"))
	require.NoError(t, err)

	require.Len(t, pub.bodies, 1)
	var ev orders.CommittedEvent
	require.NoError(t, json.Unmarshal([]byte(pub.bodies[0]), &ev))
	assert.Equal(t, "gid://shopify/Order/77", ev.OrderID)
	assert.Equal(t, "#1077", ev.Name)
	assert.Equal(t, orders.VariantRemote, ev.Variant)
	assert.Equal(t, 2, ev.ItemCount)
	assert.Equal(t, "18.5", ev.Total.String())
	assert.True(t, time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC).Equal(ev.CommittedAt))
	assert.Equal(t, []string{"remote:committed"}, metrics.outcomes)
}

func TestRemoteOrders_ListingUsesPageSizes(t *testing.T) {
	api := newRemote()
	api.products = []orders.Product{{ID: "p1", Name: "Hat", Price: decimal.RequireFromString("10")}}
	api.summaries = []orders.Summary{{ID: "o1", Name: "#1001"}}
	f := NewRemoteOrders(api, nil, discardLogger())

	products, err := f.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)

	list, err := f.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, []int{DefaultProductPageSize, DefaultOrderPageSize}, api.pageSizes)
}
