package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	awsDynamo "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/orderdesk/internal/orders"
)

// --- mock implementations ---

type mockDynamo struct {
	items  map[string]map[string]types.AttributeValue
	putErr error
	puts   int
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) PutItem(ctx context.Context, in *awsDynamo.PutItemInput, optFns ...func(*awsDynamo.Options)) (*awsDynamo.PutItemOutput, error) {
	m.puts++
	if m.putErr != nil {
		return nil, m.putErr
	}
	k := in.Item["order_id"].(*types.AttributeValueMemberS).Value
	if _, exists := m.items[k]; exists && in.ConditionExpression != nil {
		return nil, &types.ConditionalCheckFailedException{}
	}
	m.items[k] = in.Item
	return &awsDynamo.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, in *awsDynamo.GetItemInput, optFns ...func(*awsDynamo.Options)) (*awsDynamo.GetItemOutput, error) {
	k := in.Key["order_id"].(*types.AttributeValueMemberS).Value
	return &awsDynamo.GetItemOutput{Item: m.items[k]}, nil
}

func newTestProcessor(mock *mockDynamo) (*Processor, *orders.LedgerStore) {
	store := orders.NewLedgerStore(mock, "orders")
	return NewProcessor(store, slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))), store
}

func eventFor(t *testing.T, msgs ...orders.CommittedEvent) events.SQSEvent {
	t.Helper()
	var ev events.SQSEvent
	for _, m := range msgs {
		body, err := json.Marshal(m)
		require.NoError(t, err)
		ev.Records = append(ev.Records, events.SQSMessage{MessageId: m.OrderID, Body: string(body)})
	}
	return ev
}

// --- test cases ---

func TestWorkerProcess_Success(t *testing.T) {
	mock := newMockDynamo()
	p, store := newTestProcessor(mock)

	committed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	msg := orders.CommittedEvent{
		OrderID:       "o1",
		Variant:       orders.VariantSession,
		Total:         decimal.RequireFromString("7.98"),
		ItemCount:     2,
		CommittedAt:   committed,
		CorrelationID: "req-1",
	}

	require.NoError(t, p.Handle(context.Background(), eventFor(t, msg)))

	got, err := store.Get(context.Background(), "o1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "7.98", got.Total)
	assert.Equal(t, 2, got.ItemCount)
	assert.True(t, committed.Equal(got.CommittedAt))
	assert.False(t, got.RecordedAt.IsZero())
}

func TestWorkerProcess_DuplicateDeliveryIsSuccess(t *testing.T) {
	mock := newMockDynamo()
	p, _ := newTestProcessor(mock)
	msg := orders.CommittedEvent{OrderID: "o2", Variant: orders.VariantRemote, Name: "#1002"}

	require.NoError(t, p.Handle(context.Background(), eventFor(t, msg)))
	require.NoError(t, p.Handle(context.Background(), eventFor(t, msg)))
	assert.Equal(t, 2, mock.puts)
	assert.Len(t, mock.items, 1)
}

func TestWorkerProcess_MalformedBodyFailsBatch(t *testing.T) {
	mock := newMockDynamo()
	p, _ := newTestProcessor(mock)

	ev := events.SQSEvent{Records: []events.SQSMessage{{Body: "not json"}}}
	assert.ErrorContains(t, p.Handle(context.Background(), ev), "invalid message body")

	ev = events.SQSEvent{Records: []events.SQSMessage{{Body: `{"variant":"session"}`}}}
	assert.ErrorContains(t, p.Handle(context.Background(), ev), "missing order_id")
	assert.Zero(t, mock.puts)
}

func TestWorkerProcess_StoreErrorFailsBatch(t *testing.T) {
	mock := newMockDynamo()
	mock.putErr = errors.New("throttled")
	p, _ := newTestProcessor(mock)

	err := p.Handle(context.Background(), eventFor(t,
		orders.CommittedEvent{OrderID: "o3"},
		orders.CommittedEvent{OrderID: "o4"},
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archive order o3")
	assert.Equal(t, 1, mock.puts, "processing stops at the first failure")
}
