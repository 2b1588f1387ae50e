package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDynamo stores items per table keyed by order_id.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
	err    error
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{tables: map[string]map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) ensureTable(tbl string) {
	if _, ok := m.tables[tbl]; !ok {
		m.tables[tbl] = map[string]map[string]types.AttributeValue{}
	}
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	table := *params.TableName
	m.ensureTable(table)
	pk := params.Item["order_id"].(*types.AttributeValueMemberS).Value
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(order_id)" {
		if _, exists := m.tables[table][pk]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.tables[table][pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	table := *params.TableName
	m.ensureTable(table)
	pk := params.Key["order_id"].(*types.AttributeValueMemberS).Value
	item, ok := m.tables[table][pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func TestLedgerStore_PutGet(t *testing.T) {
	mock := newMockDynamo()
	store := NewLedgerStore(mock, "ledger")
	recorded := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	store.nowFunc = func() time.Time { return recorded }

	committed := time.Date(2025, 5, 1, 8, 59, 0, 0, time.UTC)
	entry := EntryFromEvent(CommittedEvent{
		OrderID:     "o-1",
		Name:        "#1001",
		Variant:     VariantRemote,
		Total:       decimal.RequireFromString("7.98"),
		ItemCount:   2,
		CommittedAt: committed,
	})
	require.NoError(t, store.Put(context.Background(), entry))

	got, err := store.Get(context.Background(), "o-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "#1001", got.Name)
	assert.Equal(t, "7.98", got.Total)
	assert.Equal(t, 2, got.ItemCount)
	assert.True(t, committed.Equal(got.CommittedAt))
	assert.True(t, recorded.Equal(got.RecordedAt))
}

func TestLedgerStore_PutDuplicate(t *testing.T) {
	mock := newMockDynamo()
	store := NewLedgerStore(mock, "ledger")

	entry := LedgerEntry{OrderID: "o-2", Variant: VariantSession}
	require.NoError(t, store.Put(context.Background(), entry))

	err := store.Put(context.Background(), entry)
	assert.ErrorIs(t, err, ErrAlreadyRecorded)
}

func TestLedgerStore_GetMissing(t *testing.T) {
	store := NewLedgerStore(newMockDynamo(), "ledger")

	got, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLedgerStore_Errors(t *testing.T) {
	mock := newMockDynamo()
	mock.err = errors.New("throttled")
	store := NewLedgerStore(mock, "ledger")

	err := store.Put(context.Background(), LedgerEntry{OrderID: "o-3"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyRecorded)

	_, err = store.Get(context.Background(), "o-3")
	require.Error(t, err)

	assert.Error(t, store.Put(context.Background(), LedgerEntry{}))
}
