package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDynamo is a single-table in-memory mock keyed by session_id.
type mockDynamo struct {
	mu    sync.Mutex
	table map[string]map[string]types.AttributeValue
	err   error
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{table: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	k := params.Item["session_id"].(*types.AttributeValueMemberS).Value
	m.table[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	k := params.Key["session_id"].(*types.AttributeValueMemberS).Value
	item, ok := m.table[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func newTestDynamoStore(t *testing.T, mock *mockDynamo, now *time.Time) *DynamoStore {
	t.Helper()
	cfg := testConfig()
	cfg.Backend = BackendDynamoDB
	cfg.Table = "sessions"
	store, err := NewDynamoStore(cfg, mock)
	require.NoError(t, err)
	store.nowFunc = func() time.Time { return *now }
	return store
}

func TestDynamoStore_RoundTrip(t *testing.T) {
	mock := newMockDynamo()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store := newTestDynamoStore(t, mock, &now)
	ctx := context.Background()

	s, err := store.Get(ctx, "")
	require.NoError(t, err)
	require.NoError(t, s.Set("orders", []int{1, 2}))

	setCookie, err := store.Commit(ctx, s)
	require.NoError(t, err)

	stored := mock.table[s.ID()]
	require.NotNil(t, stored)
	exp := stored["expires_at"].(*types.AttributeValueMemberN).Value
	assert.Equal(t, "1751364000", exp) // now + 30 days

	got, err := store.Get(ctx, cookieHeader(t, setCookie))
	require.NoError(t, err)
	var list []int
	ok, err := got.Get("orders", &list)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2}, list)
}

func TestDynamoStore_ExpiredItemIgnored(t *testing.T) {
	mock := newMockDynamo()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store := newTestDynamoStore(t, mock, &now)
	ctx := context.Background()

	s := newSession()
	require.NoError(t, s.Set("k", "v"))
	setCookie, err := store.Commit(ctx, s)
	require.NoError(t, err)

	now = now.Add(31 * 24 * time.Hour)
	got, err := store.Get(ctx, cookieHeader(t, setCookie))
	require.NoError(t, err)
	assert.True(t, got.IsNew())
}

func TestDynamoStore_Errors(t *testing.T) {
	mock := newMockDynamo()
	now := time.Now()
	store := newTestDynamoStore(t, mock, &now)
	ctx := context.Background()

	setCookie, err := store.Commit(ctx, newSession())
	require.NoError(t, err)

	mock.err = errors.New("ProvisionedThroughputExceeded")
	_, err = store.Get(ctx, cookieHeader(t, setCookie))
	assert.Error(t, err)
	_, err = store.Commit(ctx, newSession())
	assert.ErrorIs(t, err, mock.err)
}
