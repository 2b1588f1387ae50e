package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/imrishuroy/orderdesk/internal/aws"
)

// ErrAlreadyRecorded is returned by LedgerStore.Put when the order is already archived.
var ErrAlreadyRecorded = errors.New("order already recorded")

// LedgerEntry is the item stored in the order ledger table.
type LedgerEntry struct {
	OrderID     string    `dynamodbav:"order_id"` // PK
	Name        string    `dynamodbav:"name,omitempty"`
	Variant     string    `dynamodbav:"variant"`
	Total       string    `dynamodbav:"total,omitempty"` // decimal string
	ItemCount   int       `dynamodbav:"item_count"`
	CommittedAt time.Time `dynamodbav:"committed_at"`
	RecordedAt  time.Time `dynamodbav:"recorded_at"`
}

// EntryFromEvent converts a committed-order event into a ledger entry.
func EntryFromEvent(ev CommittedEvent) LedgerEntry {
	return LedgerEntry{
		OrderID:     ev.OrderID,
		Name:        ev.Name,
		Variant:     ev.Variant,
		Total:       ev.Total.String(),
		ItemCount:   ev.ItemCount,
		CommittedAt: ev.CommittedAt,
	}
}

// LedgerStore archives committed orders in DynamoDB.
type LedgerStore struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewLedgerStore creates a LedgerStore for tableName.
func NewLedgerStore(client aws.DynamoDBAPI, tableName string) *LedgerStore {
	return &LedgerStore{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Put writes entry unless an entry with the same order_id exists, in which case
// it returns ErrAlreadyRecorded.
func (s *LedgerStore) Put(ctx context.Context, entry LedgerEntry) error {
	if entry.OrderID == "" {
		return errors.New("ledger entry without order id")
	}
	entry.RecordedAt = s.nowFunc().UTC()

	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(order_id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrAlreadyRecorded
		}
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Get fetches a ledger entry by order_id. Returns (nil, nil) if not found.
func (s *LedgerStore) Get(ctx context.Context, orderID string) (*LedgerEntry, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var e LedgerEntry
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, fmt.Errorf("unmarshal ledger entry: %w", err)
	}
	return &e, nil
}

func isConditionFailed(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException"
}

func awsString(s string) *string { return &s }
