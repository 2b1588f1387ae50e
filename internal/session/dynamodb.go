package session

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/imrishuroy/orderdesk/internal/aws"
)

// record is the item shape in the sessions table. expires_at is the table's TTL attribute.
type record struct {
	SessionID string `dynamodbav:"session_id"` // PK
	Data      string `dynamodbav:"data"`
	UpdatedAt string `dynamodbav:"updated_at"`
	ExpiresAt int64  `dynamodbav:"expires_at"`
}

// DynamoStore keeps session documents in DynamoDB; the cookie only carries the signed id.
type DynamoStore struct {
	cfg     Config
	signer  *signer
	client  aws.DynamoDBAPI
	nowFunc func() time.Time
}

// NewDynamoStore returns a DynamoDB-backed Store writing into cfg.Table.
func NewDynamoStore(cfg Config, client aws.DynamoDBAPI) (*DynamoStore, error) {
	sg, err := newSigner(cfg.Secrets)
	if err != nil {
		return nil, err
	}
	return &DynamoStore{cfg: cfg, signer: sg, client: client, nowFunc: time.Now}, nil
}

// Get loads the session referenced by the cookie. DynamoDB TTL deletion is
// lazy, so items past expires_at are treated as absent.
func (d *DynamoStore) Get(ctx context.Context, cookieHeader string) (*Session, error) {
	raw, ok := readCookie(cookieHeader, d.cfg.CookieName)
	if !ok {
		return newSession(), nil
	}
	id, ok := d.signer.unsign(raw)
	if !ok {
		return newSession(), nil
	}

	out, err := d.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &d.cfg.Table,
		Key: map[string]types.AttributeValue{
			"session_id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: &consistentRead,
	})
	if err != nil {
		return nil, fmt.Errorf("get session item: %w", err)
	}
	if len(out.Item) == 0 {
		return newSession(), nil
	}

	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal session item: %w", err)
	}
	if rec.ExpiresAt > 0 && d.nowFunc().Unix() >= rec.ExpiresAt {
		return newSession(), nil
	}

	values, err := decodeValues([]byte(rec.Data))
	if err != nil {
		return newSession(), nil
	}
	return &Session{id: id, values: values}, nil
}

// Commit writes the whole session document in one PutItem and returns the cookie.
func (d *DynamoStore) Commit(ctx context.Context, s *Session) (string, error) {
	if s.id == "" {
		s.id = uuid.NewString()
	}
	data, err := s.encode()
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	now := d.nowFunc()
	item, err := attributevalue.MarshalMap(record{
		SessionID: s.id,
		Data:      string(data),
		UpdatedAt: now.UTC().Format(time.RFC3339),
		ExpiresAt: now.Add(d.cfg.MaxAge).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal session item: %w", err)
	}

	if _, err := d.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &d.cfg.Table,
		Item:      item,
	}); err != nil {
		return "", fmt.Errorf("put session item: %w", err)
	}
	return d.cfg.setCookie(d.signer.sign(s.id)), nil
}

var consistentRead = true
