package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// EventTypeAttribute is the SQS message attribute naming the event kind.
const EventTypeAttribute = "event_type"

// Publisher puts order workflow events on the orders queue consumed by the worker.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
}

// NewPublisher returns a Publisher for queueURL.
func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{SQS: sqsClient, QueueURL: queueURL}
}

// PublishEvent sends one JSON-encoded event. eventType travels as the
// event_type attribute; empty attribute values are not sent.
func (p *Publisher) PublishEvent(ctx context.Context, eventType, body string, attributes map[string]string) error {
	attrs := make(map[string]sqstypes.MessageAttributeValue, len(attributes)+1)
	attrs[EventTypeAttribute] = stringAttr(eventType)
	for k, v := range attributes {
		if v == "" || k == EventTypeAttribute {
			continue
		}
		attrs[k] = stringAttr(v)
	}

	_, err := p.SQS.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          &p.QueueURL,
		MessageBody:       &body,
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

func stringAttr(v string) sqstypes.MessageAttributeValue {
	return sqstypes.MessageAttributeValue{DataType: awsString("String"), StringValue: awsString(v)}
}

func awsString(s string) *string { return &s }
