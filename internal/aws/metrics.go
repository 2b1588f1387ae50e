package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics publishes order workflow counters to CloudWatch.
type Metrics struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	nowFunc    func() time.Time
}

// NewMetrics returns a Metrics recorder writing into namespace.
func NewMetrics(client CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{
		CloudWatch: client,
		Namespace:  namespace,
		nowFunc:    time.Now,
	}
}

// RecordCommit emits one OrderCommit data point tagged with the workflow variant
// ("session" or "remote") and its outcome ("committed", "rejected", "failed").
func (m *Metrics) RecordCommit(ctx context.Context, variant, outcome string) error {
	one := 1.0
	now := m.nowFunc()
	_, err := m.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &m.Namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString("OrderCommit"),
				Timestamp:  &now,
				Unit:       cwtypes.StandardUnitCount,
				Value:      &one,
				Dimensions: []cwtypes.Dimension{
					{Name: awsString("Variant"), Value: awsString(variant)},
					{Name: awsString("Outcome"), Value: awsString(outcome)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
