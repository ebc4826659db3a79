package report

import (
	"context"

	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/kafka"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// KafkaSink publishes every result as a JSON event keyed by document path,
// so all results for one document land on the same partition.
type KafkaSink struct {
	publisher Publisher
}

func NewKafkaSink(p Publisher) *KafkaSink {
	return &KafkaSink{publisher: p}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Report(ctx context.Context, r Result) error {
	return s.publisher.Publish(ctx, kafka.Event{
		Key:   r.Document,
		Value: r,
	})
}
