// Package consumer reads index requests from Kafka and indexes the named
// documents via the indexer engine, reporting every outcome to a sink.
package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/inverted-index/internal/report"
	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// IndexRequest asks for the document at Path to be indexed. A zero
// ThreadCount selects the consumer's default.
type IndexRequest struct {
	Path        string `json:"path"`
	ThreadCount int    `json:"thread_count,omitempty"`
}

// Indexer is the part of *indexer.Engine the consumer drives.
type Indexer interface {
	Index(path string, threadCount int) error
	Len() int
	DocCount() int
}

// IndexConsumer wraps a Kafka consumer to drive the indexing pipeline.
type IndexConsumer struct {
	consumer *kafka.Consumer
	logger   *slog.Logger
}

// New creates an IndexConsumer backed by the given Kafka consumer.
func New(kafkaConsumer *kafka.Consumer) *IndexConsumer {
	return &IndexConsumer{
		consumer: kafkaConsumer,
		logger:   slog.Default().With("component", "index-consumer"),
	}
}

// Start begins consuming Kafka messages. It blocks until ctx is cancelled.
func (ic *IndexConsumer) Start(ctx context.Context) error {
	ic.logger.Info("index consumer starting")
	return ic.consumer.Start(ctx)
}

// HandleMessage returns a Kafka MessageHandler that indexes every request
// into engine. Requests for a path that is already being indexed wait for
// and share that call's outcome. sink may be nil.
//
// Undecodable messages and requests that can never succeed (missing file,
// bad thread count) are dropped after reporting. Other failures are
// returned so the message stays uncommitted.
func HandleMessage(engine Indexer, defaultThreads int, sink report.Sink) kafka.MessageHandler {
	log := slog.Default().With("component", "index-consumer")
	var group singleflight.Group

	return func(ctx context.Context, key []byte, value []byte) error {
		req, err := kafka.DecodeJSON[IndexRequest](value)
		if err != nil {
			log.Error("failed to decode index request",
				"error", err,
				"key", string(key),
			)
			return nil
		}
		if req.Path == "" {
			log.Error("index request without path", "key", string(key))
			return nil
		}
		threads := req.ThreadCount
		if threads == 0 {
			threads = defaultThreads
		}

		ctx = logger.WithDocument(ctx, req.Path)
		reqLog := logger.FromContext(ctx)

		v, _, shared := group.Do(req.Path, func() (any, error) {
			reqLog.Debug("processing index request", "thread_count", threads)
			start := time.Now()
			err := engine.Index(req.Path, threads)
			result := report.NewResult(req.Path, threads, engine, time.Since(start), err)
			if sink != nil {
				if sinkErr := sink.Report(ctx, result); sinkErr != nil {
					reqLog.Warn("result not fully reported", "error", sinkErr)
				}
			}
			return err, nil
		})
		if shared {
			reqLog.Debug("index request collapsed into in-flight call")
		}

		indexErr, _ := v.(error)
		switch {
		case indexErr == nil:
			reqLog.Info("document indexed", "terms", engine.Len())
			return nil
		case apperrors.Is(indexErr, apperrors.ErrInvalidInput), apperrors.Is(indexErr, apperrors.ErrIO):
			reqLog.Error("dropping index request", "error", indexErr)
			return nil
		default:
			return fmt.Errorf("indexing %s: %w", req.Path, indexErr)
		}
	}
}
