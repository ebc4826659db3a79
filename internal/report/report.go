// Package report delivers one Result per indexing call to external sinks:
// the log, a Kafka topic, Redis and PostgreSQL. Delivery failures never
// affect the index itself.
package report

import (
	"context"
	"time"

	"github.com/Adithya-Monish-Kumar-K/inverted-index/internal/indexer"
	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/errors"
)

// Result summarizes one indexing call.
type Result struct {
	Document     string    `json:"document"`
	Status       string    `json:"status"`
	ThreadCount  int       `json:"thread_count"`
	Terms        int       `json:"terms"`
	Documents    int       `json:"documents"`
	DurationMs   float64   `json:"duration_ms"`
	Error        string    `json:"error,omitempty"`
	FailedWorker int       `json:"failed_worker,omitempty"`
	IndexedAt    time.Time `json:"indexed_at"`
}

// Summary is the read side of the index that a Result is taken from.
type Summary interface {
	Len() int
	DocCount() int
}

// NewResult captures the outcome of indexing path and the index size right
// after the call.
func NewResult(path string, threadCount int, idx Summary, elapsed time.Duration, err error) Result {
	r := Result{
		Document:    path,
		Status:      indexer.Outcome(err),
		ThreadCount: threadCount,
		Terms:       idx.Len(),
		Documents:   idx.DocCount(),
		DurationMs:  float64(elapsed.Microseconds()) / 1000,
		IndexedAt:   time.Now().UTC(),
	}
	if err != nil {
		r.Error = err.Error()
		var wErr *apperrors.WorkerError
		if apperrors.As(err, &wErr) {
			r.FailedWorker = wErr.Worker
		}
	}
	return r
}

func (r Result) OK() bool {
	return r.Status == "ok"
}

// Sink receives indexing results.
type Sink interface {
	Name() string
	Report(ctx context.Context, r Result) error
}
