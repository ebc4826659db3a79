package indexer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/inverted-index/internal/indexer/document"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/internal/indexer/partition"
	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Engine owns the shared in-memory index. It is safe for concurrent use;
// concurrent Index calls are serialized only at the per-worker merge step.
type Engine struct {
	memIndex *index.MemoryIndex
	metrics  *metrics.Metrics
	logger   *slog.Logger

	// beforeMerge runs in every worker between tokenization and merge.
	beforeMerge func(r partition.Range) error
}

type Option func(*Engine)

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		memIndex: index.NewMemoryIndex(),
		logger:   slog.Default().With("component", "indexer"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Index loads the document at path and indexes it with up to threadCount
// workers. It returns only after every spawned worker has finished.
//
// A load failure leaves the index untouched. A worker failure is reported
// as *errors.WorkerError; merges committed by the other workers are kept.
func (e *Engine) Index(path string, threadCount int) error {
	start := time.Now()
	workers, err := e.index(path, threadCount)
	e.observe(start, workers, err)
	return err
}

func (e *Engine) index(path string, threadCount int) (int, error) {
	if threadCount <= 0 {
		return 0, fmt.Errorf("indexing %s: %w (got %d)", path, partition.ErrInvalidThreadCount, threadCount)
	}
	doc, err := document.Load(path)
	if err != nil {
		return 0, err
	}
	return e.indexDocument(doc, threadCount)
}

// IndexDocument indexes an already loaded document.
func (e *Engine) IndexDocument(doc *document.Document, threadCount int) error {
	start := time.Now()
	workers, err := e.indexDocument(doc, threadCount)
	e.observe(start, workers, err)
	return err
}

func (e *Engine) indexDocument(doc *document.Document, threadCount int) (int, error) {
	ranges, err := partition.Split(doc.LineCount(), threadCount)
	if err != nil {
		return 0, fmt.Errorf("indexing %s: %w", doc.Path(), err)
	}

	var g errgroup.Group
	for _, r := range ranges {
		g.Go(func() error {
			return e.runWorker(doc, r)
		})
	}
	if err := g.Wait(); err != nil {
		return len(ranges), err
	}

	e.logger.Info("document indexed",
		"document", doc.Path(),
		"lines", doc.LineCount(),
		"workers", len(ranges),
		"terms", e.memIndex.Len(),
	)
	return len(ranges), nil
}

func (e *Engine) runWorker(doc *document.Document, r partition.Range) (err error) {
	ordinal := r.Worker + 1
	defer func() {
		if rec := recover(); rec != nil {
			err = apperrors.NewWorkerError(ordinal, fmt.Errorf("panic: %v", rec))
		}
	}()

	partial := index.NewPartial(doc.Path())
	partial.AddLines(doc.Lines(r.Start, r.End))

	if e.beforeMerge != nil {
		if hookErr := e.beforeMerge(r); hookErr != nil {
			return apperrors.NewWorkerError(ordinal, hookErr)
		}
	}

	added := e.memIndex.Merge(partial)
	e.logger.Debug("partition merged",
		"document", doc.Path(),
		"worker", ordinal,
		"start", r.Start,
		"end", r.End,
		"local_terms", partial.Len(),
		"new_terms", added,
	)
	return nil
}

func (e *Engine) observe(start time.Time, workers int, err error) {
	if e.metrics == nil {
		return
	}
	e.metrics.DocumentsIndexedTotal.WithLabelValues(Outcome(err)).Inc()
	if apperrors.Is(err, apperrors.ErrWorkerFailed) {
		e.metrics.WorkerFailuresTotal.Inc()
	}
	if workers > 0 {
		e.metrics.IndexDuration.Observe(time.Since(start).Seconds())
		e.metrics.IndexWorkers.Observe(float64(workers))
	}
	e.metrics.IndexTerms.Set(float64(e.memIndex.Len()))
	e.metrics.IndexDocuments.Set(float64(e.memIndex.DocCount()))
}

// Len returns the number of distinct terms merged so far.
func (e *Engine) Len() int {
	return e.memIndex.Len()
}

func (e *Engine) DocCount() int {
	return e.memIndex.DocCount()
}

func (e *Engine) Postings(term string) []string {
	return e.memIndex.Postings(term)
}

func (e *Engine) Snapshot() []index.TermEntry {
	return e.memIndex.Snapshot()
}

func (e *Engine) String() string {
	return fmt.Sprintf("%d inverted indexes in memory", e.Len())
}

// Outcome classifies an Index error for metrics and reports.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return "invalid"
	case apperrors.Is(err, apperrors.ErrIO):
		return "io_error"
	case apperrors.Is(err, apperrors.ErrWorkerFailed):
		return "worker_failure"
	default:
		return "error"
	}
}
