// Package collection indexes a list of documents into one engine and prints
// the index summary after every call.
package collection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/inverted-index/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/internal/report"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/tracing"
	"golang.org/x/sync/errgroup"
)

// Indexer is the part of *indexer.Engine the runner drives.
type Indexer interface {
	Index(path string, threadCount int) error
	Len() int
	DocCount() int
	String() string
}

type Runner struct {
	engine        Indexer
	sink          report.Sink
	out           io.Writer
	threadCount   int
	maxConcurrent int
	logger        *slog.Logger

	outMu sync.Mutex
}

// New creates a Runner. sink may be nil.
func New(engine Indexer, cfg config.IndexerConfig, out io.Writer, sink report.Sink) *Runner {
	maxConcurrent := cfg.MaxConcurrentDocuments
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Runner{
		engine:        engine,
		sink:          sink,
		out:           out,
		threadCount:   cfg.ThreadCount,
		maxConcurrent: maxConcurrent,
		logger:        slog.Default().With("component", "collection"),
	}
}

// Documents returns the explicit document list followed by the sorted
// matches of DocumentsGlob inside DocumentsDir. Duplicates are dropped.
func Documents(cfg config.IndexerConfig) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string
	add := func(p string) {
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	for _, p := range cfg.Documents {
		add(p)
	}
	if cfg.DocumentsDir == "" {
		return paths, nil
	}

	pattern := cfg.DocumentsGlob
	if pattern == "" {
		pattern = "*"
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid documents glob %q: %w", pattern, err)
	}
	entries, err := os.ReadDir(cfg.DocumentsDir)
	if err != nil {
		return nil, fmt.Errorf("reading documents directory: %w", err)
	}
	var found []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(pattern, entry.Name()); ok {
			found = append(found, filepath.Join(cfg.DocumentsDir, entry.Name()))
		}
	}
	sort.Strings(found)
	for _, p := range found {
		add(p)
	}
	return paths, nil
}

// Run indexes paths in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context, paths []string) error {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.indexOne(ctx, path); err != nil {
			return fmt.Errorf("indexing %s: %w", path, err)
		}
	}
	return nil
}

// RunAll indexes every path, up to MaxConcurrentDocuments at a time, and
// returns all failures joined.
func (r *Runner) RunAll(ctx context.Context, paths []string) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(r.maxConcurrent)
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := r.indexOne(ctx, path); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("indexing %s: %w", path, err))
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (r *Runner) indexOne(ctx context.Context, path string) error {
	ctx = logger.WithDocument(ctx, path)
	ctx, span := tracing.StartSpan(ctx, "index_document", tracing.NewTraceID())
	span.SetAttr("thread_count", r.threadCount)
	defer func() {
		span.End()
		span.Log(logger.FromContext(ctx))
	}()

	_, indexSpan := tracing.StartChildSpan(ctx, "index")
	start := time.Now()
	err := r.engine.Index(path, r.threadCount)
	elapsed := time.Since(start)
	indexSpan.SetAttr("status", indexer.Outcome(err))
	indexSpan.End()

	if err == nil {
		r.printSummary()
	}

	if r.sink != nil {
		reportCtx, reportSpan := tracing.StartChildSpan(ctx, "report")
		result := report.NewResult(path, r.threadCount, r.engine, elapsed, err)
		if sinkErr := r.sink.Report(reportCtx, result); sinkErr != nil {
			reportSpan.SetAttr("error", sinkErr.Error())
			logger.FromContext(ctx).Warn("result not fully reported", "error", sinkErr)
		}
		reportSpan.End()
	}
	return err
}

func (r *Runner) printSummary() {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	if _, err := fmt.Fprintln(r.out, r.engine.String()); err != nil {
		r.logger.Error("writing summary", "error", err)
	}
}
