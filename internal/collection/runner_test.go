package collection

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/inverted-index/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/internal/report"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu      sync.Mutex
	results []report.Result
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Report(ctx context.Context, r report.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func writeDocs(t *testing.T, docs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
	}
	return dir
}

func TestRunPrintsSummaryAfterEachDocument(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"1.doc.txt": "Hello its an inverted index test file. Just to see how it works and indexes this file.",
		"2.doc.txt": "boss.",
		"3.doc.txt": "jOker",
	})
	paths := []string{
		filepath.Join(dir, "1.doc.txt"),
		filepath.Join(dir, "2.doc.txt"),
		filepath.Join(dir, "3.doc.txt"),
	}

	var out bytes.Buffer
	sink := &recordingSink{}
	r := New(indexer.New(), config.IndexerConfig{ThreadCount: 100}, &out, sink)

	require.NoError(t, r.Run(context.Background(), paths))
	assert.Equal(t,
		"16 inverted indexes in memory\n17 inverted indexes in memory\n18 inverted indexes in memory\n",
		out.String())

	require.Len(t, sink.results, 3)
	assert.Equal(t, paths[2], sink.results[2].Document)
	assert.Equal(t, 18, sink.results[2].Terms)
	assert.Equal(t, 100, sink.results[2].ThreadCount)
	assert.True(t, sink.results[0].OK())
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	dir := writeDocs(t, map[string]string{"ok.txt": "alpha beta"})
	paths := []string{
		filepath.Join(dir, "ok.txt"),
		filepath.Join(dir, "missing.txt"),
		filepath.Join(dir, "ok.txt"),
	}

	var out bytes.Buffer
	sink := &recordingSink{}
	r := New(indexer.New(), config.IndexerConfig{ThreadCount: 2}, &out, sink)

	err := r.Run(context.Background(), paths)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIO))
	assert.Equal(t, "2 inverted indexes in memory\n", out.String())

	require.Len(t, sink.results, 2)
	assert.Equal(t, "io_error", sink.results[1].Status)
}

func TestRunAllContinuesPastFailures(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"a.txt": "one two",
		"b.txt": "two three",
		"c.txt": "four",
	})
	paths := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "gone.txt"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "c.txt"),
	}

	var out bytes.Buffer
	engine := indexer.New()
	r := New(engine, config.IndexerConfig{ThreadCount: 3, MaxConcurrentDocuments: 4}, &out, nil)

	err := r.RunAll(context.Background(), paths)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIO))
	assert.Contains(t, err.Error(), "gone.txt")

	assert.Equal(t, 4, engine.Len())
	assert.Equal(t, 3, strings.Count(out.String(), "inverted indexes in memory"))
}

func TestRunHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	r := New(indexer.New(), config.IndexerConfig{ThreadCount: 1}, &out, nil)
	assert.ErrorIs(t, r.Run(ctx, []string{"whatever.txt"}), context.Canceled)
	assert.ErrorIs(t, r.RunAll(ctx, []string{"whatever.txt"}), context.Canceled)
	assert.Empty(t, out.String())
}

func TestDocuments(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"b.doc.txt": "",
		"a.doc.txt": "",
		"notes.md":  "",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755))

	paths, err := Documents(config.IndexerConfig{
		Documents:     []string{"first.txt", filepath.Join(dir, "b.doc.txt")},
		DocumentsDir:  dir,
		DocumentsGlob: "*.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"first.txt",
		filepath.Join(dir, "b.doc.txt"),
		filepath.Join(dir, "a.doc.txt"),
	}, paths)

	paths, err = Documents(config.IndexerConfig{Documents: []string{"x", "x"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, paths)

	_, err = Documents(config.IndexerConfig{DocumentsDir: dir, DocumentsGlob: "["})
	assert.Error(t, err)

	_, err = Documents(config.IndexerConfig{DocumentsDir: filepath.Join(dir, "missing")})
	assert.Error(t, err)
}
