package tracing

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanTree(t *testing.T) {
	ctx, root := StartSpan(context.Background(), "index_document", "trace-1")
	_, child := StartChildSpan(ctx, "report")
	child.SetAttr("sink", "redis")
	child.End()
	root.End()

	assert.Same(t, root, SpanFromContext(ctx))
	require.Len(t, root.Children, 1)
	assert.Equal(t, "trace-1", root.Children[0].TraceID)

	var buf bytes.Buffer
	root.Log(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "span=index_document")
	assert.Contains(t, lines[1], "sink=redis")
	assert.Contains(t, lines[1], "depth=1")
}

func TestChildWithoutParentStartsTrace(t *testing.T) {
	ctx, span := StartChildSpan(context.Background(), "orphan")
	assert.Len(t, span.TraceID, 32)
	assert.Same(t, span, SpanFromContext(ctx))
	assert.Nil(t, SpanFromContext(context.Background()))
}
