package index

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func partialOf(docID string, lines ...string) *Partial {
	p := NewPartial(docID)
	p.AddLines(lines)
	return p
}

func TestPartialDeduplicatesKeys(t *testing.T) {
	p := partialOf("doc", "file. file. File. a A")

	assert.Equal(t, "doc", p.DocID())
	assert.Equal(t, 2, p.Len())
	assert.ElementsMatch(t, []string{"file.", "A"}, p.Keys())
}

func TestMergeUnionsPostings(t *testing.T) {
	m := NewMemoryIndex()

	added := m.Merge(partialOf("one.txt", "Hello world"))
	assert.Equal(t, 2, added)

	added = m.Merge(partialOf("two.txt", "hello there"))
	assert.Equal(t, 1, added)

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 2, m.DocCount())
	assert.Equal(t, []string{"one.txt", "two.txt"}, m.Postings("hello"))
	assert.Equal(t, []string{"one.txt"}, m.Postings("world"))
	assert.Nil(t, m.Postings("missing"))
	assert.True(t, m.Contains("there", "two.txt"))
	assert.False(t, m.Contains("there", "one.txt"))
	assert.False(t, m.Contains("missing", "one.txt"))
}

func TestMergeIsIdempotent(t *testing.T) {
	m := NewMemoryIndex()
	m.Merge(partialOf("doc.txt", "a b c"))
	before := m.Snapshot()

	assert.Zero(t, m.Merge(partialOf("doc.txt", "a b c")))
	assert.Equal(t, before, m.Snapshot())
	assert.Equal(t, []string{"doc.txt"}, m.Postings("A"))
}

func TestMergeEmptyPartialRecordsNothing(t *testing.T) {
	m := NewMemoryIndex()
	assert.Zero(t, m.Merge(NewPartial("empty.txt")))
	assert.Zero(t, m.Len())
	assert.Zero(t, m.DocCount())
}

func TestConcurrentMergesAreOrderIndependent(t *testing.T) {
	sequential := NewMemoryIndex()
	concurrent := NewMemoryIndex()

	partials := make([]*Partial, 0, 50)
	for i := 0; i < 50; i++ {
		docID := fmt.Sprintf("doc-%d", i%5)
		partials = append(partials, partialOf(docID, fmt.Sprintf("shared term-%d term-%d", i, i%7)))
	}
	for _, p := range partials {
		sequential.Merge(p)
	}

	var wg sync.WaitGroup
	for i := len(partials) - 1; i >= 0; i-- {
		wg.Add(1)
		go func(p *Partial) {
			defer wg.Done()
			concurrent.Merge(p)
		}(partials[i])
	}
	wg.Wait()

	require.Equal(t, sequential.Len(), concurrent.Len())
	assert.Equal(t, sequential.Snapshot(), concurrent.Snapshot())
	assert.Len(t, concurrent.Postings("shared"), 5)
}

func TestSnapshotIsSortedCopy(t *testing.T) {
	m := NewMemoryIndex()
	m.Merge(partialOf("b.txt", "zeta alpha"))
	m.Merge(partialOf("a.txt", "alpha"))

	snap := m.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, TermEntry{Term: "alpha", Documents: []string{"a.txt", "b.txt"}}, snap[0])
	assert.Equal(t, "zeta", snap[1].Term)

	snap[0].Documents[0] = "mutated"
	assert.Equal(t, []string{"a.txt", "b.txt"}, m.Postings("alpha"))
}

func BenchmarkMerge(b *testing.B) {
	p := partialOf("bench.txt", "this is a benchmark document with several terms for testing the merge step")
	m := NewMemoryIndex()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Merge(p)
	}
}

func BenchmarkMergeParallel(b *testing.B) {
	m := NewMemoryIndex()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		p := partialOf("bench.txt", "distributed search engine with parallel merge of partial results")
		for pb.Next() {
			m.Merge(p)
		}
	})
}
