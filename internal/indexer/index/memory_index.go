package index

import (
	"sort"
	"sync"
)

// MemoryIndex is the shared term → posting-set mapping. It only grows.
type MemoryIndex struct {
	mu    sync.RWMutex
	index map[string]PostingSet
	docs  map[string]struct{}
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		index: make(map[string]PostingSet),
		docs:  make(map[string]struct{}),
	}
}

// Merge unions a worker's partial result into the index under a single
// lock acquisition and returns the number of terms that were new.
func (m *MemoryIndex) Merge(p *Partial) int {
	if p.Len() == 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	added := 0
	for term := range p.terms {
		postings, exists := m.index[term]
		if !exists {
			postings = make(PostingSet, 1)
			m.index[term] = postings
			added++
		}
		postings.Add(p.docID)
	}
	m.docs[p.docID] = struct{}{}
	return added
}

// Len returns the number of distinct terms.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.index)
}

// DocCount returns the number of distinct documents that contributed at
// least one term.
func (m *MemoryIndex) DocCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// Postings returns a sorted copy of the documents containing term, or nil.
func (m *MemoryIndex) Postings(term string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	postings, exists := m.index[term]
	if !exists {
		return nil
	}
	return postings.Sorted()
}

func (m *MemoryIndex) Contains(term, docID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index[term].Contains(docID)
}

// Snapshot copies the whole index, sorted by term.
func (m *MemoryIndex) Snapshot() []TermEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]TermEntry, 0, len(m.index))
	for term, postings := range m.index {
		entries = append(entries, TermEntry{
			Term:      term,
			Documents: postings.Sorted(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Term < entries[j].Term
	})
	return entries
}
