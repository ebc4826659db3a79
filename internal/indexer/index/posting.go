package index

import "sort"

// PostingSet is the set of document identifiers containing a term.
type PostingSet map[string]struct{}

func (p PostingSet) Add(docID string) bool {
	if _, exists := p[docID]; exists {
		return false
	}
	p[docID] = struct{}{}
	return true
}

func (p PostingSet) Contains(docID string) bool {
	_, ok := p[docID]
	return ok
}

// Sorted returns the document identifiers in ascending order.
func (p PostingSet) Sorted() []string {
	docs := make([]string, 0, len(p))
	for doc := range p {
		docs = append(docs, doc)
	}
	sort.Strings(docs)
	return docs
}

type TermEntry struct {
	Term      string
	Documents []string
}
