package index

import "github.com/Adithya-Monish-Kumar-K/inverted-index/internal/indexer/tokenizer"

// Partial accumulates one worker's terms for a single document before they
// are merged into the shared index. It is owned by exactly one goroutine.
type Partial struct {
	docID string
	terms map[string]struct{}
}

func NewPartial(docID string) *Partial {
	return &Partial{
		docID: docID,
		terms: make(map[string]struct{}),
	}
}

func (p *Partial) DocID() string {
	return p.docID
}

// Add records a normalized key. Repeated keys are ignored.
func (p *Partial) Add(key string) {
	p.terms[key] = struct{}{}
}

// AddLines tokenizes lines and records every resulting key.
func (p *Partial) AddLines(lines []string) {
	tokenizer.Each(lines, p.Add)
}

func (p *Partial) Len() int {
	return len(p.terms)
}

// Keys returns the recorded keys in no particular order.
func (p *Partial) Keys() []string {
	keys := make([]string, 0, len(p.terms))
	for k := range p.terms {
		keys = append(keys, k)
	}
	return keys
}
