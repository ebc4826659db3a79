// Package partition splits a document's lines into contiguous ranges, one per
// indexing worker.
package partition

import (
	"fmt"

	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/errors"
)

// ErrInvalidThreadCount is returned when fewer than one worker is requested.
var ErrInvalidThreadCount = fmt.Errorf("%w: thread count must be positive", apperrors.ErrInvalidInput)

// Range is the half-open line interval [Start, End) assigned to one worker.
// Worker is the zero-based worker index.
type Range struct {
	Worker int
	Start  int
	End    int
}

func (r Range) Len() int {
	return r.End - r.Start
}

// Workers returns how many workers Split will produce for the given counts.
// A document shorter than the requested thread count gets one worker per
// line; an empty document keeps the requested count.
func Workers(lineCount, threadCount int) int {
	if lineCount < threadCount && lineCount != 0 {
		return lineCount
	}
	return threadCount
}

// Split assigns every line in [0, lineCount) to exactly one worker. Each
// worker gets lineCount/n lines; the last one also takes the remainder.
func Split(lineCount, threadCount int) ([]Range, error) {
	if threadCount <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidThreadCount, threadCount)
	}
	if lineCount < 0 {
		return nil, apperrors.Invalidf("negative line count %d", lineCount)
	}
	n := Workers(lineCount, threadCount)
	leftover := lineCount % n
	base := (lineCount - leftover) / n

	ranges := make([]Range, n)
	for i := range ranges {
		start := i * base
		end := start + base
		if i == n-1 {
			end += leftover
		}
		ranges[i] = Range{Worker: i, Start: start, End: end}
	}
	return ranges, nil
}
