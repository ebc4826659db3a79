package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/inverted-index/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/internal/indexer/document"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/logger"
)

type Config struct {
	Lines        int
	WordsPerLine int
	Vocabulary   int
	ThreadCount  int
	Concurrency  int
	Duration     time.Duration
}

type Stats struct {
	totalCalls   atomic.Int64
	successCount atomic.Int64
	errorCount   atomic.Int64
	latencies    []time.Duration
	latenciesMu  sync.Mutex
	outcomes     map[string]*atomic.Int64
	outcomesMu   sync.Mutex
}

func NewStats() *Stats {
	return &Stats{
		latencies: make([]time.Duration, 0, 100000),
		outcomes:  make(map[string]*atomic.Int64),
	}
}

func (s *Stats) RecordCall(duration time.Duration, err error) {
	s.totalCalls.Add(1)
	if err != nil {
		s.errorCount.Add(1)
	} else {
		s.successCount.Add(1)
		s.latenciesMu.Lock()
		s.latencies = append(s.latencies, duration)
		s.latenciesMu.Unlock()
	}

	outcome := indexer.Outcome(err)
	s.outcomesMu.Lock()
	if _, ok := s.outcomes[outcome]; !ok {
		s.outcomes[outcome] = &atomic.Int64{}
	}
	s.outcomes[outcome].Add(1)
	s.outcomesMu.Unlock()
}

func main() {
	lines := flag.Int("lines", 10000, "lines per synthetic document")
	wordsPerLine := flag.Int("words", 12, "words per line")
	vocabulary := flag.Int("vocabulary", 5000, "distinct words to draw from")
	threads := flag.Int("threads", 8, "worker count per indexing call")
	concurrency := flag.Int("concurrency", 4, "number of concurrent indexing calls")
	duration := flag.Duration("duration", 10*time.Second, "test duration")
	flag.Parse()

	logger.Setup("warn", "text")

	cfg := Config{
		Lines:        *lines,
		WordsPerLine: *wordsPerLine,
		Vocabulary:   *vocabulary,
		ThreadCount:  *threads,
		Concurrency:  *concurrency,
		Duration:     *duration,
	}

	fmt.Println("=== Inverted Index Load Test ===")
	fmt.Printf("Document:    %d lines x %d words (%d distinct)\n", cfg.Lines, cfg.WordsPerLine, cfg.Vocabulary)
	fmt.Printf("Threads:     %d\n", cfg.ThreadCount)
	fmt.Printf("Concurrency: %d\n", cfg.Concurrency)
	fmt.Printf("Duration:    %s\n", cfg.Duration)
	fmt.Println()

	engine := indexer.New()
	stats := runLoadTest(engine, cfg)
	printReport(stats, cfg.Duration)
	fmt.Println()
	fmt.Println(engine)
}

// syntheticText builds a document whose words are drawn uniformly from a
// fixed vocabulary.
func syntheticText(cfg Config, seed int64) string {
	rng := rand.New(rand.NewSource(seed))
	var b strings.Builder
	for l := 0; l < cfg.Lines; l++ {
		for w := 0; w < cfg.WordsPerLine; w++ {
			if w > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "w%d", rng.Intn(cfg.Vocabulary))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func runLoadTest(engine *indexer.Engine, cfg Config) *Stats {
	stats := NewStats()

	// One document per worker so postings grow across calls.
	docs := make([]*document.Document, cfg.Concurrency)
	for w := range docs {
		docs[w] = document.New(fmt.Sprintf("synthetic-%d.txt", w), syntheticText(cfg, int64(w)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	var wg sync.WaitGroup
	fmt.Print("Running")

	for w := 0; w < cfg.Concurrency; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				start := time.Now()
				err := engine.IndexDocument(docs[workerID], cfg.ThreadCount)
				stats.RecordCall(time.Since(start), err)
			}
		}(w)
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Print(".")
			}
		}
	}()

	wg.Wait()
	fmt.Println(" done!")
	fmt.Println()
	return stats
}

func printReport(stats *Stats, duration time.Duration) {
	total := stats.totalCalls.Load()
	success := stats.successCount.Load()
	errors := stats.errorCount.Load()

	fmt.Println("=== Results ===")
	fmt.Printf("Total Calls:     %d\n", total)
	fmt.Printf("Successful:      %d\n", success)
	fmt.Printf("Errors:          %d\n", errors)

	if total > 0 {
		fmt.Printf("Error Rate:      %.2f%%\n", float64(errors)/float64(total)*100)
		fmt.Printf("Calls/sec:       %.2f\n", float64(total)/duration.Seconds())
	}

	stats.latenciesMu.Lock()
	latencies := make([]time.Duration, len(stats.latencies))
	copy(latencies, stats.latencies)
	stats.latenciesMu.Unlock()

	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool {
			return latencies[i] < latencies[j]
		})

		var sum time.Duration
		for _, l := range latencies {
			sum += l
		}
		avg := sum / time.Duration(len(latencies))

		fmt.Println()
		fmt.Println("=== Latency ===")
		fmt.Printf("Min:    %s\n", latencies[0])
		fmt.Printf("Avg:    %s\n", avg)
		fmt.Printf("P50:    %s\n", percentile(latencies, 50))
		fmt.Printf("P90:    %s\n", percentile(latencies, 90))
		fmt.Printf("P95:    %s\n", percentile(latencies, 95))
		fmt.Printf("P99:    %s\n", percentile(latencies, 99))
		fmt.Printf("Max:    %s\n", latencies[len(latencies)-1])
	}

	fmt.Println()
	fmt.Println("=== Outcomes ===")
	stats.outcomesMu.Lock()
	names := make([]string, 0, len(stats.outcomes))
	for name := range stats.outcomes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %d\n", name, stats.outcomes[name].Load())
	}
	stats.outcomesMu.Unlock()

	if total == 0 {
		fmt.Println()
		fmt.Println("WARNING: No indexing calls completed.")
		os.Exit(1)
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
