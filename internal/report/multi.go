package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/resilience"
)

type guardedSink struct {
	sink  Sink
	guard *resilience.Guard
}

// Multi fans a result out to several sinks concurrently. Each sink has its
// own circuit breaker, retry policy and timeout.
type Multi struct {
	sinks   []guardedSink
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewMulti guards every sink with the policy from cfg. m may be nil.
func NewMulti(cfg config.ReportConfig, m *metrics.Metrics, sinks ...Sink) *Multi {
	multi := &Multi{
		metrics: m,
		logger:  slog.Default().With("component", "report"),
	}
	for _, s := range sinks {
		breakerCfg := resilience.CircuitBreakerConfig{
			FailureThreshold: cfg.BreakerThreshold,
			ResetTimeout:     cfg.BreakerReset,
		}
		if m != nil {
			breakerCfg.OnStateChange = func(name string, to resilience.State) {
				m.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			}
		}
		multi.sinks = append(multi.sinks, guardedSink{
			sink: s,
			guard: &resilience.Guard{
				Name:    "report-" + s.Name(),
				Breaker: resilience.NewCircuitBreaker("report-"+s.Name(), breakerCfg),
				Retry: resilience.RetryConfig{
					MaxAttempts:  cfg.RetryAttempts,
					InitialDelay: cfg.RetryDelay,
				},
				Timeout: cfg.Timeout,
			},
		})
	}
	return multi
}

func (m *Multi) Name() string { return "multi" }

// Len returns the number of configured sinks.
func (m *Multi) Len() int { return len(m.sinks) }

// Report delivers r to every sink and returns the joined delivery errors,
// each wrapping errors.ErrSinkUnavailable.
func (m *Multi) Report(ctx context.Context, r Result) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, gs := range m.sinks {
		wg.Add(1)
		go func(gs guardedSink) {
			defer wg.Done()
			err := gs.guard.Do(ctx, func(ctx context.Context) error {
				return gs.sink.Report(ctx, r)
			})
			m.record(gs.sink.Name(), err)
			if err != nil {
				m.logger.Error("report delivery failed",
					"sink", gs.sink.Name(),
					"document", r.Document,
					"error", err,
				)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%w: %s: %w", apperrors.ErrSinkUnavailable, gs.sink.Name(), err))
				mu.Unlock()
			}
		}(gs)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (m *Multi) record(sink string, err error) {
	if m.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.metrics.ReportDeliveriesTotal.WithLabelValues(sink, status).Inc()
}
