package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/inverted-index/internal/collection"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/internal/indexer/consumer"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/internal/report"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	consume := flag.Bool("consume", false, "index documents named by kafka index requests instead of the configured list")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(apperrors.ExitInvalidArgs)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if err := run(cfg, *consume); err != nil {
		slog.Error("indexer failed", "error", err)
		os.Exit(apperrors.ExitCode(err))
	}
}

func run(cfg *config.Config, consume bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(nil)
	checker := health.NewChecker()

	sinks, closeSinks, err := buildSinks(ctx, cfg, checker)
	if err != nil {
		return err
	}
	defer closeSinks()
	sink := report.NewMulti(cfg.Report, m, sinks...)

	if cfg.Metrics.Enabled {
		shutdown := metrics.StartServer(cfg.Metrics.Port, middleware.Instrument(m,
			metrics.Route{Pattern: "/health/live", Handler: checker.LiveHandler()},
			metrics.Route{Pattern: "/health/ready", Handler: checker.ReadyHandler()},
		)...)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown", "error", err)
			}
		}()
	}

	engine := indexer.New(indexer.WithMetrics(m))
	slog.Info("starting indexer",
		"thread_count", cfg.Indexer.ThreadCount,
		"sinks", sink.Len(),
		"consume", consume,
	)

	if consume {
		handler := consumer.HandleMessage(engine, cfg.Indexer.ThreadCount, sink)
		kafkaConsumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.IndexRequest, handler)
		slog.Info("consuming index requests",
			"topic", cfg.Kafka.Topics.IndexRequest,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := consumer.New(kafkaConsumer).Start(ctx); err != nil {
			return err
		}
		slog.Info("indexer stopped", "terms", engine.Len(), "documents", engine.DocCount())
		return nil
	}

	paths, err := collection.Documents(cfg.Indexer)
	if err != nil {
		return apperrors.Invalidf("%v", err)
	}
	runner := collection.New(engine, cfg.Indexer, os.Stdout, sink)
	if cfg.Indexer.MaxConcurrentDocuments > 1 {
		return runner.RunAll(ctx, paths)
	}
	return runner.Run(ctx, paths)
}

// buildSinks connects the report sinks enabled in cfg and registers a
// readiness check for each backend. The returned func closes them.
func buildSinks(ctx context.Context, cfg *config.Config, checker *health.Checker) ([]report.Sink, func(), error) {
	var (
		sinks   []report.Sink
		closers []func() error
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				slog.Error("closing sink backend", "error", err)
			}
		}
	}

	if cfg.Report.Log {
		sinks = append(sinks, report.NewLogSink(logger.WithComponent("report-log")))
	}
	if cfg.Report.Kafka {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.IndexComplete)
		closers = append(closers, producer.Close)
		sinks = append(sinks, report.NewKafkaSink(producer))
	}
	if cfg.Report.Redis {
		client, err := pkgredis.NewClient(cfg.Redis)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("connecting report redis: %w", err)
		}
		closers = append(closers, client.Close)
		checker.Register("redis", health.PingCheck(client.Ping, true))
		sinks = append(sinks, report.NewRedisSink(client, cfg.Redis.KeyPrefix, cfg.Redis.StatusTTL))
	}
	if cfg.Report.Postgres {
		client, err := postgres.New(cfg.Postgres)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("connecting report postgres: %w", err)
		}
		closers = append(closers, client.Close)
		checker.Register("postgres", health.PingCheck(client.Ping, true))
		pgSink := report.NewPostgresSink(client.DB)
		if err := pgSink.EnsureSchema(ctx); err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, pgSink)
	}
	return sinks, closeAll, nil
}
