// Command ingest runs one full ingestion pass: every configured search term
// is searched on YouTube, discovered videos are enriched with statistics, and
// the canonical records are upserted into PostgreSQL. The process exits
// non-zero when any term fails so schedulers can alert on partial runs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/config"
	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/db"
	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/db/repository"
	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/ingest"
	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/metrics"
	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/youtube"
	"github.com/hoopfeed/nba-highlights-ingestion-go/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck // stdout sync failures are harmless
	log := logger.Log

	terms, err := cfg.SearchTerms()
	if err != nil {
		log.Error("failed to load search terms", zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, &db.Config{
		URL:             os.Getenv("DATABASE_URL"),
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Name,
		SSLMode:         "disable",
		MaxConns:        int32(cfg.Database.MaxConnections),
		MinConns:        int32(cfg.Database.MinConnections),
		MaxConnLifetime: cfg.Database.MaxLifetime,
		MaxConnIdleTime: cfg.Database.MaxIdleTime,
	})
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return 1
	}
	defer db.Close(pool)

	// One limiter for the whole run; the API quota belongs to the credential.
	limiter := rate.NewLimiter(rate.Limit(cfg.Ingest.RateLimitPerSecond), 1)

	client, err := youtube.NewClient(ctx, cfg.YouTube.APIKey, limiter, youtube.Config{
		RequestTimeout: cfg.Ingest.RequestTimeout,
	}, log)
	if err != nil {
		log.Error("failed to create youtube client", zap.Error(err))
		return 1
	}

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.Start(cfg.Metrics.Port)
		defer func() {
			if err := metricsServer.Stop(context.Background()); err != nil {
				log.Warn("failed to stop metrics server", zap.Error(err))
			}
		}()
		log.Info("metrics server listening", zap.Int("port", cfg.Metrics.Port))
	}

	quotaRepo := repository.NewQuotaRepository(pool)

	// Do not start a run that would blow today's API allowance.
	budget := ingest.NewBudget(quotaRepo, 10000, 90)
	if exhausted, err := budget.Exhausted(ctx); err != nil {
		log.Warn("failed to check quota budget", zap.Error(err))
	} else if exhausted {
		log.Error("daily quota budget exhausted, refusing to start run")
		return 1
	}
	if remaining, err := budget.Remaining(ctx); err == nil {
		log.Info("quota budget", zap.Int64("remaining_units", remaining))
	}

	runner := ingest.NewRunner(
		client,
		client,
		repository.NewHighlightRepository(pool),
		quotaRepo,
		ingest.Config{
			MaxResultsPerTerm: cfg.Ingest.MaxResultsPerTerm,
			Workers:           cfg.Ingest.Workers,
		},
		log,
	)

	summary := runner.Run(ctx, terms)

	for _, tr := range summary.Terms {
		fields := []zap.Field{
			zap.String("term", tr.Term),
			zap.String("status", string(tr.Status)),
			zap.Int("candidates", tr.Candidates),
			zap.Int("inserted", tr.Inserted),
			zap.Int("updated", tr.Updated),
			zap.Int("skipped", tr.Skipped),
			zap.Int("quota_cost", tr.QuotaCost),
		}
		if tr.Err != nil {
			fields = append(fields, zap.Error(tr.Err))
		}
		log.Info("term summary", fields...)
	}

	log.Info("run summary",
		zap.String("run_id", summary.RunID.String()),
		zap.Bool("success", summary.Success()),
		zap.Int("terms", len(summary.Terms)),
		zap.Int("total_quota_cost", summary.TotalQuotaCost()),
		zap.Duration("duration", summary.Duration),
	)

	if !summary.Success() {
		return 1
	}
	return 0
}
