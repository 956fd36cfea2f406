package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Clark-Hu/movie-table/internal/config"
	httpserver "github.com/Clark-Hu/movie-table/internal/http"
	"github.com/Clark-Hu/movie-table/internal/metrics"
	"github.com/Clark-Hu/movie-table/internal/repository"
	"github.com/Clark-Hu/movie-table/internal/store"
	"github.com/Clark-Hu/movie-table/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[movietable] ", log.LstdFlags|log.Lshortfile)

	shutdownTracing, err := telemetry.Setup(ctx, "movietable", cfg.TracingEnabled, os.Stdout)
	if err != nil {
		log.Fatalf("init tracing: %v", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Printf("flush traces: %v", err)
		}
	}()

	rec := metrics.New()

	var (
		st   *store.Store
		repo *repository.Repository
	)
	if cfg.UsesDatabase() {
		st, err = openStore(ctx, cfg, logger)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer st.Close()
		repo = repository.New(st)
		rec.ObservePool(st.Stats)
	} else {
		logger.Printf("DB_URL not set, keeping sessions in memory")
		repo = repository.NewMemory()
	}

	go purgeIdleSessions(ctx, repo, time.Duration(cfg.SessionTTLSecs)*time.Second, logger)

	server := httpserver.New(ctx, cfg, st, repo, rec, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			log.Printf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config, logger *log.Logger) (*store.Store, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(dbCtx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// purgeIdleSessions drops sessions untouched for longer than ttl, standing
// in for the page unloads the server never sees.
func purgeIdleSessions(ctx context.Context, repo *repository.Repository, ttl time.Duration, logger *log.Logger) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := repo.Rows.PurgeIdle(ctx, now.Add(-ttl))
			if err != nil {
				logger.Printf("purge idle sessions: %v", err)
				continue
			}
			if n > 0 {
				logger.Printf("purged %d idle sessions", n)
			}
		}
	}
}
