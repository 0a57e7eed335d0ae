package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/genericbro/genericbro-api/config"
	"github.com/genericbro/genericbro-api/finder"
	"github.com/genericbro/genericbro-api/health"
	"github.com/genericbro/genericbro-api/logging"
	"github.com/genericbro/genericbro-api/metrics"
	"github.com/genericbro/genericbro-api/scheduler"
	"github.com/genericbro/genericbro-api/server"
	"github.com/genericbro/genericbro-api/store"
	"github.com/genericbro/genericbro-api/suggestcache"
)

func main() {
	// .env is optional; production sets real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Init(logging.Setup("logs", cfg.SlogLevel(), cfg.LogRetentionWeeks, cfg.MaxLogFileSize))

	// The boot probe is fatal: without the medicines table there is
	// nothing to serve.
	medicineStore, err := store.Open(cfg.DatabaseURL, finder.ColName, finder.Table)
	if err != nil {
		logging.Error("Failed to connect to the medicines store", "error", err)
		os.Exit(1)
	}
	defer medicineStore.Close()
	metrics.StoreUp.Set(1)

	cache, err := suggestcache.New(cfg.SuggestionCacheSize)
	if err != nil {
		logging.Error("Failed to create suggestion cache", "error", err)
		os.Exit(1)
	}

	finderService := finder.New(medicineStore, cache)
	checker := health.NewChecker(medicineStore, cache)

	jobs := scheduler.New(medicineStore, cache)
	if err := jobs.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer jobs.Stop()

	srv := server.New(cfg, finderService, checker)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	if err := serve(srv, quit); err != nil {
		logging.Error("Server error", "error", err)
		os.Exit(1)
	}
}

type httpServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// serve runs the server until the listener fails or a shutdown signal
// arrives. The group context ties the two goroutines together: a failed
// listener cancels it, so the signal goroutine exits instead of blocking
// forever on a signal that never comes.
func serve(srv httpServer, quit <-chan os.Signal) error {
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-quit:
		case <-ctx.Done():
			return nil
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
