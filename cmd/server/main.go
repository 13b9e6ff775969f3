/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the tenure engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (YAML file + flags)
  2. Initialize SQLite store
  3. Seed an empty database with the bundled (or configured) dataset
  4. Create API handler and router
  5. Start the recalculation scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config file (see config/config.go for the format)
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: tenure.db)
           Use ":memory:" for in-memory database
  -seed    Seed an empty database (default: true)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (shutdown_timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/tenure.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run from a config file, overriding the port
  ./server -config=server.yaml -port=3000

SEE ALSO:
  - config/config.go: Configuration
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/warp/tenure-engine/api"
	"github.com/warp/tenure-engine/config"
	"github.com/warp/tenure-engine/roster"
	"github.com/warp/tenure-engine/store/sqlite"
	"github.com/warp/tenure-engine/tenure"
)

func main() {
	cfg, err := config.FromArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	calc, err := cfg.Calculator(tenure.SystemClock{})
	if err != nil {
		log.Fatalf("Invalid tenure configuration: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	dataset, err := loadDataset(cfg.Seed)
	if err != nil {
		log.Fatalf("Failed to load seed dataset: %v", err)
	}
	if cfg.Seed.Enabled {
		if err := seedIfEmpty(context.Background(), store, dataset); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	handler := api.NewHandler(store, calc)
	handler.Dataset = &dataset
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	scheduler := api.NewRecalculationScheduler(handler.Recalc)
	scheduler.Enabled = cfg.Scheduler.Enabled
	scheduler.Interval = cfg.Scheduler.Interval
	scheduler.Start()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("[Server] Starting on http://localhost:%d", cfg.Server.Port)
		log.Printf("[Server] API available at http://localhost:%d/api", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Server] Shutting down...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[Server] Forced to shutdown: %v", err)
		return
	}

	log.Println("[Server] Stopped")
}

// loadDataset reads the configured seed file, or the bundled dataset when
// none is set.
func loadDataset(cfg config.SeedConfig) (roster.Dataset, error) {
	if cfg.Path != "" {
		return roster.LoadDatasetFile(cfg.Path)
	}
	return roster.DefaultDataset()
}

func seedIfEmpty(ctx context.Context, store *sqlite.Store, ds roster.Dataset) error {
	empty, err := store.IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		log.Println("[Seed] Database already has data, skipping")
		return nil
	}
	if err := roster.Seed(ctx, store, ds); err != nil {
		return err
	}
	log.Printf("[Seed] Loaded %d employees and %d advancements", len(ds.Employees), len(ds.Advancements))
	return nil
}
