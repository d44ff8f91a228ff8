// Mindycalc production-rate MCP server
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nemo-from-greece/Mindycalc2/internal/rates/db"
	"github.com/nemo-from-greece/Mindycalc2/internal/rates/engine"
	"github.com/nemo-from-greece/Mindycalc2/internal/rates/mcp"
	"github.com/nemo-from-greece/Mindycalc2/internal/rates/sync"
)

func main() {
	// Parse flags
	dbPath := flag.String("db", "data/mindycalc/catalog.db", "Path to SQLite database")
	importCatalog := flag.String("import-catalog", "", "Import catalog from a JSON or YAML file")
	seedDefault := flag.Bool("seed-default", false, "Replace the stored catalog with the bundled game data")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Create context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down...")
		cancel()
	}()

	// Open database
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		logger.Error("failed to create database directory", "error", err)
		os.Exit(1)
	}
	database, err := db.OpenAndInit(ctx, *dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	syncer := sync.NewSyncer(database)

	// Handle import commands
	if *importCatalog != "" || *seedDefault {
		var res *sync.Result
		if *importCatalog != "" {
			logger.Info("importing catalog", "file", *importCatalog)
			res, err = syncer.ImportCatalogFromFile(ctx, *importCatalog)
		} else {
			logger.Info("seeding bundled catalog")
			res, err = syncer.ImportDefault(ctx)
		}
		if err != nil {
			logger.Error("failed to import catalog", "error", err)
			os.Exit(1)
		}
		logger.Info("catalog imported successfully",
			"source", res.Source, "blocks", res.Blocks, "resources", res.Resources, "units", res.Units)

		// If only doing imports, exit
		if flag.NArg() == 0 {
			return
		}
	}

	// Seed an empty database on first start
	seeded, err := syncer.EnsureSeeded(ctx)
	if err != nil {
		logger.Error("failed to seed database", "error", err)
		os.Exit(1)
	}
	if seeded {
		logger.Info("seeded empty database with bundled catalog", "db", *dbPath)
	}

	// Create engine and server
	eng, err := loadEngine(ctx, syncer, logger)
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	server := mcp.NewServer(eng, logger)

	// Reload the stored catalog on SIGHUP
	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hupCh:
				eng, err := loadEngine(ctx, syncer, logger)
				if err != nil {
					logger.Error("reload failed, keeping previous catalog", "error", err)
					continue
				}
				server.SetEngine(eng)
				logger.Info("catalog reloaded")
			}
		}
	}()

	// Run MCP server
	logger.Info("starting MCP server", "db", *dbPath)
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "server stopped")
}

// loadEngine builds an engine over the stored catalog and warns about
// producer names that match no block.
func loadEngine(ctx context.Context, syncer *sync.Syncer, logger *slog.Logger) (*engine.Engine, error) {
	cat, err := syncer.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if unresolved := cat.UnresolvedProducers(); len(unresolved) > 0 {
		logger.Warn("producer names match no block", "names", unresolved)
	}
	logger.Debug("catalog loaded",
		"blocks", len(cat.Blocks()), "resources", len(cat.Resources()), "units", len(cat.Units()))
	return engine.New(cat), nil
}
