// Command mindycalc answers production-rate questions from the terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nemo-from-greece/Mindycalc2/internal/rates/catalog"
	"github.com/nemo-from-greece/Mindycalc2/internal/rates/db"
	"github.com/nemo-from-greece/Mindycalc2/internal/rates/engine"
	"github.com/nemo-from-greece/Mindycalc2/internal/rates/sync"
)

var (
	catalogFile string
	dbPath      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mindycalc",
		Short: "Mindustry production-rate calculator",
		Long: `Resolve the resources and power needed to produce units at a target
rate, count factories, and compute turret ammo consumption.

The bundled game data is used unless --catalog or --db names another source.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&catalogFile, "catalog", "c", "", "Path to a JSON or YAML catalog file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to a SQLite catalog database")

	rootCmd.AddCommand(
		resolveCmd(),
		factoriesCmd(),
		fireRateCmd(),
		outputCmd(),
		producersCmd(),
		pathCmd(),
		prioritiesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// loadEngine opens the catalog named by the persistent flags.
func loadEngine(ctx context.Context) (*engine.Engine, error) {
	var (
		cat *catalog.Catalog
		err error
	)

	switch {
	case dbPath != "" && catalogFile != "":
		return nil, fmt.Errorf("--catalog and --db are mutually exclusive")
	case dbPath != "":
		cat, err = loadFromDB(ctx, dbPath)
	case catalogFile != "":
		cat, err = catalog.Load(catalogFile)
	default:
		cat, err = catalog.Default()
	}
	if err != nil {
		return nil, err
	}

	if unresolved := cat.UnresolvedProducers(); len(unresolved) > 0 {
		color.Yellow("Warning: producer names match no block: %v", unresolved)
	}
	return engine.New(cat), nil
}

func loadFromDB(ctx context.Context, path string) (*catalog.Catalog, error) {
	database, err := db.OpenAndInit(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = database.Close() }()

	syncer := sync.NewSyncer(database)
	if _, err := syncer.EnsureSeeded(ctx); err != nil {
		return nil, err
	}
	return syncer.LoadCatalog(ctx)
}
