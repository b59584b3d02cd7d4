package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/andresuchdata/stockpilot/internal/mockdata"
	"github.com/andresuchdata/stockpilot/internal/repository"
	"github.com/andresuchdata/stockpilot/internal/repository/postgres"
	"github.com/andresuchdata/stockpilot/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type contextKey string

const dbKey contextKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newSeedFlag() *cli.Int64Flag {
	return &cli.Int64Flag{
		Name:    "seed",
		Usage:   "Random seed for the generated sales history (0 picks one from the clock)",
		EnvVars: []string{"APP_RANDOM_SEED"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*sql.DB, error) {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialised")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("no .env file loaded")
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Create the catalog schema and load the demo catalog",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply the catalog schema",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runMigrate,
			},
			{
				Name:   "seed",
				Usage:  "Load the demo catalog with freshly generated sales history",
				Flags:  []cli.Flag{newDBURLFlag(), newSeedFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runSeed,
			},
			{
				Name:   "all",
				Usage:  "Apply the schema, then load the demo catalog",
				Flags:  []cli.Flag{newDBURLFlag(), newSeedFlag()},
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					if err := runMigrate(c); err != nil {
						return err
					}
					return runSeed(c)
				},
			},
			{
				Name:   "preview",
				Usage:  "Print a summary of the generated catalog without touching the database",
				Flags:  []cli.Flag{newSeedFlag()},
				Action: runPreview,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("seed failed")
	}
}

func runMigrate(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}
	return postgres.Migrate(c.Context, db)
}

func runSeed(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	ds := buildDataset(c.Int64("seed"))
	start := time.Now()

	tx, err := db.BeginTx(c.Context, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := repository.NewIngestRepository(tx).LoadDataset(c.Context, ds); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	logger.Log.Info().
		Int("variants", len(ds.Variants)).
		Int("sales", len(ds.SalesHistory)).
		Dur("took", time.Since(start)).
		Msg("catalog seeded")
	return nil
}

func runPreview(c *cli.Context) error {
	ds := buildDataset(c.Int64("seed"))

	for _, v := range ds.Variants {
		stock := 0
		for _, level := range ds.InventoryLevels {
			if level.VariantID == v.ID {
				stock += level.Stock
			}
		}
		sold := 0
		for _, entry := range ds.SalesHistory {
			if entry.VariantID == v.ID {
				sold += entry.UnitsSold
			}
		}
		fmt.Fprintf(c.App.Writer, "%-8s %-14s %-28s stock=%-5d sold_%dd=%d\n", v.ID, v.SKU, v.Name, stock, mockdata.HistoryDays, sold)
	}
	return nil
}

func buildDataset(seed int64) mockdata.Dataset {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Log.Info().Int64("seed", seed).Msg("generating catalog")
	return mockdata.Build(rand.New(rand.NewSource(seed)), time.Now())
}
