// cmd/analytics/main.go
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/andresuchdata/stockpilot/internal/app"
	"github.com/andresuchdata/stockpilot/internal/config"
	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/andresuchdata/stockpilot/internal/export"
	"github.com/andresuchdata/stockpilot/internal/storage"
	"github.com/andresuchdata/stockpilot/pkg/logger"
)

func main() {
	cfg := config.Load()

	tierFlag := flag.String("tier", cfg.App.DefaultTier, "Subscription tier to compose products for (Starter or Pro)")
	outDir := flag.String("out-dir", cfg.App.ReportDir, "Directory the XLSX report is written to")
	upload := flag.Bool("upload", false, "Upload the report to object storage")
	flag.Parse()

	logger.SetLevel("info")

	tier, ok := domain.ParseTier(*tierFlag)
	if !ok {
		logger.Log.Fatal().Str("tier", *tierFlag).Msg("Unknown tier")
	}

	ctx := context.Background()
	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	start := time.Now()
	if err := application.Inventory.SetTier(ctx, tier); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to compose inventory")
	}

	products := application.Inventory.Products(domain.ProductFilter{})
	orders := application.Inventory.PurchaseOrders("")
	data, err := export.Bytes(products, orders)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to render report")
	}

	name := export.FileName(time.Now())
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Log.Fatal().Err(err).Str("dir", *outDir).Msg("Failed to create report directory")
	}
	path := filepath.Join(*outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Log.Fatal().Err(err).Str("path", path).Msg("Failed to write report")
	}
	logger.Log.Info().
		Str("path", path).
		Int("products", len(products)).
		Int("purchase_orders", len(orders)).
		Dur("took", time.Since(start)).
		Msg("Report written")

	if !*upload {
		return
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to configure object storage")
	}
	key := storage.Key(cfg.Storage.Prefix, name)
	published, err := storage.Publish(ctx, store, key, data)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("key", key).Msg("Failed to upload report")
	}
	logger.Log.Info().
		Str("bucket", cfg.Storage.Bucket).
		Str("key", published.Key).
		Bool("replaced", published.Replaced).
		Int("existing_reports", published.Existing).
		Msg("Report uploaded")
}
