package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/andresuchdata/stockpilot/internal/forecast"
	"github.com/andresuchdata/stockpilot/internal/inventory"
	"github.com/andresuchdata/stockpilot/internal/repository"
	"github.com/andresuchdata/stockpilot/internal/supplier"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Forecaster is the model-backed analysis used for Pro accounts.
type Forecaster interface {
	Forecast(ctx context.Context, variant domain.ProductVariant, recentSales []domain.SalesHistoryEntry, promotions []domain.Promotion) forecast.Result
	ReorderSuggestion(ctx context.Context, p domain.ProcessedProduct) string
}

// Composer joins the catalog tables into processed products.
type Composer struct {
	repo       repository.CatalogRepository
	supplier   supplier.Client
	forecaster Forecaster
	delay      time.Duration
	now        func() time.Time
}

func NewComposer(repo repository.CatalogRepository, supplierClient supplier.Client, forecaster Forecaster, delay time.Duration) *Composer {
	return &Composer{
		repo:       repo,
		supplier:   supplierClient,
		forecaster: forecaster,
		delay:      delay,
		now:        time.Now,
	}
}

type catalog struct {
	variants    []domain.ProductVariant
	levels      map[string][]domain.InventoryLevel
	settings    map[string]domain.AlertSetting
	sales       map[string][]domain.SalesHistoryEntry
	promotions  map[string][]domain.Promotion
	mappings    map[string]domain.ExternalInventoryMapping
	adjustments map[string][]domain.StockAdjustment
}

// Compose builds every product for the tier, in catalog order. Pro accounts
// get supplier stock and model forecasts; a supplier failure only drops that
// supplier's stock.
func (c *Composer) Compose(ctx context.Context, tier domain.SubscriptionTier) ([]domain.ProcessedProduct, error) {
	log.Info().Str("tier", string(tier)).Msg("composing products")

	if err := sleep(ctx, c.delay); err != nil {
		return nil, err
	}

	cat, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	now := c.now()
	products := make([]domain.ProcessedProduct, len(cat.variants))

	g, gctx := errgroup.WithContext(ctx)
	for i, variant := range cat.variants {
		g.Go(func() error {
			p, err := c.composeOne(gctx, tier, variant, cat, now)
			if err != nil {
				return err
			}
			products[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Int("products", len(products)).Msg("finished composing products")
	return products, nil
}

func (c *Composer) composeOne(ctx context.Context, tier domain.SubscriptionTier, variant domain.ProductVariant, cat *catalog, now time.Time) (domain.ProcessedProduct, error) {
	setting, ok := cat.settings[variant.ID]
	if !ok {
		return domain.ProcessedProduct{}, fmt.Errorf("alert setting for variant %s: %w", variant.ID, domain.ErrNotFound)
	}

	levels := append([]domain.InventoryLevel{}, cat.levels[variant.ID]...)
	sales := append([]domain.SalesHistoryEntry{}, cat.sales[variant.ID]...)
	promotions := append([]domain.Promotion{}, cat.promotions[variant.ID]...)

	var mapping *domain.ExternalInventoryMapping
	if m, ok := cat.mappings[variant.ID]; ok {
		mapping = &m
	}

	if tier.IsPro() && mapping != nil {
		stock, err := c.supplier.FetchStock(ctx, *mapping)
		switch {
		case err == nil:
			levels = append(levels, supplier.InventoryLevel(*mapping, stock))
		case ctx.Err() != nil:
			return domain.ProcessedProduct{}, ctx.Err()
		default:
			log.Warn().Err(err).Str("variant_id", variant.ID).Str("supplier", mapping.SupplierName).Msg("supplier stock unavailable")
		}
	}

	total := inventory.TotalStock(levels)
	recent := inventory.RecentSales(sales, inventory.VelocityWindowDays)

	p := domain.ProcessedProduct{
		ProductVariant:           variant,
		Inventory:                levels,
		SalesHistory:             sales,
		StockHistory:             inventory.ReconstructStockHistory(variant.ID, total, sales, cat.adjustments[variant.ID], now),
		AlertSetting:             setting.Clone(),
		Promotions:               promotions,
		ExternalInventoryMapping: mapping,
		TotalStock:               total,
	}

	velocity := inventory.AverageVelocity(recent)
	if tier.IsPro() {
		result := c.forecaster.Forecast(ctx, variant, recent, promotions)
		velocity = result.SalesVelocity
		p.Analysis = result.Analysis
	}
	inventory.Derive(&p, velocity)

	return p, nil
}

func (c *Composer) load(ctx context.Context) (*catalog, error) {
	variants, err := c.repo.ListVariants(ctx)
	if err != nil {
		return nil, err
	}
	levels, err := c.repo.ListInventoryLevels(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := c.repo.ListAlertSettings(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := c.repo.ListSalesHistory(ctx)
	if err != nil {
		return nil, err
	}
	promotions, err := c.repo.ListPromotions(ctx)
	if err != nil {
		return nil, err
	}
	mappings, err := c.repo.ListExternalMappings(ctx)
	if err != nil {
		return nil, err
	}
	adjustments, err := c.repo.ListStockAdjustments(ctx)
	if err != nil {
		return nil, err
	}

	cat := &catalog{
		variants:    variants,
		levels:      make(map[string][]domain.InventoryLevel),
		settings:    make(map[string]domain.AlertSetting, len(settings)),
		sales:       make(map[string][]domain.SalesHistoryEntry),
		promotions:  make(map[string][]domain.Promotion),
		mappings:    make(map[string]domain.ExternalInventoryMapping, len(mappings)),
		adjustments: make(map[string][]domain.StockAdjustment),
	}
	for _, l := range levels {
		cat.levels[l.VariantID] = append(cat.levels[l.VariantID], l)
	}
	for _, s := range settings {
		cat.settings[s.VariantID] = s
	}
	for _, s := range sales {
		cat.sales[s.VariantID] = append(cat.sales[s.VariantID], s)
	}
	for _, p := range promotions {
		cat.promotions[p.VariantID] = append(cat.promotions[p.VariantID], p)
	}
	for _, m := range mappings {
		cat.mappings[m.VariantID] = m
	}
	for _, a := range adjustments {
		cat.adjustments[a.VariantID] = append(cat.adjustments[a.VariantID], a)
	}
	return cat, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
