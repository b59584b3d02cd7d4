// Package memory serves the catalog from process memory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/andresuchdata/stockpilot/internal/mockdata"
)

type CatalogRepository struct {
	mu sync.RWMutex

	variants    []domain.ProductVariant
	levels      []domain.InventoryLevel
	settings    map[string]domain.AlertSetting
	sales       []domain.SalesHistoryEntry
	promotions  []domain.Promotion
	mappings    map[string]domain.ExternalInventoryMapping
	adjustments []domain.StockAdjustment
}

// NewCatalogRepository copies the dataset so later writes never touch the caller's slices.
func NewCatalogRepository(ds mockdata.Dataset) *CatalogRepository {
	r := &CatalogRepository{
		variants:    append([]domain.ProductVariant{}, ds.Variants...),
		levels:      append([]domain.InventoryLevel{}, ds.InventoryLevels...),
		settings:    make(map[string]domain.AlertSetting, len(ds.AlertSettings)),
		sales:       append([]domain.SalesHistoryEntry{}, ds.SalesHistory...),
		promotions:  append([]domain.Promotion{}, ds.Promotions...),
		mappings:    make(map[string]domain.ExternalInventoryMapping, len(ds.Mappings)),
		adjustments: append([]domain.StockAdjustment{}, ds.Adjustments...),
	}
	for _, s := range ds.AlertSettings {
		r.settings[s.VariantID] = s.Clone()
	}
	for _, m := range ds.Mappings {
		r.mappings[m.VariantID] = m
	}
	return r
}

func (r *CatalogRepository) ListVariants(ctx context.Context) ([]domain.ProductVariant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.ProductVariant{}, r.variants...), nil
}

func (r *CatalogRepository) ListInventoryLevels(ctx context.Context) ([]domain.InventoryLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.InventoryLevel{}, r.levels...), nil
}

// ListAlertSettings returns settings in variant order.
func (r *CatalogRepository) ListAlertSettings(ctx context.Context) ([]domain.AlertSetting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.AlertSetting, 0, len(r.settings))
	for _, v := range r.variants {
		if s, ok := r.settings[v.ID]; ok {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

func (r *CatalogRepository) ListSalesHistory(ctx context.Context) ([]domain.SalesHistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.SalesHistoryEntry{}, r.sales...), nil
}

func (r *CatalogRepository) ListPromotions(ctx context.Context) ([]domain.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Promotion{}, r.promotions...), nil
}

func (r *CatalogRepository) ListExternalMappings(ctx context.Context) ([]domain.ExternalInventoryMapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ExternalInventoryMapping, 0, len(r.mappings))
	for _, v := range r.variants {
		if m, ok := r.mappings[v.ID]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *CatalogRepository) ListStockAdjustments(ctx context.Context) ([]domain.StockAdjustment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.StockAdjustment{}, r.adjustments...), nil
}

func (r *CatalogRepository) SaveAlertSetting(ctx context.Context, setting domain.AlertSetting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.hasVariant(setting.VariantID) {
		return fmt.Errorf("variant %s: %w", setting.VariantID, domain.ErrNotFound)
	}
	r.settings[setting.VariantID] = setting.Clone()
	return nil
}

func (r *CatalogRepository) SaveExternalMapping(ctx context.Context, mapping domain.ExternalInventoryMapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.hasVariant(mapping.VariantID) {
		return fmt.Errorf("variant %s: %w", mapping.VariantID, domain.ErrNotFound)
	}
	r.mappings[mapping.VariantID] = mapping
	return nil
}

func (r *CatalogRepository) DeleteExternalMapping(ctx context.Context, variantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.mappings, variantID)
	return nil
}

func (r *CatalogRepository) hasVariant(id string) bool {
	for _, v := range r.variants {
		if v.ID == id {
			return true
		}
	}
	return false
}
