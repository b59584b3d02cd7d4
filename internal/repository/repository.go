// internal/repository/repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/stockpilot/internal/domain"
)

// CatalogRepository is the storefront catalog the composer reads from.
// List methods return every row across variants; callers group by variant id.
type CatalogRepository interface {
	ListVariants(ctx context.Context) ([]domain.ProductVariant, error)
	ListInventoryLevels(ctx context.Context) ([]domain.InventoryLevel, error)
	ListAlertSettings(ctx context.Context) ([]domain.AlertSetting, error)
	ListSalesHistory(ctx context.Context) ([]domain.SalesHistoryEntry, error)
	ListPromotions(ctx context.Context) ([]domain.Promotion, error)
	ListExternalMappings(ctx context.Context) ([]domain.ExternalInventoryMapping, error)
	ListStockAdjustments(ctx context.Context) ([]domain.StockAdjustment, error)

	// Merchant settings survive a refresh
	SaveAlertSetting(ctx context.Context, setting domain.AlertSetting) error
	SaveExternalMapping(ctx context.Context, mapping domain.ExternalInventoryMapping) error
	DeleteExternalMapping(ctx context.Context, variantID string) error
}
