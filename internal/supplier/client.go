// Package supplier reads stock held by third-party suppliers.
package supplier

import (
	"context"
	"regexp"
	"time"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/rs/zerolog/log"
)

// Client fetches the units a supplier currently holds for a mapped variant.
type Client interface {
	FetchStock(ctx context.Context, mapping domain.ExternalInventoryMapping) (int, error)
}

// MockClient answers every request with a fixed stock figure after a delay.
type MockClient struct {
	delay time.Duration
	stock int
}

func NewMockClient(delay time.Duration, stock int) *MockClient {
	return &MockClient{delay: delay, stock: stock}
}

func (c *MockClient) FetchStock(ctx context.Context, mapping domain.ExternalInventoryMapping) (int, error) {
	log.Info().
		Str("supplier", mapping.SupplierName).
		Str("supplier_sku", mapping.SupplierSKU).
		Msg("fetching external stock")

	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-timer.C:
	}

	log.Info().
		Str("supplier_sku", mapping.SupplierSKU).
		Int("stock", c.stock).
		Msg("received external stock")
	return c.stock, nil
}

var whitespace = regexp.MustCompile(`\s`)

// CenterID is the pseudo fulfillment center id for a supplier's stock.
func CenterID(supplierName string) string {
	return "supplier_" + whitespace.ReplaceAllString(supplierName, "")
}

// CenterName is the display name of the supplier pseudo center.
func CenterName(supplierName string) string {
	return "Supplier: " + supplierName
}

// InventoryLevel wraps fetched supplier stock as an inventory level.
func InventoryLevel(mapping domain.ExternalInventoryMapping, stock int) domain.InventoryLevel {
	return domain.InventoryLevel{
		VariantID:  mapping.VariantID,
		CenterID:   CenterID(mapping.SupplierName),
		CenterName: CenterName(mapping.SupplierName),
		Stock:      stock,
	}
}
