package supplier

import (
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wallet = domain.ExternalInventoryMapping{
	VariantID:    "prod_4",
	SupplierName: "Artisan Leather Goods",
	SupplierSKU:  "ALG-WALLET-MIN-BRN",
}

func TestMockClientFetchStock(t *testing.T) {
	client := NewMockClient(0, 75)

	stock, err := client.FetchStock(context.Background(), wallet)
	require.NoError(t, err)
	assert.Equal(t, 75, stock)
}

func TestMockClientHonoursCancellation(t *testing.T) {
	client := NewMockClient(time.Minute, 75)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchStock(ctx, wallet)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInventoryLevel(t *testing.T) {
	level := InventoryLevel(wallet, 75)

	assert.Equal(t, "prod_4", level.VariantID)
	assert.Equal(t, "supplier_ArtisanLeatherGoods", level.CenterID)
	assert.Equal(t, "Supplier: Artisan Leather Goods", level.CenterName)
	assert.Equal(t, 75, level.Stock)
}
