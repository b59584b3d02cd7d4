package inventory

import (
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructStockHistory(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	sales := []domain.SalesHistoryEntry{
		{Date: "2026-10-12", UnitsSold: 9},
		{Date: "2026-10-13", UnitsSold: 1},
		{Date: "2026-10-14", UnitsSold: 2},
		{Date: "2026-10-15", UnitsSold: 3},
		{Date: "2026-10-16", UnitsSold: 4},
		{Date: "2026-10-17", UnitsSold: 5},
	}

	entries := ReconstructStockHistory("prod_1", 100, sales, nil, now)
	require.Len(t, entries, 6)

	init := entries[0]
	assert.Equal(t, "prod_1-init", init.ID)
	assert.Equal(t, domain.StockHistoryInitial, init.Type)
	assert.Equal(t, 115, init.Change)
	assert.Equal(t, 115, init.NewTotal)
	assert.Equal(t, now.AddDate(0, 0, -90), init.Timestamp)

	// oldest replayed sale comes right after the opening entry
	assert.Equal(t, "prod_1-sale-4", entries[1].ID)
	assert.Equal(t, -1, entries[1].Change)
	assert.Equal(t, 114, entries[1].NewTotal)

	last := entries[len(entries)-1]
	assert.Equal(t, "prod_1-sale-0", last.ID)
	assert.Equal(t, -5, last.Change)
	assert.Equal(t, 100, last.NewTotal)
	assert.Equal(t, SystemUser, last.User)
}

func TestReconstructStockHistoryWithAdjustment(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	sales := []domain.SalesHistoryEntry{{Date: "2026-10-18", UnitsSold: 5}}
	adjustments := []domain.StockAdjustment{{
		VariantID: "prod_2",
		Change:    10,
		Reason:    "Stock Take Correction",
		User:      "Jane Doe",
		At:        now.AddDate(0, 0, -10),
	}}

	entries := ReconstructStockHistory("prod_2", 75, sales, adjustments, now)
	require.Len(t, entries, 3)

	assert.Equal(t, domain.StockHistoryInitial, entries[0].Type)
	assert.Equal(t, 70, entries[0].NewTotal)

	adj := entries[1]
	assert.Equal(t, "prod_2-adj-1", adj.ID)
	assert.Equal(t, domain.StockHistoryAdjustment, adj.Type)
	assert.Equal(t, 10, adj.Change)
	assert.Equal(t, 80, adj.NewTotal)
	assert.Equal(t, "Jane Doe", adj.User)

	assert.Equal(t, 75, entries[2].NewTotal)
}

func TestReconstructStockHistoryWithoutSales(t *testing.T) {
	entries := ReconstructStockHistory("prod_9", 42, nil, nil, time.Now())
	require.Len(t, entries, 1)
	assert.Equal(t, 42, entries[0].Change)
}

func TestNewEntries(t *testing.T) {
	now := time.Now()

	sale := NewSaleEntry(3, 97, now)
	assert.True(t, strings.HasPrefix(sale.ID, "log_"))
	assert.Equal(t, -3, sale.Change)
	assert.Equal(t, domain.StockHistorySale, sale.Type)

	adj := NewAdjustmentEntry(-4, 93, "Jane Doe", "Damaged Goods", now)
	assert.Equal(t, domain.StockHistoryAdjustment, adj.Type)
	assert.Equal(t, "Damaged Goods", adj.Reason)
	assert.NotEqual(t, sale.ID, adj.ID)
}
