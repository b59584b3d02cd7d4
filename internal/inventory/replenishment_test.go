package inventory

import (
	"testing"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string, status domain.InventoryStatus, days *int) domain.ProcessedProduct {
	return domain.ProcessedProduct{
		ProductVariant:    domain.ProductVariant{ID: id, Name: "Item " + id, SKU: "SKU-" + id},
		Status:            status,
		DaysUntilStockout: days,
		StockoutUnbounded: days == nil,
		AlertSetting:      domain.AlertSetting{ReorderQuantity: 50},
	}
}

func intPtr(v int) *int { return &v }

func TestBuildDraftOrders(t *testing.T) {
	cost := decimal.RequireFromString("12.50")
	critical := product("prod_4", domain.StatusCritical, intPtr(3))
	critical.ExternalInventoryMapping = &domain.ExternalInventoryMapping{SupplierName: "Artisan Leather Goods", CostPerItem: &cost}

	orders := BuildDraftOrders([]domain.ProcessedProduct{
		product("prod_1", domain.StatusHealthy, nil),
		critical,
		product("prod_2", domain.StatusLow, intPtr(5)),
	})

	require.Len(t, orders, 1)
	po := orders[0]
	assert.Equal(t, "po_draft_prod_4", po.ID)
	assert.Equal(t, 50, po.Quantity)
	assert.Equal(t, domain.PODraft, po.Status)
	assert.Equal(t, "Artisan Leather Goods", po.SupplierName)
	assert.Equal(t, "625", po.EstimatedCost.String())
}

func TestEstimateCostWithoutMapping(t *testing.T) {
	assert.True(t, EstimateCost(nil, 10).IsZero())
	assert.True(t, EstimateCost(&domain.ExternalInventoryMapping{}, 10).IsZero())
}

func TestBaselineReorderQuantity(t *testing.T) {
	p := domain.ProcessedProduct{
		TotalStock:    100,
		SalesVelocity: 8,
		Status:        domain.StatusHealthy,
		AlertSetting:  domain.AlertSetting{SupplierLeadTimeDays: 10, ReorderQuantity: 150},
	}
	assert.Equal(t, 220, BaselineReorderQuantity(p, 30))

	p.TotalStock = 1000
	assert.Equal(t, 0, BaselineReorderQuantity(p, 30))

	p.Status = domain.StatusCritical
	p.TotalStock = 300
	assert.Equal(t, 150, BaselineReorderQuantity(p, 0))
}

func TestAtRisk(t *testing.T) {
	products := []domain.ProcessedProduct{
		product("a", domain.StatusLow, intPtr(9)),
		product("b", domain.StatusHealthy, intPtr(1)),
		product("c", domain.StatusCritical, intPtr(2)),
		product("d", domain.StatusCritical, nil),
	}

	got := AtRisk(products)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, "d", got[2].ID)
}

func TestFilterAndSortProducts(t *testing.T) {
	a := product("a", domain.StatusLow, intPtr(9))
	a.Name = "zeta"
	a.TotalStock = 5
	b := product("b", domain.StatusHealthy, nil)
	b.Name = "Alpha"
	b.TotalStock = 50
	c := product("c", domain.StatusCritical, intPtr(1))
	c.Name = "mid"
	c.TotalStock = 1

	all := []domain.ProcessedProduct{a, b, c}

	byName := FilterProducts(all, domain.ProductFilter{SortField: "name"})
	assert.Equal(t, []string{"b", "c", "a"}, idsOf(byName))

	byStockDesc := FilterProducts(all, domain.ProductFilter{SortField: "total_stock", SortDir: "desc"})
	assert.Equal(t, []string{"b", "a", "c"}, idsOf(byStockDesc))

	byStockout := FilterProducts(all, domain.ProductFilter{SortField: "days_until_stockout"})
	assert.Equal(t, []string{"c", "a", "b"}, idsOf(byStockout))

	onlyLow := FilterProducts(all, domain.ProductFilter{Status: domain.StatusLow})
	assert.Equal(t, []string{"a"}, idsOf(onlyLow))

	unsorted := FilterProducts(all, domain.ProductFilter{})
	assert.Equal(t, []string{"a", "b", "c"}, idsOf(unsorted))
}

func idsOf(products []domain.ProcessedProduct) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestSalesSeries(t *testing.T) {
	p := domain.ProcessedProduct{
		SalesHistory: []domain.SalesHistoryEntry{
			{Date: "2026-10-01", UnitsSold: 1},
			{Date: "2026-10-02", UnitsSold: 2},
			{Date: "2026-10-03", UnitsSold: 3},
		},
		Promotions: []domain.Promotion{{StartDate: "2026-10-02", EndDate: "2026-10-02", Title: "Flash"}},
	}

	points, err := SalesSeries(p, "2026-10-02", "2026-10-03", true)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "Flash", points[0].Promotion)
	assert.Empty(t, points[1].Promotion)

	points, err = SalesSeries(p, "2026-10-01", "2026-10-03", false)
	require.NoError(t, err)
	assert.Empty(t, points[1].Promotion)

	_, err = SalesSeries(p, "2026-10-03", "2026-10-01", false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = SalesSeries(p, "", "2026-10-01", false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = SalesSeries(p, "10/01/2026", "2026-10-03", false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
