package inventory

import (
	"math"
	"testing"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesOf(units ...int) []domain.SalesHistoryEntry {
	out := make([]domain.SalesHistoryEntry, len(units))
	for i, u := range units {
		out[i] = domain.SalesHistoryEntry{VariantID: "prod_1", Date: "2026-01-01", UnitsSold: u}
	}
	return out
}

func TestRecentSales(t *testing.T) {
	history := salesOf(1, 2, 3, 4, 5)

	assert.Equal(t, history, RecentSales(history, 10))
	assert.Equal(t, []int{4, 5}, unitsOf(RecentSales(history, 2)))
	assert.Len(t, RecentSales(nil, VelocityWindowDays), 0)
}

func unitsOf(entries []domain.SalesHistoryEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.UnitsSold
	}
	return out
}

func TestAverageVelocity(t *testing.T) {
	assert.Equal(t, 0.0, AverageVelocity(nil))
	assert.InDelta(t, 2.5, AverageVelocity(salesOf(1, 2, 3, 4)), 1e-9)
}

func TestDaysUntilStockout(t *testing.T) {
	assert.True(t, math.IsInf(DaysUntilStockout(10, 0), 1))
	assert.InDelta(t, 12.5, DaysUntilStockout(25, 2), 1e-9)
}

func TestClassifyStatus(t *testing.T) {
	setting := domain.AlertSetting{ReorderPointUnits: 20, LowStockThresholdDays: 7}

	tests := []struct {
		name  string
		stock int
		days  float64
		want  domain.InventoryStatus
	}{
		{"at reorder point is critical", 20, 100, domain.StatusCritical},
		{"below reorder point is critical", -3, 1, domain.StatusCritical},
		{"short cover is low", 21, 6.9, domain.StatusLow},
		{"exact threshold is healthy", 21, 7, domain.StatusHealthy},
		{"never runs out is healthy", 21, math.Inf(1), domain.StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(tt.stock, tt.days, setting))
		})
	}
}

func TestTotalStock(t *testing.T) {
	levels := []domain.InventoryLevel{{Stock: 120}, {Stock: 85}}
	assert.Equal(t, 205, TotalStock(levels))
}

func TestDerive(t *testing.T) {
	p := domain.ProcessedProduct{
		TotalStock:   75,
		AlertSetting: domain.AlertSetting{ReorderPointUnits: 20, LowStockThresholdDays: 7},
	}

	Derive(&p, 12.345)
	assert.Equal(t, 12.3, p.SalesVelocity)
	days, ok := p.StockoutDays()
	require.True(t, ok)
	assert.Equal(t, 6, days)
	assert.Equal(t, domain.StatusLow, p.Status)

	Derive(&p, 0)
	_, ok = p.StockoutDays()
	assert.False(t, ok)
	assert.True(t, p.StockoutUnbounded)
	assert.Equal(t, domain.StatusHealthy, p.Status)
}

func TestDeriveTinyVelocity(t *testing.T) {
	p := domain.ProcessedProduct{
		TotalStock:   75,
		AlertSetting: domain.AlertSetting{ReorderPointUnits: 20, LowStockThresholdDays: 7},
	}

	Derive(&p, 1e-20)
	_, ok := p.StockoutDays()
	assert.False(t, ok)
	assert.True(t, p.StockoutUnbounded)
	assert.Equal(t, domain.StatusHealthy, p.Status)

	p.TotalStock = -5
	Derive(&p, 1e-20)
	days, ok := p.StockoutDays()
	require.True(t, ok)
	assert.Equal(t, -MaxStockoutDays, days)
	assert.Equal(t, domain.StatusCritical, p.Status)
}

func TestRecalculateUsesTrailingWindow(t *testing.T) {
	units := make([]int, 0, 40)
	for i := 0; i < 10; i++ {
		units = append(units, 100)
	}
	for i := 0; i < 30; i++ {
		units = append(units, 2)
	}

	p := domain.ProcessedProduct{
		TotalStock:    100,
		SalesHistory:  salesOf(units...),
		SalesVelocity: 40,
		AlertSetting:  domain.AlertSetting{ReorderPointUnits: 10, LowStockThresholdDays: 14},
	}

	out := Recalculate(p)
	assert.Equal(t, 2.0, out.SalesVelocity)
	days, ok := out.StockoutDays()
	require.True(t, ok)
	assert.Equal(t, 50, days)
	assert.Equal(t, domain.StatusHealthy, out.Status)
	assert.Equal(t, 40.0, p.SalesVelocity, "input must not be modified")
}
