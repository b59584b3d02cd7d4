package inventory

import (
	"math"

	"github.com/andresuchdata/stockpilot/internal/domain"
)

// VelocityWindowDays is the trailing window used for sales velocity and forecasting.
const VelocityWindowDays = 30

// RecentSales returns the trailing window of sales entries. History is
// expected in chronological order.
func RecentSales(history []domain.SalesHistoryEntry, window int) []domain.SalesHistoryEntry {
	if window <= 0 || len(history) <= window {
		return history
	}
	return history[len(history)-window:]
}

// AverageVelocity returns the mean daily units sold, 0 for an empty history.
func AverageVelocity(history []domain.SalesHistoryEntry) float64 {
	if len(history) == 0 {
		return 0
	}

	total := 0
	for _, entry := range history {
		total += entry.UnitsSold
	}
	return float64(total) / float64(len(history))
}

// DaysUntilStockout projects how long the stock lasts at the given velocity.
// A non-positive velocity never runs out and yields +Inf.
func DaysUntilStockout(totalStock int, velocity float64) float64 {
	if velocity <= 0 {
		return math.Inf(1)
	}
	return float64(totalStock) / velocity
}

// ClassifyStatus applies the reorder point first, then the low stock day threshold.
func ClassifyStatus(totalStock int, daysUntilStockout float64, setting domain.AlertSetting) domain.InventoryStatus {
	if totalStock <= setting.ReorderPointUnits {
		return domain.StatusCritical
	}
	if daysUntilStockout < float64(setting.LowStockThresholdDays) {
		return domain.StatusLow
	}
	return domain.StatusHealthy
}

// TotalStock sums stock across every fulfillment center.
func TotalStock(levels []domain.InventoryLevel) int {
	total := 0
	for _, level := range levels {
		total += level.Stock
	}
	return total
}

// RoundVelocity rounds to one decimal place for display.
func RoundVelocity(v float64) float64 {
	return math.Round(v*10) / 10
}

// MaxStockoutDays bounds the day count a product exposes. Projections at or
// past it are reported as never running out.
const MaxStockoutDays = 1_000_000

// Derive fills the velocity, stockout and status fields of a product from
// the given unrounded velocity and the product's current total stock.
func Derive(p *domain.ProcessedProduct, velocity float64) {
	days := DaysUntilStockout(p.TotalStock, velocity)

	p.SalesVelocity = RoundVelocity(velocity)
	p.Status = ClassifyStatus(p.TotalStock, days, p.AlertSetting)
	if math.IsInf(days, 1) || days >= MaxStockoutDays {
		p.DaysUntilStockout = nil
		p.StockoutUnbounded = true
		return
	}
	floored := int(math.Floor(math.Max(days, -MaxStockoutDays)))
	p.DaysUntilStockout = &floored
	p.StockoutUnbounded = false
}

// Recalculate returns a copy of the product with velocity, stockout and
// status recomputed from the trailing sales window. Any forecast velocity
// is replaced by the simple average, matching what a local edit can know.
func Recalculate(p domain.ProcessedProduct) domain.ProcessedProduct {
	out := p.Clone()
	Derive(&out, AverageVelocity(RecentSales(out.SalesHistory, VelocityWindowDays)))
	return out
}
