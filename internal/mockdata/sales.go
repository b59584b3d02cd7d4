package mockdata

import (
	"math"
	"math/rand"
	"time"

	"github.com/andresuchdata/stockpilot/internal/domain"
)

const (
	// HistoryDays is the length of generated sales history, ending today.
	HistoryDays = 90

	weekendMultiplier   = 1.3
	mondayMultiplier    = 0.8
	promotionMultiplier = 2.5
)

// GenerateSalesHistory draws HistoryDays of daily sales around base units.
// Weekends sell more, Mondays less, and promotion days spike.
func GenerateSalesHistory(rng *rand.Rand, variantID string, base, volatility float64, promotions []domain.Promotion, today time.Time) []domain.SalesHistoryEntry {
	history := make([]domain.SalesHistoryEntry, 0, HistoryDays)
	for i := 0; i < HistoryDays; i++ {
		day := today.AddDate(0, 0, -(HistoryDays - 1 - i))
		date := day.Format(dateLayout)

		multiplier := DayMultiplier(day.Weekday())
		for _, promo := range promotions {
			if promo.Covers(date) {
				multiplier *= promotionMultiplier
				break
			}
		}

		units := math.Round((base + (rng.Float64()-0.5)*volatility) * multiplier)
		if units < 0 {
			units = 0
		}

		history = append(history, domain.SalesHistoryEntry{
			VariantID: variantID,
			Date:      date,
			UnitsSold: int(units),
		})
	}
	return history
}

// DayMultiplier is the weekly seasonality applied to base sales.
func DayMultiplier(day time.Weekday) float64 {
	switch day {
	case time.Saturday, time.Sunday:
		return weekendMultiplier
	case time.Monday:
		return mondayMultiplier
	default:
		return 1.0
	}
}
