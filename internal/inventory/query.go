package inventory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/stockpilot/internal/domain"
)

// AtRisk returns Low and Critical products, soonest stockout first.
func AtRisk(products []domain.ProcessedProduct) []domain.ProcessedProduct {
	out := make([]domain.ProcessedProduct, 0)
	for _, p := range products {
		if p.Status.AtRisk() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return stockoutSortValue(out[i]) < stockoutSortValue(out[j])
	})
	return out
}

// FilterProducts keeps products matching the filter and applies its ordering.
func FilterProducts(products []domain.ProcessedProduct, filter domain.ProductFilter) []domain.ProcessedProduct {
	out := make([]domain.ProcessedProduct, 0, len(products))
	for _, p := range products {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	if filter.SortField != "" {
		SortProducts(out, filter.SortField, filter.SortDir)
	}
	return out
}

// SortProducts orders products in place by one of name, sku, total_stock,
// sales_velocity, days_until_stockout or status. Unknown keys sort by name.
func SortProducts(products []domain.ProcessedProduct, field, dir string) {
	desc := strings.EqualFold(dir, "desc")

	less := func(a, b domain.ProcessedProduct) bool {
		switch strings.ToLower(field) {
		case "sku":
			return strings.ToLower(a.SKU) < strings.ToLower(b.SKU)
		case "total_stock":
			return a.TotalStock < b.TotalStock
		case "sales_velocity":
			return a.SalesVelocity < b.SalesVelocity
		case "days_until_stockout":
			return stockoutSortValue(a) < stockoutSortValue(b)
		case "status":
			return a.Status.Severity() < b.Status.Severity()
		default:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		if desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

func stockoutSortValue(p domain.ProcessedProduct) float64 {
	if days, ok := p.StockoutDays(); ok {
		return float64(days)
	}
	return float64(^uint(0) >> 1)
}

// SalesSeries returns the product's daily sales inside the inclusive
// [start, end] date range. Promotion titles are attached when withPromotions is set.
func SalesSeries(p domain.ProcessedProduct, start, end string, withPromotions bool) ([]domain.SalesPoint, error) {
	if start == "" || end == "" {
		return nil, fmt.Errorf("%w: please select both a start and end date", domain.ErrInvalidInput)
	}
	for _, d := range []string{start, end} {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return nil, fmt.Errorf("%w: date %q must use YYYY-MM-DD", domain.ErrInvalidInput, d)
		}
	}
	if start > end {
		return nil, fmt.Errorf("%w: start date cannot be after end date", domain.ErrInvalidInput)
	}

	points := make([]domain.SalesPoint, 0)
	for _, entry := range p.SalesHistory {
		if entry.Date < start || entry.Date > end {
			continue
		}
		point := domain.SalesPoint{Date: entry.Date, UnitsSold: entry.UnitsSold}
		if withPromotions {
			for _, promo := range p.Promotions {
				if promo.Covers(entry.Date) {
					point.Promotion = promo.Title
					break
				}
			}
		}
		points = append(points, point)
	}
	return points, nil
}
