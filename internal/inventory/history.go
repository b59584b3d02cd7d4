package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/google/uuid"
)

const (
	// HistorySaleEntries is how many recent sales are replayed into the stock log.
	HistorySaleEntries = 5
	// InitialStockDaysAgo dates the synthetic opening entry.
	InitialStockDaysAgo = 90

	SystemUser = "System"
	dateLayout = "2006-01-02"
)

// ReconstructStockHistory rebuilds a stock log ending at totalStock by walking
// backwards over the most recent sales and any recorded adjustments, then
// opening with an Initial Stock entry. Entries are returned oldest first.
func ReconstructStockHistory(variantID string, totalStock int, sales []domain.SalesHistoryEntry, adjustments []domain.StockAdjustment, now time.Time) []domain.StockHistoryLogEntry {
	recent := RecentSales(sales, HistorySaleEntries)

	// newest first while walking backwards
	entries := make([]domain.StockHistoryLogEntry, 0, len(recent)+len(adjustments)+1)
	running := totalStock
	for i := 0; i < len(recent); i++ {
		sale := recent[len(recent)-1-i]
		ts, err := time.Parse(dateLayout, sale.Date)
		if err != nil {
			ts = now
		}
		entries = append(entries, domain.StockHistoryLogEntry{
			ID:        fmt.Sprintf("%s-sale-%d", variantID, i),
			Timestamp: ts.Add(time.Duration(i) * time.Second),
			Type:      domain.StockHistorySale,
			Change:    -sale.UnitsSold,
			NewTotal:  running,
			User:      SystemUser,
		})
		running += sale.UnitsSold
	}

	sorted := append([]domain.StockAdjustment{}, adjustments...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At.After(sorted[j].At) })
	for i, adj := range sorted {
		entries = append(entries, domain.StockHistoryLogEntry{
			ID:        fmt.Sprintf("%s-adj-%d", variantID, i+1),
			Timestamp: adj.At,
			Type:      domain.StockHistoryAdjustment,
			Change:    adj.Change,
			NewTotal:  running,
			User:      adj.User,
			Reason:    adj.Reason,
		})
		running -= adj.Change
	}

	entries = append(entries, domain.StockHistoryLogEntry{
		ID:        variantID + "-init",
		Timestamp: now.AddDate(0, 0, -InitialStockDaysAgo),
		Type:      domain.StockHistoryInitial,
		Change:    running,
		NewTotal:  running,
		User:      SystemUser,
	})

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}

// NewSaleEntry builds the log entry for a sale that left newTotal units.
func NewSaleEntry(quantity, newTotal int, now time.Time) domain.StockHistoryLogEntry {
	return domain.StockHistoryLogEntry{
		ID:        newLogID(),
		Timestamp: now,
		Type:      domain.StockHistorySale,
		Change:    -quantity,
		NewTotal:  newTotal,
		User:      SystemUser,
	}
}

// NewAdjustmentEntry builds the log entry for a manual stock correction.
func NewAdjustmentEntry(change, newTotal int, user, reason string, now time.Time) domain.StockHistoryLogEntry {
	return domain.StockHistoryLogEntry{
		ID:        newLogID(),
		Timestamp: now,
		Type:      domain.StockHistoryAdjustment,
		Change:    change,
		NewTotal:  newTotal,
		User:      user,
		Reason:    reason,
	}
}

func newLogID() string {
	return "log_" + uuid.NewString()
}
