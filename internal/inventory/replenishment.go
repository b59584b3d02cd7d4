package inventory

import (
	"math"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/shopspring/decimal"
)

// TargetCoverDays is the sales period a reorder should cover after the stock arrives.
const TargetCoverDays = 30

// DraftOrderID is the deterministic id of the auto-drafted order for a product.
func DraftOrderID(productID string) string {
	return "po_draft_" + productID
}

// SentOrderID is the id used for orders that start in the Sent state.
func SentOrderID(productID string) string {
	return "po_sent_" + productID
}

// NewPurchaseOrder builds an order for the product with its estimated cost.
func NewPurchaseOrder(id string, p domain.ProcessedProduct, quantity int, status domain.POStatus) domain.PurchaseOrder {
	po := domain.PurchaseOrder{
		ID:            id,
		ProductID:     p.ID,
		ProductName:   p.Name,
		SKU:           p.SKU,
		SupplierName:  "N/A",
		Quantity:      quantity,
		Status:        status,
		EstimatedCost: EstimateCost(p.ExternalInventoryMapping, quantity),
	}
	if p.ExternalInventoryMapping != nil && p.ExternalInventoryMapping.SupplierName != "" {
		po.SupplierName = p.ExternalInventoryMapping.SupplierName
	}
	return po
}

// EstimateCost prices an order from the supplier's cost per item, zero when unknown.
func EstimateCost(mapping *domain.ExternalInventoryMapping, quantity int) decimal.Decimal {
	if mapping == nil || mapping.CostPerItem == nil {
		return decimal.Zero
	}
	return mapping.CostPerItem.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// BuildDraftOrders drafts one order per Critical product for its configured reorder quantity.
func BuildDraftOrders(products []domain.ProcessedProduct) []domain.PurchaseOrder {
	orders := make([]domain.PurchaseOrder, 0)
	for _, p := range products {
		if p.Status != domain.StatusCritical {
			continue
		}
		orders = append(orders, NewPurchaseOrder(DraftOrderID(p.ID), p, p.AlertSetting.ReorderQuantity, domain.PODraft))
	}
	return orders
}

// BaselineReorderQuantity is the deterministic reorder suggestion: enough
// units to cover the supplier lead time plus coverDays of forecast demand,
// less what is already on hand. Critical products never get less than their
// configured reorder quantity.
func BaselineReorderQuantity(p domain.ProcessedProduct, coverDays int) int {
	if coverDays <= 0 {
		coverDays = TargetCoverDays
	}

	demand := p.SalesVelocity * float64(p.AlertSetting.SupplierLeadTimeDays+coverDays)
	qty := int(math.Ceil(demand)) - p.TotalStock
	if p.Status == domain.StatusCritical && qty < p.AlertSetting.ReorderQuantity {
		qty = p.AlertSetting.ReorderQuantity
	}
	if qty < 0 {
		return 0
	}
	return qty
}
