package domain

import (
	"github.com/shopspring/decimal"
)

// ProcessedProduct is the denormalized per-variant view joining every table
// with the derived stock figures.
type ProcessedProduct struct {
	ProductVariant
	Inventory                []InventoryLevel          `json:"inventory"`
	SalesHistory             []SalesHistoryEntry       `json:"sales_history"`
	StockHistory             []StockHistoryLogEntry    `json:"stock_history"`
	AlertSetting             AlertSetting              `json:"alert_setting"`
	Promotions               []Promotion               `json:"promotions"`
	ExternalInventoryMapping *ExternalInventoryMapping `json:"external_inventory_mapping,omitempty"`
	TotalStock               int                       `json:"total_stock"`
	SalesVelocity            float64                   `json:"sales_velocity"` // units per day
	DaysUntilStockout        *int                      `json:"days_until_stockout"`
	StockoutUnbounded        bool                      `json:"stockout_unbounded"`
	Status                   InventoryStatus           `json:"status"`
	Analysis                 string                    `json:"analysis,omitempty"`
}

// StockoutDays returns the floored days until stockout, or ok=false when
// the product never runs out at the current velocity.
func (p ProcessedProduct) StockoutDays() (int, bool) {
	if p.StockoutUnbounded || p.DaysUntilStockout == nil {
		return 0, false
	}
	return *p.DaysUntilStockout, true
}

// Clone returns a deep copy safe to mutate independently of the receiver.
func (p ProcessedProduct) Clone() ProcessedProduct {
	c := p
	c.Inventory = append([]InventoryLevel{}, p.Inventory...)
	c.SalesHistory = append([]SalesHistoryEntry{}, p.SalesHistory...)
	c.StockHistory = append([]StockHistoryLogEntry{}, p.StockHistory...)
	c.Promotions = append([]Promotion{}, p.Promotions...)
	c.AlertSetting = p.AlertSetting.Clone()
	if p.ExternalInventoryMapping != nil {
		m := *p.ExternalInventoryMapping
		c.ExternalInventoryMapping = &m
	}
	if p.DaysUntilStockout != nil {
		d := *p.DaysUntilStockout
		c.DaysUntilStockout = &d
	}
	return c
}

// PurchaseOrder is a replenishment order for a single product
type PurchaseOrder struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	SKU           string          `json:"sku"`
	SupplierName  string          `json:"supplier_name"`
	Quantity      int             `json:"quantity"`
	Status        POStatus        `json:"status"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

// ProductFilter represents filters for product list queries
type ProductFilter struct {
	Status    InventoryStatus `json:"status"`
	SortField string          `json:"sort_field"`
	SortDir   string          `json:"sort_direction"`
}

// SalesPoint is a single day on a product sales chart
type SalesPoint struct {
	Date      string `json:"date"`
	UnitsSold int    `json:"units_sold"`
	Promotion string `json:"promotion,omitempty"`
}

// VisibleProducts is the tier-limited dashboard product list
type VisibleProducts struct {
	Products    []ProcessedProduct `json:"products"`
	HiddenCount int                `json:"hidden_count"`
	Limit       int                `json:"limit"`
}

// InventorySnapshot is the cached result of a composition run for one tier
type InventorySnapshot struct {
	Tier     SubscriptionTier   `json:"tier"`
	Products []ProcessedProduct `json:"products"`
}

// ReorderSuggestion pairs the model's advice with a deterministic baseline quantity
type ReorderSuggestion struct {
	ProductID        string `json:"product_id"`
	Suggestion       string `json:"suggestion"`
	BaselineQuantity int    `json:"baseline_quantity"`
	CoverDays        int    `json:"cover_days"`
}

// AlertSettingUpdate carries optional changes to a product's reorder thresholds
type AlertSettingUpdate struct {
	ReorderPointUnits     *int `json:"reorder_point_units"`
	ReorderQuantity       *int `json:"reorder_quantity"`
	SupplierLeadTimeDays  *int `json:"supplier_lead_time_days"`
	LowStockThresholdDays *int `json:"low_stock_threshold_days"`
}
