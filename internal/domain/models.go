// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductVariant represents a storefront product variant
type ProductVariant struct {
	ID               string `json:"id" db:"id"`
	ShopifyVariantID string `json:"shopify_variant_id" db:"shopify_variant_id"`
	SKU              string `json:"sku" db:"sku"`
	Name             string `json:"name" db:"name"`
	ImageURL         string `json:"image_url" db:"image_url"`
}

// InventoryLevel represents stock held at a single fulfillment center
type InventoryLevel struct {
	VariantID  string `json:"variant_id" db:"variant_id"`
	CenterID   string `json:"center_id" db:"center_id"`
	CenterName string `json:"center_name" db:"center_name"`
	Stock      int    `json:"stock" db:"stock"`
}

// AlertSetting holds the merchant's reorder and notification configuration for a variant
type AlertSetting struct {
	VariantID             string   `json:"variant_id" db:"variant_id"`
	ReorderPointUnits     int      `json:"reorder_point_units" db:"reorder_point_units"`
	ReorderQuantity       int      `json:"reorder_quantity" db:"reorder_quantity"`
	LowStockThresholdDays int      `json:"low_stock_threshold_days" db:"low_stock_threshold_days"`
	SupplierLeadTimeDays  int      `json:"supplier_lead_time_days" db:"supplier_lead_time_days"`
	AlertEmailList        []string `json:"alert_email_list" db:"-"`
	AlertSMSList          []string `json:"alert_sms_list" db:"-"`
	AlertSlackList        []string `json:"alert_slack_list" db:"-"`
}

// Clone returns a copy of the setting that shares no slices with the receiver.
func (a AlertSetting) Clone() AlertSetting {
	a.AlertEmailList = append([]string{}, a.AlertEmailList...)
	a.AlertSMSList = append([]string{}, a.AlertSMSList...)
	a.AlertSlackList = append([]string{}, a.AlertSlackList...)
	return a
}

// RecipientCount returns the number of configured recipients across every channel.
func (a AlertSetting) RecipientCount() int {
	return len(a.AlertEmailList) + len(a.AlertSMSList) + len(a.AlertSlackList)
}

// SalesHistoryEntry is a single day of sales for a variant
type SalesHistoryEntry struct {
	VariantID string `json:"variant_id" db:"variant_id"`
	Date      string `json:"date" db:"sale_date"` // YYYY-MM-DD
	UnitsSold int    `json:"units_sold" db:"units_sold"`
}

// ExternalInventoryMapping links a variant to a third-party supplier feed
type ExternalInventoryMapping struct {
	VariantID      string           `json:"variant_id" db:"variant_id"`
	SupplierName   string           `json:"supplier_name" db:"supplier_name"`
	SupplierAPIURL string           `json:"supplier_api_url" db:"supplier_api_url"`
	SupplierSKU    string           `json:"supplier_sku" db:"supplier_sku"`
	CostPerItem    *decimal.Decimal `json:"cost_per_item,omitempty" db:"cost_per_item"`
}

// Promotion is a storefront discount window that inflates sales
type Promotion struct {
	VariantID    string  `json:"variant_id" db:"variant_id"`
	StartDate    string  `json:"start_date" db:"start_date"` // YYYY-MM-DD
	EndDate      string  `json:"end_date" db:"end_date"`     // YYYY-MM-DD
	Title        string  `json:"title" db:"title"`
	DiscountCode *string `json:"discount_code,omitempty" db:"discount_code"`
}

// Covers reports whether the promotion is active on the given YYYY-MM-DD date.
func (p Promotion) Covers(date string) bool {
	return date >= p.StartDate && date <= p.EndDate
}

// StockHistoryType classifies a stock log entry
type StockHistoryType string

const (
	StockHistoryInitial    StockHistoryType = "Initial Stock"
	StockHistorySale       StockHistoryType = "Sale"
	StockHistoryAdjustment StockHistoryType = "Manual Adjustment"
)

// StockHistoryLogEntry records a single stock delta
type StockHistoryLogEntry struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Type      StockHistoryType `json:"type"`
	Change    int              `json:"change"`
	NewTotal  int              `json:"new_total"`
	User      string           `json:"user"`
	Reason    string           `json:"reason,omitempty"`
}

// StockAdjustment is a recorded manual correction used to rebuild stock history
type StockAdjustment struct {
	VariantID string    `json:"variant_id" db:"variant_id"`
	Change    int       `json:"change" db:"change"`
	Reason    string    `json:"reason" db:"reason"`
	User      string    `json:"user" db:"user_name"`
	At        time.Time `json:"at" db:"adjusted_at"`
}
