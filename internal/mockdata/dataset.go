// Package mockdata holds the demo storefront catalog the service starts from.
package mockdata

import (
	"math/rand"
	"time"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Dataset is every table of the demo catalog.
type Dataset struct {
	Variants        []domain.ProductVariant
	InventoryLevels []domain.InventoryLevel
	AlertSettings   []domain.AlertSetting
	SalesHistory    []domain.SalesHistoryEntry
	Promotions      []domain.Promotion
	Mappings        []domain.ExternalInventoryMapping
	Adjustments     []domain.StockAdjustment
}

type salesProfile struct {
	variantID  string
	base       float64
	volatility float64
}

var profiles = []salesProfile{
	{"prod_1", 8, 5},  // steady seller
	{"prod_2", 12, 4}, // consistent
	{"prod_3", 19, 6}, // high volume
	{"prod_4", 2, 3},  // slow mover
	{"prod_5", 15, 7}, // popular, promo spike
}

// Build returns the demo dataset with dates relative to today. Sales
// history is drawn from rng so a fixed seed yields a fixed catalog.
func Build(rng *rand.Rand, today time.Time) Dataset {
	promotions := Promotions(today)

	var sales []domain.SalesHistoryEntry
	for _, p := range profiles {
		sales = append(sales, GenerateSalesHistory(rng, p.variantID, p.base, p.volatility, promotionsFor(promotions, p.variantID), today)...)
	}

	return Dataset{
		Variants:        Variants(),
		InventoryLevels: InventoryLevels(),
		AlertSettings:   AlertSettings(),
		SalesHistory:    sales,
		Promotions:      promotions,
		Mappings:        Mappings(),
		Adjustments:     Adjustments(today),
	}
}

func promotionsFor(all []domain.Promotion, variantID string) []domain.Promotion {
	var out []domain.Promotion
	for _, p := range all {
		if p.VariantID == variantID {
			out = append(out, p)
		}
	}
	return out
}

func Variants() []domain.ProductVariant {
	return []domain.ProductVariant{
		{ID: "prod_1", ShopifyVariantID: "gid://shopify/ProductVariant/1001", Name: "Pro Wireless Headphones", SKU: "PWH-001-BLK", ImageURL: "https://picsum.photos/seed/headphones/400/400"},
		{ID: "prod_2", ShopifyVariantID: "gid://shopify/ProductVariant/1002", Name: "Smart Fitness Tracker", SKU: "SFT-2024-GRY", ImageURL: "https://picsum.photos/seed/tracker/400/400"},
		{ID: "prod_3", ShopifyVariantID: "gid://shopify/ProductVariant/1003", Name: "Organic Matcha Powder", SKU: "OMP-500G-JP", ImageURL: "https://picsum.photos/seed/matcha/400/400"},
		{ID: "prod_4", ShopifyVariantID: "gid://shopify/ProductVariant/1004", Name: "Minimalist Leather Wallet", SKU: "MLW-BRN-01", ImageURL: "https://picsum.photos/seed/wallet/400/400"},
		{ID: "prod_5", ShopifyVariantID: "gid://shopify/ProductVariant/1005", Name: "Insulated Water Bottle", SKU: "IWB-SS-32OZ", ImageURL: "https://picsum.photos/seed/bottle/400/400"},
	}
}

func InventoryLevels() []domain.InventoryLevel {
	const (
		east    = "East Coast FC"
		west    = "West Coast FC"
		midwest = "Midwest FC"
	)
	return []domain.InventoryLevel{
		{VariantID: "prod_1", CenterID: "fc_1", CenterName: east, Stock: 120},
		{VariantID: "prod_1", CenterID: "fc_2", CenterName: west, Stock: 85},
		{VariantID: "prod_2", CenterID: "fc_1", CenterName: east, Stock: 45},
		{VariantID: "prod_2", CenterID: "fc_3", CenterName: midwest, Stock: 30},
		{VariantID: "prod_3", CenterID: "fc_2", CenterName: west, Stock: 350},
		{VariantID: "prod_3", CenterID: "fc_3", CenterName: midwest, Stock: 200},
		// prod_4 also draws on the supplier feed, see Mappings
		{VariantID: "prod_4", CenterID: "fc_1", CenterName: east, Stock: 25},
		{VariantID: "prod_5", CenterID: "fc_1", CenterName: east, Stock: 150},
		{VariantID: "prod_5", CenterID: "fc_2", CenterName: west, Stock: 200},
		{VariantID: "prod_5", CenterID: "fc_3", CenterName: midwest, Stock: 180},
	}
}

func AlertSettings() []domain.AlertSetting {
	return []domain.AlertSetting{
		{
			VariantID: "prod_1", ReorderPointUnits: 50, ReorderQuantity: 150, LowStockThresholdDays: 14, SupplierLeadTimeDays: 10,
			AlertEmailList: []string{"owner@momentum.com", "ops@momentum.com"},
			AlertSMSList:   []string{"+15551234567"},
			AlertSlackList: []string{"#inventory-critical"},
		},
		{
			VariantID: "prod_2", ReorderPointUnits: 20, ReorderQuantity: 100, LowStockThresholdDays: 7, SupplierLeadTimeDays: 7,
			AlertEmailList: []string{"owner@momentum.com"},
			AlertSMSList:   []string{},
			AlertSlackList: []string{},
		},
		{
			VariantID: "prod_3", ReorderPointUnits: 100, ReorderQuantity: 300, LowStockThresholdDays: 21, SupplierLeadTimeDays: 14,
			AlertEmailList: []string{"purchasing@momentum.com"},
			AlertSMSList:   []string{},
			AlertSlackList: []string{"#inventory-general"},
		},
		{
			VariantID: "prod_4", ReorderPointUnits: 15, ReorderQuantity: 50, LowStockThresholdDays: 10, SupplierLeadTimeDays: 20,
			AlertEmailList: []string{"owner@momentum.com", "leathergoods@momentum.com"},
			AlertSMSList:   []string{},
			AlertSlackList: []string{},
		},
		{
			VariantID: "prod_5", ReorderPointUnits: 100, ReorderQuantity: 250, LowStockThresholdDays: 14, SupplierLeadTimeDays: 5,
			AlertEmailList: []string{"owner@momentum.com"},
			AlertSMSList:   []string{"+15551234567"},
			AlertSlackList: []string{},
		},
	}
}

// Promotions returns the summer sale on prod_5, which ran from 20 to 15 days ago.
func Promotions(today time.Time) []domain.Promotion {
	code := "SUMMER20"
	return []domain.Promotion{{
		VariantID:    "prod_5",
		Title:        "Summer Hydration Sale",
		DiscountCode: &code,
		StartDate:    today.AddDate(0, 0, -20).Format(dateLayout),
		EndDate:      today.AddDate(0, 0, -15).Format(dateLayout),
	}}
}

func Mappings() []domain.ExternalInventoryMapping {
	cost := decimal.RequireFromString("12.50")
	return []domain.ExternalInventoryMapping{{
		VariantID:      "prod_4",
		SupplierName:   "Artisan Leather Goods",
		SupplierAPIURL: "https://api.artisanleather.com/inventory",
		SupplierSKU:    "ALG-WALLET-MIN-BRN",
		CostPerItem:    &cost,
	}}
}

// Adjustments returns the manual stock corrections recorded before startup.
func Adjustments(today time.Time) []domain.StockAdjustment {
	return []domain.StockAdjustment{{
		VariantID: "prod_2",
		Change:    10,
		Reason:    "Stock Take Correction",
		User:      "Jane Doe",
		At:        today.AddDate(0, 0, -10),
	}}
}
