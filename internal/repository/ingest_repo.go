package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/andresuchdata/stockpilot/internal/mockdata"
	"github.com/lib/pq"
)

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// IngestRepository upserts catalog rows, used to load a dataset into postgres.
type IngestRepository struct {
	db Execer
}

func NewIngestRepository(db Execer) *IngestRepository {
	return &IngestRepository{db: db}
}

// LoadDataset writes every table of the dataset. Re-running it refreshes the rows in place.
func (r *IngestRepository) LoadDataset(ctx context.Context, ds mockdata.Dataset) error {
	for i, v := range ds.Variants {
		if err := r.UpsertVariant(ctx, v, i); err != nil {
			return err
		}
	}
	for _, level := range ds.InventoryLevels {
		if err := r.UpsertInventoryLevel(ctx, level); err != nil {
			return err
		}
	}
	for _, s := range ds.AlertSettings {
		if err := r.UpsertAlertSetting(ctx, s); err != nil {
			return err
		}
	}
	for _, entry := range ds.SalesHistory {
		if err := r.UpsertSale(ctx, entry); err != nil {
			return err
		}
	}
	for _, p := range ds.Promotions {
		if err := r.UpsertPromotion(ctx, p); err != nil {
			return err
		}
	}
	for _, m := range ds.Mappings {
		if err := r.UpsertExternalMapping(ctx, m); err != nil {
			return err
		}
	}
	for _, adj := range ds.Adjustments {
		if err := r.InsertStockAdjustment(ctx, adj); err != nil {
			return err
		}
	}
	return nil
}

func (r *IngestRepository) UpsertVariant(ctx context.Context, v domain.ProductVariant, position int) error {
	query := `
		INSERT INTO product_variants (id, shopify_variant_id, sku, name, image_url, position, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			shopify_variant_id = EXCLUDED.shopify_variant_id,
			sku = EXCLUDED.sku,
			name = EXCLUDED.name,
			image_url = EXCLUDED.image_url,
			position = EXCLUDED.position,
			updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, v.ID, v.ShopifyVariantID, v.SKU, v.Name, v.ImageURL, position); err != nil {
		return fmt.Errorf("failed to upsert variant %s: %w", v.ID, err)
	}
	return nil
}

func (r *IngestRepository) UpsertInventoryLevel(ctx context.Context, level domain.InventoryLevel) error {
	query := `
		INSERT INTO inventory_levels (variant_id, center_id, center_name, stock, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (variant_id, center_id)
		DO UPDATE SET center_name = EXCLUDED.center_name, stock = EXCLUDED.stock, updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, level.VariantID, level.CenterID, level.CenterName, level.Stock); err != nil {
		return fmt.Errorf("failed to upsert inventory level: %w", err)
	}
	return nil
}

func (r *IngestRepository) UpsertAlertSetting(ctx context.Context, s domain.AlertSetting) error {
	query := `
		INSERT INTO alert_settings (
			variant_id, reorder_point_units, reorder_quantity,
			low_stock_threshold_days, supplier_lead_time_days,
			alert_email_list, alert_sms_list, alert_slack_list, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (variant_id)
		DO UPDATE SET
			reorder_point_units = EXCLUDED.reorder_point_units,
			reorder_quantity = EXCLUDED.reorder_quantity,
			low_stock_threshold_days = EXCLUDED.low_stock_threshold_days,
			supplier_lead_time_days = EXCLUDED.supplier_lead_time_days,
			alert_email_list = EXCLUDED.alert_email_list,
			alert_sms_list = EXCLUDED.alert_sms_list,
			alert_slack_list = EXCLUDED.alert_slack_list,
			updated_at = NOW()
	`
	lists := s.Clone()
	_, err := r.db.ExecContext(ctx, query,
		s.VariantID,
		s.ReorderPointUnits,
		s.ReorderQuantity,
		s.LowStockThresholdDays,
		s.SupplierLeadTimeDays,
		pq.Array(lists.AlertEmailList),
		pq.Array(lists.AlertSMSList),
		pq.Array(lists.AlertSlackList),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert alert setting %s: %w", s.VariantID, err)
	}
	return nil
}

func (r *IngestRepository) UpsertSale(ctx context.Context, entry domain.SalesHistoryEntry) error {
	query := `
		INSERT INTO sales_history (variant_id, sale_date, units_sold)
		VALUES ($1, $2::date, $3)
		ON CONFLICT (variant_id, sale_date) DO UPDATE SET units_sold = EXCLUDED.units_sold
	`
	if _, err := r.db.ExecContext(ctx, query, entry.VariantID, entry.Date, entry.UnitsSold); err != nil {
		return fmt.Errorf("failed to upsert sale %s/%s: %w", entry.VariantID, entry.Date, err)
	}
	return nil
}

func (r *IngestRepository) UpsertPromotion(ctx context.Context, p domain.Promotion) error {
	query := `
		INSERT INTO promotions (variant_id, title, discount_code, start_date, end_date)
		VALUES ($1, $2, $3, $4::date, $5::date)
		ON CONFLICT (variant_id, title, start_date)
		DO UPDATE SET discount_code = EXCLUDED.discount_code, end_date = EXCLUDED.end_date
	`
	if _, err := r.db.ExecContext(ctx, query, p.VariantID, p.Title, p.DiscountCode, p.StartDate, p.EndDate); err != nil {
		return fmt.Errorf("failed to upsert promotion %q: %w", p.Title, err)
	}
	return nil
}

func (r *IngestRepository) UpsertExternalMapping(ctx context.Context, m domain.ExternalInventoryMapping) error {
	query := `
		INSERT INTO external_inventory_mappings (
			variant_id, supplier_name, supplier_api_url, supplier_sku, cost_per_item, updated_at
		) VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (variant_id)
		DO UPDATE SET
			supplier_name = EXCLUDED.supplier_name,
			supplier_api_url = EXCLUDED.supplier_api_url,
			supplier_sku = EXCLUDED.supplier_sku,
			cost_per_item = EXCLUDED.cost_per_item,
			updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, m.VariantID, m.SupplierName, m.SupplierAPIURL, m.SupplierSKU, m.CostPerItem); err != nil {
		return fmt.Errorf("failed to upsert external mapping %s: %w", m.VariantID, err)
	}
	return nil
}

func (r *IngestRepository) InsertStockAdjustment(ctx context.Context, adj domain.StockAdjustment) error {
	query := `
		INSERT INTO stock_adjustments (variant_id, change, reason, user_name, adjusted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (variant_id, adjusted_at) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, adj.VariantID, adj.Change, adj.Reason, adj.User, adj.At); err != nil {
		return fmt.Errorf("failed to insert stock adjustment for %s: %w", adj.VariantID, err)
	}
	return nil
}
