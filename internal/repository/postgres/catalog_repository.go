// internal/repository/postgres/catalog_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

// alertSettingRow carries the recipient arrays lib/pq knows how to scan.
type alertSettingRow struct {
	domain.AlertSetting
	Emails pq.StringArray `db:"alert_email_list"`
	SMS    pq.StringArray `db:"alert_sms_list"`
	Slack  pq.StringArray `db:"alert_slack_list"`
}

func (r *catalogRepository) ListVariants(ctx context.Context) ([]domain.ProductVariant, error) {
	query := `
		SELECT id, shopify_variant_id, sku, name, image_url
		FROM product_variants
		ORDER BY position, id
	`

	var variants []domain.ProductVariant
	if err := sqlx.SelectContext(ctx, r.db, &variants, query); err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	return variants, nil
}

func (r *catalogRepository) ListInventoryLevels(ctx context.Context) ([]domain.InventoryLevel, error) {
	query := `
		SELECT variant_id, center_id, center_name, stock
		FROM inventory_levels
		ORDER BY variant_id, center_id
	`

	var levels []domain.InventoryLevel
	if err := sqlx.SelectContext(ctx, r.db, &levels, query); err != nil {
		return nil, fmt.Errorf("failed to list inventory levels: %w", err)
	}
	return levels, nil
}

func (r *catalogRepository) ListAlertSettings(ctx context.Context) ([]domain.AlertSetting, error) {
	query := `
		SELECT
			s.variant_id,
			s.reorder_point_units,
			s.reorder_quantity,
			s.low_stock_threshold_days,
			s.supplier_lead_time_days,
			s.alert_email_list,
			s.alert_sms_list,
			s.alert_slack_list
		FROM alert_settings s
		JOIN product_variants v ON v.id = s.variant_id
		ORDER BY v.position, v.id
	`

	var rows []alertSettingRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list alert settings: %w", err)
	}

	settings := make([]domain.AlertSetting, len(rows))
	for i, row := range rows {
		s := row.AlertSetting
		s.AlertEmailList = []string(row.Emails)
		s.AlertSMSList = []string(row.SMS)
		s.AlertSlackList = []string(row.Slack)
		settings[i] = s.Clone()
	}
	return settings, nil
}

func (r *catalogRepository) ListSalesHistory(ctx context.Context) ([]domain.SalesHistoryEntry, error) {
	query := `
		SELECT variant_id, to_char(sale_date, 'YYYY-MM-DD') AS sale_date, units_sold
		FROM sales_history
		ORDER BY variant_id, sale_date
	`

	var sales []domain.SalesHistoryEntry
	if err := sqlx.SelectContext(ctx, r.db, &sales, query); err != nil {
		return nil, fmt.Errorf("failed to list sales history: %w", err)
	}
	return sales, nil
}

func (r *catalogRepository) ListPromotions(ctx context.Context) ([]domain.Promotion, error) {
	query := `
		SELECT
			variant_id,
			title,
			discount_code,
			to_char(start_date, 'YYYY-MM-DD') AS start_date,
			to_char(end_date, 'YYYY-MM-DD') AS end_date
		FROM promotions
		ORDER BY variant_id, start_date
	`

	var promotions []domain.Promotion
	if err := sqlx.SelectContext(ctx, r.db, &promotions, query); err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	return promotions, nil
}

func (r *catalogRepository) ListExternalMappings(ctx context.Context) ([]domain.ExternalInventoryMapping, error) {
	query := `
		SELECT variant_id, supplier_name, supplier_api_url, supplier_sku, cost_per_item
		FROM external_inventory_mappings
		ORDER BY variant_id
	`

	var mappings []domain.ExternalInventoryMapping
	if err := sqlx.SelectContext(ctx, r.db, &mappings, query); err != nil {
		return nil, fmt.Errorf("failed to list external mappings: %w", err)
	}
	return mappings, nil
}

func (r *catalogRepository) ListStockAdjustments(ctx context.Context) ([]domain.StockAdjustment, error) {
	query := `
		SELECT variant_id, change, reason, user_name, adjusted_at
		FROM stock_adjustments
		ORDER BY adjusted_at
	`

	var adjustments []domain.StockAdjustment
	if err := sqlx.SelectContext(ctx, r.db, &adjustments, query); err != nil {
		return nil, fmt.Errorf("failed to list stock adjustments: %w", err)
	}
	return adjustments, nil
}

func (r *catalogRepository) SaveAlertSetting(ctx context.Context, setting domain.AlertSetting) error {
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

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := ensureVariant(ctx, tx, setting.VariantID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, query,
			setting.VariantID,
			setting.ReorderPointUnits,
			setting.ReorderQuantity,
			setting.LowStockThresholdDays,
			setting.SupplierLeadTimeDays,
			pq.Array(nonNil(setting.AlertEmailList)),
			pq.Array(nonNil(setting.AlertSMSList)),
			pq.Array(nonNil(setting.AlertSlackList)),
		)
		if err != nil {
			return fmt.Errorf("failed to save alert setting: %w", err)
		}
		return nil
	})
}

func (r *catalogRepository) SaveExternalMapping(ctx context.Context, mapping domain.ExternalInventoryMapping) error {
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

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := ensureVariant(ctx, tx, mapping.VariantID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, query,
			mapping.VariantID,
			mapping.SupplierName,
			mapping.SupplierAPIURL,
			mapping.SupplierSKU,
			mapping.CostPerItem,
		)
		if err != nil {
			return fmt.Errorf("failed to save external mapping: %w", err)
		}
		return nil
	})
}

func (r *catalogRepository) DeleteExternalMapping(ctx context.Context, variantID string) error {
	query := `DELETE FROM external_inventory_mappings WHERE variant_id = $1`

	if _, err := r.db.ExecContext(ctx, query, variantID); err != nil {
		return fmt.Errorf("failed to delete external mapping: %w", err)
	}
	return nil
}

func ensureVariant(ctx context.Context, tx *sql.Tx, id string) error {
	var exists bool
	err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM product_variants WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to look up variant: %w", err)
	}
	if !exists {
		return fmt.Errorf("variant %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
