// Package export renders inventory reports as XLSX workbooks.
package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	ProductsSheet       = "Products"
	PurchaseOrdersSheet = "Purchase Orders"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// shown instead of a day count for products that never sell out
	neverLabel = "Never"
)

var (
	productHeader = []interface{}{"SKU", "Name", "Total Stock", "Sales Velocity", "Days Until Stockout", "Status", "Reorder Point", "Supplier"}
	orderHeader   = []interface{}{"PO ID", "Product", "SKU", "Supplier", "Quantity", "Status", "Estimated Cost"}
)

// FileName names the report for the given day, e.g. inventory-2026-10-19.xlsx.
func FileName(now time.Time) string {
	return fmt.Sprintf("inventory-%s.xlsx", now.Format("2006-01-02"))
}

// Workbook builds a report with one sheet of products and one of purchase
// orders. The caller owns the returned file and must close it.
func Workbook(products []domain.ProcessedProduct, orders []domain.PurchaseOrder) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", ProductsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename products sheet: %w", err)
	}
	if _, err := f.NewSheet(PurchaseOrdersSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create purchase orders sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	productRows := make([][]interface{}, 0, len(products))
	for _, p := range products {
		productRows = append(productRows, productRow(p))
	}
	if err := writeSheet(f, ProductsSheet, productHeader, productRows, bold); err != nil {
		f.Close()
		return nil, err
	}

	orderRows := make([][]interface{}, 0, len(orders))
	for _, po := range orders {
		orderRows = append(orderRows, []interface{}{
			po.ID, po.ProductName, po.SKU, po.SupplierName, po.Quantity, string(po.Status), po.EstimatedCost.InexactFloat64(),
		})
	}
	if err := writeSheet(f, PurchaseOrdersSheet, orderHeader, orderRows, bold); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// Write renders the workbook straight to w.
func Write(w io.Writer, products []domain.ProcessedProduct, orders []domain.PurchaseOrder) error {
	f, err := Workbook(products, orders)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Bytes renders the workbook into memory, for uploads.
func Bytes(products []domain.ProcessedProduct, orders []domain.PurchaseOrder) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, products, orders); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func productRow(p domain.ProcessedProduct) []interface{} {
	var days interface{} = neverLabel
	if d, ok := p.StockoutDays(); ok {
		days = d
	}
	supplierName := ""
	if p.ExternalInventoryMapping != nil {
		supplierName = p.ExternalInventoryMapping.SupplierName
	}
	return []interface{}{
		p.SKU, p.Name, p.TotalStock, p.SalesVelocity, days, string(p.Status), p.AlertSetting.ReorderPointUnits, supplierName,
	}
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
