// Package export renders report rows into spreadsheet documents.
package export

import (
	"bytes"
	"fmt"

	stockapp "github.com/mfgerp/backend/internal/application/stock"
	"github.com/xuri/excelize/v2"
)

const ledgerSheet = "Ledger"

var ledgerHeadings = []interface{}{
	"ID", "Product ID", "Type", "Quantity", "Unit Cost", "Total Value",
	"Reference", "Reference ID", "Notes", "Transaction Date",
}

var _ stockapp.LedgerExporter = (*ExcelLedgerExporter)(nil)

// ExcelLedgerExporter writes ledger rows to an xlsx workbook with one row per entry
type ExcelLedgerExporter struct{}

// NewExcelLedgerExporter creates an ExcelLedgerExporter
func NewExcelLedgerExporter() *ExcelLedgerExporter {
	return &ExcelLedgerExporter{}
}

// ContentType returns the xlsx MIME type
func (e *ExcelLedgerExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension returns the file extension without a dot
func (e *ExcelLedgerExporter) Extension() string {
	return "xlsx"
}

// Render builds the workbook
func (e *ExcelLedgerExporter) Render(rows []stockapp.LedgerEntryResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(ledgerSheet, "A1", &ledgerHeadings); err != nil {
		return nil, err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		var refID interface{}
		if r.ReferenceID != nil {
			refID = *r.ReferenceID
		}
		values := []interface{}{
			r.ID,
			r.ProductID,
			r.TransactionType,
			r.Quantity,
			r.UnitCost.InexactFloat64(),
			r.TotalValue.InexactFloat64(),
			r.Reference,
			refID,
			r.Notes,
			r.TransactionDate.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(ledgerSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(ledgerSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
