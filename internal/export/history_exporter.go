package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/tkhalil/erpflow/internal/domain/entity"
)

// HistoryExporter renders a document's approval history as an XLSX
// workbook for audit hand-off.
type HistoryExporter struct {
	logger *zap.Logger
}

// NewHistoryExporter creates a new history exporter
func NewHistoryExporter(logger *zap.Logger) *HistoryExporter {
	return &HistoryExporter{logger: logger}
}

var historyHeaders = []string{
	"Step", "Status", "Requester", "Assigned To", "Referred To",
	"Decided By", "Comment", "Created At", "Decided At",
}

// Export builds the workbook and returns its bytes
func (e *HistoryExporter) Export(doc *entity.Document, txs []*entity.ApprovalTransaction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Approval History"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	e.setCell(f, sheetName, "A1", "Reference")
	e.setCell(f, sheetName, "B1", doc.Reference)
	e.setCell(f, sheetName, "A2", "Type")
	e.setCell(f, sheetName, "B2", doc.Type)
	e.setCell(f, sheetName, "A3", "Status")
	e.setCell(f, sheetName, "B3", doc.Status)
	e.setCell(f, sheetName, "A4", "Amount")
	e.setCell(f, sheetName, "B4", doc.Amount)

	headerRow := 6
	for i, h := range historyHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		e.setCell(f, sheetName, cell, h)
	}

	for i, tx := range txs {
		row := headerRow + 1 + i
		values := []interface{}{
			tx.StepOrder,
			tx.Status,
			tx.RequesterID,
			tx.AssignedTo,
			formatOptionalID(tx.ReferredTo),
			formatOptionalID(tx.DecidedBy),
			tx.Comment,
			tx.CreatedAt.Format("2006-01-02 15:04:05"),
			"",
		}
		if tx.DecidedAt != nil {
			values[8] = tx.DecidedAt.Format("2006-01-02 15:04:05")
		}

		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell: %w", err)
			}
			e.setCell(f, sheetName, cell, v)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "I", 20); err != nil {
		e.logger.Warn("Failed to set column widths", zap.Error(err))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Approval history exported",
		zap.Int64("document_id", doc.ID),
		zap.Int("transactions", len(txs)))

	return buf.Bytes(), nil
}

func (e *HistoryExporter) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		e.logger.Warn("Failed to set cell",
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func formatOptionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return fmt.Sprintf("%d", *id)
}
