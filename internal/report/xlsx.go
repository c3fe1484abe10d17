package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tyt2025/shopifytyt/internal/domain"
)

const (
	SheetName   = "Publicación"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var columns = []struct {
	header string
	width  float64
}{
	{"Product ID", 14},
	{"SKU", 18},
	{"Name", 40},
	{"Status", 12},
	{"Failure Kind", 18},
	{"Message", 60},
	{"Shopify ID", 16},
	{"Handle", 30},
	{"Collections", 40},
	{"Recorded At", 22},
}

// WriteRunWorkbook writes the events of a publish run as a one-sheet workbook
func WriteRunWorkbook(w io.Writer, events []*domain.PublishEvent) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(SheetName, cell, col.header)
		f.SetCellStyle(SheetName, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(SheetName, colName, colName, col.width)
	}

	for i, event := range events {
		row := i + 2
		for j, value := range eventRow(event) {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func eventRow(e *domain.PublishEvent) []interface{} {
	o := e.Outcome
	if o == nil {
		o = &domain.PublishOutcome{ProductID: e.ProductID, SKU: e.SKU}
	}

	var kind, message string
	if o.Error != nil {
		kind = string(o.Error.Kind)
		message = o.Error.Message
		if o.Error.Hint != "" {
			message += " (" + o.Error.Hint + ")"
		}
	} else if len(o.Warnings) > 0 {
		message = strings.Join(o.Warnings, "; ")
	}

	var shopifyID interface{}
	if o.ShopifyID != 0 {
		shopifyID = o.ShopifyID
	}

	return []interface{}{
		e.ProductID,
		e.SKU,
		o.ProductName,
		string(e.Status),
		kind,
		message,
		shopifyID,
		o.ShopifyHandle,
		strings.Join(o.CollectionsAdded, ", "),
		e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
