package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/tyt2025/shopifytyt/internal/domain"
)

func TestWriteRunWorkbook(t *testing.T) {
	runID := uuid.New()
	published := domain.NewPublishEvent(runID, &domain.PublishOutcome{
		ProductID:        "1",
		ProductName:      "Mouse X",
		SKU:              "SKU1",
		Success:          true,
		ShopifyID:        1001,
		ShopifyHandle:    "mouse-x",
		CollectionsAdded: []string{"Accesorios", "Linea Gamer"},
	})
	failed := domain.NewPublishEvent(runID, &domain.PublishOutcome{
		ProductID: "2",
		SKU:       "SKU2",
		Error: &domain.OutcomeError{
			Kind:    domain.FailureDuplicate,
			Message: "product already exists",
			Hint:    "set force",
		},
	})
	failed.CreatedAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := WriteRunWorkbook(&buf, []*domain.PublishEvent{published, failed}); err != nil {
		t.Fatalf("WriteRunWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "Product ID" || rows[0][len(columns)-1] != "Recorded At" {
		t.Errorf("header = %v", rows[0])
	}

	if rows[1][3] != "published" || rows[1][6] != "1001" || rows[1][8] != "Accesorios, Linea Gamer" {
		t.Errorf("published row = %v", rows[1])
	}
	if rows[2][3] != "failed" || rows[2][4] != "duplicate" || rows[2][5] != "product already exists (set force)" {
		t.Errorf("failed row = %v", rows[2])
	}
	if rows[2][9] != "2024-05-01 10:00:00" {
		t.Errorf("recorded at = %q", rows[2][9])
	}
}

func TestWriteRunWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRunWorkbook(&buf, nil); err != nil {
		t.Fatalf("WriteRunWorkbook: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows(SheetName)
	if len(rows) != 1 {
		t.Errorf("rows = %d, want only the header", len(rows))
	}
}
