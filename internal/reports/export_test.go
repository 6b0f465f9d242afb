package reports

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"pos-backend/internal/models"
)

func exportSales() []models.Sale {
	created := time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC)
	return []models.Sale{
		{
			Reference:     "SALE-20260830091500-AA11BB22",
			Cashier:       models.User{Username: "ama"},
			Customer:      &models.Customer{Name: "Kojo Traders"},
			Status:        models.SaleCompleted,
			Subtotal:      100,
			Tax:           15,
			Total:         115,
			AmountPaid:    115,
			PaymentMethod: "cash",
			PaymentStatus: models.PaymentStatusPaid,
			CreatedAt:     created,
			Items: []models.SaleItem{
				{Product: models.Product{SKU: "RICE-5", Name: "Rice 5kg"}, Quantity: 4, UnitPrice: 25, LineTotal: 100},
			},
		},
		{
			Reference:     "SALE-20260830101500-CC33DD44",
			Cashier:       models.User{Username: "kofi"},
			Status:        models.SaleCompleted,
			Subtotal:      40,
			Tax:           6,
			Total:         46,
			AmountPaid:    46,
			PaymentMethod: "card",
			PaymentStatus: models.PaymentStatusPaid,
			CreatedAt:     created.Add(time.Hour),
		},
	}
}

func TestBuildSalesCSV(t *testing.T) {
	data, err := BuildSalesCSV(exportSales())
	if err != nil {
		t.Fatalf("BuildSalesCSV: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2 sales", len(records))
	}
	if records[0][0] != "Reference" {
		t.Errorf("header[0] = %q, want Reference", records[0][0])
	}
	if records[1][0] != "SALE-20260830091500-AA11BB22" {
		t.Errorf("row 1 reference = %q", records[1][0])
	}
	if records[1][3] != "Kojo Traders" {
		t.Errorf("row 1 customer = %q, want Kojo Traders", records[1][3])
	}
	if records[2][3] != "" {
		t.Errorf("walk-in sale customer = %q, want empty", records[2][3])
	}
	if records[1][8] != "115.00" {
		t.Errorf("row 1 total = %q, want 115.00", records[1][8])
	}
}

func TestBuildSalesCSVEmpty(t *testing.T) {
	data, err := BuildSalesCSV(nil)
	if err != nil {
		t.Fatalf("BuildSalesCSV: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("empty export should still carry the header, got %d rows", len(records))
	}
}

func TestBuildSalesWorkbook(t *testing.T) {
	f, err := BuildSalesWorkbook(exportSales())
	if err != nil {
		t.Fatalf("BuildSalesWorkbook: %v", err)
	}
	defer f.Close()

	ref, err := f.GetCellValue("Sales", "A2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if ref != "SALE-20260830091500-AA11BB22" {
		t.Errorf("A2 = %q, want the first sale reference", ref)
	}

	sku, err := f.GetCellValue("Line Items", "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if sku != "RICE-5" {
		t.Errorf("line item SKU = %q, want RICE-5", sku)
	}

	if _, err := f.WriteToBuffer(); err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
}
