package catalog

import (
	"testing"

	"pos-backend/internal/models"
)

func TestBuildCatalogWorkbook(t *testing.T) {
	barcode := "6001234567890"
	products := []models.Product{
		{
			SKU:               "RICE-5",
			Barcode:           &barcode,
			Name:              "Rice 5kg",
			Category:          models.Category{Name: "Grains"},
			CostPrice:         18,
			SellPrice:         25,
			WholesalePrice:    20,
			TaxRate:           0.15,
			Stock:             40,
			LowStockThreshold: 10,
			Unit:              "piece",
			IsActive:          true,
		},
		{
			SKU:       "OIL-1L",
			Name:      "Cooking Oil 1L",
			Category:  models.Category{Name: "Oils"},
			CostPrice: 10,
			SellPrice: 14,
			Unit:      "piece",
			IsActive:  true,
		},
	}

	f, err := BuildCatalogWorkbook(products)
	if err != nil {
		t.Fatalf("BuildCatalogWorkbook: %v", err)
	}
	defer f.Close()

	header, err := f.GetCellValue("Products", "A1")
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if header != "SKU" {
		t.Errorf("A1 = %q, want SKU", header)
	}

	sku, _ := f.GetCellValue("Products", "A2")
	if sku != "RICE-5" {
		t.Errorf("A2 = %q, want RICE-5", sku)
	}
	gotBarcode, _ := f.GetCellValue("Products", "B2")
	if gotBarcode != barcode {
		t.Errorf("B2 = %q, want %q", gotBarcode, barcode)
	}

	// nil barcode renders as an empty cell
	emptyBarcode, _ := f.GetCellValue("Products", "B3")
	if emptyBarcode != "" {
		t.Errorf("B3 = %q, want empty", emptyBarcode)
	}

	if _, err := f.WriteToBuffer(); err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
}

func TestCellHelper(t *testing.T) {
	row := []string{"a", "b"}
	if got := cell(row, 0); got != "a" {
		t.Errorf("cell(row, 0) = %q, want a", got)
	}
	if got := cell(row, 5); got != "" {
		t.Errorf("out-of-range cell = %q, want empty", got)
	}
}

func TestParseFloatCell(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12.5", 12.5, false},
		{" 7 ", 7, false},
		{"1,250.75", 1250.75, false},
		{"", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseFloatCell(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseFloatCell(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseFloatCell(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseFloatCell(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
