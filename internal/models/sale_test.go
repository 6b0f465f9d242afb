package models

import (
	"regexp"
	"testing"
	"time"
)

func TestNewSaleReference(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 30, 22, 0, time.UTC)
	pattern := regexp.MustCompile(`^SALE-20260831143022-[0-9A-F]{8}$`)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		ref := NewSaleReference(now)
		if !pattern.MatchString(ref) {
			t.Fatalf("reference %q does not match expected format", ref)
		}
		if seen[ref] {
			t.Fatalf("duplicate reference %q", ref)
		}
		seen[ref] = true
	}
}

func TestComputeLineTotal(t *testing.T) {
	tests := []struct {
		name string
		item SaleItem
		want float64
	}{
		{"plain", SaleItem{Quantity: 3, UnitPrice: 5}, 15},
		{"with discount", SaleItem{Quantity: 3, UnitPrice: 5, Discount: 2}, 13},
		{"discount exceeds line", SaleItem{Quantity: 1, UnitPrice: 5, Discount: 10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.item.ComputeLineTotal()
			if !almostEqual(tt.item.LineTotal, tt.want) {
				t.Errorf("LineTotal = %v, want %v", tt.item.LineTotal, tt.want)
			}
		})
	}
}

func TestSaleItemTaxAmount(t *testing.T) {
	item := SaleItem{Quantity: 2, UnitPrice: 50, TaxRate: 0.15}
	item.ComputeLineTotal()
	if got := item.TaxAmount(); !almostEqual(got, 15) {
		t.Errorf("TaxAmount = %v, want 15", got)
	}
}

func TestComputeTotals(t *testing.T) {
	sale := Sale{
		Items: []SaleItem{
			{Quantity: 2, UnitPrice: 10, TaxRate: 0.15},
			{Quantity: 1, UnitPrice: 30, TaxRate: 0.15, Discount: 5},
		},
	}
	for i := range sale.Items {
		sale.Items[i].ComputeLineTotal()
	}

	sale.ComputeTotals()

	// lines: 20 and 25, tax 3 + 3.75
	if !almostEqual(sale.Subtotal, 45) {
		t.Errorf("Subtotal = %v, want 45", sale.Subtotal)
	}
	if !almostEqual(sale.Tax, 6.75) {
		t.Errorf("Tax = %v, want 6.75", sale.Tax)
	}
	if !almostEqual(sale.Total, 51.75) {
		t.Errorf("Total = %v, want 51.75", sale.Total)
	}
}

func TestComputeTotalsWithDiscount(t *testing.T) {
	sale := Sale{
		Discount: 10,
		Items:    []SaleItem{{Quantity: 1, UnitPrice: 40, TaxRate: 0}},
	}
	sale.Items[0].ComputeLineTotal()
	sale.ComputeTotals()
	if !almostEqual(sale.Total, 30) {
		t.Errorf("Total = %v, want 30", sale.Total)
	}
}

func TestComputeTotalsFloorsAtZero(t *testing.T) {
	sale := Sale{
		Discount: 100,
		Items:    []SaleItem{{Quantity: 1, UnitPrice: 20, TaxRate: 0}},
	}
	sale.Items[0].ComputeLineTotal()
	sale.ComputeTotals()
	if sale.Total != 0 {
		t.Errorf("Total = %v, want 0 when discount exceeds subtotal", sale.Total)
	}
}
