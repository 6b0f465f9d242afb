package models

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPriceFor(t *testing.T) {
	product := Product{
		SellPrice:       10,
		WholesalePrice:  8,
		MinWholesaleQty: 12,
	}

	wholesaleCustomer := &Customer{Type: CustomerWholesale}
	discounted := &Customer{Type: CustomerRetail, DiscountPercent: 10}
	wholesaleDiscounted := &Customer{Type: CustomerWholesale, DiscountPercent: 5}

	tests := []struct {
		name      string
		customer  *Customer
		quantity  int
		wantPrice float64
		wantType  string
	}{
		{"walk-in retail", nil, 1, 10, "retail"},
		{"retail customer", &Customer{Type: CustomerRetail}, 100, 10, "retail"},
		{"wholesale below minimum", wholesaleCustomer, 11, 10, "retail"},
		{"wholesale at minimum", wholesaleCustomer, 12, 8, "wholesale"},
		{"wholesale above minimum", wholesaleCustomer, 50, 8, "wholesale"},
		{"retail with discount", discounted, 1, 9, "retail discounted"},
		{"wholesale with discount", wholesaleDiscounted, 20, 7.6, "wholesale discounted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, priceType := product.PriceFor(tt.customer, tt.quantity)
			if !almostEqual(price, tt.wantPrice) {
				t.Errorf("price = %v, want %v", price, tt.wantPrice)
			}
			if priceType != tt.wantType {
				t.Errorf("priceType = %q, want %q", priceType, tt.wantType)
			}
		})
	}
}

func TestPriceForNoWholesalePrice(t *testing.T) {
	product := Product{SellPrice: 10, WholesalePrice: 0, MinWholesaleQty: 1}
	price, priceType := product.PriceFor(&Customer{Type: CustomerWholesale}, 100)
	if price != 10 || priceType != "retail" {
		t.Errorf("got (%v, %q), want (10, retail)", price, priceType)
	}
}

func TestCanSell(t *testing.T) {
	tests := []struct {
		name     string
		product  Product
		quantity int
		want     bool
	}{
		{"enough stock", Product{IsActive: true, TrackStock: true, Stock: 5}, 5, true},
		{"not enough stock", Product{IsActive: true, TrackStock: true, Stock: 5}, 6, false},
		{"inactive", Product{IsActive: false, TrackStock: true, Stock: 100}, 1, false},
		{"untracked ignores stock", Product{IsActive: true, TrackStock: false, Stock: 0}, 50, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.product.CanSell(tt.quantity); got != tt.want {
				t.Errorf("CanSell(%d) = %v, want %v", tt.quantity, got, tt.want)
			}
		})
	}
}

func TestIsLowStock(t *testing.T) {
	p := Product{TrackStock: true, Stock: 3, LowStockThreshold: 5}
	if !p.IsLowStock() {
		t.Error("stock 3 with threshold 5 should be low")
	}
	p.Stock = 6
	if p.IsLowStock() {
		t.Error("stock 6 with threshold 5 should not be low")
	}
	p.TrackStock = false
	p.Stock = 0
	if p.IsLowStock() {
		t.Error("untracked products are never low")
	}
}

func TestProfitMargin(t *testing.T) {
	p := Product{CostPrice: 8, SellPrice: 10}
	if got := p.ProfitMargin(); !almostEqual(got, 25) {
		t.Errorf("ProfitMargin = %v, want 25", got)
	}
	free := Product{CostPrice: 0, SellPrice: 10}
	if got := free.ProfitMargin(); got != 0 {
		t.Errorf("zero cost margin = %v, want 0", got)
	}
}
