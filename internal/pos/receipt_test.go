package pos

import (
	"bytes"
	"testing"
	"time"

	"pos-backend/internal/models"
)

func testSale() *models.Sale {
	completed := time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)
	tendered := 60.0
	change := 2.5
	return &models.Sale{
		Reference:     "SALE-20260831143000-AB12CD34",
		Cashier:       models.User{Username: "ama"},
		Subtotal:      50,
		Tax:           7.5,
		Total:         57.5,
		AmountPaid:    57.5,
		PaymentStatus: models.PaymentStatusPaid,
		Status:        models.SaleCompleted,
		CreatedAt:     completed,
		Items: []models.SaleItem{
			{
				Product:   models.Product{Name: "Rice 5kg", SKU: "RICE-5"},
				Quantity:  2,
				UnitPrice: 25,
				LineTotal: 50,
				TaxRate:   0.15,
			},
		},
		Payments: []models.Payment{
			{
				Method:         models.PayCash,
				Amount:         57.5,
				AmountTendered: &tendered,
				ChangeAmount:   &change,
			},
		},
	}
}

func testSettings() models.Settings {
	return models.Settings{
		StoreName:      "Test Store",
		StoreAddress:   "12 Market St, Accra",
		StorePhone:     "+233 20 000 0000",
		CurrencySymbol: "GHS ",
		ReceiptFooter:  "No refunds after 7 days",
	}
}

func TestBuildReceipt(t *testing.T) {
	data, err := BuildReceipt(testSale(), testSettings())
	if err != nil {
		t.Fatalf("BuildReceipt: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("receipt is empty")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("receipt does not start with a PDF header, got %q", data[:8])
	}
}

func TestBuildReceiptPartialPayment(t *testing.T) {
	sale := testSale()
	sale.Customer = &models.Customer{Name: "Kojo Traders", Type: models.CustomerWholesale}
	sale.AmountPaid = 30
	sale.PaymentStatus = models.PaymentStatusPartial
	sale.Payments = []models.Payment{{Method: models.PayCash, Amount: 30}}

	data, err := BuildReceipt(sale, testSettings())
	if err != nil {
		t.Fatalf("BuildReceipt: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("receipt does not start with a PDF header")
	}
}

func TestResolvePaymentMethod(t *testing.T) {
	tests := []struct {
		name     string
		payments []CreateSalePayment
		want     string
	}{
		{"empty defaults to cash", nil, "cash"},
		{"single", []CreateSalePayment{{Method: "card"}}, "card"},
		{"same method twice", []CreateSalePayment{{Method: "cash"}, {Method: "cash"}}, "cash"},
		{"mixed", []CreateSalePayment{{Method: "cash"}, {Method: "card"}}, "mixed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolvePaymentMethod(tt.payments); got != tt.want {
				t.Errorf("resolvePaymentMethod = %q, want %q", got, tt.want)
			}
		})
	}
}
