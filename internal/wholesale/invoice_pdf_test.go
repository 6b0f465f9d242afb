package wholesale

import (
	"bytes"
	"testing"
	"time"

	"pos-backend/internal/models"
)

func testInvoice() *models.Invoice {
	issue := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return &models.Invoice{
		Number: "INV-2026-0007",
		Customer: models.Customer{
			Code:  "CUST-202608-3F91A2",
			Name:  "Kojo Traders",
			Phone: "+233 20 111 2222",
			City:  "Kumasi",
		},
		IssueDate:    issue,
		DueDate:      issue.AddDate(0, 0, 30),
		PaymentTerms: models.TermsNet30,
		Subtotal:     400,
		TaxAmount:    60,
		TotalAmount:  460,
		AmountPaid:   200,
		Status:       models.InvoicePartial,
		Notes:        "Monthly bulk order",
		Items: []models.InvoiceItem{
			{Description: "Rice 5kg", Quantity: 20, UnitPrice: 20, TaxRate: 0.15, Total: 460},
		},
	}
}

func TestBuildInvoicePDF(t *testing.T) {
	data, err := BuildInvoicePDF(testInvoice(), models.Settings{
		StoreName:      "Test Store",
		CurrencySymbol: "GHS ",
	})
	if err != nil {
		t.Fatalf("BuildInvoicePDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
}

func TestBuildInvoicePDFOverdue(t *testing.T) {
	inv := testInvoice()
	inv.Status = models.InvoiceOverdue

	data, err := BuildInvoicePDF(inv, models.Settings{StoreName: "Test Store", CurrencySymbol: "GHS "})
	if err != nil {
		t.Fatalf("BuildInvoicePDF: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("output is empty")
	}
}

func TestTermsLabel(t *testing.T) {
	tests := []struct {
		terms models.PaymentTerms
		want  string
	}{
		{models.TermsNet30, "Net 30 days"},
		{models.TermsNet15, "Net 15 days"},
		{models.TermsNet7, "Net 7 days"},
		{models.TermsDueOnReceipt, "Due on receipt"},
		{models.TermsCustom, "Custom"},
	}
	for _, tt := range tests {
		if got := termsLabel(tt.terms); got != tt.want {
			t.Errorf("termsLabel(%q) = %q, want %q", tt.terms, got, tt.want)
		}
	}
}

func TestParsePaymentTerms(t *testing.T) {
	tests := []struct {
		raw     string
		want    models.PaymentTerms
		wantErr bool
	}{
		{"net_30", models.TermsNet30, false},
		{"net_7", models.TermsNet7, false},
		{"due_on_receipt", models.TermsDueOnReceipt, false},
		{"custom", models.TermsCustom, false},
		{"", models.TermsNet30, false},
		{"net_90", "", true},
	}
	for _, tt := range tests {
		got, err := parsePaymentTerms(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parsePaymentTerms(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("parsePaymentTerms(%q): %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePaymentTerms(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
