package models

import (
	"testing"
	"time"
)

func TestInvoiceNumber(t *testing.T) {
	tests := []struct {
		year int
		seq  int
		want string
	}{
		{2026, 1, "INV-2026-0001"},
		{2026, 42, "INV-2026-0042"},
		{2027, 9999, "INV-2027-9999"},
		{2027, 10000, "INV-2027-10000"},
	}
	for _, tt := range tests {
		if got := InvoiceNumber(tt.year, tt.seq); got != tt.want {
			t.Errorf("InvoiceNumber(%d, %d) = %q, want %q", tt.year, tt.seq, got, tt.want)
		}
	}
}

func TestDueDateFor(t *testing.T) {
	issue := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		terms PaymentTerms
		want  time.Time
	}{
		{TermsNet30, issue.AddDate(0, 0, 30)},
		{TermsNet15, issue.AddDate(0, 0, 15)},
		{TermsNet7, issue.AddDate(0, 0, 7)},
		{TermsDueOnReceipt, issue},
		{TermsCustom, issue},
	}
	for _, tt := range tests {
		t.Run(string(tt.terms), func(t *testing.T) {
			if got := DueDateFor(issue, tt.terms); !got.Equal(tt.want) {
				t.Errorf("DueDateFor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRefreshStatus(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 10)
	past := now.AddDate(0, 0, -10)

	tests := []struct {
		name    string
		invoice Invoice
		want    InvoiceStatus
	}{
		{"unpaid", Invoice{TotalAmount: 100, DueDate: future}, InvoiceUnpaid},
		{"partial", Invoice{TotalAmount: 100, AmountPaid: 40, DueDate: future}, InvoicePartial},
		{"paid", Invoice{TotalAmount: 100, AmountPaid: 100, DueDate: future}, InvoicePaid},
		{"overpaid still paid", Invoice{TotalAmount: 100, AmountPaid: 120, DueDate: future}, InvoicePaid},
		{"unpaid past due", Invoice{TotalAmount: 100, DueDate: past}, InvoiceOverdue},
		{"partial past due", Invoice{TotalAmount: 100, AmountPaid: 40, DueDate: past}, InvoiceOverdue},
		{"paid past due stays paid", Invoice{TotalAmount: 100, AmountPaid: 100, DueDate: past}, InvoicePaid},
		{"cancelled is sticky", Invoice{TotalAmount: 100, AmountPaid: 100, Status: InvoiceCancelled, DueDate: future}, InvoiceCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.invoice.RefreshStatus(now)
			if tt.invoice.Status != tt.want {
				t.Errorf("status = %v, want %v", tt.invoice.Status, tt.want)
			}
		})
	}
}

func TestBalanceDue(t *testing.T) {
	inv := Invoice{TotalAmount: 250, AmountPaid: 100}
	if got := inv.BalanceDue(); got != 150 {
		t.Errorf("BalanceDue = %v, want 150", got)
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)

	overdue := Invoice{DueDate: past, Status: InvoicePartial}
	if !overdue.IsOverdue(now) {
		t.Error("partial invoice past due date should be overdue")
	}

	paid := Invoice{DueDate: past, Status: InvoicePaid}
	if paid.IsOverdue(now) {
		t.Error("paid invoice is never overdue")
	}

	cancelled := Invoice{DueDate: past, Status: InvoiceCancelled}
	if cancelled.IsOverdue(now) {
		t.Error("cancelled invoice is never overdue")
	}
}

func TestInvoiceItemTotals(t *testing.T) {
	item := InvoiceItem{Quantity: 4, UnitPrice: 25, Discount: 10, TaxRate: 0.15}

	if got := item.Subtotal(); !almostEqual(got, 90) {
		t.Errorf("Subtotal = %v, want 90", got)
	}
	if got := item.TaxAmount(); !almostEqual(got, 13.5) {
		t.Errorf("TaxAmount = %v, want 13.5", got)
	}
	item.ComputeTotal()
	if !almostEqual(item.Total, 103.5) {
		t.Errorf("Total = %v, want 103.5", item.Total)
	}
}
