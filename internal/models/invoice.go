package models

import (
	"fmt"
	"time"
)

type InvoiceStatus string

const (
	InvoiceUnpaid    InvoiceStatus = "unpaid"
	InvoicePartial   InvoiceStatus = "partial"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

type PaymentTerms string

const (
	TermsNet30        PaymentTerms = "net_30"
	TermsNet15        PaymentTerms = "net_15"
	TermsNet7         PaymentTerms = "net_7"
	TermsDueOnReceipt PaymentTerms = "due_on_receipt"
	TermsCustom       PaymentTerms = "custom"
)

// Invoice: billing document for wholesale/credit sales.
type Invoice struct {
	ID     uint   `gorm:"primaryKey"`
	Number string `gorm:"size:50;uniqueIndex;not null"` // INV-2026-0042

	CustomerID uint `gorm:"index;not null"`
	Customer   Customer
	SaleID     *uint `gorm:"uniqueIndex"` // at most one invoice per sale
	Sale       *Sale

	IssueDate    time.Time    `gorm:"not null"`
	DueDate      time.Time    `gorm:"not null"`
	PaymentTerms PaymentTerms `gorm:"size:20;not null;default:net_30"`

	Subtotal       float64 `gorm:"not null"`
	TaxAmount      float64 `gorm:"not null;default:0"`
	DiscountAmount float64 `gorm:"not null;default:0"`
	TotalAmount    float64 `gorm:"not null"`
	AmountPaid     float64 `gorm:"not null;default:0"`

	Status InvoiceStatus `gorm:"size:20;index;not null;default:unpaid"`
	Notes  string        `gorm:"type:text"`

	Items []InvoiceItem

	CreatedByID uint `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvoiceNumber formats the per-year sequence: INV-2026-0042.
func InvoiceNumber(year int, seq int) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}

// DueDateFor derives the due date from the payment terms. Custom terms keep
// the issue date; the caller overrides with an explicit date.
func DueDateFor(issue time.Time, terms PaymentTerms) time.Time {
	days := map[PaymentTerms]int{
		TermsNet30:        30,
		TermsNet15:        15,
		TermsNet7:         7,
		TermsDueOnReceipt: 0,
		TermsCustom:       0,
	}[terms]
	return issue.AddDate(0, 0, days)
}

// RefreshStatus recomputes the payment status from amounts and due date.
// Cancelled invoices stay cancelled.
func (inv *Invoice) RefreshStatus(now time.Time) {
	if inv.Status == InvoiceCancelled {
		return
	}
	switch {
	case inv.AmountPaid >= inv.TotalAmount && inv.TotalAmount > 0:
		inv.Status = InvoicePaid
	case inv.AmountPaid > 0:
		inv.Status = InvoicePartial
	default:
		inv.Status = InvoiceUnpaid
	}
	if inv.Status != InvoicePaid && now.After(inv.DueDate) {
		inv.Status = InvoiceOverdue
	}
}

func (inv *Invoice) BalanceDue() float64 {
	return inv.TotalAmount - inv.AmountPaid
}

func (inv *Invoice) IsOverdue(now time.Time) bool {
	return now.After(inv.DueDate) && inv.Status != InvoicePaid && inv.Status != InvoiceCancelled
}
