package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SaleStatus string

const (
	SalePending   SaleStatus = "pending"
	SaleCompleted SaleStatus = "completed"
	SaleVoided    SaleStatus = "voided"
	SaleRefunded  SaleStatus = "refunded"
)

type SalePaymentStatus string

const (
	PaymentStatusPending SalePaymentStatus = "pending"
	PaymentStatusPartial SalePaymentStatus = "partial"
	PaymentStatusPaid    SalePaymentStatus = "paid"
)

type Sale struct {
	ID        uint   `gorm:"primaryKey"`
	Reference string `gorm:"size:50;uniqueIndex;not null"` // SALE-20260831143022-AB12CD34

	CashierID  uint `gorm:"index;not null"`
	Cashier    User
	CustomerID *uint `gorm:"index"`
	Customer   *Customer

	Subtotal float64 `gorm:"not null;default:0"`
	Tax      float64 `gorm:"not null;default:0"`
	Discount float64 `gorm:"not null;default:0"`
	Total    float64 `gorm:"not null;default:0"`

	PaymentMethod string            `gorm:"size:20;not null;default:cash"` // cash, card, mobile, credit, mixed
	PaymentStatus SalePaymentStatus `gorm:"size:20;not null;default:pending"`
	AmountPaid    float64           `gorm:"not null;default:0"`

	Status     SaleStatus `gorm:"size:20;index;not null;default:pending"`
	CouponCode string     `gorm:"size:50"`
	Notes      string     `gorm:"type:text"`
	TerminalID string     `gorm:"size:50"`

	Items    []SaleItem
	Payments []Payment

	CreatedAt   time.Time `gorm:"index"`
	CompletedAt *time.Time
	VoidedAt    *time.Time
	VoidedByID  *uint
	VoidReason  string `gorm:"size:500"`
}

// NewSaleReference: timestamp plus a short random suffix so concurrent
// terminals never collide.
func NewSaleReference(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("SALE-%s-%s", now.Format("20060102150405"), suffix)
}

// ComputeTotals recalculates subtotal, tax and total from the line items.
// Discount is the sale-level discount (coupon etc.), already set.
func (s *Sale) ComputeTotals() {
	s.Subtotal = 0
	s.Tax = 0
	for i := range s.Items {
		s.Subtotal += s.Items[i].LineTotal
		s.Tax += s.Items[i].TaxAmount()
	}
	s.Total = s.Subtotal + s.Tax - s.Discount
	if s.Total < 0 {
		s.Total = 0
	}
}

type SaleItem struct {
	ID        uint `gorm:"primaryKey"`
	SaleID    uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product

	Quantity  int     `gorm:"not null;default:1"`
	UnitPrice float64 `gorm:"not null"` // price at time of sale
	TaxRate   float64 `gorm:"not null"`
	Discount  float64 `gorm:"not null;default:0"`
	LineTotal float64 `gorm:"not null"`
}

func (it *SaleItem) ComputeLineTotal() {
	it.LineTotal = it.UnitPrice*float64(it.Quantity) - it.Discount
	if it.LineTotal < 0 {
		it.LineTotal = 0
	}
}

func (it *SaleItem) TaxAmount() float64 {
	return it.LineTotal * it.TaxRate
}
