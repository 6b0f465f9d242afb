package models

import "time"

// InvoicePayment links a payment record to an invoice; recording one
// updates the invoice's AmountPaid and derived status.
type InvoicePayment struct {
	ID        uint `gorm:"primaryKey"`
	InvoiceID uint `gorm:"index;not null"`
	PaymentID uint `gorm:"not null"`
	Payment   Payment

	Amount       float64 `gorm:"not null"`
	Notes        string  `gorm:"size:500"`
	RecordedByID uint    `gorm:"not null"`
	RecordedBy   User
	CreatedAt    time.Time
}
