package models

import "time"

type PaymentMethod string

const (
	PayCash   PaymentMethod = "cash"
	PayCard   PaymentMethod = "card"
	PayMobile PaymentMethod = "mobile"
	PayCheck  PaymentMethod = "check"
	PayOther  PaymentMethod = "other"
)

type PaymentState string

const (
	PaymentPending   PaymentState = "pending"
	PaymentCompleted PaymentState = "completed"
	PaymentFailed    PaymentState = "failed"
	PaymentRefunded  PaymentState = "refunded"
)

// Payment: one row per tender, a sale can have several (split payments).
type Payment struct {
	ID     uint  `gorm:"primaryKey"`
	SaleID *uint `gorm:"index"`

	Amount float64       `gorm:"not null"`
	Method PaymentMethod `gorm:"size:20;not null"`
	State  PaymentState  `gorm:"size:20;not null;default:pending"`

	TransactionID   string `gorm:"size:200"`
	ReferenceNumber string `gorm:"size:200"`
	CardLastFour    string `gorm:"size:4"`

	// cash only
	AmountTendered *float64
	ChangeAmount   *float64

	Notes       string `gorm:"size:500"`
	CreatedAt   time.Time
	ProcessedAt *time.Time
}
