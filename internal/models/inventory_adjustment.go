package models

import "time"

type AdjustmentReason string

const (
	AdjustSale       AdjustmentReason = "sale"
	AdjustReturn     AdjustmentReason = "return"
	AdjustDamage     AdjustmentReason = "damage"
	AdjustRestock    AdjustmentReason = "restock"
	AdjustCorrection AdjustmentReason = "correction"
	AdjustTransfer   AdjustmentReason = "transfer"
	AdjustOther      AdjustmentReason = "other"
)

// InventoryAdjustment: one row per stock change, keeps the audit trail
// for every movement (sales, returns, manual corrections).
type InventoryAdjustment struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"index;not null"`
	Product   Product

	QuantityChange int `gorm:"not null"` // positive adds, negative subtracts
	OldStock       int `gorm:"not null"`
	NewStock       int `gorm:"not null"`

	Reason AdjustmentReason `gorm:"size:20;not null;default:other"`
	Notes  string           `gorm:"size:500"`

	PerformedByID *uint
	PerformedBy   *User
	CreatedAt     time.Time `gorm:"index"`
}
