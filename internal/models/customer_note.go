package models

import "time"

type CustomerNote struct {
	ID          uint `gorm:"primaryKey"`
	CustomerID  uint `gorm:"index;not null"`
	Customer    Customer
	Note        string `gorm:"type:text;not null"`
	CreatedByID *uint
	CreatedBy   *User
	CreatedAt   time.Time
}
