package models

import "time"

// Settings: single-row store configuration (row id is always 1).
type Settings struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	StoreName    string `gorm:"size:200;not null;default:POS System" json:"store_name"`
	StoreAddress string `gorm:"size:500" json:"store_address"`
	StorePhone   string `gorm:"size:20" json:"store_phone"`
	StoreEmail   string `gorm:"size:100" json:"store_email"`

	DefaultTaxRate    float64 `gorm:"not null;default:0.15" json:"default_tax_rate"`
	CurrencySymbol    string  `gorm:"size:5;not null;default:GH₵" json:"currency_symbol"`
	CurrencyCode      string  `gorm:"size:3;not null;default:GHS" json:"currency_code"`
	ReceiptFooter     string  `gorm:"size:500" json:"receipt_footer"`
	LowStockThreshold int     `gorm:"not null;default:10" json:"low_stock_threshold"`
	EnableLoyalty     bool    `gorm:"not null;default:true" json:"enable_loyalty"`

	UpdatedAt time.Time `json:"updated_at"`
}
