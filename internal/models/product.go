package models

import "time"

type Product struct {
	ID          uint    `gorm:"primaryKey"`
	SKU         string  `gorm:"size:100;uniqueIndex;not null"`
	Barcode     *string `gorm:"size:100;uniqueIndex"` // nullable, scanner lookup key
	Name        string  `gorm:"size:255;not null;index"`
	Description string  `gorm:"type:text"`
	CategoryID  uint    `gorm:"index;not null"`
	Category    Category

	CostPrice        float64 `gorm:"not null"`
	SellPrice        float64 `gorm:"not null"`
	WholesalePrice   float64 // 0 = no wholesale pricing
	MinWholesaleQty  int     `gorm:"not null;default:1"`
	TaxRate          float64 `gorm:"not null;default:0.15"` // 0.15 = 15%

	Stock             int    `gorm:"not null;default:0"`
	LowStockThreshold int    `gorm:"not null;default:10"`
	Unit              string `gorm:"size:20;not null;default:piece"` // piece, kg, liter...

	IsActive   bool `gorm:"not null;default:true"`
	TrackStock bool `gorm:"not null;default:true"`

	CreatedByID *uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) IsLowStock() bool {
	return p.TrackStock && p.Stock <= p.LowStockThreshold
}

// InventoryValue: what the stock on hand cost us.
func (p *Product) InventoryValue() float64 {
	return p.CostPrice * float64(p.Stock)
}

func (p *Product) ProfitMargin() float64 {
	if p.CostPrice > 0 {
		return (p.SellPrice - p.CostPrice) / p.CostPrice * 100
	}
	return 0
}

func (p *Product) CanSell(quantity int) bool {
	if !p.IsActive {
		return false
	}
	if p.TrackStock && p.Stock < quantity {
		return false
	}
	return true
}

// PriceFor resolves the unit price for a customer. Wholesale customers get
// the wholesale price when the quantity meets the minimum; a customer-level
// discount percentage is applied on top. Returns the price and a label
// describing which rate was used.
func (p *Product) PriceFor(customer *Customer, quantity int) (float64, string) {
	price := p.SellPrice
	priceType := "retail"

	if customer != nil && customer.Type == CustomerWholesale {
		if p.WholesalePrice > 0 && quantity >= p.MinWholesaleQty {
			price = p.WholesalePrice
			priceType = "wholesale"
		}
	}

	if customer != nil && customer.DiscountPercent > 0 {
		price -= price * customer.DiscountPercent / 100
		priceType = priceType + " discounted"
	}

	return price, priceType
}
