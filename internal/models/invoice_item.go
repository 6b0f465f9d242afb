package models

type InvoiceItem struct {
	ID        uint `gorm:"primaryKey"`
	InvoiceID uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product

	Description string  `gorm:"size:255"`
	Quantity    int     `gorm:"not null"`
	UnitPrice   float64 `gorm:"not null"`
	Discount    float64 `gorm:"not null;default:0"`
	TaxRate     float64 `gorm:"not null;default:0"` // fraction, e.g. 0.15
	Total       float64 `gorm:"not null"`           // subtotal + tax
}

func (it *InvoiceItem) Subtotal() float64 {
	return it.UnitPrice*float64(it.Quantity) - it.Discount
}

func (it *InvoiceItem) TaxAmount() float64 {
	return it.Subtotal() * it.TaxRate
}

func (it *InvoiceItem) ComputeTotal() {
	it.Total = it.Subtotal() + it.TaxAmount()
}
