package models

import (
	"errors"
	"time"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

var (
	ErrCouponInactive    = errors.New("coupon is not active")
	ErrCouponNotStarted  = errors.New("coupon is not yet valid")
	ErrCouponExpired     = errors.New("coupon has expired")
	ErrCouponUsedUp      = errors.New("coupon usage limit reached")
	ErrCouponMinPurchase = errors.New("minimum purchase amount not met")
)

type Coupon struct {
	ID            uint         `gorm:"primaryKey"`
	Code          string       `gorm:"size:50;uniqueIndex;not null"`
	Description   string       `gorm:"size:500"`
	DiscountType  DiscountType `gorm:"size:10;not null;default:percentage"`
	DiscountValue float64      `gorm:"not null"`
	MinPurchase   float64      `gorm:"not null;default:0"`
	MaxDiscount   float64      // 0 = no cap, percentage coupons only
	ValidFrom     time.Time    `gorm:"not null"`
	ValidTo       time.Time    `gorm:"not null"`
	IsActive      bool         `gorm:"not null;default:true"`
	UsageLimit    int          // 0 = unlimited
	TimesUsed     int          `gorm:"not null;default:0"`
	CreatedByID   *uint
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks whether the coupon can be applied to a cart of the given
// total at the given time.
func (cp *Coupon) Validate(now time.Time, cartTotal float64) error {
	if !cp.IsActive {
		return ErrCouponInactive
	}
	if now.Before(cp.ValidFrom) {
		return ErrCouponNotStarted
	}
	if now.After(cp.ValidTo) {
		return ErrCouponExpired
	}
	if cp.UsageLimit > 0 && cp.TimesUsed >= cp.UsageLimit {
		return ErrCouponUsedUp
	}
	if cartTotal < cp.MinPurchase {
		return ErrCouponMinPurchase
	}
	return nil
}

// Discount returns the discount amount for a cart total. Never exceeds the
// cart total; percentage discounts honor MaxDiscount.
func (cp *Coupon) Discount(cartTotal float64) float64 {
	var discount float64
	if cp.DiscountType == DiscountPercentage {
		discount = cartTotal * cp.DiscountValue / 100
		if cp.MaxDiscount > 0 && discount > cp.MaxDiscount {
			discount = cp.MaxDiscount
		}
	} else {
		discount = cp.DiscountValue
	}
	if discount > cartTotal {
		discount = cartTotal
	}
	return discount
}
