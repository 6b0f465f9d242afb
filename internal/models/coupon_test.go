package models

import (
	"errors"
	"testing"
	"time"
)

func TestCouponValidate(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	base := Coupon{
		Code:      "SAVE10",
		IsActive:  true,
		ValidFrom: now.AddDate(0, 0, -7),
		ValidTo:   now.AddDate(0, 0, 7),
	}

	tests := []struct {
		name      string
		mutate    func(*Coupon)
		cartTotal float64
		wantErr   error
	}{
		{"valid", func(*Coupon) {}, 100, nil},
		{"inactive", func(cp *Coupon) { cp.IsActive = false }, 100, ErrCouponInactive},
		{"not started", func(cp *Coupon) { cp.ValidFrom = now.AddDate(0, 0, 1) }, 100, ErrCouponNotStarted},
		{"expired", func(cp *Coupon) { cp.ValidTo = now.AddDate(0, 0, -1) }, 100, ErrCouponExpired},
		{"usage limit reached", func(cp *Coupon) { cp.UsageLimit = 5; cp.TimesUsed = 5 }, 100, ErrCouponUsedUp},
		{"under usage limit", func(cp *Coupon) { cp.UsageLimit = 5; cp.TimesUsed = 4 }, 100, nil},
		{"below min purchase", func(cp *Coupon) { cp.MinPurchase = 200 }, 100, ErrCouponMinPurchase},
		{"at min purchase", func(cp *Coupon) { cp.MinPurchase = 100 }, 100, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp := base
			tt.mutate(&cp)
			err := cp.Validate(now, tt.cartTotal)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCouponDiscount(t *testing.T) {
	tests := []struct {
		name      string
		coupon    Coupon
		cartTotal float64
		want      float64
	}{
		{"percentage", Coupon{DiscountType: DiscountPercentage, DiscountValue: 10}, 200, 20},
		{"percentage capped", Coupon{DiscountType: DiscountPercentage, DiscountValue: 50, MaxDiscount: 30}, 200, 30},
		{"fixed", Coupon{DiscountType: DiscountFixed, DiscountValue: 15}, 200, 15},
		{"fixed exceeds cart", Coupon{DiscountType: DiscountFixed, DiscountValue: 50}, 30, 30},
		{"full percentage never exceeds cart", Coupon{DiscountType: DiscountPercentage, DiscountValue: 100}, 80, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.coupon.Discount(tt.cartTotal); !almostEqual(got, tt.want) {
				t.Errorf("Discount(%v) = %v, want %v", tt.cartTotal, got, tt.want)
			}
		})
	}
}
