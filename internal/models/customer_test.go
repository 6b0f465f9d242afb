package models

import (
	"errors"
	"regexp"
	"testing"
	"time"
)

func TestTierForPoints(t *testing.T) {
	tests := []struct {
		points int
		want   LoyaltyTier
	}{
		{0, TierBronze},
		{1999, TierBronze},
		{2000, TierSilver},
		{4999, TierSilver},
		{5000, TierGold},
		{9999, TierGold},
		{10000, TierPlatinum},
		{50000, TierPlatinum},
	}
	for _, tt := range tests {
		if got := TierForPoints(tt.points); got != tt.want {
			t.Errorf("TierForPoints(%d) = %v, want %v", tt.points, got, tt.want)
		}
	}
}

func TestAddLoyaltyPointsUpgradesTier(t *testing.T) {
	c := Customer{LoyaltyPoints: 1900, LoyaltyTier: TierBronze}
	c.AddLoyaltyPoints(150)
	if c.LoyaltyPoints != 2050 {
		t.Errorf("points = %d, want 2050", c.LoyaltyPoints)
	}
	if c.LoyaltyTier != TierSilver {
		t.Errorf("tier = %v, want silver", c.LoyaltyTier)
	}
}

func TestRedeemLoyaltyPoints(t *testing.T) {
	c := Customer{LoyaltyPoints: 100}

	if err := c.RedeemLoyaltyPoints(60); err != nil {
		t.Fatalf("redeem 60 of 100: %v", err)
	}
	if c.LoyaltyPoints != 40 {
		t.Errorf("points = %d, want 40", c.LoyaltyPoints)
	}

	err := c.RedeemLoyaltyPoints(41)
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Errorf("redeem beyond balance: got %v, want ErrInsufficientPoints", err)
	}
	if c.LoyaltyPoints != 40 {
		t.Errorf("failed redeem must not change balance, points = %d", c.LoyaltyPoints)
	}
}

func TestNewCustomerCode(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^CUST-202608-[0-9A-F]{6}$`)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code := NewCustomerCode(now)
		if !pattern.MatchString(code) {
			t.Fatalf("code %q does not match expected format", code)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = true
	}
}

func TestFullAddress(t *testing.T) {
	c := Customer{AddressLine1: "12 Market St", City: "Accra", Country: "Ghana"}
	want := "12 Market St, Accra, Ghana"
	if got := c.FullAddress(); got != want {
		t.Errorf("FullAddress() = %q, want %q", got, want)
	}
	if got := (&Customer{}).FullAddress(); got != "" {
		t.Errorf("empty address = %q, want empty", got)
	}
}

func TestTagList(t *testing.T) {
	c := Customer{Tags: "vip, regular ,bulk"}
	got := c.TagList()
	want := []string{"vip", "regular", "bulk"}
	if len(got) != len(want) {
		t.Fatalf("TagList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if (&Customer{}).TagList() != nil {
		t.Error("empty tags should return nil")
	}
}
