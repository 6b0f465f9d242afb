package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CustomerType string

const (
	CustomerRetail    CustomerType = "retail"
	CustomerWholesale CustomerType = "wholesale"
	CustomerVIP       CustomerType = "vip"
)

type LoyaltyTier string

const (
	TierBronze   LoyaltyTier = "bronze"
	TierSilver   LoyaltyTier = "silver"
	TierGold     LoyaltyTier = "gold"
	TierPlatinum LoyaltyTier = "platinum"
)

var ErrInsufficientPoints = errors.New("insufficient loyalty points")

type Customer struct {
	ID    uint   `gorm:"primaryKey"`
	Code  string `gorm:"size:50;uniqueIndex;not null"` // CUST-YYYYMM-XXXXXX
	Name  string `gorm:"size:200;not null;index"`
	Email string `gorm:"size:100;index"`
	Phone string `gorm:"size:20;index"`

	AddressLine1 string `gorm:"size:255"`
	AddressLine2 string `gorm:"size:255"`
	City         string `gorm:"size:100"`
	State        string `gorm:"size:100"`
	PostalCode   string `gorm:"size:20"`
	Country      string `gorm:"size:100"`

	Type CustomerType `gorm:"size:20;not null;default:retail"`
	Tags string       `gorm:"size:500"` // comma separated

	LoyaltyPoints int         `gorm:"not null;default:0"`
	LoyaltyTier   LoyaltyTier `gorm:"size:20;not null;default:bronze"`

	CreditLimit     float64 `gorm:"not null;default:0"`
	CurrentBalance  float64 `gorm:"not null;default:0"` // outstanding credit
	DiscountPercent float64 `gorm:"not null;default:0"`

	IsActive    bool   `gorm:"not null;default:true"`
	Notes       string `gorm:"type:text"`
	DateOfBirth *time.Time

	CreatedByID *uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCustomerCode: CUST-202608-3F91A2
func NewCustomerCode(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("CUST-%s-%s", now.Format("200601"), suffix)
}

func (c *Customer) FullAddress() string {
	parts := []string{c.AddressLine1, c.AddressLine2, c.City, c.State, c.PostalCode, c.Country}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

func (c *Customer) TagList() []string {
	if c.Tags == "" {
		return nil
	}
	tags := strings.Split(c.Tags, ",")
	for i := range tags {
		tags[i] = strings.TrimSpace(tags[i])
	}
	return tags
}

// TierForPoints: thresholds 2000 / 5000 / 10000.
func TierForPoints(points int) LoyaltyTier {
	switch {
	case points >= 10000:
		return TierPlatinum
	case points >= 5000:
		return TierGold
	case points >= 2000:
		return TierSilver
	default:
		return TierBronze
	}
}

func (c *Customer) AddLoyaltyPoints(points int) {
	c.LoyaltyPoints += points
	c.LoyaltyTier = TierForPoints(c.LoyaltyPoints)
}

func (c *Customer) RedeemLoyaltyPoints(points int) error {
	if points > c.LoyaltyPoints {
		return ErrInsufficientPoints
	}
	c.LoyaltyPoints -= points
	return nil
}
