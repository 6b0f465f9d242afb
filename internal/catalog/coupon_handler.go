package catalog

import (
	"strconv"
	"strings"
	"time"

	"pos-backend/internal/auth"
	"pos-backend/internal/audit"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CouponRequest struct {
	Code          string  `json:"code"`
	Description   string  `json:"description"`
	DiscountType  string  `json:"discount_type"` // percentage | fixed
	DiscountValue float64 `json:"discount_value"`
	MinPurchase   float64 `json:"min_purchase"`
	MaxDiscount   float64 `json:"max_discount"`
	ValidFrom     string  `json:"valid_from"` // YYYY-MM-DD
	ValidTo       string  `json:"valid_to"`
	UsageLimit    int     `json:"usage_limit"`
}

// GET /api/coupons (admin/manager)
func ListCouponsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Coupon{})
		if c.Query("active") == "true" {
			dbq = dbq.Where("is_active = ?", true)
		}

		var coupons []models.Coupon
		if err := dbq.Order("created_at DESC").Find(&coupons).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list coupons")
		}
		return c.JSON(coupons)
	}
}

// POST /api/coupons (admin/manager)
func CreateCouponHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CouponRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Code = strings.ToUpper(strings.TrimSpace(body.Code))
		if body.Code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Code is required")
		}
		if body.DiscountValue <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "discount_value must be positive")
		}

		discountType := models.DiscountType(body.DiscountType)
		if discountType != models.DiscountPercentage && discountType != models.DiscountFixed {
			return fiber.NewError(fiber.StatusBadRequest, "discount_type must be percentage or fixed")
		}
		if discountType == models.DiscountPercentage && body.DiscountValue > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "Percentage discount cannot exceed 100")
		}

		validFrom, err := time.Parse("2006-01-02", body.ValidFrom)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "valid_from is invalid (YYYY-MM-DD)")
		}
		validTo, err := time.Parse("2006-01-02", body.ValidTo)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "valid_to is invalid (YYYY-MM-DD)")
		}
		if validTo.Before(validFrom) {
			return fiber.NewError(fiber.StatusBadRequest, "valid_to must be after valid_from")
		}
		// valid through the end of the last day
		validTo = validTo.Add(24*time.Hour - time.Second)

		var existing models.Coupon
		if err := database.DB.Where("code = ?", body.Code).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "This coupon code already exists")
		}

		userID, _ := auth.CurrentUserID(c)
		coupon := models.Coupon{
			Code:          body.Code,
			Description:   body.Description,
			DiscountType:  discountType,
			DiscountValue: body.DiscountValue,
			MinPurchase:   body.MinPurchase,
			MaxDiscount:   body.MaxDiscount,
			ValidFrom:     validFrom,
			ValidTo:       validTo,
			IsActive:      true,
			UsageLimit:    body.UsageLimit,
			CreatedByID:   &userID,
		}

		if err := database.DB.Create(&coupon).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create coupon")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "coupon",
			EntityID:    coupon.ID,
			Action:      models.AuditActionCreate,
			Description: "Created coupon " + coupon.Code,
			After:       coupon,
		})

		return c.Status(fiber.StatusCreated).JSON(coupon)
	}
}

// PUT /api/coupons/:id (admin/manager)
func UpdateCouponHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var coupon models.Coupon
		if err := database.DB.First(&coupon, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Coupon not found")
		}
		before := coupon

		var body struct {
			Description *string  `json:"description"`
			MinPurchase *float64 `json:"min_purchase"`
			MaxDiscount *float64 `json:"max_discount"`
			ValidTo     *string  `json:"valid_to"`
			UsageLimit  *int     `json:"usage_limit"`
			IsActive    *bool    `json:"is_active"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Description != nil {
			coupon.Description = *body.Description
		}
		if body.MinPurchase != nil {
			coupon.MinPurchase = *body.MinPurchase
		}
		if body.MaxDiscount != nil {
			coupon.MaxDiscount = *body.MaxDiscount
		}
		if body.ValidTo != nil {
			validTo, err := time.Parse("2006-01-02", *body.ValidTo)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "valid_to is invalid (YYYY-MM-DD)")
			}
			coupon.ValidTo = validTo.Add(24*time.Hour - time.Second)
		}
		if body.UsageLimit != nil {
			coupon.UsageLimit = *body.UsageLimit
		}
		if body.IsActive != nil {
			coupon.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&coupon).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update coupon")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "coupon",
			EntityID:    coupon.ID,
			Action:      models.AuditActionUpdate,
			Description: "Updated coupon " + coupon.Code,
			Before:      before,
			After:       coupon,
		})

		return c.JSON(coupon)
	}
}

// DELETE /api/coupons/:id (admin/manager)
func DeleteCouponHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var coupon models.Coupon
		if err := database.DB.First(&coupon, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Coupon not found")
		}

		if err := database.DB.Delete(&coupon).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete coupon")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "coupon",
			EntityID:    coupon.ID,
			Action:      models.AuditActionDelete,
			Description: "Deleted coupon " + coupon.Code,
			Before:      coupon,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/coupons/validate/:code?cart_total=
// Used by the POS screen before applying a coupon to a cart.
func ValidateCouponHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := strings.ToUpper(strings.TrimSpace(c.Params("code")))
		if code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Code is required")
		}

		var cartTotal float64
		if raw := c.Query("cart_total"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "cart_total must be a non-negative number")
			}
			cartTotal = parsed
		}

		var coupon models.Coupon
		if err := database.DB.Where("code = ?", code).First(&coupon).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Coupon not found")
		}

		if err := coupon.Validate(time.Now(), cartTotal); err != nil {
			return c.JSON(fiber.Map{
				"valid":  false,
				"reason": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"valid":    true,
			"code":     coupon.Code,
			"discount": coupon.Discount(cartTotal),
		})
	}
}
