package customers

import (
	"errors"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type LoyaltyRequest struct {
	Points int `json:"points"`
}

// POST /api/customers/:id/loyalty/add
func AddLoyaltyPointsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body LoyaltyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Points <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "points must be positive")
		}

		settings, err := database.GetSettings()
		if err == nil && !settings.EnableLoyalty {
			return fiber.NewError(fiber.StatusBadRequest, "Loyalty program is disabled")
		}

		var cu models.Customer
		if err := database.DB.First(&cu, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		cu.AddLoyaltyPoints(body.Points)
		if err := database.DB.Save(&cu).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update loyalty points")
		}

		return c.JSON(fiber.Map{
			"customer_id":    cu.ID,
			"loyalty_points": cu.LoyaltyPoints,
			"loyalty_tier":   cu.LoyaltyTier,
		})
	}
}

// POST /api/customers/:id/loyalty/redeem
func RedeemLoyaltyPointsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body LoyaltyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Points <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "points must be positive")
		}

		var cu models.Customer
		if err := database.DB.First(&cu, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		if err := cu.RedeemLoyaltyPoints(body.Points); err != nil {
			if errors.Is(err, models.ErrInsufficientPoints) {
				return fiber.NewError(fiber.StatusBadRequest, "Insufficient loyalty points")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not redeem points")
		}

		if err := database.DB.Save(&cu).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update loyalty points")
		}

		return c.JSON(fiber.Map{
			"customer_id":    cu.ID,
			"loyalty_points": cu.LoyaltyPoints,
			"loyalty_tier":   cu.LoyaltyTier,
		})
	}
}
