package admin

import (
	"strings"

	"pos-backend/internal/audit"
	"pos-backend/internal/auth"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/settings
func GetSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		settings, err := database.GetSettings()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load settings")
		}
		return c.JSON(settings)
	}
}

type UpdateSettingsRequest struct {
	StoreName         *string  `json:"store_name"`
	StoreAddress      *string  `json:"store_address"`
	StorePhone        *string  `json:"store_phone"`
	StoreEmail        *string  `json:"store_email"`
	DefaultTaxRate    *float64 `json:"default_tax_rate"`
	CurrencySymbol    *string  `json:"currency_symbol"`
	CurrencyCode      *string  `json:"currency_code"`
	ReceiptFooter     *string  `json:"receipt_footer"`
	LowStockThreshold *int     `json:"low_stock_threshold"`
	EnableLoyalty     *bool    `json:"enable_loyalty"`
}

// PUT /api/settings (admin)
func UpdateSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateSettingsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		settings, err := database.GetSettings()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load settings")
		}
		before := settings

		if body.StoreName != nil {
			name := strings.TrimSpace(*body.StoreName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Store name cannot be empty")
			}
			settings.StoreName = name
		}
		if body.StoreAddress != nil {
			settings.StoreAddress = strings.TrimSpace(*body.StoreAddress)
		}
		if body.StorePhone != nil {
			settings.StorePhone = strings.TrimSpace(*body.StorePhone)
		}
		if body.StoreEmail != nil {
			settings.StoreEmail = strings.ToLower(strings.TrimSpace(*body.StoreEmail))
		}
		if body.DefaultTaxRate != nil {
			if *body.DefaultTaxRate < 0 || *body.DefaultTaxRate > 1 {
				return fiber.NewError(fiber.StatusBadRequest, "Tax rate must be a fraction between 0 and 1")
			}
			settings.DefaultTaxRate = *body.DefaultTaxRate
		}
		if body.CurrencySymbol != nil {
			settings.CurrencySymbol = strings.TrimSpace(*body.CurrencySymbol)
		}
		if body.CurrencyCode != nil {
			code := strings.ToUpper(strings.TrimSpace(*body.CurrencyCode))
			if len(code) != 3 {
				return fiber.NewError(fiber.StatusBadRequest, "Currency code must be 3 letters")
			}
			settings.CurrencyCode = code
		}
		if body.ReceiptFooter != nil {
			settings.ReceiptFooter = strings.TrimSpace(*body.ReceiptFooter)
		}
		if body.LowStockThreshold != nil {
			if *body.LowStockThreshold < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Threshold cannot be negative")
			}
			settings.LowStockThreshold = *body.LowStockThreshold
		}
		if body.EnableLoyalty != nil {
			settings.EnableLoyalty = *body.EnableLoyalty
		}

		if err := database.DB.Save(&settings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save settings")
		}

		actorID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      actorID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "settings",
			EntityID:    settings.ID,
			Action:      models.AuditActionUpdate,
			Description: "Updated store settings",
			IPAddress:   c.IP(),
			Before:      before,
			After:       settings,
		})

		return c.JSON(settings)
	}
}
