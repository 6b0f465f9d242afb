package catalog

import (
	"errors"
	"strings"

	"pos-backend/internal/auth"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var ErrStockBelowZero = errors.New("stock cannot go below zero")

// AdjustStock applies a stock change inside the given transaction and writes
// the matching InventoryAdjustment row. Tracked products never go negative.
func AdjustStock(tx *gorm.DB, product *models.Product, change int, reason models.AdjustmentReason, notes string, performedBy *uint) error {
	oldStock := product.Stock
	newStock := oldStock + change
	if newStock < 0 {
		return ErrStockBelowZero
	}

	product.Stock = newStock
	if err := tx.Model(product).Update("stock", newStock).Error; err != nil {
		return err
	}

	adjustment := models.InventoryAdjustment{
		ProductID:      product.ID,
		QuantityChange: change,
		OldStock:       oldStock,
		NewStock:       newStock,
		Reason:         reason,
		Notes:          notes,
		PerformedByID:  performedBy,
	}
	return tx.Create(&adjustment).Error
}

type AdjustStockRequest struct {
	QuantityChange int    `json:"quantity_change"`
	Reason         string `json:"reason"`
	Notes          string `json:"notes"`
}

// POST /api/products/:id/adjust-stock (admin/manager)
func AdjustStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body AdjustStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.QuantityChange == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity_change cannot be zero")
		}

		reason := models.AdjustmentReason(strings.TrimSpace(body.Reason))
		switch reason {
		case models.AdjustReturn, models.AdjustDamage, models.AdjustRestock,
			models.AdjustCorrection, models.AdjustTransfer, models.AdjustOther:
		case "":
			reason = models.AdjustOther
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Invalid adjustment reason")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			return AdjustStock(tx, &p, body.QuantityChange, reason, body.Notes, &userID)
		})
		if err != nil {
			if errors.Is(err, ErrStockBelowZero) {
				return fiber.NewError(fiber.StatusBadRequest, "Stock cannot go below zero")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not adjust stock")
		}

		return c.JSON(fiber.Map{
			"product_id": p.ID,
			"stock":      p.Stock,
		})
	}
}

type AdjustmentResponse struct {
	ID             uint   `json:"id"`
	ProductID      uint   `json:"product_id"`
	ProductName    string `json:"product_name"`
	QuantityChange int    `json:"quantity_change"`
	OldStock       int    `json:"old_stock"`
	NewStock       int    `json:"new_stock"`
	Reason         string `json:"reason"`
	Notes          string `json:"notes"`
	PerformedBy    *uint  `json:"performed_by"`
	CreatedAt      string `json:"created_at"`
}

// GET /api/stock-adjustments?product_id=&reason=
func ListAdjustmentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.InventoryAdjustment{}).Preload("Product")

		if productID := c.Query("product_id"); productID != "" {
			dbq = dbq.Where("product_id = ?", productID)
		}
		if reason := c.Query("reason"); reason != "" {
			dbq = dbq.Where("reason = ?", reason)
		}

		var adjustments []models.InventoryAdjustment
		if err := dbq.Order("created_at DESC").Limit(500).Find(&adjustments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list adjustments")
		}

		res := make([]AdjustmentResponse, 0, len(adjustments))
		for _, a := range adjustments {
			res = append(res, AdjustmentResponse{
				ID:             a.ID,
				ProductID:      a.ProductID,
				ProductName:    a.Product.Name,
				QuantityChange: a.QuantityChange,
				OldStock:       a.OldStock,
				NewStock:       a.NewStock,
				Reason:         string(a.Reason),
				Notes:          a.Notes,
				PerformedBy:    a.PerformedByID,
				CreatedAt:      a.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(res)
	}
}
