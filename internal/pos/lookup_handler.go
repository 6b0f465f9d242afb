package pos

import (
	"strconv"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/pos/stock-check/:product_id
func StockCheckHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("product_id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		return c.JSON(fiber.Map{
			"product_id":  product.ID,
			"sku":         product.SKU,
			"name":        product.Name,
			"stock":       product.Stock,
			"track_stock": product.TrackStock,
			"is_active":   product.IsActive,
			"low_stock":   product.TrackStock && product.Stock <= product.LowStockThreshold,
		})
	}
}

// GET /api/pos/price?product_id=&customer_id=&quantity=
// Resolves the effective unit price for a cart line before checkout.
func PriceLookupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		productID := c.Query("product_id")
		if productID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
		}

		quantity := 1
		if q := c.Query("quantity"); q != "" {
			parsed, err := strconv.Atoi(q)
			if err != nil || parsed <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity must be a positive integer")
			}
			quantity = parsed
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", productID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var customer *models.Customer
		if customerID := c.Query("customer_id"); customerID != "" {
			var cu models.Customer
			if err := database.DB.First(&cu, "id = ?", customerID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Customer not found")
			}
			customer = &cu
		}

		unitPrice, priceType := product.PriceFor(customer, quantity)

		return c.JSON(fiber.Map{
			"product_id": product.ID,
			"sku":        product.SKU,
			"quantity":   quantity,
			"unit_price": unitPrice,
			"price_type": priceType,
			"tax_rate":   product.TaxRate,
			"line_total": unitPrice * float64(quantity),
		})
	}
}

// GET /api/pos/barcode/:code
// Scanner path: exact barcode match first, SKU as fallback.
func BarcodeLookupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")

		var product models.Product
		err := database.DB.Where("barcode = ? AND is_active = ?", code, true).First(&product).Error
		if err != nil {
			err = database.DB.Where("sku = ? AND is_active = ?", code, true).First(&product).Error
		}
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "No product matches that code")
		}

		return c.JSON(fiber.Map{
			"product_id": product.ID,
			"sku":        product.SKU,
			"barcode":    product.Barcode,
			"name":       product.Name,
			"sell_price": product.SellPrice,
			"tax_rate":   product.TaxRate,
			"stock":      product.Stock,
			"unit":       product.Unit,
		})
	}
}
