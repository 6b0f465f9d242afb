package catalog

import (
	"strings"

	"pos-backend/internal/auth"
	"pos-backend/internal/audit"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID                uint    `json:"id"`
	SKU               string  `json:"sku"`
	Barcode           *string `json:"barcode"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	CategoryID        uint    `json:"category_id"`
	CategoryName      string  `json:"category_name,omitempty"`
	CostPrice         float64 `json:"cost_price"`
	SellPrice         float64 `json:"sell_price"`
	WholesalePrice    float64 `json:"wholesale_price"`
	MinWholesaleQty   int     `json:"min_wholesale_qty"`
	TaxRate           float64 `json:"tax_rate"`
	Stock             int     `json:"stock"`
	LowStockThreshold int     `json:"low_stock_threshold"`
	Unit              string  `json:"unit"`
	IsActive          bool    `json:"is_active"`
	TrackStock        bool    `json:"track_stock"`
	IsLowStock        bool    `json:"is_low_stock"`
}

type CreateProductRequest struct {
	SKU               string  `json:"sku"`
	Barcode           string  `json:"barcode"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	CategoryID        uint    `json:"category_id"`
	CostPrice         float64 `json:"cost_price"`
	SellPrice         float64 `json:"sell_price"`
	WholesalePrice    float64 `json:"wholesale_price"`
	MinWholesaleQty   int     `json:"min_wholesale_qty"`
	TaxRate           *float64 `json:"tax_rate"`
	Stock             int     `json:"stock"`
	LowStockThreshold *int    `json:"low_stock_threshold"`
	Unit              string  `json:"unit"`
	TrackStock        *bool   `json:"track_stock"`
}

type UpdateProductRequest struct {
	Barcode           *string  `json:"barcode"`
	Name              *string  `json:"name"`
	Description       *string  `json:"description"`
	CategoryID        *uint    `json:"category_id"`
	CostPrice         *float64 `json:"cost_price"`
	SellPrice         *float64 `json:"sell_price"`
	WholesalePrice    *float64 `json:"wholesale_price"`
	MinWholesaleQty   *int     `json:"min_wholesale_qty"`
	TaxRate           *float64 `json:"tax_rate"`
	LowStockThreshold *int     `json:"low_stock_threshold"`
	Unit              *string  `json:"unit"`
	IsActive          *bool    `json:"is_active"`
	TrackStock        *bool    `json:"track_stock"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		SKU:               p.SKU,
		Barcode:           p.Barcode,
		Name:              p.Name,
		Description:       p.Description,
		CategoryID:        p.CategoryID,
		CategoryName:      p.Category.Name,
		CostPrice:         p.CostPrice,
		SellPrice:         p.SellPrice,
		WholesalePrice:    p.WholesalePrice,
		MinWholesaleQty:   p.MinWholesaleQty,
		TaxRate:           p.TaxRate,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		Unit:              p.Unit,
		IsActive:          p.IsActive,
		TrackStock:        p.TrackStock,
		IsLowStock:        p.IsLowStock(),
	}
}

// GET /api/products?search=&category_id=&active=&barcode=
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Product{}).Preload("Category")

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			dbq = dbq.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
		}
		if categoryID := c.Query("category_id"); categoryID != "" {
			dbq = dbq.Where("category_id = ?", categoryID)
		}
		if c.Query("active") == "true" {
			dbq = dbq.Where("is_active = ?", true)
		}
		if barcode := strings.TrimSpace(c.Query("barcode")); barcode != "" {
			dbq = dbq.Where("barcode = ?", barcode)
		}

		var products []models.Product
		if err := dbq.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		res := make([]ProductResponse, 0, len(products))
		for i := range products {
			res = append(res, toProductResponse(&products[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.Preload("Category").First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		return c.JSON(toProductResponse(&p))
	}
}

// GET /api/products/low-stock
func LowStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		err := database.DB.Preload("Category").
			Where("is_active = ? AND track_stock = ? AND stock <= low_stock_threshold", true, true).
			Order("stock asc").
			Find(&products).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list low stock products")
		}

		res := make([]ProductResponse, 0, len(products))
		for i := range products {
			res = append(res, toProductResponse(&products[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/products (admin/manager)
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.SKU = strings.TrimSpace(body.SKU)
		body.Name = strings.TrimSpace(body.Name)
		body.Barcode = strings.TrimSpace(body.Barcode)

		if body.SKU == "" || body.Name == "" || body.CategoryID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "SKU, name and category are required")
		}
		if body.CostPrice < 0 || body.SellPrice < 0 || body.WholesalePrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Prices cannot be negative")
		}
		if body.Stock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Stock cannot be negative")
		}

		var category models.Category
		if err := database.DB.First(&category, body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Category not found")
		}

		var existing models.Product
		if err := database.DB.Where("sku = ?", body.SKU).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "This SKU is already in use")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		p := models.Product{
			SKU:             body.SKU,
			Name:            body.Name,
			Description:     strings.TrimSpace(body.Description),
			CategoryID:      body.CategoryID,
			CostPrice:       body.CostPrice,
			SellPrice:       body.SellPrice,
			WholesalePrice:  body.WholesalePrice,
			MinWholesaleQty: body.MinWholesaleQty,
			TaxRate:         0.15,
			Stock:           body.Stock,
			Unit:            "piece",
			IsActive:        true,
			TrackStock:      true,
			CreatedByID:     &userID,
		}
		if body.Barcode != "" {
			p.Barcode = &body.Barcode
		}
		if body.TaxRate != nil {
			p.TaxRate = *body.TaxRate
		}
		if body.LowStockThreshold != nil {
			p.LowStockThreshold = *body.LowStockThreshold
		} else {
			p.LowStockThreshold = 10
		}
		if p.MinWholesaleQty < 1 {
			p.MinWholesaleQty = 1
		}
		if body.Unit != "" {
			p.Unit = strings.TrimSpace(body.Unit)
		}
		if body.TrackStock != nil {
			p.TrackStock = *body.TrackStock
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create product")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: "Created product " + p.SKU,
			After:       p,
		})

		p.Category = category
		return c.Status(fiber.StatusCreated).JSON(toProductResponse(&p))
	}
}

// PUT /api/products/:id (admin/manager)
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.Preload("Category").First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		before := p

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			p.Name = name
		}
		if body.Barcode != nil {
			barcode := strings.TrimSpace(*body.Barcode)
			if barcode == "" {
				p.Barcode = nil
			} else {
				p.Barcode = &barcode
			}
		}
		if body.Description != nil {
			p.Description = strings.TrimSpace(*body.Description)
		}
		if body.CategoryID != nil {
			var category models.Category
			if err := database.DB.First(&category, *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Category not found")
			}
			p.CategoryID = *body.CategoryID
			p.Category = category
		}
		if body.CostPrice != nil {
			if *body.CostPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Cost price cannot be negative")
			}
			p.CostPrice = *body.CostPrice
		}
		if body.SellPrice != nil {
			if *body.SellPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Sell price cannot be negative")
			}
			p.SellPrice = *body.SellPrice
		}
		if body.WholesalePrice != nil {
			if *body.WholesalePrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Wholesale price cannot be negative")
			}
			p.WholesalePrice = *body.WholesalePrice
		}
		if body.MinWholesaleQty != nil && *body.MinWholesaleQty >= 1 {
			p.MinWholesaleQty = *body.MinWholesaleQty
		}
		if body.TaxRate != nil {
			p.TaxRate = *body.TaxRate
		}
		if body.LowStockThreshold != nil {
			p.LowStockThreshold = *body.LowStockThreshold
		}
		if body.Unit != nil {
			p.Unit = strings.TrimSpace(*body.Unit)
		}
		if body.IsActive != nil {
			p.IsActive = *body.IsActive
		}
		if body.TrackStock != nil {
			p.TrackStock = *body.TrackStock
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionUpdate,
			Description: "Updated product " + p.SKU,
			Before:      before,
			After:       p,
		})

		return c.JSON(toProductResponse(&p))
	}
}

// DELETE /api/products/:id (admin/manager)
// Products referenced by sales are deactivated, not deleted.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var saleCount int64
		database.DB.Model(&models.SaleItem{}).Where("product_id = ?", p.ID).Count(&saleCount)
		if saleCount > 0 {
			p.IsActive = false
			if err := database.DB.Save(&p).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not deactivate product")
			}
			return c.JSON(fiber.Map{
				"message": "Product has sales history, deactivated instead of deleted",
			})
		}

		if err := database.DB.Delete(&models.Product{}, "id = ?", p.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionDelete,
			Description: "Deleted product " + p.SKU,
			Before:      p,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
