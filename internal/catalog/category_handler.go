package catalog

import (
	"strings"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CategoryResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ParentID     *uint  `json:"parent_id"`
	IsActive     bool   `json:"is_active"`
	DisplayOrder int    `json:"display_order"`
	ProductCount int64  `json:"product_count"`
}

type CreateCategoryRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ParentID     *uint  `json:"parent_id"`
	DisplayOrder int    `json:"display_order"`
}

type UpdateCategoryRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	ParentID     *uint   `json:"parent_id"`
	IsActive     *bool   `json:"is_active"`
	DisplayOrder *int    `json:"display_order"`
}

// GET /api/categories
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Category{})
		if c.Query("active") == "true" {
			dbq = dbq.Where("is_active = ?", true)
		}

		var categories []models.Category
		if err := dbq.Order("display_order asc, name asc").Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list categories")
		}

		res := make([]CategoryResponse, 0, len(categories))
		for _, cat := range categories {
			var productCount int64
			database.DB.Model(&models.Product{}).Where("category_id = ?", cat.ID).Count(&productCount)
			res = append(res, CategoryResponse{
				ID:           cat.ID,
				Name:         cat.Name,
				Description:  cat.Description,
				ParentID:     cat.ParentID,
				IsActive:     cat.IsActive,
				DisplayOrder: cat.DisplayOrder,
				ProductCount: productCount,
			})
		}
		return c.JSON(res)
	}
}

// POST /api/categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		if body.ParentID != nil {
			var parent models.Category
			if err := database.DB.First(&parent, *body.ParentID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Parent category not found")
			}
		}

		cat := models.Category{
			Name:         body.Name,
			Description:  strings.TrimSpace(body.Description),
			ParentID:     body.ParentID,
			IsActive:     true,
			DisplayOrder: body.DisplayOrder,
		}

		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create category")
		}

		return c.Status(fiber.StatusCreated).JSON(CategoryResponse{
			ID:           cat.ID,
			Name:         cat.Name,
			Description:  cat.Description,
			ParentID:     cat.ParentID,
			IsActive:     cat.IsActive,
			DisplayOrder: cat.DisplayOrder,
		})
	}
}

// PUT /api/categories/:id
func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cat models.Category
		if err := database.DB.First(&cat, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}

		var body UpdateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			cat.Name = name
		}
		if body.Description != nil {
			cat.Description = strings.TrimSpace(*body.Description)
		}
		if body.ParentID != nil {
			if *body.ParentID == cat.ID {
				return fiber.NewError(fiber.StatusBadRequest, "Category cannot be its own parent")
			}
			cat.ParentID = body.ParentID
		}
		if body.IsActive != nil {
			cat.IsActive = *body.IsActive
		}
		if body.DisplayOrder != nil {
			cat.DisplayOrder = *body.DisplayOrder
		}

		if err := database.DB.Save(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update category")
		}

		return c.JSON(CategoryResponse{
			ID:           cat.ID,
			Name:         cat.Name,
			Description:  cat.Description,
			ParentID:     cat.ParentID,
			IsActive:     cat.IsActive,
			DisplayOrder: cat.DisplayOrder,
		})
	}
}

// DELETE /api/categories/:id
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var productCount int64
		database.DB.Model(&models.Product{}).Where("category_id = ?", id).Count(&productCount)
		if productCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Category still has products, deactivate it instead")
		}

		var childCount int64
		database.DB.Model(&models.Category{}).Where("parent_id = ?", id).Count(&childCount)
		if childCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Category still has subcategories")
		}

		if err := database.DB.Delete(&models.Category{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete category")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
