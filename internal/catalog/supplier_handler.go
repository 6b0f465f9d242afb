package catalog

import (
	"strings"

	"pos-backend/internal/auth"
	"pos-backend/internal/audit"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SupplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
}

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Supplier{})
		if c.Query("active") == "true" {
			dbq = dbq.Where("is_active = ?", true)
		}

		var suppliers []models.Supplier
		if err := dbq.Order("name asc").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list suppliers")
		}
		return c.JSON(suppliers)
	}
}

// POST /api/suppliers (admin/manager)
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		s := models.Supplier{
			Name:          body.Name,
			ContactPerson: strings.TrimSpace(body.ContactPerson),
			Email:         strings.TrimSpace(body.Email),
			Phone:         strings.TrimSpace(body.Phone),
			Address:       strings.TrimSpace(body.Address),
			Notes:         body.Notes,
			IsActive:      true,
		}

		if err := database.DB.Create(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create supplier")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "supplier",
			EntityID:    s.ID,
			Action:      models.AuditActionCreate,
			Description: "Created supplier " + s.Name,
			After:       s,
		})

		return c.Status(fiber.StatusCreated).JSON(s)
	}
}

// PUT /api/suppliers/:id (admin/manager)
func UpdateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var s models.Supplier
		if err := database.DB.First(&s, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}
		before := s

		var body struct {
			SupplierRequest
			IsActive *bool `json:"is_active"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if name := strings.TrimSpace(body.Name); name != "" {
			s.Name = name
		}
		s.ContactPerson = strings.TrimSpace(body.ContactPerson)
		s.Email = strings.TrimSpace(body.Email)
		s.Phone = strings.TrimSpace(body.Phone)
		s.Address = strings.TrimSpace(body.Address)
		s.Notes = body.Notes
		if body.IsActive != nil {
			s.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update supplier")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "supplier",
			EntityID:    s.ID,
			Action:      models.AuditActionUpdate,
			Description: "Updated supplier " + s.Name,
			Before:      before,
			After:       s,
		})

		return c.JSON(s)
	}
}

// DELETE /api/suppliers/:id (admin/manager)
func DeleteSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var s models.Supplier
		if err := database.DB.First(&s, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}

		if err := database.DB.Delete(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete supplier")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "supplier",
			EntityID:    s.ID,
			Action:      models.AuditActionDelete,
			Description: "Deleted supplier " + s.Name,
			Before:      s,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
