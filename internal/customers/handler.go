package customers

import (
	"strings"
	"time"

	"pos-backend/internal/auth"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CustomerResponse struct {
	ID              uint    `json:"id"`
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Address         string  `json:"address"`
	Type            string  `json:"type"`
	Tags            []string `json:"tags"`
	LoyaltyPoints   int     `json:"loyalty_points"`
	LoyaltyTier     string  `json:"loyalty_tier"`
	CreditLimit     float64 `json:"credit_limit"`
	CurrentBalance  float64 `json:"current_balance"`
	DiscountPercent float64 `json:"discount_percent"`
	IsActive        bool    `json:"is_active"`
	Notes           string  `json:"notes"`
}

type CustomerRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	AddressLine1    string  `json:"address_line1"`
	AddressLine2    string  `json:"address_line2"`
	City            string  `json:"city"`
	State           string  `json:"state"`
	PostalCode      string  `json:"postal_code"`
	Country         string  `json:"country"`
	Type            string  `json:"type"`
	Tags            string  `json:"tags"`
	CreditLimit     float64 `json:"credit_limit"`
	DiscountPercent float64 `json:"discount_percent"`
	Notes           string  `json:"notes"`
}

func toCustomerResponse(cu *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              cu.ID,
		Code:            cu.Code,
		Name:            cu.Name,
		Email:           cu.Email,
		Phone:           cu.Phone,
		Address:         cu.FullAddress(),
		Type:            string(cu.Type),
		Tags:            cu.TagList(),
		LoyaltyPoints:   cu.LoyaltyPoints,
		LoyaltyTier:     string(cu.LoyaltyTier),
		CreditLimit:     cu.CreditLimit,
		CurrentBalance:  cu.CurrentBalance,
		DiscountPercent: cu.DiscountPercent,
		IsActive:        cu.IsActive,
		Notes:           cu.Notes,
	}
}

func parseCustomerType(s string) (models.CustomerType, bool) {
	switch models.CustomerType(s) {
	case models.CustomerRetail, models.CustomerWholesale, models.CustomerVIP:
		return models.CustomerType(s), true
	case "":
		return models.CustomerRetail, true
	}
	return "", false
}

// GET /api/customers?search=&type=&active=
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Customer{})

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			dbq = dbq.Where("LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ? OR LOWER(code) LIKE ?",
				like, "%"+search+"%", like, like)
		}
		if typ := c.Query("type"); typ != "" {
			dbq = dbq.Where("type = ?", typ)
		}
		if c.Query("active") == "true" {
			dbq = dbq.Where("is_active = ?", true)
		}

		var customers []models.Customer
		if err := dbq.Order("name asc").Limit(500).Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list customers")
		}

		res := make([]CustomerResponse, 0, len(customers))
		for i := range customers {
			res = append(res, toCustomerResponse(&customers[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/customers/:id
func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cu models.Customer
		if err := database.DB.First(&cu, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		return c.JSON(toCustomerResponse(&cu))
	}
}

// POST /api/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		customerType, ok := parseCustomerType(body.Type)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid customer type")
		}
		if body.DiscountPercent < 0 || body.DiscountPercent > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "discount_percent must be between 0 and 100")
		}

		userID, _ := auth.CurrentUserID(c)
		cu := models.Customer{
			Code:            models.NewCustomerCode(time.Now()),
			Name:            body.Name,
			Email:           strings.TrimSpace(strings.ToLower(body.Email)),
			Phone:           strings.TrimSpace(body.Phone),
			AddressLine1:    strings.TrimSpace(body.AddressLine1),
			AddressLine2:    strings.TrimSpace(body.AddressLine2),
			City:            strings.TrimSpace(body.City),
			State:           strings.TrimSpace(body.State),
			PostalCode:      strings.TrimSpace(body.PostalCode),
			Country:         strings.TrimSpace(body.Country),
			Type:            customerType,
			Tags:            strings.TrimSpace(body.Tags),
			LoyaltyTier:     models.TierBronze,
			CreditLimit:     body.CreditLimit,
			DiscountPercent: body.DiscountPercent,
			IsActive:        true,
			Notes:           body.Notes,
			CreatedByID:     &userID,
		}

		if err := database.DB.Create(&cu).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create customer")
		}

		return c.Status(fiber.StatusCreated).JSON(toCustomerResponse(&cu))
	}
}

// PUT /api/customers/:id
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cu models.Customer
		if err := database.DB.First(&cu, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		var body struct {
			CustomerRequest
			IsActive *bool `json:"is_active"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if name := strings.TrimSpace(body.Name); name != "" {
			cu.Name = name
		}
		if body.Type != "" {
			customerType, ok := parseCustomerType(body.Type)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid customer type")
			}
			cu.Type = customerType
		}
		if body.DiscountPercent < 0 || body.DiscountPercent > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "discount_percent must be between 0 and 100")
		}

		cu.Email = strings.TrimSpace(strings.ToLower(body.Email))
		cu.Phone = strings.TrimSpace(body.Phone)
		cu.AddressLine1 = strings.TrimSpace(body.AddressLine1)
		cu.AddressLine2 = strings.TrimSpace(body.AddressLine2)
		cu.City = strings.TrimSpace(body.City)
		cu.State = strings.TrimSpace(body.State)
		cu.PostalCode = strings.TrimSpace(body.PostalCode)
		cu.Country = strings.TrimSpace(body.Country)
		cu.Tags = strings.TrimSpace(body.Tags)
		cu.CreditLimit = body.CreditLimit
		cu.DiscountPercent = body.DiscountPercent
		cu.Notes = body.Notes
		if body.IsActive != nil {
			cu.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&cu).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update customer")
		}

		return c.JSON(toCustomerResponse(&cu))
	}
}

// DELETE /api/customers/:id
// Customers with purchase history are deactivated, not deleted.
func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cu models.Customer
		if err := database.DB.First(&cu, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		var saleCount int64
		database.DB.Model(&models.Sale{}).Where("customer_id = ?", cu.ID).Count(&saleCount)
		if saleCount > 0 {
			cu.IsActive = false
			if err := database.DB.Save(&cu).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not deactivate customer")
			}
			return c.JSON(fiber.Map{
				"message": "Customer has purchase history, deactivated instead of deleted",
			})
		}

		if err := database.DB.Delete(&cu).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete customer")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

type PurchaseHistoryEntry struct {
	Reference string  `json:"reference"`
	Total     float64 `json:"total"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// purchaseHistoryQuery scopes a sales query to a customer's completed
// purchases. Voided and pending sales stay out of the history.
func purchaseHistoryQuery(db *gorm.DB, customerID uint) *gorm.DB {
	return db.Model(&models.Sale{}).
		Where("customer_id = ? AND status = ?", customerID, models.SaleCompleted)
}

// GET /api/customers/:id/purchases
func PurchaseHistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cu models.Customer
		if err := database.DB.First(&cu, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		var sales []models.Sale
		if err := purchaseHistoryQuery(database.DB, cu.ID).
			Order("created_at DESC").Limit(200).Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load purchases")
		}

		var totalSpent float64
		var purchaseCount int64
		purchaseHistoryQuery(database.DB, cu.ID).Count(&purchaseCount)
		purchaseHistoryQuery(database.DB, cu.ID).
			Select("COALESCE(SUM(total), 0)").Scan(&totalSpent)

		history := make([]PurchaseHistoryEntry, 0, len(sales))
		for _, s := range sales {
			history = append(history, PurchaseHistoryEntry{
				Reference: s.Reference,
				Total:     s.Total,
				Status:    string(s.Status),
				CreatedAt: s.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(fiber.Map{
			"customer_id":    cu.ID,
			"total_spent":    totalSpent,
			"purchase_count": purchaseCount,
			"purchases":      history,
		})
	}
}
