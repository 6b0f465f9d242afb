package pos

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pos-backend/internal/auth"
	"pos-backend/internal/audit"
	"pos-backend/internal/catalog"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateSaleItem struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Discount  float64 `json:"discount"`
}

type CreateSalePayment struct {
	Method         string   `json:"method"`
	Amount         float64  `json:"amount"`
	AmountTendered *float64 `json:"amount_tendered"`
	ChangeAmount   *float64 `json:"change_amount"`
	CardLastFour   string   `json:"card_last_four"`
}

type CreateSaleRequest struct {
	CustomerPhone string              `json:"customer_phone"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	CouponCode    string              `json:"coupon_code"`
	Discount      float64             `json:"discount"`
	Notes         string              `json:"notes"`
	Items         []CreateSaleItem    `json:"items"`
	Payments      []CreateSalePayment `json:"payments"`
}

// POST /api/sales
// Full checkout in one transaction: resolve the customer, price and validate
// each line, apply coupon/discount, record payments, deduct stock and
// complete the sale. Wholesale customers may part-pay (at least 50%), the
// remainder goes on their account balance.
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sale must have at least one item")
		}
		if len(body.Payments) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sale must have at least one payment")
		}
		for _, item := range body.Items {
			if item.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Item quantity must be positive")
			}
			if item.Discount < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Item discount cannot be negative")
			}
		}
		if body.Discount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Discount cannot be negative")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var cashier models.User
		if err := database.DB.First(&cashier, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Cashier not found")
		}

		var sale models.Sale
		var userErr *fiber.Error

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			// resolve or create the customer by phone
			var customer *models.Customer
			if phone := strings.TrimSpace(body.CustomerPhone); phone != "" {
				var cu models.Customer
				if err := tx.Where("phone = ?", phone).First(&cu).Error; err == nil {
					if name := strings.TrimSpace(body.CustomerName); name != "" {
						cu.Name = name
					}
					if email := strings.TrimSpace(body.CustomerEmail); email != "" {
						cu.Email = strings.ToLower(email)
					}
					if err := tx.Save(&cu).Error; err != nil {
						return err
					}
					customer = &cu
				} else {
					name := strings.TrimSpace(body.CustomerName)
					if name == "" {
						name = "Walk-in"
					}
					cu = models.Customer{
						Code:        models.NewCustomerCode(time.Now()),
						Name:        name,
						Email:       strings.ToLower(strings.TrimSpace(body.CustomerEmail)),
						Phone:       phone,
						Type:        models.CustomerRetail,
						LoyaltyTier: models.TierBronze,
						IsActive:    true,
						CreatedByID: &userID,
					}
					if err := tx.Create(&cu).Error; err != nil {
						return err
					}
					customer = &cu
				}
			}

			now := time.Now()
			sale = models.Sale{
				Reference:     models.NewSaleReference(now),
				CashierID:     cashier.ID,
				Discount:      body.Discount,
				PaymentMethod: resolvePaymentMethod(body.Payments),
				Status:        models.SalePending,
				Notes:         body.Notes,
				TerminalID:    cashier.TerminalID,
			}
			if customer != nil {
				sale.CustomerID = &customer.ID
			}

			// build line items with per-customer pricing
			for _, itemReq := range body.Items {
				var product models.Product
				if err := tx.First(&product, itemReq.ProductID).Error; err != nil {
					userErr = fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Product %d not found", itemReq.ProductID))
					return userErr
				}

				if !product.CanSell(itemReq.Quantity) {
					userErr = fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Product %s cannot be sold in that quantity", product.SKU))
					return userErr
				}

				unitPrice, _ := product.PriceFor(customer, itemReq.Quantity)

				item := models.SaleItem{
					ProductID: product.ID,
					Quantity:  itemReq.Quantity,
					UnitPrice: unitPrice,
					TaxRate:   product.TaxRate,
					Discount:  itemReq.Discount,
				}
				item.ComputeLineTotal()
				sale.Items = append(sale.Items, item)
			}

			sale.ComputeTotals()

			// coupon applies on top of any manual discount
			if code := strings.ToUpper(strings.TrimSpace(body.CouponCode)); code != "" {
				var coupon models.Coupon
				if err := tx.Where("code = ?", code).First(&coupon).Error; err != nil {
					userErr = fiber.NewError(fiber.StatusBadRequest, "Coupon not found")
					return userErr
				}
				if err := coupon.Validate(now, sale.Total); err != nil {
					userErr = fiber.NewError(fiber.StatusBadRequest, "Coupon rejected: "+err.Error())
					return userErr
				}
				sale.Discount += coupon.Discount(sale.Total)
				sale.CouponCode = coupon.Code
				sale.ComputeTotals()

				if err := tx.Model(&coupon).Update("times_used", gorm.Expr("times_used + 1")).Error; err != nil {
					return err
				}
			}

			// payments
			var totalPaid float64
			for _, payReq := range body.Payments {
				method := models.PaymentMethod(payReq.Method)
				switch method {
				case models.PayCash, models.PayCard, models.PayMobile, models.PayCheck, models.PayOther:
				default:
					userErr = fiber.NewError(fiber.StatusBadRequest, "Invalid payment method: "+payReq.Method)
					return userErr
				}
				if payReq.Amount <= 0 {
					userErr = fiber.NewError(fiber.StatusBadRequest, "Payment amount must be positive")
					return userErr
				}
				totalPaid += payReq.Amount
				processed := now
				sale.Payments = append(sale.Payments, models.Payment{
					Amount:         payReq.Amount,
					Method:         method,
					State:          models.PaymentCompleted,
					AmountTendered: payReq.AmountTendered,
					ChangeAmount:   payReq.ChangeAmount,
					CardLastFour:   payReq.CardLastFour,
					ProcessedAt:    &processed,
				})
			}
			sale.AmountPaid = totalPaid

			// wholesale customers may part-pay at least half, the rest goes
			// on their account; retail pays in full
			if customer != nil && customer.Type == models.CustomerWholesale {
				minPayment := sale.Total * 0.5
				if totalPaid < minPayment {
					userErr = fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("Wholesale customers must pay at least 50%% (%.2f)", minPayment))
					return userErr
				}
				if totalPaid < sale.Total {
					sale.PaymentStatus = models.PaymentStatusPartial
					remaining := sale.Total - totalPaid
					if customer.CreditLimit > 0 && customer.CurrentBalance+remaining > customer.CreditLimit {
						userErr = fiber.NewError(fiber.StatusBadRequest, "Customer credit limit exceeded")
						return userErr
					}
					if err := tx.Model(customer).
						Update("current_balance", gorm.Expr("current_balance + ?", remaining)).Error; err != nil {
						return err
					}
				} else {
					sale.PaymentStatus = models.PaymentStatusPaid
				}
			} else {
				if totalPaid < sale.Total {
					userErr = fiber.NewError(fiber.StatusBadRequest, "Insufficient payment amount")
					return userErr
				}
				sale.PaymentStatus = models.PaymentStatusPaid
			}

			if err := tx.Create(&sale).Error; err != nil {
				return err
			}

			// deduct stock for tracked products
			for i := range sale.Items {
				var product models.Product
				if err := tx.First(&product, sale.Items[i].ProductID).Error; err != nil {
					return err
				}
				if !product.TrackStock {
					continue
				}
				err := catalog.AdjustStock(tx, &product, -sale.Items[i].Quantity,
					models.AdjustSale, "Sale "+sale.Reference, &userID)
				if err != nil {
					if errors.Is(err, catalog.ErrStockBelowZero) {
						userErr = fiber.NewError(fiber.StatusBadRequest,
							fmt.Sprintf("Insufficient stock for %s", product.SKU))
						return userErr
					}
					return err
				}
			}

			// loyalty: one point per whole currency unit spent
			if customer != nil {
				settings, err := database.GetSettings()
				if err == nil && settings.EnableLoyalty {
					customer.AddLoyaltyPoints(int(sale.Total))
					if err := tx.Model(customer).Updates(map[string]interface{}{
						"loyalty_points": customer.LoyaltyPoints,
						"loyalty_tier":   customer.LoyaltyTier,
					}).Error; err != nil {
						return err
					}
				}
			}

			completed := now
			sale.Status = models.SaleCompleted
			sale.CompletedAt = &completed
			return tx.Model(&sale).Updates(map[string]interface{}{
				"status":         sale.Status,
				"completed_at":   sale.CompletedAt,
				"amount_paid":    sale.AmountPaid,
				"payment_status": sale.PaymentStatus,
			}).Error
		})

		if txErr != nil {
			if userErr != nil {
				return userErr
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create sale")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionCreate,
			Description: "Created sale " + sale.Reference,
			IPAddress:   c.IP(),
			After:       sale,
		})

		return c.Status(fiber.StatusCreated).JSON(toSaleResponse(&sale))
	}
}

// resolvePaymentMethod collapses the tender list into the sale-level label.
func resolvePaymentMethod(payments []CreateSalePayment) string {
	if len(payments) == 0 {
		return "cash"
	}
	first := payments[0].Method
	for _, p := range payments[1:] {
		if p.Method != first {
			return "mixed"
		}
	}
	return first
}

type VoidSaleRequest struct {
	Reason string `json:"reason"`
}

// POST /api/sales/:id/void (admin/manager)
// Restores stock for tracked products and reverses any balance carried to a
// wholesale account.
func VoidSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body VoidSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var sale models.Sale
		if err := database.DB.Preload("Items").First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}

		if sale.Status == models.SaleVoided {
			return fiber.NewError(fiber.StatusBadRequest, "Sale is already voided")
		}
		if sale.Status == models.SaleRefunded {
			return fiber.NewError(fiber.StatusBadRequest, "Refunded sales cannot be voided")
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			for _, item := range sale.Items {
				var product models.Product
				if err := tx.First(&product, item.ProductID).Error; err != nil {
					return err
				}
				if !product.TrackStock {
					continue
				}
				if err := catalog.AdjustStock(tx, &product, item.Quantity,
					models.AdjustReturn, "Void of sale "+sale.Reference, &userID); err != nil {
					return err
				}
			}

			// reverse balance carried on a part-paid wholesale sale
			if sale.CustomerID != nil && sale.PaymentStatus == models.PaymentStatusPartial {
				remaining := sale.Total - sale.AmountPaid
				if remaining > 0 {
					if err := tx.Model(&models.Customer{}).Where("id = ?", *sale.CustomerID).
						Update("current_balance", gorm.Expr("current_balance - ?", remaining)).Error; err != nil {
						return err
					}
				}
			}

			now := time.Now()
			return tx.Model(&sale).Updates(map[string]interface{}{
				"status":       models.SaleVoided,
				"voided_at":    &now,
				"voided_by_id": &userID,
				"void_reason":  strings.TrimSpace(body.Reason),
			}).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not void sale")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionVoid,
			Description: "Voided sale " + sale.Reference,
			IPAddress:   c.IP(),
			Before:      sale,
		})

		return c.JSON(fiber.Map{
			"message":   "Sale voided",
			"reference": sale.Reference,
		})
	}
}

type SaleItemResponse struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	TaxRate   float64 `json:"tax_rate"`
	Discount  float64 `json:"discount"`
	LineTotal float64 `json:"line_total"`
}

type PaymentResponse struct {
	Method         string   `json:"method"`
	Amount         float64  `json:"amount"`
	AmountTendered *float64 `json:"amount_tendered,omitempty"`
	ChangeAmount   *float64 `json:"change_amount,omitempty"`
}

type SaleResponse struct {
	ID            uint               `json:"id"`
	Reference     string             `json:"reference"`
	CashierID     uint               `json:"cashier_id"`
	CustomerID    *uint              `json:"customer_id"`
	Subtotal      float64            `json:"subtotal"`
	Tax           float64            `json:"tax"`
	Discount      float64            `json:"discount"`
	Total         float64            `json:"total"`
	AmountPaid    float64            `json:"amount_paid"`
	PaymentMethod string             `json:"payment_method"`
	PaymentStatus string             `json:"payment_status"`
	Status        string             `json:"status"`
	CouponCode    string             `json:"coupon_code,omitempty"`
	TerminalID    string             `json:"terminal_id,omitempty"`
	Items         []SaleItemResponse `json:"items,omitempty"`
	Payments      []PaymentResponse  `json:"payments,omitempty"`
	CreatedAt     string             `json:"created_at"`
}

func toSaleResponse(s *models.Sale) SaleResponse {
	res := SaleResponse{
		ID:            s.ID,
		Reference:     s.Reference,
		CashierID:     s.CashierID,
		CustomerID:    s.CustomerID,
		Subtotal:      s.Subtotal,
		Tax:           s.Tax,
		Discount:      s.Discount,
		Total:         s.Total,
		AmountPaid:    s.AmountPaid,
		PaymentMethod: s.PaymentMethod,
		PaymentStatus: string(s.PaymentStatus),
		Status:        string(s.Status),
		CouponCode:    s.CouponCode,
		TerminalID:    s.TerminalID,
		CreatedAt:     s.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, item := range s.Items {
		res.Items = append(res.Items, SaleItemResponse{
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			SKU:       item.Product.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			TaxRate:   item.TaxRate,
			Discount:  item.Discount,
			LineTotal: item.LineTotal,
		})
	}
	for _, payment := range s.Payments {
		res.Payments = append(res.Payments, PaymentResponse{
			Method:         string(payment.Method),
			Amount:         payment.Amount,
			AmountTendered: payment.AmountTendered,
			ChangeAmount:   payment.ChangeAmount,
		})
	}
	return res
}

// GET /api/sales?status=&from=&to=&cashier_id=&customer_id=
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Sale{})

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}
		if cashierID := c.Query("cashier_id"); cashierID != "" {
			dbq = dbq.Where("cashier_id = ?", cashierID)
		}
		if customerID := c.Query("customer_id"); customerID != "" {
			dbq = dbq.Where("customer_id = ?", customerID)
		}
		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from date is invalid (YYYY-MM-DD)")
			}
			dbq = dbq.Where("created_at >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to date is invalid (YYYY-MM-DD)")
			}
			dbq = dbq.Where("created_at < ?", to.AddDate(0, 0, 1))
		}

		var sales []models.Sale
		if err := dbq.Order("created_at DESC").Limit(500).Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales")
		}

		res := make([]SaleResponse, 0, len(sales))
		for i := range sales {
			res = append(res, toSaleResponse(&sales[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/sales/:reference
func GetSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reference := c.Params("reference")

		var sale models.Sale
		err := database.DB.
			Preload("Items.Product").
			Preload("Payments").
			Preload("Cashier").
			Preload("Customer").
			Where("reference = ?", reference).
			First(&sale).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}

		return c.JSON(toSaleResponse(&sale))
	}
}
