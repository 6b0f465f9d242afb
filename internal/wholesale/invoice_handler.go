package wholesale

import (
	"fmt"
	"strings"
	"time"

	"pos-backend/internal/audit"
	"pos-backend/internal/auth"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type InvoiceItemRequest struct {
	ProductID   uint    `json:"product_id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"` // 0 = use the customer's price
	Discount    float64 `json:"discount"`
}

type CreateInvoiceRequest struct {
	CustomerID     uint                 `json:"customer_id"`
	SaleID         *uint                `json:"sale_id"`
	PaymentTerms   string               `json:"payment_terms"`
	DueDate        string               `json:"due_date"` // required for custom terms
	DiscountAmount float64              `json:"discount_amount"`
	Notes          string               `json:"notes"`
	Items          []InvoiceItemRequest `json:"items"`
}

type InvoiceItemResponse struct {
	ProductID   uint    `json:"product_id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
	TaxRate     float64 `json:"tax_rate"`
	Total       float64 `json:"total"`
}

type InvoiceResponse struct {
	ID             uint                  `json:"id"`
	Number         string                `json:"number"`
	CustomerID     uint                  `json:"customer_id"`
	CustomerName   string                `json:"customer_name,omitempty"`
	SaleID         *uint                 `json:"sale_id,omitempty"`
	IssueDate      string                `json:"issue_date"`
	DueDate        string                `json:"due_date"`
	PaymentTerms   string                `json:"payment_terms"`
	Subtotal       float64               `json:"subtotal"`
	TaxAmount      float64               `json:"tax_amount"`
	DiscountAmount float64               `json:"discount_amount"`
	TotalAmount    float64               `json:"total_amount"`
	AmountPaid     float64               `json:"amount_paid"`
	BalanceDue     float64               `json:"balance_due"`
	Status         string                `json:"status"`
	Notes          string                `json:"notes,omitempty"`
	Items          []InvoiceItemResponse `json:"items,omitempty"`
}

func toInvoiceResponse(inv *models.Invoice) InvoiceResponse {
	res := InvoiceResponse{
		ID:             inv.ID,
		Number:         inv.Number,
		CustomerID:     inv.CustomerID,
		CustomerName:   inv.Customer.Name,
		SaleID:         inv.SaleID,
		IssueDate:      inv.IssueDate.Format("2006-01-02"),
		DueDate:        inv.DueDate.Format("2006-01-02"),
		PaymentTerms:   string(inv.PaymentTerms),
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		DiscountAmount: inv.DiscountAmount,
		TotalAmount:    inv.TotalAmount,
		AmountPaid:     inv.AmountPaid,
		BalanceDue:     inv.BalanceDue(),
		Status:         string(inv.Status),
		Notes:          inv.Notes,
	}
	for _, item := range inv.Items {
		res.Items = append(res.Items, InvoiceItemResponse{
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			TaxRate:     item.TaxRate,
			Total:       item.Total,
		})
	}
	return res
}

func parsePaymentTerms(raw string) (models.PaymentTerms, error) {
	terms := models.PaymentTerms(raw)
	switch terms {
	case models.TermsNet30, models.TermsNet15, models.TermsNet7,
		models.TermsDueOnReceipt, models.TermsCustom:
		return terms, nil
	case "":
		return models.TermsNet30, nil
	}
	return "", fmt.Errorf("unknown payment terms %q", raw)
}

// nextInvoiceNumber allocates the next per-year sequence inside the caller's
// transaction.
func nextInvoiceNumber(tx *gorm.DB, now time.Time) (string, error) {
	year := now.Year()
	var count int64
	err := tx.Model(&models.Invoice{}).
		Where("number LIKE ?", fmt.Sprintf("INV-%d-%%", year)).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return models.InvoiceNumber(year, int(count)+1), nil
}

// POST /api/invoices (admin/manager)
func CreateInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInvoiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invoice must have at least one item")
		}
		if body.DiscountAmount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Discount cannot be negative")
		}

		terms, err := parsePaymentTerms(body.PaymentTerms)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var customer models.Customer
		if err := database.DB.First(&customer, body.CustomerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		now := time.Now()
		dueDate := models.DueDateFor(now, terms)
		if terms == models.TermsCustom {
			if body.DueDate == "" {
				return fiber.NewError(fiber.StatusBadRequest, "due_date is required for custom terms")
			}
			parsed, err := time.Parse("2006-01-02", body.DueDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "due_date is invalid (YYYY-MM-DD)")
			}
			dueDate = parsed
		}

		var invoice models.Invoice
		var userErr *fiber.Error

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			number, err := nextInvoiceNumber(tx, now)
			if err != nil {
				return err
			}

			invoice = models.Invoice{
				Number:         number,
				CustomerID:     customer.ID,
				SaleID:         body.SaleID,
				IssueDate:      now,
				DueDate:        dueDate,
				PaymentTerms:   terms,
				DiscountAmount: body.DiscountAmount,
				Status:         models.InvoiceUnpaid,
				Notes:          body.Notes,
				CreatedByID:    userID,
			}

			for _, itemReq := range body.Items {
				if itemReq.Quantity <= 0 {
					userErr = fiber.NewError(fiber.StatusBadRequest, "Item quantity must be positive")
					return userErr
				}

				var product models.Product
				if err := tx.First(&product, itemReq.ProductID).Error; err != nil {
					userErr = fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Product %d not found", itemReq.ProductID))
					return userErr
				}

				unitPrice := itemReq.UnitPrice
				if unitPrice <= 0 {
					unitPrice, _ = product.PriceFor(&customer, itemReq.Quantity)
				}

				description := itemReq.Description
				if description == "" {
					description = product.Name
				}

				item := models.InvoiceItem{
					ProductID:   product.ID,
					Description: description,
					Quantity:    itemReq.Quantity,
					UnitPrice:   unitPrice,
					Discount:    itemReq.Discount,
					TaxRate:     product.TaxRate,
				}
				item.ComputeTotal()

				invoice.Subtotal += item.Subtotal()
				invoice.TaxAmount += item.TaxAmount()
				invoice.Items = append(invoice.Items, item)
			}

			invoice.TotalAmount = invoice.Subtotal + invoice.TaxAmount - invoice.DiscountAmount
			if invoice.TotalAmount < 0 {
				invoice.TotalAmount = 0
			}

			return tx.Create(&invoice).Error
		})
		if txErr != nil {
			if userErr != nil {
				return userErr
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create invoice")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "invoice",
			EntityID:    invoice.ID,
			Action:      models.AuditActionCreate,
			Description: "Created invoice " + invoice.Number,
			IPAddress:   c.IP(),
			After:       invoice,
		})

		invoice.Customer = customer
		return c.Status(fiber.StatusCreated).JSON(toInvoiceResponse(&invoice))
	}
}

// POST /api/invoices/from-sale/:sale_id (admin/manager)
// Bills the unpaid balance of a part-paid wholesale sale.
func CreateInvoiceFromSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		saleID := c.Params("sale_id")

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var sale models.Sale
		err = database.DB.Preload("Items.Product").Preload("Customer").
			First(&sale, "id = ?", saleID).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}
		if sale.CustomerID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sale has no customer to invoice")
		}
		if sale.Status != models.SaleCompleted {
			return fiber.NewError(fiber.StatusBadRequest, "Only completed sales can be invoiced")
		}

		var existing models.Invoice
		if err := database.DB.Where("sale_id = ?", sale.ID).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "Sale already has invoice "+existing.Number)
		}

		terms, err := parsePaymentTerms(c.Query("terms"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if terms == models.TermsCustom {
			return fiber.NewError(fiber.StatusBadRequest, "Custom terms need an explicit invoice, not from-sale")
		}

		now := time.Now()
		var invoice models.Invoice

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			number, err := nextInvoiceNumber(tx, now)
			if err != nil {
				return err
			}

			invoice = models.Invoice{
				Number:         number,
				CustomerID:     *sale.CustomerID,
				SaleID:         &sale.ID,
				IssueDate:      now,
				DueDate:        models.DueDateFor(now, terms),
				PaymentTerms:   terms,
				Subtotal:       sale.Subtotal,
				TaxAmount:      sale.Tax,
				DiscountAmount: sale.Discount,
				TotalAmount:    sale.Total,
				AmountPaid:     sale.AmountPaid,
				Notes:          "From sale " + sale.Reference,
				CreatedByID:    userID,
			}
			invoice.RefreshStatus(now)

			for _, saleItem := range sale.Items {
				invoice.Items = append(invoice.Items, models.InvoiceItem{
					ProductID:   saleItem.ProductID,
					Description: saleItem.Product.Name,
					Quantity:    saleItem.Quantity,
					UnitPrice:   saleItem.UnitPrice,
					Discount:    saleItem.Discount,
					TaxRate:     saleItem.TaxRate,
					Total:       saleItem.LineTotal + saleItem.TaxAmount(),
				})
			}

			return tx.Create(&invoice).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create invoice")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "invoice",
			EntityID:    invoice.ID,
			Action:      models.AuditActionCreate,
			Description: "Created invoice " + invoice.Number + " from sale " + sale.Reference,
			IPAddress:   c.IP(),
			After:       invoice,
		})

		if sale.Customer != nil {
			invoice.Customer = *sale.Customer
		}
		return c.Status(fiber.StatusCreated).JSON(toInvoiceResponse(&invoice))
	}
}

// GET /api/invoices?status=&customer_id=&overdue=true
func ListInvoicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Invoice{}).Preload("Customer")

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}
		if customerID := c.Query("customer_id"); customerID != "" {
			dbq = dbq.Where("customer_id = ?", customerID)
		}
		if c.Query("overdue") == "true" {
			dbq = dbq.Where("due_date < ? AND status NOT IN ?",
				time.Now(), []models.InvoiceStatus{models.InvoicePaid, models.InvoiceCancelled})
		}

		var invoices []models.Invoice
		if err := dbq.Order("created_at DESC").Limit(500).Find(&invoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list invoices")
		}

		now := time.Now()
		res := make([]InvoiceResponse, 0, len(invoices))
		for i := range invoices {
			invoices[i].RefreshStatus(now)
			res = append(res, toInvoiceResponse(&invoices[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/invoices/:number
func GetInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := strings.ToUpper(c.Params("number"))

		var invoice models.Invoice
		err := database.DB.
			Preload("Items.Product").
			Preload("Customer").
			Where("number = ?", number).
			First(&invoice).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
		}

		invoice.RefreshStatus(time.Now())
		return c.JSON(toInvoiceResponse(&invoice))
	}
}

type RecordPaymentRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
	Notes  string  `json:"notes"`
}

// POST /api/invoices/:number/payments (admin/manager)
// Records a payment against the invoice and reduces the customer's carried
// balance by the same amount.
func RecordInvoicePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := strings.ToUpper(c.Params("number"))

		var body RecordPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Payment amount must be positive")
		}

		method := models.PaymentMethod(body.Method)
		switch method {
		case models.PayCash, models.PayCard, models.PayMobile, models.PayCheck, models.PayOther:
		case "":
			method = models.PayCash
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Invalid payment method: "+body.Method)
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var invoice models.Invoice
		if err := database.DB.Where("number = ?", number).First(&invoice).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
		}
		if invoice.Status == models.InvoiceCancelled {
			return fiber.NewError(fiber.StatusBadRequest, "Cancelled invoices cannot take payments")
		}
		if body.Amount > invoice.BalanceDue() {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Payment exceeds balance due (%.2f)", invoice.BalanceDue()))
		}

		now := time.Now()
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			payment := models.Payment{
				Amount:      body.Amount,
				Method:      method,
				State:       models.PaymentCompleted,
				Notes:       body.Notes,
				ProcessedAt: &now,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}

			link := models.InvoicePayment{
				InvoiceID:    invoice.ID,
				PaymentID:    payment.ID,
				Amount:       body.Amount,
				Notes:        body.Notes,
				RecordedByID: userID,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}

			invoice.AmountPaid += body.Amount
			invoice.RefreshStatus(now)
			if err := tx.Model(&invoice).Updates(map[string]interface{}{
				"amount_paid": invoice.AmountPaid,
				"status":      invoice.Status,
			}).Error; err != nil {
				return err
			}

			// paying an invoice pays down the customer's account balance
			return tx.Model(&models.Customer{}).Where("id = ?", invoice.CustomerID).
				Update("current_balance", gorm.Expr("GREATEST(current_balance - ?, 0)", body.Amount)).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not record payment")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "invoice",
			EntityID:    invoice.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Recorded payment of %.2f on invoice %s", body.Amount, invoice.Number),
			IPAddress:   c.IP(),
			After:       invoice,
		})

		return c.JSON(fiber.Map{
			"message":     "Payment recorded",
			"number":      invoice.Number,
			"amount_paid": invoice.AmountPaid,
			"balance_due": invoice.BalanceDue(),
			"status":      invoice.Status,
		})
	}
}

// POST /api/invoices/:number/cancel (admin/manager)
func CancelInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := strings.ToUpper(c.Params("number"))

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var invoice models.Invoice
		if err := database.DB.Where("number = ?", number).First(&invoice).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
		}
		if invoice.Status == models.InvoicePaid {
			return fiber.NewError(fiber.StatusBadRequest, "Paid invoices cannot be cancelled")
		}
		if invoice.Status == models.InvoiceCancelled {
			return fiber.NewError(fiber.StatusBadRequest, "Invoice is already cancelled")
		}

		before := invoice
		if err := database.DB.Model(&invoice).Update("status", models.InvoiceCancelled).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not cancel invoice")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "invoice",
			EntityID:    invoice.ID,
			Action:      models.AuditActionUpdate,
			Description: "Cancelled invoice " + invoice.Number,
			IPAddress:   c.IP(),
			Before:      before,
		})

		return c.JSON(fiber.Map{
			"message": "Invoice cancelled",
			"number":  invoice.Number,
		})
	}
}
