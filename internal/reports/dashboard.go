package reports

import (
	"time"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type periodSummary struct {
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

type topProductRow struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

type topCustomerRow struct {
	CustomerID uint    `json:"customer_id"`
	Name       string  `json:"name"`
	Total      float64 `json:"total"`
	Count      int64   `json:"count"`
}

type paymentBreakdownRow struct {
	Method string  `json:"method"`
	Total  float64 `json:"total"`
	Count  int64   `json:"count"`
}

type trendPoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

func summarize(from, to time.Time) (periodSummary, error) {
	var s periodSummary
	err := database.DB.Model(&models.Sale{}).
		Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Where("status = ? AND created_at >= ? AND created_at < ?", models.SaleCompleted, from, to).
		Scan(&s).Error
	return s, err
}

// GET /api/reports/dashboard (admin/manager)
// One call powering the management home screen.
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		startOfWeek := startOfDay.AddDate(0, 0, -int(now.Weekday()))
		startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		tomorrow := startOfDay.AddDate(0, 0, 1)

		today, err := summarize(startOfDay, tomorrow)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute dashboard")
		}
		week, err := summarize(startOfWeek, tomorrow)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute dashboard")
		}
		month, err := summarize(startOfMonth, tomorrow)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute dashboard")
		}

		// top products this month by revenue
		var topProducts []topProductRow
		err = database.DB.Model(&models.SaleItem{}).
			Select("sale_items.product_id, products.name, products.sku, SUM(sale_items.quantity) AS quantity, SUM(sale_items.line_total) AS revenue").
			Joins("JOIN products ON products.id = sale_items.product_id").
			Joins("JOIN sales ON sales.id = sale_items.sale_id").
			Where("sales.status = ? AND sales.created_at >= ?", models.SaleCompleted, startOfMonth).
			Group("sale_items.product_id, products.name, products.sku").
			Order("revenue DESC").
			Limit(10).
			Scan(&topProducts).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute dashboard")
		}

		// top customers this month
		var topCustomers []topCustomerRow
		err = database.DB.Model(&models.Sale{}).
			Select("sales.customer_id, customers.name, SUM(sales.total) AS total, COUNT(*) AS count").
			Joins("JOIN customers ON customers.id = sales.customer_id").
			Where("sales.status = ? AND sales.created_at >= ? AND sales.customer_id IS NOT NULL",
				models.SaleCompleted, startOfMonth).
			Group("sales.customer_id, customers.name").
			Order("total DESC").
			Limit(5).
			Scan(&topCustomers).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute dashboard")
		}

		// payment method breakdown for today
		var payments []paymentBreakdownRow
		err = database.DB.Model(&models.Payment{}).
			Select("payments.method, COALESCE(SUM(payments.amount), 0) AS total, COUNT(*) AS count").
			Joins("JOIN sales ON sales.id = payments.sale_id").
			Where("sales.status = ? AND sales.created_at >= ?", models.SaleCompleted, startOfDay).
			Group("payments.method").
			Scan(&payments).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute dashboard")
		}

		// 7-day sales trend, zero-filled
		trend := make([]trendPoint, 0, 7)
		for i := 6; i >= 0; i-- {
			dayStart := startOfDay.AddDate(0, 0, -i)
			s, err := summarize(dayStart, dayStart.AddDate(0, 0, 1))
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not compute dashboard")
			}
			trend = append(trend, trendPoint{
				Date:  dayStart.Format("2006-01-02"),
				Total: s.Total,
				Count: s.Count,
			})
		}

		var recentSales []models.Sale
		err = database.DB.Preload("Customer").
			Order("created_at DESC").Limit(10).Find(&recentSales).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute dashboard")
		}
		recent := make([]fiber.Map, 0, len(recentSales))
		for _, s := range recentSales {
			entry := fiber.Map{
				"reference":  s.Reference,
				"total":      s.Total,
				"status":     s.Status,
				"created_at": s.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			if s.Customer != nil {
				entry["customer"] = s.Customer.Name
			}
			recent = append(recent, entry)
		}

		var lowStock []models.Product
		err = database.DB.
			Where("is_active = ? AND track_stock = ? AND stock <= low_stock_threshold", true, true).
			Order("stock ASC").Limit(20).Find(&lowStock).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute dashboard")
		}
		lowStockRows := make([]fiber.Map, 0, len(lowStock))
		for _, p := range lowStock {
			lowStockRows = append(lowStockRows, fiber.Map{
				"product_id": p.ID,
				"sku":        p.SKU,
				"name":       p.Name,
				"stock":      p.Stock,
				"threshold":  p.LowStockThreshold,
			})
		}

		var overdueInvoices int64
		err = database.DB.Model(&models.Invoice{}).
			Where("due_date < ? AND status NOT IN ?",
				now, []models.InvoiceStatus{models.InvoicePaid, models.InvoiceCancelled}).
			Count(&overdueInvoices).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute dashboard")
		}

		return c.JSON(fiber.Map{
			"today":             today,
			"week":              week,
			"month":             month,
			"top_products":      topProducts,
			"top_customers":     topCustomers,
			"payment_breakdown": payments,
			"sales_trend":       trend,
			"recent_sales":      recent,
			"low_stock":         lowStockRows,
			"overdue_invoices":  overdueInvoices,
		})
	}
}
