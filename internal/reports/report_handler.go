package reports

import (
	"time"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseRange reads ?from=YYYY-MM-DD&to=YYYY-MM-DD, defaulting to the last
// 30 days. The returned end is exclusive.
func parseRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "from date is invalid (YYYY-MM-DD)")
		}
		from = parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "to date is invalid (YYYY-MM-DD)")
		}
		to = parsed
	}
	toExclusive := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)
	if !from.Before(toExclusive) {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "from must be before to")
	}
	return from, toExclusive, nil
}

type salesSummary struct {
	Total    float64 `json:"total"`
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Count    int64   `json:"count"`
}

// GET /api/reports/sales?from=&to=&group_by=day|week|month (admin/manager)
func SalesReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}

		var summary salesSummary
		err = database.DB.Model(&models.Sale{}).
			Select("COALESCE(SUM(total),0) AS total, COALESCE(SUM(subtotal),0) AS subtotal, COALESCE(SUM(tax),0) AS tax, COALESCE(SUM(discount),0) AS discount, COUNT(*) AS count").
			Where("status = ? AND created_at >= ? AND created_at < ?", models.SaleCompleted, from, to).
			Scan(&summary).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build sales report")
		}

		groupBy := c.Query("group_by", "day")
		var trunc string
		switch groupBy {
		case "day":
			trunc = "day"
		case "week":
			trunc = "week"
		case "month":
			trunc = "month"
		default:
			return fiber.NewError(fiber.StatusBadRequest, "group_by must be day, week or month")
		}

		type bucketRow struct {
			Bucket time.Time `json:"-"`
			Total  float64   `json:"total"`
			Count  int64     `json:"count"`
		}
		var buckets []bucketRow
		err = database.DB.Model(&models.Sale{}).
			Select("DATE_TRUNC('"+trunc+"', created_at) AS bucket, COALESCE(SUM(total),0) AS total, COUNT(*) AS count").
			Where("status = ? AND created_at >= ? AND created_at < ?", models.SaleCompleted, from, to).
			Group("bucket").
			Order("bucket").
			Scan(&buckets).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build sales report")
		}

		series := make([]fiber.Map, 0, len(buckets))
		for _, b := range buckets {
			series = append(series, fiber.Map{
				"period": b.Bucket.Format("2006-01-02"),
				"total":  b.Total,
				"count":  b.Count,
			})
		}

		var voided int64
		if err := database.DB.Model(&models.Sale{}).
			Where("status = ? AND created_at >= ? AND created_at < ?", models.SaleVoided, from, to).
			Count(&voided).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build sales report")
		}

		average := 0.0
		if summary.Count > 0 {
			average = summary.Total / float64(summary.Count)
		}

		return c.JSON(fiber.Map{
			"from":         from.Format("2006-01-02"),
			"to":           to.AddDate(0, 0, -1).Format("2006-01-02"),
			"summary":      summary,
			"average_sale": average,
			"voided_count": voided,
			"series":       series,
		})
	}
}

// GET /api/reports/products?from=&to= (admin/manager)
// Per-product sales performance with profit derived from cost price.
func ProductReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}

		type productRow struct {
			ProductID uint    `json:"product_id"`
			SKU       string  `json:"sku"`
			Name      string  `json:"name"`
			Quantity  int     `json:"quantity"`
			Revenue   float64 `json:"revenue"`
			Cost      float64 `json:"cost"`
			Profit    float64 `json:"profit"`
		}

		var rows []productRow
		err = database.DB.Model(&models.SaleItem{}).
			Select("sale_items.product_id, products.sku, products.name, " +
				"SUM(sale_items.quantity) AS quantity, " +
				"SUM(sale_items.line_total) AS revenue, " +
				"SUM(products.cost_price * sale_items.quantity) AS cost, " +
				"SUM(sale_items.line_total - products.cost_price * sale_items.quantity) AS profit").
			Joins("JOIN products ON products.id = sale_items.product_id").
			Joins("JOIN sales ON sales.id = sale_items.sale_id").
			Where("sales.status = ? AND sales.created_at >= ? AND sales.created_at < ?",
				models.SaleCompleted, from, to).
			Group("sale_items.product_id, products.sku, products.name").
			Order("revenue DESC").
			Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build product report")
		}

		return c.JSON(fiber.Map{
			"from":     from.Format("2006-01-02"),
			"to":       to.AddDate(0, 0, -1).Format("2006-01-02"),
			"products": rows,
		})
	}
}

// GET /api/reports/customers?from=&to= (admin/manager)
func CustomerReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}

		type customerRow struct {
			CustomerID uint    `json:"customer_id"`
			Code       string  `json:"code"`
			Name       string  `json:"name"`
			Type       string  `json:"type"`
			Total      float64 `json:"total"`
			Count      int64   `json:"count"`
			Balance    float64 `json:"balance"`
		}

		var rows []customerRow
		err = database.DB.Model(&models.Sale{}).
			Select("sales.customer_id, customers.code, customers.name, customers.type, "+
				"COALESCE(SUM(sales.total),0) AS total, COUNT(*) AS count, customers.current_balance AS balance").
			Joins("JOIN customers ON customers.id = sales.customer_id").
			Where("sales.status = ? AND sales.created_at >= ? AND sales.created_at < ? AND sales.customer_id IS NOT NULL",
				models.SaleCompleted, from, to).
			Group("sales.customer_id, customers.code, customers.name, customers.type, customers.current_balance").
			Order("total DESC").
			Limit(200).
			Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build customer report")
		}

		var walkIn salesSummary
		err = database.DB.Model(&models.Sale{}).
			Select("COALESCE(SUM(total),0) AS total, COUNT(*) AS count").
			Where("status = ? AND created_at >= ? AND created_at < ? AND customer_id IS NULL",
				models.SaleCompleted, from, to).
			Scan(&walkIn).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build customer report")
		}

		return c.JSON(fiber.Map{
			"from":      from.Format("2006-01-02"),
			"to":        to.AddDate(0, 0, -1).Format("2006-01-02"),
			"customers": rows,
			"walk_in":   walkIn,
		})
	}
}

// GET /api/reports/inventory (admin/manager)
// Stock valuation snapshot plus recent adjustment activity.
func InventoryReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		type valuationRow struct {
			TotalProducts int64   `json:"total_products"`
			TotalUnits    int64   `json:"total_units"`
			CostValue     float64 `json:"cost_value"`
			RetailValue   float64 `json:"retail_value"`
		}
		var valuation valuationRow
		err := database.DB.Model(&models.Product{}).
			Select("COUNT(*) AS total_products, COALESCE(SUM(stock),0) AS total_units, "+
				"COALESCE(SUM(cost_price * stock),0) AS cost_value, "+
				"COALESCE(SUM(sell_price * stock),0) AS retail_value").
			Where("is_active = ? AND track_stock = ?", true, true).
			Scan(&valuation).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build inventory report")
		}

		var lowStockCount int64
		err = database.DB.Model(&models.Product{}).
			Where("is_active = ? AND track_stock = ? AND stock <= low_stock_threshold", true, true).
			Count(&lowStockCount).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build inventory report")
		}

		var outOfStockCount int64
		err = database.DB.Model(&models.Product{}).
			Where("is_active = ? AND track_stock = ? AND stock <= 0", true, true).
			Count(&outOfStockCount).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build inventory report")
		}

		// adjustment totals by reason over the last 30 days
		type reasonRow struct {
			Reason string `json:"reason"`
			Count  int64  `json:"count"`
			Units  int64  `json:"units"`
		}
		var reasons []reasonRow
		err = database.DB.Model(&models.InventoryAdjustment{}).
			Select("reason, COUNT(*) AS count, COALESCE(SUM(ABS(quantity_change)),0) AS units").
			Where("created_at >= ?", time.Now().AddDate(0, 0, -30)).
			Group("reason").
			Scan(&reasons).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build inventory report")
		}

		return c.JSON(fiber.Map{
			"valuation":    valuation,
			"low_stock":    lowStockCount,
			"out_of_stock": outOfStockCount,
			"adjustments":  reasons,
		})
	}
}
