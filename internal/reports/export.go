package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

var salesCSVHeader = []string{
	"Reference", "Date", "Cashier", "Customer", "Status",
	"Subtotal", "Tax", "Discount", "Total", "Amount Paid",
	"Payment Method", "Payment Status",
}

// BuildSalesCSV writes one row per sale in the range.
func BuildSalesCSV(sales []models.Sale) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(salesCSVHeader); err != nil {
		return nil, err
	}
	for _, s := range sales {
		customer := ""
		if s.Customer != nil {
			customer = s.Customer.Name
		}
		record := []string{
			s.Reference,
			s.CreatedAt.Format("2006-01-02 15:04:05"),
			s.Cashier.Username,
			customer,
			string(s.Status),
			strconv.FormatFloat(s.Subtotal, 'f', 2, 64),
			strconv.FormatFloat(s.Tax, 'f', 2, 64),
			strconv.FormatFloat(s.Discount, 'f', 2, 64),
			strconv.FormatFloat(s.Total, 'f', 2, 64),
			strconv.FormatFloat(s.AmountPaid, 'f', 2, 64),
			s.PaymentMethod,
			string(s.PaymentStatus),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func loadSalesInRange(c *fiber.Ctx) ([]models.Sale, time.Time, time.Time, error) {
	from, to, err := parseRange(c)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}

	var sales []models.Sale
	dbq := database.DB.Preload("Cashier").Preload("Customer").
		Where("created_at >= ? AND created_at < ?", from, to)
	if status := c.Query("status"); status != "" {
		dbq = dbq.Where("status = ?", status)
	}
	if err := dbq.Order("created_at").Find(&sales).Error; err != nil {
		return nil, time.Time{}, time.Time{}, fiber.NewError(fiber.StatusInternalServerError, "Could not load sales")
	}
	return sales, from, to, nil
}

// GET /api/reports/sales/export.csv?from=&to=&status= (admin/manager)
func ExportSalesCSVHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sales, from, to, err := loadSalesInRange(c)
		if err != nil {
			return err
		}

		data, err := BuildSalesCSV(sales)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build CSV")
		}

		c.Set("Content-Type", "text/csv")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="sales-%s-%s.csv"`,
			from.Format("20060102"), to.AddDate(0, 0, -1).Format("20060102")))
		return c.Send(data)
	}
}

// BuildSalesWorkbook renders a sales sheet plus a per-line-item detail sheet.
func BuildSalesWorkbook(sales []models.Sale) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Sales"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range salesCSVHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, s := range sales {
		customer := ""
		if s.Customer != nil {
			customer = s.Customer.Name
		}
		values := []interface{}{
			s.Reference, s.CreatedAt.Format("2006-01-02 15:04:05"), s.Cashier.Username,
			customer, string(s.Status),
			s.Subtotal, s.Tax, s.Discount, s.Total, s.AmountPaid,
			s.PaymentMethod, string(s.PaymentStatus),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	itemSheet := "Line Items"
	if _, err := f.NewSheet(itemSheet); err != nil {
		return nil, err
	}
	itemHeader := []string{"Sale Reference", "SKU", "Product", "Quantity", "Unit Price", "Discount", "Line Total"}
	for col, title := range itemHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(itemSheet, cell, title); err != nil {
			return nil, err
		}
	}
	row := 2
	for _, s := range sales {
		for _, item := range s.Items {
			values := []interface{}{
				s.Reference, item.Product.SKU, item.Product.Name,
				item.Quantity, item.UnitPrice, item.Discount, item.LineTotal,
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(itemSheet, cell, v); err != nil {
					return nil, err
				}
			}
			row++
		}
	}

	return f, nil
}

// GET /api/reports/sales/export.xlsx?from=&to=&status= (admin/manager)
func ExportSalesXLSXHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}

		var sales []models.Sale
		dbq := database.DB.Preload("Cashier").Preload("Customer").Preload("Items.Product").
			Where("created_at >= ? AND created_at < ?", from, to)
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}
		if err := dbq.Order("created_at").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load sales")
		}

		f, err := BuildSalesWorkbook(sales)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build workbook")
		}
		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not write workbook")
		}

		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="sales-%s-%s.xlsx"`,
			from.Format("20060102"), to.AddDate(0, 0, -1).Format("20060102")))
		return c.Send(buf.Bytes())
	}
}

// GET /api/reports/inventory/export.csv (admin/manager)
func ExportInventoryCSVHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		err := database.DB.Preload("Category").
			Where("is_active = ?", true).Order("name").Find(&products).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load products")
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		header := []string{"SKU", "Name", "Category", "Stock", "Low Stock Threshold", "Cost Price", "Inventory Value", "Low Stock"}
		if err := w.Write(header); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build CSV")
		}
		for _, p := range products {
			record := []string{
				p.SKU, p.Name, p.Category.Name,
				strconv.Itoa(p.Stock),
				strconv.Itoa(p.LowStockThreshold),
				strconv.FormatFloat(p.CostPrice, 'f', 2, 64),
				strconv.FormatFloat(p.InventoryValue(), 'f', 2, 64),
				strconv.FormatBool(p.IsLowStock()),
			}
			if err := w.Write(record); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not build CSV")
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build CSV")
		}

		c.Set("Content-Type", "text/csv")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="inventory-%s.csv"`,
			time.Now().Format("20060102")))
		return c.Send(buf.Bytes())
	}
}
