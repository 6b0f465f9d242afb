package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

var catalogHeader = []string{
	"SKU", "Barcode", "Name", "Description", "Category",
	"Cost Price", "Sell Price", "Wholesale Price", "Tax Rate",
	"Stock", "Low Stock Threshold", "Unit", "Active",
}

// BuildCatalogWorkbook renders products into an xlsx workbook.
func BuildCatalogWorkbook(products []models.Product) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Products"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range catalogHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, p := range products {
		barcode := ""
		if p.Barcode != nil {
			barcode = *p.Barcode
		}
		values := []interface{}{
			p.SKU, barcode, p.Name, p.Description, p.Category.Name,
			p.CostPrice, p.SellPrice, p.WholesalePrice, p.TaxRate,
			p.Stock, p.LowStockThreshold, p.Unit, p.IsActive,
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

	return f, nil
}

// GET /api/products/export (admin/manager)
func ExportProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Preload("Category").Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load products")
		}

		f, err := BuildCatalogWorkbook(products)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build workbook")
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not write workbook")
		}

		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="products.xlsx"`)
		return c.Send(buf.Bytes())
	}
}

type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped"`
}

// POST /api/products/import (admin/manager)
// Upload an .xlsx in the export format; rows are matched by SKU and
// created or updated. Unknown categories are created on the fly.
func ImportProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read uploaded file: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Only .xlsx files are accepted")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not open file: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read workbook: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Workbook has no sheets")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read sheet: "+err.Error())
		}
		if len(rows) < 2 {
			return fiber.NewError(fiber.StatusBadRequest, "Workbook has no data rows")
		}

		result := ImportResult{Skipped: []string{}}

		for i, row := range rows[1:] {
			rowNum := i + 2
			if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
				continue
			}

			sku := strings.TrimSpace(cell(row, 0))
			name := strings.TrimSpace(cell(row, 2))
			categoryName := strings.TrimSpace(cell(row, 4))
			if name == "" || categoryName == "" {
				result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: name and category required", rowNum))
				continue
			}

			costPrice, err1 := parseFloatCell(cell(row, 5))
			sellPrice, err2 := parseFloatCell(cell(row, 6))
			if err1 != nil || err2 != nil || costPrice < 0 || sellPrice < 0 {
				result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: invalid prices", rowNum))
				continue
			}
			wholesalePrice, _ := parseFloatCell(cell(row, 7))
			taxRate, err := parseFloatCell(cell(row, 8))
			if err != nil {
				taxRate = 0.15
			}
			stock, err := strconv.Atoi(strings.TrimSpace(cell(row, 9)))
			if err != nil || stock < 0 {
				stock = 0
			}
			threshold, err := strconv.Atoi(strings.TrimSpace(cell(row, 10)))
			if err != nil || threshold < 0 {
				threshold = 10
			}
			unit := strings.TrimSpace(cell(row, 11))
			if unit == "" {
				unit = "piece"
			}

			var category models.Category
			if err := database.DB.Where("name = ?", categoryName).First(&category).Error; err != nil {
				category = models.Category{Name: categoryName, IsActive: true}
				if err := database.DB.Create(&category).Error; err != nil {
					result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: could not create category", rowNum))
					continue
				}
			}

			var p models.Product
			if err := database.DB.Where("sku = ?", sku).First(&p).Error; err == nil {
				p.Name = name
				p.Description = strings.TrimSpace(cell(row, 3))
				p.CategoryID = category.ID
				p.CostPrice = costPrice
				p.SellPrice = sellPrice
				p.WholesalePrice = wholesalePrice
				p.TaxRate = taxRate
				p.LowStockThreshold = threshold
				p.Unit = unit
				if err := database.DB.Save(&p).Error; err != nil {
					result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: could not update", rowNum))
					continue
				}
				result.Updated++
			} else {
				p = models.Product{
					SKU:               sku,
					Name:              name,
					Description:       strings.TrimSpace(cell(row, 3)),
					CategoryID:        category.ID,
					CostPrice:         costPrice,
					SellPrice:         sellPrice,
					WholesalePrice:    wholesalePrice,
					MinWholesaleQty:   1,
					TaxRate:           taxRate,
					Stock:             stock,
					LowStockThreshold: threshold,
					Unit:              unit,
					IsActive:          true,
					TrackStock:        true,
				}
				if barcode := strings.TrimSpace(cell(row, 1)); barcode != "" {
					p.Barcode = &barcode
				}
				if err := database.DB.Create(&p).Error; err != nil {
					result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: could not create", rowNum))
					continue
				}
				result.Created++
			}
		}

		return c.JSON(result)
	}
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func parseFloatCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty cell")
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
