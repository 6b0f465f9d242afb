package pos

import (
	"bytes"
	"fmt"
	"time"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jung-kurt/gofpdf"
)

// BuildReceipt renders an 80mm thermal-style receipt for a completed sale.
func BuildReceipt(sale *models.Sale, settings models.Settings) ([]byte, error) {
	// 80mm roll, height grows with the item count
	height := 120.0 + float64(len(sale.Items))*5
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: 80, Ht: height},
	})
	pdf.SetMargins(4, 6, 4)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(72, 6, settings.StoreName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	if settings.StoreAddress != "" {
		pdf.CellFormat(72, 4, settings.StoreAddress, "", 1, "C", false, 0, "")
	}
	if settings.StorePhone != "" {
		pdf.CellFormat(72, 4, settings.StorePhone, "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Courier", "", 8)
	pdf.CellFormat(72, 4, "Receipt: "+sale.Reference, "", 1, "L", false, 0, "")
	pdf.CellFormat(72, 4, "Date:    "+sale.CreatedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	if sale.Cashier.Username != "" {
		pdf.CellFormat(72, 4, "Cashier: "+sale.Cashier.Username, "", 1, "L", false, 0, "")
	}
	if sale.Customer != nil {
		pdf.CellFormat(72, 4, "Customer: "+sale.Customer.Name, "", 1, "L", false, 0, "")
	}
	pdf.Ln(1)
	pdf.CellFormat(72, 2, "----------------------------------------", "", 1, "C", false, 0, "")

	cur := settings.CurrencySymbol
	for _, item := range sale.Items {
		name := item.Product.Name
		if len(name) > 30 {
			name = name[:30]
		}
		pdf.CellFormat(72, 4, name, "", 1, "L", false, 0, "")
		line := fmt.Sprintf("  %d x %s%.2f", item.Quantity, cur, item.UnitPrice)
		pdf.CellFormat(48, 4, line, "", 0, "L", false, 0, "")
		pdf.CellFormat(24, 4, fmt.Sprintf("%s%.2f", cur, item.LineTotal), "", 1, "R", false, 0, "")
	}

	pdf.CellFormat(72, 2, "----------------------------------------", "", 1, "C", false, 0, "")
	receiptTotalRow(pdf, "Subtotal", cur, sale.Subtotal, false)
	receiptTotalRow(pdf, "Tax", cur, sale.Tax, false)
	if sale.Discount > 0 {
		receiptTotalRow(pdf, "Discount", "-"+cur, sale.Discount, false)
	}
	receiptTotalRow(pdf, "TOTAL", cur, sale.Total, true)
	pdf.Ln(1)

	for _, payment := range sale.Payments {
		receiptTotalRow(pdf, "Paid ("+string(payment.Method)+")", cur, payment.Amount, false)
		if payment.ChangeAmount != nil && *payment.ChangeAmount > 0 {
			receiptTotalRow(pdf, "Change", cur, *payment.ChangeAmount, false)
		}
	}
	if sale.PaymentStatus == models.PaymentStatusPartial {
		receiptTotalRow(pdf, "Balance due", cur, sale.Total-sale.AmountPaid, true)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "", 8)
	if settings.ReceiptFooter != "" {
		pdf.CellFormat(72, 4, settings.ReceiptFooter, "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(72, 4, "Thank you for your purchase!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func receiptTotalRow(pdf *gofpdf.Fpdf, label, cur string, amount float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Courier", style, 8)
	pdf.CellFormat(48, 4, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(24, 4, fmt.Sprintf("%s%.2f", cur, amount), "", 1, "R", false, 0, "")
	pdf.SetFont("Courier", "", 8)
}

// GET /api/sales/:reference/receipt
func ReceiptHandler() fiber.Handler {
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

		settings, err := database.GetSettings()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load store settings")
		}

		pdfBytes, err := BuildReceipt(&sale, settings)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not render receipt")
		}

		c.Set("Content-Type", "application/pdf")
		c.Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="receipt-%s-%s.pdf"`, sale.Reference, time.Now().Format("20060102")))
		return c.Send(pdfBytes)
	}
}
