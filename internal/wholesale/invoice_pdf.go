package wholesale

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jung-kurt/gofpdf"
)

// BuildInvoicePDF renders an A4 invoice document.
func BuildInvoicePDF(inv *models.Invoice, settings models.Settings) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// header: store block on the left, invoice meta on the right
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(120, 8, settings.StoreName, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(60, 8, "INVOICE", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	if settings.StoreAddress != "" {
		pdf.CellFormat(120, 5, settings.StoreAddress, "", 0, "L", false, 0, "")
	} else {
		pdf.CellFormat(120, 5, "", "", 0, "L", false, 0, "")
	}
	pdf.CellFormat(60, 5, inv.Number, "", 1, "R", false, 0, "")
	contact := settings.StorePhone
	if settings.StoreEmail != "" {
		if contact != "" {
			contact += " / "
		}
		contact += settings.StoreEmail
	}
	pdf.CellFormat(120, 5, contact, "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 5, "Issued: "+inv.IssueDate.Format("2006-01-02"), "", 1, "R", false, 0, "")
	pdf.CellFormat(120, 5, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 5, "Due: "+inv.DueDate.Format("2006-01-02"), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	// bill-to block
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(180, 6, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(180, 5, inv.Customer.Name+" ("+inv.Customer.Code+")", "", 1, "L", false, 0, "")
	if inv.Customer.Phone != "" {
		pdf.CellFormat(180, 5, inv.Customer.Phone, "", 1, "L", false, 0, "")
	}
	if addr := inv.Customer.FullAddress(); addr != "" {
		pdf.CellFormat(180, 5, addr, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(180, 5, "Terms: "+termsLabel(inv.PaymentTerms), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// item table
	cur := settings.CurrencySymbol
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(80, 7, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(28, 7, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(24, 7, "Tax", "1", 0, "R", true, 0, "")
	pdf.CellFormat(28, 7, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range inv.Items {
		description := item.Description
		if len(description) > 45 {
			description = description[:45]
		}
		pdf.CellFormat(80, 6, description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(28, 6, fmt.Sprintf("%s%.2f", cur, item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(24, 6, fmt.Sprintf("%s%.2f", cur, item.TaxAmount()), "1", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, fmt.Sprintf("%s%.2f", cur, item.Total), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// totals block, right aligned
	invoiceTotalRow(pdf, "Subtotal", cur, inv.Subtotal, false)
	invoiceTotalRow(pdf, "Tax", cur, inv.TaxAmount, false)
	if inv.DiscountAmount > 0 {
		invoiceTotalRow(pdf, "Discount", "-"+cur, inv.DiscountAmount, false)
	}
	invoiceTotalRow(pdf, "Total", cur, inv.TotalAmount, true)
	invoiceTotalRow(pdf, "Paid", cur, inv.AmountPaid, false)
	invoiceTotalRow(pdf, "Balance Due", cur, inv.BalanceDue(), true)

	if inv.Status == models.InvoiceOverdue {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(180, 6, "OVERDUE", "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	if inv.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(180, 5, "Notes: "+inv.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func invoiceTotalRow(pdf *gofpdf.Fpdf, label, cur string, amount float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 10)
	pdf.CellFormat(124, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(28, 6, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(28, 6, fmt.Sprintf("%s%.2f", cur, amount), "", 1, "R", false, 0, "")
}

func termsLabel(terms models.PaymentTerms) string {
	switch terms {
	case models.TermsNet30:
		return "Net 30 days"
	case models.TermsNet15:
		return "Net 15 days"
	case models.TermsNet7:
		return "Net 7 days"
	case models.TermsDueOnReceipt:
		return "Due on receipt"
	case models.TermsCustom:
		return "Custom"
	}
	return string(terms)
}

// GET /api/invoices/:number/pdf
func InvoicePDFHandler() fiber.Handler {
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

		settings, err := database.GetSettings()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load store settings")
		}

		pdfBytes, err := BuildInvoicePDF(&invoice, settings)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not render invoice")
		}

		c.Set("Content-Type", "application/pdf")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, invoice.Number))
		return c.Send(pdfBytes)
	}
}
