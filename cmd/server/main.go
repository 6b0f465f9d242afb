package main

import (
	"log"
	"strings"

	"pos-backend/internal/admin"
	"pos-backend/internal/audit"
	"pos-backend/internal/auth"
	"pos-backend/internal/catalog"
	"pos-backend/internal/config"
	"pos-backend/internal/customers"
	"pos-backend/internal/database"
	"pos-backend/internal/models"
	"pos-backend/internal/pos"
	"pos-backend/internal/reports"
	"pos-backend/internal/wholesale"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// per-route role guards
	adminOnly := auth.RequireRole(models.RoleAdmin)
	managers := auth.RequireRole(models.RoleAdmin, models.RoleManager)
	cashiers := auth.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleCashier)

	// Catalog reads are open to every authenticated role
	protected.Get("/categories", catalog.ListCategoriesHandler())
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/products/low-stock", catalog.LowStockHandler())
	protected.Get("/products/:id", catalog.GetProductHandler())
	protected.Get("/suppliers", catalog.ListSuppliersHandler())
	protected.Get("/coupons/validate/:code", catalog.ValidateCouponHandler())

	// Catalog management
	protected.Post("/categories", managers, catalog.CreateCategoryHandler())
	protected.Put("/categories/:id", managers, catalog.UpdateCategoryHandler())
	protected.Delete("/categories/:id", managers, catalog.DeleteCategoryHandler())

	protected.Post("/products", managers, catalog.CreateProductHandler())
	protected.Put("/products/:id", managers, catalog.UpdateProductHandler())
	protected.Delete("/products/:id", managers, catalog.DeleteProductHandler())
	protected.Get("/products/export/xlsx", managers, catalog.ExportProductsHandler())
	protected.Post("/products/import/xlsx", managers, catalog.ImportProductsHandler())

	protected.Post("/products/:id/adjust-stock", managers, catalog.AdjustStockHandler())
	protected.Get("/stock-adjustments", managers, catalog.ListAdjustmentsHandler())

	protected.Post("/suppliers", managers, catalog.CreateSupplierHandler())
	protected.Put("/suppliers/:id", managers, catalog.UpdateSupplierHandler())
	protected.Delete("/suppliers/:id", managers, catalog.DeleteSupplierHandler())

	protected.Get("/coupons", managers, catalog.ListCouponsHandler())
	protected.Post("/coupons", managers, catalog.CreateCouponHandler())
	protected.Put("/coupons/:id", managers, catalog.UpdateCouponHandler())
	protected.Delete("/coupons/:id", managers, catalog.DeleteCouponHandler())

	// Customers
	protected.Get("/customers", customers.ListCustomersHandler())
	protected.Get("/customers/:id", customers.GetCustomerHandler())
	protected.Post("/customers", cashiers, customers.CreateCustomerHandler())
	protected.Put("/customers/:id", cashiers, customers.UpdateCustomerHandler())
	protected.Delete("/customers/:id", managers, customers.DeleteCustomerHandler())
	protected.Get("/customers/:id/purchases", customers.PurchaseHistoryHandler())
	protected.Get("/customers/:id/notes", customers.ListNotesHandler())
	protected.Post("/customers/:id/notes", cashiers, customers.CreateNoteHandler())
	protected.Delete("/customers/:id/notes/:note_id", managers, customers.DeleteNoteHandler())
	protected.Post("/customers/:id/loyalty/add", cashiers, customers.AddLoyaltyPointsHandler())
	protected.Post("/customers/:id/loyalty/redeem", cashiers, customers.RedeemLoyaltyPointsHandler())

	// Point of sale
	protected.Post("/sales", cashiers, pos.CreateSaleHandler())
	protected.Get("/sales", pos.ListSalesHandler())
	protected.Post("/sales/:id/void", managers, pos.VoidSaleHandler())
	protected.Get("/sales/:reference", pos.GetSaleHandler())
	protected.Get("/sales/:reference/receipt", pos.ReceiptHandler())
	protected.Get("/pos/stock-check/:product_id", cashiers, pos.StockCheckHandler())
	protected.Get("/pos/price", cashiers, pos.PriceLookupHandler())
	protected.Get("/pos/barcode/:code", cashiers, pos.BarcodeLookupHandler())

	// Wholesale invoicing
	protected.Post("/invoices", managers, wholesale.CreateInvoiceHandler())
	protected.Post("/invoices/from-sale/:sale_id", managers, wholesale.CreateInvoiceFromSaleHandler())
	protected.Get("/invoices", managers, wholesale.ListInvoicesHandler())
	protected.Get("/invoices/:number", managers, wholesale.GetInvoiceHandler())
	protected.Get("/invoices/:number/pdf", managers, wholesale.InvoicePDFHandler())
	protected.Post("/invoices/:number/payments", managers, wholesale.RecordInvoicePaymentHandler())
	protected.Post("/invoices/:number/cancel", managers, wholesale.CancelInvoiceHandler())

	// Reports
	protected.Get("/reports/dashboard", managers, reports.DashboardHandler())
	protected.Get("/reports/sales", managers, reports.SalesReportHandler())
	protected.Get("/reports/products", managers, reports.ProductReportHandler())
	protected.Get("/reports/customers", managers, reports.CustomerReportHandler())
	protected.Get("/reports/inventory", managers, reports.InventoryReportHandler())
	protected.Get("/reports/sales/export.csv", managers, reports.ExportSalesCSVHandler())
	protected.Get("/reports/sales/export.xlsx", managers, reports.ExportSalesXLSXHandler())
	protected.Get("/reports/inventory/export.csv", managers, reports.ExportInventoryCSVHandler())

	// Store administration
	protected.Post("/users", adminOnly, admin.CreateUserHandler())
	protected.Get("/users", adminOnly, admin.ListUsersHandler())
	protected.Put("/users/:id", adminOnly, admin.UpdateUserHandler())
	protected.Post("/users/:id/reset-password", adminOnly, admin.ResetPasswordHandler())
	protected.Get("/settings", admin.GetSettingsHandler())
	protected.Put("/settings", adminOnly, admin.UpdateSettingsHandler())

	// Audit logs
	protected.Get("/audit-logs", adminOnly, audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", adminOnly, audit.UndoAuditLogHandler())

	log.Println("Server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
