package database

import (
	"log"

	"pos-backend/internal/config"
	"pos-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	// payment_status was added after early deployments already had sales;
	// backfill must run after AutoMigrate creates the column, so remember
	// whether it was missing
	backfillPaymentStatus := DB.Migrator().HasTable(&models.Sale{}) &&
		!DB.Migrator().HasColumn(&models.Sale{}, "payment_status")

	err = DB.AutoMigrate(
		&models.User{},
		&models.Settings{},
		&models.Category{},
		&models.Product{},
		&models.InventoryAdjustment{},
		&models.Supplier{},
		&models.Coupon{},
		&models.Customer{},
		&models.CustomerNote{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Payment{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.InvoicePayment{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	if backfillPaymentStatus {
		log.Println("Backfilling sales.payment_status from existing amounts...")
		if err := DB.Exec(
			"UPDATE sales SET payment_status = CASE WHEN amount_paid >= total THEN 'paid' WHEN amount_paid > 0 THEN 'partial' ELSE 'pending' END",
		).Error; err != nil {
			log.Printf("payment_status backfill failed: %v", err)
		}
	}

	ensureSettings()

	log.Println("Database connected, migration complete.")
}

// ensureSettings guarantees the singleton settings row exists.
func ensureSettings() {
	var count int64
	DB.Model(&models.Settings{}).Count(&count)
	if count == 0 {
		if err := DB.Create(&models.Settings{ID: 1, StoreName: "POS System"}).Error; err != nil {
			log.Printf("Could not seed settings row: %v", err)
		}
	}
}

// GetSettings loads the singleton settings row.
func GetSettings() (models.Settings, error) {
	var s models.Settings
	err := DB.First(&s, 1).Error
	return s, err
}
