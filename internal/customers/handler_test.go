package customers

import (
	"strings"
	"testing"

	"pos-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=test dbname=test"), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func TestPurchaseHistoryQueryFiltersCompletedSales(t *testing.T) {
	db := newDryRunDB(t)

	var sales []models.Sale
	stmt := purchaseHistoryQuery(db, 42).Find(&sales).Statement

	sql := stmt.SQL.String()
	if !strings.Contains(sql, "customer_id") {
		t.Fatalf("query missing customer filter: %s", sql)
	}
	if !strings.Contains(sql, "status") {
		t.Fatalf("query missing status filter: %s", sql)
	}

	var gotStatus bool
	for _, v := range stmt.Vars {
		if s, ok := v.(models.SaleStatus); ok && s == models.SaleCompleted {
			gotStatus = true
		}
	}
	if !gotStatus {
		t.Fatalf("expected completed status bound in query vars, got %v", stmt.Vars)
	}
}
