package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"pos-backend/internal/database"
	"pos-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	IPAddress   string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// jsonb columns want valid JSON, not an empty string
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		IPAddress:   opts.IPAddress,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("could not write audit log: %w", err)
	}

	return nil
}

// UndoLog reverses a previously logged create/update/delete. Sales and stock
// movements are excluded here: those go through the void flow, which restores
// inventory properly.
func UndoLog(logID uint, userID uint, userName string) error {
	var entry models.AuditLog
	if err := database.DB.First(&entry, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log not found: %w", err)
	}

	if entry.IsUndone {
		return fmt.Errorf("this action has already been undone")
	}

	switch entry.Action {
	case models.AuditActionCreate:
		if err := deleteEntity(entry.EntityType, entry.EntityID); err != nil {
			return fmt.Errorf("could not delete entity: %w", err)
		}

	case models.AuditActionUpdate:
		if err := restoreEntity(entry.EntityType, entry.EntityID, entry.BeforeData); err != nil {
			return fmt.Errorf("could not restore entity: %w", err)
		}

	case models.AuditActionDelete:
		if err := recreateEntity(entry.EntityType, entry.BeforeData); err != nil {
			return fmt.Errorf("could not recreate entity: %w", err)
		}

	default:
		return fmt.Errorf("this action type cannot be undone")
	}

	now := time.Now()
	entry.IsUndone = true
	entry.UndoneBy = &userID
	entry.UndoneAt = &now

	if err := database.DB.Save(&entry).Error; err != nil {
		return fmt.Errorf("could not update log: %w", err)
	}

	undoEntry := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Undone: %s", entry.Description),
		BeforeData:  entry.AfterData,
		AfterData:   entry.BeforeData,
		Undone:      true,
	}

	if err := database.DB.Create(&undoEntry).Error; err != nil {
		return fmt.Errorf("could not write undo log: %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "coupon":
		return database.DB.Delete(&models.Coupon{}, "id = ?", entityID).Error
	case "supplier":
		return database.DB.Delete(&models.Supplier{}, "id = ?", entityID).Error
	case "category":
		return database.DB.Delete(&models.Category{}, "id = ?", entityID).Error
	case "customer_note":
		return database.DB.Delete(&models.CustomerNote{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}

func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "coupon":
		var coupon models.Coupon
		if err := json.Unmarshal([]byte(dataJSON), &coupon); err != nil {
			return err
		}
		coupon.ID = 0
		return database.DB.Create(&coupon).Error

	case "supplier":
		var supplier models.Supplier
		if err := json.Unmarshal([]byte(dataJSON), &supplier); err != nil {
			return err
		}
		supplier.ID = 0
		return database.DB.Create(&supplier).Error

	case "category":
		var category models.Category
		if err := json.Unmarshal([]byte(dataJSON), &category); err != nil {
			return err
		}
		category.ID = 0
		return database.DB.Create(&category).Error

	case "customer_note":
		var note models.CustomerNote
		if err := json.Unmarshal([]byte(dataJSON), &note); err != nil {
			return err
		}
		note.ID = 0
		return database.DB.Create(&note).Error

	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}

func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "coupon":
		var coupon models.Coupon
		if err := json.Unmarshal([]byte(dataJSON), &coupon); err != nil {
			return err
		}
		coupon.ID = entityID
		return database.DB.Model(&models.Coupon{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"code":           coupon.Code,
			"description":    coupon.Description,
			"discount_type":  coupon.DiscountType,
			"discount_value": coupon.DiscountValue,
			"min_purchase":   coupon.MinPurchase,
			"max_discount":   coupon.MaxDiscount,
			"valid_from":     coupon.ValidFrom,
			"valid_to":       coupon.ValidTo,
			"is_active":      coupon.IsActive,
			"usage_limit":    coupon.UsageLimit,
		}).Error

	case "supplier":
		var supplier models.Supplier
		if err := json.Unmarshal([]byte(dataJSON), &supplier); err != nil {
			return err
		}
		return database.DB.Model(&models.Supplier{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"name":           supplier.Name,
			"contact_person": supplier.ContactPerson,
			"email":          supplier.Email,
			"phone":          supplier.Phone,
			"address":        supplier.Address,
			"notes":          supplier.Notes,
			"is_active":      supplier.IsActive,
		}).Error

	case "category":
		var category models.Category
		if err := json.Unmarshal([]byte(dataJSON), &category); err != nil {
			return err
		}
		return database.DB.Model(&models.Category{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"name":          category.Name,
			"description":   category.Description,
			"parent_id":     category.ParentID,
			"is_active":     category.IsActive,
			"display_order": category.DisplayOrder,
		}).Error

	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}
