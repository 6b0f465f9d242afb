package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionUndo   AuditAction = "undo"
	AuditActionLogin  AuditAction = "login"
	AuditActionVoid   AuditAction = "void_sale"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID   uint   `json:"user_id"`
	UserName string `gorm:"size:200" json:"user_name"` // denormalized

	// target entity, e.g. "product", "coupon", "sale"
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action      AuditAction `gorm:"size:20;index" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	// state before/after as JSON
	BeforeData string `gorm:"type:jsonb" json:"before_data"`
	AfterData  string `gorm:"type:jsonb" json:"after_data"`

	IPAddress string `gorm:"size:45" json:"ip_address"`

	// set when this entry itself records an undo
	Undone bool `json:"undone"`
	// set when this entry has been undone
	IsUndone bool       `gorm:"default:false" json:"is_undone"`
	UndoneBy *uint      `json:"undone_by"`
	UndoneAt *time.Time `json:"undone_at"`
}
