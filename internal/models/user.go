package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleCashier UserRole = "cashier"
	RoleViewer  UserRole = "viewer"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:200;not null"`
	Username     string   `gorm:"size:100;uniqueIndex;not null"`
	Email        string   `gorm:"size:100;index"`
	Phone        string   `gorm:"size:20"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null;default:cashier"`
	EmployeeID   string   `gorm:"size:50;index"`
	TerminalID   string   `gorm:"size:50"` // assigned register, stamped onto sales
	IsActive     bool     `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanAccessReports: reports are for management only.
func (u *User) CanAccessReports() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}

func (u *User) CanManageCatalog() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}

func (u *User) CanOperatePOS() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager || u.Role == RoleCashier
}
