package models

import "time"

type Category struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:200;not null;unique"`
	Description  string `gorm:"size:500"`
	ParentID     *uint  `gorm:"index"`
	Parent       *Category
	IsActive     bool `gorm:"not null;default:true"`
	DisplayOrder int  `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullPath: "Electronics > Computers > Laptops" (preloaded parents only).
func (c *Category) FullPath() string {
	if c.Parent != nil {
		return c.Parent.FullPath() + " > " + c.Name
	}
	return c.Name
}
