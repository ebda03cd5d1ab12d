package models

import (
	"time"

	"gorm.io/datatypes"
)

// Consultant is a directory entry for a firm offering one service across a set of regions.
// Built-in entries come from the seed list and cannot be deleted.
type Consultant struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	Firm      string                      `gorm:"type:text;not null;index" json:"firm"`
	Contact   string                      `gorm:"type:text;not null" json:"contact"`
	Email     string                      `gorm:"type:text;not null;uniqueIndex:idx_consultants_email" json:"email"`
	Phone     *string                     `gorm:"type:text" json:"phone"`
	Service   string                      `gorm:"type:text;not null;index" json:"service"`
	Regions   datatypes.JSONSlice[string] `gorm:"type:jsonb;not null" json:"regions"`
	IsCustom  bool                        `gorm:"not null;index" json:"isCustom"`
	CreatedAt time.Time                   `gorm:"not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time                   `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
}

// HasRegion reports whether region is an element of c.Regions.
func (c *Consultant) HasRegion(region string) bool {
	for _, r := range c.Regions {
		if r == region {
			return true
		}
	}
	return false
}
