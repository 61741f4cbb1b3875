package model

import (
	"time"

	"gorm.io/gorm"
)

// Maintenance request priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// MaintenanceRequest tracks a reported problem in a unit
type MaintenanceRequest struct {
	ID           uint           `json:"id" gorm:"primarykey"`
	UnitID       uint           `json:"unit_id" gorm:"index;not null"`
	Description  string         `json:"description" gorm:"type:text;not null"`
	RequestDate  time.Time      `json:"request_date" gorm:"type:date;not null"`
	Priority     string         `json:"priority" gorm:"type:varchar(20);default:'medium'"`
	IsResolved   bool           `json:"is_resolved" gorm:"default:false;index"`
	ResolvedDate *time.Time     `json:"resolved_date,omitempty" gorm:"type:date"`
	CreatedBy    uint           `json:"created_by" gorm:"index"`
	UpdatedBy    uint           `json:"updated_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Unit *Unit `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
}

// ValidPriority reports whether p is one of the supported priorities
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
