package model

import (
	"time"

	"gorm.io/gorm"
)

// LeaseContract binds a tenant to a unit for a date range at a fixed monthly rent
type LeaseContract struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	UnitID      uint           `json:"unit_id" gorm:"index;not null"`
	TenantID    uint           `json:"tenant_id" gorm:"index;not null"`
	StartDate   time.Time      `json:"start_date" gorm:"type:date;not null"`
	EndDate     time.Time      `json:"end_date" gorm:"type:date;not null"`
	MonthlyRent float64        `json:"monthly_rent" gorm:"not null"`
	IsActive    bool           `json:"is_active" gorm:"index"`
	CreatedBy   uint           `json:"created_by" gorm:"index"`
	UpdatedBy   uint           `json:"updated_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Unit   *Unit   `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
	Tenant *Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}

// daysBetween returns the number of whole calendar days from one date to
// another, ignoring the time-of-day portion of both values.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// RemainingDays returns the whole days between at and the contract end date.
// Negative once the contract has expired.
func (c *LeaseContract) RemainingDays(at time.Time) int {
	return daysBetween(at, c.EndDate)
}

// IsDueSoon reports whether the contract expires within the next 30 days.
// False at exactly 0 remaining days and at 31.
func (c *LeaseContract) IsDueSoon(at time.Time) bool {
	remaining := c.RemainingDays(at)
	return remaining > 0 && remaining <= 30
}

// IsExpired reports whether the contract end date has passed
func (c *LeaseContract) IsExpired(at time.Time) bool {
	return c.RemainingDays(at) <= 0
}
