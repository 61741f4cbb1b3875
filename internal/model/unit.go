package model

import (
	"time"

	"gorm.io/gorm"
)

// Unit types
const (
	UnitTypeOffice    = "office"
	UnitTypeApartment = "apartment"
	UnitTypeShop      = "shop"
	UnitTypeWarehouse = "warehouse"
	UnitTypeStore     = "store"
)

// Unit statuses
const (
	UnitStatusAvailable   = "available"
	UnitStatusRented      = "rented"
	UnitStatusMaintenance = "maintenance"
	UnitStatusReserved    = "reserved"
)

// Unit represents a rentable space within a building
type Unit struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	BuildingID  uint           `json:"building_id" gorm:"index;not null"`
	UnitType    string         `json:"unit_type" gorm:"type:varchar(50);index:idx_units_status_type,priority:2;not null"`
	Status      string         `json:"status" gorm:"type:varchar(50);index:idx_units_status_type,priority:1;default:'available'"`
	Number      string         `json:"number" gorm:"type:varchar(50);unique;not null"`
	Area        float64        `json:"area"`
	MonthlyRent float64        `json:"monthly_rent" gorm:"not null"`
	ImageURL    string         `json:"image_url" gorm:"type:text"`
	CreatedBy   uint           `json:"created_by" gorm:"index"`
	UpdatedBy   uint           `json:"updated_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Building *Building `json:"building,omitempty" gorm:"foreignKey:BuildingID"`
}

// IsAvailable reports whether the unit can be leased right now
func (u *Unit) IsAvailable() bool {
	return u.Status == UnitStatusAvailable
}

// YearlyRent returns twelve months of rent at the current rate
func (u *Unit) YearlyRent() float64 {
	return u.MonthlyRent * 12
}

// ValidUnitType reports whether t is one of the supported unit types
func ValidUnitType(t string) bool {
	switch t {
	case UnitTypeOffice, UnitTypeApartment, UnitTypeShop, UnitTypeWarehouse, UnitTypeStore:
		return true
	}
	return false
}

// ValidUnitStatus reports whether s is one of the supported unit statuses
func ValidUnitStatus(s string) bool {
	switch s {
	case UnitStatusAvailable, UnitStatusRented, UnitStatusMaintenance, UnitStatusReserved:
		return true
	}
	return false
}
