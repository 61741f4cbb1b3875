package model

import (
	"time"

	"gorm.io/gorm"
)

// Building represents a building that owns rentable units
type Building struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	Name        string         `json:"name" gorm:"type:varchar(200);unique;not null"`
	Address     string         `json:"address" gorm:"type:text;not null"`
	Description string         `json:"description" gorm:"type:text"`
	ImageURL    string         `json:"image_url" gorm:"type:text"`
	CreatedBy   uint           `json:"created_by" gorm:"index"`
	UpdatedBy   uint           `json:"updated_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Units []Unit `json:"units,omitempty" gorm:"foreignKey:BuildingID"`
}

// BuildingStatistics is the per-building rollup returned by the statistics
// endpoint. Every field is recomputed from fresh queries on each call.
type BuildingStatistics struct {
	BuildingID       uint    `json:"building_id"`
	Name             string  `json:"name"`
	TotalUnits       int64   `json:"total_units"`
	RentedUnits      int64   `json:"rented_units"`
	RentedPercentage float64 `json:"rented_percentage"`
	MonthlyIncome    float64 `json:"monthly_income"`
	YearlyIncome     float64 `json:"yearly_income"`
	TotalExpenses    float64 `json:"total_expenses"`
}

// RentedPercentage returns rented/total as a percentage, 0 for an empty building
func RentedPercentage(rented, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(rented) / float64(total) * 100
}
