package model

import (
	"time"

	"gorm.io/gorm"
)

// Expense records a building-level cost
type Expense struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	BuildingID  uint           `json:"building_id" gorm:"index;not null"`
	Description string         `json:"description" gorm:"type:text;not null"`
	Amount      float64        `json:"amount" gorm:"not null"`
	Date        time.Time      `json:"date" gorm:"type:date;not null"`
	CreatedBy   uint           `json:"created_by" gorm:"index"`
	UpdatedBy   uint           `json:"updated_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Building *Building `json:"building,omitempty" gorm:"foreignKey:BuildingID"`
}
