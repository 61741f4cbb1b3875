package model

import (
	"time"

	"gorm.io/gorm"
)

// Payment records money received against a lease contract
type Payment struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	ContractID  uint           `json:"contract_id" gorm:"index;not null"`
	Amount      float64        `json:"amount" gorm:"not null"`
	PaymentDate time.Time      `json:"payment_date" gorm:"type:date;not null"`
	Description string         `json:"description" gorm:"type:text"`
	CreatedBy   uint           `json:"created_by" gorm:"index"`
	UpdatedBy   uint           `json:"updated_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Contract *LeaseContract `json:"contract,omitempty" gorm:"foreignKey:ContractID"`
}
