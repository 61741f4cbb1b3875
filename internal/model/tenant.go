package model

import (
	"time"

	"gorm.io/gorm"
)

// Tenant represents a person renting one or more units
type Tenant struct {
	ID                uint           `json:"id" gorm:"primarykey"`
	FullName          string         `json:"full_name" gorm:"type:varchar(200);index;not null"`
	Phone             string         `json:"phone" gorm:"type:varchar(20);unique;not null"`
	Email             string         `json:"email" gorm:"type:varchar(100)"`
	IDCard            string         `json:"id_card" gorm:"type:varchar(50)"`
	ProfilePictureURL string         `json:"profile_picture_url" gorm:"type:text"`
	Description       string         `json:"description" gorm:"type:text"`
	CreatedBy         uint           `json:"created_by" gorm:"index"`
	UpdatedBy         uint           `json:"updated_by"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Contracts []LeaseContract `json:"contracts,omitempty" gorm:"foreignKey:TenantID"`
}

// TenantStatistics is the per-tenant rollup of contract and payment totals
type TenantStatistics struct {
	TenantID        uint    `json:"tenant_id"`
	FullName        string  `json:"full_name"`
	ActiveContracts int64   `json:"active_contracts"`
	TotalPayments   float64 `json:"total_payments"`
}
