package model

import (
	"time"
)

// AuditLog records who changed what, with before/after snapshots
type AuditLog struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	Action       string    `json:"action" gorm:"type:varchar(64);index"`
	ResourceType string    `json:"resource_type" gorm:"type:varchar(64);index"`
	ResourceID   uint      `json:"resource_id" gorm:"index"`
	BeforeJSON   string    `json:"before_json" gorm:"type:text"`
	AfterJSON    string    `json:"after_json" gorm:"type:text"`
	IPAddress    string    `json:"ip_address" gorm:"type:varchar(64)"`
	CreatedAt    time.Time `json:"created_at"`
}
