package model

import (
	"time"

	"gorm.io/gorm"
)

// Notification is an in-app reminder message
type Notification struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Message   string         `json:"message" gorm:"type:text;not null"`
	Priority  string         `json:"priority" gorm:"type:varchar(20);default:'medium'"`
	IsRead    bool           `json:"is_read" gorm:"default:false;index"`
	IsSent    bool           `json:"is_sent" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
