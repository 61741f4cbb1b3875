package model

import (
	"time"

	"gorm.io/gorm"
)

// Invoice is a billing record issued against a lease contract
type Invoice struct {
	ID         uint           `json:"id" gorm:"primarykey"`
	ContractID uint           `json:"contract_id" gorm:"index;not null"`
	IssueDate  time.Time      `json:"issue_date" gorm:"type:date;not null"`
	DueDate    time.Time      `json:"due_date" gorm:"type:date;not null"`
	Amount     float64        `json:"amount" gorm:"not null"`
	IsPaid     bool           `json:"is_paid" gorm:"default:false;index"`
	LateFee    float64        `json:"late_fee" gorm:"default:0"`
	CreatedBy  uint           `json:"created_by" gorm:"index"`
	UpdatedBy  uint           `json:"updated_by"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Contract *LeaseContract `json:"contract,omitempty" gorm:"foreignKey:ContractID"`
}

// IsOverdue reports whether the invoice is unpaid and past its due date
func (i *Invoice) IsOverdue(at time.Time) bool {
	return !i.IsPaid && daysBetween(i.DueDate, at) > 0
}

// DaysLate returns how many whole days the invoice is past due, 0 if not overdue
func (i *Invoice) DaysLate(at time.Time) int {
	if !i.IsOverdue(at) {
		return 0
	}
	return daysBetween(i.DueDate, at)
}

// CalculateLateFee computes days late times the flat daily rate. The result
// is only persisted when a caller explicitly saves the invoice; no scheduled
// job recomputes fees.
func (i *Invoice) CalculateLateFee(at time.Time, dailyRate float64) float64 {
	return float64(i.DaysLate(at)) * dailyRate
}
