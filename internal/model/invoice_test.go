package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsOverdue(t *testing.T) {
	invoice := Invoice{
		DueDate: date(2024, 1, 1),
		IsPaid:  false,
	}

	assert.False(t, invoice.IsOverdue(date(2024, 1, 1)), "not overdue on the due date itself")
	assert.True(t, invoice.IsOverdue(date(2024, 1, 2)))

	paid := invoice
	paid.IsPaid = true
	assert.False(t, paid.IsOverdue(date(2024, 1, 2)), "paid invoices are never overdue")
}

func TestDaysLate(t *testing.T) {
	invoice := Invoice{DueDate: date(2024, 1, 1)}

	assert.Equal(t, 0, invoice.DaysLate(date(2023, 12, 31)))
	assert.Equal(t, 0, invoice.DaysLate(date(2024, 1, 1)))
	assert.Equal(t, 5, invoice.DaysLate(date(2024, 1, 6)))

	paid := invoice
	paid.IsPaid = true
	assert.Equal(t, 0, paid.DaysLate(date(2024, 1, 6)))
}

func TestCalculateLateFee(t *testing.T) {
	invoice := Invoice{
		DueDate: date(2024, 1, 1),
		IsPaid:  false,
	}

	// 5 days late at a daily rate of 5
	assert.Equal(t, 25.0, invoice.CalculateLateFee(date(2024, 1, 6), 5))

	// Not yet due
	assert.Equal(t, 0.0, invoice.CalculateLateFee(date(2023, 12, 15), 5))

	// Paid invoices accrue nothing
	paid := invoice
	paid.IsPaid = true
	assert.Equal(t, 0.0, paid.CalculateLateFee(date(2024, 1, 6), 5))
}

func TestCalculateLateFeeDoesNotPersist(t *testing.T) {
	invoice := Invoice{DueDate: date(2024, 1, 1)}

	fee := invoice.CalculateLateFee(time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC), 5)
	assert.Equal(t, 25.0, fee)
	assert.Equal(t, 0.0, invoice.LateFee, "the stored fee only changes when a caller saves it")
}
