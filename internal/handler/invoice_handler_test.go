package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"rental-service/internal/model"
	"rental-service/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInvoice(t *testing.T, contractID uint, due time.Time, amount float64, paid bool) model.Invoice {
	t.Helper()
	invoice := model.Invoice{
		ContractID: contractID,
		IssueDate:  due.AddDate(0, -1, 0),
		DueDate:    due,
		Amount:     amount,
		IsPaid:     paid,
	}
	require.NoError(t, database.GetDB().Create(&invoice).Error)
	return invoice
}

func seedLeasedUnit(t *testing.T) model.LeaseContract {
	t.Helper()
	building := seedBuilding(t, "North Tower")
	unit := seedUnit(t, building.ID, "A-101", model.UnitStatusRented, 1000)
	tenant := seedTenant(t, "Salim Hamdan", "5550100")
	return seedContract(t, unit.ID, tenant.ID,
		time.Now().AddDate(0, -6, 0), time.Now().AddDate(0, 6, 0), true)
}

func TestCreateInvoiceUnknownContract(t *testing.T) {
	e := setupTest(t)

	rec := doRequest(t, e, CreateInvoice, http.MethodPost, "/api/invoices", InvoiceRequest{
		ContractID: 999,
		IssueDate:  "2026-01-01",
		DueDate:    "2026-02-01",
		Amount:     1000,
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalculateLateFeePersists(t *testing.T) {
	e := setupTest(t)

	contract := seedLeasedUnit(t)
	invoice := seedInvoice(t, contract.ID, time.Now().AddDate(0, 0, -5), 1000, false)

	rec := doRequest(t, e, CalculateLateFee, http.MethodPost, "/api/invoices/:id/late-fee", nil,
		map[string]string{"id": fmt.Sprint(invoice.ID)})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		LateFee  float64 `json:"late_fee"`
		DaysLate int     `json:"days_late"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, 5, resp.DaysLate)
	assert.InDelta(t, 25.0, resp.LateFee, 0.001)

	var found model.Invoice
	require.NoError(t, database.GetDB().First(&found, invoice.ID).Error)
	assert.InDelta(t, 25.0, found.LateFee, 0.001)
}

func TestCalculateLateFeePaidInvoice(t *testing.T) {
	e := setupTest(t)

	contract := seedLeasedUnit(t)
	invoice := seedInvoice(t, contract.ID, time.Now().AddDate(0, 0, -5), 1000, true)

	rec := doRequest(t, e, CalculateLateFee, http.MethodPost, "/api/invoices/:id/late-fee", nil,
		map[string]string{"id": fmt.Sprint(invoice.ID)})
	require.Equal(t, http.StatusOK, rec.Code)

	var found model.Invoice
	require.NoError(t, database.GetDB().First(&found, invoice.ID).Error)
	assert.Equal(t, 0.0, found.LateFee)
}

func TestListOverdueInvoices(t *testing.T) {
	e := setupTest(t)

	contract := seedLeasedUnit(t)
	overdue := seedInvoice(t, contract.ID, time.Now().AddDate(0, 0, -3), 1000, false)
	seedInvoice(t, contract.ID, time.Now().AddDate(0, 1, 0), 1000, false)
	seedInvoice(t, contract.ID, time.Now().AddDate(0, 0, -30), 1000, true)

	rec := doRequest(t, e, ListOverdueInvoices, http.MethodGet, "/api/invoices/overdue", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Invoices []struct {
			ID        uint `json:"id"`
			IsOverdue bool `json:"is_overdue"`
			DaysLate  int  `json:"days_late"`
		} `json:"invoices"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Invoices, 1)
	assert.Equal(t, overdue.ID, resp.Invoices[0].ID)
	assert.True(t, resp.Invoices[0].IsOverdue)
	assert.Equal(t, 3, resp.Invoices[0].DaysLate)
}

func TestCreateInvoiceRejectsNonPositiveAmount(t *testing.T) {
	e := setupTest(t)

	contract := seedLeasedUnit(t)

	rec := doRequest(t, e, CreateInvoice, http.MethodPost, "/api/invoices", InvoiceRequest{
		ContractID: contract.ID,
		IssueDate:  "2026-01-01",
		DueDate:    "2026-02-01",
		Amount:     0,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
