package handler

import (
	"net/http"
	"testing"
	"time"

	"rental-service/internal/model"
	"rental-service/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryReport(t *testing.T) {
	e := setupTest(t)

	building := seedBuilding(t, "North Tower")
	u1 := seedUnit(t, building.ID, "A-101", model.UnitStatusRented, 1000)
	seedUnit(t, building.ID, "A-102", model.UnitStatusAvailable, 900)
	tenant := seedTenant(t, "Salim Hamdan", "5550100")

	contract := seedContract(t, u1.ID, tenant.ID,
		time.Now().AddDate(0, -6, 0), time.Now().AddDate(0, 6, 0), true)

	payment := model.Payment{ContractID: contract.ID, Amount: 1000, PaymentDate: time.Now()}
	require.NoError(t, database.GetDB().Create(&payment).Error)
	seedInvoice(t, contract.ID, time.Now().AddDate(0, 0, -3), 1000, false)
	seedMaintenanceRequest(t, u1.ID, false)
	expense := model.Expense{BuildingID: building.ID, Description: "Cleaning", Amount: 120, Date: time.Now()}
	require.NoError(t, database.GetDB().Create(&expense).Error)

	rec := doRequest(t, e, SummaryReportHandler, http.MethodGet, "/api/reports/summary", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report SummaryReport
	decodeBody(t, rec, &report)

	assert.Equal(t, int64(1), report.Buildings)
	assert.Equal(t, int64(2), report.Units)
	assert.Equal(t, int64(1), report.RentedUnits)
	assert.InDelta(t, 50.0, report.OccupancyPercentage, 0.001)
	assert.Equal(t, int64(1), report.Tenants)
	assert.Equal(t, int64(1), report.ActiveContracts)
	assert.InDelta(t, 1000.0, report.MonthlyIncome, 0.001)
	assert.InDelta(t, 1000.0, report.TotalPayments, 0.001)
	assert.Equal(t, int64(1), report.UnpaidInvoices)
	assert.Equal(t, int64(1), report.UnresolvedMaintenance)
	assert.InDelta(t, 120.0, report.TotalExpenses, 0.001)
	assert.NotEmpty(t, report.GeneratedAt)
}

func TestSummaryReportEmptySystem(t *testing.T) {
	e := setupTest(t)

	rec := doRequest(t, e, SummaryReportHandler, http.MethodGet, "/api/reports/summary", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report SummaryReport
	decodeBody(t, rec, &report)
	assert.Equal(t, int64(0), report.Units)
	assert.Equal(t, 0.0, report.OccupancyPercentage)
	assert.Equal(t, 0.0, report.MonthlyIncome)
}
