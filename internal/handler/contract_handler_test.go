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

func seedTenant(t *testing.T, name, phone string) model.Tenant {
	t.Helper()
	tenant := model.Tenant{FullName: name, Phone: phone}
	require.NoError(t, database.GetDB().Create(&tenant).Error)
	return tenant
}

func seedContract(t *testing.T, unitID, tenantID uint, start, end time.Time, active bool) model.LeaseContract {
	t.Helper()
	contract := model.LeaseContract{
		UnitID:      unitID,
		TenantID:    tenantID,
		StartDate:   start,
		EndDate:     end,
		MonthlyRent: 1000,
		IsActive:    active,
	}
	require.NoError(t, database.GetDB().Create(&contract).Error)
	return contract
}

func TestCreateContract(t *testing.T) {
	e := setupTest(t)

	building := seedBuilding(t, "North Tower")
	unit := seedUnit(t, building.ID, "A-101", model.UnitStatusAvailable, 1000)
	tenant := seedTenant(t, "Salim Hamdan", "5550100")

	rec := doRequest(t, e, CreateContract, http.MethodPost, "/api/contracts", ContractRequest{
		UnitID:      unit.ID,
		TenantID:    tenant.ID,
		StartDate:   "2026-01-01",
		EndDate:     "2026-12-31",
		MonthlyRent: 1000,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var contract model.LeaseContract
	require.NoError(t, database.GetDB().Where("unit_id = ?", unit.ID).First(&contract).Error)
	assert.True(t, contract.IsActive)
	assert.Equal(t, tenant.ID, contract.TenantID)
}

func TestCreateContractEndNotAfterStart(t *testing.T) {
	e := setupTest(t)

	building := seedBuilding(t, "North Tower")
	unit := seedUnit(t, building.ID, "A-101", model.UnitStatusAvailable, 1000)
	tenant := seedTenant(t, "Salim Hamdan", "5550100")

	for _, endDate := range []string{"2025-12-31", "2026-01-01"} {
		rec := doRequest(t, e, CreateContract, http.MethodPost, "/api/contracts", ContractRequest{
			UnitID:      unit.ID,
			TenantID:    tenant.ID,
			StartDate:   "2026-01-01",
			EndDate:     endDate,
			MonthlyRent: 1000,
		}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestCreateContractUnknownUnit(t *testing.T) {
	e := setupTest(t)

	tenant := seedTenant(t, "Salim Hamdan", "5550100")

	rec := doRequest(t, e, CreateContract, http.MethodPost, "/api/contracts", ContractRequest{
		UnitID:      999,
		TenantID:    tenant.ID,
		StartDate:   "2026-01-01",
		EndDate:     "2026-12-31",
		MonthlyRent: 1000,
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateContractUnitAlreadyLeased(t *testing.T) {
	e := setupTest(t)

	building := seedBuilding(t, "North Tower")
	unit := seedUnit(t, building.ID, "A-101", model.UnitStatusRented, 1000)
	tenant := seedTenant(t, "Salim Hamdan", "5550100")
	other := seedTenant(t, "Mona Rashid", "5550101")

	seedContract(t, unit.ID, tenant.ID,
		time.Now().AddDate(0, -1, 0), time.Now().AddDate(1, 0, 0), true)

	rec := doRequest(t, e, CreateContract, http.MethodPost, "/api/contracts", ContractRequest{
		UnitID:      unit.ID,
		TenantID:    other.ID,
		StartDate:   "2026-01-01",
		EndDate:     "2026-12-31",
		MonthlyRent: 1100,
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateContractAfterTermination(t *testing.T) {
	e := setupTest(t)

	building := seedBuilding(t, "North Tower")
	unit := seedUnit(t, building.ID, "A-101", model.UnitStatusAvailable, 1000)
	tenant := seedTenant(t, "Salim Hamdan", "5550100")

	seedContract(t, unit.ID, tenant.ID,
		time.Now().AddDate(-1, 0, 0), time.Now().AddDate(0, -1, 0), false)

	rec := doRequest(t, e, CreateContract, http.MethodPost, "/api/contracts", ContractRequest{
		UnitID:      unit.ID,
		TenantID:    tenant.ID,
		StartDate:   "2026-01-01",
		EndDate:     "2026-12-31",
		MonthlyRent: 1000,
	}, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestInactiveContractInsertPersists(t *testing.T) {
	setupTest(t)

	building := seedBuilding(t, "North Tower")
	unit := seedUnit(t, building.ID, "A-101", model.UnitStatusAvailable, 1000)
	tenant := seedTenant(t, "Salim Hamdan", "5550100")

	// a contract inserted as inactive must stay inactive
	contract := seedContract(t, unit.ID, tenant.ID,
		time.Now().AddDate(-1, 0, 0), time.Now().AddDate(0, -1, 0), false)

	var found model.LeaseContract
	require.NoError(t, database.GetDB().First(&found, contract.ID).Error)
	assert.False(t, found.IsActive)
}

func TestTerminateContract(t *testing.T) {
	e := setupTest(t)

	building := seedBuilding(t, "North Tower")
	unit := seedUnit(t, building.ID, "A-101", model.UnitStatusRented, 1000)
	tenant := seedTenant(t, "Salim Hamdan", "5550100")
	contract := seedContract(t, unit.ID, tenant.ID,
		time.Now().AddDate(0, -6, 0), time.Now().AddDate(0, 6, 0), true)

	rec := doRequest(t, e, TerminateContract, http.MethodPost, "/api/contracts/terminate",
		TerminateContractRequest{ContractID: contract.ID}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var found model.LeaseContract
	require.NoError(t, database.GetDB().First(&found, contract.ID).Error)
	assert.False(t, found.IsActive)
	assert.Equal(t, contract.MonthlyRent, found.MonthlyRent)
}

func TestTerminateContractNotFound(t *testing.T) {
	e := setupTest(t)

	rec := doRequest(t, e, TerminateContract, http.MethodPost, "/api/contracts/terminate",
		TerminateContractRequest{ContractID: 999}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListExpiredContracts(t *testing.T) {
	e := setupTest(t)

	building := seedBuilding(t, "North Tower")
	u1 := seedUnit(t, building.ID, "A-101", model.UnitStatusRented, 1000)
	u2 := seedUnit(t, building.ID, "A-102", model.UnitStatusRented, 1000)
	u3 := seedUnit(t, building.ID, "A-103", model.UnitStatusRented, 1000)
	tenant := seedTenant(t, "Salim Hamdan", "5550100")

	// ended but still active, shows up
	expired := seedContract(t, u1.ID, tenant.ID,
		time.Now().AddDate(-1, 0, 0), time.Now().AddDate(0, 0, -10), true)
	// still running
	seedContract(t, u2.ID, tenant.ID,
		time.Now().AddDate(0, -6, 0), time.Now().AddDate(0, 6, 0), true)
	// ended and already terminated
	seedContract(t, u3.ID, tenant.ID,
		time.Now().AddDate(-2, 0, 0), time.Now().AddDate(-1, 0, 0), false)

	rec := doRequest(t, e, ListExpiredContracts, http.MethodGet, "/api/contracts/expired", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Contracts []struct {
			ID        uint `json:"id"`
			IsExpired bool `json:"is_expired"`
		} `json:"contracts"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Contracts, 1)
	assert.Equal(t, expired.ID, resp.Contracts[0].ID)
	assert.True(t, resp.Contracts[0].IsExpired)
}
