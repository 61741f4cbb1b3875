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

func seedBuilding(t *testing.T, name string) model.Building {
	t.Helper()
	building := model.Building{Name: name, Address: "12 Harbor Rd"}
	require.NoError(t, database.GetDB().Create(&building).Error)
	return building
}

func seedUnit(t *testing.T, buildingID uint, number, status string, rent float64) model.Unit {
	t.Helper()
	unit := model.Unit{
		BuildingID:  buildingID,
		UnitType:    model.UnitTypeOffice,
		Status:      status,
		Number:      number,
		Area:        80,
		MonthlyRent: rent,
	}
	require.NoError(t, database.GetDB().Create(&unit).Error)
	return unit
}

func TestCreateBuildingDuplicateName(t *testing.T) {
	e := setupTest(t)

	body := BuildingRequest{Name: "North Tower", Address: "1 Main St"}
	rec := doRequest(t, e, CreateBuilding, http.MethodPost, "/api/buildings", body, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, e, CreateBuilding, http.MethodPost, "/api/buildings", body, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateBuildingMissingName(t *testing.T) {
	e := setupTest(t)

	rec := doRequest(t, e, CreateBuilding, http.MethodPost, "/api/buildings",
		BuildingRequest{Address: "1 Main St"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuildingStatistics(t *testing.T) {
	e := setupTest(t)

	building := seedBuilding(t, "North Tower")
	u1 := seedUnit(t, building.ID, "A-101", model.UnitStatusRented, 1000)
	u2 := seedUnit(t, building.ID, "A-102", model.UnitStatusRented, 1200)
	seedUnit(t, building.ID, "A-103", model.UnitStatusRented, 800)
	seedUnit(t, building.ID, "A-104", model.UnitStatusAvailable, 900)

	tenant := model.Tenant{FullName: "Salim Hamdan", Phone: "5550100"}
	require.NoError(t, database.GetDB().Create(&tenant).Error)

	start := time.Now().AddDate(0, -6, 0)
	end := time.Now().AddDate(0, 6, 0)
	for _, c := range []model.LeaseContract{
		{UnitID: u1.ID, TenantID: tenant.ID, StartDate: start, EndDate: end, MonthlyRent: 1000, IsActive: true},
		{UnitID: u2.ID, TenantID: tenant.ID, StartDate: start, EndDate: end, MonthlyRent: 1200, IsActive: true},
	} {
		require.NoError(t, database.GetDB().Create(&c).Error)
	}

	expense := model.Expense{BuildingID: building.ID, Description: "Elevator service", Amount: 350, Date: time.Now()}
	require.NoError(t, database.GetDB().Create(&expense).Error)

	rec := doRequest(t, e, BuildingStatistics, http.MethodGet, "/api/buildings/statistics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Statistics []model.BuildingStatistics `json:"statistics"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Statistics, 1)

	s := resp.Statistics[0]
	assert.Equal(t, building.ID, s.BuildingID)
	assert.Equal(t, int64(4), s.TotalUnits)
	assert.Equal(t, int64(3), s.RentedUnits)
	assert.InDelta(t, 75.0, s.RentedPercentage, 0.001)
	assert.InDelta(t, 2200.0, s.MonthlyIncome, 0.001)
	assert.InDelta(t, 26400.0, s.YearlyIncome, 0.001)
	assert.InDelta(t, 350.0, s.TotalExpenses, 0.001)
}

func TestBuildingStatisticsNoUnits(t *testing.T) {
	e := setupTest(t)

	seedBuilding(t, "Empty Annex")

	rec := doRequest(t, e, BuildingStatistics, http.MethodGet, "/api/buildings/statistics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Statistics []model.BuildingStatistics `json:"statistics"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Statistics, 1)

	s := resp.Statistics[0]
	assert.Equal(t, int64(0), s.TotalUnits)
	assert.Equal(t, 0.0, s.RentedPercentage)
	assert.Equal(t, 0.0, s.MonthlyIncome)
}

func TestCreateBuildingWritesAuditLog(t *testing.T) {
	e := setupTest(t)

	rec := doRequest(t, e, CreateBuilding, http.MethodPost, "/api/buildings",
		BuildingRequest{Name: "North Tower", Address: "1 Main St"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var entry model.AuditLog
	require.NoError(t, database.GetDB().
		Where("resource_type = ? AND action = ?", "building", "create").
		First(&entry).Error)
	assert.Equal(t, uint(1), entry.UserID)
	assert.Empty(t, entry.BeforeJSON)
	assert.Contains(t, entry.AfterJSON, "North Tower")
}

func TestGetBuildingNotFound(t *testing.T) {
	e := setupTest(t)

	rec := doRequest(t, e, GetBuilding, http.MethodGet, "/api/buildings/:id", nil,
		map[string]string{"id": "999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteBuildingSoftDeletes(t *testing.T) {
	e := setupTest(t)

	building := seedBuilding(t, "North Tower")

	rec := doRequest(t, e, DeleteBuilding, http.MethodDelete, "/api/buildings/:id", nil,
		map[string]string{"id": "1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var found model.Building
	err := database.GetDB().First(&found, building.ID).Error
	assert.Error(t, err)

	var unscoped model.Building
	require.NoError(t, database.GetDB().Unscoped().First(&unscoped, building.ID).Error)
	assert.True(t, unscoped.DeletedAt.Valid)
}
