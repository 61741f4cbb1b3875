package handler

import (
	"net/http"
	"testing"

	"rental-service/internal/model"
	"rental-service/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUnit(t *testing.T) {
	e := setupTest(t)

	building := seedBuilding(t, "North Tower")

	rec := doRequest(t, e, CreateUnit, http.MethodPost, "/api/units", UnitRequest{
		BuildingID:  building.ID,
		UnitType:    model.UnitTypeOffice,
		Number:      "A-101",
		Area:        80,
		MonthlyRent: 1000,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var unit model.Unit
	require.NoError(t, database.GetDB().Where("number = ?", "A-101").First(&unit).Error)
	assert.Equal(t, model.UnitStatusAvailable, unit.Status)
	assert.InDelta(t, 12000.0, unit.YearlyRent(), 0.001)
}

func TestCreateUnitDuplicateNumber(t *testing.T) {
	e := setupTest(t)

	building := seedBuilding(t, "North Tower")
	seedUnit(t, building.ID, "A-101", model.UnitStatusAvailable, 1000)

	rec := doRequest(t, e, CreateUnit, http.MethodPost, "/api/units", UnitRequest{
		BuildingID:  building.ID,
		UnitType:    model.UnitTypeShop,
		Number:      "A-101",
		MonthlyRent: 900,
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateUnitInvalidType(t *testing.T) {
	e := setupTest(t)

	building := seedBuilding(t, "North Tower")

	rec := doRequest(t, e, CreateUnit, http.MethodPost, "/api/units", UnitRequest{
		BuildingID:  building.ID,
		UnitType:    "penthouse",
		Number:      "A-101",
		MonthlyRent: 1000,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUnitUnknownBuilding(t *testing.T) {
	e := setupTest(t)

	rec := doRequest(t, e, CreateUnit, http.MethodPost, "/api/units", UnitRequest{
		BuildingID:  999,
		UnitType:    model.UnitTypeOffice,
		Number:      "A-101",
		MonthlyRent: 1000,
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAvailableUnits(t *testing.T) {
	e := setupTest(t)

	building := seedBuilding(t, "North Tower")
	available := seedUnit(t, building.ID, "A-101", model.UnitStatusAvailable, 1000)
	seedUnit(t, building.ID, "A-102", model.UnitStatusRented, 1000)
	seedUnit(t, building.ID, "A-103", model.UnitStatusMaintenance, 1000)

	rec := doRequest(t, e, ListAvailableUnits, http.MethodGet, "/api/units/available", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Units []model.Unit `json:"units"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Units, 1)
	assert.Equal(t, available.ID, resp.Units[0].ID)
}
