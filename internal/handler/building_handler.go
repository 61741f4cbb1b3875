package handler

import (
	"net/http"
	"time"

	"rental-service/internal/audit"
	"rental-service/internal/model"
	"rental-service/pkg/database"
	"rental-service/pkg/logger"
	"rental-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BuildingRequest defines the structure for building creation/update requests
type BuildingRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Address     string `json:"address" validate:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// CreateBuilding creates a new building
func CreateBuilding(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("building", "create")

	var req BuildingRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// Building names are unique
	var count int64
	database.GetDB().Model(&model.Building{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		log.Warn("Building with this name already exists", zap.String("name", req.Name))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Building with this name already exists"})
	}

	building := model.Building{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedBy:   userID(c),
		UpdatedBy:   userID(c),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&building); result.Error != nil {
		log.Error("Failed to create building", zap.String("name", req.Name), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create building"})
	}

	audit.Record(c, "create", "building", building.ID, nil, building)
	go refreshOccupancyGauge(building.ID)

	log.Info("Building created successfully", zap.Uint("id", building.ID), zap.String("name", building.Name))
	return c.JSON(http.StatusCreated, building)
}

// GetBuilding retrieves a building by ID
func GetBuilding(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("building", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid building ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var building model.Building
	if result := database.GetDB().First(&building, id); result.Error != nil {
		log.Warn("Building not found", zap.Uint("building_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Building not found"})
	}

	return c.JSON(http.StatusOK, building)
}

// ListBuildings retrieves buildings with pagination and filters
func ListBuildings(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("building", "list")

	p := parsePagination(c)

	query := database.GetDB().Model(&model.Building{})
	if search := c.QueryParam("search"); search != "" {
		query = query.Where("name LIKE ? OR address LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	sort := "name asc"
	switch c.QueryParam("sort") {
	case "created_at":
		sort = "created_at desc"
	case "updated_at":
		sort = "updated_at desc"
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var buildings []model.Building
	if result := query.Order(sort).Limit(p.Limit).Offset(p.Offset).Find(&buildings); result.Error != nil {
		log.Error("Failed to retrieve buildings", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve buildings"})
	}

	var total int64
	query.Count(&total)

	return c.JSON(http.StatusOK, paginated("buildings", buildings, p, total))
}

// UpdateBuilding updates an existing building
func UpdateBuilding(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("building", "update")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid building ID"})
	}

	var req BuildingRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var building model.Building
	if result := database.GetDB().First(&building, id); result.Error != nil {
		log.Warn("Building not found for update", zap.Uint("building_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Building not found"})
	}

	// Renaming must not collide with another building
	if req.Name != building.Name {
		var count int64
		database.GetDB().Model(&model.Building{}).
			Where("name = ? AND id != ?", req.Name, id).
			Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Building with this name already exists"})
		}
	}

	before := building
	building.Name = req.Name
	building.Address = req.Address
	building.Description = req.Description
	building.ImageURL = req.ImageURL
	building.UpdatedBy = userID(c)

	defer prometheus.TrackDBOperation("update")(time.Now())

	if result := database.GetDB().Save(&building); result.Error != nil {
		log.Error("Failed to update building", zap.Uint("building_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update building"})
	}

	audit.Record(c, "update", "building", building.ID, before, building)

	log.Info("Building updated successfully", zap.Uint("building_id", id), zap.String("name", building.Name))
	return c.JSON(http.StatusOK, building)
}

// DeleteBuilding soft deletes a building
func DeleteBuilding(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("building", "delete")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid building ID"})
	}

	var building model.Building
	if result := database.GetDB().First(&building, id); result.Error != nil {
		log.Warn("Building not found for delete", zap.Uint("building_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Building not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if result := database.GetDB().Delete(&building); result.Error != nil {
		log.Error("Failed to delete building", zap.Uint("building_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete building"})
	}

	audit.Record(c, "delete", "building", building.ID, building, nil)

	log.Info("Building deleted successfully", zap.Uint("building_id", id), zap.String("name", building.Name))
	return c.JSON(http.StatusOK, echo.Map{"message": "Building deleted successfully"})
}

// ListBuildingUnits retrieves all units belonging to a building
func ListBuildingUnits(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("building", "units")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid building ID"})
	}

	var building model.Building
	if result := database.GetDB().First(&building, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Building not found"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var units []model.Unit
	if result := database.GetDB().Where("building_id = ?", id).Order("number asc").Find(&units); result.Error != nil {
		log.Error("Failed to retrieve units", zap.Uint("building_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve units"})
	}

	return c.JSON(http.StatusOK, echo.Map{"units": units})
}

// ListBuildingExpenses retrieves all expenses recorded against a building
func ListBuildingExpenses(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("building", "expenses")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid building ID"})
	}

	var building model.Building
	if result := database.GetDB().First(&building, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Building not found"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var expenses []model.Expense
	if result := database.GetDB().Where("building_id = ?", id).Order("date desc").Find(&expenses); result.Error != nil {
		log.Error("Failed to retrieve expenses", zap.Uint("building_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve expenses"})
	}

	return c.JSON(http.StatusOK, echo.Map{"expenses": expenses})
}

// BuildingStatistics returns per-building rollups: unit counts, occupancy,
// income from active contracts care of the units, and expense totals. Every
// value is recomputed from fresh queries on each call.
func BuildingStatistics(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("building", "statistics")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var buildings []model.Building
	if result := database.GetDB().Order("name asc").Find(&buildings); result.Error != nil {
		log.Error("Failed to retrieve buildings", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve buildings"})
	}

	stats := make([]model.BuildingStatistics, 0, len(buildings))
	for _, b := range buildings {
		s := buildingStatistics(&b)
		prometheus.UpdateOccupancy(b.ID, b.Name, s.RentedPercentage)
		stats = append(stats, s)
	}

	return c.JSON(http.StatusOK, echo.Map{"statistics": stats})
}

// buildingStatistics computes the rollup for one building
func buildingStatistics(b *model.Building) model.BuildingStatistics {
	db := database.GetDB()

	var totalUnits, rentedUnits int64
	db.Model(&model.Unit{}).Where("building_id = ?", b.ID).Count(&totalUnits)
	db.Model(&model.Unit{}).Where("building_id = ? AND status = ?", b.ID, model.UnitStatusRented).Count(&rentedUnits)

	var monthlyIncome float64
	db.Model(&model.LeaseContract{}).
		Joins("JOIN units ON units.id = lease_contracts.unit_id").
		Where("units.building_id = ? AND lease_contracts.is_active = ?", b.ID, true).
		Select("COALESCE(SUM(lease_contracts.monthly_rent), 0)").
		Scan(&monthlyIncome)

	var totalExpenses float64
	db.Model(&model.Expense{}).
		Where("building_id = ?", b.ID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalExpenses)

	return model.BuildingStatistics{
		BuildingID:       b.ID,
		Name:             b.Name,
		TotalUnits:       totalUnits,
		RentedUnits:      rentedUnits,
		RentedPercentage: model.RentedPercentage(rentedUnits, totalUnits),
		MonthlyIncome:    monthlyIncome,
		YearlyIncome:     monthlyIncome * 12,
		TotalExpenses:    totalExpenses,
	}
}

// refreshOccupancyGauge recomputes the occupancy gauge for one building
func refreshOccupancyGauge(buildingID uint) {
	var building model.Building
	if result := database.GetDB().First(&building, buildingID); result.Error != nil {
		return
	}
	s := buildingStatistics(&building)
	prometheus.UpdateOccupancy(building.ID, building.Name, s.RentedPercentage)
}
