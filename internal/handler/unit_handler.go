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

// UnitRequest defines the structure for unit creation/update requests
type UnitRequest struct {
	BuildingID  uint    `json:"building_id" validate:"required"`
	UnitType    string  `json:"unit_type" validate:"required"`
	Status      string  `json:"status"`
	Number      string  `json:"number" validate:"required,max=50"`
	Area        float64 `json:"area" validate:"gte=0"`
	MonthlyRent float64 `json:"monthly_rent" validate:"gte=0"`
	ImageURL    string  `json:"image_url"`
}

// CreateUnit creates a new unit inside a building
func CreateUnit(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("unit", "create")

	var req UnitRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if !model.ValidUnitType(req.UnitType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid unit type"})
	}
	if req.Status == "" {
		req.Status = model.UnitStatusAvailable
	}
	if !model.ValidUnitStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid unit status"})
	}

	var building model.Building
	if result := database.GetDB().First(&building, req.BuildingID); result.Error != nil {
		log.Warn("Building not found for unit", zap.Uint("building_id", req.BuildingID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Building not found"})
	}

	// Unit numbers are unique
	var count int64
	database.GetDB().Model(&model.Unit{}).Where("number = ?", req.Number).Count(&count)
	if count > 0 {
		log.Warn("Unit with this number already exists", zap.String("number", req.Number))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Unit with this number already exists"})
	}

	unit := model.Unit{
		BuildingID:  req.BuildingID,
		UnitType:    req.UnitType,
		Status:      req.Status,
		Number:      req.Number,
		Area:        req.Area,
		MonthlyRent: req.MonthlyRent,
		ImageURL:    req.ImageURL,
		CreatedBy:   userID(c),
		UpdatedBy:   userID(c),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&unit); result.Error != nil {
		log.Error("Failed to create unit", zap.String("number", req.Number), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create unit"})
	}

	audit.Record(c, "create", "unit", unit.ID, nil, unit)
	go refreshOccupancyGauge(unit.BuildingID)

	log.Info("Unit created successfully",
		zap.Uint("id", unit.ID),
		zap.String("number", unit.Number),
		zap.Uint("building_id", unit.BuildingID))
	return c.JSON(http.StatusCreated, unit)
}

// GetUnit retrieves a unit by ID with its building
func GetUnit(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("unit", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid unit ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var unit model.Unit
	if result := database.GetDB().Preload("Building").First(&unit, id); result.Error != nil {
		log.Warn("Unit not found", zap.Uint("unit_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Unit not found"})
	}

	return c.JSON(http.StatusOK, unit)
}

// ListUnits retrieves units with pagination and filters
func ListUnits(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("unit", "list")

	p := parsePagination(c)

	query := database.GetDB().Model(&model.Unit{})
	if buildingID := c.QueryParam("building_id"); buildingID != "" {
		query = query.Where("building_id = ?", buildingID)
	}
	if unitType := c.QueryParam("unit_type"); unitType != "" {
		query = query.Where("unit_type = ?", unitType)
	}
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.QueryParam("search"); search != "" {
		query = query.Where("number LIKE ?", "%"+search+"%")
	}

	sort := "number asc"
	switch c.QueryParam("sort") {
	case "monthly_rent":
		sort = "monthly_rent desc"
	case "area":
		sort = "area desc"
	case "created_at":
		sort = "created_at desc"
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var units []model.Unit
	if result := query.Order(sort).Limit(p.Limit).Offset(p.Offset).Find(&units); result.Error != nil {
		log.Error("Failed to retrieve units", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve units"})
	}

	var total int64
	query.Count(&total)

	return c.JSON(http.StatusOK, paginated("units", units, p, total))
}

// ListAvailableUnits retrieves all units currently available for lease
func ListAvailableUnits(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("unit", "available")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var units []model.Unit
	result := database.GetDB().
		Where("status = ?", model.UnitStatusAvailable).
		Order("number asc").
		Find(&units)
	if result.Error != nil {
		log.Error("Failed to retrieve available units", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve available units"})
	}

	return c.JSON(http.StatusOK, echo.Map{"units": units})
}

// UpdateUnit updates an existing unit
func UpdateUnit(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("unit", "update")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid unit ID"})
	}

	var req UnitRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if !model.ValidUnitType(req.UnitType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid unit type"})
	}
	if req.Status != "" && !model.ValidUnitStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid unit status"})
	}

	var unit model.Unit
	if result := database.GetDB().First(&unit, id); result.Error != nil {
		log.Warn("Unit not found for update", zap.Uint("unit_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Unit not found"})
	}

	if req.Number != unit.Number {
		var count int64
		database.GetDB().Model(&model.Unit{}).
			Where("number = ? AND id != ?", req.Number, id).
			Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Unit with this number already exists"})
		}
	}

	before := unit
	unit.UnitType = req.UnitType
	if req.Status != "" {
		unit.Status = req.Status
	}
	unit.Number = req.Number
	unit.Area = req.Area
	unit.MonthlyRent = req.MonthlyRent
	unit.ImageURL = req.ImageURL
	unit.UpdatedBy = userID(c)

	defer prometheus.TrackDBOperation("update")(time.Now())

	if result := database.GetDB().Save(&unit); result.Error != nil {
		log.Error("Failed to update unit", zap.Uint("unit_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update unit"})
	}

	audit.Record(c, "update", "unit", unit.ID, before, unit)
	go refreshOccupancyGauge(unit.BuildingID)

	log.Info("Unit updated successfully", zap.Uint("unit_id", id), zap.String("number", unit.Number))
	return c.JSON(http.StatusOK, unit)
}

// DeleteUnit soft deletes a unit
func DeleteUnit(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("unit", "delete")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid unit ID"})
	}

	var unit model.Unit
	if result := database.GetDB().First(&unit, id); result.Error != nil {
		log.Warn("Unit not found for delete", zap.Uint("unit_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Unit not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if result := database.GetDB().Delete(&unit); result.Error != nil {
		log.Error("Failed to delete unit", zap.Uint("unit_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete unit"})
	}

	audit.Record(c, "delete", "unit", unit.ID, unit, nil)
	go refreshOccupancyGauge(unit.BuildingID)

	log.Info("Unit deleted successfully", zap.Uint("unit_id", id), zap.String("number", unit.Number))
	return c.JSON(http.StatusOK, echo.Map{"message": "Unit deleted successfully"})
}
