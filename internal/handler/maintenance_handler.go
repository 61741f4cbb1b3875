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

// MaintenanceRequestInput defines the structure for maintenance request creation/update
type MaintenanceRequestInput struct {
	UnitID       uint   `json:"unit_id" validate:"required"`
	Description  string `json:"description" validate:"required"`
	RequestDate  string `json:"request_date" validate:"required,datetime=2006-01-02"`
	Priority     string `json:"priority"`
	IsResolved   bool   `json:"is_resolved"`
	ResolvedDate string `json:"resolved_date" validate:"omitempty,datetime=2006-01-02"`
}

// BulkResolveRequest carries the IDs to resolve in one statement
type BulkResolveRequest struct {
	RequestIDs []uint `json:"request_ids" validate:"required,min=1"`
}

// CreateMaintenanceRequest creates a new maintenance request for a unit
func CreateMaintenanceRequest(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("maintenance_request", "create")

	var req MaintenanceRequestInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(req.Priority) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid priority"})
	}

	requestDate, err := parseDate(req.RequestDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request date"})
	}

	var resolvedDate *time.Time
	if req.ResolvedDate != "" {
		d, err := parseDate(req.ResolvedDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid resolved date"})
		}
		if d.Before(requestDate) {
			log.Warn("Resolved date precedes request date",
				zap.String("request_date", req.RequestDate),
				zap.String("resolved_date", req.ResolvedDate))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Resolved date must not precede request date"})
		}
		resolvedDate = &d
	}

	var unit model.Unit
	if result := database.GetDB().First(&unit, req.UnitID); result.Error != nil {
		log.Warn("Unit not found for maintenance request", zap.Uint("unit_id", req.UnitID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Unit not found"})
	}

	request := model.MaintenanceRequest{
		UnitID:       req.UnitID,
		Description:  req.Description,
		RequestDate:  requestDate,
		Priority:     req.Priority,
		IsResolved:   req.IsResolved,
		ResolvedDate: resolvedDate,
		CreatedBy:    userID(c),
		UpdatedBy:    userID(c),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&request); result.Error != nil {
		log.Error("Failed to create maintenance request", zap.Uint("unit_id", req.UnitID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create maintenance request"})
	}

	audit.Record(c, "create", "maintenance_request", request.ID, nil, request)

	log.Info("Maintenance request created successfully",
		zap.Uint("id", request.ID),
		zap.Uint("unit_id", request.UnitID),
		zap.String("priority", request.Priority))
	return c.JSON(http.StatusCreated, request)
}

// GetMaintenanceRequest retrieves a maintenance request by ID
func GetMaintenanceRequest(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("maintenance_request", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid maintenance request ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var request model.MaintenanceRequest
	if result := database.GetDB().Preload("Unit").First(&request, id); result.Error != nil {
		log.Warn("Maintenance request not found", zap.Uint("request_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Maintenance request not found"})
	}

	return c.JSON(http.StatusOK, request)
}

// ListMaintenanceRequests retrieves maintenance requests with pagination and filters
func ListMaintenanceRequests(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("maintenance_request", "list")

	p := parsePagination(c)

	query := database.GetDB().Model(&model.MaintenanceRequest{})
	if unitID := c.QueryParam("unit_id"); unitID != "" {
		query = query.Where("unit_id = ?", unitID)
	}
	if isResolved := c.QueryParam("is_resolved"); isResolved != "" {
		query = query.Where("is_resolved = ?", isResolved == "true")
	}
	if priority := c.QueryParam("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var requests []model.MaintenanceRequest
	if result := query.Order("request_date desc").Limit(p.Limit).Offset(p.Offset).Find(&requests); result.Error != nil {
		log.Error("Failed to retrieve maintenance requests", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve maintenance requests"})
	}

	var total int64
	query.Count(&total)

	return c.JSON(http.StatusOK, paginated("maintenance_requests", requests, p, total))
}

// ListUnresolvedMaintenanceRequests retrieves all unresolved requests
func ListUnresolvedMaintenanceRequests(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("maintenance_request", "unresolved")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var requests []model.MaintenanceRequest
	result := database.GetDB().
		Where("is_resolved = ?", false).
		Order("request_date asc").
		Find(&requests)
	if result.Error != nil {
		log.Error("Failed to retrieve unresolved requests", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve unresolved requests"})
	}

	return c.JSON(http.StatusOK, echo.Map{"maintenance_requests": requests})
}

// BulkResolveMaintenanceRequests marks the given requests resolved in one
// filtered UPDATE. Re-running with the same IDs is a no-op.
func BulkResolveMaintenanceRequests(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("maintenance_request", "bulk_resolve")

	var req BulkResolveRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	now := time.Now()
	result := database.GetDB().Model(&model.MaintenanceRequest{}).
		Where("id IN ? AND is_resolved = ?", req.RequestIDs, false).
		Updates(map[string]interface{}{
			"is_resolved":   true,
			"resolved_date": now,
			"updated_by":    userID(c),
		})
	if result.Error != nil {
		log.Error("Failed to bulk resolve maintenance requests", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to resolve maintenance requests"})
	}

	audit.Record(c, "bulk_resolve", "maintenance_request", 0, nil, req.RequestIDs)

	log.Info("Maintenance requests resolved",
		zap.Int("requested", len(req.RequestIDs)),
		zap.Int64("updated", result.RowsAffected))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Maintenance requests resolved",
		"updated": result.RowsAffected,
	})
}

// UpdateMaintenanceRequest updates an existing maintenance request
func UpdateMaintenanceRequest(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("maintenance_request", "update")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid maintenance request ID"})
	}

	var req MaintenanceRequestInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Priority != "" && !model.ValidPriority(req.Priority) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid priority"})
	}

	requestDate, err := parseDate(req.RequestDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request date"})
	}

	var resolvedDate *time.Time
	if req.ResolvedDate != "" {
		d, err := parseDate(req.ResolvedDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid resolved date"})
		}
		if d.Before(requestDate) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Resolved date must not precede request date"})
		}
		resolvedDate = &d
	}

	var request model.MaintenanceRequest
	if result := database.GetDB().First(&request, id); result.Error != nil {
		log.Warn("Maintenance request not found for update", zap.Uint("request_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Maintenance request not found"})
	}

	before := request
	request.Description = req.Description
	request.RequestDate = requestDate
	if req.Priority != "" {
		request.Priority = req.Priority
	}
	request.IsResolved = req.IsResolved
	request.ResolvedDate = resolvedDate
	request.UpdatedBy = userID(c)

	defer prometheus.TrackDBOperation("update")(time.Now())

	if result := database.GetDB().Save(&request); result.Error != nil {
		log.Error("Failed to update maintenance request", zap.Uint("request_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update maintenance request"})
	}

	audit.Record(c, "update", "maintenance_request", request.ID, before, request)

	log.Info("Maintenance request updated successfully", zap.Uint("request_id", id))
	return c.JSON(http.StatusOK, request)
}

// DeleteMaintenanceRequest soft deletes a maintenance request
func DeleteMaintenanceRequest(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("maintenance_request", "delete")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid maintenance request ID"})
	}

	var request model.MaintenanceRequest
	if result := database.GetDB().First(&request, id); result.Error != nil {
		log.Warn("Maintenance request not found for delete", zap.Uint("request_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Maintenance request not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if result := database.GetDB().Delete(&request); result.Error != nil {
		log.Error("Failed to delete maintenance request", zap.Uint("request_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete maintenance request"})
	}

	audit.Record(c, "delete", "maintenance_request", request.ID, request, nil)

	log.Info("Maintenance request deleted successfully", zap.Uint("request_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Maintenance request deleted successfully"})
}
