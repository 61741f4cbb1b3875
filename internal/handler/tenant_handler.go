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

// TenantRequest defines the structure for tenant creation/update requests
type TenantRequest struct {
	FullName          string `json:"full_name" validate:"required,max=200"`
	Phone             string `json:"phone" validate:"required,numeric,min=7,max=20"`
	Email             string `json:"email" validate:"omitempty,email"`
	IDCard            string `json:"id_card" validate:"max=50"`
	ProfilePictureURL string `json:"profile_picture_url"`
	Description       string `json:"description"`
}

// CreateTenant creates a new tenant
func CreateTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("tenant", "create")

	var req TenantRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// Phone numbers are unique
	var count int64
	database.GetDB().Model(&model.Tenant{}).Where("phone = ?", req.Phone).Count(&count)
	if count > 0 {
		log.Warn("Tenant with this phone already exists", zap.String("phone", req.Phone))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Tenant with this phone already exists"})
	}

	tenant := model.Tenant{
		FullName:          req.FullName,
		Phone:             req.Phone,
		Email:             req.Email,
		IDCard:            req.IDCard,
		ProfilePictureURL: req.ProfilePictureURL,
		Description:       req.Description,
		CreatedBy:         userID(c),
		UpdatedBy:         userID(c),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&tenant); result.Error != nil {
		log.Error("Failed to create tenant", zap.String("full_name", req.FullName), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create tenant"})
	}

	audit.Record(c, "create", "tenant", tenant.ID, nil, tenant)

	log.Info("Tenant created successfully", zap.Uint("id", tenant.ID), zap.String("full_name", tenant.FullName))
	return c.JSON(http.StatusCreated, tenant)
}

// GetTenant retrieves a tenant by ID, together with contract and payment rollups
func GetTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("tenant", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid tenant ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var tenant model.Tenant
	if result := database.GetDB().First(&tenant, id); result.Error != nil {
		log.Warn("Tenant not found", zap.Uint("tenant_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Tenant not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"tenant":     tenant,
		"statistics": tenantStatistics(&tenant),
	})
}

// ListTenants retrieves tenants with pagination and filters
func ListTenants(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("tenant", "list")

	p := parsePagination(c)

	query := database.GetDB().Model(&model.Tenant{})
	if search := c.QueryParam("search"); search != "" {
		query = query.Where("full_name LIKE ? OR phone LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var tenants []model.Tenant
	if result := query.Order("full_name asc").Limit(p.Limit).Offset(p.Offset).Find(&tenants); result.Error != nil {
		log.Error("Failed to retrieve tenants", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve tenants"})
	}

	var total int64
	query.Count(&total)

	return c.JSON(http.StatusOK, paginated("tenants", tenants, p, total))
}

// ListTenantContracts retrieves all lease contracts held by a tenant
func ListTenantContracts(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("tenant", "contracts")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid tenant ID"})
	}

	var tenant model.Tenant
	if result := database.GetDB().First(&tenant, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Tenant not found"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var contracts []model.LeaseContract
	result := database.GetDB().
		Preload("Unit").
		Where("tenant_id = ?", id).
		Order("start_date desc").
		Find(&contracts)
	if result.Error != nil {
		log.Error("Failed to retrieve contracts", zap.Uint("tenant_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve contracts"})
	}

	return c.JSON(http.StatusOK, echo.Map{"contracts": contracts})
}

// UpdateTenant updates an existing tenant
func UpdateTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("tenant", "update")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid tenant ID"})
	}

	var req TenantRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var tenant model.Tenant
	if result := database.GetDB().First(&tenant, id); result.Error != nil {
		log.Warn("Tenant not found for update", zap.Uint("tenant_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Tenant not found"})
	}

	if req.Phone != tenant.Phone {
		var count int64
		database.GetDB().Model(&model.Tenant{}).
			Where("phone = ? AND id != ?", req.Phone, id).
			Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Tenant with this phone already exists"})
		}
	}

	before := tenant
	tenant.FullName = req.FullName
	tenant.Phone = req.Phone
	tenant.Email = req.Email
	tenant.IDCard = req.IDCard
	tenant.ProfilePictureURL = req.ProfilePictureURL
	tenant.Description = req.Description
	tenant.UpdatedBy = userID(c)

	defer prometheus.TrackDBOperation("update")(time.Now())

	if result := database.GetDB().Save(&tenant); result.Error != nil {
		log.Error("Failed to update tenant", zap.Uint("tenant_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update tenant"})
	}

	audit.Record(c, "update", "tenant", tenant.ID, before, tenant)

	log.Info("Tenant updated successfully", zap.Uint("tenant_id", id), zap.String("full_name", tenant.FullName))
	return c.JSON(http.StatusOK, tenant)
}

// DeleteTenant soft deletes a tenant
func DeleteTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("tenant", "delete")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid tenant ID"})
	}

	var tenant model.Tenant
	if result := database.GetDB().First(&tenant, id); result.Error != nil {
		log.Warn("Tenant not found for delete", zap.Uint("tenant_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Tenant not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if result := database.GetDB().Delete(&tenant); result.Error != nil {
		log.Error("Failed to delete tenant", zap.Uint("tenant_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete tenant"})
	}

	audit.Record(c, "delete", "tenant", tenant.ID, tenant, nil)

	log.Info("Tenant deleted successfully", zap.Uint("tenant_id", id), zap.String("full_name", tenant.FullName))
	return c.JSON(http.StatusOK, echo.Map{"message": "Tenant deleted successfully"})
}

// tenantStatistics recomputes the per-tenant rollup with fresh queries
func tenantStatistics(t *model.Tenant) model.TenantStatistics {
	db := database.GetDB()

	var activeContracts int64
	db.Model(&model.LeaseContract{}).
		Where("tenant_id = ? AND is_active = ?", t.ID, true).
		Count(&activeContracts)

	var totalPayments float64
	db.Model(&model.Payment{}).
		Joins("JOIN lease_contracts ON lease_contracts.id = payments.contract_id").
		Where("lease_contracts.tenant_id = ?", t.ID).
		Select("COALESCE(SUM(payments.amount), 0)").
		Scan(&totalPayments)

	return model.TenantStatistics{
		TenantID:        t.ID,
		FullName:        t.FullName,
		ActiveContracts: activeContracts,
		TotalPayments:   totalPayments,
	}
}
