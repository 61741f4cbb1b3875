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

// ContractRequest defines the structure for lease contract creation/update requests
type ContractRequest struct {
	UnitID      uint    `json:"unit_id" validate:"required"`
	TenantID    uint    `json:"tenant_id" validate:"required"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	MonthlyRent float64 `json:"monthly_rent" validate:"gte=0"`
}

// TerminateContractRequest identifies the contract to terminate
type TerminateContractRequest struct {
	ContractID uint `json:"contract_id" validate:"required"`
}

// contractView is a contract plus its derived date fields
type contractView struct {
	model.LeaseContract
	RemainingDays int  `json:"remaining_days"`
	IsDueSoon     bool `json:"is_due_soon"`
	IsExpired     bool `json:"is_expired"`
}

// newContractView computes the derived fields as of now
func newContractView(contract model.LeaseContract) contractView {
	now := time.Now()
	return contractView{
		LeaseContract: contract,
		RemainingDays: contract.RemainingDays(now),
		IsDueSoon:     contract.IsDueSoon(now),
		IsExpired:     contract.IsExpired(now),
	}
}

// newContractViews maps a slice of contracts to views
func newContractViews(contracts []model.LeaseContract) []contractView {
	views := make([]contractView, 0, len(contracts))
	for _, contract := range contracts {
		views = append(views, newContractView(contract))
	}
	return views
}

// CreateContract creates a new lease contract binding a tenant to a unit
func CreateContract(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("contract", "create")

	var req ContractRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid start date"})
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid end date"})
	}
	if !endDate.After(startDate) {
		log.Warn("Contract end date not after start date",
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "End date must be after start date"})
	}

	var unit model.Unit
	if result := database.GetDB().First(&unit, req.UnitID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Unit not found"})
	}
	var tenant model.Tenant
	if result := database.GetDB().First(&tenant, req.TenantID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Tenant not found"})
	}

	// At most one active contract per unit
	var count int64
	database.GetDB().Model(&model.LeaseContract{}).
		Where("unit_id = ? AND is_active = ?", req.UnitID, true).
		Count(&count)
	if count > 0 {
		log.Warn("Unit already has an active contract", zap.Uint("unit_id", req.UnitID))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Unit already has an active contract"})
	}

	contract := model.LeaseContract{
		UnitID:      req.UnitID,
		TenantID:    req.TenantID,
		StartDate:   startDate,
		EndDate:     endDate,
		MonthlyRent: req.MonthlyRent,
		IsActive:    true,
		CreatedBy:   userID(c),
		UpdatedBy:   userID(c),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&contract); result.Error != nil {
		log.Error("Failed to create contract",
			zap.Uint("unit_id", req.UnitID),
			zap.Uint("tenant_id", req.TenantID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create contract"})
	}

	audit.Record(c, "create", "contract", contract.ID, nil, contract)
	go refreshActiveContractsGauge()

	log.Info("Contract created successfully",
		zap.Uint("id", contract.ID),
		zap.Uint("unit_id", contract.UnitID),
		zap.Uint("tenant_id", contract.TenantID))
	return c.JSON(http.StatusCreated, newContractView(contract))
}

// GetContract retrieves a lease contract by ID with its unit and tenant
func GetContract(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("contract", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid contract ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var contract model.LeaseContract
	if result := database.GetDB().Preload("Unit").Preload("Tenant").First(&contract, id); result.Error != nil {
		log.Warn("Contract not found", zap.Uint("contract_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Contract not found"})
	}

	return c.JSON(http.StatusOK, newContractView(contract))
}

// ListContracts retrieves lease contracts with pagination and filters
func ListContracts(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("contract", "list")

	p := parsePagination(c)

	query := database.GetDB().Model(&model.LeaseContract{})
	if unitID := c.QueryParam("unit_id"); unitID != "" {
		query = query.Where("unit_id = ?", unitID)
	}
	if tenantID := c.QueryParam("tenant_id"); tenantID != "" {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if isActive := c.QueryParam("is_active"); isActive != "" {
		query = query.Where("is_active = ?", isActive == "true")
	}

	sort := "start_date desc"
	if c.QueryParam("sort") == "end_date" {
		sort = "end_date asc"
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var contracts []model.LeaseContract
	if result := query.Order(sort).Limit(p.Limit).Offset(p.Offset).Find(&contracts); result.Error != nil {
		log.Error("Failed to retrieve contracts", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve contracts"})
	}

	var total int64
	query.Count(&total)

	return c.JSON(http.StatusOK, paginated("contracts", newContractViews(contracts), p, total))
}

// ListExpiredContracts retrieves contracts whose end date has passed but are
// still flagged active. Termination stays manual; this list is for the
// operator to act on.
func ListExpiredContracts(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("contract", "expired")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var contracts []model.LeaseContract
	result := database.GetDB().
		Where("end_date < ? AND is_active = ?", time.Now(), true).
		Order("end_date asc").
		Find(&contracts)
	if result.Error != nil {
		log.Error("Failed to retrieve expired contracts", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve expired contracts"})
	}

	return c.JSON(http.StatusOK, echo.Map{"contracts": newContractViews(contracts)})
}

// TerminateContract marks a contract inactive. No other state changes.
func TerminateContract(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("contract", "terminate")

	var req TerminateContractRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var contract model.LeaseContract
	if result := database.GetDB().First(&contract, req.ContractID); result.Error != nil {
		log.Warn("Contract not found for termination", zap.Uint("contract_id", req.ContractID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Contract not found"})
	}

	before := contract
	contract.IsActive = false
	contract.UpdatedBy = userID(c)

	defer prometheus.TrackDBOperation("update")(time.Now())

	if result := database.GetDB().Save(&contract); result.Error != nil {
		log.Error("Failed to terminate contract", zap.Uint("contract_id", req.ContractID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to terminate contract"})
	}

	audit.Record(c, "terminate", "contract", contract.ID, before, contract)
	go refreshActiveContractsGauge()

	log.Info("Contract terminated successfully", zap.Uint("contract_id", contract.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Contract terminated successfully"})
}

// UpdateContract updates the dates and rent of an existing contract
func UpdateContract(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("contract", "update")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid contract ID"})
	}

	var req ContractRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid start date"})
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid end date"})
	}
	if !endDate.After(startDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "End date must be after start date"})
	}

	var contract model.LeaseContract
	if result := database.GetDB().First(&contract, id); result.Error != nil {
		log.Warn("Contract not found for update", zap.Uint("contract_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Contract not found"})
	}

	before := contract
	contract.StartDate = startDate
	contract.EndDate = endDate
	contract.MonthlyRent = req.MonthlyRent
	contract.UpdatedBy = userID(c)

	defer prometheus.TrackDBOperation("update")(time.Now())

	if result := database.GetDB().Save(&contract); result.Error != nil {
		log.Error("Failed to update contract", zap.Uint("contract_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update contract"})
	}

	audit.Record(c, "update", "contract", contract.ID, before, contract)

	log.Info("Contract updated successfully", zap.Uint("contract_id", id))
	return c.JSON(http.StatusOK, newContractView(contract))
}

// DeleteContract soft deletes a contract
func DeleteContract(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("contract", "delete")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid contract ID"})
	}

	var contract model.LeaseContract
	if result := database.GetDB().First(&contract, id); result.Error != nil {
		log.Warn("Contract not found for delete", zap.Uint("contract_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Contract not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if result := database.GetDB().Delete(&contract); result.Error != nil {
		log.Error("Failed to delete contract", zap.Uint("contract_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete contract"})
	}

	audit.Record(c, "delete", "contract", contract.ID, contract, nil)
	go refreshActiveContractsGauge()

	log.Info("Contract deleted successfully", zap.Uint("contract_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Contract deleted successfully"})
}

// refreshActiveContractsGauge recomputes the active contracts gauge
func refreshActiveContractsGauge() {
	var count int64
	database.GetDB().Model(&model.LeaseContract{}).Where("is_active = ?", true).Count(&count)
	prometheus.UpdateActiveContracts(count)
}
