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

// ExpenseRequest defines the structure for expense creation/update requests.
// Amount must be strictly positive.
type ExpenseRequest struct {
	BuildingID  uint    `json:"building_id" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
}

// CreateExpense records a new expense against a building
func CreateExpense(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("expense", "create")

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date"})
	}

	var building model.Building
	if result := database.GetDB().First(&building, req.BuildingID); result.Error != nil {
		log.Warn("Building not found for expense", zap.Uint("building_id", req.BuildingID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Building not found"})
	}

	expense := model.Expense{
		BuildingID:  req.BuildingID,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
		CreatedBy:   userID(c),
		UpdatedBy:   userID(c),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&expense); result.Error != nil {
		log.Error("Failed to create expense", zap.Uint("building_id", req.BuildingID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create expense"})
	}

	audit.Record(c, "create", "expense", expense.ID, nil, expense)

	log.Info("Expense created successfully",
		zap.Uint("id", expense.ID),
		zap.Uint("building_id", expense.BuildingID),
		zap.Float64("amount", expense.Amount))
	return c.JSON(http.StatusCreated, expense)
}

// GetExpense retrieves an expense by ID
func GetExpense(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("expense", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid expense ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var expense model.Expense
	if result := database.GetDB().Preload("Building").First(&expense, id); result.Error != nil {
		log.Warn("Expense not found", zap.Uint("expense_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Expense not found"})
	}

	return c.JSON(http.StatusOK, expense)
}

// ListExpenses retrieves expenses with pagination and filters
func ListExpenses(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("expense", "list")

	p := parsePagination(c)

	query := database.GetDB().Model(&model.Expense{})
	if buildingID := c.QueryParam("building_id"); buildingID != "" {
		query = query.Where("building_id = ?", buildingID)
	}

	sort := "date desc"
	if c.QueryParam("sort") == "amount" {
		sort = "amount desc"
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var expenses []model.Expense
	if result := query.Order(sort).Limit(p.Limit).Offset(p.Offset).Find(&expenses); result.Error != nil {
		log.Error("Failed to retrieve expenses", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve expenses"})
	}

	var total int64
	query.Count(&total)

	return c.JSON(http.StatusOK, paginated("expenses", expenses, p, total))
}

// UpdateExpense updates an existing expense
func UpdateExpense(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("expense", "update")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid expense ID"})
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date"})
	}

	var expense model.Expense
	if result := database.GetDB().First(&expense, id); result.Error != nil {
		log.Warn("Expense not found for update", zap.Uint("expense_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Expense not found"})
	}

	before := expense
	expense.Description = req.Description
	expense.Amount = req.Amount
	expense.Date = date
	expense.UpdatedBy = userID(c)

	defer prometheus.TrackDBOperation("update")(time.Now())

	if result := database.GetDB().Save(&expense); result.Error != nil {
		log.Error("Failed to update expense", zap.Uint("expense_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update expense"})
	}

	audit.Record(c, "update", "expense", expense.ID, before, expense)

	log.Info("Expense updated successfully", zap.Uint("expense_id", id))
	return c.JSON(http.StatusOK, expense)
}

// DeleteExpense soft deletes an expense
func DeleteExpense(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("expense", "delete")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid expense ID"})
	}

	var expense model.Expense
	if result := database.GetDB().First(&expense, id); result.Error != nil {
		log.Warn("Expense not found for delete", zap.Uint("expense_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Expense not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if result := database.GetDB().Delete(&expense); result.Error != nil {
		log.Error("Failed to delete expense", zap.Uint("expense_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete expense"})
	}

	audit.Record(c, "delete", "expense", expense.ID, expense, nil)

	log.Info("Expense deleted successfully", zap.Uint("expense_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Expense deleted successfully"})
}
