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

// PaymentRequest defines the structure for payment creation/update requests.
// Amount must be strictly positive; 0.01 is the smallest accepted value.
type PaymentRequest struct {
	ContractID  uint    `json:"contract_id" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	PaymentDate string  `json:"payment_date" validate:"required,datetime=2006-01-02"`
	Description string  `json:"description"`
}

// CreatePayment records a payment against a contract
func CreatePayment(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("payment", "create")

	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid payment date"})
	}

	var contract model.LeaseContract
	if result := database.GetDB().First(&contract, req.ContractID); result.Error != nil {
		log.Warn("Contract not found for payment", zap.Uint("contract_id", req.ContractID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Contract not found"})
	}

	payment := model.Payment{
		ContractID:  req.ContractID,
		Amount:      req.Amount,
		PaymentDate: paymentDate,
		Description: req.Description,
		CreatedBy:   userID(c),
		UpdatedBy:   userID(c),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&payment); result.Error != nil {
		log.Error("Failed to create payment", zap.Uint("contract_id", req.ContractID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create payment"})
	}

	audit.Record(c, "create", "payment", payment.ID, nil, payment)

	log.Info("Payment created successfully",
		zap.Uint("id", payment.ID),
		zap.Uint("contract_id", payment.ContractID),
		zap.Float64("amount", payment.Amount))
	return c.JSON(http.StatusCreated, payment)
}

// GetPayment retrieves a payment by ID
func GetPayment(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("payment", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid payment ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var payment model.Payment
	if result := database.GetDB().Preload("Contract").First(&payment, id); result.Error != nil {
		log.Warn("Payment not found", zap.Uint("payment_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Payment not found"})
	}

	return c.JSON(http.StatusOK, payment)
}

// ListPayments retrieves payments with pagination and filters
func ListPayments(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("payment", "list")

	p := parsePagination(c)

	query := database.GetDB().Model(&model.Payment{})
	if contractID := c.QueryParam("contract_id"); contractID != "" {
		query = query.Where("contract_id = ?", contractID)
	}

	sort := "payment_date desc"
	if c.QueryParam("sort") == "amount" {
		sort = "amount desc"
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var payments []model.Payment
	if result := query.Order(sort).Limit(p.Limit).Offset(p.Offset).Find(&payments); result.Error != nil {
		log.Error("Failed to retrieve payments", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve payments"})
	}

	var total int64
	query.Count(&total)

	return c.JSON(http.StatusOK, paginated("payments", payments, p, total))
}

// PaymentStatistics returns the total amount received and the latest payment
func PaymentStatistics(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("payment", "statistics")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var total float64
	database.GetDB().Model(&model.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total)

	var latest model.Payment
	result := database.GetDB().Order("payment_date desc").First(&latest)

	response := echo.Map{"total_payments": total}
	if result.Error == nil {
		response["latest_payment"] = echo.Map{
			"amount":       latest.Amount,
			"payment_date": latest.PaymentDate,
			"contract_id":  latest.ContractID,
		}
	} else {
		response["latest_payment"] = nil
	}

	log.Info("Payment statistics computed", zap.Float64("total", total))
	return c.JSON(http.StatusOK, response)
}

// UpdatePayment updates an existing payment
func UpdatePayment(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("payment", "update")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid payment ID"})
	}

	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid payment date"})
	}

	var payment model.Payment
	if result := database.GetDB().First(&payment, id); result.Error != nil {
		log.Warn("Payment not found for update", zap.Uint("payment_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Payment not found"})
	}

	before := payment
	payment.Amount = req.Amount
	payment.PaymentDate = paymentDate
	payment.Description = req.Description
	payment.UpdatedBy = userID(c)

	defer prometheus.TrackDBOperation("update")(time.Now())

	if result := database.GetDB().Save(&payment); result.Error != nil {
		log.Error("Failed to update payment", zap.Uint("payment_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update payment"})
	}

	audit.Record(c, "update", "payment", payment.ID, before, payment)

	log.Info("Payment updated successfully", zap.Uint("payment_id", id))
	return c.JSON(http.StatusOK, payment)
}

// DeletePayment soft deletes a payment
func DeletePayment(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("payment", "delete")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid payment ID"})
	}

	var payment model.Payment
	if result := database.GetDB().First(&payment, id); result.Error != nil {
		log.Warn("Payment not found for delete", zap.Uint("payment_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Payment not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if result := database.GetDB().Delete(&payment); result.Error != nil {
		log.Error("Failed to delete payment", zap.Uint("payment_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete payment"})
	}

	audit.Record(c, "delete", "payment", payment.ID, payment, nil)

	log.Info("Payment deleted successfully", zap.Uint("payment_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Payment deleted successfully"})
}
