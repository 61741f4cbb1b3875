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

// InvoiceRequest defines the structure for invoice creation/update requests
type InvoiceRequest struct {
	ContractID uint    `json:"contract_id" validate:"required"`
	IssueDate  string  `json:"issue_date" validate:"required,datetime=2006-01-02"`
	DueDate    string  `json:"due_date" validate:"required,datetime=2006-01-02"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	IsPaid     bool    `json:"is_paid"`
}

// invoiceView is an invoice plus its derived overdue fields
type invoiceView struct {
	model.Invoice
	IsOverdue bool `json:"is_overdue"`
	DaysLate  int  `json:"days_late"`
}

// newInvoiceView computes the derived fields as of now
func newInvoiceView(invoice model.Invoice) invoiceView {
	now := time.Now()
	return invoiceView{
		Invoice:   invoice,
		IsOverdue: invoice.IsOverdue(now),
		DaysLate:  invoice.DaysLate(now),
	}
}

// newInvoiceViews maps a slice of invoices to views
func newInvoiceViews(invoices []model.Invoice) []invoiceView {
	views := make([]invoiceView, 0, len(invoices))
	for _, invoice := range invoices {
		views = append(views, newInvoiceView(invoice))
	}
	return views
}

// CreateInvoice creates a new invoice against a contract
func CreateInvoice(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("invoice", "create")

	var req InvoiceRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid issue date"})
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid due date"})
	}

	var contract model.LeaseContract
	if result := database.GetDB().First(&contract, req.ContractID); result.Error != nil {
		log.Warn("Contract not found for invoice", zap.Uint("contract_id", req.ContractID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Contract not found"})
	}

	invoice := model.Invoice{
		ContractID: req.ContractID,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Amount:     req.Amount,
		IsPaid:     req.IsPaid,
		CreatedBy:  userID(c),
		UpdatedBy:  userID(c),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&invoice); result.Error != nil {
		log.Error("Failed to create invoice", zap.Uint("contract_id", req.ContractID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create invoice"})
	}

	audit.Record(c, "create", "invoice", invoice.ID, nil, invoice)
	go refreshUnpaidInvoicesGauge()

	log.Info("Invoice created successfully",
		zap.Uint("id", invoice.ID),
		zap.Uint("contract_id", invoice.ContractID),
		zap.Float64("amount", invoice.Amount))
	return c.JSON(http.StatusCreated, newInvoiceView(invoice))
}

// GetInvoice retrieves an invoice by ID
func GetInvoice(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("invoice", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid invoice ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var invoice model.Invoice
	if result := database.GetDB().Preload("Contract").First(&invoice, id); result.Error != nil {
		log.Warn("Invoice not found", zap.Uint("invoice_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Invoice not found"})
	}

	return c.JSON(http.StatusOK, newInvoiceView(invoice))
}

// ListInvoices retrieves invoices with pagination and filters
func ListInvoices(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("invoice", "list")

	p := parsePagination(c)

	query := database.GetDB().Model(&model.Invoice{})
	if contractID := c.QueryParam("contract_id"); contractID != "" {
		query = query.Where("contract_id = ?", contractID)
	}
	if isPaid := c.QueryParam("is_paid"); isPaid != "" {
		query = query.Where("is_paid = ?", isPaid == "true")
	}

	sort := "due_date asc"
	if c.QueryParam("sort") == "issue_date" {
		sort = "issue_date desc"
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var invoices []model.Invoice
	if result := query.Order(sort).Limit(p.Limit).Offset(p.Offset).Find(&invoices); result.Error != nil {
		log.Error("Failed to retrieve invoices", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve invoices"})
	}

	var total int64
	query.Count(&total)

	return c.JSON(http.StatusOK, paginated("invoices", newInvoiceViews(invoices), p, total))
}

// ListOverdueInvoices retrieves unpaid invoices past their due date
func ListOverdueInvoices(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("invoice", "overdue")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var invoices []model.Invoice
	result := database.GetDB().
		Where("is_paid = ? AND due_date < ?", false, time.Now()).
		Order("due_date asc").
		Find(&invoices)
	if result.Error != nil {
		log.Error("Failed to retrieve overdue invoices", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve overdue invoices"})
	}

	return c.JSON(http.StatusOK, echo.Map{"invoices": newInvoiceViews(invoices)})
}

// CalculateLateFee recomputes and persists the late fee for an invoice.
// The fee is days late times the configured flat daily rate; nothing else
// recomputes it, so callers invoke this explicitly.
func CalculateLateFee(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("invoice", "late_fee")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid invoice ID"})
	}

	var invoice model.Invoice
	if result := database.GetDB().First(&invoice, id); result.Error != nil {
		log.Warn("Invoice not found for late fee", zap.Uint("invoice_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Invoice not found"})
	}

	before := invoice
	invoice.LateFee = invoice.CalculateLateFee(time.Now(), lateFeeDailyRate())
	invoice.UpdatedBy = userID(c)

	defer prometheus.TrackDBOperation("update")(time.Now())

	if result := database.GetDB().Save(&invoice); result.Error != nil {
		log.Error("Failed to persist late fee", zap.Uint("invoice_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to persist late fee"})
	}

	audit.Record(c, "late_fee", "invoice", invoice.ID, before, invoice)

	log.Info("Late fee calculated",
		zap.Uint("invoice_id", invoice.ID),
		zap.Float64("late_fee", invoice.LateFee))
	return c.JSON(http.StatusOK, newInvoiceView(invoice))
}

// UpdateInvoice updates an existing invoice
func UpdateInvoice(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("invoice", "update")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid invoice ID"})
	}

	var req InvoiceRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid issue date"})
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid due date"})
	}

	var invoice model.Invoice
	if result := database.GetDB().First(&invoice, id); result.Error != nil {
		log.Warn("Invoice not found for update", zap.Uint("invoice_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Invoice not found"})
	}

	before := invoice
	invoice.IssueDate = issueDate
	invoice.DueDate = dueDate
	invoice.Amount = req.Amount
	invoice.IsPaid = req.IsPaid
	invoice.UpdatedBy = userID(c)

	defer prometheus.TrackDBOperation("update")(time.Now())

	if result := database.GetDB().Save(&invoice); result.Error != nil {
		log.Error("Failed to update invoice", zap.Uint("invoice_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update invoice"})
	}

	audit.Record(c, "update", "invoice", invoice.ID, before, invoice)
	go refreshUnpaidInvoicesGauge()

	log.Info("Invoice updated successfully", zap.Uint("invoice_id", id))
	return c.JSON(http.StatusOK, newInvoiceView(invoice))
}

// DeleteInvoice soft deletes an invoice
func DeleteInvoice(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("invoice", "delete")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid invoice ID"})
	}

	var invoice model.Invoice
	if result := database.GetDB().First(&invoice, id); result.Error != nil {
		log.Warn("Invoice not found for delete", zap.Uint("invoice_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Invoice not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if result := database.GetDB().Delete(&invoice); result.Error != nil {
		log.Error("Failed to delete invoice", zap.Uint("invoice_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete invoice"})
	}

	audit.Record(c, "delete", "invoice", invoice.ID, invoice, nil)
	go refreshUnpaidInvoicesGauge()

	log.Info("Invoice deleted successfully", zap.Uint("invoice_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Invoice deleted successfully"})
}

// refreshUnpaidInvoicesGauge recomputes the unpaid invoices gauge
func refreshUnpaidInvoicesGauge() {
	var count int64
	database.GetDB().Model(&model.Invoice{}).Where("is_paid = ?", false).Count(&count)
	prometheus.UpdateUnpaidInvoices(count)
}
