package handler

import (
	"net/http"
	"time"

	"rental-service/internal/model"
	"rental-service/pkg/database"
	"rental-service/pkg/logger"
	"rental-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SummaryReport is the system-wide flat rollup built on demand
type SummaryReport struct {
	Buildings             int64   `json:"buildings"`
	Units                 int64   `json:"units"`
	RentedUnits           int64   `json:"rented_units"`
	OccupancyPercentage   float64 `json:"occupancy_percentage"`
	Tenants               int64   `json:"tenants"`
	ActiveContracts       int64   `json:"active_contracts"`
	MonthlyIncome         float64 `json:"monthly_income"`
	TotalPayments         float64 `json:"total_payments"`
	UnpaidInvoices        int64   `json:"unpaid_invoices"`
	UnresolvedMaintenance int64   `json:"unresolved_maintenance"`
	TotalExpenses         float64 `json:"total_expenses"`
	GeneratedAt           string  `json:"generated_at"`
}

// SummaryReportHandler builds the flat system-wide report from fresh counts
// and sums. Nothing is cached between calls.
func SummaryReportHandler(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("report", "summary")

	defer prometheus.TrackDBOperation("query")(time.Now())

	db := database.GetDB()
	var report SummaryReport

	db.Model(&model.Building{}).Count(&report.Buildings)
	db.Model(&model.Unit{}).Count(&report.Units)
	db.Model(&model.Unit{}).Where("status = ?", model.UnitStatusRented).Count(&report.RentedUnits)
	report.OccupancyPercentage = model.RentedPercentage(report.RentedUnits, report.Units)
	db.Model(&model.Tenant{}).Count(&report.Tenants)
	db.Model(&model.LeaseContract{}).Where("is_active = ?", true).Count(&report.ActiveContracts)
	db.Model(&model.LeaseContract{}).
		Where("is_active = ?", true).
		Select("COALESCE(SUM(monthly_rent), 0)").
		Scan(&report.MonthlyIncome)
	db.Model(&model.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&report.TotalPayments)
	db.Model(&model.Invoice{}).Where("is_paid = ?", false).Count(&report.UnpaidInvoices)
	db.Model(&model.MaintenanceRequest{}).Where("is_resolved = ?", false).Count(&report.UnresolvedMaintenance)
	db.Model(&model.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&report.TotalExpenses)
	report.GeneratedAt = time.Now().UTC().Format(time.RFC3339)

	prometheus.UpdateActiveContracts(report.ActiveContracts)
	prometheus.UpdateUnpaidInvoices(report.UnpaidInvoices)

	log.Info("Summary report generated",
		zap.Int64("buildings", report.Buildings),
		zap.Int64("units", report.Units),
		zap.Int64("active_contracts", report.ActiveContracts))
	return c.JSON(http.StatusOK, report)
}
