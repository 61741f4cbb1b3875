package handler

import (
	"net/http"
	"strconv"
	"time"

	"rental-service/pkg/config"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

var billingConfig *config.BillingConfig

// Initialize sets up handler-level configuration
func Initialize(cfg *config.BillingConfig) {
	billingConfig = cfg
}

// lateFeeDailyRate returns the configured flat daily late-fee rate
func lateFeeDailyRate() float64 {
	if billingConfig == nil {
		return config.DefaultLateFeeDailyRate
	}
	return billingConfig.LateFeeDailyRate
}

// RequestValidator adapts go-playground/validator to echo's Validator interface
type RequestValidator struct {
	validator *validator.Validate
}

// NewRequestValidator returns a validator for request payload structs
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validator: validator.New()}
}

// Validate implements echo.Validator
func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// pagination holds the parsed page/limit query parameters
type pagination struct {
	Page   int
	Limit  int
	Offset int
}

// parsePagination reads page and limit query parameters. Page defaults to 1
// and limit is capped at 100 rows.
func parsePagination(c echo.Context) pagination {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	return pagination{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// paginated builds the standard list response envelope
func paginated(key string, rows interface{}, p pagination, total int64) echo.Map {
	return echo.Map{
		key: rows,
		"pagination": echo.Map{
			"current_page": p.Page,
			"limit":        p.Limit,
			"total":        total,
			"total_pages":  (int(total) + p.Limit - 1) / p.Limit,
		},
	}
}

// parseID reads the :id path parameter
func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

// parseDate parses a date-only string in YYYY-MM-DD form
func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// userID returns the authenticated user ID stored by the auth middleware
func userID(c echo.Context) uint {
	if id, ok := c.Get("user_id").(uint); ok {
		return id
	}
	return 0
}
