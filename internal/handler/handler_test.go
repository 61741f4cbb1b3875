package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"rental-service/pkg/config"
	"rental-service/pkg/database"
	"rental-service/pkg/logger"
	"rental-service/prometheus"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var setupOnce sync.Once

// setupTest wires a fresh in-memory database and returns an echo instance
// with the request validator installed
func setupTest(t *testing.T) *echo.Echo {
	t.Helper()

	setupOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			panic(err)
		}
		logger.InitLogger(cfg)
		prometheus.InitMetrics(cfg)
		Initialize(&cfg.Billing)
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.SetDB(db)

	e := echo.New()
	e.Validator = NewRequestValidator()
	return e
}

// doRequest invokes a handler directly with a JSON body and optional path params
func doRequest(t *testing.T, e *echo.Echo, h echo.HandlerFunc, method, path string, body interface{}, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := e.NewContext(req, rec)
	c.SetPath(path)
	if len(params) > 0 {
		names := make([]string, 0, len(params))
		values := make([]string, 0, len(params))
		for name, value := range params {
			names = append(names, name)
			values = append(values, value)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	c.Set("user_id", uint(1))

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

// decodeBody unmarshals a recorded JSON response into out
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
