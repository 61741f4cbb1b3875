package audit

import (
	"encoding/json"

	"rental-service/internal/model"
	"rental-service/pkg/database"
	"rental-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Record writes an audit log row for a mutation, with JSON snapshots of the
// resource before and after the change. Failures are logged and swallowed so
// an audit problem never fails the request itself.
func Record(c echo.Context, action, resourceType string, resourceID uint, before, after interface{}) {
	var beforeStr, afterStr string
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			beforeStr = string(b)
		}
	}
	if after != nil {
		if a, err := json.Marshal(after); err == nil {
			afterStr = string(a)
		}
	}

	var userID uint
	if id, ok := c.Get("user_id").(uint); ok {
		userID = id
	}

	entry := model.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeJSON:   beforeStr,
		AfterJSON:    afterStr,
		IPAddress:    c.RealIP(),
	}
	if err := database.GetDB().Create(&entry).Error; err != nil {
		logger.FromContext(c).Warn("Failed to write audit log",
			zap.String("action", action),
			zap.String("resource_type", resourceType),
			zap.Uint("resource_id", resourceID),
			zap.Error(err))
	}
}
