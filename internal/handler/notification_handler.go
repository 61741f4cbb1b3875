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

// NotificationRequest defines the structure for notification creation requests
type NotificationRequest struct {
	Message  string `json:"message" validate:"required"`
	Priority string `json:"priority"`
}

// CreateNotification creates a new notification
func CreateNotification(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("notification", "create")

	var req NotificationRequest
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

	notification := model.Notification{
		Message:  req.Message,
		Priority: req.Priority,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&notification); result.Error != nil {
		log.Error("Failed to create notification", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create notification"})
	}

	log.Info("Notification created successfully", zap.Uint("id", notification.ID))
	return c.JSON(http.StatusCreated, notification)
}

// ListNotifications retrieves notifications with pagination and filters
func ListNotifications(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("notification", "list")

	p := parsePagination(c)

	query := database.GetDB().Model(&model.Notification{})
	if isRead := c.QueryParam("is_read"); isRead != "" {
		query = query.Where("is_read = ?", isRead == "true")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var notifications []model.Notification
	if result := query.Order("created_at desc").Limit(p.Limit).Offset(p.Offset).Find(&notifications); result.Error != nil {
		log.Error("Failed to retrieve notifications", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve notifications"})
	}

	var total int64
	query.Count(&total)

	return c.JSON(http.StatusOK, paginated("notifications", notifications, p, total))
}

// GetNotification retrieves a notification by ID
func GetNotification(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("notification", "get")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid notification ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var notification model.Notification
	if result := database.GetDB().First(&notification, id); result.Error != nil {
		log.Warn("Notification not found", zap.Uint("notification_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Notification not found"})
	}

	return c.JSON(http.StatusOK, notification)
}

// UpdateNotification updates the message and priority of an existing notification
func UpdateNotification(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("notification", "update")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid notification ID"})
	}

	var req NotificationRequest
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

	var notification model.Notification
	if result := database.GetDB().First(&notification, id); result.Error != nil {
		log.Warn("Notification not found for update", zap.Uint("notification_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Notification not found"})
	}

	notification.Message = req.Message
	if req.Priority != "" {
		notification.Priority = req.Priority
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	if result := database.GetDB().Save(&notification); result.Error != nil {
		log.Error("Failed to update notification", zap.Uint("notification_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update notification"})
	}

	log.Info("Notification updated successfully", zap.Uint("notification_id", id))
	return c.JSON(http.StatusOK, notification)
}

// MarkNotificationsAsRead marks every unread notification read in one
// filtered UPDATE. A second invocation finds no unread rows and is a no-op.
func MarkNotificationsAsRead(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("notification", "mark_as_read")

	defer prometheus.TrackDBOperation("update")(time.Now())

	result := database.GetDB().Model(&model.Notification{}).
		Where("is_read = ?", false).
		Update("is_read", true)
	if result.Error != nil {
		log.Error("Failed to mark notifications as read", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to mark notifications as read"})
	}

	log.Info("Notifications marked as read", zap.Int64("updated", result.RowsAffected))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "All notifications marked as read",
		"updated": result.RowsAffected,
	})
}

// DeleteNotification soft deletes a notification
func DeleteNotification(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("notification", "delete")

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid notification ID"})
	}

	var notification model.Notification
	if result := database.GetDB().First(&notification, id); result.Error != nil {
		log.Warn("Notification not found for delete", zap.Uint("notification_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Notification not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if result := database.GetDB().Delete(&notification); result.Error != nil {
		log.Error("Failed to delete notification", zap.Uint("notification_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete notification"})
	}

	log.Info("Notification deleted successfully", zap.Uint("notification_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification deleted successfully"})
}
