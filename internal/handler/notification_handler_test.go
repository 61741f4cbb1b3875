package handler

import (
	"fmt"
	"net/http"
	"testing"

	"rental-service/internal/model"
	"rental-service/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotification(t *testing.T, message string, read bool) model.Notification {
	t.Helper()
	notification := model.Notification{
		Message:  message,
		Priority: model.PriorityMedium,
		IsRead:   read,
	}
	require.NoError(t, database.GetDB().Create(&notification).Error)
	return notification
}

func TestCreateNotificationInvalidPriority(t *testing.T) {
	e := setupTest(t)

	rec := doRequest(t, e, CreateNotification, http.MethodPost, "/api/notifications",
		NotificationRequest{Message: "Contract expiring soon", Priority: "critical"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetNotification(t *testing.T) {
	e := setupTest(t)

	notification := seedNotification(t, "Contract expiring soon", false)

	rec := doRequest(t, e, GetNotification, http.MethodGet, "/api/notifications/:id", nil,
		map[string]string{"id": fmt.Sprint(notification.ID)})
	require.Equal(t, http.StatusOK, rec.Code)

	var found model.Notification
	decodeBody(t, rec, &found)
	assert.Equal(t, notification.ID, found.ID)
	assert.Equal(t, "Contract expiring soon", found.Message)
}

func TestGetNotificationNotFound(t *testing.T) {
	e := setupTest(t)

	rec := doRequest(t, e, GetNotification, http.MethodGet, "/api/notifications/:id", nil,
		map[string]string{"id": "999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateNotification(t *testing.T) {
	e := setupTest(t)

	notification := seedNotification(t, "Contract expiring soon", true)

	rec := doRequest(t, e, UpdateNotification, http.MethodPut, "/api/notifications/:id",
		NotificationRequest{Message: "Contract expired", Priority: model.PriorityHigh},
		map[string]string{"id": fmt.Sprint(notification.ID)})
	require.Equal(t, http.StatusOK, rec.Code)

	var found model.Notification
	require.NoError(t, database.GetDB().First(&found, notification.ID).Error)
	assert.Equal(t, "Contract expired", found.Message)
	assert.Equal(t, model.PriorityHigh, found.Priority)
	assert.True(t, found.IsRead)
}

func TestUpdateNotificationInvalidPriority(t *testing.T) {
	e := setupTest(t)

	notification := seedNotification(t, "Contract expiring soon", false)

	rec := doRequest(t, e, UpdateNotification, http.MethodPut, "/api/notifications/:id",
		NotificationRequest{Message: "Contract expired", Priority: "critical"},
		map[string]string{"id": fmt.Sprint(notification.ID)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkNotificationsAsRead(t *testing.T) {
	e := setupTest(t)

	seedNotification(t, "Contract expiring soon", false)
	seedNotification(t, "Invoice overdue", false)
	seedNotification(t, "Old reminder", true)

	rec := doRequest(t, e, MarkNotificationsAsRead, http.MethodPost,
		"/api/notifications/mark-as-read", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Updated int64 `json:"updated"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, int64(2), resp.Updated)

	var unread int64
	database.GetDB().Model(&model.Notification{}).Where("is_read = ?", false).Count(&unread)
	assert.Equal(t, int64(0), unread)

	// nothing left unread, so the second call is a no-op
	rec = doRequest(t, e, MarkNotificationsAsRead, http.MethodPost,
		"/api/notifications/mark-as-read", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	assert.Equal(t, int64(0), resp.Updated)
}

func TestListNotificationsFilterUnread(t *testing.T) {
	e := setupTest(t)

	unreadOne := seedNotification(t, "Contract expiring soon", false)
	seedNotification(t, "Old reminder", true)

	rec := doRequest(t, e, ListNotifications, http.MethodGet,
		"/api/notifications?is_read=false", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Notifications []model.Notification `json:"notifications"`
		Pagination    struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, unreadOne.ID, resp.Notifications[0].ID)
	assert.Equal(t, int64(1), resp.Pagination.Total)
}
