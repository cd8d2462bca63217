package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communityhub/core/internal/infrastructure/logger"
	"github.com/communityhub/core/internal/ports"
)

// NotificationHandler handles notification requests
type NotificationHandler struct {
	notificationService ports.NotificationService
	logger              *logger.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService ports.NotificationService, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// ListNotifications returns the caller's notifications, newest first
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	unreadOnly := c.QueryParam("unread") == "true"

	notifications, err := h.notificationService.ListForUser(c.Request().Context(), claims.UserID, unreadOnly)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, notifications)
}

// MarkRead marks a single notification read
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.notificationService.MarkRead(c.Request().Context(), claims.UserID, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Notification marked read"})
}

// MarkAllRead marks every unread notification for the caller read
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	count, err := h.notificationService.MarkAllRead(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]int{"marked_read": count})
}
