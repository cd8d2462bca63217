package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communityhub/core/internal/infrastructure/logger"
	"github.com/communityhub/core/internal/ports"
)

// AnnouncementHandler handles announcement requests
type AnnouncementHandler struct {
	announcementService ports.AnnouncementService
	logger              *logger.Logger
}

// NewAnnouncementHandler creates a new announcement handler
func NewAnnouncementHandler(announcementService ports.AnnouncementService, logger *logger.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		logger:              logger,
	}
}

// CreateAnnouncement publishes an announcement
func (h *AnnouncementHandler) CreateAnnouncement(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req ports.AnnouncementRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	announcement, err := h.announcementService.Create(c.Request().Context(), claims.UserID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, announcement)
}

// UpdateAnnouncement modifies an announcement
func (h *AnnouncementHandler) UpdateAnnouncement(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.AnnouncementRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	announcement, err := h.announcementService.Update(c.Request().Context(), claims.UserID, id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, announcement)
}

// DeleteAnnouncement removes an announcement
func (h *AnnouncementHandler) DeleteAnnouncement(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.announcementService.Delete(c.Request().Context(), claims.UserID, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Announcement deleted"})
}

// ListAnnouncements returns active announcements, important first
func (h *AnnouncementHandler) ListAnnouncements(c echo.Context) error {
	announcements, err := h.announcementService.ListActive(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, announcements)
}
