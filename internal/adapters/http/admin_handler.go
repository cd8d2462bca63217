package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communityhub/core/internal/infrastructure/logger"
	"github.com/communityhub/core/internal/ports"
)

// AdminHandler handles admin member roster requests
type AdminHandler struct {
	adminService ports.AdminService
	logger       *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService ports.AdminService, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// ListMembers returns every admin member
func (h *AdminHandler) ListMembers(c echo.Context) error {
	members, err := h.adminService.ListMembers(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, members)
}

// AddMember promotes an account to admin
func (h *AdminHandler) AddMember(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req ports.AddAdminMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	member, err := h.adminService.AddMember(c.Request().Context(), claims.UserID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, member)
}

// UpdateMember edits an admin member
func (h *AdminHandler) UpdateMember(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateAdminMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	member, err := h.adminService.UpdateMember(c.Request().Context(), claims.UserID, id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, member)
}

// RemoveMember demotes an admin member
func (h *AdminHandler) RemoveMember(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.adminService.RemoveMember(c.Request().Context(), claims.UserID, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Admin member removed"})
}
