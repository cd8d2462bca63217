package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communityhub/core/internal/infrastructure/logger"
	"github.com/communityhub/core/internal/ports"
)

// DocumentHandler handles document listing requests
type DocumentHandler struct {
	documentService ports.DocumentService
	logger          *logger.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService ports.DocumentService, logger *logger.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          logger,
	}
}

// CreateDocument registers a document reference
func (h *DocumentHandler) CreateDocument(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req ports.DocumentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	doc, err := h.documentService.Create(c.Request().Context(), claims.UserID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, doc)
}

// GetDocument returns a single document
func (h *DocumentHandler) GetDocument(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	doc, err := h.documentService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, doc)
}

// UpdateDocument modifies a document reference
func (h *DocumentHandler) UpdateDocument(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.DocumentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	doc, err := h.documentService.Update(c.Request().Context(), claims.UserID, id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, doc)
}

// DeleteDocument removes a document reference
func (h *DocumentHandler) DeleteDocument(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.documentService.Delete(c.Request().Context(), claims.UserID, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Document deleted"})
}

// ListDocuments returns a page of documents, newest first
func (h *DocumentHandler) ListDocuments(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	result, err := h.documentService.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
