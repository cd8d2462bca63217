package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/infrastructure/logger"
	"github.com/communityhub/core/internal/ports"
)

// CommentHandler handles comment requests
type CommentHandler struct {
	commentService ports.CommentService
	logger         *logger.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService ports.CommentService, logger *logger.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

// UpdateCommentRequest carries an edited comment body.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// CreateComment attaches a comment to a post or article
func (h *CommentHandler) CreateComment(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req ports.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.Create(c.Request().Context(), claims.UserID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, comment)
}

// UpdateComment edits a comment's content
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.Update(c.Request().Context(), claims.UserID, id, req.Content)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.commentService.Delete(c.Request().Context(), claims.UserID, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Comment deleted"})
}

// ListComments returns a parent's comments oldest first
func (h *CommentHandler) ListComments(c echo.Context) error {
	parentID, err := parseIDParam(c, "parentId")
	if err != nil {
		return err
	}

	parentType := entities.ParentType(c.QueryParam("parent_type"))
	if parentType == "" {
		parentType = entities.ParentTypePost
	}

	comments, err := h.commentService.ListByParent(c.Request().Context(), parentType, parentID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, comments)
}
