package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communityhub/core/internal/infrastructure/logger"
	"github.com/communityhub/core/internal/ports"
)

// PostHandler handles community post requests
type PostHandler struct {
	postService ports.PostService
	logger      *logger.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService ports.PostService, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postService: postService,
		logger:      logger,
	}
}

// CreatePost handles post creation
func (h *PostHandler) CreatePost(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req ports.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.Create(c.Request().Context(), claims.UserID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost returns a single post with comments and likers
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, post)
}

// UpdatePost handles post updates
func (h *PostHandler) UpdatePost(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.Update(c.Request().Context(), claims.UserID, id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, post)
}

// DeletePost handles post deletion
func (h *PostHandler) DeletePost(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.postService.Delete(c.Request().Context(), claims.UserID, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Post deleted"})
}

// ListPosts returns a page of posts, newest first
func (h *PostHandler) ListPosts(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	result, err := h.postService.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// ToggleLike flips the caller's like on a post
func (h *PostHandler) ToggleLike(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	result, err := h.postService.ToggleLike(c.Request().Context(), claims.UserID, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
