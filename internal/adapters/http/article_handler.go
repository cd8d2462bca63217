package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communityhub/core/internal/infrastructure/logger"
	"github.com/communityhub/core/internal/ports"
)

// ArticleHandler handles editorial article requests
type ArticleHandler struct {
	articleService ports.ArticleService
	logger         *logger.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(articleService ports.ArticleService, logger *logger.Logger) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		logger:         logger,
	}
}

// CreateArticle handles article creation (admin only, enforced by the service)
func (h *ArticleHandler) CreateArticle(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req ports.CreateArticleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	article, err := h.articleService.Create(c.Request().Context(), claims.UserID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, article)
}

// GetArticle returns a single article with comments and likers
func (h *ArticleHandler) GetArticle(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	article, err := h.articleService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, article)
}

// UpdateArticle handles article updates
func (h *ArticleHandler) UpdateArticle(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateArticleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	article, err := h.articleService.Update(c.Request().Context(), claims.UserID, id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, article)
}

// DeleteArticle handles article deletion
func (h *ArticleHandler) DeleteArticle(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.articleService.Delete(c.Request().Context(), claims.UserID, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Article deleted"})
}

// ListArticles returns a filtered page of articles
func (h *ArticleHandler) ListArticles(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	filter := ports.ArticleFilter{Page: page, Limit: limit}
	if category := c.QueryParam("category"); category != "" {
		filter.Category = &category
	}
	if tag := c.QueryParam("tag"); tag != "" {
		filter.Tag = &tag
	}

	result, err := h.articleService.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// ToggleLike flips the caller's like on an article
func (h *ArticleHandler) ToggleLike(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	result, err := h.articleService.ToggleLike(c.Request().Context(), claims.UserID, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
