package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/communityhub/core/internal/adapters/cache"
	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/infrastructure/logger"
	"github.com/communityhub/core/internal/ports"
)

// ArticleService handles editorial article operations
type ArticleService struct {
	articleRepo   ports.ArticleRepository
	commentRepo   ports.CommentRepository
	likeRepo      ports.LikeRepository
	userRepo      ports.UserRepository
	notifications ports.NotificationService
	authors       *cache.AuthorCache
	logger        *logger.Logger
}

// NewArticleService creates a new article service
func NewArticleService(articleRepo ports.ArticleRepository, commentRepo ports.CommentRepository, likeRepo ports.LikeRepository, userRepo ports.UserRepository, notifications ports.NotificationService, authors *cache.AuthorCache, logger *logger.Logger) *ArticleService {
	return &ArticleService{
		articleRepo:   articleRepo,
		commentRepo:   commentRepo,
		likeRepo:      likeRepo,
		userRepo:      userRepo,
		notifications: notifications,
		authors:       authors,
		logger:        logger,
	}
}

// Create publishes an article. Articles are editorial content, so only
// admins may create them.
func (s *ArticleService) Create(ctx context.Context, actorID uuid.UUID, req ports.CreateArticleRequest) (*ports.ArticleResponse, error) {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanModerate() {
		return nil, fmt.Errorf("%w: admin privileges required", entities.ErrForbidden)
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", entities.ErrValidation)
	}

	article := &entities.Article{
		ID:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		AuthorID:  actor.ID,
		ImageURL:  req.ImageURL,
		Category:  req.Category,
		Tags:      req.Tags,
		CreatedAt: time.Now(),
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}

	s.logger.Infow("Article created", "article_id", article.ID, "author_id", actor.ID)

	return &ports.ArticleResponse{
		Article: *article,
		Author: ports.Author{
			ID:          actor.ID,
			DisplayName: actor.DisplayName,
			PhotoURL:    actor.PhotoURL,
		},
	}, nil
}

// Get returns an article with its author, comments, and likers.
func (s *ArticleService) Get(ctx context.Context, id uuid.UUID) (*ports.ArticleDetailResponse, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	author, err := s.authors.Get(ctx, article.AuthorID)
	if err != nil {
		return nil, err
	}

	comments, err := listCommentsWithAuthors(ctx, s.commentRepo, s.authors, entities.ParentTypeArticle, id)
	if err != nil {
		return nil, err
	}

	likedBy, err := s.likeRepo.ListUserIDsByParent(ctx, entities.ParentTypeArticle, id)
	if err != nil {
		return nil, err
	}

	return &ports.ArticleDetailResponse{
		ArticleResponse: ports.ArticleResponse{
			Article: *article,
			Author:  author,
			Likes:   len(likedBy),
		},
		Comments: comments,
		LikedBy:  likedBy,
	}, nil
}

// Update modifies an article; allowed for its author or an admin.
func (s *ArticleService) Update(ctx context.Context, actorID, id uuid.UUID, req ports.UpdateArticleRequest) (*ports.ArticleResponse, error) {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanEditContent(article.AuthorID) {
		return nil, fmt.Errorf("%w: not the author", entities.ErrForbidden)
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", entities.ErrValidation)
		}
		article.Title = *req.Title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, fmt.Errorf("%w: content cannot be empty", entities.ErrValidation)
		}
		article.Content = *req.Content
	}
	if req.ImageURL != nil {
		article.ImageURL = req.ImageURL
	}
	if req.Category != nil {
		article.Category = req.Category
	}
	if req.Tags != nil {
		article.Tags = req.Tags
	}
	if req.Version != 0 {
		article.Version = req.Version
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, err
	}

	author, err := s.authors.Get(ctx, article.AuthorID)
	if err != nil {
		return nil, err
	}

	likes, err := s.likeRepo.CountByParent(ctx, entities.ParentTypeArticle, id)
	if err != nil {
		return nil, err
	}

	return &ports.ArticleResponse{Article: *article, Author: author, Likes: likes}, nil
}

// Delete removes an article and cascades its comments and likes.
func (s *ArticleService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}

	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.CanEditContent(article.AuthorID) {
		return fmt.Errorf("%w: not the author", entities.ErrForbidden)
	}

	if _, err := s.commentRepo.DeleteByParent(ctx, entities.ParentTypeArticle, id); err != nil {
		return fmt.Errorf("cascade comments: %w", err)
	}
	if _, err := s.likeRepo.DeleteByParent(ctx, entities.ParentTypeArticle, id); err != nil {
		return fmt.Errorf("cascade likes: %w", err)
	}

	if err := s.articleRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Article deleted", "article_id", id, "actor_id", actorID)
	return nil
}

// List returns a filtered page of articles with authors and like counts.
func (s *ArticleService) List(ctx context.Context, filter ports.ArticleFilter) (*ports.Page[ports.ArticleResponse], error) {
	result, err := s.articleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]ports.ArticleResponse, 0, len(result.Data))
	for i := range result.Data {
		article := result.Data[i]

		author, err := s.authors.Get(ctx, article.AuthorID)
		if err != nil {
			return nil, err
		}
		likes, err := s.likeRepo.CountByParent(ctx, entities.ParentTypeArticle, article.ID)
		if err != nil {
			return nil, err
		}

		data = append(data, ports.ArticleResponse{Article: article, Author: author, Likes: likes})
	}

	return &ports.Page[ports.ArticleResponse]{
		Data:      data,
		Total:     result.Total,
		Page:      result.Page,
		Limit:     result.Limit,
		PageCount: result.PageCount,
		HasMore:   result.HasMore,
	}, nil
}

// ToggleLike flips the caller's like on an article. A new like notifies
// the article's author unless they liked their own piece. Notification
// delivery is best effort and never fails the toggle.
func (s *ArticleService) ToggleLike(ctx context.Context, actorID, id uuid.UUID) (*ports.LikeResult, error) {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := toggleLike(ctx, s.likeRepo, entities.ParentTypeArticle, id, actorID)
	if err != nil {
		return nil, err
	}

	if result.UserHasLiked && actorID != article.AuthorID {
		n := &entities.Notification{
			UserID:   article.AuthorID,
			ActorID:  actorID,
			Type:     entities.NotificationTypeArticleLiked,
			Message:  fmt.Sprintf("%s liked your article %q", actor.DisplayName, article.Title),
			Link:     fmt.Sprintf("/articles/%s", article.ID),
			TargetID: article.ID,
		}
		if err := s.notifications.Notify(ctx, n); err != nil {
			s.logger.Warnw("Failed to deliver like notification", "error", err, "article_id", article.ID)
		}
	}

	return result, nil
}
