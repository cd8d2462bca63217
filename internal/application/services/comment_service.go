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

// CommentService handles comments on posts and articles
type CommentService struct {
	commentRepo ports.CommentRepository
	postRepo    ports.PostRepository
	articleRepo ports.ArticleRepository
	userRepo    ports.UserRepository
	authors     *cache.AuthorCache
	logger      *logger.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(commentRepo ports.CommentRepository, postRepo ports.PostRepository, articleRepo ports.ArticleRepository, userRepo ports.UserRepository, authors *cache.AuthorCache, logger *logger.Logger) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		articleRepo: articleRepo,
		userRepo:    userRepo,
		authors:     authors,
		logger:      logger,
	}
}

// Create attaches a comment to an existing post or article.
func (s *CommentService) Create(ctx context.Context, actorID uuid.UUID, req ports.CreateCommentRequest) (*ports.CommentResponse, error) {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", entities.ErrValidation)
	}
	if !req.ParentType.IsValid() {
		return nil, fmt.Errorf("%w: unknown parent type %q", entities.ErrValidation, req.ParentType)
	}

	if err := s.parentExists(ctx, req.ParentType, req.ParentID); err != nil {
		return nil, err
	}

	comment := &entities.Comment{
		ID:         uuid.New(),
		ParentID:   req.ParentID,
		ParentType: req.ParentType,
		AuthorID:   actor.ID,
		Content:    req.Content,
		CreatedAt:  time.Now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Infow("Comment created", "comment_id", comment.ID, "parent_type", req.ParentType, "parent_id", req.ParentID)

	return &ports.CommentResponse{
		Comment: *comment,
		Author: ports.Author{
			ID:          actor.ID,
			DisplayName: actor.DisplayName,
			PhotoURL:    actor.PhotoURL,
		},
	}, nil
}

// Update edits a comment's content; allowed for its author or an admin.
func (s *CommentService) Update(ctx context.Context, actorID, id uuid.UUID, content string) (*ports.CommentResponse, error) {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content cannot be empty", entities.ErrValidation)
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanEditContent(comment.AuthorID) {
		return nil, fmt.Errorf("%w: not the author", entities.ErrForbidden)
	}

	comment.Content = content
	now := time.Now()
	comment.UpdatedAt = &now

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	author, err := s.authors.Get(ctx, comment.AuthorID)
	if err != nil {
		return nil, err
	}

	return &ports.CommentResponse{Comment: *comment, Author: author}, nil
}

// Delete removes a comment; allowed for its author or an admin.
func (s *CommentService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.CanEditContent(comment.AuthorID) {
		return fmt.Errorf("%w: not the author", entities.ErrForbidden)
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Comment deleted", "comment_id", id, "actor_id", actorID)
	return nil
}

// ListByParent returns a parent's comments oldest first, with authors.
func (s *CommentService) ListByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) ([]ports.CommentResponse, error) {
	if !parentType.IsValid() {
		return nil, fmt.Errorf("%w: unknown parent type %q", entities.ErrValidation, parentType)
	}
	if err := s.parentExists(ctx, parentType, parentID); err != nil {
		return nil, err
	}
	return listCommentsWithAuthors(ctx, s.commentRepo, s.authors, parentType, parentID)
}

func (s *CommentService) parentExists(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) error {
	switch parentType {
	case entities.ParentTypePost:
		_, err := s.postRepo.GetByID(ctx, parentID)
		return err
	case entities.ParentTypeArticle:
		_, err := s.articleRepo.GetByID(ctx, parentID)
		return err
	default:
		return fmt.Errorf("%w: unknown parent type %q", entities.ErrValidation, parentType)
	}
}
