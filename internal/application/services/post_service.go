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

// PostService handles community post operations
type PostService struct {
	postRepo    ports.PostRepository
	commentRepo ports.CommentRepository
	likeRepo    ports.LikeRepository
	userRepo    ports.UserRepository
	authors     *cache.AuthorCache
	logger      *logger.Logger
}

// NewPostService creates a new post service
func NewPostService(postRepo ports.PostRepository, commentRepo ports.CommentRepository, likeRepo ports.LikeRepository, userRepo ports.UserRepository, authors *cache.AuthorCache, logger *logger.Logger) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		userRepo:    userRepo,
		authors:     authors,
		logger:      logger,
	}
}

// Create publishes a new post by actorID.
func (s *PostService) Create(ctx context.Context, actorID uuid.UUID, req ports.CreatePostRequest) (*ports.PostResponse, error) {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", entities.ErrValidation)
	}

	post := &entities.Post{
		ID:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		AuthorID:  actor.ID,
		ImageURL:  req.ImageURL,
		CreatedAt: time.Now(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Infow("Post created", "post_id", post.ID, "author_id", actor.ID)

	// caller is the author, no lookup needed
	return &ports.PostResponse{
		Post: *post,
		Author: ports.Author{
			ID:          actor.ID,
			DisplayName: actor.DisplayName,
			PhotoURL:    actor.PhotoURL,
		},
	}, nil
}

// Get returns a post with its author, comments, and likers.
func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*ports.PostDetailResponse, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	author, err := s.authors.Get(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	comments, err := listCommentsWithAuthors(ctx, s.commentRepo, s.authors, entities.ParentTypePost, id)
	if err != nil {
		return nil, err
	}

	likedBy, err := s.likeRepo.ListUserIDsByParent(ctx, entities.ParentTypePost, id)
	if err != nil {
		return nil, err
	}

	return &ports.PostDetailResponse{
		PostResponse: ports.PostResponse{
			Post:   *post,
			Author: author,
			Likes:  len(likedBy),
		},
		Comments: comments,
		LikedBy:  likedBy,
	}, nil
}

// Update modifies a post; allowed for its author or an admin.
func (s *PostService) Update(ctx context.Context, actorID, id uuid.UUID, req ports.UpdatePostRequest) (*ports.PostResponse, error) {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanEditContent(post.AuthorID) {
		return nil, fmt.Errorf("%w: not the author", entities.ErrForbidden)
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", entities.ErrValidation)
		}
		post.Title = *req.Title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, fmt.Errorf("%w: content cannot be empty", entities.ErrValidation)
		}
		post.Content = *req.Content
	}
	if req.ImageURL != nil {
		post.ImageURL = req.ImageURL
	}
	if req.Version != 0 {
		post.Version = req.Version
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	author, err := s.authors.Get(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	likes, err := s.likeRepo.CountByParent(ctx, entities.ParentTypePost, id)
	if err != nil {
		return nil, err
	}

	return &ports.PostResponse{Post: *post, Author: author, Likes: likes}, nil
}

// Delete removes a post and cascades its comments and likes.
func (s *PostService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.CanEditContent(post.AuthorID) {
		return fmt.Errorf("%w: not the author", entities.ErrForbidden)
	}

	// cascade before the parent so no orphans survive a partial failure
	if _, err := s.commentRepo.DeleteByParent(ctx, entities.ParentTypePost, id); err != nil {
		return fmt.Errorf("cascade comments: %w", err)
	}
	if _, err := s.likeRepo.DeleteByParent(ctx, entities.ParentTypePost, id); err != nil {
		return fmt.Errorf("cascade likes: %w", err)
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Post deleted", "post_id", id, "actor_id", actorID)
	return nil
}

// List returns a page of posts, newest first, with authors and like counts.
func (s *PostService) List(ctx context.Context, page, limit int) (*ports.Page[ports.PostResponse], error) {
	result, err := s.postRepo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	data := make([]ports.PostResponse, 0, len(result.Data))
	for i := range result.Data {
		post := result.Data[i]

		author, err := s.authors.Get(ctx, post.AuthorID)
		if err != nil {
			return nil, err
		}
		likes, err := s.likeRepo.CountByParent(ctx, entities.ParentTypePost, post.ID)
		if err != nil {
			return nil, err
		}

		data = append(data, ports.PostResponse{Post: post, Author: author, Likes: likes})
	}

	return &ports.Page[ports.PostResponse]{
		Data:      data,
		Total:     result.Total,
		Page:      result.Page,
		Limit:     result.Limit,
		PageCount: result.PageCount,
		HasMore:   result.HasMore,
	}, nil
}

// ToggleLike flips the caller's like on a post and returns the new count.
func (s *PostService) ToggleLike(ctx context.Context, actorID, id uuid.UUID) (*ports.LikeResult, error) {
	if _, err := requireActor(ctx, s.userRepo, actorID); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return toggleLike(ctx, s.likeRepo, entities.ParentTypePost, id, actorID)
}
