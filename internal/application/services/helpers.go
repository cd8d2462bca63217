package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/communityhub/core/internal/adapters/cache"
	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/ports"
)

// requireActor loads the acting user and rejects missing or deactivated
// accounts. Every mutating service operation goes through it so a token
// minted before a deactivation stops working immediately.
func requireActor(ctx context.Context, users ports.UserRepository, actorID uuid.UUID) (*entities.User, error) {
	actor, err := users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", entities.ErrUnauthorized)
		}
		return nil, err
	}
	if !actor.IsActive {
		return nil, fmt.Errorf("%w: %s", entities.ErrUnauthorized, entities.ErrAccountInactive)
	}
	return actor, nil
}

// toggleLike flips userID's like on the parent. Toggling twice always
// returns to the starting state.
func toggleLike(ctx context.Context, likes ports.LikeRepository, parentType entities.ParentType, parentID, userID uuid.UUID) (*ports.LikeResult, error) {
	var liked bool

	existing, err := likes.GetByParentAndUser(ctx, parentType, parentID, userID)
	switch {
	case err == nil:
		if err := likes.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
	case errors.Is(err, entities.ErrNotFound):
		like := &entities.Like{
			ID:         uuid.New(),
			ParentID:   parentID,
			ParentType: parentType,
			UserID:     userID,
			CreatedAt:  time.Now(),
		}
		if err := likes.Create(ctx, like); err != nil {
			return nil, err
		}
		liked = true
	default:
		return nil, err
	}

	count, err := likes.CountByParent(ctx, parentType, parentID)
	if err != nil {
		return nil, err
	}

	return &ports.LikeResult{Likes: count, UserHasLiked: liked}, nil
}

// listCommentsWithAuthors loads a parent's comments oldest first and
// attaches the cached author block to each.
func listCommentsWithAuthors(ctx context.Context, comments ports.CommentRepository, authors *cache.AuthorCache, parentType entities.ParentType, parentID uuid.UUID) ([]ports.CommentResponse, error) {
	list, err := comments.ListByParent(ctx, parentType, parentID)
	if err != nil {
		return nil, err
	}

	out := make([]ports.CommentResponse, 0, len(list))
	for i := range list {
		author, err := authors.Get(ctx, list[i].AuthorID)
		if err != nil {
			return nil, err
		}
		out = append(out, ports.CommentResponse{Comment: list[i], Author: author})
	}
	return out, nil
}
