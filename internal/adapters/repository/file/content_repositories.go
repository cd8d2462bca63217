package file

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/ports"
)

// PostRepository is the file-backed ports.PostRepository.
type PostRepository struct {
	store *Store
}

// NewPostRepository creates a new file-backed post repository.
func NewPostRepository(store *Store) ports.PostRepository {
	return &PostRepository{store: store}
}

func (r *PostRepository) Create(ctx context.Context, post *entities.Post) error {
	return translate(r.store.posts.Insert(post), entities.ErrPostNotFound)
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Post, error) {
	post, err := r.store.posts.Get(id)
	if err != nil {
		return nil, translate(err, entities.ErrPostNotFound)
	}
	return post, nil
}

func (r *PostRepository) Update(ctx context.Context, post *entities.Post) error {
	return translate(r.store.posts.Update(post), entities.ErrPostNotFound)
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(r.store.posts.Delete(id), entities.ErrPostNotFound)
}

func (r *PostRepository) List(ctx context.Context, page, limit int) (*ports.Page[entities.Post], error) {
	result, err := r.store.posts.Paginate(nil,
		func(a, b *entities.Post) bool { return newestFirst(a.CreatedAt, b.CreatedAt) },
		page, limit)
	if err != nil {
		return nil, err
	}
	return &ports.Page[entities.Post]{
		Data:      result.Data,
		Total:     result.Total,
		Page:      result.Page,
		Limit:     result.Limit,
		PageCount: result.PageCount,
		HasMore:   result.HasMore,
	}, nil
}

// ArticleRepository is the file-backed ports.ArticleRepository.
type ArticleRepository struct {
	store *Store
}

// NewArticleRepository creates a new file-backed article repository.
func NewArticleRepository(store *Store) ports.ArticleRepository {
	return &ArticleRepository{store: store}
}

func (r *ArticleRepository) Create(ctx context.Context, article *entities.Article) error {
	return translate(r.store.articles.Insert(article), entities.ErrArticleNotFound)
}

func (r *ArticleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Article, error) {
	article, err := r.store.articles.Get(id)
	if err != nil {
		return nil, translate(err, entities.ErrArticleNotFound)
	}
	return article, nil
}

func (r *ArticleRepository) Update(ctx context.Context, article *entities.Article) error {
	return translate(r.store.articles.Update(article), entities.ErrArticleNotFound)
}

func (r *ArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(r.store.articles.Delete(id), entities.ErrArticleNotFound)
}

func (r *ArticleRepository) List(ctx context.Context, filter ports.ArticleFilter) (*ports.Page[entities.Article], error) {
	pred := func(a *entities.Article) bool {
		if filter.Category != nil {
			if a.Category == nil || *a.Category != *filter.Category {
				return false
			}
		}
		if filter.Tag != nil {
			found := false
			for _, tag := range a.Tags {
				if tag == *filter.Tag {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}

	result, err := r.store.articles.Paginate(pred,
		func(a, b *entities.Article) bool { return newestFirst(a.CreatedAt, b.CreatedAt) },
		filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	return &ports.Page[entities.Article]{
		Data:      result.Data,
		Total:     result.Total,
		Page:      result.Page,
		Limit:     result.Limit,
		PageCount: result.PageCount,
		HasMore:   result.HasMore,
	}, nil
}

// CommentRepository is the file-backed ports.CommentRepository.
type CommentRepository struct {
	store *Store
}

// NewCommentRepository creates a new file-backed comment repository.
func NewCommentRepository(store *Store) ports.CommentRepository {
	return &CommentRepository{store: store}
}

func (r *CommentRepository) Create(ctx context.Context, comment *entities.Comment) error {
	return translate(r.store.comments.Insert(comment), entities.ErrCommentNotFound)
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Comment, error) {
	comment, err := r.store.comments.Get(id)
	if err != nil {
		return nil, translate(err, entities.ErrCommentNotFound)
	}
	return comment, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment *entities.Comment) error {
	return translate(r.store.comments.Update(comment), entities.ErrCommentNotFound)
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(r.store.comments.Delete(id), entities.ErrCommentNotFound)
}

func (r *CommentRepository) ListByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) ([]entities.Comment, error) {
	matches, err := r.store.comments.Find(func(c *entities.Comment) bool {
		return c.ParentType == parentType && c.ParentID == parentID
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return oldestFirst(matches[i].CreatedAt, matches[j].CreatedAt)
	})
	return matches, nil
}

func (r *CommentRepository) DeleteByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) (int, error) {
	return r.store.comments.DeleteWhere(func(c *entities.Comment) bool {
		return c.ParentType == parentType && c.ParentID == parentID
	})
}

// LikeRepository is the file-backed ports.LikeRepository.
type LikeRepository struct {
	store *Store
}

// NewLikeRepository creates a new file-backed like repository.
func NewLikeRepository(store *Store) ports.LikeRepository {
	return &LikeRepository{store: store}
}

func (r *LikeRepository) Create(ctx context.Context, like *entities.Like) error {
	return translate(r.store.likes.Insert(like), entities.ErrNotFound)
}

func (r *LikeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(r.store.likes.Delete(id), entities.ErrNotFound)
}

func (r *LikeRepository) GetByParentAndUser(ctx context.Context, parentType entities.ParentType, parentID, userID uuid.UUID) (*entities.Like, error) {
	matches, err := r.store.likes.Find(func(l *entities.Like) bool {
		return l.ParentType == parentType && l.ParentID == parentID && l.UserID == userID
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, entities.ErrNotFound
	}
	return &matches[0], nil
}

func (r *LikeRepository) CountByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) (int, error) {
	return r.store.likes.Count(func(l *entities.Like) bool {
		return l.ParentType == parentType && l.ParentID == parentID
	})
}

func (r *LikeRepository) ListUserIDsByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) ([]uuid.UUID, error) {
	matches, err := r.store.likes.Find(func(l *entities.Like) bool {
		return l.ParentType == parentType && l.ParentID == parentID
	})
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(matches))
	for i := range matches {
		ids[i] = matches[i].UserID
	}
	return ids, nil
}

func (r *LikeRepository) DeleteByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) (int, error) {
	return r.store.likes.DeleteWhere(func(l *entities.Like) bool {
		return l.ParentType == parentType && l.ParentID == parentID
	})
}
