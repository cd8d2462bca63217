package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/ports"
)

// PostRepository is the PostgreSQL ports.PostRepository.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository creates a new PostgreSQL post repository.
func NewPostRepository(db *sqlx.DB) ports.PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *entities.Post) error {
	query := `
		INSERT INTO posts (id, title, content, author_id, image_url, version)
		VALUES ($1, $2, $3, $4, $5, 1)
		RETURNING created_at, version`

	err := r.db.QueryRowContext(ctx, query,
		post.ID, post.Title, post.Content, post.AuthorID, post.ImageURL,
	).Scan(&post.CreatedAt, &post.Version)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrDuplicateID
		}
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Post, error) {
	query := `
		SELECT id, title, content, author_id, image_url, created_at, updated_at, version
		FROM posts WHERE id = $1`

	var post entities.Post
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

func (r *PostRepository) Update(ctx context.Context, post *entities.Post) error {
	query := `
		UPDATE posts
		SET title = $2, content = $3, image_url = $4,
			updated_at = CURRENT_TIMESTAMP, version = version + 1
		WHERE id = $1 AND version = $5
		RETURNING updated_at, version`

	err := r.db.QueryRowContext(ctx, query,
		post.ID, post.Title, post.Content, post.ImageURL, post.Version,
	).Scan(&post.UpdatedAt, &post.Version)
	if err != nil {
		if err == sql.ErrNoRows {
			return versionOrNotFound(ctx, r.db, "posts", post.ID, entities.ErrPostNotFound)
		}
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return requireAffected(result, entities.ErrPostNotFound)
}

func (r *PostRepository) List(ctx context.Context, page, limit int) (*ports.Page[entities.Post], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts`); err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	query := `
		SELECT id, title, content, author_id, image_url, created_at, updated_at, version
		FROM posts
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`

	posts := []entities.Post{}
	if err := r.db.SelectContext(ctx, &posts, query, limit, (page-1)*limit); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return buildPage(posts, total, page, limit), nil
}

// ArticleRepository is the PostgreSQL ports.ArticleRepository.
type ArticleRepository struct {
	db *sqlx.DB
}

// NewArticleRepository creates a new PostgreSQL article repository.
func NewArticleRepository(db *sqlx.DB) ports.ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Create(ctx context.Context, article *entities.Article) error {
	query := `
		INSERT INTO articles (id, title, content, author_id, image_url, category, tags, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		RETURNING created_at, version`

	err := r.db.QueryRowContext(ctx, query,
		article.ID, article.Title, article.Content, article.AuthorID,
		article.ImageURL, article.Category, pq.Array(article.Tags),
	).Scan(&article.CreatedAt, &article.Version)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrDuplicateID
		}
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

const articleColumns = `id, title, content, author_id, image_url, category, tags,
	created_at, updated_at, version`

func scanArticle(row interface {
	Scan(dest ...interface{}) error
}) (*entities.Article, error) {
	var article entities.Article
	var tags pq.StringArray
	err := row.Scan(
		&article.ID, &article.Title, &article.Content, &article.AuthorID,
		&article.ImageURL, &article.Category, &tags,
		&article.CreatedAt, &article.UpdatedAt, &article.Version,
	)
	if err != nil {
		return nil, err
	}
	article.Tags = tags
	return &article, nil
}

func (r *ArticleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Article, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)

	article, err := scanArticle(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrArticleNotFound
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return article, nil
}

func (r *ArticleRepository) Update(ctx context.Context, article *entities.Article) error {
	query := `
		UPDATE articles
		SET title = $2, content = $3, image_url = $4, category = $5, tags = $6,
			updated_at = CURRENT_TIMESTAMP, version = version + 1
		WHERE id = $1 AND version = $7
		RETURNING updated_at, version`

	err := r.db.QueryRowContext(ctx, query,
		article.ID, article.Title, article.Content, article.ImageURL,
		article.Category, pq.Array(article.Tags), article.Version,
	).Scan(&article.UpdatedAt, &article.Version)
	if err != nil {
		if err == sql.ErrNoRows {
			return versionOrNotFound(ctx, r.db, "articles", article.ID, entities.ErrArticleNotFound)
		}
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return requireAffected(result, entities.ErrArticleNotFound)
}

func (r *ArticleRepository) List(ctx context.Context, filter ports.ArticleFilter) (*ports.Page[entities.Article], error) {
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	where := ` WHERE 1=1`
	args := []interface{}{}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Tag != nil {
		args = append(args, *filter.Tag)
		where += fmt.Sprintf(" AND $%d = ANY(tags)", len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM articles`+where, args...); err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	query := `SELECT ` + articleColumns + ` FROM articles` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := []entities.Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	return buildPage(articles, total, page, limit), nil
}

// CommentRepository is the PostgreSQL ports.CommentRepository.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository.
func NewCommentRepository(db *sqlx.DB) ports.CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *entities.Comment) error {
	query := `
		INSERT INTO comments (id, parent_id, parent_type, content, author_id, version)
		VALUES ($1, $2, $3, $4, $5, 1)
		RETURNING created_at, version`

	err := r.db.QueryRowContext(ctx, query,
		comment.ID, comment.ParentID, comment.ParentType, comment.Content, comment.AuthorID,
	).Scan(&comment.CreatedAt, &comment.Version)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrDuplicateID
		}
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Comment, error) {
	query := `
		SELECT id, parent_id, parent_type, content, author_id, created_at, updated_at, version
		FROM comments WHERE id = $1`

	var comment entities.Comment
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrCommentNotFound
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment *entities.Comment) error {
	query := `
		UPDATE comments
		SET content = $2, updated_at = CURRENT_TIMESTAMP, version = version + 1
		WHERE id = $1 AND version = $3
		RETURNING updated_at, version`

	err := r.db.QueryRowContext(ctx, query,
		comment.ID, comment.Content, comment.Version,
	).Scan(&comment.UpdatedAt, &comment.Version)
	if err != nil {
		if err == sql.ErrNoRows {
			return versionOrNotFound(ctx, r.db, "comments", comment.ID, entities.ErrCommentNotFound)
		}
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return requireAffected(result, entities.ErrCommentNotFound)
}

func (r *CommentRepository) ListByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) ([]entities.Comment, error) {
	query := `
		SELECT id, parent_id, parent_type, content, author_id, created_at, updated_at, version
		FROM comments
		WHERE parent_type = $1 AND parent_id = $2
		ORDER BY created_at ASC, id`

	comments := []entities.Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, parentType, parentID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) DeleteByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM comments WHERE parent_type = $1 AND parent_id = $2`, parentType, parentID)
	if err != nil {
		return 0, fmt.Errorf("delete comments by parent: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return int(affected), nil
}

// LikeRepository is the PostgreSQL ports.LikeRepository.
type LikeRepository struct {
	db *sqlx.DB
}

// NewLikeRepository creates a new PostgreSQL like repository.
func NewLikeRepository(db *sqlx.DB) ports.LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Create(ctx context.Context, like *entities.Like) error {
	query := `
		INSERT INTO likes (id, parent_id, parent_type, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		like.ID, like.ParentID, like.ParentType, like.UserID,
	).Scan(&like.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrDuplicateID
		}
		return fmt.Errorf("create like: %w", err)
	}
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return requireAffected(result, entities.ErrNotFound)
}

func (r *LikeRepository) GetByParentAndUser(ctx context.Context, parentType entities.ParentType, parentID, userID uuid.UUID) (*entities.Like, error) {
	query := `
		SELECT id, parent_id, parent_type, user_id, created_at
		FROM likes
		WHERE parent_type = $1 AND parent_id = $2 AND user_id = $3`

	var like entities.Like
	if err := r.db.GetContext(ctx, &like, query, parentType, parentID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrNotFound
		}
		return nil, fmt.Errorf("get like: %w", err)
	}
	return &like, nil
}

func (r *LikeRepository) CountByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM likes WHERE parent_type = $1 AND parent_id = $2`,
		parentType, parentID)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

func (r *LikeRepository) ListUserIDsByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := r.db.SelectContext(ctx, &ids,
		`SELECT user_id FROM likes WHERE parent_type = $1 AND parent_id = $2 ORDER BY created_at`,
		parentType, parentID)
	if err != nil {
		return nil, fmt.Errorf("list likers: %w", err)
	}
	return ids, nil
}

func (r *LikeRepository) DeleteByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM likes WHERE parent_type = $1 AND parent_id = $2`, parentType, parentID)
	if err != nil {
		return 0, fmt.Errorf("delete likes by parent: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return int(affected), nil
}

// buildPage assembles a ports.Page from a query result.
func buildPage[T any](data []T, total, page, limit int) *ports.Page[T] {
	pageCount := (total + limit - 1) / limit
	return &ports.Page[T]{
		Data:      data,
		Total:     total,
		Page:      page,
		Limit:     limit,
		PageCount: pageCount,
		HasMore:   page*limit < total,
	}
}
