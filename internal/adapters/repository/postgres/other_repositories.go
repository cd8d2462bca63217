package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/ports"
)

// AnnouncementRepository is the PostgreSQL ports.AnnouncementRepository.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates a new PostgreSQL announcement repository.
func NewAnnouncementRepository(db *sqlx.DB) ports.AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) Create(ctx context.Context, announcement *entities.Announcement) error {
	query := `
		INSERT INTO announcements (id, title, content, author_id, important, expires_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, 1)
		RETURNING created_at, version`

	err := r.db.QueryRowContext(ctx, query,
		announcement.ID, announcement.Title, announcement.Content,
		announcement.AuthorID, announcement.Important, announcement.ExpiresAt,
	).Scan(&announcement.CreatedAt, &announcement.Version)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrDuplicateID
		}
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

func (r *AnnouncementRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Announcement, error) {
	query := `
		SELECT id, title, content, author_id, important, expires_at, created_at, updated_at, version
		FROM announcements WHERE id = $1`

	var announcement entities.Announcement
	if err := r.db.GetContext(ctx, &announcement, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	return &announcement, nil
}

func (r *AnnouncementRepository) Update(ctx context.Context, announcement *entities.Announcement) error {
	query := `
		UPDATE announcements
		SET title = $2, content = $3, important = $4, expires_at = $5,
			updated_at = CURRENT_TIMESTAMP, version = version + 1
		WHERE id = $1 AND version = $6
		RETURNING updated_at, version`

	err := r.db.QueryRowContext(ctx, query,
		announcement.ID, announcement.Title, announcement.Content,
		announcement.Important, announcement.ExpiresAt, announcement.Version,
	).Scan(&announcement.UpdatedAt, &announcement.Version)
	if err != nil {
		if err == sql.ErrNoRows {
			return versionOrNotFound(ctx, r.db, "announcements", announcement.ID, entities.ErrAnnouncementNotFound)
		}
		return fmt.Errorf("update announcement: %w", err)
	}
	return nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return requireAffected(result, entities.ErrAnnouncementNotFound)
}

func (r *AnnouncementRepository) ListActive(ctx context.Context, now time.Time) ([]entities.Announcement, error) {
	query := `
		SELECT id, title, content, author_id, important, expires_at, created_at, updated_at, version
		FROM announcements
		WHERE expires_at IS NULL OR expires_at > $1
		ORDER BY important DESC, created_at DESC`

	announcements := []entities.Announcement{}
	if err := r.db.SelectContext(ctx, &announcements, query, now); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, nil
}

// NotificationRepository is the PostgreSQL ports.NotificationRepository.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new PostgreSQL notification repository.
func NewNotificationRepository(db *sqlx.DB) ports.NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entities.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, actor_id, type, message, link, target_id, read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		notification.ID, notification.UserID, notification.ActorID, notification.Type,
		notification.Message, notification.Link, notification.TargetID, notification.Read,
	).Scan(&notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Notification, error) {
	query := `
		SELECT id, user_id, actor_id, type, message, link, target_id, read, created_at
		FROM notifications WHERE id = $1`

	var notification entities.Notification
	if err := r.db.GetContext(ctx, &notification, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &notification, nil
}

func (r *NotificationRepository) Update(ctx context.Context, notification *entities.Notification) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = $2 WHERE id = $1`,
		notification.ID, notification.Read)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	return requireAffected(result, entities.ErrNotificationNotFound)
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]entities.Notification, error) {
	query := `
		SELECT id, user_id, actor_id, type, message, link, target_id, read, created_at
		FROM notifications
		WHERE user_id = $1`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	notifications := []entities.Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return int(affected), nil
}

// DocumentRepository is the PostgreSQL ports.DocumentRepository.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository creates a new PostgreSQL document repository.
func NewDocumentRepository(db *sqlx.DB) ports.DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *entities.Document) error {
	query := `
		INSERT INTO documents (id, title, description, file_url, file_type, size_bytes, author_id, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		RETURNING created_at, version`

	err := r.db.QueryRowContext(ctx, query,
		doc.ID, doc.Title, doc.Description, doc.FileURL, doc.FileType,
		doc.SizeBytes, doc.AuthorID,
	).Scan(&doc.CreatedAt, &doc.Version)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrDuplicateID
		}
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Document, error) {
	query := `
		SELECT id, title, description, file_url, file_type, size_bytes, author_id,
			created_at, updated_at, version
		FROM documents WHERE id = $1`

	var doc entities.Document
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) Update(ctx context.Context, doc *entities.Document) error {
	query := `
		UPDATE documents
		SET title = $2, description = $3, file_url = $4, file_type = $5, size_bytes = $6,
			updated_at = CURRENT_TIMESTAMP, version = version + 1
		WHERE id = $1 AND version = $7
		RETURNING updated_at, version`

	err := r.db.QueryRowContext(ctx, query,
		doc.ID, doc.Title, doc.Description, doc.FileURL, doc.FileType,
		doc.SizeBytes, doc.Version,
	).Scan(&doc.UpdatedAt, &doc.Version)
	if err != nil {
		if err == sql.ErrNoRows {
			return versionOrNotFound(ctx, r.db, "documents", doc.ID, entities.ErrDocumentNotFound)
		}
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return requireAffected(result, entities.ErrDocumentNotFound)
}

func (r *DocumentRepository) List(ctx context.Context, page, limit int) (*ports.Page[entities.Document], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM documents`); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	query := `
		SELECT id, title, description, file_url, file_type, size_bytes, author_id,
			created_at, updated_at, version
		FROM documents
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`

	docs := []entities.Document{}
	if err := r.db.SelectContext(ctx, &docs, query, limit, (page-1)*limit); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return buildPage(docs, total, page, limit), nil
}

// AuthRepository is the PostgreSQL ports.AuthRepository.
type AuthRepository struct {
	db *sqlx.DB
}

// NewAuthRepository creates a new PostgreSQL auth repository.
func NewAuthRepository(db *sqlx.DB) ports.AuthRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, uuid.New(), userID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

func (r *AuthRepository) GetRefreshToken(ctx context.Context, tokenHash string) (*entities.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at, revoked_at
		FROM refresh_tokens WHERE token_hash = $1`

	var token entities.RefreshToken
	if err := r.db.GetContext(ctx, &token, query, tokenHash); err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrNotFound
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}
	return &token, nil
}

func (r *AuthRepository) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = CURRENT_TIMESTAMP WHERE token_hash = $1 AND revoked_at IS NULL`,
		tokenHash)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return requireAffected(result, entities.ErrNotFound)
}

func (r *AuthRepository) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = CURRENT_TIMESTAMP WHERE user_id = $1 AND revoked_at IS NULL`,
		userID)
	if err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

func (r *AuthRepository) CleanupExpiredTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("cleanup expired tokens: %w", err)
	}
	return nil
}
