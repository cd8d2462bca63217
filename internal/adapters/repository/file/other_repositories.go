package file

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/ports"
)

// AnnouncementRepository is the file-backed ports.AnnouncementRepository.
type AnnouncementRepository struct {
	store *Store
}

// NewAnnouncementRepository creates a new file-backed announcement repository.
func NewAnnouncementRepository(store *Store) ports.AnnouncementRepository {
	return &AnnouncementRepository{store: store}
}

func (r *AnnouncementRepository) Create(ctx context.Context, announcement *entities.Announcement) error {
	return translate(r.store.announcements.Insert(announcement), entities.ErrAnnouncementNotFound)
}

func (r *AnnouncementRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Announcement, error) {
	announcement, err := r.store.announcements.Get(id)
	if err != nil {
		return nil, translate(err, entities.ErrAnnouncementNotFound)
	}
	return announcement, nil
}

func (r *AnnouncementRepository) Update(ctx context.Context, announcement *entities.Announcement) error {
	return translate(r.store.announcements.Update(announcement), entities.ErrAnnouncementNotFound)
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(r.store.announcements.Delete(id), entities.ErrAnnouncementNotFound)
}

func (r *AnnouncementRepository) ListActive(ctx context.Context, now time.Time) ([]entities.Announcement, error) {
	matches, err := r.store.announcements.Find(func(a *entities.Announcement) bool {
		return !a.IsExpired(now)
	})
	if err != nil {
		return nil, err
	}
	// important pinned on top, newest first within each group
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Important != matches[j].Important {
			return matches[i].Important
		}
		return newestFirst(matches[i].CreatedAt, matches[j].CreatedAt)
	})
	return matches, nil
}

// NotificationRepository is the file-backed ports.NotificationRepository.
type NotificationRepository struct {
	store *Store
}

// NewNotificationRepository creates a new file-backed notification repository.
func NewNotificationRepository(store *Store) ports.NotificationRepository {
	return &NotificationRepository{store: store}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entities.Notification) error {
	return translate(r.store.notifications.Insert(notification), entities.ErrNotificationNotFound)
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Notification, error) {
	notification, err := r.store.notifications.Get(id)
	if err != nil {
		return nil, translate(err, entities.ErrNotificationNotFound)
	}
	return notification, nil
}

func (r *NotificationRepository) Update(ctx context.Context, notification *entities.Notification) error {
	return translate(r.store.notifications.Update(notification), entities.ErrNotificationNotFound)
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]entities.Notification, error) {
	matches, err := r.store.notifications.Find(func(n *entities.Notification) bool {
		if n.UserID != userID {
			return false
		}
		return !unreadOnly || !n.Read
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return newestFirst(matches[i].CreatedAt, matches[j].CreatedAt)
	})
	return matches, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	matches, err := r.store.notifications.Find(func(n *entities.Notification) bool {
		return n.UserID == userID && !n.Read
	})
	if err != nil {
		return 0, err
	}

	for i := range matches {
		matches[i].Read = true
		if err := r.store.notifications.Update(&matches[i]); err != nil {
			return i, translate(err, entities.ErrNotificationNotFound)
		}
	}
	return len(matches), nil
}

// DocumentRepository is the file-backed ports.DocumentRepository.
type DocumentRepository struct {
	store *Store
}

// NewDocumentRepository creates a new file-backed document repository.
func NewDocumentRepository(store *Store) ports.DocumentRepository {
	return &DocumentRepository{store: store}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *entities.Document) error {
	return translate(r.store.documents.Insert(doc), entities.ErrDocumentNotFound)
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Document, error) {
	doc, err := r.store.documents.Get(id)
	if err != nil {
		return nil, translate(err, entities.ErrDocumentNotFound)
	}
	return doc, nil
}

func (r *DocumentRepository) Update(ctx context.Context, doc *entities.Document) error {
	return translate(r.store.documents.Update(doc), entities.ErrDocumentNotFound)
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(r.store.documents.Delete(id), entities.ErrDocumentNotFound)
}

func (r *DocumentRepository) List(ctx context.Context, page, limit int) (*ports.Page[entities.Document], error) {
	result, err := r.store.documents.Paginate(nil,
		func(a, b *entities.Document) bool { return newestFirst(a.CreatedAt, b.CreatedAt) },
		page, limit)
	if err != nil {
		return nil, err
	}
	return &ports.Page[entities.Document]{
		Data:      result.Data,
		Total:     result.Total,
		Page:      result.Page,
		Limit:     result.Limit,
		PageCount: result.PageCount,
		HasMore:   result.HasMore,
	}, nil
}

// AuthRepository is the file-backed ports.AuthRepository.
type AuthRepository struct {
	store *Store
}

// NewAuthRepository creates a new file-backed auth repository.
func NewAuthRepository(store *Store) ports.AuthRepository {
	return &AuthRepository{store: store}
}

func (r *AuthRepository) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	token := entities.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return translate(r.store.tokens.Insert(&token), entities.ErrNotFound)
}

func (r *AuthRepository) GetRefreshToken(ctx context.Context, tokenHash string) (*entities.RefreshToken, error) {
	matches, err := r.store.tokens.Find(func(t *entities.RefreshToken) bool {
		return t.TokenHash == tokenHash
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, entities.ErrNotFound
	}
	return &matches[0], nil
}

func (r *AuthRepository) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	matches, err := r.store.tokens.Find(func(t *entities.RefreshToken) bool {
		return t.TokenHash == tokenHash
	})
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return entities.ErrNotFound
	}

	now := time.Now()
	matches[0].RevokedAt = &now
	return translate(r.store.tokens.Update(&matches[0]), entities.ErrNotFound)
}

func (r *AuthRepository) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	matches, err := r.store.tokens.Find(func(t *entities.RefreshToken) bool {
		return t.UserID == userID && t.RevokedAt == nil
	})
	if err != nil {
		return err
	}

	now := time.Now()
	for i := range matches {
		matches[i].RevokedAt = &now
		if err := r.store.tokens.Update(&matches[i]); err != nil {
			return translate(err, entities.ErrNotFound)
		}
	}
	return nil
}

func (r *AuthRepository) CleanupExpiredTokens(ctx context.Context) error {
	now := time.Now()
	_, err := r.store.tokens.DeleteWhere(func(t *entities.RefreshToken) bool {
		return now.After(t.ExpiresAt)
	})
	return err
}
