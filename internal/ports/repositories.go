package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/communityhub/core/internal/domain/entities"
)

// Page is one page of a paginated listing. PageCount is always
// ceil(Total/Limit).
type Page[T any] struct {
	Data      []T  `json:"data"`
	Total     int  `json:"total"`
	Page      int  `json:"page"`
	Limit     int  `json:"limit"`
	PageCount int  `json:"page_count"`
	HasMore   bool `json:"has_more"`
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter UserFilter) ([]*entities.User, error)
	Count(ctx context.Context) (int, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *entities.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Post, error)
	Update(ctx context.Context, post *entities.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, page, limit int) (*Page[entities.Post], error)
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *entities.Article) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Article, error)
	Update(ctx context.Context, article *entities.Article) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ArticleFilter) (*Page[entities.Article], error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *entities.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Comment, error)
	Update(ctx context.Context, comment *entities.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) ([]entities.Comment, error)
	DeleteByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) (int, error)
}

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	Create(ctx context.Context, like *entities.Like) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByParentAndUser(ctx context.Context, parentType entities.ParentType, parentID, userID uuid.UUID) (*entities.Like, error)
	CountByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) (int, error)
	ListUserIDsByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) ([]uuid.UUID, error)
	DeleteByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) (int, error)
}

// AnnouncementRepository defines the interface for announcement data operations
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *entities.Announcement) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Announcement, error)
	Update(ctx context.Context, announcement *entities.Announcement) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context, now time.Time) ([]entities.Announcement, error)
}

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *entities.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Notification, error)
	Update(ctx context.Context, notification *entities.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]entities.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
}

// DocumentRepository defines the interface for document data operations
type DocumentRepository interface {
	Create(ctx context.Context, doc *entities.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Document, error)
	Update(ctx context.Context, doc *entities.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, page, limit int) (*Page[entities.Document], error)
}

// AuthRepository defines the interface for refresh token operations
type AuthRepository interface {
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*entities.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
	CleanupExpiredTokens(ctx context.Context) error
}

// Filter types for repository queries

type UserFilter struct {
	IsAdmin  *bool
	IsActive *bool
	Search   *string
	Limit    int
	Offset   int
}

type ArticleFilter struct {
	Category *string
	Tag      *string
	Page     int
	Limit    int
}
