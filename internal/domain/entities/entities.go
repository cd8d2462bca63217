package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors. The HTTP layer maps each of these to a status code with
// errors.Is, so every failure must wrap exactly one of them.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrArticleNotFound      = errors.New("article not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotFound             = errors.New("record not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrValidation           = errors.New("validation failed")
	ErrDuplicateID          = errors.New("record already exists")
	ErrEmailTaken           = errors.New("email already registered")
	ErrVersionConflict      = errors.New("version conflict")
	ErrAccountInactive      = errors.New("account is inactive")
	ErrFounderImmutable     = errors.New("founders cannot be removed")
)

// ParentType discriminates what a comment or like is attached to.
type ParentType string

const (
	ParentTypePost    ParentType = "post"
	ParentTypeArticle ParentType = "article"
)

func (pt ParentType) IsValid() bool {
	return pt == ParentTypePost || pt == ParentTypeArticle
}

// NotificationType enumerates the notification kinds the platform emits.
type NotificationType string

const (
	NotificationTypeArticleLiked NotificationType = "article_liked"
	NotificationTypeCommented    NotificationType = "commented"
	NotificationTypeAnnouncement NotificationType = "announcement"
)

// User represents a platform account.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	DisplayName  string     `json:"display_name" db:"display_name"`
	PhotoURL     *string    `json:"photo_url" db:"photo_url"`
	Role         *string    `json:"role" db:"role"`
	IsAdmin      bool       `json:"is_admin" db:"is_admin"`
	IsFounder    bool       `json:"is_founder" db:"is_founder"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at" db:"updated_at"`
	Version      int        `json:"version" db:"version"`
}

// Post is a plain community post.
type Post struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	Content   string     `json:"content" db:"content"`
	AuthorID  uuid.UUID  `json:"author_id" db:"author_id"`
	ImageURL  *string    `json:"image_url" db:"image_url"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
	Version   int        `json:"version" db:"version"`
}

// Article is editorial content; only admins may publish it.
type Article struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	Content   string     `json:"content" db:"content"`
	AuthorID  uuid.UUID  `json:"author_id" db:"author_id"`
	ImageURL  *string    `json:"image_url" db:"image_url"`
	Category  *string    `json:"category" db:"category"`
	Tags      []string   `json:"tags" db:"tags"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
	Version   int        `json:"version" db:"version"`
}

// Comment belongs to a post or an article.
type Comment struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	ParentID   uuid.UUID  `json:"parent_id" db:"parent_id"`
	ParentType ParentType `json:"parent_type" db:"parent_type"`
	Content    string     `json:"content" db:"content"`
	AuthorID   uuid.UUID  `json:"author_id" db:"author_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at" db:"updated_at"`
	Version    int        `json:"version" db:"version"`
}

// Like records that a user liked a post or article. Uniqueness per
// (parent, user) is enforced by the services; existence encodes "liked".
type Like struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	ParentID   uuid.UUID  `json:"parent_id" db:"parent_id"`
	ParentType ParentType `json:"parent_type" db:"parent_type"`
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// Announcement is an admin-published notice, optionally expiring.
type Announcement struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	Content   string     `json:"content" db:"content"`
	AuthorID  uuid.UUID  `json:"author_id" db:"author_id"`
	Important bool       `json:"important" db:"important"`
	ExpiresAt *time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
	Version   int        `json:"version" db:"version"`
}

// Notification is delivered to a single recipient.
type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	ActorID   uuid.UUID        `json:"actor_id" db:"actor_id"`
	Type      NotificationType `json:"type" db:"type"`
	Message   string           `json:"message" db:"message"`
	Link      string           `json:"link" db:"link"`
	TargetID  uuid.UUID        `json:"target_id" db:"target_id"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// Document is a listed file reference; the file itself lives elsewhere.
type Document struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	FileURL     string     `json:"file_url" db:"file_url"`
	FileType    string     `json:"file_type" db:"file_type"`
	SizeBytes   int64      `json:"size_bytes" db:"size_bytes"`
	AuthorID    uuid.UUID  `json:"author_id" db:"author_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at" db:"updated_at"`
	Version     int        `json:"version" db:"version"`
}

// RefreshToken is an opaque token record; only the sha256 hash is stored.
type RefreshToken struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	TokenHash string     `json:"token_hash" db:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	RevokedAt *time.Time `json:"revoked_at" db:"revoked_at"`
}

// Business logic methods for User

// CanModerate reports whether the user may edit or delete content owned
// by someone else.
func (u *User) CanModerate() bool {
	return u.IsActive && u.IsAdmin
}

// CanEditContent reports whether the user may edit or delete content
// owned by authorID.
func (u *User) CanEditContent(authorID uuid.UUID) bool {
	if !u.IsActive {
		return false
	}
	return u.ID == authorID || u.IsAdmin
}

// CanManageAdmins reports whether the user may promote or demote admin
// members. Only founders may.
func (u *User) CanManageAdmins() bool {
	return u.IsActive && u.IsFounder
}

// Business logic methods for Announcement

// IsExpired reports whether the announcement has passed its expiry.
func (a *Announcement) IsExpired(now time.Time) bool {
	return a.ExpiresAt != nil && now.After(*a.ExpiresAt)
}

// Business logic methods for RefreshToken

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsValid() bool {
	return !rt.IsExpired() && !rt.IsRevoked()
}
