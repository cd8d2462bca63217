package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/communityhub/core/internal/domain/entities"
)

// AuthService interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ValidateToken(tokenString string) (*Claims, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*entities.User, error)
}

// PostService interface for community post operations
type PostService interface {
	Create(ctx context.Context, actorID uuid.UUID, req CreatePostRequest) (*PostResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*PostDetailResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req UpdatePostRequest) (*PostResponse, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	List(ctx context.Context, page, limit int) (*Page[PostResponse], error)
	ToggleLike(ctx context.Context, actorID, id uuid.UUID) (*LikeResult, error)
}

// ArticleService interface for editorial article operations
type ArticleService interface {
	Create(ctx context.Context, actorID uuid.UUID, req CreateArticleRequest) (*ArticleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*ArticleDetailResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req UpdateArticleRequest) (*ArticleResponse, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	List(ctx context.Context, filter ArticleFilter) (*Page[ArticleResponse], error)
	ToggleLike(ctx context.Context, actorID, id uuid.UUID) (*LikeResult, error)
}

// CommentService interface for comment operations
type CommentService interface {
	Create(ctx context.Context, actorID uuid.UUID, req CreateCommentRequest) (*CommentResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, content string) (*CommentResponse, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	ListByParent(ctx context.Context, parentType entities.ParentType, parentID uuid.UUID) ([]CommentResponse, error)
}

// AnnouncementService interface for announcement operations
type AnnouncementService interface {
	Create(ctx context.Context, actorID uuid.UUID, req AnnouncementRequest) (*entities.Announcement, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req AnnouncementRequest) (*entities.Announcement, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	ListActive(ctx context.Context) ([]entities.Announcement, error)
}

// DocumentService interface for document listing operations
type DocumentService interface {
	Create(ctx context.Context, actorID uuid.UUID, req DocumentRequest) (*entities.Document, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Document, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req DocumentRequest) (*entities.Document, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	List(ctx context.Context, page, limit int) (*Page[entities.Document], error)
}

// NotificationService interface for notification operations
type NotificationService interface {
	Notify(ctx context.Context, n *entities.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]entities.Notification, error)
	MarkRead(ctx context.Context, actorID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
}

// AdminService interface for admin member management
type AdminService interface {
	ListMembers(ctx context.Context) ([]*entities.User, error)
	AddMember(ctx context.Context, actorID uuid.UUID, req AddAdminMemberRequest) (*entities.User, error)
	UpdateMember(ctx context.Context, actorID, targetID uuid.UUID, req UpdateAdminMemberRequest) (*entities.User, error)
	RemoveMember(ctx context.Context, actorID, targetID uuid.UUID) error
}

// Request/Response Types

// Auth related types
type RegisterRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	DisplayName string  `json:"display_name" validate:"required,min=2,max=100"`
	PhotoURL    *string `json:"photo_url" validate:"omitempty,url"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	User         *entities.User `json:"user"`
}

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	IsFounder bool      `json:"is_founder"`
}

// Author is the denormalized author block attached to content responses.
type Author struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	PhotoURL    *string   `json:"photo_url"`
}

// Post related types
type CreatePostRequest struct {
	Title    string  `json:"title" validate:"required,max=300"`
	Content  string  `json:"content" validate:"required"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
}

type UpdatePostRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=300"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
	Version  int     `json:"version"`
}

type PostResponse struct {
	entities.Post
	Author Author `json:"author"`
	Likes  int    `json:"likes"`
}

type PostDetailResponse struct {
	PostResponse
	Comments []CommentResponse `json:"comments"`
	LikedBy  []uuid.UUID       `json:"liked_by"`
}

// Article related types
type CreateArticleRequest struct {
	Title    string   `json:"title" validate:"required,max=300"`
	Content  string   `json:"content" validate:"required"`
	ImageURL *string  `json:"image_url" validate:"omitempty,url"`
	Category *string  `json:"category" validate:"omitempty,max=100"`
	Tags     []string `json:"tags" validate:"omitempty,dive,max=50"`
}

type UpdateArticleRequest struct {
	Title    *string  `json:"title" validate:"omitempty,max=300"`
	Content  *string  `json:"content"`
	ImageURL *string  `json:"image_url" validate:"omitempty,url"`
	Category *string  `json:"category" validate:"omitempty,max=100"`
	Tags     []string `json:"tags" validate:"omitempty,dive,max=50"`
	Version  int      `json:"version"`
}

type ArticleResponse struct {
	entities.Article
	Author Author `json:"author"`
	Likes  int    `json:"likes"`
}

type ArticleDetailResponse struct {
	ArticleResponse
	Comments []CommentResponse `json:"comments"`
	LikedBy  []uuid.UUID       `json:"liked_by"`
}

// Comment related types
type CreateCommentRequest struct {
	ParentID   uuid.UUID           `json:"parent_id" validate:"required"`
	ParentType entities.ParentType `json:"parent_type" validate:"required,oneof=post article"`
	Content    string              `json:"content" validate:"required"`
}

type CommentResponse struct {
	entities.Comment
	Author Author `json:"author"`
}

// LikeResult is returned by the like-toggle operations.
type LikeResult struct {
	Likes        int  `json:"likes"`
	UserHasLiked bool `json:"user_has_liked"`
}

// Announcement related types
type AnnouncementRequest struct {
	Title     string     `json:"title" validate:"required,max=300"`
	Content   string     `json:"content" validate:"required"`
	Important *bool      `json:"important"`
	ExpiresAt *time.Time `json:"expires_at"`
	Version   int        `json:"version"`
}

// Document related types
type DocumentRequest struct {
	Title       string  `json:"title" validate:"required,max=300"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	FileURL     string  `json:"file_url" validate:"required,url"`
	FileType    string  `json:"file_type" validate:"required,max=50"`
	SizeBytes   int64   `json:"size_bytes" validate:"min=0"`
	Version     int     `json:"version"`
}

// Admin member related types
type AddAdminMemberRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role" validate:"required,max=100"`
}

type UpdateAdminMemberRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=2,max=100"`
	PhotoURL    *string `json:"photo_url" validate:"omitempty,url"`
	Role        *string `json:"role" validate:"omitempty,max=100"`
	IsFounder   *bool   `json:"is_founder"`
	IsActive    *bool   `json:"is_active"`
}

// Common response types
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Storage   string    `json:"storage"`
	Timestamp time.Time `json:"timestamp"`
}
