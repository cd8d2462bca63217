package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/communityhub/core/internal/adapters/cache"
	"github.com/communityhub/core/internal/adapters/repository/file"
	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/infrastructure/config"
	"github.com/communityhub/core/internal/infrastructure/logger"
	"github.com/communityhub/core/internal/ports"
)

// testEnv wires every service against the file storage backend rooted
// in a temp directory.
type testEnv struct {
	users         ports.UserRepository
	posts         ports.PostRepository
	articles      ports.ArticleRepository
	comments      ports.CommentRepository
	likes         ports.LikeRepository
	announcements ports.AnnouncementRepository
	notifications ports.NotificationRepository
	documents     ports.DocumentRepository
	authRepo      ports.AuthRepository

	auth        *AuthService
	postSvc     *PostService
	articleSvc  *ArticleService
	commentSvc  *CommentService
	announceSvc *AnnouncementService
	documentSvc *DocumentService
	notifySvc   *NotificationService
	adminSvc    *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := file.New(t.TempDir())
	log := logger.NewNop()

	env := &testEnv{
		users:         file.NewUserRepository(store),
		posts:         file.NewPostRepository(store),
		articles:      file.NewArticleRepository(store),
		comments:      file.NewCommentRepository(store),
		likes:         file.NewLikeRepository(store),
		announcements: file.NewAnnouncementRepository(store),
		notifications: file.NewNotificationRepository(store),
		documents:     file.NewDocumentRepository(store),
		authRepo:      file.NewAuthRepository(store),
	}

	authors := cache.NewAuthorCache(env.users, 1024*1024, time.Minute)

	jwtCfg := config.JWTConfig{
		Secret:           "test-secret-do-not-use-in-production",
		ExpiresIn:        time.Hour,
		RefreshExpiresIn: 24 * time.Hour,
		Issuer:           "communityhub-test",
	}
	uploadCfg := config.UploadConfig{
		MaxSize:      10 * 1024 * 1024,
		AllowedTypes: "pdf,doc,docx,png",
	}

	env.auth = NewAuthService(env.users, env.authRepo, jwtCfg, log)
	env.notifySvc = NewNotificationService(env.notifications, log)
	env.postSvc = NewPostService(env.posts, env.comments, env.likes, env.users, authors, log)
	env.articleSvc = NewArticleService(env.articles, env.comments, env.likes, env.users, env.notifySvc, authors, log)
	env.commentSvc = NewCommentService(env.comments, env.posts, env.articles, env.users, authors, log)
	env.announceSvc = NewAnnouncementService(env.announcements, env.users, log)
	env.documentSvc = NewDocumentService(env.documents, env.users, uploadCfg, log)
	env.adminSvc = NewAdminService(env.users, authors, log)

	return env
}

// seedUser creates an account directly in the user repository.
func (env *testEnv) seedUser(t *testing.T, displayName string, admin, founder bool) *entities.User {
	t.Helper()

	user := &entities.User{
		ID:           uuid.New(),
		Email:        displayName + "@example.com",
		PasswordHash: "x",
		DisplayName:  displayName,
		IsAdmin:      admin || founder,
		IsFounder:    founder,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, env.users.Create(context.Background(), user))
	return user
}

func (env *testEnv) seedPost(t *testing.T, author *entities.User, title string) *ports.PostResponse {
	t.Helper()

	post, err := env.postSvc.Create(context.Background(), author.ID, ports.CreatePostRequest{
		Title:   title,
		Content: "content of " + title,
	})
	require.NoError(t, err)
	return post
}

func (env *testEnv) seedArticle(t *testing.T, author *entities.User, title string) *ports.ArticleResponse {
	t.Helper()

	article, err := env.articleSvc.Create(context.Background(), author.ID, ports.CreateArticleRequest{
		Title:   title,
		Content: "content of " + title,
	})
	require.NoError(t, err)
	return article
}
