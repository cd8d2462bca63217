package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/communityhub/core/internal/adapters/cache"
	httpHandlers "github.com/communityhub/core/internal/adapters/http"
	"github.com/communityhub/core/internal/adapters/repository/file"
	"github.com/communityhub/core/internal/adapters/repository/postgres"
	"github.com/communityhub/core/internal/application/services"
	"github.com/communityhub/core/internal/infrastructure/config"
	"github.com/communityhub/core/internal/infrastructure/database"
	"github.com/communityhub/core/internal/infrastructure/logger"
	"github.com/communityhub/core/internal/ports"
)

const (
	authorCacheSize = 16 * 1024 * 1024
	authorCacheTTL  = 5 * time.Minute
)

// Server represents the HTTP server
type Server struct {
	echo      *echo.Echo
	config    *config.Config
	logger    *logger.Logger
	db        *database.DB // nil with the file driver
	fileStore *file.Store  // nil with the postgres driver
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// repositories bundles one complete storage backend.
type repositories struct {
	users         ports.UserRepository
	posts         ports.PostRepository
	articles      ports.ArticleRepository
	comments      ports.CommentRepository
	likes         ports.LikeRepository
	announcements ports.AnnouncementRepository
	notifications ports.NotificationRepository
	documents     ports.DocumentRepository
	auth          ports.AuthRepository
}

// New creates a new server instance wired to the configured storage
// driver.
func New(cfg *config.Config, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
	}

	repos, err := server.buildRepositories()
	if err != nil {
		return nil, err
	}

	authors := cache.NewAuthorCache(repos.users, authorCacheSize, authorCacheTTL)

	// Initialize services
	authService := services.NewAuthService(repos.users, repos.auth, cfg.JWT, appLogger)
	notificationService := services.NewNotificationService(repos.notifications, appLogger)
	postService := services.NewPostService(repos.posts, repos.comments, repos.likes, repos.users, authors, appLogger)
	articleService := services.NewArticleService(repos.articles, repos.comments, repos.likes, repos.users, notificationService, authors, appLogger)
	commentService := services.NewCommentService(repos.comments, repos.posts, repos.articles, repos.users, authors, appLogger)
	announcementService := services.NewAnnouncementService(repos.announcements, repos.users, appLogger)
	documentService := services.NewDocumentService(repos.documents, repos.users, cfg.Upload, appLogger)
	adminService := services.NewAdminService(repos.users, authors, appLogger)

	// Initialize handlers
	authHandler := httpHandlers.NewAuthHandler(authService, appLogger)
	postHandler := httpHandlers.NewPostHandler(postService, appLogger)
	articleHandler := httpHandlers.NewArticleHandler(articleService, appLogger)
	commentHandler := httpHandlers.NewCommentHandler(commentService, appLogger)
	announcementHandler := httpHandlers.NewAnnouncementHandler(announcementService, appLogger)
	documentHandler := httpHandlers.NewDocumentHandler(documentService, appLogger)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService, appLogger)
	adminHandler := httpHandlers.NewAdminHandler(adminService, appLogger)

	server.setupMiddleware()
	server.setupRoutes(routeHandlers{
		auth:          authHandler,
		posts:         postHandler,
		articles:      articleHandler,
		comments:      commentHandler,
		announcements: announcementHandler,
		documents:     documentHandler,
		notifications: notificationHandler,
		admin:         adminHandler,
	}, authService)

	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// buildRepositories constructs the repository set for the configured
// driver. Both backends satisfy the same port interfaces.
func (s *Server) buildRepositories() (*repositories, error) {
	switch s.config.Storage.Driver {
	case config.StorageDriverFile:
		store := file.New(s.config.Storage.DataDir)
		s.fileStore = store
		s.logger.Infow("Using file storage", "data_dir", s.config.Storage.DataDir)
		return &repositories{
			users:         file.NewUserRepository(store),
			posts:         file.NewPostRepository(store),
			articles:      file.NewArticleRepository(store),
			comments:      file.NewCommentRepository(store),
			likes:         file.NewLikeRepository(store),
			announcements: file.NewAnnouncementRepository(store),
			notifications: file.NewNotificationRepository(store),
			documents:     file.NewDocumentRepository(store),
			auth:          file.NewAuthRepository(store),
		}, nil

	case config.StorageDriverPostgres:
		db, err := database.New(s.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		s.db = db
		s.logger.Infow("Using postgres storage", "host", s.config.Database.Host, "database", s.config.Database.Name)
		return &repositories{
			users:         postgres.NewUserRepository(db.DB),
			posts:         postgres.NewPostRepository(db.DB),
			articles:      postgres.NewArticleRepository(db.DB),
			comments:      postgres.NewCommentRepository(db.DB),
			likes:         postgres.NewLikeRepository(db.DB),
			announcements: postgres.NewAnnouncementRepository(db.DB),
			notifications: postgres.NewNotificationRepository(db.DB),
			documents:     postgres.NewDocumentRepository(db.DB),
			auth:          postgres.NewAuthRepository(db.DB),
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", s.config.Storage.Driver)
	}
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	// Rate limiting middleware
	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
	}))

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Timeout middleware
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

type routeHandlers struct {
	auth          *httpHandlers.AuthHandler
	posts         *httpHandlers.PostHandler
	articles      *httpHandlers.ArticleHandler
	comments      *httpHandlers.CommentHandler
	announcements *httpHandlers.AnnouncementHandler
	documents     *httpHandlers.DocumentHandler
	notifications *httpHandlers.NotificationHandler
	admin         *httpHandlers.AdminHandler
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(h routeHandlers, authService ports.AuthService) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")
	v1.GET("/status", s.status)

	auth := s.authMiddleware(authService)

	// Auth routes (public except logout and me)
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", h.auth.Register)
	authGroup.POST("/login", h.auth.Login)
	authGroup.POST("/refresh", h.auth.RefreshToken)
	authGroup.POST("/logout", h.auth.Logout, auth)
	authGroup.POST("/verify", h.auth.Verify, auth)

	// Post routes (reads public, writes authenticated)
	postGroup := v1.Group("/posts")
	postGroup.GET("", h.posts.ListPosts)
	postGroup.GET("/:id", h.posts.GetPost)
	postGroup.POST("", h.posts.CreatePost, auth)
	postGroup.PUT("/:id", h.posts.UpdatePost, auth)
	postGroup.DELETE("/:id", h.posts.DeletePost, auth)
	postGroup.PUT("/:id/like", h.posts.ToggleLike, auth)

	// Article routes
	articleGroup := v1.Group("/articles")
	articleGroup.GET("", h.articles.ListArticles)
	articleGroup.GET("/:id", h.articles.GetArticle)
	articleGroup.POST("", h.articles.CreateArticle, auth)
	articleGroup.PUT("/:id", h.articles.UpdateArticle, auth)
	articleGroup.DELETE("/:id", h.articles.DeleteArticle, auth)
	articleGroup.PUT("/:id/like", h.articles.ToggleLike, auth)

	// Comment routes
	commentGroup := v1.Group("/comments")
	commentGroup.GET("/:parentId", h.comments.ListComments)
	commentGroup.POST("", h.comments.CreateComment, auth)
	commentGroup.PUT("/:id", h.comments.UpdateComment, auth)
	commentGroup.DELETE("/:id", h.comments.DeleteComment, auth)

	// Announcement routes
	announcementGroup := v1.Group("/announcements")
	announcementGroup.GET("", h.announcements.ListAnnouncements)
	announcementGroup.POST("", h.announcements.CreateAnnouncement, auth)
	announcementGroup.PUT("/:id", h.announcements.UpdateAnnouncement, auth)
	announcementGroup.DELETE("/:id", h.announcements.DeleteAnnouncement, auth)

	// Document routes
	documentGroup := v1.Group("/documents")
	documentGroup.GET("", h.documents.ListDocuments)
	documentGroup.GET("/:id", h.documents.GetDocument)
	documentGroup.POST("", h.documents.CreateDocument, auth)
	documentGroup.PUT("/:id", h.documents.UpdateDocument, auth)
	documentGroup.DELETE("/:id", h.documents.DeleteDocument, auth)

	// Notification routes (always authenticated)
	notificationGroup := v1.Group("/notifications", auth)
	notificationGroup.GET("", h.notifications.ListNotifications)
	notificationGroup.PUT("/:id/read", h.notifications.MarkRead)
	notificationGroup.PUT("/read-all", h.notifications.MarkAllRead)

	// Admin member routes (authenticated; founder rules live in the service)
	adminGroup := v1.Group("/admin-members", auth)
	adminGroup.GET("", h.admin.ListMembers)
	adminGroup.POST("", h.admin.AddMember)
	adminGroup.PUT("/:id", h.admin.UpdateMember)
	adminGroup.DELETE("/:id", h.admin.RemoveMember)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	switch s.config.Storage.Driver {
	case config.StorageDriverPostgres:
		if err := s.db.HealthCheck(); err != nil {
			status = "error"
			checks["database"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		} else {
			checks["database"] = map[string]interface{}{
				"status": "ok",
				"stats":  s.db.GetConnectionInfo(),
			}
		}
	case config.StorageDriverFile:
		checks["storage"] = map[string]interface{}{
			"status":   "ok",
			"data_dir": s.config.Storage.DataDir,
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if s.db != nil {
		if err := s.db.Ping(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": "database_not_ready",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) status(c echo.Context) error {
	return c.JSON(http.StatusOK, ports.StatusResponse{
		Status:    "ok",
		Version:   s.config.App.Version,
		Storage:   s.config.Storage.Driver,
		Timestamp: time.Now().UTC(),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")

	if err := s.echo.Shutdown(ctx); err != nil {
		return err
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
