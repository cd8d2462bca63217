package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/infrastructure/config"
	"github.com/communityhub/core/internal/infrastructure/logger"
	"github.com/communityhub/core/internal/ports"
)

// DocumentService manages the shared document listing. Files themselves
// are hosted elsewhere; the service stores references.
type DocumentService struct {
	documentRepo ports.DocumentRepository
	userRepo     ports.UserRepository
	uploadCfg    config.UploadConfig
	logger       *logger.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(documentRepo ports.DocumentRepository, userRepo ports.UserRepository, uploadCfg config.UploadConfig, logger *logger.Logger) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		userRepo:     userRepo,
		uploadCfg:    uploadCfg,
		logger:       logger,
	}
}

// Create registers a document reference. Admin only.
func (s *DocumentService) Create(ctx context.Context, actorID uuid.UUID, req ports.DocumentRequest) (*entities.Document, error) {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanModerate() {
		return nil, fmt.Errorf("%w: admin privileges required", entities.ErrForbidden)
	}

	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	doc := &entities.Document{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		FileURL:     req.FileURL,
		FileType:    strings.ToLower(req.FileType),
		SizeBytes:   req.SizeBytes,
		AuthorID:    actor.ID,
		CreatedAt:   time.Now(),
	}

	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Infow("Document created", "document_id", doc.ID, "file_type", doc.FileType)

	return doc, nil
}

// Get returns a single document.
func (s *DocumentService) Get(ctx context.Context, id uuid.UUID) (*entities.Document, error) {
	return s.documentRepo.GetByID(ctx, id)
}

// Update modifies a document reference. Admin only.
func (s *DocumentService) Update(ctx context.Context, actorID, id uuid.UUID, req ports.DocumentRequest) (*entities.Document, error) {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanModerate() {
		return nil, fmt.Errorf("%w: admin privileges required", entities.ErrForbidden)
	}

	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	doc.Title = req.Title
	doc.Description = req.Description
	doc.FileURL = req.FileURL
	doc.FileType = strings.ToLower(req.FileType)
	doc.SizeBytes = req.SizeBytes
	if req.Version != 0 {
		doc.Version = req.Version
	}

	if err := s.documentRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// Delete removes a document reference. Admin only.
func (s *DocumentService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}
	if !actor.CanModerate() {
		return fmt.Errorf("%w: admin privileges required", entities.ErrForbidden)
	}

	if _, err := s.documentRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.documentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Document deleted", "document_id", id, "actor_id", actorID)
	return nil
}

// List returns a page of documents, newest first.
func (s *DocumentService) List(ctx context.Context, page, limit int) (*ports.Page[entities.Document], error) {
	return s.documentRepo.List(ctx, page, limit)
}

func (s *DocumentService) validateRequest(req ports.DocumentRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", entities.ErrValidation)
	}
	if strings.TrimSpace(req.FileURL) == "" {
		return fmt.Errorf("%w: file url is required", entities.ErrValidation)
	}
	if req.SizeBytes < 0 {
		return fmt.Errorf("%w: size cannot be negative", entities.ErrValidation)
	}
	if s.uploadCfg.MaxSize > 0 && req.SizeBytes > s.uploadCfg.MaxSize {
		return fmt.Errorf("%w: file exceeds the %d byte limit", entities.ErrValidation, s.uploadCfg.MaxSize)
	}
	if !s.typeAllowed(req.FileType) {
		return fmt.Errorf("%w: file type %q is not allowed", entities.ErrValidation, req.FileType)
	}
	return nil
}

func (s *DocumentService) typeAllowed(fileType string) bool {
	if s.uploadCfg.AllowedTypes == "" {
		return true
	}
	fileType = strings.ToLower(strings.TrimSpace(fileType))
	for _, allowed := range strings.Split(s.uploadCfg.AllowedTypes, ",") {
		if fileType == strings.ToLower(strings.TrimSpace(allowed)) {
			return true
		}
	}
	return false
}
