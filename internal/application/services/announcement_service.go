package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/infrastructure/logger"
	"github.com/communityhub/core/internal/ports"
)

// AnnouncementService handles platform announcements
type AnnouncementService struct {
	announcementRepo ports.AnnouncementRepository
	userRepo         ports.UserRepository
	logger           *logger.Logger
}

// NewAnnouncementService creates a new announcement service
func NewAnnouncementService(announcementRepo ports.AnnouncementRepository, userRepo ports.UserRepository, logger *logger.Logger) *AnnouncementService {
	return &AnnouncementService{
		announcementRepo: announcementRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// Create publishes an announcement. Admin only; marking it important is
// reserved for founders.
func (s *AnnouncementService) Create(ctx context.Context, actorID uuid.UUID, req ports.AnnouncementRequest) (*entities.Announcement, error) {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanModerate() {
		return nil, fmt.Errorf("%w: admin privileges required", entities.ErrForbidden)
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", entities.ErrValidation)
	}

	important := req.Important != nil && *req.Important
	if important && !actor.CanManageAdmins() {
		return nil, fmt.Errorf("%w: only founders may mark announcements important", entities.ErrForbidden)
	}

	announcement := &entities.Announcement{
		ID:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		AuthorID:  actor.ID,
		Important: important,
		ExpiresAt: req.ExpiresAt,
		CreatedAt: time.Now(),
	}

	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, err
	}

	s.logger.Infow("Announcement created", "announcement_id", announcement.ID, "important", important)

	return announcement, nil
}

// Update modifies an announcement. Admin only; flipping the important
// flag is reserved for founders.
func (s *AnnouncementService) Update(ctx context.Context, actorID, id uuid.UUID, req ports.AnnouncementRequest) (*entities.Announcement, error) {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanModerate() {
		return nil, fmt.Errorf("%w: admin privileges required", entities.ErrForbidden)
	}

	announcement, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", entities.ErrValidation)
	}

	if req.Important != nil && *req.Important != announcement.Important {
		if !actor.CanManageAdmins() {
			return nil, fmt.Errorf("%w: only founders may change the important flag", entities.ErrForbidden)
		}
		announcement.Important = *req.Important
	}

	announcement.Title = req.Title
	announcement.Content = req.Content
	announcement.ExpiresAt = req.ExpiresAt
	if req.Version != 0 {
		announcement.Version = req.Version
	}

	if err := s.announcementRepo.Update(ctx, announcement); err != nil {
		return nil, err
	}

	return announcement, nil
}

// Delete removes an announcement. Admin only.
func (s *AnnouncementService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}
	if !actor.CanModerate() {
		return fmt.Errorf("%w: admin privileges required", entities.ErrForbidden)
	}

	if _, err := s.announcementRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.announcementRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Announcement deleted", "announcement_id", id, "actor_id", actorID)
	return nil
}

// ListActive returns announcements that have not expired, important ones
// first, newest first within each group.
func (s *AnnouncementService) ListActive(ctx context.Context) ([]entities.Announcement, error) {
	return s.announcementRepo.ListActive(ctx, time.Now())
}
