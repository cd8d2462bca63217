package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/infrastructure/logger"
	"github.com/communityhub/core/internal/ports"
)

// NotificationService handles per-user notifications
type NotificationService struct {
	notificationRepo ports.NotificationRepository
	logger           *logger.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo ports.NotificationRepository, logger *logger.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Notify delivers a notification. Callers treat failure as non-fatal;
// the triggering action must not be rolled back over a missed ping.
func (s *NotificationService) Notify(ctx context.Context, n *entities.Notification) error {
	if n.UserID == uuid.Nil {
		return fmt.Errorf("%w: notification recipient is required", entities.ErrValidation)
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}

	s.logger.Debugw("Notification delivered", "notification_id", n.ID, "user_id", n.UserID, "type", n.Type)
	return nil
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]entities.Notification, error) {
	return s.notificationRepo.ListForUser(ctx, userID, unreadOnly)
}

// MarkRead marks a single notification read. Only the recipient may.
func (s *NotificationService) MarkRead(ctx context.Context, actorID, id uuid.UUID) error {
	n, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != actorID {
		return fmt.Errorf("%w: not the recipient", entities.ErrForbidden)
	}
	if n.Read {
		return nil
	}

	n.Read = true
	return s.notificationRepo.Update(ctx, n)
}

// MarkAllRead marks every unread notification for userID read and
// returns how many were affected.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
