package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/communityhub/core/internal/adapters/cache"
	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/infrastructure/logger"
	"github.com/communityhub/core/internal/ports"
)

// AdminService manages the admin member roster. Adding and removing
// members takes a founder; any admin may edit member profiles, but the
// founder flag stays with founders and founders themselves can never be
// demoted or deactivated.
type AdminService struct {
	userRepo ports.UserRepository
	authors  *cache.AuthorCache
	logger   *logger.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo ports.UserRepository, authors *cache.AuthorCache, logger *logger.Logger) *AdminService {
	return &AdminService{
		userRepo: userRepo,
		authors:  authors,
		logger:   logger,
	}
}

// ListMembers returns every admin account, password hashes stripped.
func (s *AdminService) ListMembers(ctx context.Context) ([]*entities.User, error) {
	isAdmin := true
	members, err := s.userRepo.List(ctx, ports.UserFilter{IsAdmin: &isAdmin})
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		m.PasswordHash = ""
	}
	return members, nil
}

// AddMember promotes an existing account to admin with the given role.
func (s *AdminService) AddMember(ctx context.Context, actorID uuid.UUID, req ports.AddAdminMemberRequest) (*entities.User, error) {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageAdmins() {
		return nil, fmt.Errorf("%w: founder privileges required", entities.ErrForbidden)
	}

	target, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if target.IsAdmin {
		return nil, fmt.Errorf("%w: user is already an admin member", entities.ErrDuplicateID)
	}

	target.IsAdmin = true
	target.Role = &req.Role
	now := time.Now()
	target.UpdatedAt = &now

	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}

	s.logger.Infow("Admin member added", "user_id", target.ID, "role", req.Role, "actor_id", actorID)

	target.PasswordHash = ""
	return target, nil
}

// UpdateMember edits an admin member's profile or status. Granting or
// revoking founder status stays with founders, and an existing founder's
// founder and active flags cannot be taken away.
func (s *AdminService) UpdateMember(ctx context.Context, actorID, targetID uuid.UUID, req ports.UpdateAdminMemberRequest) (*entities.User, error) {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanModerate() {
		return nil, fmt.Errorf("%w: admin privileges required", entities.ErrForbidden)
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !target.IsAdmin {
		return nil, fmt.Errorf("%w: user is not an admin member", entities.ErrUserNotFound)
	}

	if req.IsFounder != nil && *req.IsFounder != target.IsFounder {
		if !actor.CanManageAdmins() {
			return nil, fmt.Errorf("%w: founder privileges required", entities.ErrForbidden)
		}
		if target.IsFounder {
			return nil, entities.ErrFounderImmutable
		}
		target.IsFounder = *req.IsFounder
	}
	if req.IsActive != nil && *req.IsActive != target.IsActive {
		if target.IsFounder && !*req.IsActive {
			return nil, entities.ErrFounderImmutable
		}
		target.IsActive = *req.IsActive
	}
	if req.DisplayName != nil {
		target.DisplayName = *req.DisplayName
	}
	if req.PhotoURL != nil {
		target.PhotoURL = req.PhotoURL
	}
	if req.Role != nil {
		target.Role = req.Role
	}

	now := time.Now()
	target.UpdatedAt = &now

	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}

	// display fields may be cached on content listings
	s.authors.Invalidate(target.ID)

	s.logger.Infow("Admin member updated", "user_id", target.ID, "actor_id", actorID)

	target.PasswordHash = ""
	return target, nil
}

// RemoveMember demotes an admin member back to a regular account.
// Founders cannot be removed.
func (s *AdminService) RemoveMember(ctx context.Context, actorID, targetID uuid.UUID) error {
	actor, err := requireActor(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}
	if !actor.CanManageAdmins() {
		return fmt.Errorf("%w: founder privileges required", entities.ErrForbidden)
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !target.IsAdmin {
		return fmt.Errorf("%w: user is not an admin member", entities.ErrUserNotFound)
	}
	if target.IsFounder {
		return entities.ErrFounderImmutable
	}

	target.IsAdmin = false
	target.Role = nil
	now := time.Now()
	target.UpdatedAt = &now

	if err := s.userRepo.Update(ctx, target); err != nil {
		return err
	}

	s.logger.Infow("Admin member removed", "user_id", target.ID, "actor_id", actorID)
	return nil
}
