package file

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/ports"
)

// UserRepository is the file-backed ports.UserRepository.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new file-backed user repository.
func NewUserRepository(store *Store) ports.UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	existing, err := r.store.users.Find(func(u *entities.User) bool {
		return strings.EqualFold(u.Email, user.Email)
	})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return entities.ErrEmailTaken
	}
	return translate(r.store.users.Insert(user), entities.ErrUserNotFound)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := r.store.users.Get(id)
	if err != nil {
		return nil, translate(err, entities.ErrUserNotFound)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	matches, err := r.store.users.Find(func(u *entities.User) bool {
		return strings.EqualFold(u.Email, email)
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, entities.ErrUserNotFound
	}
	return &matches[0], nil
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	return translate(r.store.users.Update(user), entities.ErrUserNotFound)
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(r.store.users.Delete(id), entities.ErrUserNotFound)
}

func (r *UserRepository) List(ctx context.Context, filter ports.UserFilter) ([]*entities.User, error) {
	matches, err := r.store.users.Find(func(u *entities.User) bool {
		if filter.IsAdmin != nil && u.IsAdmin != *filter.IsAdmin {
			return false
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			return false
		}
		if filter.Search != nil {
			q := strings.ToLower(*filter.Search)
			if !strings.Contains(strings.ToLower(u.DisplayName), q) &&
				!strings.Contains(strings.ToLower(u.Email), q) {
				return false
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return newestFirst(matches[i].CreatedAt, matches[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matches) {
			matches = nil
		} else {
			matches = matches[filter.Offset:]
		}
	}
	if filter.Limit > 0 && filter.Limit < len(matches) {
		matches = matches[:filter.Limit]
	}

	out := make([]*entities.User, len(matches))
	for i := range matches {
		u := matches[i]
		out[i] = &u
	}
	return out, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	return r.store.users.Count(nil)
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	user, err := r.store.users.Get(id)
	if err != nil {
		return translate(err, entities.ErrUserNotFound)
	}
	user.LastLoginAt = &at
	return translate(r.store.users.Update(user), entities.ErrUserNotFound)
}
