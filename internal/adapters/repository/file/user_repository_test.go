package file

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/ports"
)

func newUserRepo(t *testing.T) ports.UserRepository {
	t.Helper()
	return NewUserRepository(New(t.TempDir()))
}

func seedUser(t *testing.T, repo ports.UserRepository, email, name string, admin bool) *entities.User {
	t.Helper()

	user := &entities.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "x",
		DisplayName:  name,
		IsAdmin:      admin,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestCreateRejectsDuplicateEmailCaseInsensitive(t *testing.T) {
	repo := newUserRepo(t)
	seedUser(t, repo, "Someone@Example.com", "someone", false)

	dup := &entities.User{
		ID:          uuid.New(),
		Email:       "someone@example.com",
		DisplayName: "impostor",
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	err := repo.Create(context.Background(), dup)
	assert.ErrorIs(t, err, entities.ErrEmailTaken)
}

func TestGetByEmailCaseInsensitive(t *testing.T) {
	repo := newUserRepo(t)
	created := seedUser(t, repo, "Mixed@Case.com", "mixed", false)

	got, err := repo.GetByEmail(context.Background(), "mixed@case.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByEmail(context.Background(), "absent@case.com")
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
}

func TestListFilters(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	seedUser(t, repo, "admin@example.com", "Admin Annie", true)
	seedUser(t, repo, "user@example.com", "Regular Rob", false)
	inactive := seedUser(t, repo, "gone@example.com", "Gone Gil", false)
	inactive.IsActive = false
	require.NoError(t, repo.Update(ctx, inactive))

	isAdmin := true
	admins, err := repo.List(ctx, ports.UserFilter{IsAdmin: &isAdmin})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "Admin Annie", admins[0].DisplayName)

	active := true
	activeUsers, err := repo.List(ctx, ports.UserFilter{IsActive: &active})
	require.NoError(t, err)
	assert.Len(t, activeUsers, 2)

	search := "rob"
	found, err := repo.List(ctx, ports.UserFilter{Search: &search})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Regular Rob", found[0].DisplayName)
}

func TestUpdateLastLoginPreservesVersioning(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	user := seedUser(t, repo, "login@example.com", "login", false)
	at := time.Now()
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.WithinDuration(t, at, *got.LastLoginAt, time.Second)
	assert.Greater(t, got.Version, user.Version)
}

func TestUpdateStaleVersionConflicts(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	user := seedUser(t, repo, "conflict@example.com", "conflict", false)

	copy1, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	copy2, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)

	copy1.DisplayName = "winner"
	require.NoError(t, repo.Update(ctx, copy1))

	copy2.DisplayName = "loser"
	err = repo.Update(ctx, copy2)
	assert.ErrorIs(t, err, entities.ErrVersionConflict)
}
