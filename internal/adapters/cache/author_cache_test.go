package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityhub/core/internal/adapters/repository/file"
	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/ports"
)

func newCacheWithUser(t *testing.T) (*AuthorCache, ports.UserRepository, *entities.User) {
	t.Helper()

	users := file.NewUserRepository(file.New(t.TempDir()))
	user := &entities.User{
		ID:          uuid.New(),
		Email:       "author@example.com",
		DisplayName: "Original Name",
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, users.Create(context.Background(), user))

	return NewAuthorCache(users, 1024*1024, time.Minute), users, user
}

func TestGetReadThrough(t *testing.T) {
	cache, _, user := newCacheWithUser(t)

	author, err := cache.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, author.ID)
	assert.Equal(t, "Original Name", author.DisplayName)
}

func TestGetServesStaleUntilInvalidated(t *testing.T) {
	cache, users, user := newCacheWithUser(t)
	ctx := context.Background()

	_, err := cache.Get(ctx, user.ID)
	require.NoError(t, err)

	user.DisplayName = "New Name"
	require.NoError(t, users.Update(ctx, user))

	// still cached
	stale, err := cache.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original Name", stale.DisplayName)

	cache.Invalidate(user.ID)

	fresh, err := cache.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", fresh.DisplayName)
}

func TestGetUnknownUserYieldsTombstone(t *testing.T) {
	cache, _, _ := newCacheWithUser(t)

	ghost := uuid.New()
	author, err := cache.Get(context.Background(), ghost)
	require.NoError(t, err)
	assert.Equal(t, ghost, author.ID)
	assert.Empty(t, author.DisplayName)
}
