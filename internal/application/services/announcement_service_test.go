package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/ports"
)

func TestAnnouncementCreateRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	regular := env.seedUser(t, "alice", false, false)
	_, err := env.announceSvc.Create(ctx, regular.ID, ports.AnnouncementRequest{
		Title: "nope", Content: "body",
	})
	assert.ErrorIs(t, err, entities.ErrForbidden)

	admin := env.seedUser(t, "bob", true, false)
	announcement, err := env.announceSvc.Create(ctx, admin.ID, ports.AnnouncementRequest{
		Title: "maintenance window", Content: "body",
	})
	require.NoError(t, err)
	assert.False(t, announcement.Important)
}

func TestImportantFlagIsFounderOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedUser(t, "admin", true, false)
	founder := env.seedUser(t, "founder", true, true)

	important := true

	_, err := env.announceSvc.Create(ctx, admin.ID, ports.AnnouncementRequest{
		Title: "urgent", Content: "body", Important: &important,
	})
	assert.ErrorIs(t, err, entities.ErrForbidden)

	announcement, err := env.announceSvc.Create(ctx, founder.ID, ports.AnnouncementRequest{
		Title: "urgent", Content: "body", Important: &important,
	})
	require.NoError(t, err)
	assert.True(t, announcement.Important)

	// a plain admin may edit the text but not flip the flag
	notImportant := false
	_, err = env.announceSvc.Update(ctx, admin.ID, announcement.ID, ports.AnnouncementRequest{
		Title: "urgent (edited)", Content: "body", Important: &notImportant, Version: announcement.Version,
	})
	assert.ErrorIs(t, err, entities.ErrForbidden)

	updated, err := env.announceSvc.Update(ctx, admin.ID, announcement.ID, ports.AnnouncementRequest{
		Title: "urgent (edited)", Content: "body", Important: &important, Version: announcement.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, "urgent (edited)", updated.Title)
	assert.True(t, updated.Important)
}

func TestListActiveFiltersExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin", true, false)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	_, err := env.announceSvc.Create(ctx, admin.ID, ports.AnnouncementRequest{
		Title: "expired", Content: "body", ExpiresAt: &past,
	})
	require.NoError(t, err)

	_, err = env.announceSvc.Create(ctx, admin.ID, ports.AnnouncementRequest{
		Title: "current", Content: "body", ExpiresAt: &future,
	})
	require.NoError(t, err)

	_, err = env.announceSvc.Create(ctx, admin.ID, ports.AnnouncementRequest{
		Title: "evergreen", Content: "body",
	})
	require.NoError(t, err)

	active, err := env.announceSvc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, a := range active {
		assert.NotEqual(t, "expired", a.Title)
	}
}

func TestListActiveImportantFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	founder := env.seedUser(t, "founder", true, true)

	important := true

	_, err := env.announceSvc.Create(ctx, founder.ID, ports.AnnouncementRequest{
		Title: "ordinary", Content: "body",
	})
	require.NoError(t, err)

	_, err = env.announceSvc.Create(ctx, founder.ID, ports.AnnouncementRequest{
		Title: "critical", Content: "body", Important: &important,
	})
	require.NoError(t, err)

	active, err := env.announceSvc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "critical", active[0].Title)
	assert.Equal(t, "ordinary", active[1].Title)
}

func TestAnnouncementDeleteRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedUser(t, "admin", true, false)
	regular := env.seedUser(t, "regular", false, false)

	announcement, err := env.announceSvc.Create(ctx, admin.ID, ports.AnnouncementRequest{
		Title: "to delete", Content: "body",
	})
	require.NoError(t, err)

	err = env.announceSvc.Delete(ctx, regular.ID, announcement.ID)
	assert.ErrorIs(t, err, entities.ErrForbidden)

	require.NoError(t, env.announceSvc.Delete(ctx, admin.ID, announcement.ID))

	active, err := env.announceSvc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}
