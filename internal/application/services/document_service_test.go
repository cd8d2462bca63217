package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/ports"
)

func TestDocumentCreateRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	regular := env.seedUser(t, "alice", false, false)
	req := ports.DocumentRequest{
		Title:     "handbook",
		FileURL:   "https://files.example.com/handbook.pdf",
		FileType:  "pdf",
		SizeBytes: 1024,
	}

	_, err := env.documentSvc.Create(ctx, regular.ID, req)
	assert.ErrorIs(t, err, entities.ErrForbidden)

	admin := env.seedUser(t, "bob", true, false)
	doc, err := env.documentSvc.Create(ctx, admin.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "pdf", doc.FileType)
	assert.Equal(t, admin.ID, doc.AuthorID)
}

func TestDocumentValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin", true, false)

	tests := []struct {
		name string
		req  ports.DocumentRequest
	}{
		{
			name: "disallowed file type",
			req: ports.DocumentRequest{
				Title: "script", FileURL: "https://x/e.sh", FileType: "sh", SizeBytes: 10,
			},
		},
		{
			name: "oversized file",
			req: ports.DocumentRequest{
				Title: "huge", FileURL: "https://x/huge.pdf", FileType: "pdf", SizeBytes: 100 * 1024 * 1024,
			},
		},
		{
			name: "missing title",
			req: ports.DocumentRequest{
				Title: " ", FileURL: "https://x/a.pdf", FileType: "pdf", SizeBytes: 10,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.documentSvc.Create(ctx, admin.ID, tt.req)
			assert.ErrorIs(t, err, entities.ErrValidation)
		})
	}
}

func TestDocumentFileTypeIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin", true, false)

	doc, err := env.documentSvc.Create(ctx, admin.ID, ports.DocumentRequest{
		Title: "report", FileURL: "https://x/r.PDF", FileType: "PDF", SizeBytes: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "pdf", doc.FileType)
}

func TestDocumentUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin", true, false)

	doc, err := env.documentSvc.Create(ctx, admin.ID, ports.DocumentRequest{
		Title: "v1", FileURL: "https://x/v1.pdf", FileType: "pdf", SizeBytes: 10,
	})
	require.NoError(t, err)

	updated, err := env.documentSvc.Update(ctx, admin.ID, doc.ID, ports.DocumentRequest{
		Title: "v2", FileURL: "https://x/v2.pdf", FileType: "pdf", SizeBytes: 20,
		Version: doc.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Title)
	assert.Greater(t, updated.Version, doc.Version)

	require.NoError(t, env.documentSvc.Delete(ctx, admin.ID, doc.ID))

	_, err = env.documentSvc.Get(ctx, doc.ID)
	assert.ErrorIs(t, err, entities.ErrDocumentNotFound)
}

func TestDocumentListPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin", true, false)

	for i := 0; i < 5; i++ {
		_, err := env.documentSvc.Create(ctx, admin.ID, ports.DocumentRequest{
			Title: "doc", FileURL: "https://x/d.pdf", FileType: "pdf", SizeBytes: 10,
		})
		require.NoError(t, err)
	}

	page, err := env.documentSvc.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.PageCount)
	assert.True(t, page.HasMore)
}
