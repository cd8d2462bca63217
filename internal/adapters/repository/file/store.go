// Package file implements the repository ports on top of the flat-file
// JSON document store. One collection file per entity kind lives under
// the configured data directory.
package file

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/communityhub/core/internal/adapters/repository/jsonstore"
	"github.com/communityhub/core/internal/domain/entities"
)

// Store bundles every collection backed by one data directory.
type Store struct {
	dataDir string

	users         *jsonstore.Collection[entities.User]
	posts         *jsonstore.Collection[entities.Post]
	articles      *jsonstore.Collection[entities.Article]
	comments      *jsonstore.Collection[entities.Comment]
	likes         *jsonstore.Collection[entities.Like]
	announcements *jsonstore.Collection[entities.Announcement]
	notifications *jsonstore.Collection[entities.Notification]
	documents     *jsonstore.Collection[entities.Document]
	tokens        *jsonstore.Collection[entities.RefreshToken]
}

// New creates a store rooted at dataDir. Collection files are created
// lazily on first write.
func New(dataDir string) *Store {
	path := func(name string) string {
		return filepath.Join(dataDir, name+".json")
	}

	return &Store{
		dataDir: dataDir,
		users: jsonstore.NewVersioned(path("users"),
			func(u *entities.User) uuid.UUID { return u.ID },
			func(u *entities.User) int { return u.Version },
			func(u *entities.User, v int) { u.Version = v }),
		posts: jsonstore.NewVersioned(path("posts"),
			func(p *entities.Post) uuid.UUID { return p.ID },
			func(p *entities.Post) int { return p.Version },
			func(p *entities.Post, v int) { p.Version = v }),
		articles: jsonstore.NewVersioned(path("articles"),
			func(a *entities.Article) uuid.UUID { return a.ID },
			func(a *entities.Article) int { return a.Version },
			func(a *entities.Article, v int) { a.Version = v }),
		comments: jsonstore.NewVersioned(path("comments"),
			func(c *entities.Comment) uuid.UUID { return c.ID },
			func(c *entities.Comment) int { return c.Version },
			func(c *entities.Comment, v int) { c.Version = v }),
		likes: jsonstore.New(path("likes"),
			func(l *entities.Like) uuid.UUID { return l.ID }),
		announcements: jsonstore.NewVersioned(path("announcements"),
			func(a *entities.Announcement) uuid.UUID { return a.ID },
			func(a *entities.Announcement) int { return a.Version },
			func(a *entities.Announcement, v int) { a.Version = v }),
		notifications: jsonstore.New(path("notifications"),
			func(n *entities.Notification) uuid.UUID { return n.ID }),
		documents: jsonstore.NewVersioned(path("documents"),
			func(d *entities.Document) uuid.UUID { return d.ID },
			func(d *entities.Document) int { return d.Version },
			func(d *entities.Document, v int) { d.Version = v }),
		tokens: jsonstore.New(path("refresh_tokens"),
			func(t *entities.RefreshToken) uuid.UUID { return t.ID }),
	}
}

// Backup copies every collection file into a timestamped subdirectory
// of backupDir and returns the created directory.
func (s *Store) Backup(backupDir string) (string, error) {
	stamp := time.Now().UTC().Format("20060102-150405")
	return jsonstore.Backup(s.dataDir, backupDir, stamp)
}

// translate maps jsonstore errors onto the domain error taxonomy,
// substituting the entity-specific not-found error.
func translate(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jsonstore.ErrNotFound):
		return notFound
	case errors.Is(err, jsonstore.ErrDuplicateID):
		return entities.ErrDuplicateID
	case errors.Is(err, jsonstore.ErrVersionConflict):
		return entities.ErrVersionConflict
	default:
		return err
	}
}

func newestFirst(a, b time.Time) bool {
	return a.After(b)
}

func oldestFirst(a, b time.Time) bool {
	return a.Before(b)
}
