// Package cache provides a read-through author cache used to
// denormalize author display fields on listing endpoints without
// re-reading the user store once per record.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/coocood/freecache"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/ports"
)

// AuthorCache caches ports.Author blocks keyed by user id.
type AuthorCache struct {
	cache *freecache.Cache
	users ports.UserRepository
	ttl   time.Duration
}

// NewAuthorCache creates a cache of roughly sizeBytes with the given
// entry TTL.
func NewAuthorCache(users ports.UserRepository, sizeBytes int, ttl time.Duration) *AuthorCache {
	return &AuthorCache{
		cache: freecache.NewCache(sizeBytes),
		users: users,
		ttl:   ttl,
	}
}

// Get returns the author block for id, hitting the user repository only
// on a cache miss. A deleted user yields an empty display name rather
// than an error so listings never fail on dangling author ids.
func (c *AuthorCache) Get(ctx context.Context, id uuid.UUID) (ports.Author, error) {
	key := id[:]

	if data, err := c.cache.Get(key); err == nil {
		var author ports.Author
		if err := json.Unmarshal(data, &author); err == nil {
			return author, nil
		}
		// undecodable entry, fall through to reload
	}

	author := ports.Author{ID: id}
	user, err := c.users.GetByID(ctx, id)
	switch {
	case err == nil:
		author.DisplayName = user.DisplayName
		author.PhotoURL = user.PhotoURL
	case errors.Is(err, entities.ErrUserNotFound):
		// cache the tombstone too
	default:
		return author, err
	}

	if data, err := json.Marshal(author); err == nil {
		_ = c.cache.Set(key, data, int(c.ttl.Seconds()))
	}
	return author, nil
}

// Invalidate drops the cached entry for id. Called after profile
// updates so stale display names do not outlive the TTL.
func (c *AuthorCache) Invalidate(id uuid.UUID) {
	c.cache.Del(id[:])
}
