package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/ports"
)

func TestPostCreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "alice", false, false)

	created := env.seedPost(t, author, "hello")
	assert.Equal(t, "alice", created.Author.DisplayName)

	got, err := env.postSvc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Title)
	assert.Equal(t, author.ID, got.Author.ID)
	assert.Empty(t, got.Comments)
	assert.Zero(t, got.Likes)
}

func TestPostCreateRequiresContent(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "alice", false, false)

	_, err := env.postSvc.Create(context.Background(), author.ID, ports.CreatePostRequest{
		Title:   "  ",
		Content: "body",
	})
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestPostUpdateAuthorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "alice", false, false)
	stranger := env.seedUser(t, "bob", false, false)
	admin := env.seedUser(t, "carol", true, false)

	post := env.seedPost(t, author, "original")

	newTitle := "edited"
	_, err := env.postSvc.Update(ctx, stranger.ID, post.ID, ports.UpdatePostRequest{
		Title: &newTitle, Version: post.Post.Version,
	})
	assert.ErrorIs(t, err, entities.ErrForbidden)

	// the author may edit
	updated, err := env.postSvc.Update(ctx, author.ID, post.ID, ports.UpdatePostRequest{
		Title: &newTitle, Version: post.Post.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Title)

	// an admin may edit someone else's post
	adminTitle := "moderated"
	moderated, err := env.postSvc.Update(ctx, admin.ID, post.ID, ports.UpdatePostRequest{
		Title: &adminTitle, Version: updated.Post.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, "moderated", moderated.Title)
}

func TestPostUpdateStaleVersionConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "alice", false, false)

	post := env.seedPost(t, author, "v1")

	title := "second edit"
	_, err := env.postSvc.Update(ctx, author.ID, post.ID, ports.UpdatePostRequest{
		Title: &title, Version: post.Post.Version,
	})
	require.NoError(t, err)

	// a writer still holding the original version loses
	stale := "stale edit"
	_, err = env.postSvc.Update(ctx, author.ID, post.ID, ports.UpdatePostRequest{
		Title: &stale, Version: post.Post.Version,
	})
	assert.ErrorIs(t, err, entities.ErrVersionConflict)
}

func TestPostDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "alice", false, false)
	commenter := env.seedUser(t, "bob", false, false)

	post := env.seedPost(t, author, "doomed")

	_, err := env.commentSvc.Create(ctx, commenter.ID, ports.CreateCommentRequest{
		ParentID:   post.ID,
		ParentType: entities.ParentTypePost,
		Content:    "nice post",
	})
	require.NoError(t, err)

	_, err = env.postSvc.ToggleLike(ctx, commenter.ID, post.ID)
	require.NoError(t, err)

	require.NoError(t, env.postSvc.Delete(ctx, author.ID, post.ID))

	_, err = env.postSvc.Get(ctx, post.ID)
	assert.ErrorIs(t, err, entities.ErrPostNotFound)

	comments, err := env.comments.ListByParent(ctx, entities.ParentTypePost, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	likes, err := env.likes.CountByParent(ctx, entities.ParentTypePost, post.ID)
	require.NoError(t, err)
	assert.Zero(t, likes)
}

func TestPostDeleteForbiddenForStranger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "alice", false, false)
	stranger := env.seedUser(t, "bob", false, false)

	post := env.seedPost(t, author, "mine")

	err := env.postSvc.Delete(ctx, stranger.ID, post.ID)
	assert.ErrorIs(t, err, entities.ErrForbidden)

	// admins may delete anyone's post
	admin := env.seedUser(t, "carol", true, false)
	assert.NoError(t, env.postSvc.Delete(ctx, admin.ID, post.ID))
}

func TestPostToggleLikeInvolution(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "alice", false, false)
	liker := env.seedUser(t, "bob", false, false)

	post := env.seedPost(t, author, "likeable")

	first, err := env.postSvc.ToggleLike(ctx, liker.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Likes)
	assert.True(t, first.UserHasLiked)

	second, err := env.postSvc.ToggleLike(ctx, liker.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Likes)
	assert.False(t, second.UserHasLiked)
}

func TestPostListNewestFirstWithAuthors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "alice", false, false)

	for _, title := range []string{"one", "two", "three"} {
		env.seedPost(t, author, title)
	}

	page, err := env.postSvc.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.PageCount)
	assert.True(t, page.HasMore)
	assert.Len(t, page.Data, 2)
	for _, p := range page.Data {
		assert.Equal(t, "alice", p.Author.DisplayName)
	}
}

func TestInactiveActorRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	actor := env.seedUser(t, "alice", false, false)
	actor.IsActive = false
	require.NoError(t, env.users.Update(ctx, actor))

	_, err := env.postSvc.Create(ctx, actor.ID, ports.CreatePostRequest{
		Title: "blocked", Content: "blocked",
	})
	assert.ErrorIs(t, err, entities.ErrUnauthorized)
}
