package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/ports"
)

func TestCommentCreateRequiresExistingParent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "alice", false, false)

	_, err := env.commentSvc.Create(ctx, user.ID, ports.CreateCommentRequest{
		ParentID:   user.ID, // not a post
		ParentType: entities.ParentTypePost,
		Content:    "orphan",
	})
	assert.ErrorIs(t, err, entities.ErrPostNotFound)

	_, err = env.commentSvc.Create(ctx, user.ID, ports.CreateCommentRequest{
		ParentID:   user.ID,
		ParentType: "page",
		Content:    "bad parent type",
	})
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestCommentListOldestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "alice", false, false)
	post := env.seedPost(t, author, "discussed")

	for _, body := range []string{"first", "second", "third"} {
		_, err := env.commentSvc.Create(ctx, author.ID, ports.CreateCommentRequest{
			ParentID:   post.ID,
			ParentType: entities.ParentTypePost,
			Content:    body,
		})
		require.NoError(t, err)
	}

	comments, err := env.commentSvc.ListByParent(ctx, entities.ParentTypePost, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "third", comments[2].Content)
	assert.Equal(t, "alice", comments[0].Author.DisplayName)
}

func TestCommentUpdateAuthorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "alice", false, false)
	stranger := env.seedUser(t, "bob", false, false)
	admin := env.seedUser(t, "carol", true, false)

	post := env.seedPost(t, author, "host post")
	comment, err := env.commentSvc.Create(ctx, author.ID, ports.CreateCommentRequest{
		ParentID:   post.ID,
		ParentType: entities.ParentTypePost,
		Content:    "original",
	})
	require.NoError(t, err)

	_, err = env.commentSvc.Update(ctx, stranger.ID, comment.ID, "hijacked")
	assert.ErrorIs(t, err, entities.ErrForbidden)

	edited, err := env.commentSvc.Update(ctx, author.ID, comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Content)
	assert.NotNil(t, edited.UpdatedAt)

	// admin may delete someone else's comment
	require.NoError(t, env.commentSvc.Delete(ctx, admin.ID, comment.ID))

	comments, err := env.commentSvc.ListByParent(ctx, entities.ParentTypePost, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCommentOnArticle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedUser(t, "editor", true, false)
	reader := env.seedUser(t, "reader", false, false)

	article := env.seedArticle(t, admin, "commented piece")

	comment, err := env.commentSvc.Create(ctx, reader.ID, ports.CreateCommentRequest{
		ParentID:   article.ID,
		ParentType: entities.ParentTypeArticle,
		Content:    "insightful",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.ParentTypeArticle, comment.ParentType)

	detail, err := env.articleSvc.Get(ctx, article.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "insightful", detail.Comments[0].Content)
}
