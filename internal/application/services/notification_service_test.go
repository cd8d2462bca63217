package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityhub/core/internal/domain/entities"
)

func notify(t *testing.T, env *testEnv, userID, actorID uuid.UUID, message string) *entities.Notification {
	t.Helper()

	n := &entities.Notification{
		UserID:   userID,
		ActorID:  actorID,
		Type:     entities.NotificationTypeCommented,
		Message:  message,
		TargetID: uuid.New(),
	}
	require.NoError(t, env.notifySvc.Notify(context.Background(), n))
	return n
}

func TestNotifyAssignsIDAndTimestamp(t *testing.T) {
	env := newTestEnv(t)
	recipient := env.seedUser(t, "alice", false, false)

	n := notify(t, env, recipient.ID, uuid.New(), "hello")
	assert.NotEqual(t, uuid.Nil, n.ID)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestNotifyRequiresRecipient(t *testing.T) {
	env := newTestEnv(t)

	err := env.notifySvc.Notify(context.Background(), &entities.Notification{
		Message: "to nobody",
	})
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestListForUserUnreadFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	recipient := env.seedUser(t, "alice", false, false)

	first := notify(t, env, recipient.ID, uuid.New(), "one")
	notify(t, env, recipient.ID, uuid.New(), "two")

	require.NoError(t, env.notifySvc.MarkRead(ctx, recipient.ID, first.ID))

	all, err := env.notifySvc.ListForUser(ctx, recipient.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	unread, err := env.notifySvc.ListForUser(ctx, recipient.ID, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "two", unread[0].Message)
}

func TestMarkReadOnlyByRecipient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	recipient := env.seedUser(t, "alice", false, false)
	other := env.seedUser(t, "bob", false, false)

	n := notify(t, env, recipient.ID, uuid.New(), "private")

	err := env.notifySvc.MarkRead(ctx, other.ID, n.ID)
	assert.ErrorIs(t, err, entities.ErrForbidden)

	require.NoError(t, env.notifySvc.MarkRead(ctx, recipient.ID, n.ID))
	// marking twice is a no-op
	require.NoError(t, env.notifySvc.MarkRead(ctx, recipient.ID, n.ID))
}

func TestMarkAllRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	recipient := env.seedUser(t, "alice", false, false)

	for i := 0; i < 3; i++ {
		notify(t, env, recipient.ID, uuid.New(), "ping")
	}

	count, err := env.notifySvc.MarkAllRead(ctx, recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	unread, err := env.notifySvc.ListForUser(ctx, recipient.ID, true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	// nothing left to mark
	count, err = env.notifySvc.MarkAllRead(ctx, recipient.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
