package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/ports"
)

func TestAddMemberRequiresFounder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedUser(t, "admin", true, false)
	candidate := env.seedUser(t, "candidate", false, false)

	_, err := env.adminSvc.AddMember(ctx, admin.ID, ports.AddAdminMemberRequest{
		UserID: candidate.ID, Role: "moderator",
	})
	assert.ErrorIs(t, err, entities.ErrForbidden)

	founder := env.seedUser(t, "founder", true, true)
	member, err := env.adminSvc.AddMember(ctx, founder.ID, ports.AddAdminMemberRequest{
		UserID: candidate.ID, Role: "moderator",
	})
	require.NoError(t, err)
	assert.True(t, member.IsAdmin)
	require.NotNil(t, member.Role)
	assert.Equal(t, "moderator", *member.Role)
	assert.Empty(t, member.PasswordHash)
}

func TestAddMemberAlreadyAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	founder := env.seedUser(t, "founder", true, true)
	admin := env.seedUser(t, "admin", true, false)

	_, err := env.adminSvc.AddMember(ctx, founder.ID, ports.AddAdminMemberRequest{
		UserID: admin.ID, Role: "moderator",
	})
	assert.ErrorIs(t, err, entities.ErrDuplicateID)
}

func TestRemoveMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	founder := env.seedUser(t, "founder", true, true)
	admin := env.seedUser(t, "admin", true, false)

	require.NoError(t, env.adminSvc.RemoveMember(ctx, founder.ID, admin.ID))

	demoted, err := env.users.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.False(t, demoted.IsAdmin)
	assert.Nil(t, demoted.Role)
	assert.True(t, demoted.IsActive) // demotion does not deactivate
}

func TestFoundersCannotBeRemoved(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	founder := env.seedUser(t, "founder", true, true)
	otherFounder := env.seedUser(t, "cofounder", true, true)

	err := env.adminSvc.RemoveMember(ctx, founder.ID, otherFounder.ID)
	assert.ErrorIs(t, err, entities.ErrFounderImmutable)

	err = env.adminSvc.RemoveMember(ctx, founder.ID, founder.ID)
	assert.ErrorIs(t, err, entities.ErrFounderImmutable)
}

func TestFounderFlagCannotBeRevoked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	founder := env.seedUser(t, "founder", true, true)
	otherFounder := env.seedUser(t, "cofounder", true, true)

	noFounder := false
	_, err := env.adminSvc.UpdateMember(ctx, founder.ID, otherFounder.ID, ports.UpdateAdminMemberRequest{
		IsFounder: &noFounder,
	})
	assert.ErrorIs(t, err, entities.ErrFounderImmutable)

	inactive := false
	_, err = env.adminSvc.UpdateMember(ctx, founder.ID, otherFounder.ID, ports.UpdateAdminMemberRequest{
		IsActive: &inactive,
	})
	assert.ErrorIs(t, err, entities.ErrFounderImmutable)
}

func TestFounderCanPromoteToFounder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	founder := env.seedUser(t, "founder", true, true)
	admin := env.seedUser(t, "admin", true, false)

	isFounder := true
	member, err := env.adminSvc.UpdateMember(ctx, founder.ID, admin.ID, ports.UpdateAdminMemberRequest{
		IsFounder: &isFounder,
	})
	require.NoError(t, err)
	assert.True(t, member.IsFounder)
}

func TestUpdateMemberProfileFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedUser(t, "admin", true, false)
	other := env.seedUser(t, "other", true, false)

	// any admin may edit profile fields, founder not required
	name := "Renamed Admin"
	role := "lead"
	member, err := env.adminSvc.UpdateMember(ctx, admin.ID, other.ID, ports.UpdateAdminMemberRequest{
		DisplayName: &name,
		Role:        &role,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Admin", member.DisplayName)
	require.NotNil(t, member.Role)
	assert.Equal(t, "lead", *member.Role)

	regular := env.seedUser(t, "regular", false, false)
	_, err = env.adminSvc.UpdateMember(ctx, regular.ID, other.ID, ports.UpdateAdminMemberRequest{
		DisplayName: &name,
	})
	assert.ErrorIs(t, err, entities.ErrForbidden)
}

func TestFounderFlagRequiresFounder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedUser(t, "admin", true, false)
	other := env.seedUser(t, "other", true, false)

	isFounder := true
	_, err := env.adminSvc.UpdateMember(ctx, admin.ID, other.ID, ports.UpdateAdminMemberRequest{
		IsFounder: &isFounder,
	})
	assert.ErrorIs(t, err, entities.ErrForbidden)
}

func TestListMembersReturnsOnlyAdmins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedUser(t, "founder", true, true)
	env.seedUser(t, "admin", true, false)
	env.seedUser(t, "regular", false, false)

	members, err := env.adminSvc.ListMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 2)
	for _, m := range members {
		assert.True(t, m.IsAdmin)
		assert.Empty(t, m.PasswordHash)
	}
}
