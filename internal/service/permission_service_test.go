package service

import (
	"context"
	"testing"

	"Hive_Community/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveChannelPermissions(t *testing.T) {
	store := newFakeStore()
	svc := NewPermissionService(store)
	co := store.seedCommunity("hive", ownerID)
	dev := store.seedChannel(co.ID, "dev", ownerID, false, false)
	store.setMember(dev.ID, aliceID, model.StatusMember)

	perms, err := svc.ResolveChannelPermissions(context.Background(), dev.ID, aliceID)
	require.NoError(t, err)
	assert.True(t, perms.IsMember)
	assert.False(t, perms.IsOwner)

	perms, err = svc.ResolveChannelPermissions(context.Background(), dev.ID, ownerID)
	require.NoError(t, err)
	assert.True(t, perms.IsOwner)
	assert.True(t, perms.IsMember)
}

func TestResolveChannelPermissionsNoRelation(t *testing.T) {
	store := newFakeStore()
	svc := NewPermissionService(store)
	co := store.seedCommunity("hive", ownerID)
	dev := store.seedChannel(co.ID, "dev", ownerID, false, false)

	perms, err := svc.ResolveChannelPermissions(context.Background(), dev.ID, strangerID)
	require.NoError(t, err)
	assert.Equal(t, model.ChannelPermissions{}, perms)
}

func TestResolveChannelPermissionsMissingChannelFailClosed(t *testing.T) {
	store := newFakeStore()
	svc := NewPermissionService(store)

	perms, err := svc.ResolveChannelPermissions(context.Background(), 9999, aliceID)
	require.NoError(t, err)
	assert.Equal(t, model.ChannelPermissions{}, perms)
}

func TestResolveChannelPermissionsDeletedChannelFailClosed(t *testing.T) {
	store := newFakeStore()
	svc := NewPermissionService(store)
	co := store.seedCommunity("hive", ownerID)
	dev := store.seedChannel(co.ID, "dev", ownerID, false, false)
	store.setMember(dev.ID, aliceID, model.StatusMember)
	require.NoError(t, store.SoftDeleteChannel(context.Background(), dev.ID))

	perms, err := svc.ResolveChannelPermissions(context.Background(), dev.ID, aliceID)
	require.NoError(t, err)
	assert.Equal(t, model.ChannelPermissions{}, perms)
}

func TestResolveCommunityPermissions(t *testing.T) {
	store := newFakeStore()
	svc := NewPermissionService(store)
	co := store.seedCommunity("hive", ownerID)
	store.setCommunityMember(co.ID, aliceID, model.RoleMember)

	perms, err := svc.ResolveCommunityPermissions(context.Background(), co.ID, ownerID)
	require.NoError(t, err)
	assert.True(t, perms.IsOwner)
	assert.True(t, perms.IsMember)

	perms, err = svc.ResolveCommunityPermissions(context.Background(), co.ID, aliceID)
	require.NoError(t, err)
	assert.False(t, perms.IsOwner)
	assert.True(t, perms.IsMember)
}

func TestResolveCommunityPermissionsDeletedCommunityFailClosed(t *testing.T) {
	store := newFakeStore()
	svc := NewPermissionService(store)
	co := store.seedCommunity("hive", ownerID)
	require.NoError(t, store.SoftDeleteCommunity(context.Background(), co.ID))

	perms, err := svc.ResolveCommunityPermissions(context.Background(), co.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, model.CommunityPermissions{}, perms)
}
