package service

import (
	"context"
	"testing"

	"Hive_Community/internal/model"
	"Hive_Community/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID    = uint64(1)
	aliceID    = uint64(100)
	bobID      = uint64(101)
	strangerID = uint64(102)
)

func newMembershipFixture() (*fakeStore, *fakeDispatcher, *MembershipService) {
	store := newFakeStore()
	dispatcher := &fakeDispatcher{}
	return store, dispatcher, NewMembershipService(store, dispatcher)
}

func TestToggleSubscriptionJoinPublicChannel(t *testing.T) {
	store, _, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	general := store.seedChannel(co.ID, "general", ownerID, false, true)
	dev := store.seedChannel(co.ID, "dev", ownerID, false, false)

	status, err := svc.ToggleSubscription(context.Background(), aliceID, dev.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusMember, status)

	// 首次加入公开频道会同时授予社区成员并自动订阅默认频道
	assert.True(t, store.isCommunityMember(co.ID, aliceID))
	assert.Equal(t, model.StatusMember, store.memberStatus(general.ID, aliceID))
}

func TestToggleSubscriptionJoinDoesNotRegrantCommunity(t *testing.T) {
	store, _, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	general := store.seedChannel(co.ID, "general", ownerID, false, true)
	dev := store.seedChannel(co.ID, "dev", ownerID, false, false)

	store.setCommunityMember(co.ID, aliceID, model.RoleMember)
	store.setMember(general.ID, aliceID, model.StatusMember)

	status, err := svc.ToggleSubscription(context.Background(), aliceID, dev.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusMember, status)
	assert.Equal(t, model.StatusMember, store.memberStatus(dev.ID, aliceID))
}

func TestToggleSubscriptionPrivateChannelCreatesPending(t *testing.T) {
	store, dispatcher, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	vip := store.seedChannel(co.ID, "vip", ownerID, true, false)

	status, err := svc.ToggleSubscription(context.Background(), aliceID, vip.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, status)
	assert.Equal(t, model.StatusPending, store.memberStatus(vip.ID, aliceID))

	// 申请不授予社区身份
	assert.False(t, store.isCommunityMember(co.ID, aliceID))
	assert.Equal(t, []string{EventJoinRequest}, dispatcher.Events())
}

func TestToggleSubscriptionCancelsPendingRequest(t *testing.T) {
	store, _, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	vip := store.seedChannel(co.ID, "vip", ownerID, true, false)
	store.setMember(vip.ID, aliceID, model.StatusPending)

	status, err := svc.ToggleSubscription(context.Background(), aliceID, vip.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNone, status)
	assert.Equal(t, model.StatusNone, store.memberStatus(vip.ID, aliceID))
}

func TestToggleSubscriptionLeaveLastChannelDropsCommunity(t *testing.T) {
	store, _, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	general := store.seedChannel(co.ID, "general", ownerID, false, true)
	store.setCommunityMember(co.ID, aliceID, model.RoleMember)
	store.setMember(general.ID, aliceID, model.StatusMember)

	status, err := svc.ToggleSubscription(context.Background(), aliceID, general.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNone, status)
	assert.False(t, store.isCommunityMember(co.ID, aliceID))
}

func TestToggleSubscriptionLeaveKeepsCommunityWhenInAnotherChannel(t *testing.T) {
	store, _, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	general := store.seedChannel(co.ID, "general", ownerID, false, true)
	dev := store.seedChannel(co.ID, "dev", ownerID, false, false)
	store.setCommunityMember(co.ID, aliceID, model.RoleMember)
	store.setMember(general.ID, aliceID, model.StatusMember)
	store.setMember(dev.ID, aliceID, model.StatusMember)

	_, err := svc.ToggleSubscription(context.Background(), aliceID, dev.ID)
	require.NoError(t, err)
	assert.True(t, store.isCommunityMember(co.ID, aliceID))
	assert.Equal(t, model.StatusMember, store.memberStatus(general.ID, aliceID))
}

func TestToggleSubscriptionBlockedUserRejected(t *testing.T) {
	store, _, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	dev := store.seedChannel(co.ID, "dev", ownerID, false, false)
	store.setMember(dev.ID, aliceID, model.StatusBlocked)

	_, err := svc.ToggleSubscription(context.Background(), aliceID, dev.ID)
	require.Error(t, err)
	assert.Equal(t, pkg.KindUnauthorized, pkg.KindOf(err))
	assert.Equal(t, model.StatusBlocked, store.memberStatus(dev.ID, aliceID))
}

func TestToggleSubscriptionOwnerCannotLeave(t *testing.T) {
	store, _, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	dev := store.seedChannel(co.ID, "dev", ownerID, false, false)

	_, err := svc.ToggleSubscription(context.Background(), ownerID, dev.ID)
	require.Error(t, err)
	assert.Equal(t, pkg.KindInvalidOperation, pkg.KindOf(err))
}

func TestToggleSubscriptionDeletedChannelNotFound(t *testing.T) {
	store, _, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	dev := store.seedChannel(co.ID, "dev", ownerID, false, false)
	require.NoError(t, store.SoftDeleteChannel(context.Background(), dev.ID))

	_, err := svc.ToggleSubscription(context.Background(), aliceID, dev.ID)
	require.Error(t, err)
	assert.Equal(t, pkg.KindNotFound, pkg.KindOf(err))
}

func TestApprovePendingUserGrantsCommunityAndDefaults(t *testing.T) {
	store, dispatcher, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	general := store.seedChannel(co.ID, "general", ownerID, false, true)
	vip := store.seedChannel(co.ID, "vip", ownerID, true, false)
	store.setMember(vip.ID, aliceID, model.StatusPending)

	err := svc.ApprovePendingUser(context.Background(), ownerID, vip.ID, aliceID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusMember, store.memberStatus(vip.ID, aliceID))
	assert.True(t, store.isCommunityMember(co.ID, aliceID))
	assert.Equal(t, model.StatusMember, store.memberStatus(general.ID, aliceID))
	assert.Equal(t, []string{EventRequestApproved}, dispatcher.Events())
}

func TestApproveByCommunityOwnerWithoutChannelRole(t *testing.T) {
	store, _, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	// bob 建的频道，社区 owner 不在频道里也能审批
	vip := store.seedChannel(co.ID, "vip", bobID, true, false)
	store.setMember(vip.ID, aliceID, model.StatusPending)

	err := svc.ApprovePendingUser(context.Background(), ownerID, vip.ID, aliceID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusMember, store.memberStatus(vip.ID, aliceID))
}

func TestApproveRequiresOwner(t *testing.T) {
	store, _, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	vip := store.seedChannel(co.ID, "vip", ownerID, true, false)
	store.setMember(vip.ID, aliceID, model.StatusPending)

	err := svc.ApprovePendingUser(context.Background(), strangerID, vip.ID, aliceID)
	require.Error(t, err)
	assert.Equal(t, pkg.KindUnauthorized, pkg.KindOf(err))
	assert.Equal(t, model.StatusPending, store.memberStatus(vip.ID, aliceID))
}

func TestApproveNonPendingUserInvalid(t *testing.T) {
	store, dispatcher, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	vip := store.seedChannel(co.ID, "vip", ownerID, true, false)
	store.setMember(vip.ID, aliceID, model.StatusMember)

	err := svc.ApprovePendingUser(context.Background(), ownerID, vip.ID, aliceID)
	require.Error(t, err)
	assert.Equal(t, pkg.KindInvalidOperation, pkg.KindOf(err))
	assert.Empty(t, dispatcher.Events())
}

func TestBlockPendingUser(t *testing.T) {
	store, _, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	vip := store.seedChannel(co.ID, "vip", ownerID, true, false)
	store.setMember(vip.ID, aliceID, model.StatusPending)

	err := svc.BlockPendingUser(context.Background(), ownerID, vip.ID, aliceID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBlocked, store.memberStatus(vip.ID, aliceID))

	// 被拉黑后开关订阅被拒绝
	_, err = svc.ToggleSubscription(context.Background(), aliceID, vip.ID)
	require.Error(t, err)
	assert.Equal(t, pkg.KindUnauthorized, pkg.KindOf(err))
}

func TestBlockNonPendingUserInvalid(t *testing.T) {
	store, _, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	vip := store.seedChannel(co.ID, "vip", ownerID, true, false)
	store.setMember(vip.ID, aliceID, model.StatusMember)

	err := svc.BlockPendingUser(context.Background(), ownerID, vip.ID, aliceID)
	require.Error(t, err)
	assert.Equal(t, pkg.KindInvalidOperation, pkg.KindOf(err))
}

func TestUnblockUserReturnsToNone(t *testing.T) {
	store, _, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	vip := store.seedChannel(co.ID, "vip", ownerID, true, false)
	store.setMember(vip.ID, aliceID, model.StatusBlocked)

	err := svc.UnblockUser(context.Background(), ownerID, vip.ID, aliceID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNone, store.memberStatus(vip.ID, aliceID))

	// 解除后可以重新发起申请
	status, err := svc.ToggleSubscription(context.Background(), aliceID, vip.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, status)
}

func TestUnblockNonBlockedUserInvalid(t *testing.T) {
	store, _, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	vip := store.seedChannel(co.ID, "vip", ownerID, true, false)
	store.setMember(vip.ID, aliceID, model.StatusPending)

	err := svc.UnblockUser(context.Background(), ownerID, vip.ID, aliceID)
	require.Error(t, err)
	assert.Equal(t, pkg.KindInvalidOperation, pkg.KindOf(err))
}

func TestToggleNotifications(t *testing.T) {
	store, _, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	dev := store.seedChannel(co.ID, "dev", ownerID, false, false)
	store.setMember(dev.ID, aliceID, model.StatusMember)

	on, err := svc.ToggleNotifications(context.Background(), aliceID, dev.ID)
	require.NoError(t, err)
	assert.False(t, on)

	on, err = svc.ToggleNotifications(context.Background(), aliceID, dev.ID)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestToggleNotificationsRequiresMembership(t *testing.T) {
	store, _, svc := newMembershipFixture()
	co := store.seedCommunity("hive", ownerID)
	dev := store.seedChannel(co.ID, "dev", ownerID, false, false)
	store.setMember(dev.ID, aliceID, model.StatusPending)

	_, err := svc.ToggleNotifications(context.Background(), aliceID, dev.ID)
	require.Error(t, err)
	assert.Equal(t, pkg.KindInvalidOperation, pkg.KindOf(err))
}
