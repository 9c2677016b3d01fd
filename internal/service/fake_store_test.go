package service

import (
	"context"
	"sync"

	"Hive_Community/internal/model"
	"Hive_Community/internal/pkg"
	"Hive_Community/internal/repository"
)

// 内存版 Store，语义对齐 mysql 实现：缺行即 None，软删行为通过 deleted 集合模拟
type fakeStore struct {
	mu sync.Mutex

	nextID uint64

	communities      map[uint64]*model.Community
	communityDeleted map[uint64]bool
	communityMembers map[[2]uint64]int // (communityID, userID) -> role

	channels       map[uint64]*model.Channel
	channelDeleted map[uint64]bool
	channelMembers map[[2]uint64]*model.ChannelMember // (channelID, userID)

	threads       map[uint64]*model.Thread
	threadDeleted map[uint64]bool
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []string
}

func (d *fakeDispatcher) Enqueue(_ context.Context, event string, _ map[string]any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *fakeDispatcher) Events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.events...)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		communities:      map[uint64]*model.Community{},
		communityDeleted: map[uint64]bool{},
		communityMembers: map[[2]uint64]int{},
		channels:         map[uint64]*model.Channel{},
		channelDeleted:   map[uint64]bool{},
		channelMembers:   map[[2]uint64]*model.ChannelMember{},
		threads:          map[uint64]*model.Thread{},
		threadDeleted:    map[uint64]bool{},
	}
}

func (f *fakeStore) id() uint64 {
	f.nextID++
	return f.nextID
}

// ---- 测试造数帮助方法 ----

func (f *fakeStore) seedCommunity(slug string, creatorID uint64) *model.Community {
	f.mu.Lock()
	defer f.mu.Unlock()
	co := &model.Community{ID: f.id(), Slug: slug, Name: slug, CreatorID: creatorID}
	f.communities[co.ID] = co
	f.communityMembers[[2]uint64{co.ID, creatorID}] = model.RoleOwner
	return co
}

func (f *fakeStore) seedChannel(communityID uint64, slug string, ownerID uint64, private, isDefault bool) *model.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := &model.Channel{ID: f.id(), CommunityID: communityID, Slug: slug, Name: slug, IsPrivate: private, IsDefault: isDefault, MemberCount: 1}
	f.channels[ch.ID] = ch
	f.channelMembers[[2]uint64{ch.ID, ownerID}] = &model.ChannelMember{
		ChannelID: ch.ID, UserID: ownerID, Status: model.StatusMember, IsOwner: true, ReceiveNotifications: true,
	}
	return ch
}

func (f *fakeStore) setMember(channelID, userID uint64, status model.MemberStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channelMembers[[2]uint64{channelID, userID}] = &model.ChannelMember{
		ChannelID: channelID, UserID: userID, Status: status, ReceiveNotifications: status == model.StatusMember,
	}
	if status == model.StatusMember {
		f.channels[channelID].MemberCount++
	}
}

func (f *fakeStore) setCommunityMember(communityID, userID uint64, role int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.communityMembers[[2]uint64{communityID, userID}] = role
}

func (f *fakeStore) memberStatus(channelID, userID uint64) model.MemberStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.channelMembers[[2]uint64{channelID, userID}]; ok {
		return m.Status
	}
	return model.StatusNone
}

func (f *fakeStore) isCommunityMember(communityID, userID uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.communityMembers[[2]uint64{communityID, userID}]
	return ok
}

// ---- repository.Store ----

func (f *fakeStore) InTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(f)
}

func (f *fakeStore) GetChannel(_ context.Context, id uint64) (*model.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[id]
	if !ok || f.channelDeleted[id] {
		return nil, pkg.NotFound("channel not found")
	}
	cp := *ch
	return &cp, nil
}

func (f *fakeStore) GetChannelBySlug(_ context.Context, communityID uint64, slug string) (*model.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, ch := range f.channels {
		if ch.CommunityID == communityID && ch.Slug == slug && !f.channelDeleted[id] {
			cp := *ch
			return &cp, nil
		}
	}
	return nil, pkg.NotFound("channel not found")
}

func (f *fakeStore) CreateChannel(_ context.Context, ch *model.Channel, ownerID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch.ID = f.id()
	ch.MemberCount = 1
	cp := *ch
	f.channels[ch.ID] = &cp
	f.channelMembers[[2]uint64{ch.ID, ownerID}] = &model.ChannelMember{
		ChannelID: ch.ID, UserID: ownerID, Status: model.StatusMember, IsOwner: true, ReceiveNotifications: true,
	}
	return nil
}

func (f *fakeStore) UpdateChannel(_ context.Context, ch *model.Channel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.channels[ch.ID]
	if !ok {
		return pkg.NotFound("channel not found")
	}
	cur.Name = ch.Name
	cur.Description = ch.Description
	cur.IsPrivate = ch.IsPrivate
	cur.IsDefault = ch.IsDefault
	return nil
}

func (f *fakeStore) SoftDeleteChannel(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channelDeleted[id] = true
	return nil
}

func (f *fakeStore) DefaultChannels(_ context.Context, communityID uint64) ([]model.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Channel
	for id, ch := range f.channels {
		if ch.CommunityID == communityID && ch.IsDefault && !f.channelDeleted[id] {
			out = append(out, *ch)
		}
	}
	return out, nil
}

func (f *fakeStore) GetCommunity(_ context.Context, id uint64) (*model.Community, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	co, ok := f.communities[id]
	if !ok || f.communityDeleted[id] {
		return nil, pkg.NotFound("community not found")
	}
	cp := *co
	return &cp, nil
}

func (f *fakeStore) GetCommunityBySlug(_ context.Context, slug string) (*model.Community, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, co := range f.communities {
		if co.Slug == slug && !f.communityDeleted[id] {
			cp := *co
			return &cp, nil
		}
	}
	return nil, pkg.NotFound("community not found")
}

func (f *fakeStore) CreateCommunity(_ context.Context, co *model.Community) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	co.ID = f.id()
	cp := *co
	f.communities[co.ID] = &cp
	return nil
}

func (f *fakeStore) ListCommunities(_ context.Context, offset, limit int) ([]model.Community, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Community
	for id, co := range f.communities {
		if !f.communityDeleted[id] {
			out = append(out, *co)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) SoftDeleteCommunity(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.communityDeleted[id] = true
	return nil
}

func (f *fakeStore) UserIsMemberOfAnyChannelInCommunity(_ context.Context, communityID, userID uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, m := range f.channelMembers {
		ch, ok := f.channels[key[0]]
		if !ok || f.channelDeleted[key[0]] {
			continue
		}
		if ch.CommunityID == communityID && key[1] == userID && m.Status == model.StatusMember {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) GetCommunityPermissions(_ context.Context, communityID, userID uint64) (model.CommunityPermissions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var perms model.CommunityPermissions
	if f.communityDeleted[communityID] {
		return perms, nil
	}
	role, ok := f.communityMembers[[2]uint64{communityID, userID}]
	if !ok {
		return perms, nil
	}
	perms.IsMember = true
	perms.IsOwner = role == model.RoleOwner
	return perms, nil
}

func (f *fakeStore) CreateCommunityMember(_ context.Context, communityID, userID uint64, role int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uint64{communityID, userID}
	if _, ok := f.communityMembers[key]; ok {
		return nil
	}
	f.communityMembers[key] = role
	return nil
}

func (f *fakeStore) RemoveCommunityMember(_ context.Context, communityID, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.communityMembers, [2]uint64{communityID, userID})
	return nil
}

func (f *fakeStore) GetChannelPermissions(_ context.Context, channelID, userID uint64) (model.ChannelPermissions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var perms model.ChannelPermissions
	if f.channelDeleted[channelID] {
		return perms, nil
	}
	m, ok := f.channelMembers[[2]uint64{channelID, userID}]
	if !ok {
		return perms, nil
	}
	perms.IsOwner = m.IsOwner
	perms.IsMember = m.Status == model.StatusMember
	perms.IsPending = m.Status == model.StatusPending
	perms.IsBlocked = m.Status == model.StatusBlocked
	perms.ReceiveNotifications = m.ReceiveNotifications
	return perms, nil
}

func (f *fakeStore) CreateMemberInChannel(_ context.Context, channelID, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uint64{channelID, userID}
	m, ok := f.channelMembers[key]
	if !ok {
		f.channelMembers[key] = &model.ChannelMember{
			ChannelID: channelID, UserID: userID, Status: model.StatusMember, ReceiveNotifications: true,
		}
		f.channels[channelID].MemberCount++
		return nil
	}
	switch m.Status {
	case model.StatusMember, model.StatusBlocked:
		return nil
	default:
		m.Status = model.StatusMember
		m.ReceiveNotifications = true
		f.channels[channelID].MemberCount++
		return nil
	}
}

func (f *fakeStore) CreateOwnerInChannel(ctx context.Context, channelID, userID uint64) error {
	if err := f.CreateMemberInChannel(ctx, channelID, userID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channelMembers[[2]uint64{channelID, userID}].IsOwner = true
	return nil
}

func (f *fakeStore) CreateOrUpdatePendingInChannel(_ context.Context, channelID, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uint64{channelID, userID}
	if _, ok := f.channelMembers[key]; ok {
		return nil
	}
	f.channelMembers[key] = &model.ChannelMember{ChannelID: channelID, UserID: userID, Status: model.StatusPending}
	return nil
}

func (f *fakeStore) ApprovePendingInChannel(_ context.Context, channelID, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.channelMembers[[2]uint64{channelID, userID}]
	if !ok || m.Status != model.StatusPending {
		return pkg.InvalidOperation("user is not pending in this channel")
	}
	m.Status = model.StatusMember
	m.ReceiveNotifications = true
	f.channels[channelID].MemberCount++
	return nil
}

func (f *fakeStore) ApprovePendingUsersInChannel(_ context.Context, channelID uint64) ([]uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint64
	for key, m := range f.channelMembers {
		if key[0] == channelID && m.Status == model.StatusPending {
			m.Status = model.StatusMember
			m.ReceiveNotifications = true
			f.channels[channelID].MemberCount++
			ids = append(ids, key[1])
		}
	}
	return ids, nil
}

func (f *fakeStore) BlockUserInChannel(_ context.Context, channelID, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uint64{channelID, userID}
	m, ok := f.channelMembers[key]
	if !ok {
		f.channelMembers[key] = &model.ChannelMember{ChannelID: channelID, UserID: userID, Status: model.StatusBlocked}
		return nil
	}
	if m.Status == model.StatusMember {
		f.channels[channelID].MemberCount--
	}
	m.Status = model.StatusBlocked
	m.IsOwner = false
	m.ReceiveNotifications = false
	return nil
}

func (f *fakeStore) UnblockUserInChannel(_ context.Context, channelID, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uint64{channelID, userID}
	if m, ok := f.channelMembers[key]; ok && m.Status == model.StatusBlocked {
		delete(f.channelMembers, key)
	}
	return nil
}

func (f *fakeStore) RemoveMemberInChannel(_ context.Context, channelID, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uint64{channelID, userID}
	m, ok := f.channelMembers[key]
	if !ok {
		return nil
	}
	if m.Status == model.StatusMember {
		f.channels[channelID].MemberCount--
	}
	delete(f.channelMembers, key)
	return nil
}

func (f *fakeStore) RemoveMembersInChannel(_ context.Context, channelID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.channelMembers {
		if key[0] == channelID {
			delete(f.channelMembers, key)
		}
	}
	if ch, ok := f.channels[channelID]; ok {
		ch.MemberCount = 0
	}
	return nil
}

func (f *fakeStore) CreateMemberInDefaultChannels(ctx context.Context, communityID, userID uint64) error {
	f.mu.Lock()
	var defaults []uint64
	for id, ch := range f.channels {
		if ch.CommunityID == communityID && ch.IsDefault && !f.channelDeleted[id] {
			if _, exists := f.channelMembers[[2]uint64{id, userID}]; !exists {
				defaults = append(defaults, id)
			}
		}
	}
	f.mu.Unlock()
	for _, id := range defaults {
		if err := f.CreateMemberInChannel(ctx, id, userID); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) ToggleChannelNotifications(_ context.Context, channelID, userID uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.channelMembers[[2]uint64{channelID, userID}]
	if !ok {
		return false, pkg.NotFound("membership not found")
	}
	m.ReceiveNotifications = !m.ReceiveNotifications
	return m.ReceiveNotifications, nil
}

func (f *fakeStore) CreateThread(_ context.Context, t *model.Thread) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = f.id()
	cp := *t
	f.threads[t.ID] = &cp
	return nil
}

func (f *fakeStore) GetThread(_ context.Context, id uint64) (*model.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.threads[id]
	if !ok || f.threadDeleted[id] {
		return nil, pkg.NotFound("thread not found")
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) ListThreadsByChannel(_ context.Context, channelID, cursor uint64, limit int) ([]model.Thread, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Thread
	for id, t := range f.threads {
		if t.ChannelID == channelID && !f.threadDeleted[id] {
			if cursor == 0 || id < cursor {
				out = append(out, *t)
			}
		}
	}
	return out, 0, nil
}

func (f *fakeStore) ThreadsByChannelToDelete(_ context.Context, channelID uint64) ([]model.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Thread
	for id, t := range f.threads {
		if t.ChannelID == channelID && !f.threadDeleted[id] {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeStore) SoftDeleteThread(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.threadDeleted[id] = true
	return nil
}
