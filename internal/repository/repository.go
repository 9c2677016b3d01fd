// Package repository 定义核心服务消费的存储网关契约，mysql 子包是默认实现。
// 状态机只持有转换规则，当前状态以网关为准，每次决策前重新读取。
package repository

import (
	"context"

	"Hive_Community/internal/model"
)

// Store 存储网关。级联写必须包在 InTx 里，由网关保证整体生效或整体回滚。
// 各实现对重复写要求幂等（同一命令重放不会重复建成员关系）。
// 读接口找不到实体时返回 pkg.NotFound 领域错误，软删除的行视为不存在。
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	// 频道
	GetChannel(ctx context.Context, id uint64) (*model.Channel, error)
	GetChannelBySlug(ctx context.Context, communityID uint64, slug string) (*model.Channel, error)
	CreateChannel(ctx context.Context, ch *model.Channel, ownerID uint64) error
	UpdateChannel(ctx context.Context, ch *model.Channel) error
	SoftDeleteChannel(ctx context.Context, id uint64) error
	DefaultChannels(ctx context.Context, communityID uint64) ([]model.Channel, error)

	// 社区与社区成员
	GetCommunity(ctx context.Context, id uint64) (*model.Community, error)
	GetCommunityBySlug(ctx context.Context, slug string) (*model.Community, error)
	CreateCommunity(ctx context.Context, co *model.Community) error
	ListCommunities(ctx context.Context, offset, limit int) ([]model.Community, error)
	SoftDeleteCommunity(ctx context.Context, id uint64) error
	UserIsMemberOfAnyChannelInCommunity(ctx context.Context, communityID, userID uint64) (bool, error)
	GetCommunityPermissions(ctx context.Context, communityID, userID uint64) (model.CommunityPermissions, error)
	CreateCommunityMember(ctx context.Context, communityID, userID uint64, role int) error
	RemoveCommunityMember(ctx context.Context, communityID, userID uint64) error

	// 频道成员
	GetChannelPermissions(ctx context.Context, channelID, userID uint64) (model.ChannelPermissions, error)
	CreateMemberInChannel(ctx context.Context, channelID, userID uint64) error
	CreateOwnerInChannel(ctx context.Context, channelID, userID uint64) error
	CreateOrUpdatePendingInChannel(ctx context.Context, channelID, userID uint64) error
	ApprovePendingInChannel(ctx context.Context, channelID, userID uint64) error
	ApprovePendingUsersInChannel(ctx context.Context, channelID uint64) ([]uint64, error)
	BlockUserInChannel(ctx context.Context, channelID, userID uint64) error
	UnblockUserInChannel(ctx context.Context, channelID, userID uint64) error
	RemoveMemberInChannel(ctx context.Context, channelID, userID uint64) error
	RemoveMembersInChannel(ctx context.Context, channelID uint64) error
	CreateMemberInDefaultChannels(ctx context.Context, communityID, userID uint64) error
	ToggleChannelNotifications(ctx context.Context, channelID, userID uint64) (bool, error)

	// 帖子
	CreateThread(ctx context.Context, t *model.Thread) error
	GetThread(ctx context.Context, id uint64) (*model.Thread, error)
	ListThreadsByChannel(ctx context.Context, channelID, cursor uint64, limit int) ([]model.Thread, uint64, error)
	ThreadsByChannelToDelete(ctx context.Context, channelID uint64) ([]model.Thread, error)
	SoftDeleteThread(ctx context.Context, id uint64) error
}

// Dispatcher 异步通知入队，fire-and-forget，核心不依赖投递结果
type Dispatcher interface {
	Enqueue(ctx context.Context, event string, payload map[string]any) error
}

// OutboxStore 通知 outbox 的读写，relayer 与 dispatcher 使用
type OutboxStore interface {
	CreateNotification(ctx context.Context, n *model.NotificationOutbox) error
	ListPendingNotifications(ctx context.Context, batchSize int) ([]model.NotificationOutbox, error)
	MarkNotificationSent(ctx context.Context, id uint64) error
	MarkNotificationFailed(ctx context.Context, id uint64) error
}

// ChannelCount 对账消息结构体
type ChannelCount struct {
	ID          uint64
	MemberCount int64
}

// CountStore 频道成员数对账用
type CountStore interface {
	ChannelCounts(ctx context.Context, batchSize int, lastID uint64) ([]ChannelCount, uint64, error)
	RealMemberCount(ctx context.Context, channelID uint64) (int64, error)
	SetMemberCount(ctx context.Context, channelID uint64, n int64) error
}
