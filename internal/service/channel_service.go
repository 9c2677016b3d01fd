package service

import (
	"context"

	"Hive_Community/internal/model"
	"Hive_Community/internal/pkg"
	"Hive_Community/internal/repository"

	"golang.org/x/sync/errgroup"
)

// ChannelService 频道生命周期管理：创建/编辑/删除及其级联
type ChannelService struct {
	store repository.Store
}

func NewChannelService(store repository.Store) *ChannelService {
	return &ChannelService{store: store}
}

type CreateChannelInput struct {
	CommunityID uint64 `json:"community_id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
	IsDefault   bool   `json:"is_default"`
}

type EditChannelInput struct {
	ChannelID   uint64  `json:"-"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPrivate   *bool   `json:"is_private"`
	IsDefault   *bool   `json:"is_default"`
}

// Create 仅社区 owner 可建频道；slug 不可为保留字且社区内唯一。
// 创建者同时获得频道 Owner+Member 身份，与频道行一起原子写入
func (s *ChannelService) Create(ctx context.Context, actorID uint64, in CreateChannelInput) (*model.Channel, error) {
	if _, err := s.store.GetCommunity(ctx, in.CommunityID); err != nil {
		return nil, err
	}

	coPerms, err := s.store.GetCommunityPermissions(ctx, in.CommunityID, actorID)
	if err != nil {
		return nil, err
	}
	if !coPerms.IsOwner {
		return nil, pkg.Unauthorized("only community owners can create channels")
	}

	if err := pkg.ValidateSlug(in.Slug); err != nil {
		return nil, pkg.Conflict("channel slug is invalid or reserved")
	}
	if _, err := s.store.GetChannelBySlug(ctx, in.CommunityID, in.Slug); err == nil {
		return nil, pkg.Conflict("channel slug already taken in this community")
	} else if pkg.KindOf(err) != pkg.KindNotFound {
		return nil, err
	}

	ch := &model.Channel{
		CommunityID: in.CommunityID,
		Slug:        in.Slug,
		Name:        in.Name,
		Description: in.Description,
		IsPrivate:   in.IsPrivate,
		IsDefault:   in.IsDefault,
	}
	if err := s.store.CreateChannel(ctx, ch, actorID); err != nil {
		return nil, err
	}
	return ch, nil
}

// Edit 频道 owner 或社区 owner 可编辑。
// 私有改公开时批量放行全部 Pending 用户（不发单独通知），缺社区身份的一并授予
func (s *ChannelService) Edit(ctx context.Context, actorID uint64, in EditChannelInput) (*model.Channel, error) {
	ch, err := s.store.GetChannel(ctx, in.ChannelID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, ch, actorID); err != nil {
		return nil, err
	}

	wasPrivate := ch.IsPrivate
	if in.Name != nil {
		ch.Name = *in.Name
	}
	if in.Description != nil {
		ch.Description = *in.Description
	}
	if in.IsPrivate != nil {
		ch.IsPrivate = *in.IsPrivate
	}
	if in.IsDefault != nil {
		ch.IsDefault = *in.IsDefault
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.UpdateChannel(ctx, ch); err != nil {
			return err
		}
		if wasPrivate && !ch.IsPrivate {
			userIDs, err := tx.ApprovePendingUsersInChannel(ctx, ch.ID)
			if err != nil {
				return err
			}
			for _, uid := range userIDs {
				coPerms, err := tx.GetCommunityPermissions(ctx, ch.CommunityID, uid)
				if err != nil {
					return err
				}
				if coPerms.IsMember || coPerms.IsOwner {
					continue
				}
				if err := tx.CreateCommunityMember(ctx, ch.CommunityID, uid, model.RoleMember); err != nil {
					return err
				}
				if err := tx.CreateMemberInDefaultChannels(ctx, ch.CommunityID, uid); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// Delete 软删频道 + 清空全部成员关系 + 软删频道下所有帖子，三件事一个事务
func (s *ChannelService) Delete(ctx context.Context, actorID, channelID uint64) error {
	ch, err := s.store.GetChannel(ctx, channelID)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, ch, actorID); err != nil {
		return err
	}

	return s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.SoftDeleteChannel(ctx, channelID); err != nil {
			return err
		}
		if err := tx.RemoveMembersInChannel(ctx, channelID); err != nil {
			return err
		}
		threads, err := tx.ThreadsByChannelToDelete(ctx, channelID)
		if err != nil {
			return err
		}
		for _, t := range threads {
			if err := tx.SoftDeleteThread(ctx, t.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ChannelService) requireOwner(ctx context.Context, ch *model.Channel, actorID uint64) error {
	var (
		chPerms model.ChannelPermissions
		coPerms model.CommunityPermissions
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		chPerms, err = s.store.GetChannelPermissions(gctx, ch.ID, actorID)
		return err
	})
	g.Go(func() error {
		var err error
		coPerms, err = s.store.GetCommunityPermissions(gctx, ch.CommunityID, actorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if !chPerms.IsOwner && !coPerms.IsOwner {
		return pkg.Unauthorized("only channel or community owners can manage this channel")
	}
	return nil
}
