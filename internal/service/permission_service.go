package service

import (
	"context"

	"Hive_Community/internal/model"
	"Hive_Community/internal/pkg"
	"Hive_Community/internal/repository"
)

// PermissionService 根据存储的关系行计算用户的有效角色。
// 无副作用，可并发调用；实体不存在或已软删除时返回全 false（fail-closed）。
type PermissionService struct {
	store repository.Store
}

func NewPermissionService(store repository.Store) *PermissionService {
	return &PermissionService{store: store}
}

func (s *PermissionService) ResolveChannelPermissions(ctx context.Context, channelID, userID uint64) (model.ChannelPermissions, error) {
	var none model.ChannelPermissions
	if _, err := s.store.GetChannel(ctx, channelID); err != nil {
		if pkg.KindOf(err) == pkg.KindNotFound {
			return none, nil
		}
		return none, err
	}
	return s.store.GetChannelPermissions(ctx, channelID, userID)
}

func (s *PermissionService) ResolveCommunityPermissions(ctx context.Context, communityID, userID uint64) (model.CommunityPermissions, error) {
	var none model.CommunityPermissions
	if _, err := s.store.GetCommunity(ctx, communityID); err != nil {
		if pkg.KindOf(err) == pkg.KindNotFound {
			return none, nil
		}
		return none, err
	}
	return s.store.GetCommunityPermissions(ctx, communityID, userID)
}
