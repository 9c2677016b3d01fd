package mysql

import (
	"context"
	"errors"

	"Hive_Community/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) GetCommunity(ctx context.Context, id uint64) (*model.Community, error) {
	var co model.Community
	if err := s.db.WithContext(ctx).First(&co, id).Error; err != nil {
		return nil, notFound(err, "community not found")
	}
	return &co, nil
}

func (s *Store) GetCommunityBySlug(ctx context.Context, slug string) (*model.Community, error) {
	var co model.Community
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&co).Error; err != nil {
		return nil, notFound(err, "community not found")
	}
	return &co, nil
}

func (s *Store) CreateCommunity(ctx context.Context, co *model.Community) error {
	return s.db.WithContext(ctx).Create(co).Error
}

func (s *Store) ListCommunities(ctx context.Context, offset, limit int) ([]model.Community, error) {
	var list []model.Community
	err := s.db.WithContext(ctx).Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (s *Store) SoftDeleteCommunity(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Community{}, id).Error
}

// UserIsMemberOfAnyChannelInCommunity 只数 Member 行，Pending/Blocked 不算；
// 已软删的频道同样不算
func (s *Store) UserIsMemberOfAnyChannelInCommunity(ctx context.Context, communityID, userID uint64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.ChannelMember{}).
		Joins("JOIN channels ON channels.id = channel_members.channel_id").
		Where("channels.community_id = ? AND channels.deleted_at IS NULL", communityID).
		Where("channel_members.user_id = ? AND channel_members.status = ?", userID, model.StatusMember).
		Count(&n).Error
	return n > 0, err
}

func (s *Store) GetCommunityPermissions(ctx context.Context, communityID, userID uint64) (model.CommunityPermissions, error) {
	var m model.CommunityMember
	err := s.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CommunityPermissions{}, nil
	}
	if err != nil {
		return model.CommunityPermissions{}, err
	}
	return model.CommunityPermissions{
		IsOwner:  m.Role == model.RoleOwner,
		IsMember: true,
	}, nil
}

// CreateCommunityMember 幂等插入：若已存在 (community_id, user_id) 则不报错
func (s *Store) CreateCommunityMember(ctx context.Context, communityID, userID uint64, role int) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&model.CommunityMember{
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
	}).Error
}

func (s *Store) RemoveCommunityMember(ctx context.Context, communityID, userID uint64) error {
	return s.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&model.CommunityMember{}).Error
}
