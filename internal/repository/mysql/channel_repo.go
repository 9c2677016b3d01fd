package mysql

import (
	"context"

	"Hive_Community/internal/model"

	"gorm.io/gorm"
)

func (s *Store) GetChannel(ctx context.Context, id uint64) (*model.Channel, error) {
	var ch model.Channel
	if err := s.db.WithContext(ctx).First(&ch, id).Error; err != nil {
		return nil, notFound(err, "channel not found")
	}
	return &ch, nil
}

func (s *Store) GetChannelBySlug(ctx context.Context, communityID uint64, slug string) (*model.Channel, error) {
	var ch model.Channel
	err := s.db.WithContext(ctx).
		Where("community_id = ? AND slug = ?", communityID, slug).
		First(&ch).Error
	if err != nil {
		return nil, notFound(err, "channel not found")
	}
	return &ch, nil
}

// CreateChannel 频道行和创建者的 Owner+Member 行一起写入
func (s *Store) CreateChannel(ctx context.Context, ch *model.Channel, ownerID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ch.MemberCount = 1
		if err := tx.Create(ch).Error; err != nil {
			return err
		}
		owner := &model.ChannelMember{
			ChannelID:            ch.ID,
			UserID:               ownerID,
			Status:               model.StatusMember,
			IsOwner:              true,
			ReceiveNotifications: true,
		}
		return tx.Create(owner).Error
	})
}

func (s *Store) UpdateChannel(ctx context.Context, ch *model.Channel) error {
	return s.db.WithContext(ctx).Model(&model.Channel{}).
		Where("id = ?", ch.ID).
		Updates(map[string]any{
			"name":        ch.Name,
			"description": ch.Description,
			"is_private":  ch.IsPrivate,
			"is_default":  ch.IsDefault,
		}).Error
}

func (s *Store) SoftDeleteChannel(ctx context.Context, id uint64) error {
	// 幂等软删除：已删除也视为成功
	return s.db.WithContext(ctx).Delete(&model.Channel{}, id).Error
}

func (s *Store) DefaultChannels(ctx context.Context, communityID uint64) ([]model.Channel, error) {
	var list []model.Channel
	err := s.db.WithContext(ctx).
		Where("community_id = ? AND is_default = ?", communityID, true).
		Find(&list).Error
	return list, err
}
