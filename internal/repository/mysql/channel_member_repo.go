package mysql

import (
	"context"
	"errors"
	"fmt"

	"Hive_Community/internal/model"
	"Hive_Community/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) GetChannelPermissions(ctx context.Context, channelID, userID uint64) (model.ChannelPermissions, error) {
	var m model.ChannelMember
	err := s.db.WithContext(ctx).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ChannelPermissions{}, nil
	}
	if err != nil {
		return model.ChannelPermissions{}, err
	}
	return model.ChannelPermissions{
		IsOwner:              m.IsOwner,
		IsMember:             m.Status == model.StatusMember,
		IsPending:            m.Status == model.StatusPending,
		IsBlocked:            m.Status == model.StatusBlocked,
		ReceiveNotifications: m.ReceiveNotifications,
	}, nil
}

// CreateMemberInChannel 幂等置为 Member。Blocked 行不动：解封必须走 unblock。
// select for update 避免并发重复计数
func (s *Store) CreateMemberInChannel(ctx context.Context, channelID, userID uint64) error {
	db := s.db.WithContext(ctx)
	var m model.ChannelMember
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		m = model.ChannelMember{
			ChannelID:            channelID,
			UserID:               userID,
			Status:               model.StatusMember,
			ReceiveNotifications: true,
		}
		if err := db.Create(&m).Error; err != nil {
			return err
		}
		return s.adjustMemberCount(db, channelID, +1)
	}
	if err != nil {
		return err
	}
	switch m.Status {
	case model.StatusMember, model.StatusBlocked:
		return nil
	}
	if err := db.Model(&model.ChannelMember{}).
		Where("id = ?", m.ID).
		Updates(map[string]any{"status": model.StatusMember, "receive_notifications": true}).Error; err != nil {
		return err
	}
	return s.adjustMemberCount(db, channelID, +1)
}

// CreateOwnerInChannel 置为 Member 并叠加 Owner 标记
func (s *Store) CreateOwnerInChannel(ctx context.Context, channelID, userID uint64) error {
	if err := s.CreateMemberInChannel(ctx, channelID, userID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&model.ChannelMember{}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Update("is_owner", true).Error
}

// CreateOrUpdatePendingInChannel 幂等写入申请行；已是成员或被拉黑时不动
func (s *Store) CreateOrUpdatePendingInChannel(ctx context.Context, channelID, userID uint64) error {
	db := s.db.WithContext(ctx)
	var m model.ChannelMember
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&model.ChannelMember{
			ChannelID:            channelID,
			UserID:               userID,
			Status:               model.StatusPending,
			ReceiveNotifications: true,
		}).Error
	}
	if err != nil {
		return err
	}
	// 已有行（Pending/Member/Blocked）保持原状
	return nil
}

// ApprovePendingInChannel 仅 Pending 可放行，避免重复授予
func (s *Store) ApprovePendingInChannel(ctx context.Context, channelID, userID uint64) error {
	db := s.db.WithContext(ctx)
	res := db.Model(&model.ChannelMember{}).
		Where("channel_id = ? AND user_id = ? AND status = ?", channelID, userID, model.StatusPending).
		Updates(map[string]any{"status": model.StatusMember, "receive_notifications": true})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("approve: user %d is not pending in channel %d", userID, channelID)
	}
	return s.adjustMemberCount(db, channelID, +1)
}

// ApprovePendingUsersInChannel 批量放行，返回受影响的用户ID
func (s *Store) ApprovePendingUsersInChannel(ctx context.Context, channelID uint64) ([]uint64, error) {
	db := s.db.WithContext(ctx)
	var userIDs []uint64
	if err := db.Model(&model.ChannelMember{}).
		Where("channel_id = ? AND status = ?", channelID, model.StatusPending).
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, nil
	}
	if err := db.Model(&model.ChannelMember{}).
		Where("channel_id = ? AND status = ?", channelID, model.StatusPending).
		Updates(map[string]any{"status": model.StatusMember, "receive_notifications": true}).Error; err != nil {
		return nil, err
	}
	if err := s.adjustMemberCount(db, channelID, int64(len(userIDs))); err != nil {
		return nil, err
	}
	return userIDs, nil
}

// BlockUserInChannel 拉黑。没有行时也写一条 Blocked 行作为显式拒绝记录
func (s *Store) BlockUserInChannel(ctx context.Context, channelID, userID uint64) error {
	db := s.db.WithContext(ctx)
	var m model.ChannelMember
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&model.ChannelMember{
			ChannelID: channelID,
			UserID:    userID,
			Status:    model.StatusBlocked,
		}).Error
	}
	if err != nil {
		return err
	}
	if m.Status == model.StatusBlocked {
		return nil
	}
	wasMember := m.Status == model.StatusMember
	if err := db.Model(&model.ChannelMember{}).
		Where("id = ?", m.ID).
		Updates(map[string]any{
			"status":                model.StatusBlocked,
			"is_owner":              false,
			"receive_notifications": false,
		}).Error; err != nil {
		return err
	}
	if wasMember {
		return s.adjustMemberCount(db, channelID, -1)
	}
	return nil
}

// UnblockUserInChannel 删除 Blocked 行，状态回到 None
func (s *Store) UnblockUserInChannel(ctx context.Context, channelID, userID uint64) error {
	return s.db.WithContext(ctx).
		Where("channel_id = ? AND user_id = ? AND status = ?", channelID, userID, model.StatusBlocked).
		Delete(&model.ChannelMember{}).Error
}

// RemoveMemberInChannel 删除关系行（幂等）
func (s *Store) RemoveMemberInChannel(ctx context.Context, channelID, userID uint64) error {
	db := s.db.WithContext(ctx)
	var m model.ChannelMember
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := db.Delete(&model.ChannelMember{}, m.ID).Error; err != nil {
		return err
	}
	if m.Status == model.StatusMember {
		return s.adjustMemberCount(db, channelID, -1)
	}
	return nil
}

// RemoveMembersInChannel 清空频道所有关系行，计数归零
func (s *Store) RemoveMembersInChannel(ctx context.Context, channelID uint64) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("channel_id = ?", channelID).
		Delete(&model.ChannelMember{}).Error; err != nil {
		return err
	}
	return db.Model(&model.Channel{}).Unscoped().
		Where("id = ?", channelID).
		UpdateColumn("member_count", 0).Error
}

// CreateMemberInDefaultChannels 自动订阅社区默认频道。
// 已有任何关系行（含 Pending/Blocked）的频道跳过，不会越过审批或拉黑
func (s *Store) CreateMemberInDefaultChannels(ctx context.Context, communityID, userID uint64) error {
	db := s.db.WithContext(ctx)
	defaults, err := s.DefaultChannels(ctx, communityID)
	if err != nil {
		return err
	}
	for _, ch := range defaults {
		var n int64
		if err := db.Model(&model.ChannelMember{}).
			Where("channel_id = ? AND user_id = ?", ch.ID, userID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if err := db.Create(&model.ChannelMember{
			ChannelID:            ch.ID,
			UserID:               userID,
			Status:               model.StatusMember,
			ReceiveNotifications: true,
		}).Error; err != nil {
			return err
		}
		if err := s.adjustMemberCount(db, ch.ID, +1); err != nil {
			return err
		}
	}
	return nil
}

// ToggleChannelNotifications 翻转通知开关，返回新值
func (s *Store) ToggleChannelNotifications(ctx context.Context, channelID, userID uint64) (bool, error) {
	db := s.db.WithContext(ctx)
	var m model.ChannelMember
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		First(&m).Error
	if err != nil {
		return false, notFound(err, "channel membership not found")
	}
	next := !m.ReceiveNotifications
	if err := db.Model(&model.ChannelMember{}).
		Where("id = ?", m.ID).
		Update("receive_notifications", next).Error; err != nil {
		return false, err
	}
	return next, nil
}

// 成员计数调整，防负数由 GREATEST 兜底
func (s *Store) adjustMemberCount(db *gorm.DB, channelID uint64, delta int64) error {
	return db.Model(&model.Channel{}).Unscoped().
		Where("id = ?", channelID).
		UpdateColumn("member_count", gorm.Expr("GREATEST(0, member_count + ?)", delta)).Error
}

// ChannelCounts 对账用批量查询
func (s *Store) ChannelCounts(ctx context.Context, batchSize int, lastID uint64) ([]repository.ChannelCount, uint64, error) {
	var list []repository.ChannelCount
	if err := s.db.WithContext(ctx).Model(&model.Channel{}).
		Select("id", "member_count").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

// RealMemberCount 真实成员数查询
func (s *Store) RealMemberCount(ctx context.Context, channelID uint64) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.ChannelMember{}).
		Where("channel_id = ? AND status = ?", channelID, model.StatusMember).
		Count(&n).Error
	return n, err
}

// SetMemberCount 修正成员计数
func (s *Store) SetMemberCount(ctx context.Context, channelID uint64, n int64) error {
	return s.db.WithContext(ctx).Model(&model.Channel{}).Unscoped().
		Where("id = ?", channelID).
		UpdateColumn("member_count", n).Error
}
