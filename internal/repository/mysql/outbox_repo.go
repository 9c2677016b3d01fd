package mysql

import (
	"context"

	"Hive_Community/internal/model"

	"gorm.io/gorm"
)

func (s *Store) CreateNotification(ctx context.Context, n *model.NotificationOutbox) error {
	return s.db.WithContext(ctx).Create(n).Error
}

// ListPendingNotifications outbox查询
func (s *Store) ListPendingNotifications(ctx context.Context, batchSize int) ([]model.NotificationOutbox, error) {
	var list []model.NotificationOutbox
	if err := s.db.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// MarkNotificationSent 投递成功记录更新
func (s *Store) MarkNotificationSent(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Model(&model.NotificationOutbox{}).
		Where("id = ?", id).
		Update("status", 1).Error
}

// MarkNotificationFailed 投递失败记录重试
func (s *Store) MarkNotificationFailed(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Model(&model.NotificationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}
