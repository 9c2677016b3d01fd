package mysql

import (
	"context"

	"Hive_Community/internal/model"
)

func (s *Store) CreateThread(ctx context.Context, t *model.Thread) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *Store) GetThread(ctx context.Context, id uint64) (*model.Thread, error) {
	var t model.Thread
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, notFound(err, "thread not found")
	}
	return &t, nil
}

// ListThreadsByChannel 游标分页，limit+1 探测下一页
func (s *Store) ListThreadsByChannel(ctx context.Context, channelID, cursor uint64, limit int) ([]model.Thread, uint64, error) {
	q := s.db.WithContext(ctx).Model(&model.Thread{}).
		Where("channel_id = ?", channelID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.Thread
	if err := q.Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}

func (s *Store) ThreadsByChannelToDelete(ctx context.Context, channelID uint64) ([]model.Thread, error) {
	var list []model.Thread
	err := s.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Find(&list).Error
	return list, err
}

func (s *Store) SoftDeleteThread(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Thread{}, id).Error
}
