package mysql

import (
	"context"
	"errors"

	"Hive_Community/internal/model"

	"gorm.io/gorm"
)

type ThreadLikeRepository struct{}

// Like 唯一 (thread_id, user_id) 幂等插入，计数同事务更新
func (r *ThreadLikeRepository) Like(ctx context.Context, userID, threadID uint64) (bool, error) {
	var changed bool
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tl model.ThreadLike
		err := tx.
			Where("user_id = ? AND thread_id = ?", userID, threadID).
			First(&tl).Error
		if err == nil {
			// 已存在，幂等
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err = tx.Create(&model.ThreadLike{UserID: userID, ThreadID: threadID}).Error; err != nil {
			return err
		}
		changed = true
		return tx.Model(&model.Thread{}).
			Where("id = ?", threadID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
	return changed, err
}

func (r *ThreadLikeRepository) Unlike(ctx context.Context, userID, threadID uint64) (bool, error) {
	var changed bool
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND thread_id = ?", userID, threadID).
			Delete(&model.ThreadLike{})
		if res.Error != nil {
			return res.Error
		}
		// 未删除任何行 -> 幂等
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		// 计数-1，防负数由对账兜底
		return tx.Model(&model.Thread{}).
			Where("id = ?", threadID).
			UpdateColumn("like_count", gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).Error
	})
	return changed, err
}

func (r *ThreadLikeRepository) IsLiked(ctx context.Context, userID, threadID uint64) (bool, error) {
	var count int64
	err := DB.WithContext(ctx).
		Model(&model.ThreadLike{}).
		Where("user_id = ? AND thread_id = ?", userID, threadID).
		Count(&count).Error
	return count > 0, err
}

func (r *ThreadLikeRepository) GetLikeCount(ctx context.Context, threadID uint64) (int64, error) {
	var t model.Thread
	err := DB.WithContext(ctx).Select("id", "like_count").First(&t, threadID).Error
	if err != nil {
		return 0, err
	}
	return t.LikeCount, nil
}
