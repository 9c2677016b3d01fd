package service

import (
	"context"
	"fmt"
	"time"

	"Hive_Community/internal/pkg"
	"Hive_Community/internal/repository/mysql"
	"Hive_Community/internal/repository/redis"
)

type ThreadLikeService struct {
	repo      *mysql.ThreadLikeRepository
	likeCache *redis.LikeCacheRepository
	lock      *redis.DistLock
}

func NewThreadLikeService() *ThreadLikeService {
	return &ThreadLikeService{
		repo:      &mysql.ThreadLikeRepository{},
		likeCache: redis.NewLikeCacheRepository(),
		lock:      redis.NewDistLock(),
	}
}

// Like 先写库；缓存集合直接更新，计数在锁内强更新，拿不到锁就删计数Key交给读侧重建
func (s *ThreadLikeService) Like(ctx context.Context, userID, threadID uint64) (bool, error) {
	if userID == 0 || threadID == 0 {
		return false, pkg.InvalidOperation("invalid id")
	}

	changed, err := s.repo.Like(ctx, userID, threadID)
	if err != nil || !changed {
		// 幂等命中时惰性回填集合（不创建新集合）
		if err == nil {
			s.likeCache.WarmIsLiked(ctx, userID, threadID, true)
		}
		return changed, err
	}

	_ = s.likeCache.AddLike(ctx, userID, threadID)

	token := fmt.Sprintf("%d-%d-%d", userID, threadID, time.Now().UnixNano())
	got, _ := s.lock.Acquire(ctx, threadID, token)
	if got {
		defer s.lock.Release(ctx, threadID, token)
		cnt, err := s.repo.GetLikeCount(ctx, threadID)
		if err != nil {
			_ = s.likeCache.DeleteCount(ctx, threadID)
			return true, nil
		}
		_ = s.likeCache.SetLikeCount(ctx, threadID, cnt)
	} else {
		// 拿不到锁，删除计数Key避免并发冲突
		_ = s.likeCache.DeleteCount(ctx, threadID)
	}
	return true, nil
}

// Unlike 同样策略，先写库；计数用锁保护，失败则删除计数Key
func (s *ThreadLikeService) Unlike(ctx context.Context, userID, threadID uint64) (bool, error) {
	if userID == 0 || threadID == 0 {
		return false, pkg.InvalidOperation("invalid id")
	}
	changed, err := s.repo.Unlike(ctx, userID, threadID)
	if err != nil || !changed {
		if err == nil {
			s.likeCache.WarmIsLiked(ctx, userID, threadID, false)
		}
		return changed, err
	}

	_ = s.likeCache.RemoveLike(ctx, userID, threadID)

	token := fmt.Sprintf("%d-%d-%d", userID, threadID, time.Now().UnixNano())
	got, _ := s.lock.Acquire(ctx, threadID, token)
	if got {
		defer s.lock.Release(ctx, threadID, token)
	} else {
		_ = s.likeCache.DeleteCount(ctx, threadID)
	}
	return true, nil
}

func (s *ThreadLikeService) IsLiked(ctx context.Context, userID, threadID uint64) (bool, error) {
	if userID == 0 || threadID == 0 {
		return false, pkg.InvalidOperation("invalid id")
	}
	// 先查缓存集合（命中才用）
	if b, ok, err := s.likeCache.IsLikedCached(ctx, userID, threadID); err == nil && ok {
		return b, nil
	}
	// 回源 MySQL
	b, err := s.repo.IsLiked(ctx, userID, threadID)
	if err == nil {
		s.likeCache.WarmIsLiked(ctx, userID, threadID, b)
	}
	return b, err
}

// GetCountWithLock 缓存miss时用分布式锁收敛回源，避免全体打DB
func (s *ThreadLikeService) GetCountWithLock(ctx context.Context, userID, threadID uint64) (int64, error) {
	if v, ok, err := s.likeCache.GetLikeCountCached(ctx, threadID); err == nil && ok {
		return v, nil
	}
	token := fmt.Sprintf("%d-%d-%d", userID, threadID, time.Now().UnixNano())
	got, _ := s.lock.Acquire(ctx, threadID, token)

	if got {
		defer s.lock.Release(ctx, threadID, token)

		// 拿锁后二次检查
		if v, ok, err := s.likeCache.GetLikeCountCached(ctx, threadID); err == nil && ok {
			return v, nil
		}

		v, err := s.repo.GetLikeCount(ctx, threadID)
		if err != nil {
			return 0, err
		}

		_ = s.likeCache.SetLikeCount(ctx, threadID, v)
		return v, nil
	}

	// 没拿到锁，短暂退避后再读一次缓存
	time.Sleep(50 * time.Millisecond)
	if v, ok, err := s.likeCache.GetLikeCountCached(ctx, threadID); err == nil && ok {
		return v, nil
	}

	return s.repo.GetLikeCount(ctx, threadID)
}
