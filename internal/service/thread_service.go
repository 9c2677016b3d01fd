package service

import (
	"context"

	"Hive_Community/internal/model"
	"Hive_Community/internal/pkg"
	"Hive_Community/internal/repository"
)

type ThreadService struct {
	store repository.Store
}

func NewThreadService(store repository.Store) *ThreadService {
	return &ThreadService{store: store}
}

// Create 只有频道成员能发帖
func (s *ThreadService) Create(ctx context.Context, actorID, channelID uint64, title, content string) (*model.Thread, error) {
	if title == "" {
		return nil, pkg.InvalidOperation("title required")
	}
	if _, err := s.store.GetChannel(ctx, channelID); err != nil {
		return nil, err
	}

	chPerms, err := s.store.GetChannelPermissions(ctx, channelID, actorID)
	if err != nil {
		return nil, err
	}
	if !chPerms.IsMember {
		return nil, pkg.Unauthorized("join the channel to post")
	}

	thread := &model.Thread{
		ChannelID: channelID,
		AuthorID:  actorID,
		Title:     title,
		Content:   content,
	}
	if err := s.store.CreateThread(ctx, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

// ListByChannel 游标分页：首页传 cursor=0，返回 next 供下一页使用
func (s *ThreadService) ListByChannel(ctx context.Context, channelID, cursor uint64, size int) ([]model.Thread, uint64, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	if _, err := s.store.GetChannel(ctx, channelID); err != nil {
		return nil, 0, err
	}
	return s.store.ListThreadsByChannel(ctx, channelID, cursor, size)
}

// Delete 作者或频道/社区 owner 可删，软删除
func (s *ThreadService) Delete(ctx context.Context, actorID, threadID uint64) error {
	thread, err := s.store.GetThread(ctx, threadID)
	if err != nil {
		return err
	}
	if thread.AuthorID != actorID {
		ch, err := s.store.GetChannel(ctx, thread.ChannelID)
		if err != nil {
			return err
		}
		chPerms, err := s.store.GetChannelPermissions(ctx, ch.ID, actorID)
		if err != nil {
			return err
		}
		coPerms, err := s.store.GetCommunityPermissions(ctx, ch.CommunityID, actorID)
		if err != nil {
			return err
		}
		if !chPerms.IsOwner && !coPerms.IsOwner {
			return pkg.Unauthorized("no permission to delete this thread")
		}
	}
	return s.store.SoftDeleteThread(ctx, threadID)
}
