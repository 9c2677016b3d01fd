package service

import (
	"context"

	"Hive_Community/internal/model"
	"Hive_Community/internal/pkg"
	"Hive_Community/internal/repository"
)

type CommunityService struct {
	store repository.Store
}

func NewCommunityService(store repository.Store) *CommunityService {
	return &CommunityService{store: store}
}

type CreateCommunityInput struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create 建社区。创建者成为社区 owner，并自动建一个公开的默认 general 频道
func (s *CommunityService) Create(ctx context.Context, actorID uint64, in CreateCommunityInput) (*model.Community, error) {
	if in.Name == "" {
		return nil, pkg.InvalidOperation("community name required")
	}
	if err := pkg.ValidateSlug(in.Slug); err != nil {
		return nil, pkg.Conflict("community slug is invalid or reserved")
	}
	if _, err := s.store.GetCommunityBySlug(ctx, in.Slug); err == nil {
		return nil, pkg.Conflict("community slug already taken")
	} else if pkg.KindOf(err) != pkg.KindNotFound {
		return nil, err
	}

	co := &model.Community{
		Slug:        in.Slug,
		Name:        in.Name,
		Description: in.Description,
		CreatorID:   actorID,
	}
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.CreateCommunity(ctx, co); err != nil {
			return err
		}
		if err := tx.CreateCommunityMember(ctx, co.ID, actorID, model.RoleOwner); err != nil {
			return err
		}
		general := &model.Channel{
			CommunityID: co.ID,
			Slug:        "general",
			Name:        "General",
			Description: "General chatter",
			IsDefault:   true,
		}
		return tx.CreateChannel(ctx, general, actorID)
	})
	if err != nil {
		return nil, err
	}
	return co, nil
}

func (s *CommunityService) List(ctx context.Context, page, size int) ([]model.Community, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}

	offset := (page - 1) * size
	return s.store.ListCommunities(ctx, offset, size)
}

// Delete 仅社区 owner 可删，软删除
func (s *CommunityService) Delete(ctx context.Context, actorID, communityID uint64) error {
	if _, err := s.store.GetCommunity(ctx, communityID); err != nil {
		return err
	}
	coPerms, err := s.store.GetCommunityPermissions(ctx, communityID, actorID)
	if err != nil {
		return err
	}
	if !coPerms.IsOwner {
		return pkg.Unauthorized("only community owners can delete the community")
	}
	return s.store.SoftDeleteCommunity(ctx, communityID)
}
