package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleMember = 0
	RoleOwner  = 1
)

type Community struct {
	ID          uint64 `gorm:"primaryKey"`
	Slug        string `gorm:"uniqueIndex;size:64;not null"`
	Name        string `gorm:"size:64;not null"`
	Description string `gorm:"type:text"`
	CreatorID   uint64 `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

type CommunityMember struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	Role        int    `gorm:"not null;default:0"` // 0=member, 1=owner
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CommunityPermissions 用户在社区的有效角色，每次决策前重新读取，不做缓存
type CommunityPermissions struct {
	IsOwner  bool
	IsMember bool
}
