package model

import (
	"time"

	"gorm.io/gorm"
)

// MemberStatus 频道成员状态。None 不落行，行被删除即回到 None
type MemberStatus int8

const (
	StatusNone MemberStatus = iota
	StatusMember
	StatusPending
	StatusBlocked
)

func (s MemberStatus) String() string {
	switch s {
	case StatusMember:
		return "member"
	case StatusPending:
		return "pending"
	case StatusBlocked:
		return "blocked"
	default:
		return "none"
	}
}

type Channel struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_slug"`
	Slug        string `gorm:"size:64;not null;uniqueIndex:uk_community_slug"`
	Name        string `gorm:"size:64;not null"`
	Description string `gorm:"type:text"`
	IsPrivate   bool   `gorm:"not null;default:false"`
	IsDefault   bool   `gorm:"not null;default:false;index"` // 加入社区时自动订阅
	MemberCount int64  `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// ChannelMember (user, channel) 关系行。Status 三态互斥，IsOwner 叠加在 Member 之上
type ChannelMember struct {
	ID                   uint64       `gorm:"primaryKey"`
	ChannelID            uint64       `gorm:"not null;index;uniqueIndex:uk_channel_user"`
	UserID               uint64       `gorm:"not null;index;uniqueIndex:uk_channel_user"`
	Status               MemberStatus `gorm:"not null;default:1"`
	IsOwner              bool         `gorm:"not null;default:false"`
	ReceiveNotifications bool         `gorm:"not null;default:true"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ChannelPermissions 用户在频道的有效状态，实体已删除或不存在时全 false
type ChannelPermissions struct {
	IsOwner              bool
	IsMember             bool
	IsPending            bool
	IsBlocked            bool
	ReceiveNotifications bool
}
