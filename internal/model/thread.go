package model

import (
	"time"

	"gorm.io/gorm"
)

type Thread struct {
	ID        uint64 `gorm:"primaryKey"`
	ChannelID uint64 `gorm:"not null;index:idx_channel_id_desc,priority:1"`
	AuthorID  uint64 `gorm:"not null;index"`
	Title     string `gorm:"size:200;not null"`
	Content   string `gorm:"type:text"`
	LikeCount int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type ThreadLike struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_thread_user,priority:2"`
	ThreadID  uint64 `gorm:"not null;uniqueIndex:uk_thread_user,priority:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ThreadLike) TableName() string {
	return "thread_likes"
}
