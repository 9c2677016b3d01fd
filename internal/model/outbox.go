package model

import "time"

// NotificationOutbox 通知事件表。命令的写事务提交后入队，由 relayer 异步投递
type NotificationOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:64;not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (NotificationOutbox) TableName() string { return "notification_outbox" }
