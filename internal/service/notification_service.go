package service

import (
	"context"
	"encoding/json"
	"time"

	"Hive_Community/internal/model"
	"Hive_Community/internal/pkg"
	"Hive_Community/internal/repository"

	"github.com/sirupsen/logrus"
)

// OutboxDispatcher 把通知事件写进 outbox 表，由 relayer 异步投递。
// 入队失败只影响通知，不影响命令本身
type OutboxDispatcher struct {
	repo repository.OutboxStore
}

func NewOutboxDispatcher(repo repository.OutboxStore) *OutboxDispatcher {
	return &OutboxDispatcher{repo: repo}
}

func (d *OutboxDispatcher) Enqueue(ctx context.Context, event string, payload map[string]any) error {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["event_time"] = time.Now().UTC().Format(time.RFC3339Nano)
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return d.repo.CreateNotification(ctx, &model.NotificationOutbox{
		EventType: event,
		Payload:   string(raw),
		Status:    0,
	})
}

type Sender func(ctx context.Context, ob *model.NotificationOutbox) error

// OutboxRelayer outbox表相关服务
type OutboxRelayer struct {
	repo      repository.OutboxStore
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(repo repository.OutboxStore, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      repo,
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// 从数据库批量读取待投递事件，异步交给 sender
func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.ListPendingNotifications(ctx, r.batchSize)
	if err != nil {
		logrus.WithError(err).Warn("outbox query err")
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.MarkNotificationFailed(ctx, ob.ID)
			continue
		}
		_ = r.repo.MarkNotificationSent(ctx, ob.ID)
	}
}

// KafkaSender 把 outbox 事件投到 kafka，事件类型做分区键
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.NotificationOutbox) error {
		return producer.Send(ctx, ob.EventType, []byte(ob.Payload))
	}
}

// LogSender 默认 sender：kafka 未配置时只打日志
func LogSender(ctx context.Context, ob *model.NotificationOutbox) error {
	logrus.WithFields(logrus.Fields{
		"event":   ob.EventType,
		"payload": ob.Payload,
	}).Info("outbox send")
	return nil
}
