package mysql

import (
	"context"
	"errors"

	"Hive_Community/internal/pkg"
	"Hive_Community/internal/repository"

	"gorm.io/gorm"
)

// Store repository.Store 的 gorm 实现。
// InTx 里回调拿到的是绑定事务的 Store，级联写整体提交或整体回滚
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// notFound 把 gorm 的未命中翻译成领域错误
func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.NotFound(msg)
	}
	return err
}
