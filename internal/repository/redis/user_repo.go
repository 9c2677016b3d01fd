package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrTokenDeleted     = errors.New("token delete failed")
)

const (
	UserTokenPrefix = "hive:login:token"
	UserTokenExpire = 60 * 30
)

// UserRepository 单点登录token存储
type UserRepository struct{}

func (r *UserRepository) AddUserToken(usrID uint64, token string) error {
	key := fmt.Sprintf("%s:%d", UserTokenPrefix, usrID)
	if err := Client.Set(context.Background(), key, token, time.Second*UserTokenExpire).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *UserRepository) GetUserToken(usrID uint64) (string, error) {
	key := fmt.Sprintf("%s:%d", UserTokenPrefix, usrID)
	token, err := Client.Get(context.Background(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

func (r *UserRepository) ExtendUserToken(usrID uint64) error {
	key := fmt.Sprintf("%s:%d", UserTokenPrefix, usrID)
	if _, err := Client.Expire(context.Background(), key, time.Second*UserTokenExpire).Result(); err != nil {
		return ErrExtendFailed
	}
	return nil
}

func (r *UserRepository) DeleteUserToken(usrID uint64) error {
	key := fmt.Sprintf("%s:%d", UserTokenPrefix, usrID)
	if err := Client.Del(context.Background(), key).Err(); err != nil {
		return ErrTokenDeleted
	}
	return nil
}
