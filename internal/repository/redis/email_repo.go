package redis

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultEmailCodeTTL = 5 * time.Minute
	EmailCodePrefix     = "hive:email:code"

	// 两阶段键：先 pending，邮件发送成功后转 confirmed
	PendingSuffix   = "pending"
	ConfirmedSuffix = "confirmed"
)

var (
	ErrEmailNotFound       = errors.New("email not found")
	ErrEmailCodeDelFailed  = errors.New("email code delete failed")
	ErrCodePendingFailed   = errors.New("code pending failed")
	ErrCodeConfirmedFailed = errors.New("code confirmed failed")
)

type EmailRepository struct{}

func codeKey(scope, stage, email string) string {
	return fmt.Sprintf("%s:%s:%s:%s", EmailCodePrefix, scope, stage, email)
}

// SetCodePending 写入验证码 pending 键
func (e *EmailRepository) SetCodePending(scope, email, code string) error {
	key := codeKey(scope, PendingSuffix, email)
	if err := Client.Set(context.Background(), key, code, DefaultEmailCodeTTL).Err(); err != nil {
		return ErrCodePendingFailed
	}
	return nil
}

// ConfirmCodePending 将 pending 转为 confirmed（重置 TTL）。
// lua脚本原子执行：取值+写目标+设TTL+删源
func (e *EmailRepository) ConfirmCodePending(scope, email string) error {
	srcKey := codeKey(scope, PendingSuffix, email)
	dstKey := codeKey(scope, ConfirmedSuffix, email)

	script := `
local val = redis.call("GET", KEYS[1])
if not val then
  return 0
end
redis.call("SET", KEYS[2], val, "PX", ARGV[1])
redis.call("DEL", KEYS[1])
return 1
`
	px := int64(DefaultEmailCodeTTL / time.Millisecond)
	res := Client.Eval(context.Background(), script, []string{srcKey, dstKey}, px)
	if err := res.Err(); err != nil {
		return ErrCodeConfirmedFailed
	}
	ok, _ := res.Int()
	if ok != 1 {
		return ErrCodeConfirmedFailed
	}
	return nil
}

// DeleteCodePending 删除 pending 键（幂等）
func (e *EmailRepository) DeleteCodePending(scope, email string) error {
	key := codeKey(scope, PendingSuffix, email)
	if err := Client.Del(context.Background(), key).Err(); err != nil {
		return ErrEmailCodeDelFailed
	}
	return nil
}

// GetEmailCode verify时用，读 confirmed 键
func (e *EmailRepository) GetEmailCode(scope, email string) (string, error) {
	key := codeKey(scope, ConfirmedSuffix, email)
	val, err := Client.Get(context.Background(), key).Result()
	if err != nil {
		return "", ErrEmailNotFound
	}
	return val, nil
}

func (e *EmailRepository) DeleteEmailCode(scope, email string) error {
	key := codeKey(scope, ConfirmedSuffix, email)
	if err := Client.Del(context.Background(), key).Err(); err != nil {
		return ErrEmailCodeDelFailed
	}
	return nil
}
