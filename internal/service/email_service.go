package service

import (
	"Hive_Community/internal/pkg"
	"Hive_Community/internal/repository/redis"
)

type EmailService struct {
	emailCfg pkg.SMTPConfig
	rds      *redis.EmailRepository
}

func NewEmailService(cfg pkg.SMTPConfig) *EmailService {
	return &EmailService{emailCfg: cfg, rds: &redis.EmailRepository{}}
}

// SendCode 发送验证码邮件。先写 pending 键，发送成功后转 confirmed，
// 发送失败则清掉 pending，避免未送达的code可被使用
func (s *EmailService) SendCode(scope, email string) error {
	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}
	if err = s.rds.SetCodePending(scope, email, code); err != nil {
		return err
	}

	subject := "Verification code"
	if scope == "reset" {
		subject = "Password reset code"
	}
	html := pkg.EmailCodeHTML(subject, code, redis.DefaultEmailCodeTTL)
	if err = pkg.SendEmail(s.emailCfg, email, subject, html); err != nil {
		_ = s.rds.DeleteCodePending(scope, email)
		return err
	}

	if err = s.rds.ConfirmCodePending(scope, email); err != nil {
		_ = s.rds.DeleteCodePending(scope, email)
		return err
	}

	return nil
}

// VerifyCode 校验验证码并一次性删除
func (s *EmailService) VerifyCode(scope, email, code string) (bool, error) {
	val, err := s.rds.GetEmailCode(scope, email)
	if err != nil {
		// 不存在或已过期
		return false, err
	}
	if val != code {
		return false, nil
	}
	if err = s.rds.DeleteEmailCode(scope, email); err != nil {
		return false, err
	}
	return true, nil
}
