package service

import (
	"Hive_Community/internal/model"
	"Hive_Community/internal/pkg"
	"Hive_Community/internal/repository/mysql"
	"Hive_Community/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo     *mysql.UserRepository
	rUser    *redis.UserRepository
	emailSvc *EmailService
}

func NewUserService() *UserService {
	return &UserService{
		repo:     &mysql.UserRepository{},
		rUser:    &redis.UserRepository{},
		emailSvc: &EmailService{rds: &redis.EmailRepository{}},
	}
}

func (s *UserService) Register(username, password, email, code string) error {
	// 验证code是否正确
	ok, err := s.emailSvc.VerifyCode("register", email, code)
	if err != nil || !ok {
		return pkg.Unauthorized("verification failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: username,
		Password: string(hash),
		Email:    email,
	}

	return s.repo.Create(user)
}

func (s *UserService) Login(username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, pkg.NotFound("user not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, pkg.Unauthenticated("invalid password")
	}
	// 将token写入redis
	token, err := pkg.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.rUser.AddUserToken(user.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(usrID uint64) error {
	return s.rUser.DeleteUserToken(usrID)
}

func (s *UserService) ResetCode(email, code, newPassword string) error {
	// 校验code正确性
	ok, err := s.emailSvc.VerifyCode("reset", email, code)
	if err != nil || !ok {
		return pkg.Unauthorized("verification failed")
	}

	// 获取用户信息并更新密码
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(user, string(hash))
}

// Refresh 换新token对，同时覆盖redis里的单点登录token
func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	pair, err := pkg.Refresh(refreshToken)
	if err != nil {
		return nil, pkg.Unauthenticated("invalid refresh token")
	}
	claims, err := pkg.ParseAccess(pair.AccessToken)
	if err != nil {
		return nil, err
	}
	if err := s.rUser.AddUserToken(claims.UserID, pair.AccessToken); err != nil {
		return nil, err
	}
	return pair, nil
}

// ChangePassword 登录态修改密码，成功后踢掉当前登录
func (s *UserService) ChangePassword(usrID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(usrID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return pkg.Unauthenticated("old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(user, string(hash)); err != nil {
		return err
	}

	return s.Logout(usrID)
}
