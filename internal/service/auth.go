package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"tracksys/internal/apperr"
	"tracksys/internal/core/auth"
	"tracksys/internal/domain"
	"tracksys/pkg/utils"
)

type AuthService struct {
	db    *gorm.DB
	jwter *auth.JWTer
}

func NewAuthService(db *gorm.DB, jwter *auth.JWTer) *AuthService {
	return &AuthService{db: db, jwter: jwter}
}

type RegisterIn struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"omitempty,max=128"`
}

// Register 重复邮箱返回 Conflict；唯一索引兜底并发注册。
func (s *AuthService) Register(ctx context.Context, in RegisterIn) (UserOut, error) {
	email := strings.TrimSpace(in.Email)

	var existing domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return UserOut{}, apperr.Conflict("email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserOut{}, err
	}

	u := domain.User{
		Email:        email,
		PasswordHash: utils.HashPassword(in.Password),
		FullName:     strings.TrimSpace(in.FullName),
		Role:         domain.RoleDeveloper,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if isDupKey(err) {
			return UserOut{}, apperr.Conflict("email already registered")
		}
		return UserOut{}, err
	}
	return toUserOut(&u), nil
}

// Login username 即邮箱（OAuth2 password form 习惯）。
func (s *AuthService) Login(ctx context.Context, username, password string) (Token, error) {
	var u domain.User
	err := s.db.WithContext(ctx).Where("email = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !utils.CheckPassword(password, u.PasswordHash)) {
		return Token{}, apperr.Unauthenticated("incorrect credentials")
	}
	if err != nil {
		return Token{}, err
	}
	tok, err := s.jwter.Issue(u.ID)
	if err != nil || tok == "" {
		return Token{}, apperr.Unauthenticated("issue token failed")
	}
	return Token{AccessToken: tok, TokenType: "bearer"}, nil
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，避免 driver 差异
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "constraint failed")
}
