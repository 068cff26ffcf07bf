package service

import (
	"context"

	"gorm.io/gorm"

	"tracksys/internal/domain"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService { return &UserService{db: db} }

// List 返回全部用户（id 升序），无任何过滤——沿用既有契约，
// 供成员邀请界面选人。
func (s *UserService) List(ctx context.Context) ([]UserOut, error) {
	var users []domain.User
	if err := s.db.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	out := make([]UserOut, 0, len(users))
	for i := range users {
		out = append(out, toUserOut(&users[i]))
	}
	return out, nil
}
