package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tracksys/internal/apperr"
	"tracksys/internal/domain"
)

// Guard 把所有资源的准入判定收敛到一处：目标解析到所属项目，
// 项目不存在 → NotFound，无成员关系 → Forbidden。
// 返回的 Membership 带角色，但本核心不用角色拒绝任何操作。
type Guard struct {
	db *gorm.DB
}

func NewGuard(db *gorm.DB) *Guard { return &Guard{db: db} }

// Project 直接按项目 ID 判定。
func (g *Guard) Project(ctx context.Context, projectID, userID uint) (*domain.ProjectMember, error) {
	var p domain.Project
	if err := g.db.WithContext(ctx).First(&p, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project not found")
		}
		return nil, err
	}
	return g.membership(ctx, projectID, userID)
}

// Issue 经 issue.project_id 解析所属项目；issue 缺失 → NotFound。
func (g *Guard) Issue(ctx context.Context, issueID, userID uint) (*domain.Issue, *domain.ProjectMember, error) {
	var issue domain.Issue
	if err := g.db.WithContext(ctx).First(&issue, issueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("issue not found")
		}
		return nil, nil, err
	}
	m, err := g.membership(ctx, issue.ProjectID, userID)
	if err != nil {
		return nil, nil, err
	}
	return &issue, m, nil
}

func (g *Guard) membership(ctx context.Context, projectID, userID uint) (*domain.ProjectMember, error) {
	var m domain.ProjectMember
	err := g.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Forbidden("not a member")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
