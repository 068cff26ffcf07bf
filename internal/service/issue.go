package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tracksys/internal/apperr"
	"tracksys/internal/core/storage"
	"tracksys/internal/domain"
)

type IssueService struct {
	db    *gorm.DB
	guard *Guard
	store storage.ObjectStore
	log   *zap.Logger
}

func NewIssueService(db *gorm.DB, guard *Guard, store storage.ObjectStore, log *zap.Logger) *IssueService {
	return &IssueService{db: db, guard: guard, store: store, log: log}
}

type IssueCreateIn struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Priority    *int   `json:"priority"`
	AssigneeID  *uint  `json:"assignee_id"`
}

func (s *IssueService) Create(ctx context.Context, userID, projectID uint, in IssueCreateIn) (IssueOut, error) {
	if _, err := s.guard.Project(ctx, projectID, userID); err != nil {
		return IssueOut{}, err
	}

	typ := in.Type
	if typ == "" {
		typ = domain.TypeTask
	}
	if !domain.ValidIssueType(typ) {
		return IssueOut{}, apperr.Invalid("unknown issue type")
	}
	priority := 3
	if in.Priority != nil {
		priority = *in.Priority // 范围不校验，沿用既有契约
	}

	if in.AssigneeID != nil {
		var assignee domain.User
		err := s.db.WithContext(ctx).First(&assignee, *in.AssigneeID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return IssueOut{}, apperr.Invalid("assignee user not found")
		}
		if err != nil {
			return IssueOut{}, err
		}
	}

	issue := domain.Issue{
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.StatusTodo,
		Type:        typ,
		Priority:    priority,
		ProjectID:   projectID,
		AssigneeID:  in.AssigneeID,
	}
	if err := s.db.WithContext(ctx).Create(&issue).Error; err != nil {
		return IssueOut{}, err
	}
	return toIssueOut(&issue), nil
}

func (s *IssueService) ListByProject(ctx context.Context, userID, projectID uint) ([]IssueOut, error) {
	if _, err := s.guard.Project(ctx, projectID, userID); err != nil {
		return nil, err
	}
	var issues []domain.Issue
	if err := s.db.WithContext(ctx).Where("project_id = ?", projectID).Find(&issues).Error; err != nil {
		return nil, err
	}
	out := make([]IssueOut, 0, len(issues))
	for i := range issues {
		out = append(out, toIssueOut(&issues[i]))
	}
	return out, nil
}

// UpdateStatus 仅接受三态枚举；其余值 → Invalid。
func (s *IssueService) UpdateStatus(ctx context.Context, userID, issueID uint, status string) (IssueOut, error) {
	if !domain.ValidStatus(status) {
		return IssueOut{}, apperr.Invalid("unknown status")
	}
	issue, _, err := s.guard.Issue(ctx, issueID, userID)
	if err != nil {
		return IssueOut{}, err
	}
	// 三态之间任意迁移，无工作流约束
	if err := s.db.WithContext(ctx).Model(issue).Update("status", status).Error; err != nil {
		return IssueOut{}, err
	}
	issue.Status = status
	return toIssueOut(issue), nil
}

// Delete 级联评论与附件；附件对象尽力删除。
func (s *IssueService) Delete(ctx context.Context, userID, issueID uint) error {
	if _, _, err := s.guard.Issue(ctx, issueID, userID); err != nil {
		return err
	}

	var keys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Attachment{}).
			Where("issue_id = ?", issueID).
			Pluck("storage_key", &keys).Error; err != nil {
			return err
		}
		if err := tx.Where("issue_id = ?", issueID).Delete(&domain.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("issue_id = ?", issueID).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Issue{}, issueID).Error
	})
	if err != nil {
		return err
	}

	if s.store != nil {
		for _, key := range keys {
			if err := s.store.Delete(ctx, key); err != nil {
				s.log.Warn("orphan blob left in object store", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return nil
}
