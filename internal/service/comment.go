package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tracksys/internal/apperr"
	"tracksys/internal/domain"
)

type CommentService struct {
	db    *gorm.DB
	guard *Guard
}

func NewCommentService(db *gorm.DB, guard *Guard) *CommentService {
	return &CommentService{db: db, guard: guard}
}

type CommentCreateIn struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

func (s *CommentService) Create(ctx context.Context, userID, issueID uint, in CommentCreateIn) (CommentOut, error) {
	if _, _, err := s.guard.Issue(ctx, issueID, userID); err != nil {
		return CommentOut{}, err
	}

	if in.ParentID != nil {
		var parent domain.Comment
		err := s.db.WithContext(ctx).First(&parent, *in.ParentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CommentOut{}, apperr.Invalid("parent comment not found")
		}
		if err != nil {
			return CommentOut{}, err
		}
		if parent.IssueID != issueID {
			return CommentOut{}, apperr.Invalid("parent comment belongs to another issue")
		}
	}

	c := domain.Comment{
		IssueID:  issueID,
		AuthorID: userID,
		Content:  in.Content,
		ParentID: in.ParentID,
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return CommentOut{}, err
	}
	return toCommentOut(&c), nil
}

func (s *CommentService) ListByIssue(ctx context.Context, userID, issueID uint) ([]CommentOut, error) {
	if _, _, err := s.guard.Issue(ctx, issueID, userID); err != nil {
		return nil, err
	}
	var comments []domain.Comment
	err := s.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Order("created_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	out := make([]CommentOut, 0, len(comments))
	for i := range comments {
		out = append(out, toCommentOut(&comments[i]))
	}
	return out, nil
}

// Delete 项目成员均可删，不限作者。
// 有回复的父评论被删时，子评论 parent_id 置空，降级为顶层评论。
func (s *CommentService) Delete(ctx context.Context, userID, commentID uint) error {
	var c domain.Comment
	err := s.db.WithContext(ctx).First(&c, commentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("comment not found")
	}
	if err != nil {
		return err
	}
	if _, _, err := s.guard.Issue(ctx, c.IssueID, userID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Comment{}).
			Where("parent_id = ?", commentID).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Comment{}, commentID).Error
	})
}
