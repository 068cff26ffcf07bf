package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tracksys/internal/apperr"
	"tracksys/internal/core/storage"
	"tracksys/internal/domain"
)

type AttachmentService struct {
	db    *gorm.DB
	guard *Guard
	store storage.ObjectStore
	log   *zap.Logger
}

func NewAttachmentService(db *gorm.DB, guard *Guard, store storage.ObjectStore, log *zap.Logger) *AttachmentService {
	return &AttachmentService{db: db, guard: guard, store: store, log: log}
}

// Upload 先传对象再落元数据；上传失败直接报 Storage 错误，不写库。
func (s *AttachmentService) Upload(ctx context.Context, userID, issueID uint, filename string, r io.Reader, size int64, contentType string) (AttachmentOut, error) {
	if _, _, err := s.guard.Issue(ctx, issueID, userID); err != nil {
		return AttachmentOut{}, err
	}
	if s.store == nil {
		return AttachmentOut{}, apperr.Storage("object storage not configured", nil)
	}

	key, url, err := s.store.Put(ctx, filename, r, size, contentType)
	if err != nil {
		return AttachmentOut{}, apperr.Storage("file upload failed", err)
	}

	a := domain.Attachment{IssueID: issueID, Filename: filename, StorageKey: key, URL: url}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return AttachmentOut{}, err
	}
	return toAttachmentOut(&a), nil
}

type AttachmentRegisterIn struct {
	IssueID  uint   `json:"issue_id" binding:"required"`
	Filename string `json:"filename" binding:"required"`
	Key      string `json:"key" binding:"required"`
	URL      string `json:"url" binding:"required"`
}

// Register 对象已在别处上传，仅登记元数据。
func (s *AttachmentService) Register(ctx context.Context, userID uint, in AttachmentRegisterIn) (AttachmentOut, error) {
	if _, _, err := s.guard.Issue(ctx, in.IssueID, userID); err != nil {
		return AttachmentOut{}, err
	}
	a := domain.Attachment{IssueID: in.IssueID, Filename: in.Filename, StorageKey: in.Key, URL: in.URL}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return AttachmentOut{}, err
	}
	return toAttachmentOut(&a), nil
}

func (s *AttachmentService) ListByIssue(ctx context.Context, userID, issueID uint) ([]AttachmentOut, error) {
	if _, _, err := s.guard.Issue(ctx, issueID, userID); err != nil {
		return nil, err
	}
	var atts []domain.Attachment
	if err := s.db.WithContext(ctx).Where("issue_id = ?", issueID).Find(&atts).Error; err != nil {
		return nil, err
	}
	out := make([]AttachmentOut, 0, len(atts))
	for i := range atts {
		out = append(out, toAttachmentOut(&atts[i]))
	}
	return out, nil
}

// Delete 对象删除尽力而为：失败只记日志，元数据照删（可能泄漏存储）。
func (s *AttachmentService) Delete(ctx context.Context, userID, attachmentID uint) error {
	var a domain.Attachment
	err := s.db.WithContext(ctx).First(&a, attachmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("attachment not found")
	}
	if err != nil {
		return err
	}
	if _, _, err := s.guard.Issue(ctx, a.IssueID, userID); err != nil {
		return err
	}

	if s.store != nil {
		if err := s.store.Delete(ctx, a.StorageKey); err != nil {
			s.log.Warn("orphan blob left in object store", zap.String("key", a.StorageKey), zap.Error(err))
		}
	}
	return s.db.WithContext(ctx).Delete(&domain.Attachment{}, attachmentID).Error
}
