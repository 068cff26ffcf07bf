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

type ProjectService struct {
	db    *gorm.DB
	guard *Guard
	store storage.ObjectStore
	log   *zap.Logger
}

func NewProjectService(db *gorm.DB, guard *Guard, store storage.ObjectStore, log *zap.Logger) *ProjectService {
	return &ProjectService{db: db, guard: guard, store: store, log: log}
}

type ProjectCreateIn struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Create 项目与创建者成员行同一事务落库：项目不可能零成员存在。
func (s *ProjectService) Create(ctx context.Context, creator *domain.User, in ProjectCreateIn) (ProjectOut, error) {
	p := domain.Project{Name: in.Name, Description: in.Description}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		m := domain.ProjectMember{ProjectID: p.ID, UserID: creator.ID, Role: creator.Role}
		return tx.Create(&m).Error
	})
	if err != nil {
		return ProjectOut{}, err
	}
	return toProjectOut(&p), nil
}

// List 仅返回调用者持有成员关系的项目。
func (s *ProjectService) List(ctx context.Context, userID uint) ([]ProjectOut, error) {
	var projects []domain.Project
	sub := s.db.Model(&domain.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)
	if err := s.db.WithContext(ctx).Where("id IN (?)", sub).Find(&projects).Error; err != nil {
		return nil, err
	}
	out := make([]ProjectOut, 0, len(projects))
	for i := range projects {
		out = append(out, toProjectOut(&projects[i]))
	}
	return out, nil
}

func (s *ProjectService) Members(ctx context.Context, userID, projectID uint) ([]MemberView, error) {
	if _, err := s.guard.Project(ctx, projectID, userID); err != nil {
		return nil, err
	}
	var rows []struct {
		UserID   uint
		Email    string
		FullName string
		Role     string
	}
	err := s.db.WithContext(ctx).
		Table("project_members").
		Select("project_members.user_id, users.email, users.full_name, project_members.role").
		Joins("JOIN users ON users.id = project_members.user_id").
		Where("project_members.project_id = ?", projectID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]MemberView, 0, len(rows))
	for _, r := range rows {
		out = append(out, MemberView{ID: r.UserID, Email: r.Email, FullName: r.FullName, Role: r.Role})
	}
	return out, nil
}

type MemberAddIn struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

// AddMember 按邮箱邀请；已是成员 → Conflict。
func (s *ProjectService) AddMember(ctx context.Context, userID, projectID uint, in MemberAddIn) (MemberView, error) {
	if _, err := s.guard.Project(ctx, projectID, userID); err != nil {
		return MemberView{}, err
	}

	role := in.Role
	if role == "" {
		role = domain.RoleDeveloper
	}
	if !domain.ValidRole(role) {
		return MemberView{}, apperr.Invalid("unknown role")
	}

	var invitee domain.User
	err := s.db.WithContext(ctx).Where("email = ?", in.Email).First(&invitee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return MemberView{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return MemberView{}, err
	}

	// 先查后插（存储层不保证这里的唯一性约束一定存在）
	var existing domain.ProjectMember
	err = s.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, invitee.ID).
		First(&existing).Error
	if err == nil {
		return MemberView{}, apperr.Conflict("user already in project")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return MemberView{}, err
	}

	m := domain.ProjectMember{ProjectID: projectID, UserID: invitee.ID, Role: role}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDupKey(err) {
			return MemberView{}, apperr.Conflict("user already in project")
		}
		return MemberView{}, err
	}
	return MemberView{ID: invitee.ID, Email: invitee.Email, FullName: invitee.FullName, Role: role}, nil
}

func (s *ProjectService) RemoveMember(ctx context.Context, userID, projectID, memberUserID uint) error {
	if _, err := s.guard.Project(ctx, projectID, userID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, memberUserID).
		Delete(&domain.ProjectMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("member not found")
	}
	return nil
}

// Delete 任一成员可删整个项目（本核心不做更严格的属主校验）。
// 级联顺序：附件 → 评论 → 议题 → 成员 → 项目，单事务。
// 附件对象尽力删除，失败吞掉。
func (s *ProjectService) Delete(ctx context.Context, userID, projectID uint) error {
	if _, err := s.guard.Project(ctx, projectID, userID); err != nil {
		return err
	}

	var keys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		issueIDs := tx.Model(&domain.Issue{}).Select("id").Where("project_id = ?", projectID)

		if err := tx.Model(&domain.Attachment{}).
			Where("issue_id IN (?)", issueIDs).
			Pluck("storage_key", &keys).Error; err != nil {
			return err
		}
		if err := tx.Where("issue_id IN (?)", issueIDs).Delete(&domain.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("issue_id IN (?)", issueIDs).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&domain.Issue{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&domain.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Project{}, projectID).Error
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
