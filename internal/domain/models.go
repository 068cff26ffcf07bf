package domain

import "time"

// 角色/状态/类型枚举（与数据库存储值一致）
const (
	RoleAdmin     = "admin"
	RoleDeveloper = "developer"
	RoleViewer    = "viewer"

	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"

	TypeBug     = "bug"
	TypeTask    = "task"
	TypeFeature = "feature"
)

func ValidStatus(s string) bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

func ValidIssueType(t string) bool {
	return t == TypeBug || t == TypeTask || t == TypeFeature
}

func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleDeveloper || r == RoleViewer
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	FullName     string    `gorm:"size:128" json:"full_name"`
	Role         string    `gorm:"size:16;not null;default:developer" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }

type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Project) TableName() string { return "projects" }

// ProjectMember 同一 (project_id, user_id) 至多一行；服务层先查后插，
// 唯一索引兜底并发。
type ProjectMember struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProjectID uint   `gorm:"not null;uniqueIndex:uk_project_user" json:"project_id"`
	UserID    uint   `gorm:"not null;uniqueIndex:uk_project_user;index" json:"user_id"`
	Role      string `gorm:"size:16;not null;default:developer" json:"role"`
}

func (ProjectMember) TableName() string { return "project_members" }

type Issue struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null;index" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:16;not null;default:todo;index" json:"status"`
	Type        string    `gorm:"size:16;not null;default:task" json:"type"`
	Priority    int       `gorm:"not null;default:3" json:"priority"`
	ProjectID   uint      `gorm:"not null;index" json:"project_id"`
	AssigneeID  *uint     `json:"assignee_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Issue) TableName() string { return "issues" }

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IssueID   uint      `gorm:"not null;index" json:"issue_id"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ParentID  *uint     `json:"parent_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Comment) TableName() string { return "comments" }

type Attachment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	IssueID    uint      `gorm:"not null;index" json:"issue_id"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	StorageKey string    `gorm:"size:512;not null" json:"-"`
	URL        string    `gorm:"size:1024;not null" json:"url"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (Attachment) TableName() string { return "attachments" }

// All 返回需要 AutoMigrate 的全部模型。
func All() []any {
	return []any{
		&User{}, &Project{}, &ProjectMember{},
		&Issue{}, &Comment{}, &Attachment{},
	}
}
