package service

import (
	"time"

	"tracksys/internal/domain"
)

// 出参投影：永不携带密码哈希/存储 key 之外的敏感字段。

type UserOut struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func toUserOut(u *domain.User) UserOut {
	return UserOut{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role}
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ProjectOut struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toProjectOut(p *domain.Project) ProjectOut {
	return ProjectOut{ID: p.ID, Name: p.Name, Description: p.Description, CreatedAt: p.CreatedAt}
}

// MemberView 的 ID 是用户 ID，角色取成员行（项目内角色）。
type MemberView struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type IssueOut struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Type        string    `json:"type"`
	Priority    int       `json:"priority"`
	AssigneeID  *uint     `json:"assignee_id"`
	ProjectID   uint      `json:"project_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func toIssueOut(i *domain.Issue) IssueOut {
	return IssueOut{
		ID: i.ID, Title: i.Title, Description: i.Description,
		Status: i.Status, Type: i.Type, Priority: i.Priority,
		AssigneeID: i.AssigneeID, ProjectID: i.ProjectID, CreatedAt: i.CreatedAt,
	}
}

type CommentOut struct {
	ID        uint      `json:"id"`
	IssueID   uint      `json:"issue_id"`
	AuthorID  uint      `json:"author_id"`
	Content   string    `json:"content"`
	ParentID  *uint     `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toCommentOut(c *domain.Comment) CommentOut {
	return CommentOut{
		ID: c.ID, IssueID: c.IssueID, AuthorID: c.AuthorID,
		Content: c.Content, ParentID: c.ParentID, CreatedAt: c.CreatedAt,
	}
}

type AttachmentOut struct {
	ID         uint      `json:"id"`
	IssueID    uint      `json:"issue_id"`
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func toAttachmentOut(a *domain.Attachment) AttachmentOut {
	return AttachmentOut{
		ID: a.ID, IssueID: a.IssueID, Filename: a.Filename,
		URL: a.URL, UploadedAt: a.UploadedAt,
	}
}
