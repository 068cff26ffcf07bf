package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracksys/internal/apperr"
	"tracksys/internal/domain"
)

func TestCreateIssueDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewIssueService(db, NewGuard(db), nil, nopLogger())

	member := seedUser(t, db, "member@example.com")
	p := seedProject(t, db, "Proj", member)

	out, err := svc.Create(testCtx(), member.ID, p.ID, IssueCreateIn{Title: "First issue"})
	require.NoError(t, err)
	assert.Equal(t, "First issue", out.Title)
	assert.Equal(t, domain.StatusTodo, out.Status)
	assert.Equal(t, domain.TypeTask, out.Type)
	assert.Equal(t, 3, out.Priority)
	assert.Equal(t, p.ID, out.ProjectID)
	assert.Nil(t, out.AssigneeID)
}

func TestCreateIssueValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewIssueService(db, NewGuard(db), nil, nopLogger())

	member := seedUser(t, db, "member@example.com")
	outsider := seedUser(t, db, "outsider@example.com")
	p := seedProject(t, db, "Proj", member)

	// 悬空 assignee → Invalid
	ghost := uint(9999)
	_, err := svc.Create(testCtx(), member.ID, p.ID, IssueCreateIn{Title: "x", AssigneeID: &ghost})
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	// 未知类型 → Invalid
	_, err = svc.Create(testCtx(), member.ID, p.ID, IssueCreateIn{Title: "x", Type: "epic"})
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	// 非成员 → Forbidden
	_, err = svc.Create(testCtx(), outsider.ID, p.ID, IssueCreateIn{Title: "x"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// 有效 assignee 正常落库
	out, err := svc.Create(testCtx(), member.ID, p.ID, IssueCreateIn{Title: "y", AssigneeID: &member.ID})
	require.NoError(t, err)
	require.NotNil(t, out.AssigneeID)
	assert.Equal(t, member.ID, *out.AssigneeID)
}

func TestUpdateStatusEnumOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewIssueService(db, NewGuard(db), nil, nopLogger())

	member := seedUser(t, db, "member@example.com")
	p := seedProject(t, db, "Proj", member)
	issue := seedIssue(t, db, p.ID, "task")

	// 三态之间任意迁移
	out, err := svc.UpdateStatus(testCtx(), member.ID, issue.ID, domain.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, out.Status)

	out, err = svc.UpdateStatus(testCtx(), member.ID, issue.ID, domain.StatusTodo)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTodo, out.Status)

	// 枚举之外 → Invalid，库内值不动
	_, err = svc.UpdateStatus(testCtx(), member.ID, issue.ID, "archived")
	assert.ErrorIs(t, err, apperr.ErrInvalid)
	var got domain.Issue
	require.NoError(t, db.First(&got, issue.ID).Error)
	assert.Equal(t, domain.StatusTodo, got.Status)

	_, err = svc.UpdateStatus(testCtx(), member.ID, 9999, domain.StatusDone)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteIssueCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewIssueService(db, NewGuard(db), nil, nopLogger())

	member := seedUser(t, db, "member@example.com")
	p := seedProject(t, db, "Proj", member)
	issue := seedIssue(t, db, p.ID, "doomed")
	keep := seedIssue(t, db, p.ID, "survivor")

	require.NoError(t, db.Create(&domain.Comment{IssueID: issue.ID, AuthorID: member.ID, Content: "c"}).Error)
	require.NoError(t, db.Create(&domain.Attachment{IssueID: issue.ID, Filename: "f", StorageKey: "k", URL: "u"}).Error)

	require.NoError(t, svc.Delete(testCtx(), member.ID, issue.ID))

	assert.EqualValues(t, 0, count[domain.Issue](t, db, "id = ?", issue.ID))
	assert.EqualValues(t, 0, count[domain.Comment](t, db, "issue_id = ?", issue.ID))
	assert.EqualValues(t, 0, count[domain.Attachment](t, db, "issue_id = ?", issue.ID))
	assert.EqualValues(t, 1, count[domain.Issue](t, db, "id = ?", keep.ID))
}

func TestListIssuesByProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewIssueService(db, NewGuard(db), nil, nopLogger())

	member := seedUser(t, db, "member@example.com")
	p := seedProject(t, db, "Proj", member)
	other := seedProject(t, db, "Other", member)
	seedIssue(t, db, p.ID, "a")
	seedIssue(t, db, p.ID, "b")
	seedIssue(t, db, other.ID, "elsewhere")

	list, err := svc.ListByProject(testCtx(), member.ID, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
