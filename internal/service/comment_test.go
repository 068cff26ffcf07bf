package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracksys/internal/apperr"
	"tracksys/internal/domain"
)

func TestCommentThreading(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db, NewGuard(db))

	member := seedUser(t, db, "member@example.com")
	p := seedProject(t, db, "Proj", member)
	issue := seedIssue(t, db, p.ID, "task")

	root, err := svc.Create(testCtx(), member.ID, issue.ID, CommentCreateIn{Content: "root"})
	require.NoError(t, err)
	assert.Equal(t, member.ID, root.AuthorID)
	assert.Nil(t, root.ParentID)

	reply, err := svc.Create(testCtx(), member.ID, issue.ID, CommentCreateIn{Content: "reply", ParentID: &root.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)

	// 父评论必须属于同一 issue
	other := seedIssue(t, db, p.ID, "other")
	_, err = svc.Create(testCtx(), member.ID, other.ID, CommentCreateIn{Content: "bad", ParentID: &root.ID})
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	// 不存在的父评论 → Invalid
	ghost := uint(9999)
	_, err = svc.Create(testCtx(), member.ID, issue.ID, CommentCreateIn{Content: "bad", ParentID: &ghost})
	assert.ErrorIs(t, err, apperr.ErrInvalid)
}

// 删除带回复的父评论：子评论 parent_id 置空而非级联删除。
func TestDeleteParentCommentOrphansReplies(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db, NewGuard(db))

	member := seedUser(t, db, "member@example.com")
	p := seedProject(t, db, "Proj", member)
	issue := seedIssue(t, db, p.ID, "task")

	root, err := svc.Create(testCtx(), member.ID, issue.ID, CommentCreateIn{Content: "root"})
	require.NoError(t, err)
	reply, err := svc.Create(testCtx(), member.ID, issue.ID, CommentCreateIn{Content: "reply", ParentID: &root.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(testCtx(), member.ID, root.ID))

	var got domain.Comment
	require.NoError(t, db.First(&got, reply.ID).Error)
	assert.Nil(t, got.ParentID)
}

// 任何项目成员都能删别人的评论——角色与作者身份都不设限。
func TestAnyMemberMayDeleteOthersComment(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db, NewGuard(db))

	author := seedUser(t, db, "author@example.com")
	viewer := seedUser(t, db, "viewer@example.com")
	viewer.Role = domain.RoleViewer
	require.NoError(t, db.Save(viewer).Error)
	p := seedProject(t, db, "Proj", author, viewer)
	issue := seedIssue(t, db, p.ID, "task")

	c, err := svc.Create(testCtx(), author.ID, issue.ID, CommentCreateIn{Content: "hot take"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(testCtx(), viewer.ID, c.ID))
	assert.EqualValues(t, 0, count[domain.Comment](t, db, "id = ?", c.ID))

	err = svc.Delete(testCtx(), viewer.ID, c.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListCommentsOrderedByCreation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db, NewGuard(db))

	member := seedUser(t, db, "member@example.com")
	p := seedProject(t, db, "Proj", member)
	issue := seedIssue(t, db, p.ID, "task")

	for _, content := range []string{"first", "second", "third"} {
		_, err := svc.Create(testCtx(), member.ID, issue.ID, CommentCreateIn{Content: content})
		require.NoError(t, err)
	}

	list, err := svc.ListByIssue(testCtx(), member.ID, issue.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Content)
	assert.Equal(t, "third", list[2].Content)
}
