package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracksys/internal/apperr"
	"tracksys/internal/core/storage"
	"tracksys/internal/domain"
)

func TestUploadAttachment(t *testing.T) {
	db := newTestDB(t)
	store := storage.NewMem()
	svc := NewAttachmentService(db, NewGuard(db), store, nopLogger())

	member := seedUser(t, db, "member@example.com")
	p := seedProject(t, db, "Proj", member)
	issue := seedIssue(t, db, p.ID, "task")

	body := strings.NewReader("file-content")
	out, err := svc.Upload(testCtx(), member.ID, issue.ID, "notes.txt", body, int64(body.Len()), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", out.Filename)
	assert.NotEmpty(t, out.URL)
	assert.Equal(t, 1, store.Len())

	// key 不出现在 DTO 里，但落了库
	var a domain.Attachment
	require.NoError(t, db.First(&a, out.ID).Error)
	assert.True(t, strings.HasPrefix(a.StorageKey, "attachments/"))
	assert.True(t, strings.HasSuffix(a.StorageKey, "_notes.txt"))
}

func TestUploadFailureLeavesNoMetadata(t *testing.T) {
	db := newTestDB(t)
	store := storage.NewMem()
	store.FailPut = true
	svc := NewAttachmentService(db, NewGuard(db), store, nopLogger())

	member := seedUser(t, db, "member@example.com")
	p := seedProject(t, db, "Proj", member)
	issue := seedIssue(t, db, p.ID, "task")

	_, err := svc.Upload(testCtx(), member.ID, issue.ID, "f.bin", strings.NewReader("x"), 1, "")
	assert.ErrorIs(t, err, apperr.ErrStorage)
	assert.EqualValues(t, 0, count[domain.Attachment](t, db, "issue_id = ?", issue.ID))
}

func TestRegisterExistingObject(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttachmentService(db, NewGuard(db), nil, nopLogger())

	member := seedUser(t, db, "member@example.com")
	p := seedProject(t, db, "Proj", member)
	issue := seedIssue(t, db, p.ID, "task")

	out, err := svc.Register(testCtx(), member.ID, AttachmentRegisterIn{
		IssueID:  issue.ID,
		Filename: "photo.png",
		Key:      "attachments/abc_photo.png",
		URL:      "https://cdn.example.com/attachments/abc_photo.png",
	})
	require.NoError(t, err)
	assert.Equal(t, issue.ID, out.IssueID)
	assert.Equal(t, "photo.png", out.Filename)

	outsider := seedUser(t, db, "outsider@example.com")
	_, err = svc.Register(testCtx(), outsider.ID, AttachmentRegisterIn{
		IssueID: issue.ID, Filename: "x", Key: "k", URL: "u",
	})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

// 对象删除失败被吞掉：元数据照删，存储可能泄漏。
func TestDeleteSwallowsStoreFailure(t *testing.T) {
	db := newTestDB(t)
	store := storage.NewMem()
	svc := NewAttachmentService(db, NewGuard(db), store, nopLogger())

	member := seedUser(t, db, "member@example.com")
	p := seedProject(t, db, "Proj", member)
	issue := seedIssue(t, db, p.ID, "task")

	body := strings.NewReader("data")
	out, err := svc.Upload(testCtx(), member.ID, issue.ID, "f.txt", body, int64(body.Len()), "")
	require.NoError(t, err)

	store.FailDelete = true
	require.NoError(t, svc.Delete(testCtx(), member.ID, out.ID))

	list, err := svc.ListByIssue(testCtx(), member.ID, issue.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 1, store.Len()) // 对象留在存储里
}

func TestDeleteAttachmentRemovesObject(t *testing.T) {
	db := newTestDB(t)
	store := storage.NewMem()
	svc := NewAttachmentService(db, NewGuard(db), store, nopLogger())

	member := seedUser(t, db, "member@example.com")
	p := seedProject(t, db, "Proj", member)
	issue := seedIssue(t, db, p.ID, "task")

	body := strings.NewReader("data")
	out, err := svc.Upload(testCtx(), member.ID, issue.ID, "f.txt", body, int64(body.Len()), "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(testCtx(), member.ID, out.ID))
	assert.Equal(t, 0, store.Len())
	assert.EqualValues(t, 0, count[domain.Attachment](t, db, "issue_id = ?", issue.ID))
}
