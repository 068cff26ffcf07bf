package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tracksys/internal/service"
	"tracksys/internal/transport/http/ez"
	mdw "tracksys/internal/transport/http/middleware"
)

func mountAttachments(authed *gin.RouterGroup, db *gorm.DB, svc *service.AttachmentService) {
	// POST /attachments/issues/:issue_id（multipart，字段名 file）
	ez.Register[struct{}, service.AttachmentOut](authed, db, ez.Action[struct{}, service.AttachmentOut]{
		Method: http.MethodPost,
		Path:   "/attachments/issues/:issue_id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (service.AttachmentOut, error) {
			iid, err := paramUint(c, "issue_id")
			if err != nil {
				return service.AttachmentOut{}, err
			}
			fh, err := c.FormFile("file")
			if err != nil {
				return service.AttachmentOut{}, ez.BadRequest("missing file field")
			}
			f, err := fh.Open()
			if err != nil {
				return service.AttachmentOut{}, ez.BadRequest("unreadable upload")
			}
			defer f.Close()
			return svc.Upload(c.Request.Context(), c.GetUint(mdw.KeyUserID), iid,
				fh.Filename, f, fh.Size, fh.Header.Get("Content-Type"))
		},
	})

	// POST /attachments/register 对象已上传，只登记元数据
	ez.Register[service.AttachmentRegisterIn, service.AttachmentOut](authed, db, ez.Action[service.AttachmentRegisterIn, service.AttachmentOut]{
		Method: http.MethodPost,
		Path:   "/attachments/register",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *service.AttachmentRegisterIn) (service.AttachmentOut, error) {
			return svc.Register(c.Request.Context(), c.GetUint(mdw.KeyUserID), *in)
		},
	})

	// GET /attachments/issues/:issue_id
	ez.Register[struct{}, []service.AttachmentOut](authed, db, ez.Action[struct{}, []service.AttachmentOut]{
		Method: http.MethodGet,
		Path:   "/attachments/issues/:issue_id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]service.AttachmentOut, error) {
			iid, err := paramUint(c, "issue_id")
			if err != nil {
				return nil, err
			}
			return svc.ListByIssue(c.Request.Context(), c.GetUint(mdw.KeyUserID), iid)
		},
	})

	// DELETE /attachments/:attachment_id
	ez.Register[struct{}, gin.H](authed, db, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/attachments/:attachment_id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			aid, err := paramUint(c, "attachment_id")
			if err != nil {
				return nil, err
			}
			if err := svc.Delete(c.Request.Context(), c.GetUint(mdw.KeyUserID), aid); err != nil {
				return nil, err
			}
			return gin.H{"ok": true}, nil
		},
	})
}
