package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tracksys/internal/service"
	"tracksys/internal/transport/http/ez"
	mdw "tracksys/internal/transport/http/middleware"
)

func mountComments(authed *gin.RouterGroup, db *gorm.DB, svc *service.CommentService) {
	// POST /comments/issues/:issue_id
	ez.Register[service.CommentCreateIn, service.CommentOut](authed, db, ez.Action[service.CommentCreateIn, service.CommentOut]{
		Method: http.MethodPost,
		Path:   "/comments/issues/:issue_id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *service.CommentCreateIn) (service.CommentOut, error) {
			iid, err := paramUint(c, "issue_id")
			if err != nil {
				return service.CommentOut{}, err
			}
			return svc.Create(c.Request.Context(), c.GetUint(mdw.KeyUserID), iid, *in)
		},
	})

	// GET /comments/issues/:issue_id（created_at 升序）
	ez.Register[struct{}, []service.CommentOut](authed, db, ez.Action[struct{}, []service.CommentOut]{
		Method: http.MethodGet,
		Path:   "/comments/issues/:issue_id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]service.CommentOut, error) {
			iid, err := paramUint(c, "issue_id")
			if err != nil {
				return nil, err
			}
			return svc.ListByIssue(c.Request.Context(), c.GetUint(mdw.KeyUserID), iid)
		},
	})

	// DELETE /comments/:comment_id
	ez.Register[struct{}, gin.H](authed, db, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/comments/:comment_id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			cid, err := paramUint(c, "comment_id")
			if err != nil {
				return nil, err
			}
			if err := svc.Delete(c.Request.Context(), c.GetUint(mdw.KeyUserID), cid); err != nil {
				return nil, err
			}
			return gin.H{"ok": true}, nil
		},
	})
}
