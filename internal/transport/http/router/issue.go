package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tracksys/internal/service"
	"tracksys/internal/transport/http/ez"
	mdw "tracksys/internal/transport/http/middleware"
)

func mountIssues(authed *gin.RouterGroup, db *gorm.DB, svc *service.IssueService) {
	// POST /issues/projects/:project_id
	ez.Register[service.IssueCreateIn, service.IssueOut](authed, db, ez.Action[service.IssueCreateIn, service.IssueOut]{
		Method: http.MethodPost,
		Path:   "/issues/projects/:project_id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *service.IssueCreateIn) (service.IssueOut, error) {
			pid, err := paramUint(c, "project_id")
			if err != nil {
				return service.IssueOut{}, err
			}
			return svc.Create(c.Request.Context(), c.GetUint(mdw.KeyUserID), pid, *in)
		},
	})

	// GET /issues/projects/:project_id
	ez.Register[struct{}, []service.IssueOut](authed, db, ez.Action[struct{}, []service.IssueOut]{
		Method: http.MethodGet,
		Path:   "/issues/projects/:project_id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]service.IssueOut, error) {
			pid, err := paramUint(c, "project_id")
			if err != nil {
				return nil, err
			}
			return svc.ListByProject(c.Request.Context(), c.GetUint(mdw.KeyUserID), pid)
		},
	})

	// PATCH /issues/:issue_id/status?status=...
	type statusQ struct {
		Status string `form:"status" binding:"required"`
	}
	ez.Register[statusQ, service.IssueOut](authed, db, ez.Action[statusQ, service.IssueOut]{
		Method: http.MethodPatch,
		Path:   "/issues/:issue_id/status",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *statusQ) (service.IssueOut, error) {
			iid, err := paramUint(c, "issue_id")
			if err != nil {
				return service.IssueOut{}, err
			}
			return svc.UpdateStatus(c.Request.Context(), c.GetUint(mdw.KeyUserID), iid, in.Status)
		},
	})

	// DELETE /issues/:issue_id
	ez.Register[struct{}, gin.H](authed, db, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/issues/:issue_id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			iid, err := paramUint(c, "issue_id")
			if err != nil {
				return nil, err
			}
			if err := svc.Delete(c.Request.Context(), c.GetUint(mdw.KeyUserID), iid); err != nil {
				return nil, err
			}
			return gin.H{"ok": true}, nil
		},
	})
}
