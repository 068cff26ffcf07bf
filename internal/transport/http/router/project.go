package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tracksys/internal/service"
	"tracksys/internal/transport/http/ez"
	mdw "tracksys/internal/transport/http/middleware"
)

func mountProjects(authed *gin.RouterGroup, db *gorm.DB, svc *service.ProjectService) {
	// POST /projects
	ez.Register[service.ProjectCreateIn, service.ProjectOut](authed, db, ez.Action[service.ProjectCreateIn, service.ProjectOut]{
		Method: http.MethodPost,
		Path:   "/projects",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *service.ProjectCreateIn) (service.ProjectOut, error) {
			return svc.Create(c.Request.Context(), mdw.CurrentUser(c), *in)
		},
	})

	// GET /projects 仅调用者所在的项目
	ez.Register[struct{}, []service.ProjectOut](authed, db, ez.Action[struct{}, []service.ProjectOut]{
		Method: http.MethodGet,
		Path:   "/projects",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]service.ProjectOut, error) {
			return svc.List(c.Request.Context(), c.GetUint(mdw.KeyUserID))
		},
	})

	// GET /projects/:project_id/members
	ez.Register[struct{}, []service.MemberView](authed, db, ez.Action[struct{}, []service.MemberView]{
		Method: http.MethodGet,
		Path:   "/projects/:project_id/members",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]service.MemberView, error) {
			pid, err := paramUint(c, "project_id")
			if err != nil {
				return nil, err
			}
			return svc.Members(c.Request.Context(), c.GetUint(mdw.KeyUserID), pid)
		},
	})

	// POST /projects/:project_id/members 按邮箱邀请
	ez.Register[service.MemberAddIn, service.MemberView](authed, db, ez.Action[service.MemberAddIn, service.MemberView]{
		Method: http.MethodPost,
		Path:   "/projects/:project_id/members",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *service.MemberAddIn) (service.MemberView, error) {
			pid, err := paramUint(c, "project_id")
			if err != nil {
				return service.MemberView{}, err
			}
			return svc.AddMember(c.Request.Context(), c.GetUint(mdw.KeyUserID), pid, *in)
		},
	})

	// DELETE /projects/:project_id/members/:user_id
	ez.Register[struct{}, gin.H](authed, db, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/projects/:project_id/members/:user_id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			pid, err := paramUint(c, "project_id")
			if err != nil {
				return nil, err
			}
			uid, err := paramUint(c, "user_id")
			if err != nil {
				return nil, err
			}
			if err := svc.RemoveMember(c.Request.Context(), c.GetUint(mdw.KeyUserID), pid, uid); err != nil {
				return nil, err
			}
			return gin.H{"ok": true}, nil
		},
	})

	// DELETE /projects/:project_id 级联删除
	ez.Register[struct{}, gin.H](authed, db, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/projects/:project_id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			pid, err := paramUint(c, "project_id")
			if err != nil {
				return nil, err
			}
			if err := svc.Delete(c.Request.Context(), c.GetUint(mdw.KeyUserID), pid); err != nil {
				return nil, err
			}
			return gin.H{"ok": true}, nil
		},
	})
}
