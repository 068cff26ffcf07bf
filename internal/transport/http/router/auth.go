package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tracksys/internal/service"
	"tracksys/internal/transport/http/ez"
	mdw "tracksys/internal/transport/http/middleware"
)

func mountAuth(api *gin.RouterGroup, db *gorm.DB, svc *service.AuthService) {
	// POST /auth/register
	ez.Register[service.RegisterIn, service.UserOut](api, db, ez.Action[service.RegisterIn, service.UserOut]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *service.RegisterIn) (service.UserOut, error) {
			return svc.Register(c.Request.Context(), *in)
		},
	})

	// POST /auth/login（OAuth2 password form：username + password）
	type loginIn struct {
		Username string `form:"username" binding:"required"`
		Password string `form:"password" binding:"required"`
	}
	ez.Register[loginIn, service.Token](api, db, ez.Action[loginIn, service.Token]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindForm,
		Handler: func(c *gin.Context, _ *gorm.DB, in *loginIn) (service.Token, error) {
			return svc.Login(c.Request.Context(), in.Username, in.Password)
		},
	})
}

func mountUsers(authed *gin.RouterGroup, db *gorm.DB, svc *service.UserService) {
	// GET /users 全量用户列表（邀请选人用，无过滤）
	ez.Register[struct{}, []service.UserOut](authed, db, ez.Action[struct{}, []service.UserOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]service.UserOut, error) {
			return svc.List(c.Request.Context())
		},
	})

	// GET /me 当前主体
	ez.Register[struct{}, service.UserOut](authed, db, ez.Action[struct{}, service.UserOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (service.UserOut, error) {
			u := mdw.CurrentUser(c)
			if u == nil {
				return service.UserOut{}, ez.Unauthorized("unauthorized")
			}
			return service.UserOut{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role}, nil
		},
	})
}
