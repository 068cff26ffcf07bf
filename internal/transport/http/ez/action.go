package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tracksys/internal/apperr"
	resp "tracksys/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON body 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindForm  Binder = "form"  // 从表单绑定（登录用）
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.FormFile 取
)

// AErr 统一错误对象（配合 resp.Error(code, msg)）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Conflict(msg string) error     { return &AErr{Code: resp.CodeConflict, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// codeOf 服务层错误 → 业务码；AErr 原样透传。
func codeOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		return resp.CodeUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return resp.CodeForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return resp.CodeNotFound
	case errors.Is(err, apperr.ErrConflict):
		return resp.CodeConflict
	case errors.Is(err, apperr.ErrInvalid):
		return resp.CodeBadRequest
	default:
		return resp.CodeServerError
	}
}

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "PATCH" | "DELETE"
	Path    string // 例："/auth/login"、"/issues/:id/status"
	Binder  Binder
	Auth    bool // 是否要求已登录（检查 userID）
	UseTx   bool // 是否包事务
	Handler func(c *gin.Context, db *gorm.DB, in *I) (O, error)
}

// Register 在分组上注册动作接口。
func Register[I any, O any](g *gin.RouterGroup, db *gorm.DB, a Action[I, O]) {
	h := func(c *gin.Context) {
		if a.Auth {
			if c.GetUint("userID") == 0 {
				c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindForm:
			bindErr = c.ShouldBind(&in)
		default: // BindNone
		}
		if bindErr != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		run := func(tx *gorm.DB) (O, error) { return a.Handler(c, tx, &in) }
		var out O
		var err error
		if a.UseTx {
			err = db.WithContext(c).Transaction(func(tx *gorm.DB) error {
				o, e := run(tx)
				out = o
				return e
			})
		} else {
			out, err = run(db.WithContext(c))
		}

		if err != nil {
			var ae *AErr
			if errors.As(err, &ae) {
				c.JSON(http.StatusOK, resp.Error(ae.Code, ae.Error()))
				return
			}
			c.JSON(http.StatusOK, resp.Error(codeOf(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		g.GET(a.Path, h)
	case http.MethodPut:
		g.PUT(a.Path, h)
	case http.MethodPatch:
		g.PATCH(a.Path, h)
	case http.MethodDelete:
		g.DELETE(a.Path, h)
	default:
		g.POST(a.Path, h)
	}
}
