package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tracksys/internal/core/auth"
	"tracksys/internal/core/cache"
	"tracksys/internal/core/storage"
	"tracksys/internal/realtime"
	"tracksys/internal/service"
	"tracksys/internal/transport/http/ez"
	mdw "tracksys/internal/transport/http/middleware"
)

type Deps struct {
	Log   *zap.Logger
	DB    *gorm.DB
	JWT   *auth.JWTer
	Cache *cache.Cache // 可为 nil
	Store storage.ObjectStore
	Hub   *realtime.Hub
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	// 全局中间件。限流/限并发/超时只挂在 API 分组上，
	// 否则长连接的 websocket 会占满并发配额。
	r.Use(
		mdw.RequestID(),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	guard := service.NewGuard(d.DB)
	authSvc := service.NewAuthService(d.DB, d.JWT)
	userSvc := service.NewUserService(d.DB)
	projectSvc := service.NewProjectService(d.DB, guard, d.Store, d.Log)
	issueSvc := service.NewIssueService(d.DB, guard, d.Store, d.Log)
	commentSvc := service.NewCommentService(d.DB, guard)
	attachSvc := service.NewAttachmentService(d.DB, guard, d.Store, d.Log)

	api := r.Group("/api/v1")
	api.Use(
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
	)

	// 公共分组（注册/登录）
	mountAuth(api, d.DB, authSvc)

	// 鉴权分组
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT, d.DB, d.Cache))
	mountUsers(authed, d.DB, userSvc)
	mountProjects(authed, d.DB, projectSvc)
	mountIssues(authed, d.DB, issueSvc)
	mountComments(authed, d.DB, commentSvc)
	mountAttachments(authed, d.DB, attachSvc)

	// 实时通道（query token 鉴权，不走 AuthJWT）
	mountWS(r, d)

	return r
}

// paramUint 路径参数 → uint；非法值按 BadRequest 处理。
func paramUint(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, ez.BadRequest("invalid " + name)
	}
	return uint(v), nil
}
