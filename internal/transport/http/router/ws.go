package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tracksys/internal/domain"
	mdw "tracksys/internal/transport/http/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 浏览器端跨域由部署侧控制；这里与 HTTP CORS 同样放开
	CheckOrigin: func(r *http.Request) bool { return true },
}

// mountWS 实时广播通道。token 经 query 参数传入（与既有前端契约
// 一致，虽弱于 Authorization 头），解析失败即按 1008 关闭，永不入册。
func mountWS(r *gin.Engine, d Deps) {
	r.GET("/ws/boards", func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		uid, err := authenticateWS(c, d)
		if err != nil {
			msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthorized")
			_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			_ = ws.Close()
			return
		}

		mdw.WSGauge(1)
		defer mdw.WSGauge(-1)

		d.Log.Info("ws connected", zap.Uint("user_id", uid))
		d.Hub.Serve(ws, uid)
		d.Log.Info("ws disconnected", zap.Uint("user_id", uid))
		_ = ws.Close()
	})
}

func authenticateWS(c *gin.Context, d Deps) (uint, error) {
	token := c.Query("token")
	if token == "" {
		return 0, errors.New("missing token")
	}
	uid, err := d.JWT.Parse(token)
	if err != nil {
		return 0, err
	}
	var u domain.User
	if err := d.DB.WithContext(c.Request.Context()).First(&u, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errors.New("user not found")
		}
		return 0, err
	}
	return u.ID, nil
}
