package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tracksys/internal/core/auth"
	"tracksys/internal/core/cache"
	"tracksys/internal/domain"
	resp "tracksys/internal/transport/http/response"
)

const (
	KeyUserID = "userID"
	KeyUser   = "currentUser"
)

// AuthJWT 解析 Bearer token 并把当前用户挂到上下文。
// cc 可为 nil；配置了 redis 时按短 TTL 读穿缓存
// （用户在本核心不会被硬删，短 TTL 安全）。
func AuthJWT(j *auth.JWTer, db *gorm.DB, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		uid, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}

		u, err := loadUser(c.Request.Context(), db, cc, uid)
		if err != nil || u == nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "user not found"))
			return
		}

		c.Set(KeyUserID, u.ID)
		c.Set(KeyUser, u)
		c.Next()
	}
}

func loadUser(ctx context.Context, db *gorm.DB, cc *cache.Cache, uid uint) (*domain.User, error) {
	load := func(ctx context.Context) (*domain.User, error) {
		var u domain.User
		if err := db.WithContext(ctx).First(&u, uid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("user not found")
			}
			return nil, err
		}
		return &u, nil
	}
	if cc == nil {
		return load(ctx)
	}
	return cache.GetOrLoadJSON[domain.User](cc, ctx, fmt.Sprintf("user:%d", uid), time.Minute, load)
}

// CurrentUser 从上下文取出鉴权用户；仅在 AuthJWT 之后可用。
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(KeyUser)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
