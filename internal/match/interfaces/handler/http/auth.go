package http

import (
	nethttp "net/http"
	"strings"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/security"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport"

	"github.com/gin-gonic/gin"
)

const ctxKeyPlayer = "match.player_id"

// ParseFunc 令牌解析，默认走 security.ParseToken。
type ParseFunc func(token string) (*security.Claims, error)

// Auth 校验 Bearer 令牌，把玩家 id 挂到 gin 上下文。
func Auth(parse ParseFunc) gin.HandlerFunc {
	if parse == nil {
		parse = security.ParseToken
	}
	return func(c *gin.Context) {
		token := bearer(c.GetHeader("Authorization"))
		if token == "" {
			abortUnauthorized(c, "缺少令牌")
			return
		}
		claims, err := parse(token)
		if err != nil {
			abortUnauthorized(c, "令牌无效")
			return
		}
		c.Set(ctxKeyPlayer, claims.PlayerID)
		c.Next()
	}
}

func bearer(h string) string {
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(nethttp.StatusUnauthorized, Response{
		Code:    transport.Unauthorized,
		Reason:  "UNAUTHORIZED",
		Message: msg,
	})
}

func playerFrom(c *gin.Context) string {
	return c.GetString(ctxKeyPlayer)
}
