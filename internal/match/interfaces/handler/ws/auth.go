package ws

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/security"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport/ws"
)

var errTokenMissing = errors.New("token missing")

// Auth 升级前校验令牌，令牌取自 ?token= 或 Authorization 头。
func Auth(parse func(string) (*security.Claims, error)) ws.AuthFunc {
	if parse == nil {
		parse = security.ParseToken
	}
	return func(r *http.Request) (map[string]any, error) {
		token := r.URL.Query().Get("token")
		if token == "" {
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			}
		}
		if token == "" {
			return nil, errTokenMissing
		}
		claims, err := parse(token)
		if err != nil {
			return nil, err
		}
		return map[string]any{ws.ConnKeyPlayer: claims.PlayerID}, nil
	}
}
