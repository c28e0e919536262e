package ws

import (
	"net/http"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/logx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// AuthFunc 升级前校验请求，返回要挂到连接上的属性。
type AuthFunc func(r *http.Request) (map[string]any, error)

type Server struct {
	router *Router
	auth   AuthFunc
	log    logx.Logger
}

func NewServer(r *Router, auth AuthFunc, l logx.Logger) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		router: r,
		auth:   auth,
		log:    l,
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	var props map[string]any
	if s.auth != nil {
		p, err := s.auth(req)
		if err != nil {
			s.log.Info("websocket auth rejected", zap.String("remote", req.RemoteAddr), zap.Error(err))
			http.Error(resp, "unauthorized", http.StatusUnauthorized)
			return
		}
		props = p
	}

	upgrader := websocket.Upgrader{
		// 允许所有CORS跨域请求
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	wsConn, err := upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	s.log.Info("websocket upgrade success", zap.String("remote", wsConn.RemoteAddr().String()))

	wsServer := NewWsServer(wsConn, s.log)
	for k, v := range props {
		wsServer.SetProperty(k, v)
	}
	wsServer.Router(s.router)
	wsServer.Run()
}
