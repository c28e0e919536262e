package http

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport/http/middleware"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

// Registrar 模块向 HTTP 路由组注册自己的接口。
type Registrar interface {
	HttpRegister(g *gin.RouterGroup)
}

type Server struct {
	engine *gin.Engine
	group  *gin.RouterGroup
	srv    *nethttp.Server
}

func NewHttpServer(add string, engine *gin.Engine, logger logx.Logger) *Server {
	if engine == nil {
		engine = gin.New()
		engine.Use(gin.Recovery())
	}
	engine.Use(middleware.Cors())
	engine.Use(middleware.AccessLog(logger))
	engine.GET("/healthz", healthz)

	return &Server{
		engine: engine,
		group:  engine.Group(""),
		srv: &nethttp.Server{
			Addr:              add,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

func healthz(c *gin.Context) {
	c.JSON(nethttp.StatusOK, gin.H{"status": "ok", "time": time.Now().UnixMilli()})
}

// Start 启动 HTTP 服务（阻塞）。关闭时返回 net/http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Register 按顺序挂载各模块的路由。
func (s *Server) Register(mods ...Registrar) {
	for _, m := range mods {
		m.HttpRegister(s.group)
	}
}

func (s *Server) Group() *gin.RouterGroup {
	return s.group
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}
