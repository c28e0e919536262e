package interfaces

import (
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/interfaces/handler"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/interfaces/handler/http"
	ws2 "github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/interfaces/handler/ws"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/session"
	transporthttp "github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport/http"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport/ws"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type Module struct {
	wsHandler   *ws2.WsHandler
	httpHandler *http.HttpHandler
}

func New(cmds handler.Commands, s session.Manager, l logx.Logger, opts http.Options) *Module {
	return &Module{
		wsHandler:   ws2.NewWsHandler(cmds, s, l),
		httpHandler: http.NewHttpHandler(cmds, l, opts),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
