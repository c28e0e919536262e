package ws

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/logx"

	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

// Group 同一前缀下的一组处理器，完整路由名为 "前缀.名称"。
type Group struct {
	prefix string
	router *Router
}

func (g *Group) Handle(name string, h HandlerFunc) {
	g.router.handle(g.prefix+"."+name, h)
}

// Router 按完整路由名分发客户端请求。注册只在启动阶段进行，之后只读。
type Router struct {
	handlers map[string]HandlerFunc
	log      logx.Logger
}

// Registrar 模块向路由注册自己的处理器。
type Registrar interface {
	WsRegister(r *Router)
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.Nop()
	}
	return &Router{
		handlers: make(map[string]HandlerFunc),
		log:      l,
	}
}

func (r *Router) Group(prefix string) *Group {
	return &Group{prefix: prefix, router: r}
}

func (r *Router) handle(route string, h HandlerFunc) {
	if _, _, ok := parseRouteName(route); !ok {
		panic(fmt.Sprintf("ws route %q 不合法", route))
	}
	if _, dup := r.handlers[route]; dup {
		panic(fmt.Sprintf("ws route %q 重复注册", route))
	}
	r.handlers[route] = h
}

// Routes 已注册的路由名，启动时打日志用。
func (r *Router) Routes() []string {
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Dispatch 路由名形如 match.choice；handler panic 只影响本次请求。
func (r *Router) Dispatch(req *WsMsgReq, resp *WsMsgResp) {
	if resp == nil || resp.Body == nil {
		return
	}
	action := "WS unknown"
	if req != nil && req.Body != nil {
		action = "WS " + req.Body.Name
	}
	ctx := transport.NewContext(action)
	// handler 漏设时按系统错误记
	resp.Body.Code = transport.SystemError
	resp.Body.Msg = nil
	defer r.writeAccessLog(ctx, resp)

	if req == nil || req.Body == nil {
		fail(resp, transport.InvalidParam, "参数有误")
		return
	}
	if req.Conn != nil {
		if pid, ok := req.Conn.GetProperty(ConnKeyPlayer).(string); ok {
			transport.SetSubject(ctx, "", pid)
		}
	}

	if _, _, ok := parseRouteName(req.Body.Name); !ok {
		fail(resp, transport.InvalidParam, "路由参数有误")
		return
	}
	h := r.handlers[req.Body.Name]
	if h == nil {
		fail(resp, transport.InvalidParam, "路由处理器不存在")
		return
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.WithContext(ctx).Error("ws handler panic", zap.String("route", req.Body.Name), zap.Any("panic", p))
			fail(resp, transport.SystemError, "系统繁忙，请稍后重试")
		}
	}()
	h(ctx, req, resp)
}

func parseRouteName(name string) (string, string, bool) {
	prefix, handler, ok := strings.Cut(name, ".")
	if !ok || prefix == "" || handler == "" || strings.Contains(handler, ".") {
		return "", "", false
	}
	return prefix, handler, true
}

func fail(resp *WsMsgResp, code int, msg string) {
	resp.Body.Code = code
	resp.Body.Msg = msg
}

func (r *Router) writeAccessLog(ctx context.Context, resp *WsMsgResp) {
	transport.SetBizCode(ctx, transport.BizCode(resp.Body.Code))
	transport.WriteAccessLog(ctx, r.log)
}
