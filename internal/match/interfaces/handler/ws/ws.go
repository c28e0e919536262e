package ws

import (
	"context"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/interfaces/handler"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/turn"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/actor/messages"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/session"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport/ws"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/logx"
)

type SubscribeReq struct {
	MatchID string `json:"match_id"`
}

type ChoiceReq struct {
	MatchID string                 `json:"match_id"`
	ItemID  string                 `json:"item_id"`
	Keep    []string               `json:"keep"`
	Equip   map[string]domain.Slot `json:"equip"`
}

type WsHandler struct {
	cmds handler.Commands
	sess session.Manager
	log  logx.Logger
}

func NewWsHandler(cmds handler.Commands, s session.Manager, l logx.Logger) *WsHandler {
	if l == nil {
		l = logx.Nop()
	}
	return &WsHandler{cmds: cmds, sess: s, log: l}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	g := r.Group("match")
	g.Handle("subscribe", h.Subscribe)
	g.Handle("state", h.State)
	g.Handle("choice", h.Choice)
}

// Subscribe 订阅对局推送，回当前状态；重连后靠它补齐错过的 pending 选择。
func (h *WsHandler) Subscribe(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	var req SubscribeReq
	pid, ok := h.prepare(ctx, wsReq, wsResp, &req, func() string { return req.MatchID })
	if !ok {
		return
	}
	reply, err := h.cmds.Ask(ctx, &messages.HMMatchState{
		MatchBaseMessage: h.cmds.Base(ctx, domain.MatchID(req.MatchID), domain.PlayerID(pid)),
	})
	if err != nil {
		h.error(ctx, wsResp, "match.subscribe", err)
		return
	}
	h.sess.Bind(req.MatchID, pid, wsReq.Conn)
	h.ok(wsResp, reply.State)
}

func (h *WsHandler) State(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	var req SubscribeReq
	pid, ok := h.prepare(ctx, wsReq, wsResp, &req, func() string { return req.MatchID })
	if !ok {
		return
	}
	reply, err := h.cmds.Ask(ctx, &messages.HMMatchState{
		MatchBaseMessage: h.cmds.Base(ctx, domain.MatchID(req.MatchID), domain.PlayerID(pid)),
	})
	if err != nil {
		h.error(ctx, wsResp, "match.state", err)
		return
	}
	h.ok(wsResp, reply.State)
}

// Choice 回应服务端推送的 match.choice。
func (h *WsHandler) Choice(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	var req ChoiceReq
	pid, ok := h.prepare(ctx, wsReq, wsResp, &req, func() string { return req.MatchID })
	if !ok {
		return
	}
	reply, err := h.cmds.Ask(ctx, &messages.HMResolveChoice{
		MatchBaseMessage: h.cmds.Base(ctx, domain.MatchID(req.MatchID), domain.PlayerID(pid)),
		Choice:           turn.Choice{ItemID: req.ItemID, Keep: req.Keep, Equip: req.Equip},
	})
	if err != nil {
		h.error(ctx, wsResp, "match.choice", err)
		return
	}
	h.ok(wsResp, reply.State)
}

// prepare 解码请求并取出连接上的玩家身份。
func (h *WsHandler) prepare(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp, dst any, matchID func() string) (string, bool) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return "", false
	}
	if err := ws.BindJSON(wsReq, dst); err != nil || matchID() == "" {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return "", false
	}
	pid, _ := wsReq.Conn.GetProperty(ws.ConnKeyPlayer).(string)
	if pid == "" {
		h.fail(wsResp, transport.Unauthorized, "未登录")
		return "", false
	}
	transport.SetSubject(ctx, matchID(), pid)
	return pid, true
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}

func (h *WsHandler) error(ctx context.Context, resp *ws.WsMsgResp, action string, err error) {
	f := handler.HandleError(ctx, h.log, action, err)
	h.fail(resp, f.Code, f.Message)
}
