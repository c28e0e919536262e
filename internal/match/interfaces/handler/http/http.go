package http

import (
	"context"
	nethttp "net/http"
	"strconv"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/interfaces/handler"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/turn"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/actor/messages"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/security"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultLogLimit = 50

type Options struct {
	// DevRoutes 开放开局与签发令牌接口，只用于本地联调
	DevRoutes bool
	Parse     ParseFunc
}

type HttpHandler struct {
	cmds handler.Commands
	log  logx.Logger
	opts Options
}

func NewHttpHandler(cmds handler.Commands, l logx.Logger, opts Options) *HttpHandler {
	if l == nil {
		l = logx.Nop()
	}
	return &HttpHandler{cmds: cmds, log: l, opts: opts}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	if h.opts.DevRoutes {
		dev := group.Group("/dev")
		dev.POST("/token", h.IssueToken)
		dev.POST("/matches", h.CreateMatch)
		dev.POST("/matches/:id", h.CreateMatch)
	}

	matches := group.Group("/matches/:id", Auth(h.opts.Parse))
	matches.GET("/state", h.State)
	matches.GET("/logs", h.Logs)
	matches.POST("/roll", h.Roll)
	matches.POST("/combat", h.Combat)
	matches.POST("/retreat", h.Retreat)
	matches.POST("/challenge", h.Challenge)
	matches.POST("/trap", h.Trap)
	matches.POST("/ambush", h.Ambush)
	matches.POST("/use", h.UseItem)
	matches.POST("/equip", h.Equip)
	matches.POST("/unequip", h.Unequip)
	matches.POST("/choice", h.Choice)
	matches.POST("/end", h.EndTurn)
}

// ============ Dev ============

func (h *HttpHandler) IssueToken(c *gin.Context) {
	var req IssueTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	token, err := security.Award(req.PlayerID, 0)
	if err != nil {
		h.error(c.Request.Context(), c, "match.token", err)
		return
	}
	h.ok(c, IssueTokenResp{Token: token})
}

func (h *HttpHandler) CreateMatch(c *gin.Context) {
	var req CreateMatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	ctx := c.Request.Context()
	id := domain.MatchID(c.Param("id"))
	if id == "" {
		id = domain.MatchID(uuid.NewString())
	}
	transport.SetSubject(ctx, string(id), "")
	h.outcome(c, "match.create", &messages.HMCreateMatch{
		MatchBaseMessage: h.cmds.Base(ctx, id, ""),
		Seats:            req.Seats,
	})
}

// ============ Queries ============

func (h *HttpHandler) State(c *gin.Context) {
	ctx, base := h.base(c)
	reply, err := h.cmds.Ask(ctx, &messages.HMMatchState{MatchBaseMessage: base})
	if err != nil {
		h.error(ctx, c, "match.state", err)
		return
	}
	h.ok(c, reply.State)
}

func (h *HttpHandler) Logs(c *gin.Context) {
	ctx, base := h.base(c)
	limit := defaultLogLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.fail(c, transport.InvalidParam, "limit 参数有误")
			return
		}
		limit = n
	}
	reply, err := h.cmds.Ask(ctx, &messages.HMMatchLogs{MatchBaseMessage: base, Limit: limit})
	if err != nil {
		h.error(ctx, c, "match.logs", err)
		return
	}
	h.ok(c, reply.Logs)
}

// ============ Commands ============

func (h *HttpHandler) Roll(c *gin.Context) {
	_, base := h.base(c)
	h.outcome(c, "match.roll", &messages.HMRollAndMove{MatchBaseMessage: base})
}

func (h *HttpHandler) Combat(c *gin.Context) {
	var req TargetReq
	if !h.bind(c, &req) {
		return
	}
	_, base := h.base(c)
	h.outcome(c, "match.combat", &messages.HMCombatRound{MatchBaseMessage: base, TargetID: req.TargetID})
}

func (h *HttpHandler) Retreat(c *gin.Context) {
	_, base := h.base(c)
	h.outcome(c, "match.retreat", &messages.HMRetreat{MatchBaseMessage: base})
}

func (h *HttpHandler) Challenge(c *gin.Context) {
	var req TargetReq
	if !h.bind(c, &req) {
		return
	}
	_, base := h.base(c)
	h.outcome(c, "match.challenge", &messages.HMChallenge{MatchBaseMessage: base, TargetID: domain.PlayerID(req.TargetID)})
}

func (h *HttpHandler) Trap(c *gin.Context) {
	var req TileReq
	if !h.bind(c, &req) {
		return
	}
	_, base := h.base(c)
	h.outcome(c, "match.trap", &messages.HMPlaceTrap{MatchBaseMessage: base, Tile: *req.Tile})
}

func (h *HttpHandler) Ambush(c *gin.Context) {
	var req TileReq
	if !h.bind(c, &req) {
		return
	}
	_, base := h.base(c)
	h.outcome(c, "match.ambush", &messages.HMPlaceAmbush{MatchBaseMessage: base, Tile: *req.Tile})
}

func (h *HttpHandler) UseItem(c *gin.Context) {
	var req ItemReq
	if !h.bind(c, &req) {
		return
	}
	_, base := h.base(c)
	h.outcome(c, "match.use", &messages.HMUseItem{MatchBaseMessage: base, ItemID: req.ItemID})
}

func (h *HttpHandler) Equip(c *gin.Context) {
	var req EquipReq
	if !h.bind(c, &req) {
		return
	}
	_, base := h.base(c)
	h.outcome(c, "match.equip", &messages.HMEquip{MatchBaseMessage: base, ItemID: req.ItemID, Slot: *req.Slot})
}

func (h *HttpHandler) Unequip(c *gin.Context) {
	var req SlotReq
	if !h.bind(c, &req) {
		return
	}
	_, base := h.base(c)
	h.outcome(c, "match.unequip", &messages.HMUnequip{MatchBaseMessage: base, Slot: *req.Slot})
}

func (h *HttpHandler) Choice(c *gin.Context) {
	var req turn.Choice
	if !h.bind(c, &req) {
		return
	}
	_, base := h.base(c)
	h.outcome(c, "match.choice", &messages.HMResolveChoice{MatchBaseMessage: base, Choice: req})
}

func (h *HttpHandler) EndTurn(c *gin.Context) {
	_, base := h.base(c)
	h.outcome(c, "match.end", &messages.HMEndTurn{MatchBaseMessage: base})
}

// ============ Helpers ============

// base 组装消息头并记录访问日志的主体。
func (h *HttpHandler) base(c *gin.Context) (context.Context, messages.MatchBaseMessage) {
	ctx := c.Request.Context()
	id := c.Param("id")
	pid := playerFrom(c)
	transport.SetSubject(ctx, id, pid)
	return ctx, h.cmds.Base(ctx, domain.MatchID(id), domain.PlayerID(pid))
}

func (h *HttpHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return false
	}
	return true
}

func (h *HttpHandler) outcome(c *gin.Context, action string, msg messages.MatchMessage) {
	ctx := c.Request.Context()
	reply, err := h.cmds.Ask(ctx, msg)
	if err != nil {
		h.error(ctx, c, action, err)
		return
	}
	h.ok(c, OutcomeResp{State: reply.State, Patch: reply.Patch, Events: reply.Events})
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, Response{Code: transport.OK, Data: data})
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(code, Response{Code: code, Message: msg})
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, action string, err error) {
	f := handler.HandleError(ctx, h.log, action, err)
	c.JSON(f.Code, Response{Code: f.Code, Reason: f.Reason, Message: f.Message})
}
