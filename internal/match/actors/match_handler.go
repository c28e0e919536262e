package actors

import (
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
)

type MatchHandler struct{}

// 全局实例
var MH = &MatchHandler{}

func (h *MatchHandler) HandleCreateMatch(ctx actor.Context, m *MatchActor, req *messages.HMCreateMatch) {
	opCtx, cancel := m.opContext(req)
	defer cancel()
	ctx.Respond(reply(m.Service().CreateMatch(opCtx, m.dc, m.matchID, req.Seats)))
}

func (h *MatchHandler) HandleMatchState(ctx actor.Context, m *MatchActor, req *messages.HMMatchState) {
	s, err := m.Service().Snapshot(m.dc)
	if err != nil {
		ctx.Respond(fail(err))
		return
	}
	ctx.Respond(&messages.MHReply{State: s})
}

func (h *MatchHandler) HandleMatchLogs(ctx actor.Context, m *MatchActor, req *messages.HMMatchLogs) {
	opCtx, cancel := m.opContext(req)
	defer cancel()
	entries, err := m.Service().Logs(opCtx, m.dc, req.Limit)
	if err != nil {
		ctx.Respond(fail(err))
		return
	}
	ctx.Respond(&messages.MHReply{Logs: entries})
}

func (h *MatchHandler) HandleRollAndMove(ctx actor.Context, m *MatchActor, req *messages.HMRollAndMove) {
	opCtx, cancel := m.opContext(req)
	defer cancel()
	ctx.Respond(reply(m.Service().RollAndMove(opCtx, m.dc, req.PlayerID())))
}

func (h *MatchHandler) HandleCombatRound(ctx actor.Context, m *MatchActor, req *messages.HMCombatRound) {
	opCtx, cancel := m.opContext(req)
	defer cancel()
	ctx.Respond(reply(m.Service().CombatRound(opCtx, m.dc, req.PlayerID(), req.TargetID)))
}

func (h *MatchHandler) HandleRetreat(ctx actor.Context, m *MatchActor, req *messages.HMRetreat) {
	opCtx, cancel := m.opContext(req)
	defer cancel()
	ctx.Respond(reply(m.Service().Retreat(opCtx, m.dc, req.PlayerID())))
}

func (h *MatchHandler) HandleChallenge(ctx actor.Context, m *MatchActor, req *messages.HMChallenge) {
	opCtx, cancel := m.opContext(req)
	defer cancel()
	ctx.Respond(reply(m.Service().Challenge(opCtx, m.dc, req.PlayerID(), req.TargetID)))
}

func (h *MatchHandler) HandlePlaceTrap(ctx actor.Context, m *MatchActor, req *messages.HMPlaceTrap) {
	opCtx, cancel := m.opContext(req)
	defer cancel()
	ctx.Respond(reply(m.Service().PlaceTrap(opCtx, m.dc, req.PlayerID(), req.Tile)))
}

func (h *MatchHandler) HandlePlaceAmbush(ctx actor.Context, m *MatchActor, req *messages.HMPlaceAmbush) {
	opCtx, cancel := m.opContext(req)
	defer cancel()
	ctx.Respond(reply(m.Service().PlaceAmbush(opCtx, m.dc, req.PlayerID(), req.Tile)))
}

func (h *MatchHandler) HandleUseItem(ctx actor.Context, m *MatchActor, req *messages.HMUseItem) {
	opCtx, cancel := m.opContext(req)
	defer cancel()
	ctx.Respond(reply(m.Service().UseItem(opCtx, m.dc, req.PlayerID(), req.ItemID)))
}

func (h *MatchHandler) HandleEquip(ctx actor.Context, m *MatchActor, req *messages.HMEquip) {
	opCtx, cancel := m.opContext(req)
	defer cancel()
	ctx.Respond(reply(m.Service().Equip(opCtx, m.dc, req.PlayerID(), req.ItemID, req.Slot)))
}

func (h *MatchHandler) HandleUnequip(ctx actor.Context, m *MatchActor, req *messages.HMUnequip) {
	opCtx, cancel := m.opContext(req)
	defer cancel()
	ctx.Respond(reply(m.Service().Unequip(opCtx, m.dc, req.PlayerID(), req.Slot)))
}

func (h *MatchHandler) HandleResolveChoice(ctx actor.Context, m *MatchActor, req *messages.HMResolveChoice) {
	opCtx, cancel := m.opContext(req)
	defer cancel()
	ctx.Respond(reply(m.Service().ResolveChoice(opCtx, m.dc, req.PlayerID(), req.Choice)))
}

func (h *MatchHandler) HandleEndTurn(ctx actor.Context, m *MatchActor, req *messages.HMEndTurn) {
	opCtx, cancel := m.opContext(req)
	defer cancel()
	ctx.Respond(reply(m.Service().EndTurn(opCtx, m.dc, req.PlayerID())))
}
