package ws

import (
	"context"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/app/port"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/session"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/logx"

	"go.uber.org/zap"
)

// 推送消息名
const (
	PushReveal   = "match.reveal"
	PushCombat   = "match.combat"
	PushChoice   = "match.choice"
	PushFinished = "match.finished"
)

type RevealPush struct {
	MatchID  domain.MatchID  `json:"match_id"`
	PlayerID domain.PlayerID `json:"player_id"`
	Cards    []domain.Card   `json:"cards"`
}

type CombatPush struct {
	MatchID domain.MatchID      `json:"match_id"`
	Combat  *domain.CombatState `json:"combat"`
}

type ChoicePush struct {
	MatchID domain.MatchID        `json:"match_id"`
	Choice  *domain.PendingChoice `json:"choice"`
}

type FinishedPush struct {
	MatchID  domain.MatchID  `json:"match_id"`
	WinnerID domain.PlayerID `json:"winner_id"`
}

// Presenter 通过 ws 会话推送对局事件。翻牌、战斗、结束广播给整局，选择只推给当事人。
type Presenter struct {
	sess session.Manager
	log  logx.Logger
}

var _ port.Presenter = (*Presenter)(nil)

func NewPresenter(s session.Manager, l logx.Logger) *Presenter {
	if l == nil {
		l = logx.Nop()
	}
	return &Presenter{sess: s, log: l}
}

func (p *Presenter) RevealCards(ctx context.Context, id domain.MatchID, playerID domain.PlayerID, cards []domain.Card) {
	p.broadcast(ctx, id, PushReveal, RevealPush{MatchID: id, PlayerID: playerID, Cards: cards})
}

func (p *Presenter) ShowCombat(ctx context.Context, id domain.MatchID, combat *domain.CombatState) {
	p.broadcast(ctx, id, PushCombat, CombatPush{MatchID: id, Combat: combat})
}

func (p *Presenter) RequireChoice(ctx context.Context, id domain.MatchID, playerID domain.PlayerID, choice *domain.PendingChoice) {
	conn, ok := p.sess.GetConn(string(id), string(playerID))
	if !ok {
		// 玩家不在线，重连后从对局状态里的 pending 取
		p.log.WithContext(ctx).Debug("choice push skipped, player offline",
			zap.String("match_id", string(id)), zap.String("player_id", string(playerID)))
		return
	}
	conn.Push(PushChoice, ChoicePush{MatchID: id, Choice: choice})
}

func (p *Presenter) MatchFinished(ctx context.Context, id domain.MatchID, winnerID domain.PlayerID) {
	p.broadcast(ctx, id, PushFinished, FinishedPush{MatchID: id, WinnerID: winnerID})
}

func (p *Presenter) broadcast(ctx context.Context, id domain.MatchID, name string, data any) {
	conns := p.sess.Conns(string(id))
	for _, conn := range conns {
		conn.Push(name, data)
	}
	p.log.WithContext(ctx).Debug("match push", zap.String("name", name),
		zap.String("match_id", string(id)), zap.Int("conns", len(conns)))
}
