// Package turn 回合控制器：掷骰移动、格子结算、战斗推进、选择回填与回合轮转。
//
// 每个动作都在 Session 的文档副本上运行，返回错误时调用方丢弃副本，
// 因此这里不需要回滚半途的修改。
package turn

import (
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/deck"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/effect"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/random"
)

type Config struct {
	// MaxDepth 再掷骰等嵌套结算的深度上限
	MaxDepth int
}

type Controller struct {
	exec     *effect.Executor
	src      random.Source
	maxDepth int
}

func NewController(exec *effect.Executor, src random.Source, cfg Config) *Controller {
	if exec == nil {
		exec = effect.NewExecutor()
	}
	if src == nil {
		src = random.Crypto{}
	}
	depth := cfg.MaxDepth
	if depth <= 0 {
		depth = effect.MaxDepth
	}
	return &Controller{exec: exec, src: src, maxDepth: depth}
}

// actor 校验对局状态与回合归属，返回当前玩家。
func (c *Controller) actor(s *Session, id domain.PlayerID) (*domain.Player, error) {
	if s.State.Status == domain.StatusFinished {
		return nil, domain.Reject(domain.ReasonMatchFinished)
	}
	p, ok := s.State.Player(id)
	if !ok {
		return nil, domain.Missing("player", string(id))
	}
	if s.State.CurrentPlayerID() != id {
		return nil, domain.Reject(domain.ReasonNotYourTurn)
	}
	return p, nil
}

// idle 当前没有战斗或待完成的选择。
func (c *Controller) idle(s *Session) error {
	if s.State.Combat != nil {
		return domain.Reject(domain.ReasonCombatActive)
	}
	if s.State.Pending != nil {
		return domain.Reject(domain.ReasonChoicePending)
	}
	return nil
}

// ready 大多数主动动作的公共前置：轮到自己、没有打断、人还醒着。
func (c *Controller) ready(s *Session, id domain.PlayerID) (*domain.Player, error) {
	p, err := c.actor(s, id)
	if err != nil {
		return nil, err
	}
	if err := c.idle(s); err != nil {
		return nil, err
	}
	if !p.Alive {
		return nil, domain.Reject(domain.ReasonPlayerAsleep)
	}
	return p, nil
}

// settlePhase 动作结束后按打断状态落定阶段。
func (c *Controller) settlePhase(s *Session) {
	switch {
	case s.State.Combat != nil:
		s.State.Turn.Phase = domain.PhaseCombat
	case s.State.Pending != nil:
		s.State.Turn.Phase = domain.PhaseAwaitingChoice
	default:
		s.State.Turn.Phase = domain.PhaseEndTurn
	}
}

func (c *Controller) callbacks(s *Session, actor domain.PlayerID) effect.Callbacks {
	return effect.Callbacks{
		Mutate: func(fn func(st *domain.GameState)) { fn(s.State) },
		Log: func(action, message string, data map[string]any) {
			s.log(actor, action, message, data)
		},
		Draw: func(kind domain.CardKind, tier, count int) []domain.Card {
			return c.draw(s, actor, kind, tier, count)
		},
		StartCombat: func(cs *domain.CombatState) { c.startCombat(s, cs) },
		ResolveTile: func(id domain.PlayerID, depth int) error {
			return c.arrive(s, id, depth, false)
		},
		Rand: c.src,
	}
}

func (c *Controller) draw(s *Session, actor domain.PlayerID, kind domain.CardKind, tier, count int) []domain.Card {
	d := s.State.Deck(kind, tier)
	drawn, reshuffled := deck.Draw(d, count, c.src)
	if reshuffled {
		s.log(actor, "deck.reshuffle", "弃牌堆重洗为新牌堆", map[string]any{"deck": domain.DeckKey(kind, tier)})
	}
	if len(drawn) < count {
		s.log(actor, "deck.exhausted", "牌堆不足", map[string]any{"deck": domain.DeckKey(kind, tier), "want": count, "got": len(drawn)})
	}
	return drawn
}

func (c *Controller) startCombat(s *Session, cs *domain.CombatState) {
	s.State.Combat = cs
	s.State.Turn.Phase = domain.PhaseCombat
	s.emit(Event{Kind: EventCombat, PlayerID: cs.AttackerID, Combat: cs.Clone()})
}

// settle 应用效果结果里的后续：归还牌、发放宝藏、挂起选择。
func (c *Controller) settle(s *Session, actor domain.PlayerID, k effect.Kind, card *domain.LuckCard, res effect.Result) error {
	if !res.Success {
		return res.Err
	}
	if res.Data.RequiresReturn && res.Data.ReturnCard != nil {
		if err := deck.Return(s.State.Decks, res.Data.ReturnDeck, *res.Data.ReturnCard); err != nil {
			return err
		}
	}
	if len(res.Data.Treasures) > 0 {
		s.emit(Event{Kind: EventReveal, PlayerID: actor, Cards: res.Data.Treasures})
		c.grant(s, actor, res.Data.Treasures)
	}
	if res.Data.RequiresChoice {
		c.await(s, &domain.PendingChoice{
			Kind:       domain.ChoiceEffect,
			PlayerID:   actor,
			Effect:     k.String(),
			Card:       card.Clone(),
			TargetID:   res.Data.TargetID,
			Candidates: res.Data.Candidates,
		})
	}
	return nil
}

func (c *Controller) await(s *Session, ch *domain.PendingChoice) {
	s.State.Pending = ch
	s.State.Turn.Phase = domain.PhaseAwaitingChoice
	s.emit(Event{Kind: EventChoice, PlayerID: ch.PlayerID, Choice: ch.Clone()})
}

// grant 把宝藏放进背包，放不下的挂起溢出选择。
func (c *Controller) grant(s *Session, actor domain.PlayerID, treasures []domain.Card) {
	p, ok := s.State.Player(actor)
	if !ok {
		return
	}
	var overflow []*domain.Item
	for _, card := range treasures {
		if card.Item == nil {
			continue
		}
		if !p.Store(card.Item.Clone()) {
			overflow = append(overflow, card.Item.Clone())
		}
	}
	if len(overflow) == 0 {
		return
	}
	if ch := s.State.Pending; ch != nil && ch.Kind == domain.ChoiceOverflow && ch.PlayerID == actor {
		ch.Overflow = append(ch.Overflow, overflow...)
		return
	}
	s.log(actor, "inventory.overflow", "背包已满，需要选择保留的物品", map[string]any{"overflow": len(overflow)})
	c.await(s, &domain.PendingChoice{
		Kind:     domain.ChoiceOverflow,
		PlayerID: actor,
		Overflow: overflow,
		Capacity: len(p.Inventory),
	})
}
