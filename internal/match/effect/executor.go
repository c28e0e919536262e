// Package effect 效果执行器：按效果标识查注册表并调用处理函数。
//
// 处理函数只通过 Callbacks 改动对局：Mutate 修改文档，Draw 抽牌，
// StartCombat 开启战斗，ResolveTile 重新进入格子结算。
package effect

import (
	"fmt"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/random"
)

// MaxDepth 再掷骰、后退等嵌套结算的最大深度。
const MaxDepth = 3

type Input struct {
	// State 当前文档的只读视图，修改一律经 Callbacks.Mutate
	State *domain.GameState
	Actor domain.PlayerID
	// Value 牌面数值，0 时由处理函数取默认值
	Value     int
	TargetID  domain.PlayerID
	ItemID    string
	TileIndex int
	// Tier 触发格子的档位
	Tier  int
	Depth int
	Card  *domain.LuckCard
}

type Callbacks struct {
	Mutate      func(fn func(s *domain.GameState))
	Log         func(action, message string, data map[string]any)
	Draw        func(kind domain.CardKind, tier, count int) []domain.Card
	StartCombat func(c *domain.CombatState)
	ResolveTile func(playerID domain.PlayerID, depth int) error
	Rand        random.Source
}

type Data struct {
	RequiresChoice bool              `json:"requires_choice,omitempty"`
	ChoiceKind     domain.ChoiceKind `json:"choice_kind,omitempty"`
	Candidates     []string          `json:"candidates,omitempty"`
	TargetID       domain.PlayerID   `json:"target_id,omitempty"`
	Treasures      []domain.Card     `json:"treasures,omitempty"`
	RequiresReturn bool              `json:"requires_return,omitempty"`
	ReturnDeck     string            `json:"return_deck,omitempty"`
	ReturnCard     *domain.Card      `json:"return_card,omitempty"`
	// Fizzled 没有合法目标，效果落空
	Fizzled bool `json:"fizzled,omitempty"`
	// Banked 牌被暗置保留，不进弃牌堆
	Banked bool `json:"banked,omitempty"`
}

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Err     error  `json:"-"`
	Data    Data   `json:"data"`
}

func done(msg string) Result {
	return Result{Success: true, Message: msg}
}

func fizzle(msg string) Result {
	return Result{Success: true, Message: msg, Data: Data{Fizzled: true}}
}

func fail(err error) Result {
	return Result{Success: false, Message: err.Error(), Err: err}
}

type Handler func(in Input, cb Callbacks) Result

type Executor struct {
	handlers map[Kind]Handler
}

// NewExecutor 注册全部内置效果。
func NewExecutor() *Executor {
	e := &Executor{handlers: make(map[Kind]Handler, len(kindNames))}
	e.Register(MoveForward, moveBy(1))
	e.Register(MoveBack, moveBy(-1))
	e.Register(SkipTurn, skipTurn)
	e.Register(RollAgain, rollAgain)
	e.Register(DrawTreasure, drawTreasure)
	e.Register(StealItem, stealItem)
	e.Register(LoseHP, loseHP)
	e.Register(Heal, heal)
	e.Register(SwapNearest, swapNearest)
	e.Register(DuelNearest, duelNearest)
	e.Register(Blessing, timed(domain.EffectBlessing, 1, 0, 0))
	e.Register(Curse, timed(domain.EffectCurse, 0, -1, 0))
	e.Register(Haste, timed(domain.EffectHaste, 0, 0, 1))
	e.Register(Slow, timed(domain.EffectSlow, 0, 0, -1))
	e.Register(Invisibility, invisibility)
	e.Register(TrapCard, bank(domain.CardTrap))
	e.Register(AmbushCard, bank(domain.CardAmbush))
	e.Register(WardCard, bank(domain.CardWard))
	e.Register(PlaceTrap, place(domain.CardTrap))
	e.Register(PlaceAmbush, place(domain.CardAmbush))
	e.Register(UseItem, useItem)
	return e
}

// Register 覆盖已有的同名处理函数。
func (e *Executor) Register(k Kind, h Handler) {
	e.handlers[k] = h
}

func (e *Executor) Has(k Kind) bool {
	_, ok := e.handlers[k]
	return ok
}

// Execute 按字符串标识执行，未知标识返回失败结果，不修改文档。
func (e *Executor) Execute(id string, in Input, cb Callbacks) Result {
	k, found := ParseKind(id)
	if !found {
		return fail(domain.ErrPrecondition.WithReason(domain.ReasonUnknownEffect).WithData("effect", id))
	}
	return e.Run(k, in, cb)
}

func (e *Executor) Run(k Kind, in Input, cb Callbacks) Result {
	h, found := e.handlers[k]
	if !found {
		return fail(domain.ErrPrecondition.WithReason(domain.ReasonUnknownEffect).WithData("effect", k.String()))
	}
	if in.State == nil {
		return fail(domain.Missing("match", ""))
	}
	if _, found := in.State.Player(in.Actor); !found {
		return fail(domain.Missing("player", string(in.Actor)))
	}
	res := h(in, cb)
	if cb.Log != nil && res.Success {
		cb.Log(k.String(), res.Message, map[string]any{"fizzled": res.Data.Fizzled})
	}
	return res
}

// mutatePlayer 在 Mutate 中修改指定玩家。
func mutatePlayer(cb Callbacks, id domain.PlayerID, fn func(p *domain.Player)) {
	cb.Mutate(func(s *domain.GameState) {
		if p, found := s.Player(id); found {
			fn(p)
		}
	})
}

func name(s *domain.GameState, id domain.PlayerID) string {
	if p, found := s.Player(id); found && p.Name != "" {
		return p.Name
	}
	return string(id)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func msgf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
