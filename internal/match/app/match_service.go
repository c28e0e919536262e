package app

import (
	"context"
	"errors"
	"strconv"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/app/port"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/turn"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/random"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/errx"
)

// Document 一局比赛已加载的文档，由数据中心实现。
type Document interface {
	State() *domain.GameState
	Loaded() bool
	Create(ctx context.Context, s *domain.GameState, entries []domain.LogEntry) error
	Commit(ctx context.Context, next *domain.GameState, entries []domain.LogEntry) (domain.Patch, error)
	Reload(ctx context.Context) (*domain.GameState, error)
	Logs(ctx context.Context, limit int) ([]domain.LogEntry, error)
}

// Outcome 一条命令提交后的结果。
type Outcome struct {
	State  *domain.GameState `json:"state"`
	Patch  domain.Patch      `json:"patch"`
	Events []turn.Event      `json:"events,omitempty"`
}

type MatchService struct {
	ctrl      *turn.Controller
	presenter port.Presenter
	src       random.Source
}

func NewMatchService(ctrl *turn.Controller, presenter port.Presenter, src random.Source) *MatchService {
	if ctrl == nil {
		ctrl = turn.NewController(nil, src, turn.Config{})
	}
	if presenter == nil {
		presenter = port.NopPresenter{}
	}
	if src == nil {
		src = random.Crypto{}
	}
	return &MatchService{ctrl: ctrl, presenter: presenter, src: src}
}

// CreateMatch 开局并写入存储。
func (s *MatchService) CreateMatch(ctx context.Context, d Document, id domain.MatchID, seats []turn.Seat) (*Outcome, error) {
	if d.Loaded() {
		return nil, domain.ErrPrecondition.WithReason(domain.ReasonMatchExists).WithData("match_id", string(id))
	}
	state, err := turn.NewGame(id, seats, s.src)
	if err != nil {
		return nil, err
	}
	state.RandomSource = "crypto"
	if src, ok := s.src.(*random.Seeded); ok {
		state.RandomSource = "seeded:" + strconv.FormatUint(src.Seed(), 10)
	}
	entry := domain.LogEntry{
		MatchID: id,
		Action:  "match.create",
		Message: "对局开始",
		Data:    map[string]any{"players": len(seats)},
		Time:    state.CreatedAt,
	}
	if err := d.Create(ctx, state, []domain.LogEntry{entry}); err != nil {
		return nil, storeErr(err)
	}
	return &Outcome{State: d.State().Clone()}, nil
}

// Snapshot 当前文档的只读副本。
func (s *MatchService) Snapshot(d Document) (*domain.GameState, error) {
	if !d.Loaded() {
		return nil, ErrMatchNotFound
	}
	return d.State().Clone(), nil
}

func (s *MatchService) Logs(ctx context.Context, d Document, limit int) ([]domain.LogEntry, error) {
	if !d.Loaded() {
		return nil, ErrMatchNotFound
	}
	entries, err := d.Logs(ctx, limit)
	if err != nil {
		return nil, ErrUnavailable.WithReason(ReasonLogReadFail).WithCause(err)
	}
	return entries, nil
}

func (s *MatchService) RollAndMove(ctx context.Context, d Document, id domain.PlayerID) (*Outcome, error) {
	return s.run(ctx, d, func(c *turn.Controller, ss *turn.Session) error {
		return c.RollAndMove(ss, id)
	})
}

func (s *MatchService) CombatRound(ctx context.Context, d Document, id domain.PlayerID, targetID string) (*Outcome, error) {
	return s.run(ctx, d, func(c *turn.Controller, ss *turn.Session) error {
		return c.CombatRound(ss, id, targetID)
	})
}

func (s *MatchService) Retreat(ctx context.Context, d Document, id domain.PlayerID) (*Outcome, error) {
	return s.run(ctx, d, func(c *turn.Controller, ss *turn.Session) error {
		return c.Retreat(ss, id)
	})
}

func (s *MatchService) Challenge(ctx context.Context, d Document, id, targetID domain.PlayerID) (*Outcome, error) {
	return s.run(ctx, d, func(c *turn.Controller, ss *turn.Session) error {
		return c.Challenge(ss, id, targetID)
	})
}

func (s *MatchService) PlaceTrap(ctx context.Context, d Document, id domain.PlayerID, tile int) (*Outcome, error) {
	return s.run(ctx, d, func(c *turn.Controller, ss *turn.Session) error {
		return c.PlaceTrap(ss, id, tile)
	})
}

func (s *MatchService) PlaceAmbush(ctx context.Context, d Document, id domain.PlayerID, tile int) (*Outcome, error) {
	return s.run(ctx, d, func(c *turn.Controller, ss *turn.Session) error {
		return c.PlaceAmbush(ss, id, tile)
	})
}

func (s *MatchService) UseItem(ctx context.Context, d Document, id domain.PlayerID, itemID string) (*Outcome, error) {
	return s.run(ctx, d, func(c *turn.Controller, ss *turn.Session) error {
		return c.UseItem(ss, id, itemID)
	})
}

func (s *MatchService) Equip(ctx context.Context, d Document, id domain.PlayerID, itemID string, slot domain.Slot) (*Outcome, error) {
	return s.run(ctx, d, func(c *turn.Controller, ss *turn.Session) error {
		return c.Equip(ss, id, itemID, slot)
	})
}

func (s *MatchService) Unequip(ctx context.Context, d Document, id domain.PlayerID, slot domain.Slot) (*Outcome, error) {
	return s.run(ctx, d, func(c *turn.Controller, ss *turn.Session) error {
		return c.Unequip(ss, id, slot)
	})
}

func (s *MatchService) ResolveChoice(ctx context.Context, d Document, id domain.PlayerID, ch turn.Choice) (*Outcome, error) {
	return s.run(ctx, d, func(c *turn.Controller, ss *turn.Session) error {
		return c.ResolveChoice(ss, id, ch)
	})
}

func (s *MatchService) EndTurn(ctx context.Context, d Document, id domain.PlayerID) (*Outcome, error) {
	return s.run(ctx, d, func(c *turn.Controller, ss *turn.Session) error {
		return c.EndTurn(ss, id)
	})
}

// run 读-改-写：在副本上执行动作，差异作为补丁提交，成功后才推送事件。
// 动作失败时副本直接丢弃，文档不变。
func (s *MatchService) run(ctx context.Context, d Document, action func(c *turn.Controller, ss *turn.Session) error) (*Outcome, error) {
	if !d.Loaded() {
		return nil, ErrMatchNotFound
	}
	ss := turn.NewSession(d.State().Clone())
	if err := action(s.ctrl, ss); err != nil {
		return nil, err
	}

	patch, err := d.Commit(ctx, ss.State, ss.Logs)
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			// 有绕过本进程的写入，丢弃缓存，调用方可以重试
			if _, lerr := d.Reload(ctx); lerr != nil {
				return nil, ErrUnavailable.WithReason(ReasonStateLoadFail).WithCause(lerr)
			}
			return nil, err
		}
		return nil, storeErr(err)
	}

	s.present(ctx, d.State().MatchID, ss.Events)
	return &Outcome{State: d.State().Clone(), Patch: patch, Events: ss.Events}, nil
}

func (s *MatchService) present(ctx context.Context, id domain.MatchID, events []turn.Event) {
	for _, e := range events {
		switch e.Kind {
		case turn.EventReveal:
			s.presenter.RevealCards(ctx, id, e.PlayerID, e.Cards)
		case turn.EventCombat:
			s.presenter.ShowCombat(ctx, id, e.Combat)
		case turn.EventChoice:
			s.presenter.RequireChoice(ctx, id, e.PlayerID, e.Choice)
		case turn.EventFinished:
			s.presenter.MatchFinished(ctx, id, e.PlayerID)
		}
	}
}

// storeErr 业务错误原样返回，其余视作存储不可用。
func storeErr(err error) error {
	if e, ok := errx.From(err); ok && e.IsBiz() {
		return err
	}
	return ErrUnavailable.WithReason(ReasonStateCommitFail).WithCause(err)
}
