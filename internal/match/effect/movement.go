package effect

import (
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/ledger"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/random"
)

// MoveSides 移动骰 1..4。
const MoveSides = 4

// MovementBonus 装备移动加值 + 账本移动加值，两者相加。
func MovementBonus(p *domain.Player) int {
	n := ledger.MovementBonus(p.Ledger)
	for _, it := range p.Equipped() {
		n += it.Movement
	}
	return n
}

// MoveRoll 掷移动骰并加上修正，步数不为负。
func MoveRoll(p *domain.Player, src random.Source) (die, steps int) {
	die = random.Roll(src, MoveSides)
	return die, max(0, die+MovementBonus(p))
}

// moveBy 前进/后退 1..3 格，落地后不再结算格子。
func moveBy(sign int) Handler {
	return func(in Input, cb Callbacks) Result {
		steps := min(orDefault(in.Value, 1), 3)
		var from, to int
		mutatePlayer(cb, in.Actor, func(p *domain.Player) {
			from = p.Position
			p.Position = domain.Clamp(p.Position+sign*steps, len(in.State.Tiles))
			to = p.Position
		})
		return done(msgf("%s 从第 %d 格移动到第 %d 格", name(in.State, in.Actor), from, to))
	}
}

func rollAgain(in Input, cb Callbacks) Result {
	p, _ := in.State.Player(in.Actor)
	die, steps := MoveRoll(p, cb.Rand)
	var to int
	mutatePlayer(cb, in.Actor, func(p *domain.Player) {
		p.Position = domain.Clamp(p.Position+steps, len(in.State.Tiles))
		to = p.Position
	})
	msg := msgf("%s 再掷出 %d，前进到第 %d 格", name(in.State, in.Actor), die, to)
	if cb.Log != nil {
		cb.Log("roll_again.move", msg, map[string]any{"die": die, "steps": steps, "to": to})
	}
	if cb.ResolveTile != nil {
		if err := cb.ResolveTile(in.Actor, in.Depth+1); err != nil {
			return fail(err)
		}
	}
	return done(msg)
}

// candidates 可被换位/决斗选中的玩家：存活、未隐身、不在圣所。
func candidates(s *domain.GameState, self domain.PlayerID, noDuel bool) []*domain.Player {
	var out []*domain.Player
	for _, id := range s.Order {
		p, found := s.Player(id)
		if !found || id == self || !p.Alive || p.Invisible {
			continue
		}
		t, found := s.Tile(p.Position)
		if !found || t.Type == domain.TileSanctuary || (noDuel && t.NoDuel()) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// nearest 距离最近的候选人，maxRange<=0 不限距离；并列时均匀随机。
func nearest(from int, cands []*domain.Player, maxRange int, src random.Source) (*domain.Player, bool) {
	best := -1
	var ties []*domain.Player
	for _, c := range cands {
		d := abs(c.Position - from)
		if maxRange > 0 && d > maxRange {
			continue
		}
		switch {
		case best < 0 || d < best:
			best = d
			ties = []*domain.Player{c}
		case d == best:
			ties = append(ties, c)
		}
	}
	return random.Pick(src, ties)
}

func swapNearest(in Input, cb Callbacks) Result {
	self, _ := in.State.Player(in.Actor)
	target, found := nearest(self.Position, candidates(in.State, in.Actor, false), 0, cb.Rand)
	if !found {
		return fizzle("没有可以交换位置的玩家")
	}
	tid := target.ID
	var a, b int
	cb.Mutate(func(s *domain.GameState) {
		me, _ := s.Player(in.Actor)
		other, _ := s.Player(tid)
		me.Position, other.Position = other.Position, me.Position
		a, b = me.Position, other.Position
	})
	res := done(msgf("%s 与 %s 交换位置（%d ↔ %d）", name(in.State, in.Actor), name(in.State, tid), a, b))
	res.Data.TargetID = tid
	return res
}

// DuelRange 决斗默认范围。
const DuelRange = 3

func duelNearest(in Input, cb Callbacks) Result {
	self, _ := in.State.Player(in.Actor)
	target, found := nearest(self.Position, candidates(in.State, in.Actor, true), orDefault(in.Value, DuelRange), cb.Rand)
	if !found {
		return fizzle("范围内没有可以决斗的玩家")
	}
	tid, pos := target.ID, target.Position
	mutatePlayer(cb, in.Actor, func(p *domain.Player) {
		p.Position = pos
	})
	if cb.StartCombat != nil {
		cb.StartCombat(&domain.CombatState{
			AttackerID:     in.Actor,
			Defenders:      []domain.Defender{{PlayerID: tid}},
			Source:         domain.SourceDuel,
			RetreatAllowed: false,
			TileIndex:      pos,
		})
	}
	res := done(msgf("%s 移动到第 %d 格向 %s 发起决斗", name(in.State, in.Actor), pos, name(in.State, tid)))
	res.Data.TargetID = tid
	return res
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
