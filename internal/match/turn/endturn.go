package turn

import (
	"fmt"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/ledger"
)

// EndTurn 结束回合：递减账本，轮到下一名玩家。
// 昏睡的玩家满血醒来并失去这个回合，持有跳过条目的玩家消耗它并失去这个回合。
func (c *Controller) EndTurn(s *Session, id domain.PlayerID) error {
	p, err := c.actor(s, id)
	if err != nil {
		return err
	}
	if err := c.idle(s); err != nil {
		return err
	}
	if p.Alive && !p.ActionTaken {
		return domain.Reject(domain.ReasonMustRoll)
	}
	expire(p)
	p.ActionTaken = false
	s.log(id, "end_turn", fmt.Sprintf("%s 结束回合", p.Name), nil)

	n := len(s.State.Order)
	for range n {
		s.State.Turn.Index = (s.State.Turn.Index + 1) % n
		s.State.Turn.Number++
		next, ok := s.State.Player(s.State.CurrentPlayerID())
		if !ok {
			continue
		}
		next.ActionTaken = false
		switch {
		case !next.Alive:
			next.HP = next.MaxHP
			next.Alive = true
			expire(next)
			s.log(next.ID, "wake", fmt.Sprintf("%s 醒来，本回合跳过", next.Name), nil)
			continue
		case ledger.Has(next.Ledger, domain.EffectSkipTurn):
			next.Ledger = ledger.Remove(next.Ledger, domain.EffectSkipTurn)
			expire(next)
			s.log(next.ID, "skip_turn", fmt.Sprintf("%s 跳过本回合", next.Name), nil)
			continue
		}
		break
	}
	s.State.Turn.ChallengeUsed = false
	s.State.Turn.Phase = domain.PhaseRolling
	return nil
}

// expire 回合结束时递减账本，隐身条目消失时同步清掉隐身标记。
func expire(p *domain.Player) {
	p.Ledger = ledger.DecrementAll(p.Ledger)
	if !ledger.Has(p.Ledger, domain.EffectInvisible) {
		p.Invisible = false
	}
}
