package turn

import (
	"fmt"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/combat"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/deck"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
)

func deckDiscard(s *Session, cards ...domain.Card) {
	deck.Discard(s.State.Decks, cards...)
}

func discardLuck(s *Session, spent []domain.LuckCard) {
	for i := range spent {
		deckDiscard(s, domain.LuckCardOf(&spent[i]))
	}
}

// combatFor 当前战斗且发起者是攻击方。
func (c *Controller) combatFor(s *Session, id domain.PlayerID) (*domain.Player, *domain.CombatState, error) {
	p, err := c.actor(s, id)
	if err != nil {
		return nil, nil, err
	}
	cs := s.State.Combat
	if cs == nil {
		return nil, nil, domain.Reject(domain.ReasonNoCombat)
	}
	if s.State.Pending != nil {
		return nil, nil, domain.Reject(domain.ReasonChoicePending)
	}
	if cs.AttackerID != id {
		return nil, nil, domain.Reject(domain.ReasonNotYourTurn)
	}
	return p, cs, nil
}

// CombatRound 推进一回合战斗，targetID 在多名存活防守方时必填。
func (c *Controller) CombatRound(s *Session, id domain.PlayerID, targetID string) error {
	p, cs, err := c.combatFor(s, id)
	if err != nil {
		return err
	}
	pvp := cs.PvP()
	attacker := combat.FromPlayer(p, pvp)
	defenders := make([]combat.Combatant, len(cs.Defenders))
	for i, d := range cs.Defenders {
		if d.IsEnemy() {
			defenders[i] = combat.FromEnemy(d.Enemy)
			continue
		}
		dp, ok := s.State.Player(d.PlayerID)
		if !ok {
			return domain.Missing("player", string(d.PlayerID))
		}
		defenders[i] = combat.FromPlayer(dp, true)
	}

	round := cs.Round + 1
	res, err := combat.ResolveRound(combat.RoundInput{
		Round:          round,
		Attacker:       attacker,
		Defenders:      defenders,
		TargetID:       targetID,
		AttackDisabled: cs.AttackDisabledFirstRound && round == 1,
	}, c.src)
	if err != nil {
		return err
	}

	discardLuck(s, combat.Settle(p, attacker, res.Attacker))
	for i, d := range cs.Defenders {
		if d.IsEnemy() {
			d.Enemy.HP = res.Defenders[i].HP
			continue
		}
		dp, _ := s.State.Player(d.PlayerID)
		discardLuck(s, combat.Settle(dp, defenders[i], res.Defenders[i]))
	}
	cs.Round = round
	cs.Log = append(cs.Log, res.Log)
	s.log(id, "combat.round", fmt.Sprintf("第 %d 回合：%s HP %d", round, p.Name, res.Attacker.HP), map[string]any{"round": res.Log})
	s.emit(Event{Kind: EventCombat, PlayerID: id, Combat: cs.Clone()})

	if res.Over() {
		c.endCombat(s, p, cs, res.AttackerDown())
	}
	c.settlePhase(s)
	return nil
}

// endCombat 清理战斗：敌人回弃牌堆，攻击方存活时按被击败的敌人掉落宝藏。
func (c *Controller) endCombat(s *Session, p *domain.Player, cs *domain.CombatState, attackerDown bool) {
	s.State.Combat = nil
	var loot []domain.Card
	for _, d := range cs.Defenders {
		if !d.IsEnemy() {
			continue
		}
		deckDiscard(s, domain.EnemyCard(d.Enemy))
		if attackerDown || d.Enemy.HP > 0 {
			continue
		}
		if tier, ok := combat.LootTier(d.Enemy.Tier, c.src); ok {
			loot = append(loot, c.draw(s, p.ID, domain.KindTreasure, tier, 1)...)
		}
	}
	switch {
	case attackerDown:
		s.log(p.ID, "combat.lost", fmt.Sprintf("%s 倒下陷入昏睡", p.Name), nil)
	default:
		s.log(p.ID, "combat.won", fmt.Sprintf("%s 赢得战斗", p.Name), map[string]any{"loot": len(loot)})
	}
	if len(loot) > 0 {
		s.emit(Event{Kind: EventReveal, PlayerID: p.ID, Cards: loot})
		c.grant(s, p.ID, loot)
	}
}

// Retreat 放弃战斗退回上一格，伏击与决斗不能撤退。
func (c *Controller) Retreat(s *Session, id domain.PlayerID) error {
	p, cs, err := c.combatFor(s, id)
	if err != nil {
		return err
	}
	if !cs.RetreatAllowed {
		return domain.Reject(domain.ReasonRetreatForbidden)
	}
	s.State.Combat = nil
	for _, d := range cs.Defenders {
		if d.IsEnemy() {
			deckDiscard(s, domain.EnemyCard(d.Enemy))
		}
	}
	p.Position = domain.Clamp(p.Position-1, len(s.State.Tiles))
	s.log(id, "combat.retreat", fmt.Sprintf("%s 撤退到第 %d 格", p.Name, p.Position), nil)
	c.settlePhase(s)
	return nil
}

// Challenge 向同格玩家发起挑战，每回合一次，起点和圣所不行。
func (c *Controller) Challenge(s *Session, id, targetID domain.PlayerID) error {
	p, err := c.ready(s, id)
	if err != nil {
		return err
	}
	if s.State.Turn.ChallengeUsed {
		return domain.Reject(domain.ReasonChallengeUsed)
	}
	target, ok := s.State.Player(targetID)
	if !ok {
		return domain.Missing("player", string(targetID))
	}
	if targetID == id || !target.Alive || target.Position != p.Position {
		return domain.Reject(domain.ReasonInvalidTarget)
	}
	if tile, ok := s.State.Tile(p.Position); !ok || tile.NoDuel() {
		return domain.Reject(domain.ReasonNoDuelTile)
	}
	s.State.Turn.ChallengeUsed = true
	s.log(id, "challenge", fmt.Sprintf("%s 向 %s 发起挑战", p.Name, target.Name), nil)
	c.startCombat(s, &domain.CombatState{
		AttackerID:     id,
		Defenders:      []domain.Defender{{PlayerID: targetID}},
		Source:         domain.SourceChallenge,
		RetreatAllowed: true,
		TileIndex:      p.Position,
	})
	return nil
}
