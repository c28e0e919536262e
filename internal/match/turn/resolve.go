package turn

import (
	"fmt"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/combat"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/effect"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/gameconfig/board"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/gameconfig/class"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/random"
)

// RollAndMove 掷骰移动并结算落点，每回合一次。
func (c *Controller) RollAndMove(s *Session, id domain.PlayerID) error {
	p, err := c.ready(s, id)
	if err != nil {
		return err
	}
	if p.ActionTaken {
		return domain.Reject(domain.ReasonAlreadyActed)
	}
	s.State.Turn.Phase = domain.PhaseRolling
	die, steps := effect.MoveRoll(p, c.src)
	p.ActionTaken = true

	s.State.Turn.Phase = domain.PhaseMoving
	from := p.Position
	p.Position = domain.Clamp(from+steps, len(s.State.Tiles))
	s.log(id, "roll", fmt.Sprintf("%s 掷出 %d，从第 %d 格走到第 %d 格", p.Name, die, from, p.Position),
		map[string]any{"die": die, "steps": steps, "from": from, "to": p.Position})

	if err := c.arrive(s, id, 0, false); err != nil {
		return err
	}
	c.settlePhase(s)
	return nil
}

// arrive 落点结算：伏击 → 陷阱 → 提灯后退 → 按格子类型分派。
// stepped 表示本条结算链已经后退过一次。
func (c *Controller) arrive(s *Session, id domain.PlayerID, depth int, stepped bool) error {
	if depth > c.maxDepth {
		s.log(id, "resolve.depth", "嵌套结算达到上限，停止结算", map[string]any{"depth": depth})
		return nil
	}
	p, ok := s.State.Player(id)
	if !ok {
		return domain.Missing("player", string(id))
	}
	if !p.Alive || s.State.Combat != nil || s.State.Pending != nil || s.State.Status == domain.StatusFinished {
		return nil
	}
	tile, ok := s.State.Tile(p.Position)
	if !ok {
		return domain.Missing("tile", fmt.Sprint(p.Position))
	}

	s.State.Turn.Phase = domain.PhaseAmbushCheck
	if tile.Ambush != nil && tile.Ambush.OwnerID != id {
		owner := tile.Ambush.OwnerID
		tile.Ambush = nil
		if op, ok := s.State.Player(owner); ok && op.Alive {
			op.Position = tile.Index
			s.log(id, "ambush", fmt.Sprintf("%s 在第 %d 格遭到 %s 伏击", p.Name, tile.Index, op.Name), map[string]any{"owner": string(owner)})
			c.startCombat(s, &domain.CombatState{
				AttackerID:               id,
				Defenders:                []domain.Defender{{PlayerID: owner}},
				Source:                   domain.SourceAmbush,
				RetreatAllowed:           false,
				AttackDisabledFirstRound: true,
				TileIndex:                tile.Index,
			})
			return nil
		}
		s.log(id, "ambush.void", "伏击者不在场，伏击作废", map[string]any{"owner": string(owner)})
	}

	s.State.Turn.Phase = domain.PhaseTrapCheck
	if tile.Trap != nil && tile.Trap.OwnerID != id {
		owner := tile.Trap.OwnerID
		tile.Trap = nil
		if class.Lookup(p.Class).TrapImmune {
			s.log(id, "trap.immune", fmt.Sprintf("%s 识破了第 %d 格的陷阱", p.Name, tile.Index), map[string]any{"owner": string(owner)})
		} else {
			revived := combat.Damage(p, 1)
			s.log(id, "trap", fmt.Sprintf("%s 踩中第 %d 格的陷阱", p.Name, tile.Index),
				map[string]any{"owner": string(owner), "hp": p.HP, "revived": revived})
			return nil
		}
	}

	s.State.Turn.Phase = domain.PhaseStepBackCheck
	if !stepped && p.Position > 0 && p.HoldsSpecial(domain.SpecialStepBack) &&
		(tile.Type == domain.TileEnemy || len(s.State.OthersAt(p.Position, id, true)) > 0) {
		p.Position--
		s.log(id, "step_back", fmt.Sprintf("%s 提灯照见危险，退到第 %d 格", p.Name, p.Position), nil)
		return c.arrive(s, id, depth, true)
	}

	s.State.Turn.Phase = domain.PhaseTileDispatch
	return c.dispatch(s, p, tile, depth)
}

func (c *Controller) dispatch(s *Session, p *domain.Player, tile *domain.Tile, depth int) error {
	switch tile.Type {
	case domain.TileStart, domain.TileSanctuary:
		return nil
	case domain.TileFinal:
		s.State.Status = domain.StatusFinished
		s.State.WinnerID = p.ID
		s.log(p.ID, "finish", fmt.Sprintf("%s 登顶获胜", p.Name), nil)
		s.emit(Event{Kind: EventFinished, PlayerID: p.ID, Message: p.Name})
		return nil
	case domain.TileEnemy:
		return c.encounter(s, p, tile)
	case domain.TileTreasure:
		s.State.Turn.Phase = domain.PhaseCardReveal
		drawn := c.draw(s, p.ID, domain.KindTreasure, tile.Tier, 1)
		if len(drawn) == 0 {
			return nil
		}
		s.emit(Event{Kind: EventReveal, PlayerID: p.ID, Cards: drawn})
		s.log(p.ID, "treasure", fmt.Sprintf("%s 获得 %s", p.Name, drawn[0].Name()), map[string]any{"card": drawn[0].ID})
		c.grant(s, p.ID, drawn)
		return nil
	case domain.TileLuck:
		s.State.Turn.Phase = domain.PhaseCardReveal
		drawn := c.draw(s, p.ID, domain.KindLuck, domain.LuckTier, 1)
		if len(drawn) == 0 || drawn[0].Luck == nil {
			return nil
		}
		s.emit(Event{Kind: EventReveal, PlayerID: p.ID, Cards: drawn})
		return c.luck(s, p.ID, drawn[0], tile, depth)
	default:
		return domain.Missing("tile_type", string(tile.Type))
	}
}

// encounter 敌人格：按格子档位查遭遇表，逐个档位抽敌人进入战斗。
func (c *Controller) encounter(s *Session, p *domain.Player, tile *domain.Tile) error {
	s.State.Turn.Phase = domain.PhaseCardReveal
	var table random.Table[[]int]
	for _, e := range board.Encounters(tile.Tier) {
		table = append(table, random.Entry[[]int]{Value: e.Enemies, Weight: e.Weight})
	}
	tiers, ok := table.Roll(c.src)
	if !ok {
		tiers = []int{tile.Tier}
	}
	var drawn []domain.Card
	for _, tier := range tiers {
		drawn = append(drawn, c.draw(s, p.ID, domain.KindEnemy, tier, 1)...)
	}
	if len(drawn) == 0 {
		s.log(p.ID, "encounter.empty", "敌人牌堆已空", nil)
		return nil
	}
	s.emit(Event{Kind: EventReveal, PlayerID: p.ID, Cards: drawn})
	defenders := make([]domain.Defender, 0, len(drawn))
	names := make([]string, 0, len(drawn))
	for _, card := range drawn {
		defenders = append(defenders, domain.Defender{Enemy: card.Enemy.Clone()})
		names = append(names, card.Name())
	}
	s.log(p.ID, "encounter", fmt.Sprintf("%s 遭遇 %v", p.Name, names), map[string]any{"tile": tile.Index})
	c.startCombat(s, &domain.CombatState{
		AttackerID:     p.ID,
		Defenders:      defenders,
		Source:         domain.SourceTile,
		RetreatAllowed: true,
		TileIndex:      tile.Index,
	})
	return nil
}

// luck 幸运牌：可保留的暗置，其余立即执行后进弃牌堆。
func (c *Controller) luck(s *Session, id domain.PlayerID, card domain.Card, tile *domain.Tile, depth int) error {
	s.State.Turn.Phase = domain.PhaseEffectExecution
	lc := card.Luck
	k, ok := effect.ParseKind(lc.Effect)
	if !ok {
		return domain.ErrPrecondition.WithReason(domain.ReasonUnknownEffect).WithData("effect", lc.Effect)
	}
	res := c.exec.Run(k, effect.Input{
		State:     s.State,
		Actor:     id,
		Value:     lc.Value,
		TileIndex: tile.Index,
		Tier:      tile.Tier,
		Depth:     depth,
		Card:      lc,
	}, c.callbacks(s, id))
	if !res.Data.Banked && res.Success {
		deckDiscard(s, card)
	}
	return c.settle(s, id, k, lc, res)
}
