package turn

import (
	"fmt"
	"slices"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/effect"
)

// Choice 玩家对挂起选择的回答。
type Choice struct {
	// ItemID 效果选择：选中的物品
	ItemID string `json:"item_id,omitempty" mapstructure:"item_id"`
	// Keep 溢出选择：背包与溢出物品中要保留的 id，其余进弃牌堆
	Keep []string `json:"keep,omitempty" mapstructure:"keep"`
	// Equip 溢出选择：直接装备的物品 id 到装备栏，不占背包格
	Equip map[string]domain.Slot `json:"equip,omitempty" mapstructure:"equip"`
}

func (c *Controller) ResolveChoice(s *Session, id domain.PlayerID, ch Choice) error {
	if s.State.Status == domain.StatusFinished {
		return domain.Reject(domain.ReasonMatchFinished)
	}
	pending := s.State.Pending
	if pending == nil {
		return domain.Reject(domain.ReasonNoPendingChoice)
	}
	if pending.PlayerID != id {
		return domain.Reject(domain.ReasonNotYourTurn)
	}
	var err error
	switch pending.Kind {
	case domain.ChoiceEffect:
		err = c.resolveEffect(s, id, pending, ch)
	case domain.ChoiceOverflow:
		err = c.resolveOverflow(s, id, pending, ch)
	default:
		err = domain.Reject(domain.ReasonInvalidChoice)
	}
	if err != nil {
		return err
	}
	c.settlePhase(s)
	return nil
}

func (c *Controller) resolveEffect(s *Session, id domain.PlayerID, pending *domain.PendingChoice, ch Choice) error {
	if !pending.Allows(ch.ItemID) {
		return domain.Reject(domain.ReasonInvalidChoice)
	}
	k, ok := effect.ParseKind(pending.Effect)
	if !ok {
		return domain.ErrPrecondition.WithReason(domain.ReasonUnknownEffect).WithData("effect", pending.Effect)
	}
	in := effect.Input{State: s.State, Actor: id, TargetID: pending.TargetID, ItemID: ch.ItemID, Card: pending.Card}
	if pending.Card != nil {
		in.Value = pending.Card.Value
	}
	s.State.Pending = nil
	res := c.exec.Run(k, in, c.callbacks(s, id))
	return c.settle(s, id, k, pending.Card, res)
}

// resolveOverflow 从背包与溢出物品中挑出要装备的与至多 Capacity 件要保留的，其余归还宝藏弃牌堆。
// 装备栏原有的物品被换下后也进入待选，可以保留或丢弃。
func (c *Controller) resolveOverflow(s *Session, id domain.PlayerID, pending *domain.PendingChoice, ch Choice) error {
	p, ok := s.State.Player(id)
	if !ok {
		return domain.Missing("player", string(id))
	}
	if len(ch.Keep) > pending.Capacity || len(ch.Keep) > len(p.Inventory) {
		return domain.Reject(domain.ReasonInvalidChoice)
	}
	pool := append(p.Items(), pending.Overflow...)
	find := func(itemID string) *domain.Item {
		j := slices.IndexFunc(pool, func(it *domain.Item) bool { return it.ID == itemID })
		if j < 0 {
			return nil
		}
		return pool[j]
	}

	equipIDs := make([]string, 0, len(ch.Equip))
	for itemID := range ch.Equip {
		equipIDs = append(equipIDs, itemID)
	}
	slices.Sort(equipIDs)
	equipped := p.Equipment
	var used [domain.SlotCount]bool
	for _, itemID := range equipIDs {
		slot := ch.Equip[itemID]
		if !slot.Valid() || used[slot] {
			return domain.Reject(domain.ReasonWrongSlot)
		}
		used[slot] = true
		if prev := equipped[slot]; prev != nil {
			pool = append(pool, prev)
			equipped[slot] = nil
		}
	}
	for _, itemID := range equipIDs {
		slot := ch.Equip[itemID]
		it := find(itemID)
		if it == nil {
			return domain.Reject(domain.ReasonInvalidChoice)
		}
		if !slot.Accepts(it.Category) {
			return domain.Reject(domain.ReasonWrongSlot)
		}
		equipped[slot] = it
	}

	kept := make([]*domain.Item, 0, len(ch.Keep))
	for i, keepID := range ch.Keep {
		if slices.Contains(ch.Keep[:i], keepID) {
			return domain.Reject(domain.ReasonInvalidChoice)
		}
		if _, dup := ch.Equip[keepID]; dup {
			return domain.Reject(domain.ReasonInvalidChoice)
		}
		it := find(keepID)
		if it == nil {
			return domain.Reject(domain.ReasonInvalidChoice)
		}
		kept = append(kept, it)
	}
	var dropped []string
	for _, it := range pool {
		_, eq := ch.Equip[it.ID]
		if !eq && !slices.Contains(ch.Keep, it.ID) {
			deckDiscard(s, domain.TreasureCard(it))
			dropped = append(dropped, it.ID)
		}
	}
	p.Equipment = equipped
	clear(p.Inventory)
	copy(p.Inventory, kept)
	s.State.Pending = nil
	s.log(id, "inventory.resolve", fmt.Sprintf("%s 装备 %d 件，保留 %d 件，丢弃 %d 件", p.Name, len(equipIDs), len(kept), len(dropped)),
		map[string]any{"equipped": equipIDs, "kept": ch.Keep, "dropped": dropped})
	return nil
}
