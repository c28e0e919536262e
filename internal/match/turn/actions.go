package turn

import (
	"fmt"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/effect"
)

func (c *Controller) PlaceTrap(s *Session, id domain.PlayerID, tile int) error {
	return c.place(s, id, effect.PlaceTrap, tile)
}

func (c *Controller) PlaceAmbush(s *Session, id domain.PlayerID, tile int) error {
	return c.place(s, id, effect.PlaceAmbush, tile)
}

func (c *Controller) place(s *Session, id domain.PlayerID, k effect.Kind, tile int) error {
	if _, err := c.ready(s, id); err != nil {
		return err
	}
	res := c.exec.Run(k, effect.Input{State: s.State, Actor: id, TileIndex: tile}, c.callbacks(s, id))
	return c.settle(s, id, k, nil, res)
}

// UseItem 使用消耗品。
func (c *Controller) UseItem(s *Session, id domain.PlayerID, itemID string) error {
	if _, err := c.ready(s, id); err != nil {
		return err
	}
	res := c.exec.Run(effect.UseItem, effect.Input{State: s.State, Actor: id, ItemID: itemID}, c.callbacks(s, id))
	return c.settle(s, id, effect.UseItem, nil, res)
}

// Equip 把背包或另一栏里的物品装到 slot，原来的物品换回原位置。
func (c *Controller) Equip(s *Session, id domain.PlayerID, itemID string, slot domain.Slot) error {
	p, err := c.ready(s, id)
	if err != nil {
		return err
	}
	it := p.FindItem(itemID)
	if it == nil {
		return domain.Reject(domain.ReasonItemNotFound)
	}
	if !slot.Valid() || !slot.Accepts(it.Category) {
		return domain.Reject(domain.ReasonWrongSlot)
	}
	if cur := p.Equipment[slot]; cur != nil && cur.ID == itemID {
		return nil
	}
	prev := p.Equipment[slot]
	swapped := false
	for i, inv := range p.Inventory {
		if inv != nil && inv.ID == itemID {
			p.Inventory[i] = prev
			swapped = true
			break
		}
	}
	if !swapped {
		for i, eq := range p.Equipment {
			if eq != nil && eq.ID == itemID {
				p.Equipment[i] = prev
				break
			}
		}
	}
	p.Equipment[slot] = it
	s.log(id, "equip", fmt.Sprintf("%s 装备了 %s", p.Name, it.Name), map[string]any{"item": it.ID, "slot": int(slot)})
	return nil
}

// Unequip 卸下 slot 的物品放回背包，背包满时拒绝。
func (c *Controller) Unequip(s *Session, id domain.PlayerID, slot domain.Slot) error {
	p, err := c.ready(s, id)
	if err != nil {
		return err
	}
	if !slot.Valid() {
		return domain.Reject(domain.ReasonWrongSlot)
	}
	it := p.Equipment[slot]
	if it == nil {
		return domain.Reject(domain.ReasonItemNotFound)
	}
	if !p.Store(it) {
		return domain.Reject(domain.ReasonInventoryFull)
	}
	p.Equipment[slot] = nil
	s.log(id, "unequip", fmt.Sprintf("%s 卸下了 %s", p.Name, it.Name), map[string]any{"item": it.ID, "slot": int(slot)})
	return nil
}
