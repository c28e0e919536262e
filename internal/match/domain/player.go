package domain

import "slices"

type Player struct {
	ID       PlayerID `json:"id" bson:"id"`
	Name     string   `json:"name" bson:"name"`
	Class    string   `json:"class" bson:"class"`
	Position int      `json:"position" bson:"position"`
	HP       int      `json:"hp" bson:"hp"`
	MaxHP    int      `json:"max_hp" bson:"max_hp"`
	// Equipment 固定 3 栏，nil 为空栏
	Equipment [SlotCount]*Item `json:"equipment" bson:"equipment"`
	// Inventory 长度由职业决定，nil 为空格
	Inventory []*Item `json:"inventory" bson:"inventory"`
	// Kept 暗置保留的幸运牌，与 Ledger 中的哨兵条目一一对应
	Kept        []LuckCard   `json:"kept,omitempty" bson:"kept,omitempty"`
	Ledger      []TempEffect `json:"ledger,omitempty" bson:"ledger,omitempty"`
	Alive       bool         `json:"alive" bson:"alive"`
	RevivalUsed bool         `json:"revival_used" bson:"revival_used"`
	Invisible   bool         `json:"invisible" bson:"invisible"`
	ActionTaken bool         `json:"action_taken" bson:"action_taken"`
}

func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	c := *p
	for i, it := range p.Equipment {
		c.Equipment[i] = it.Clone()
	}
	if p.Inventory != nil {
		c.Inventory = make([]*Item, len(p.Inventory))
		for i, it := range p.Inventory {
			c.Inventory[i] = it.Clone()
		}
	}
	c.Kept = slices.Clone(p.Kept)
	c.Ledger = CloneEffects(p.Ledger)
	return &c
}

// Equipped 已装备的物品（跳过空栏）。
func (p *Player) Equipped() []*Item {
	out := make([]*Item, 0, SlotCount)
	for _, it := range p.Equipment {
		if it != nil {
			out = append(out, it)
		}
	}
	return out
}

// Items 背包里的物品（跳过空格）。
func (p *Player) Items() []*Item {
	out := make([]*Item, 0, len(p.Inventory))
	for _, it := range p.Inventory {
		if it != nil {
			out = append(out, it)
		}
	}
	return out
}

// Holdings 背包 + 装备的全部物品 id，背包在前。
func (p *Player) Holdings() []string {
	var ids []string
	for _, it := range p.Items() {
		ids = append(ids, it.ID)
	}
	for _, it := range p.Equipped() {
		ids = append(ids, it.ID)
	}
	return ids
}

func (p *Player) FreeSlots() int {
	n := 0
	for _, it := range p.Inventory {
		if it == nil {
			n++
		}
	}
	return n
}

// Store 放进第一个空格子，背包满时返回 false。
func (p *Player) Store(it *Item) bool {
	for i, cur := range p.Inventory {
		if cur == nil {
			p.Inventory[i] = it
			return true
		}
	}
	return false
}

// HasItem 在背包或装备栏中是否持有 id。
func (p *Player) HasItem(id string) bool {
	return p.FindItem(id) != nil
}

func (p *Player) FindItem(id string) *Item {
	for _, it := range p.Inventory {
		if it != nil && it.ID == id {
			return it
		}
	}
	for _, it := range p.Equipment {
		if it != nil && it.ID == id {
			return it
		}
	}
	return nil
}

// TakeItem 从背包或装备栏移除 id 并返回，未持有返回 nil。
func (p *Player) TakeItem(id string) *Item {
	for i, it := range p.Inventory {
		if it != nil && it.ID == id {
			p.Inventory[i] = nil
			return it
		}
	}
	for i, it := range p.Equipment {
		if it != nil && it.ID == id {
			p.Equipment[i] = nil
			return it
		}
	}
	return nil
}

// HoldsSpecial 装备或背包中是否有带 special 标签的物品。
func (p *Player) HoldsSpecial(tag string) bool {
	for _, it := range p.Equipped() {
		if it.Special == tag {
			return true
		}
	}
	for _, it := range p.Items() {
		if it.Special == tag {
			return true
		}
	}
	return false
}

// TakeKept 取出一张指定效果的暗置牌。
func (p *Player) TakeKept(effect string) (LuckCard, bool) {
	for i, c := range p.Kept {
		if c.Effect == effect {
			p.Kept = slices.Delete(p.Kept, i, i+1)
			return c, true
		}
	}
	return LuckCard{}, false
}
