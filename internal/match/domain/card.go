package domain

import (
	"fmt"
	"slices"
)

// CardKind 牌堆种类。
type CardKind string

const (
	KindTreasure CardKind = "treasure"
	KindEnemy    CardKind = "enemy"
	KindLuck     CardKind = "luck"
)

type Enemy struct {
	ID      string `json:"id" bson:"id"`
	Name    string `json:"name" bson:"name"`
	Tier    int    `json:"tier" bson:"tier"`
	HP      int    `json:"hp" bson:"hp"`
	MaxHP   int    `json:"max_hp" bson:"max_hp"`
	Attack  int    `json:"attack,omitempty" bson:"attack,omitempty"`
	Defense int    `json:"defense,omitempty" bson:"defense,omitempty"`
	Special string `json:"special,omitempty" bson:"special,omitempty"`
}

func (e *Enemy) Clone() *Enemy {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

type LuckCard struct {
	ID             string `json:"id" bson:"id"`
	Name           string `json:"name" bson:"name"`
	Effect         string `json:"effect" bson:"effect"`
	Value          int    `json:"value,omitempty" bson:"value,omitempty"`
	RequiresChoice bool   `json:"requires_choice,omitempty" bson:"requires_choice,omitempty"`
	CanBeKept      bool   `json:"can_be_kept,omitempty" bson:"can_be_kept,omitempty"`
	Description    string `json:"description,omitempty" bson:"description,omitempty"`
}

func (l *LuckCard) Clone() *LuckCard {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

// Card 牌堆里的一张牌，按 Kind 只有一个载荷非空。
type Card struct {
	ID    string    `json:"id" bson:"id"`
	Kind  CardKind  `json:"kind" bson:"kind"`
	Tier  int       `json:"tier" bson:"tier"`
	Item  *Item     `json:"item,omitempty" bson:"item,omitempty"`
	Enemy *Enemy    `json:"enemy,omitempty" bson:"enemy,omitempty"`
	Luck  *LuckCard `json:"luck,omitempty" bson:"luck,omitempty"`
}

func (c Card) Clone() Card {
	c.Item = c.Item.Clone()
	c.Enemy = c.Enemy.Clone()
	c.Luck = c.Luck.Clone()
	return c
}

func (c Card) Name() string {
	switch {
	case c.Item != nil:
		return c.Item.Name
	case c.Enemy != nil:
		return c.Enemy.Name
	case c.Luck != nil:
		return c.Luck.Name
	default:
		return c.ID
	}
}

// TreasureCard 把物品包回宝藏牌，用于归还弃牌堆。
func TreasureCard(it *Item) Card {
	return Card{ID: it.ID, Kind: KindTreasure, Tier: it.Tier, Item: it.Clone()}
}

// EnemyCard 敌人离场时以满血状态回到弃牌堆。
func EnemyCard(e *Enemy) Card {
	c := e.Clone()
	c.HP = c.MaxHP
	return Card{ID: c.ID, Kind: KindEnemy, Tier: c.Tier, Enemy: c}
}

// LuckCardOf 把幸运牌包回牌。幸运牌只有一档。
func LuckCardOf(l *LuckCard) Card {
	return Card{ID: l.ID, Kind: KindLuck, Tier: LuckTier, Luck: l.Clone()}
}

// LuckTier 幸运牌堆只有一档。
const LuckTier = 1

// DeckKey 牌堆键 "kind:tier"。
func DeckKey(kind CardKind, tier int) string {
	return fmt.Sprintf("%s:%d", kind, tier)
}

// Deck 每个 (kind, tier) 一组牌堆与弃牌堆，Cards[0] 为牌顶。
type Deck struct {
	Kind    CardKind `json:"kind" bson:"kind"`
	Tier    int      `json:"tier" bson:"tier"`
	Cards   []Card   `json:"cards" bson:"cards"`
	Discard []Card   `json:"discard" bson:"discard"`
}

func (d *Deck) Key() string {
	return DeckKey(d.Kind, d.Tier)
}

func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	return &Deck{Kind: d.Kind, Tier: d.Tier, Cards: cloneCards(d.Cards), Discard: cloneCards(d.Discard)}
}

func cloneCards(in []Card) []Card {
	if in == nil {
		return nil
	}
	out := slices.Clone(in)
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}
