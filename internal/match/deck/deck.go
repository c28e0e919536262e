// Package deck 牌堆管理：按配置建牌、洗牌、抽牌（不足时重洗一次弃牌堆）、弃牌。
package deck

import (
	"github.com/google/uuid"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/gameconfig/cards"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/random"
)

// Build 为每个 (kind, tier) 实例化牌组并洗牌。
func Build(pop cards.Populations, src random.Source) map[string]*domain.Deck {
	decks := make(map[string]*domain.Deck)
	for _, kind := range pop.Kinds() {
		for _, tier := range pop.Tiers(kind) {
			d := &domain.Deck{Kind: domain.CardKind(kind), Tier: tier, Cards: []domain.Card{}, Discard: []domain.Card{}}
			for _, spec := range pop.For(kind, tier) {
				for range spec.Copies {
					d.Cards = append(d.Cards, NewCard(d.Kind, tier, spec))
				}
			}
			random.Shuffle(src, d.Cards)
			decks[d.Key()] = d
		}
	}
	return decks
}

// NewCard 按定义生成一张新牌，id 全局唯一。
func NewCard(kind domain.CardKind, tier int, spec cards.Spec) domain.Card {
	id := uuid.NewString()
	c := domain.Card{ID: id, Kind: kind, Tier: tier}
	switch kind {
	case domain.KindTreasure:
		c.Item = &domain.Item{
			ID:         id,
			Name:       spec.Name,
			Category:   domain.Category(spec.Category),
			Tier:       tier,
			Attack:     spec.Attack,
			Defense:    spec.Defense,
			Movement:   spec.Movement,
			Heal:       spec.Heal,
			Special:    spec.Special,
			Consumable: spec.Consumable,
		}
	case domain.KindEnemy:
		c.Enemy = &domain.Enemy{
			ID:      id,
			Name:    spec.Name,
			Tier:    tier,
			HP:      spec.HP,
			MaxHP:   spec.HP,
			Attack:  spec.Attack,
			Defense: spec.Defense,
			Special: spec.Special,
		}
	case domain.KindLuck:
		c.Luck = &domain.LuckCard{
			ID:             id,
			Name:           spec.Name,
			Effect:         spec.Effect,
			Value:          spec.Value,
			RequiresChoice: spec.RequiresChoice,
			CanBeKept:      spec.CanBeKept,
			Description:    spec.Description,
		}
	}
	return c
}

// Draw 从牌顶抽 count 张。
// 剩余不足时先取完，然后把弃牌堆洗成新牌堆继续抽，只重洗一次；弃牌堆也空时返回少于 count 张。
func Draw(d *domain.Deck, count int, src random.Source) (drawn []domain.Card, reshuffled bool) {
	if d == nil || count <= 0 {
		return nil, false
	}
	drawn = take(d, count)
	if short := count - len(drawn); short > 0 && len(d.Discard) > 0 {
		d.Cards = append(d.Cards, d.Discard...)
		d.Discard = []domain.Card{}
		random.Shuffle(src, d.Cards)
		reshuffled = true
		drawn = append(drawn, take(d, short)...)
	}
	return drawn, reshuffled
}

func take(d *domain.Deck, n int) []domain.Card {
	n = min(n, len(d.Cards))
	out := make([]domain.Card, n)
	copy(out, d.Cards[:n])
	d.Cards = d.Cards[n:]
	return out
}

// Discard 把牌放回各自 (kind, tier) 的弃牌堆，找不到牌堆的牌直接丢弃。
func Discard(decks map[string]*domain.Deck, cs ...domain.Card) {
	for _, c := range cs {
		tier := c.Tier
		if c.Kind == domain.KindLuck {
			tier = domain.LuckTier
		}
		if d, ok := decks[domain.DeckKey(c.Kind, tier)]; ok {
			d.Discard = append(d.Discard, c)
		}
	}
}

// Return 按牌堆键归还一张牌，用于效果结果里的 RequiresReturn。
func Return(decks map[string]*domain.Deck, key string, c domain.Card) error {
	d, ok := decks[key]
	if !ok {
		return domain.Missing("deck", key)
	}
	d.Discard = append(d.Discard, c)
	return nil
}

// Size 牌堆与弃牌堆的张数。
func Size(d *domain.Deck) (cards, discard int) {
	if d == nil {
		return 0, 0
	}
	return len(d.Cards), len(d.Discard)
}
