package effect

import (
	"slices"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
)

func drawTreasure(in Input, cb Callbacks) Result {
	tier := min(max(in.Tier, 1), 3)
	count := orDefault(in.Value, 1)
	var drawn []domain.Card
	if cb.Draw != nil {
		drawn = cb.Draw(domain.KindTreasure, tier, count)
	}
	if len(drawn) == 0 {
		return fizzle(msgf("%d 档宝藏牌堆已空", tier))
	}
	res := done(msgf("%s 获得 %d 张 %d 档宝藏", name(in.State, in.Actor), len(drawn), tier))
	res.Data.Treasures = drawn
	return res
}

// stealItem 目标默认是自己。目标身上没有物品时落空；
// 未指定物品时要求选择，指定后移除该物品并归还宝藏弃牌堆。
func stealItem(in Input, cb Callbacks) Result {
	target := in.TargetID
	if target == "" {
		target = in.Actor
	}
	tp, found := in.State.Player(target)
	if !found {
		return fail(domain.Missing("player", string(target)))
	}
	holdings := tp.Holdings()
	if len(holdings) == 0 {
		return fizzle(msgf("%s 身上没有物品，效果落空", name(in.State, target)))
	}
	if in.ItemID == "" {
		return Result{
			Success: true,
			Message: msgf("需要选择 %s 失去的物品", name(in.State, target)),
			Data: Data{
				RequiresChoice: true,
				ChoiceKind:     domain.ChoiceEffect,
				Candidates:     holdings,
				TargetID:       target,
			},
		}
	}
	if !slices.Contains(holdings, in.ItemID) {
		return fail(domain.Reject(domain.ReasonInvalidChoice))
	}
	var taken *domain.Item
	mutatePlayer(cb, target, func(p *domain.Player) {
		taken = p.TakeItem(in.ItemID)
	})
	card := domain.TreasureCard(taken)
	res := done(msgf("%s 失去了 %s", name(in.State, target), taken.Name))
	res.Data.TargetID = target
	res.Data.RequiresReturn = true
	res.Data.ReturnDeck = domain.DeckKey(domain.KindTreasure, taken.Tier)
	res.Data.ReturnCard = &card
	return res
}

// useItem 使用背包里的消耗品回血，用完归还宝藏弃牌堆。
func useItem(in Input, cb Callbacks) Result {
	p, _ := in.State.Player(in.Actor)
	it := p.FindItem(in.ItemID)
	if it == nil {
		return fail(domain.Reject(domain.ReasonItemNotFound))
	}
	if !it.Consumable || it.Heal <= 0 {
		return fail(domain.Reject(domain.ReasonNotUsable))
	}
	var taken *domain.Item
	var hp int
	mutatePlayer(cb, in.Actor, func(p *domain.Player) {
		taken = p.TakeItem(in.ItemID)
		p.HP = min(p.MaxHP, p.HP+taken.Heal)
		hp = p.HP
	})
	card := domain.TreasureCard(taken)
	res := done(msgf("%s 使用了 %s，HP %d", name(in.State, in.Actor), taken.Name, hp))
	res.Data.RequiresReturn = true
	res.Data.ReturnDeck = domain.DeckKey(domain.KindTreasure, taken.Tier)
	res.Data.ReturnCard = &card
	return res
}
