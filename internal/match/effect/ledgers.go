package effect

import (
	"strconv"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/ledger"
)

const (
	// BuffTurns 增益/减益持续回合，含获得的当前回合
	BuffTurns = 2
	// InvisibleTurns 隐身持续到下一个自己回合结束
	InvisibleTurns = 2
)

func cardID(in Input) string {
	if in.Card != nil {
		return in.Card.ID
	}
	return ""
}

// skipTurn 下次轮到该玩家时跳过，条目在跳过时消耗。
func skipTurn(in Input, cb Callbacks) Result {
	mutatePlayer(cb, in.Actor, func(p *domain.Player) {
		p.Ledger = ledger.Add(p.Ledger, ledger.Banked(domain.EffectSkipTurn, cardID(in), "跳过下一回合"))
	})
	return done(msgf("%s 将跳过下一回合", name(in.State, in.Actor)))
}

func timed(typ string, atk, def, mov int) Handler {
	return func(in Input, cb Callbacks) Result {
		mutatePlayer(cb, in.Actor, func(p *domain.Player) {
			e := ledger.Timed(typ, BuffTurns, atk, def, mov, "")
			e.SourceID = cardID(in)
			p.Ledger = ledger.Add(p.Ledger, e)
		})
		return done(msgf("%s 获得 %s，持续 %d 回合", name(in.State, in.Actor), typ, BuffTurns))
	}
}

func invisibility(in Input, cb Callbacks) Result {
	mutatePlayer(cb, in.Actor, func(p *domain.Player) {
		e := ledger.Timed(domain.EffectInvisible, InvisibleTurns, 0, 0, 0, "不会被换位或决斗选中")
		e.SourceID = cardID(in)
		p.Ledger = ledger.Add(p.Ledger, e)
		p.Invisible = true
	})
	return done(msgf("%s 隐身了", name(in.State, in.Actor)))
}

// bank 暗置保留：账本记一条哨兵条目，牌留在玩家手里直到使用。
func bank(cardEffect string) Handler {
	entry, _ := domain.KeptEntry(cardEffect)
	return func(in Input, cb Callbacks) Result {
		card := domain.LuckCard{Effect: cardEffect}
		if in.Card != nil {
			card = *in.Card
		}
		mutatePlayer(cb, in.Actor, func(p *domain.Player) {
			p.Ledger = ledger.Add(p.Ledger, ledger.Banked(entry, card.ID, card.Name))
			p.Kept = append(p.Kept, card)
		})
		res := done(msgf("%s 暗置了一张牌", name(in.State, in.Actor)))
		res.Data.Banked = true
		return res
	}
}

// place 消耗一张暗置的陷阱/伏击牌放到格子上，牌归还幸运弃牌堆。
func place(cardEffect string) Handler {
	entry, _ := domain.KeptEntry(cardEffect)
	return func(in Input, cb Callbacks) Result {
		p, _ := in.State.Player(in.Actor)
		if !ledger.Has(p.Ledger, entry) {
			return fail(domain.Reject(domain.ReasonNoBankedCard))
		}
		t, found := in.State.Tile(in.TileIndex)
		if !found {
			return fail(domain.Missing("tile", strconv.Itoa(in.TileIndex)))
		}
		if !t.Placeable() {
			return fail(domain.Reject(domain.ReasonForbiddenTile))
		}
		var kept domain.LuckCard
		var had bool
		cb.Mutate(func(s *domain.GameState) {
			pl, _ := s.Player(in.Actor)
			pl.Ledger = ledger.Remove(pl.Ledger, entry)
			kept, had = pl.TakeKept(cardEffect)
			placement := &domain.Placement{OwnerID: in.Actor, CardID: kept.ID}
			if cardEffect == domain.CardTrap {
				s.Tiles[in.TileIndex].Trap = placement
			} else {
				s.Tiles[in.TileIndex].Ambush = placement
			}
		})
		res := done(msgf("%s 在第 %d 格布置了%s", name(in.State, in.Actor), in.TileIndex, placementName(cardEffect)))
		if had {
			card := domain.LuckCardOf(&kept)
			res.Data.RequiresReturn = true
			res.Data.ReturnDeck = domain.DeckKey(domain.KindLuck, domain.LuckTier)
			res.Data.ReturnCard = &card
		}
		return res
	}
}

func placementName(cardEffect string) string {
	if cardEffect == domain.CardTrap {
		return "陷阱"
	}
	return "伏击"
}
