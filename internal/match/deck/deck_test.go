package deck

import (
	"errors"
	"testing"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/gameconfig/cards"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/random"
)

func TestBuild_按配置生成全部牌堆(t *testing.T) {
	pop := cards.Default()
	decks := Build(pop, random.NewSeeded(1))
	for _, kind := range pop.Kinds() {
		for _, tier := range pop.Tiers(kind) {
			want := 0
			for _, s := range pop.For(kind, tier) {
				want += s.Copies
			}
			d := decks[domain.DeckKey(domain.CardKind(kind), tier)]
			if d == nil || len(d.Cards) != want {
				t.Fatalf("%s:%d 张数不对 want=%d got=%v", kind, tier, want, d)
			}
		}
	}
	seen := map[string]bool{}
	for _, d := range decks {
		for _, c := range d.Cards {
			if seen[c.ID] {
				t.Fatalf("牌 id 重复: %s", c.ID)
			}
			seen[c.ID] = true
		}
	}
}

func TestNewCard_敌人满血(t *testing.T) {
	c := NewCard(domain.KindEnemy, 2, cards.Spec{Name: "Orc", HP: 2, Attack: 1})
	if c.Enemy == nil || c.Enemy.HP != 2 || c.Enemy.MaxHP != 2 || c.Enemy.ID != c.ID {
		t.Fatalf("enemy=%+v", c.Enemy)
	}
}

func deckOf(n, discard int) *domain.Deck {
	d := &domain.Deck{Kind: domain.KindTreasure, Tier: 1}
	for i := range n {
		d.Cards = append(d.Cards, domain.Card{ID: string(rune('a' + i)), Kind: domain.KindTreasure, Tier: 1})
	}
	for i := range discard {
		d.Discard = append(d.Discard, domain.Card{ID: string(rune('A' + i)), Kind: domain.KindTreasure, Tier: 1})
	}
	return d
}

func TestDraw_不足时重洗一次弃牌堆(t *testing.T) {
	d := deckOf(2, 5)
	drawn, reshuffled := Draw(d, 4, random.NewSeeded(7))
	if len(drawn) != 4 || !reshuffled {
		t.Fatalf("应抽到 4 张并重洗, got=%d reshuffled=%v", len(drawn), reshuffled)
	}
	if drawn[0].ID != "a" || drawn[1].ID != "b" {
		t.Fatalf("应先取完原牌堆, got=%v", drawn[:2])
	}
	cardsLeft, discard := Size(d)
	if cardsLeft != 3 || discard != 0 {
		t.Fatalf("剩余牌堆应为 2+5-4=3, got cards=%d discard=%d", cardsLeft, discard)
	}
}

func TestDraw_弃牌堆也不够时返回更少且不报错(t *testing.T) {
	d := deckOf(1, 1)
	drawn, reshuffled := Draw(d, 5, random.NewSeeded(7))
	if len(drawn) != 2 || !reshuffled {
		t.Fatalf("got=%d reshuffled=%v", len(drawn), reshuffled)
	}
	if drawn, _ := Draw(d, 1, random.NewSeeded(7)); len(drawn) != 0 {
		t.Fatalf("空牌堆应返回 0 张")
	}
	if drawn, _ := Draw(nil, 1, random.NewSeeded(7)); drawn != nil {
		t.Fatalf("nil 牌堆应返回 nil")
	}
}

func TestDraw_足够时不重洗(t *testing.T) {
	d := deckOf(3, 2)
	if _, reshuffled := Draw(d, 3, random.NewSeeded(7)); reshuffled {
		t.Fatalf("牌够时不应重洗")
	}
	if _, discard := Size(d); discard != 2 {
		t.Fatalf("弃牌堆不应变化")
	}
}

func TestDiscard_按种类与档位归堆(t *testing.T) {
	decks := map[string]*domain.Deck{
		"treasure:2": {Kind: domain.KindTreasure, Tier: 2},
		"luck:1":     {Kind: domain.KindLuck, Tier: 1},
	}
	Discard(decks,
		domain.Card{ID: "t", Kind: domain.KindTreasure, Tier: 2},
		domain.Card{ID: "l", Kind: domain.KindLuck, Tier: 3},
		domain.Card{ID: "x", Kind: domain.KindEnemy, Tier: 1},
	)
	if len(decks["treasure:2"].Discard) != 1 || len(decks["luck:1"].Discard) != 1 {
		t.Fatalf("弃牌归堆错误: %+v", decks)
	}
	if err := Return(decks, "enemy:9", domain.Card{}); !errors.Is(err, domain.ErrPrecondition) {
		t.Fatalf("归还到不存在的牌堆应报前置条件错误, got=%v", err)
	}
	if err := Return(decks, "luck:1", domain.Card{ID: "k"}); err != nil || len(decks["luck:1"].Discard) != 2 {
		t.Fatalf("归还失败: %v", err)
	}
}
