package ledger

import (
	"testing"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
)

func TestDecrementAll_一回合效果在一次递减后消失(t *testing.T) {
	l := Add(nil, Timed(domain.EffectInvisible, 1, 0, 0, 0, ""))
	if !Has(l, domain.EffectInvisible) {
		t.Fatalf("添加后应存在")
	}
	l = DecrementAll(l)
	if Has(l, domain.EffectInvisible) {
		t.Fatalf("duration=1 的效果一次递减后应消失")
	}
}

func TestDecrementAll_哨兵效果挺过50次以上(t *testing.T) {
	l := Add(nil, Banked(domain.EffectWard, "card-1", ""))
	for range 60 {
		l = DecrementAll(l)
	}
	e, ok := Get(l, domain.EffectWard)
	if !ok || e.Duration != domain.SentinelDuration {
		t.Fatalf("哨兵效果不应随递减过期, got=%+v ok=%v", e, ok)
	}
}

func TestBonus_按字段求和(t *testing.T) {
	l := []Effect{
		Timed(domain.EffectBlessing, 2, 1, 0, 0, ""),
		Timed(domain.EffectCurse, 2, 0, -1, 0, ""),
		Timed(domain.EffectHaste, 2, 0, 0, 1, ""),
		Timed(domain.EffectSlow, 2, 0, 0, -1, ""),
		Timed(domain.EffectBlessing, 2, 1, 0, 0, ""),
	}
	if AttackBonus(l) != 2 || DefenseBonus(l) != -1 || MovementBonus(l) != 0 {
		t.Fatalf("atk=%d def=%d mov=%d", AttackBonus(l), DefenseBonus(l), MovementBonus(l))
	}
	if AttackBonus(nil) != 0 {
		t.Fatalf("空账本加值应为 0")
	}
}

func TestRemove_只消耗一条且不修改入参(t *testing.T) {
	l := []Effect{Banked(domain.EffectTrapCard, "a", ""), Banked(domain.EffectTrapCard, "b", "")}
	out := Remove(l, domain.EffectTrapCard)
	if Count(out, domain.EffectTrapCard) != 1 || len(l) != 2 {
		t.Fatalf("应只移除一条且保留入参, out=%v in=%v", out, l)
	}
	if got := Remove(nil, domain.EffectWard); len(got) != 0 {
		t.Fatalf("不存在时返回原列表")
	}
	if got := RemoveAll(l, domain.EffectTrapCard); len(got) != 0 || len(l) != 2 {
		t.Fatalf("RemoveAll 应清空该类型且不修改入参")
	}
}
