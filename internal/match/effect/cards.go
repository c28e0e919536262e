package effect

import (
	"fmt"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/gameconfig/cards"
)

// Keepable 抽到后暗置、稍后主动放置的效果。
func Keepable(k Kind) bool {
	switch k {
	case TrapCard, AmbushCard, WardCard:
		return true
	}
	return false
}

// asksChoice 可能挂起物品选择的效果。
func asksChoice(k Kind) bool {
	return k == StealItem
}

// drawable 只能由玩家动作触发、不能印在幸运牌上的效果。
func drawable(k Kind) bool {
	switch k {
	case PlaceTrap, PlaceAmbush, UseItem:
		return false
	}
	return true
}

// CheckLuck 校验幸运牌定义：效果标识必须已注册，can_be_kept 与 requires_choice 必须与效果一致。
func CheckLuck(pop cards.Populations) error {
	for _, tier := range pop.Tiers(cards.KindLuck) {
		for _, s := range pop.For(cards.KindLuck, tier) {
			k, ok := ParseKind(s.Effect)
			if !ok || !drawable(k) {
				return fmt.Errorf("luck:%d %s: unknown effect %q", tier, s.Name, s.Effect)
			}
			if s.CanBeKept != Keepable(k) {
				return fmt.Errorf("luck:%d %s: can_be_kept=%v does not match effect %s", tier, s.Name, s.CanBeKept, k)
			}
			if s.RequiresChoice && !asksChoice(k) {
				return fmt.Errorf("luck:%d %s: effect %s never asks for a choice", tier, s.Name, k)
			}
		}
	}
	return nil
}
