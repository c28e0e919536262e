// Package ledger 玩家临时效果账本。所有函数返回新切片，不修改入参。
package ledger

import (
	"slices"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
)

type Effect = domain.TempEffect

// Add 追加一条效果。
func Add(l []Effect, e Effect) []Effect {
	out := slices.Clone(l)
	return append(out, e)
}

func Has(l []Effect, typ string) bool {
	return slices.ContainsFunc(l, func(e Effect) bool { return e.Type == typ })
}

// Get 第一条该类型的效果。
func Get(l []Effect, typ string) (Effect, bool) {
	i := slices.IndexFunc(l, func(e Effect) bool { return e.Type == typ })
	if i < 0 {
		return Effect{}, false
	}
	return l[i], true
}

// Count 该类型的条目数，暗置牌可以叠多张。
func Count(l []Effect, typ string) int {
	n := 0
	for _, e := range l {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// Remove 移除第一条该类型的效果（消耗一次），返回剩余列表。
func Remove(l []Effect, typ string) []Effect {
	i := slices.IndexFunc(l, func(e Effect) bool { return e.Type == typ })
	if i < 0 {
		return slices.Clone(l)
	}
	out := slices.Clone(l)
	return slices.Delete(out, i, i+1)
}

// RemoveAll 移除该类型的全部条目。
func RemoveAll(l []Effect, typ string) []Effect {
	return slices.DeleteFunc(slices.Clone(l), func(e Effect) bool { return e.Type == typ })
}

// DecrementAll 回合结束时调用一次：计时条目 -1，<=0 的丢弃；哨兵条目不递减。
func DecrementAll(l []Effect) []Effect {
	out := make([]Effect, 0, len(l))
	for _, e := range l {
		if !e.Sentinel() {
			e.Duration--
			if e.Duration <= 0 {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func AttackBonus(l []Effect) int {
	return sum(l, func(e Effect) int { return e.Attack })
}

func DefenseBonus(l []Effect) int {
	return sum(l, func(e Effect) int { return e.Defense })
}

func MovementBonus(l []Effect) int {
	return sum(l, func(e Effect) int { return e.Movement })
}

func sum(l []Effect, f func(Effect) int) int {
	total := 0
	for _, e := range l {
		total += f(e)
	}
	return total
}

// Timed 构造一条计时效果。
func Timed(typ string, turns int, atk, def, mov int, desc string) Effect {
	return Effect{Type: typ, Duration: turns, Attack: atk, Defense: def, Movement: mov, Description: desc}
}

// Banked 构造一条哨兵条目，直到被自身动作消耗。
func Banked(typ, sourceID, desc string) Effect {
	return Effect{Type: typ, Duration: domain.SentinelDuration, SourceID: sourceID, Description: desc}
}
