// Package combat 纯战斗结算：不读写对局文档，输入数值与随机源，输出回合日志与新数值。
package combat

import (
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/random"
)

// Sides 每颗骰子的面数。
const Sides = 6

type RoundInput struct {
	Round     int
	Attacker  Combatant
	Defenders []Combatant
	// TargetID 多名存活防守方时必须指定
	TargetID string
	// AttackDisabled 攻击骰记为 0（伏击第 1 回合）
	AttackDisabled bool
}

type RoundResult struct {
	Log       domain.RoundLog
	Attacker  Combatant
	Defenders []Combatant
}

// AttackerDown 攻击方 HP 归零。
func (r RoundResult) AttackerDown() bool {
	return !r.Attacker.Alive()
}

// DefendersDown 所有防守方 HP 归零。可以与 AttackerDown 同时成立。
func (r RoundResult) DefendersDown() bool {
	for _, d := range r.Defenders {
		if d.Alive() {
			return false
		}
	}
	return true
}

// Over 战斗已到终态。
func (r RoundResult) Over() bool {
	return r.AttackerDown() || r.DefendersDown()
}

// Target 选出本回合的目标：只剩一名存活防守方时自动选中。
func Target(defenders []Combatant, targetID string) (int, error) {
	alive := -1
	count := 0
	for i, d := range defenders {
		if !d.Alive() {
			continue
		}
		count++
		alive = i
		if targetID != "" && d.ID == targetID {
			return i, nil
		}
	}
	switch {
	case count == 0:
		return -1, domain.Missing("defender", targetID)
	case targetID != "":
		return -1, domain.Reject(domain.ReasonInvalidTarget)
	case count == 1:
		return alive, nil
	default:
		return -1, domain.Reject(domain.ReasonTargetRequired)
	}
}

func roll(src random.Source, c Combatant, attackDisabled bool) domain.Roll {
	r := domain.Roll{AttackBonus: c.Attack, DefenseBonus: c.Defense}
	if !attackDisabled {
		r.AttackDie = random.Roll(src, Sides)
	}
	r.DefenseDie = random.Roll(src, Sides)
	r.TotalAttack = 1 + r.AttackDie + r.AttackBonus
	r.TotalDefense = 1 + r.DefenseDie + r.DefenseBonus
	return r
}

// ResolveRound 结算一回合。
// 攻击方与每名存活防守方各掷攻防两骰，攻击总值严格大于防御总值才算命中；
// 攻击方只能命中目标，每名存活防守方都会反击。
func ResolveRound(in RoundInput, src random.Source) (RoundResult, error) {
	if len(in.Defenders) == 0 {
		return RoundResult{}, domain.Missing("defender", "")
	}
	if !in.Attacker.Alive() {
		return RoundResult{}, domain.Missing("attacker", in.Attacker.ID)
	}
	target, err := Target(in.Defenders, in.TargetID)
	if err != nil {
		return RoundResult{}, err
	}

	res := RoundResult{Attacker: in.Attacker, Defenders: append([]Combatant(nil), in.Defenders...)}
	ar := roll(src, in.Attacker, in.AttackDisabled)
	res.Log = domain.RoundLog{Round: in.Round, Attacker: ar}

	counters := 0
	for i, d := range in.Defenders {
		if !d.Alive() {
			continue
		}
		dr := roll(src, d, false)
		entry := domain.DefenderRound{ID: d.ID, Roll: dr, Targeted: i == target}
		entry.Hit = entry.Targeted && ar.TotalAttack > dr.TotalDefense
		entry.Counter = dr.TotalAttack > ar.TotalDefense
		if entry.Counter {
			counters++
		}
		res.Log.Defenders = append(res.Log.Defenders, entry)
	}

	// 伤害同时生效，双方可能同时倒下
	for j := range res.Log.Defenders {
		entry := &res.Log.Defenders[j]
		idx := indexOf(res.Defenders, entry.ID)
		if entry.Hit {
			wards, revived := Hurt(&res.Defenders[idx], 1)
			entry.WardUsed = wards > 0
			entry.Revived = revived
		}
		entry.HPAfter = res.Defenders[idx].HP
	}
	if counters > 0 {
		wards, revived := Hurt(&res.Attacker, counters)
		res.Log.AttackerDamage = counters - wards
		res.Log.AttackerWards = wards
		res.Log.AttackerRevive = revived
	}
	res.Log.AttackerHP = res.Attacker.HP
	return res, nil
}

func indexOf(cs []Combatant, id string) int {
	for i, c := range cs {
		if c.ID == id {
			return i
		}
	}
	return -1
}
