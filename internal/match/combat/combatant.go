package combat

import (
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/ledger"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/gameconfig/class"
)

// Combatant 一名战斗者在结算时需要的数值。
type Combatant struct {
	ID      string
	HP      int
	Attack  int
	Defense int
	// Wards 可抵挡的次数，每次命中消耗一个
	Wards int
	// Revival 本次 HP 归零时是否还能以 1 点复活
	Revival bool
}

func (c Combatant) Alive() bool {
	return c.HP > 0
}

// Bonus 职业加值 + 装备加值 + 账本加值。vsPlayer 决定取职业的哪一组加值。
func Bonus(p *domain.Player, vsPlayer bool) (attack, defense int) {
	cl := class.Lookup(p.Class)
	if vsPlayer {
		attack, defense = cl.AttackVsPlayer, cl.DefenseVsPlayer
	} else {
		attack, defense = cl.AttackVsEnemy, cl.DefenseVsEnemy
	}
	for _, it := range p.Equipped() {
		attack += it.Attack
		defense += it.Defense
	}
	attack += ledger.AttackBonus(p.Ledger)
	defense += ledger.DefenseBonus(p.Ledger)
	return attack, defense
}

// CanRevive 职业带复活且尚未使用。
func CanRevive(p *domain.Player) bool {
	return class.Lookup(p.Class).Revival && !p.RevivalUsed
}

func FromPlayer(p *domain.Player, vsPlayer bool) Combatant {
	atk, def := Bonus(p, vsPlayer)
	return Combatant{
		ID:      string(p.ID),
		HP:      p.HP,
		Attack:  atk,
		Defense: def,
		Wards:   ledger.Count(p.Ledger, domain.EffectWard),
		Revival: CanRevive(p),
	}
}

func FromEnemy(e *domain.Enemy) Combatant {
	return Combatant{ID: e.ID, HP: e.HP, Attack: e.Attack, Defense: e.Defense}
}

// Hurt 结算伤害：每点先由护盾抵挡，否则扣血；扣到 0 时能复活则强制留 1 点。
// 战斗外的伤害（陷阱、幸运牌）也走这里。
func Hurt(c *Combatant, dmg int) (wardsUsed int, revived bool) {
	lost := 0
	for range dmg {
		if c.Wards > 0 {
			c.Wards--
			wardsUsed++
			continue
		}
		c.HP = max(0, c.HP-1)
		lost++
	}
	if lost > 0 && c.HP == 0 && c.Revival {
		c.HP = 1
		c.Revival = false
		revived = true
	}
	return wardsUsed, revived
}

// Settle 把结算后的数值写回玩家：HP 归零即昏睡，记录复活已用，
// 并移除被消耗的护盾条目，返回对应的暗置牌以便归还弃牌堆。
func Settle(p *domain.Player, before, after Combatant) []domain.LuckCard {
	p.HP = after.HP
	p.Alive = after.HP > 0
	if before.Revival && !after.Revival {
		p.RevivalUsed = true
	}
	var spent []domain.LuckCard
	for range before.Wards - after.Wards {
		p.Ledger = ledger.Remove(p.Ledger, domain.EffectWard)
		if c, ok := p.TakeKept(domain.CardWard); ok {
			spent = append(spent, c)
		}
	}
	return spent
}

// Damage 战斗外的伤害（陷阱、幸运牌）：不消耗护盾，按复活规则结算。
func Damage(p *domain.Player, dmg int) (revived bool) {
	before := Combatant{ID: string(p.ID), HP: p.HP, Revival: CanRevive(p)}
	after := before
	_, revived = Hurt(&after, dmg)
	Settle(p, before, after)
	return revived
}
