package effect

import (
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/combat"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
)

func loseHP(in Input, cb Callbacks) Result {
	dmg := orDefault(in.Value, 1)
	var hp int
	var revived bool
	mutatePlayer(cb, in.Actor, func(p *domain.Player) {
		revived = combat.Damage(p, dmg)
		hp = p.HP
	})
	switch {
	case revived:
		return done(msgf("%s 受到 %d 点伤害，复活后剩 1 点", name(in.State, in.Actor), dmg))
	case hp == 0:
		return done(msgf("%s 受到 %d 点伤害，陷入昏睡", name(in.State, in.Actor), dmg))
	default:
		return done(msgf("%s 受到 %d 点伤害，HP %d", name(in.State, in.Actor), dmg, hp))
	}
}

func heal(in Input, cb Callbacks) Result {
	amount := orDefault(in.Value, 1)
	var hp int
	mutatePlayer(cb, in.Actor, func(p *domain.Player) {
		p.HP = min(p.MaxHP, p.HP+amount)
		hp = p.HP
	})
	return done(msgf("%s 恢复 %d 点，HP %d", name(in.State, in.Actor), amount, hp))
}
