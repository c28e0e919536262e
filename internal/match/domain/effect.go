package domain

import "slices"

// SentinelDuration 表示“直到被自身动作消耗才移除”，不随回合递减过期。
const SentinelDuration = 99

// 临时效果类型
const (
	EffectWard       = "ward"
	EffectSkipTurn   = "skip_turn"
	EffectTrapCard   = "trap_card"
	EffectAmbushCard = "ambush_card"
	EffectInvisible  = "invisible"
	EffectBlessing   = "blessing"
	EffectCurse      = "curse"
	EffectHaste      = "haste"
	EffectSlow       = "slow"
)

type TempEffect struct {
	Type        string `json:"type" bson:"type"`
	Duration    int    `json:"duration" bson:"duration"`
	Attack      int    `json:"attack,omitempty" bson:"attack,omitempty"`
	Defense     int    `json:"defense,omitempty" bson:"defense,omitempty"`
	Movement    int    `json:"movement,omitempty" bson:"movement,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	SourceID    string `json:"source_id,omitempty" bson:"source_id,omitempty"`
}

func (t TempEffect) Sentinel() bool {
	return t.Duration >= SentinelDuration
}

func CloneEffects(in []TempEffect) []TempEffect {
	return slices.Clone(in)
}

// 可暗置保留的幸运牌效果 id
const (
	CardTrap   = "trap_card"
	CardAmbush = "ambush_card"
	CardWard   = "ward_card"
)

// KeptEntry 暗置牌对应的账本条目类型。
func KeptEntry(cardEffect string) (string, bool) {
	switch cardEffect {
	case CardTrap:
		return EffectTrapCard, true
	case CardAmbush:
		return EffectAmbushCard, true
	case CardWard:
		return EffectWard, true
	default:
		return "", false
	}
}
