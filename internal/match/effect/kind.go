package effect

// Kind 效果标识。字符串只出现在牌面数据与接口边界，进入执行器前解析为 Kind。
type Kind uint8

const (
	KindUnknown Kind = iota
	MoveForward
	MoveBack
	SkipTurn
	RollAgain
	DrawTreasure
	StealItem
	LoseHP
	Heal
	SwapNearest
	DuelNearest
	Blessing
	Curse
	Haste
	Slow
	Invisibility
	TrapCard
	AmbushCard
	WardCard
	PlaceTrap
	PlaceAmbush
	UseItem
)

var kindNames = [...]string{
	KindUnknown:  "unknown",
	MoveForward:  "move_forward",
	MoveBack:     "move_back",
	SkipTurn:     "skip_turn",
	RollAgain:    "roll_again",
	DrawTreasure: "draw_treasure",
	StealItem:    "steal_item",
	LoseHP:       "lose_hp",
	Heal:         "heal",
	SwapNearest:  "swap_nearest",
	DuelNearest:  "duel_nearest",
	Blessing:     "blessing",
	Curse:        "curse",
	Haste:        "haste",
	Slow:         "slow",
	Invisibility: "invisibility",
	TrapCard:     "trap_card",
	AmbushCard:   "ambush_card",
	WardCard:     "ward_card",
	PlaceTrap:    "place_trap",
	PlaceAmbush:  "place_ambush",
	UseItem:      "use_item",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		if Kind(k) != KindUnknown {
			m[name] = Kind(k)
		}
	}
	return m
}()

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// ParseKind 解析效果标识，未知标识返回 false。
func ParseKind(s string) (Kind, bool) {
	k, ok := kindByName[s]
	return k, ok
}
