package combat

import "github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/random"

// 击败敌人后的掉落档位表，0 表示不掉落。
var lootTables = map[int]random.Table[int]{
	1: {{Value: 1, Weight: 50}, {Value: 0, Weight: 50}},
	2: {{Value: 2, Weight: 70}, {Value: 1, Weight: 15}, {Value: 0, Weight: 15}},
	3: {{Value: 3, Weight: 80}, {Value: 2, Weight: 20}},
}

// LootTier 按敌人档位掷掉落档位，ok=false 表示没有掉落。
func LootTier(enemyTier int, src random.Source) (tier int, ok bool) {
	t, found := lootTables[min(max(enemyTier, 1), 3)]
	if !found {
		return 0, false
	}
	tier, _ = t.Roll(src)
	return tier, tier > 0
}
