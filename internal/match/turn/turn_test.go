package turn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/ledger"
)

func TestRollAndMove_每回合一次且只能当前玩家(t *testing.T) {
	s := newGame(t)
	c := NewController(nil, rig(3), Config{})

	requireReason(t, c.RollAndMove(s, "p2"), domain.ReasonNotYourTurn)
	require.NoError(t, c.RollAndMove(s, "p1"))
	require.Equal(t, 4, player(s, "p1").Position)
	require.True(t, player(s, "p1").ActionTaken)
	requireReason(t, c.RollAndMove(s, "p1"), domain.ReasonAlreadyActed)
}

func TestRollAndMove_移动修正叠加并夹在终点(t *testing.T) {
	s := newGame(t)
	p := player(s, "p1")
	p.Position = 27
	p.Equipment[domain.SlotBody] = &domain.Item{ID: "boots", Category: domain.CategoryWearable, Movement: 1}
	p.Ledger = ledger.Add(p.Ledger, ledger.Timed(domain.EffectHaste, 2, 0, 0, 1, ""))
	c := NewController(nil, rig(3), Config{})

	require.NoError(t, c.RollAndMove(s, "p1"))
	require.Equal(t, s.State.FinalIndex(), p.Position)
	require.Equal(t, domain.StatusFinished, s.State.Status)
	require.Equal(t, domain.PlayerID("p1"), s.State.WinnerID)
	requireReason(t, c.EndTurn(s, "p1"), domain.ReasonMatchFinished)
}

func TestLuck_第10格后退1格停在第9格不再结算(t *testing.T) {
	s := newGame(t)
	player(s, "p1").Position = 7
	onTop(s, luckCard("mb", "move_back", 1, false))
	c := NewController(nil, rig(2), Config{})

	require.NoError(t, c.RollAndMove(s, "p1"))
	require.Equal(t, 9, player(s, "p1").Position)
	require.Equal(t, domain.TileEnemy, s.State.Tiles[9].Type)
	require.Nil(t, s.State.Combat, "后退后不应结算第 9 格")
	require.Equal(t, domain.PhaseEndTurn, s.State.Turn.Phase)
	discard := s.State.Deck(domain.KindLuck, 1).Discard
	require.Equal(t, "mb", discard[len(discard)-1].ID)
}

func TestLuck_再掷骰嵌套超过上限后停止结算(t *testing.T) {
	s := newGame(t)
	player(s, "p1").Position = 4
	onTop(s, luckCard("mb", "move_back", 1, false))
	onTop(s, luckCard("ra2", "roll_again", 0, false))
	onTop(s, luckCard("ra1", "roll_again", 0, false))
	c := NewController(nil, rig(2, 2, 2), Config{MaxDepth: 1})

	require.NoError(t, c.RollAndMove(s, "p1"))
	require.Equal(t, 13, player(s, "p1").Position)
	require.Equal(t, domain.TileLuck, s.State.Tiles[13].Type)
	var stopped bool
	for _, e := range s.Logs {
		if e.Action == "resolve.depth" {
			stopped = true
		}
	}
	require.True(t, stopped, "应记录嵌套上限")
	top := s.State.Deck(domain.KindLuck, domain.LuckTier).Cards[0]
	require.Equal(t, "mb", top.ID, "第三格不应再抽牌")
	require.Equal(t, domain.PhaseEndTurn, s.State.Turn.Phase)
}

func TestLuck_偷窃对空手玩家落空(t *testing.T) {
	s := newGame(t)
	player(s, "p1").Position = 7
	onTop(s, luckCard("steal", "steal_item", 0, false))
	c := NewController(nil, rig(2), Config{})

	require.NoError(t, c.RollAndMove(s, "p1"))
	require.Nil(t, s.State.Pending)
	require.Equal(t, domain.PhaseEndTurn, s.State.Turn.Phase)
	require.NoError(t, c.EndTurn(s, "p1"))
	require.Equal(t, domain.PlayerID("p2"), s.State.CurrentPlayerID())
}

func TestLuck_偷窃挂起选择后回填(t *testing.T) {
	s := newGame(t)
	p := player(s, "p1")
	p.Position = 7
	p.Inventory[0] = treasure("dagger", 1, domain.CategoryHoldable)
	onTop(s, luckCard("steal", "steal_item", 0, false))
	c := NewController(nil, rig(2), Config{})

	require.NoError(t, c.RollAndMove(s, "p1"))
	require.NotNil(t, s.State.Pending)
	require.Equal(t, domain.ChoiceEffect, s.State.Pending.Kind)
	require.Equal(t, []string{"dagger"}, s.State.Pending.Candidates)
	require.Equal(t, domain.PhaseAwaitingChoice, s.State.Turn.Phase)
	requireReason(t, c.EndTurn(s, "p1"), domain.ReasonChoicePending)
	requireReason(t, c.ResolveChoice(s, "p1", Choice{ItemID: "sword"}), domain.ReasonInvalidChoice)

	require.NoError(t, c.ResolveChoice(s, "p1", Choice{ItemID: "dagger"}))
	require.Nil(t, s.State.Pending)
	require.False(t, p.HasItem("dagger"))
	discard := s.State.Deck(domain.KindTreasure, 1).Discard
	require.Equal(t, "dagger", discard[len(discard)-1].ID)
	requireReason(t, c.ResolveChoice(s, "p1", Choice{}), domain.ReasonNoPendingChoice)
}

func TestTreasure_背包溢出挂起并按容量保留(t *testing.T) {
	s := newGame(t)
	p := player(s, "p1")
	p.Position = 7
	for i := range p.Inventory {
		p.Inventory[i] = treasure([]string{"a", "b", "c", "d"}[i], 1, domain.CategorySmall)
	}
	onTop(s, domain.Card{ID: "new", Kind: domain.KindTreasure, Tier: 1, Item: treasure("new", 1, domain.CategoryHoldable)})
	discardBefore := len(s.State.Deck(domain.KindTreasure, 1).Discard)
	c := NewController(nil, rig(0), Config{})

	require.NoError(t, c.RollAndMove(s, "p1"))
	require.Equal(t, 8, p.Position)
	ch := s.State.Pending
	require.NotNil(t, ch)
	require.Equal(t, domain.ChoiceOverflow, ch.Kind)
	require.Len(t, ch.Overflow, 1)
	require.Equal(t, 4, ch.Capacity)

	requireReason(t, c.ResolveChoice(s, "p1", Choice{Keep: []string{"a", "b", "c", "d", "new"}}), domain.ReasonInvalidChoice)
	requireReason(t, c.ResolveChoice(s, "p1", Choice{Keep: []string{"a", "a"}}), domain.ReasonInvalidChoice)
	require.NoError(t, c.ResolveChoice(s, "p1", Choice{Keep: []string{"new", "b", "c", "d"}}))
	require.Nil(t, s.State.Pending)
	require.True(t, p.HasItem("new"))
	require.False(t, p.HasItem("a"))
	require.Equal(t, 0, p.FreeSlots())
	require.Len(t, s.State.Deck(domain.KindTreasure, 1).Discard, discardBefore+1)
}

func overflowGame(t *testing.T) (*Session, *domain.Player) {
	t.Helper()
	s := newGame(t)
	p := player(s, "p1")
	p.Position = 7
	for i := range p.Inventory {
		p.Inventory[i] = treasure([]string{"a", "b", "c", "d"}[i], 1, domain.CategorySmall)
	}
	p.Equipment[domain.SlotHandB] = treasure("axe", 1, domain.CategoryHoldable)
	onTop(s, domain.Card{ID: "new", Kind: domain.KindTreasure, Tier: 1, Item: treasure("new", 1, domain.CategoryHoldable)})
	return s, p
}

func TestTreasure_背包溢出时直接装备到空栏不占格子(t *testing.T) {
	s, p := overflowGame(t)
	discardBefore := len(s.State.Deck(domain.KindTreasure, 1).Discard)
	c := NewController(nil, rig(0), Config{})
	require.NoError(t, c.RollAndMove(s, "p1"))
	require.NotNil(t, s.State.Pending)
	requireReason(t, c.Equip(s, "p1", "new", domain.SlotHandA), domain.ReasonChoicePending)

	require.NoError(t, c.ResolveChoice(s, "p1", Choice{
		Keep:  []string{"a", "b", "c", "d"},
		Equip: map[string]domain.Slot{"new": domain.SlotHandA},
	}))
	require.Nil(t, s.State.Pending)
	require.Equal(t, "new", p.Equipment[domain.SlotHandA].ID)
	require.Equal(t, "axe", p.Equipment[domain.SlotHandB].ID)
	for _, id := range []string{"a", "b", "c", "d"} {
		require.True(t, p.HasItem(id), id)
	}
	require.Len(t, s.State.Deck(domain.KindTreasure, 1).Discard, discardBefore)
}

func TestTreasure_背包溢出时换下的装备参与保留(t *testing.T) {
	s, p := overflowGame(t)
	c := NewController(nil, rig(0), Config{})
	require.NoError(t, c.RollAndMove(s, "p1"))

	requireReason(t, c.ResolveChoice(s, "p1", Choice{Equip: map[string]domain.Slot{"new": domain.SlotBody}}), domain.ReasonWrongSlot)
	requireReason(t, c.ResolveChoice(s, "p1", Choice{Equip: map[string]domain.Slot{"a": domain.SlotHandA}}), domain.ReasonWrongSlot)
	requireReason(t, c.ResolveChoice(s, "p1", Choice{
		Keep:  []string{"new"},
		Equip: map[string]domain.Slot{"new": domain.SlotHandA},
	}), domain.ReasonInvalidChoice)
	require.Equal(t, "axe", p.Equipment[domain.SlotHandB].ID, "被拒绝的选择不改动装备")
	require.NotNil(t, s.State.Pending)

	require.NoError(t, c.ResolveChoice(s, "p1", Choice{
		Keep:  []string{"axe", "b", "c", "d"},
		Equip: map[string]domain.Slot{"new": domain.SlotHandB},
	}))
	require.Equal(t, "new", p.Equipment[domain.SlotHandB].ID)
	require.Nil(t, p.Equipment[domain.SlotHandA])
	require.True(t, p.HasItem("axe"))
	require.False(t, p.HasItem("a"))
	discard := s.State.Deck(domain.KindTreasure, 1).Discard
	require.Equal(t, "a", discard[len(discard)-1].ID)
}

func TestEnemy_遭遇战斗胜利后掉落宝藏(t *testing.T) {
	s := newGame(t)
	p := player(s, "p1")
	p.Position = 5
	onTop(s, domain.Card{ID: "gob", Kind: domain.KindEnemy, Tier: 1, Enemy: &domain.Enemy{ID: "gob", Name: "Goblin", Tier: 1, HP: 1, MaxHP: 1}})
	// 移动骰 1，遭遇表第一项，攻方 6/6，敌人 1/1，掉落表第一项
	c := NewController(nil, rig(0, 0, 5, 5, 0, 0, 0), Config{})

	require.NoError(t, c.RollAndMove(s, "p1"))
	require.Equal(t, 6, p.Position)
	require.NotNil(t, s.State.Combat)
	require.True(t, s.State.Combat.RetreatAllowed)
	require.Equal(t, domain.PhaseCombat, s.State.Turn.Phase)
	requireReason(t, c.EndTurn(s, "p1"), domain.ReasonCombatActive)

	require.NoError(t, c.CombatRound(s, "p1", ""))
	require.Nil(t, s.State.Combat)
	require.Equal(t, domain.PhaseEndTurn, s.State.Turn.Phase)
	require.Len(t, p.Items(), 1, "应获得 1 档掉落")
	enemyDiscard := s.State.Deck(domain.KindEnemy, 1).Discard
	require.Equal(t, "gob", enemyDiscard[len(enemyDiscard)-1].ID)
	require.Equal(t, 1, enemyDiscard[len(enemyDiscard)-1].Enemy.HP)
	requireReason(t, c.CombatRound(s, "p1", ""), domain.ReasonNoCombat)
}

func TestEnemy_撤退退回上一格(t *testing.T) {
	s := newGame(t)
	p := player(s, "p1")
	p.Position = 5
	c := NewController(nil, rig(0), Config{})

	require.NoError(t, c.RollAndMove(s, "p1"))
	require.NotNil(t, s.State.Combat)
	requireReason(t, c.Retreat(s, "p2"), domain.ReasonNotYourTurn)
	require.NoError(t, c.Retreat(s, "p1"))
	require.Nil(t, s.State.Combat)
	require.Equal(t, 5, p.Position)
	require.NotEmpty(t, s.State.Deck(domain.KindEnemy, 1).Discard)
}

func TestTrap_扣血并跳过格子_盗贼免疫(t *testing.T) {
	s := newGame(t, "warrior", "rogue")
	s.State.Tiles[8].Trap = &domain.Placement{OwnerID: "p2"}
	p1 := player(s, "p1")
	p1.Position = 7
	c := NewController(nil, rig(0, 0), Config{})

	require.NoError(t, c.RollAndMove(s, "p1"))
	require.Equal(t, 5, p1.HP)
	require.Nil(t, s.State.Tiles[8].Trap)
	require.Empty(t, p1.Items(), "中陷阱后不结算宝藏格")
	require.NoError(t, c.EndTurn(s, "p1"))

	s.State.Tiles[8].Trap = &domain.Placement{OwnerID: "p1"}
	p2 := player(s, "p2")
	p2.Position = 7
	require.NoError(t, c.RollAndMove(s, "p2"))
	require.Equal(t, 6, p2.HP)
	require.Nil(t, s.State.Tiles[8].Trap)
	require.Len(t, p2.Items(), 1, "盗贼免疫陷阱，格子照常结算")
}

func TestTrap_自己的陷阱不触发(t *testing.T) {
	s := newGame(t)
	s.State.Tiles[8].Trap = &domain.Placement{OwnerID: "p1"}
	player(s, "p1").Position = 7
	c := NewController(nil, rig(0), Config{})

	require.NoError(t, c.RollAndMove(s, "p1"))
	require.NotNil(t, s.State.Tiles[8].Trap)
	require.Equal(t, 6, player(s, "p1").HP)
}

func TestAmbush_强制战斗且第一回合不能攻击(t *testing.T) {
	s := newGame(t)
	s.State.Tiles[8].Ambush = &domain.Placement{OwnerID: "p2"}
	player(s, "p1").Position = 7
	player(s, "p2").Position = 20
	c := NewController(nil, rig(0, 5, 5, 0, 0), Config{})

	require.NoError(t, c.RollAndMove(s, "p1"))
	cs := s.State.Combat
	require.NotNil(t, cs)
	require.Equal(t, domain.SourceAmbush, cs.Source)
	require.True(t, cs.AttackDisabledFirstRound)
	require.False(t, cs.RetreatAllowed)
	require.Nil(t, s.State.Tiles[8].Ambush)
	require.Equal(t, 8, player(s, "p2").Position)
	requireReason(t, c.Retreat(s, "p1"), domain.ReasonRetreatForbidden)

	require.NoError(t, c.CombatRound(s, "p1", ""))
	round := s.State.Combat.Log[0]
	require.Equal(t, 0, round.Attacker.AttackDie)
	require.False(t, round.Defenders[0].Hit)
}

func TestStepBack_提灯在敌人格前后退一格(t *testing.T) {
	s := newGame(t)
	p := player(s, "p1")
	p.Position = 7
	p.Equipment[domain.SlotHandA] = &domain.Item{ID: "lamp", Name: "Lamp", Category: domain.CategoryHoldable, Special: domain.SpecialStepBack}
	c := NewController(nil, rig(1), Config{})

	require.NoError(t, c.RollAndMove(s, "p1"))
	require.Equal(t, 8, p.Position)
	require.Nil(t, s.State.Combat)
	require.Len(t, p.Items(), 1, "改为结算第 8 格宝藏")
}

func TestStepBack_每条结算链只后退一次(t *testing.T) {
	s := newGame(t)
	p := player(s, "p1")
	p.Position = 6
	p.Inventory[0] = &domain.Item{ID: "lamp", Name: "Lamp", Category: domain.CategoryHoldable, Special: domain.SpecialStepBack}
	// 第 10 格有其他玩家，退到第 9 格是敌人格，不再后退
	player(s, "p2").Position = 10
	c := NewController(nil, rig(3), Config{})

	require.NoError(t, c.RollAndMove(s, "p1"))
	require.Equal(t, 9, p.Position)
	require.NotNil(t, s.State.Combat)
}

func TestKeptCard_暗置陷阱后放置(t *testing.T) {
	s := newGame(t)
	p := player(s, "p1")
	p.Position = 7
	onTop(s, luckCard("snare", "trap_card", 0, true))
	luckDiscard := len(s.State.Deck(domain.KindLuck, 1).Discard)
	c := NewController(nil, rig(2), Config{})

	require.NoError(t, c.RollAndMove(s, "p1"))
	require.Len(t, p.Kept, 1)
	require.True(t, ledger.Has(p.Ledger, domain.EffectTrapCard))
	require.Len(t, s.State.Deck(domain.KindLuck, 1).Discard, luckDiscard, "暗置牌不进弃牌堆")

	requireReason(t, c.PlaceTrap(s, "p1", 5), domain.ReasonForbiddenTile)
	requireReason(t, c.PlaceTrap(s, "p1", 0), domain.ReasonForbiddenTile)
	requireReason(t, c.PlaceAmbush(s, "p1", 3), domain.ReasonNoBankedCard)
	require.NoError(t, c.PlaceTrap(s, "p1", 3))
	require.Equal(t, domain.PlayerID("p1"), s.State.Tiles[3].Trap.OwnerID)
	require.Empty(t, p.Kept)
	require.Len(t, s.State.Deck(domain.KindLuck, 1).Discard, luckDiscard+1)
}

func TestKeptCard_暗置条目跨回合保留(t *testing.T) {
	s := newGame(t)
	p := player(s, "p1")
	p.Position = 7
	onTop(s, luckCard("ward", "ward_card", 0, true))
	c := NewController(nil, rig(2), Config{})

	require.NoError(t, c.RollAndMove(s, "p1"))
	for range 3 {
		require.NoError(t, c.EndTurn(s, "p1"))
		player(s, "p2").ActionTaken = true
		require.NoError(t, c.EndTurn(s, "p2"))
		p.ActionTaken = true
	}
	require.True(t, ledger.Has(p.Ledger, domain.EffectWard))
	require.Len(t, p.Kept, 1)
}

func TestChallenge_同格挑战每回合一次(t *testing.T) {
	s := newGame(t)
	player(s, "p1").Position = 4
	player(s, "p2").Position = 4
	c := NewController(nil, rig(0, 0, 0, 0), Config{})

	requireReason(t, c.Challenge(s, "p1", "p1"), domain.ReasonInvalidTarget)
	require.NoError(t, c.Challenge(s, "p1", "p2"))
	require.Equal(t, domain.SourceChallenge, s.State.Combat.Source)
	require.True(t, s.State.Combat.PvP())
	requireReason(t, c.Challenge(s, "p1", "p2"), domain.ReasonCombatActive)
	require.NoError(t, c.Retreat(s, "p1"))
	player(s, "p1").Position = 4
	requireReason(t, c.Challenge(s, "p1", "p2"), domain.ReasonChallengeUsed)

	s2 := newGame(t)
	player(s2, "p1").Position = 5
	player(s2, "p2").Position = 5
	requireReason(t, c.Challenge(s2, "p1", "p2"), domain.ReasonNoDuelTile)
}

func TestEndTurn_必须先掷骰并递减账本(t *testing.T) {
	s := newGame(t)
	p := player(s, "p1")
	p.Ledger = ledger.Add(p.Ledger, ledger.Timed(domain.EffectInvisible, 1, 0, 0, 0, ""))
	p.Invisible = true
	c := NewController(nil, rig(0), Config{})

	requireReason(t, c.EndTurn(s, "p1"), domain.ReasonMustRoll)
	p.Position = 4
	require.NoError(t, c.RollAndMove(s, "p1"))
	require.Equal(t, 5, p.Position)
	require.NoError(t, c.EndTurn(s, "p1"))
	require.False(t, p.Invisible)
	require.Empty(t, p.Ledger)
	require.False(t, p.ActionTaken)
	require.Equal(t, domain.PlayerID("p2"), s.State.CurrentPlayerID())
	require.Equal(t, 2, s.State.Turn.Number)
	require.Equal(t, domain.PhaseRolling, s.State.Turn.Phase)
}

func TestEndTurn_跳过回合与昏睡醒来(t *testing.T) {
	s := newGame(t, "warrior", "knight", "rogue")
	c := NewController(nil, rig(), Config{})
	p2, p3 := player(s, "p2"), player(s, "p3")
	p2.Ledger = ledger.Add(p2.Ledger, ledger.Banked(domain.EffectSkipTurn, "", ""))
	p3.Alive, p3.HP = false, 0

	player(s, "p1").ActionTaken = true
	require.NoError(t, c.EndTurn(s, "p1"))
	require.Equal(t, domain.PlayerID("p1"), s.State.CurrentPlayerID(), "p2 跳过、p3 醒来后又轮到 p1")
	require.False(t, ledger.Has(p2.Ledger, domain.EffectSkipTurn))
	require.True(t, p3.Alive)
	require.Equal(t, p3.MaxHP, p3.HP)
	require.Equal(t, 4, s.State.Turn.Number)

	player(s, "p1").ActionTaken = true
	require.NoError(t, c.EndTurn(s, "p1"))
	require.Equal(t, domain.PlayerID("p2"), s.State.CurrentPlayerID())
}

func TestEquip_装备栏类别校验与交换(t *testing.T) {
	s := newGame(t)
	p := player(s, "p1")
	p.Inventory[0] = treasure("sword", 2, domain.CategoryHoldable)
	p.Inventory[1] = treasure("mail", 2, domain.CategoryWearable)
	p.Inventory[2] = treasure("potion", 1, domain.CategorySmall)
	c := NewController(nil, rig(), Config{})

	requireReason(t, c.Equip(s, "p1", "mail", domain.SlotHandA), domain.ReasonWrongSlot)
	requireReason(t, c.Equip(s, "p1", "potion", domain.SlotBody), domain.ReasonWrongSlot)
	requireReason(t, c.Equip(s, "p1", "nothing", domain.SlotBody), domain.ReasonItemNotFound)
	require.NoError(t, c.Equip(s, "p1", "sword", domain.SlotHandA))
	require.NoError(t, c.Equip(s, "p1", "mail", domain.SlotBody))
	require.Nil(t, p.Inventory[0])

	p.Inventory[3] = treasure("dagger", 1, domain.CategoryHoldable)
	require.NoError(t, c.Equip(s, "p1", "dagger", domain.SlotHandA))
	require.Equal(t, "sword", p.Inventory[3].ID, "原装备换回背包原位")

	require.NoError(t, c.Equip(s, "p1", "dagger", domain.SlotHandB))
	require.Nil(t, p.Equipment[domain.SlotHandA])

	require.NoError(t, c.Unequip(s, "p1", domain.SlotBody))
	require.Nil(t, p.Equipment[domain.SlotBody])
	requireReason(t, c.Unequip(s, "p1", domain.SlotBody), domain.ReasonItemNotFound)
	requireReason(t, c.Equip(s, "p2", "dagger", domain.SlotHandA), domain.ReasonNotYourTurn)
}

func TestUseItem_消耗品回血(t *testing.T) {
	s := newGame(t)
	p := player(s, "p1")
	p.HP = 3
	p.Inventory[0] = &domain.Item{ID: "potion", Name: "Healing Potion", Category: domain.CategorySmall, Tier: 1, Heal: 2, Consumable: true}
	c := NewController(nil, rig(), Config{})

	require.NoError(t, c.UseItem(s, "p1", "potion"))
	require.Equal(t, 5, p.HP)
	requireReason(t, c.UseItem(s, "p1", "potion"), domain.ReasonItemNotFound)
}
