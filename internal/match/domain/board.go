package domain

type TileType string

const (
	TileStart     TileType = "start"
	TileFinal     TileType = "final"
	TileSanctuary TileType = "sanctuary"
	TileEnemy     TileType = "enemy"
	TileTreasure  TileType = "treasure"
	TileLuck      TileType = "luck"
)

// Placement 放置在格子上的陷阱/伏击，记录放置者与来源牌。
type Placement struct {
	OwnerID PlayerID `json:"owner_id" bson:"owner_id"`
	CardID  string   `json:"card_id,omitempty" bson:"card_id,omitempty"`
}

type Tile struct {
	Index  int        `json:"index" bson:"index"`
	Type   TileType   `json:"type" bson:"type"`
	Tier   int        `json:"tier,omitempty" bson:"tier,omitempty"`
	Trap   *Placement `json:"trap,omitempty" bson:"trap,omitempty"`
	Ambush *Placement `json:"ambush,omitempty" bson:"ambush,omitempty"`
}

func (t Tile) Clone() Tile {
	if t.Trap != nil {
		p := *t.Trap
		t.Trap = &p
	}
	if t.Ambush != nil {
		p := *t.Ambush
		t.Ambush = &p
	}
	return t
}

// Placeable 起点、终点、圣所不能放置陷阱或伏击。
func (t Tile) Placeable() bool {
	switch t.Type {
	case TileStart, TileFinal, TileSanctuary:
		return false
	default:
		return t.Trap == nil && t.Ambush == nil
	}
}

// Clamp 把位置限制在 [0, n-1]。
func Clamp(pos, n int) int {
	if n <= 0 {
		return 0
	}
	return min(max(pos, 0), n-1)
}

// NoDuel 起点与圣所不能发生玩家间战斗。
func (t Tile) NoDuel() bool {
	return t.Type == TileStart || t.Type == TileSanctuary
}
