package domain

import (
	"maps"
	"slices"
	"time"
)

type TurnState struct {
	// Index 当前行动玩家在 Order 中的下标
	Index         int   `json:"index" bson:"index"`
	Number        int   `json:"number" bson:"number"`
	Phase         Phase `json:"phase" bson:"phase"`
	ChallengeUsed bool  `json:"challenge_used" bson:"challenge_used"`
}

// GameState 一局比赛的权威文档。
type GameState struct {
	MatchID  MatchID              `json:"match_id" bson:"_id"`
	Version  int64                `json:"version" bson:"version"`
	Status   Status               `json:"status" bson:"status"`
	WinnerID PlayerID             `json:"winner_id,omitempty" bson:"winner_id,omitempty"`
	Order    []PlayerID           `json:"order" bson:"order"`
	Players  map[PlayerID]*Player `json:"players" bson:"players"`
	Tiles    []Tile               `json:"tiles" bson:"tiles"`
	Decks    map[string]*Deck     `json:"decks" bson:"decks"`
	Turn     TurnState            `json:"turn" bson:"turn"`
	Combat   *CombatState         `json:"combat,omitempty" bson:"combat,omitempty"`
	Pending  *PendingChoice       `json:"pending,omitempty" bson:"pending,omitempty"`
	// RandomSource 随机源出处（crypto / seeded:<seed>），便于复盘
	RandomSource string    `json:"random_source,omitempty" bson:"random_source,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Clone 深拷贝，回合控制器在副本上运行，提交成功后才替换。
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s
	out.Order = slices.Clone(s.Order)
	out.Players = make(map[PlayerID]*Player, len(s.Players))
	for id, p := range s.Players {
		out.Players[id] = p.Clone()
	}
	out.Tiles = make([]Tile, len(s.Tiles))
	for i, t := range s.Tiles {
		out.Tiles[i] = t.Clone()
	}
	out.Decks = make(map[string]*Deck, len(s.Decks))
	for k, d := range s.Decks {
		out.Decks[k] = d.Clone()
	}
	out.Combat = s.Combat.Clone()
	out.Pending = s.Pending.Clone()
	return &out
}

// CurrentPlayerID 当前回合玩家。
func (s *GameState) CurrentPlayerID() PlayerID {
	if len(s.Order) == 0 {
		return ""
	}
	return s.Order[s.Turn.Index%len(s.Order)]
}

func (s *GameState) Player(id PlayerID) (*Player, bool) {
	p, ok := s.Players[id]
	return p, ok && p != nil
}

// FinalIndex 终点格下标。
func (s *GameState) FinalIndex() int {
	return len(s.Tiles) - 1
}

func (s *GameState) Tile(index int) (*Tile, bool) {
	if index < 0 || index >= len(s.Tiles) {
		return nil, false
	}
	return &s.Tiles[index], true
}

// OthersAt 同格的其他玩家，按 Order 顺序。
func (s *GameState) OthersAt(pos int, self PlayerID, aliveOnly bool) []*Player {
	var out []*Player
	for _, id := range s.Order {
		p, ok := s.Player(id)
		if !ok || id == self || p.Position != pos {
			continue
		}
		if aliveOnly && !p.Alive {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Deck 取牌堆，不存在返回 nil。
func (s *GameState) Deck(kind CardKind, tier int) *Deck {
	return s.Decks[DeckKey(kind, tier)]
}

// DeckKeys 牌堆键排序后返回，保证日志与补丁顺序稳定。
func (s *GameState) DeckKeys() []string {
	return slices.Sorted(maps.Keys(s.Decks))
}
