package turn

import (
	"time"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/deck"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/effect"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/gameconfig/board"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/gameconfig/cards"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/gameconfig/class"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/random"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/errx"
)

// Seat 开局时的一名玩家。
type Seat struct {
	ID    domain.PlayerID `json:"id"`
	Name  string          `json:"name"`
	Class string          `json:"class"`
}

const (
	MinPlayers = 2
	MaxPlayers = 6
)

// NewGame 按内置棋盘与牌组开一局，座次即行动顺序。
func NewGame(matchID domain.MatchID, seats []Seat, src random.Source) (*domain.GameState, error) {
	if len(seats) < MinPlayers || len(seats) > MaxPlayers {
		return nil, domain.ErrPrecondition.WithReason(domain.ReasonBadRoster).WithData("players", len(seats))
	}
	pop := cards.Default()
	if err := effect.CheckLuck(pop); err != nil {
		return nil, errx.ErrInternal.WithCause(err)
	}
	s := &domain.GameState{
		MatchID:   matchID,
		Version:   0,
		Status:    domain.StatusActive,
		Players:   make(map[domain.PlayerID]*domain.Player, len(seats)),
		Decks:     deck.Build(pop, src),
		Turn:      domain.TurnState{Index: 0, Number: 1, Phase: domain.PhaseRolling},
		CreatedAt: time.Now().UTC(),
	}
	for i, t := range board.Tiles() {
		s.Tiles = append(s.Tiles, domain.Tile{Index: i, Type: domain.TileType(t.Type), Tier: t.Tier})
	}
	for _, seat := range seats {
		if seat.ID == "" {
			return nil, domain.ErrPrecondition.WithReason(domain.ReasonBadRoster).WithData("reason", "empty id")
		}
		if _, dup := s.Players[seat.ID]; dup {
			return nil, domain.ErrPrecondition.WithReason(domain.ReasonBadRoster).WithData("duplicate", string(seat.ID))
		}
		cl, ok := class.Get(seat.Class)
		if !ok {
			return nil, domain.ErrPrecondition.WithReason(domain.ReasonUnknownClass).WithData("class", seat.Class)
		}
		name := seat.Name
		if name == "" {
			name = string(seat.ID)
		}
		s.Players[seat.ID] = &domain.Player{
			ID:        seat.ID,
			Name:      name,
			Class:     cl.ID,
			Position:  0,
			HP:        cl.MaxHP,
			MaxHP:     cl.MaxHP,
			Inventory: make([]*domain.Item, cl.InventorySlots),
			Alive:     true,
		}
		s.Order = append(s.Order, seat.ID)
	}
	return s, nil
}
