package turn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/random"
)

// script 按顺序返回 Intn 的原始值（骰面减一），用完后一直返回 0。
type script struct {
	vals []int
	i    int
}

func (s *script) Intn(n int) int {
	if n <= 1 || s.i >= len(s.vals) {
		return 0
	}
	v := s.vals[s.i]
	s.i++
	return min(max(v, 0), n-1)
}

func rig(vals ...int) *script { return &script{vals: vals} }

func newGame(t *testing.T, classes ...string) *Session {
	t.Helper()
	if len(classes) == 0 {
		classes = []string{"warrior", "knight"}
	}
	seats := make([]Seat, len(classes))
	for i, cl := range classes {
		id := domain.PlayerID([]string{"p1", "p2", "p3", "p4"}[i])
		seats[i] = Seat{ID: id, Name: string(id), Class: cl}
	}
	st, err := NewGame("m1", seats, random.NewSeeded(1))
	require.NoError(t, err)
	return NewSession(st)
}

func player(s *Session, id domain.PlayerID) *domain.Player {
	p, _ := s.State.Player(id)
	return p
}

// onTop 把一张牌放到牌堆顶。
func onTop(s *Session, c domain.Card) {
	tier := c.Tier
	if c.Kind == domain.KindLuck {
		tier = domain.LuckTier
	}
	d := s.State.Deck(c.Kind, tier)
	d.Cards = append([]domain.Card{c}, d.Cards...)
}

func luckCard(id, effect string, value int, kept bool) domain.Card {
	return domain.Card{ID: id, Kind: domain.KindLuck, Tier: domain.LuckTier, Luck: &domain.LuckCard{ID: id, Name: effect, Effect: effect, Value: value, CanBeKept: kept}}
}

func treasure(id string, tier int, cat domain.Category) *domain.Item {
	return &domain.Item{ID: id, Name: id, Category: cat, Tier: tier}
}

func requireReason(t *testing.T, err error, r domain.Reason) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, r.Code, domain.ReasonOf(err), "err=%v", err)
}
