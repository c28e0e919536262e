package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
)

func newState(id domain.MatchID) *domain.GameState {
	return &domain.GameState{
		MatchID: id,
		Status:  domain.StatusActive,
		Order:   []domain.PlayerID{"p1"},
		Players: map[domain.PlayerID]*domain.Player{
			"p1": {ID: "p1", HP: 5, MaxHP: 5, Alive: true},
		},
		Tiles: []domain.Tile{{Index: 0, Type: domain.TileStart}, {Index: 1, Type: domain.TileFinal}},
		Decks: map[string]*domain.Deck{},
		Turn:  domain.TurnState{Number: 1, Phase: domain.PhaseRolling},
	}
}

func TestMatchStore_补丁按版本应用(t *testing.T) {
	ctx := context.Background()
	r := NewMatchStore()
	if err := r.CreateState(ctx, newState("m1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	before, _ := r.GetState(ctx, "m1")
	after := before.Clone()
	after.Players["p1"].Position = 1
	if err := r.ApplyPatch(ctx, "m1", domain.Diff(before, after)); err != nil {
		t.Fatalf("apply: %v", err)
	}

	got, _ := r.GetState(ctx, "m1")
	if got.Version != 1 || got.Players["p1"].Position != 1 {
		t.Fatalf("unexpected state: version=%d pos=%d", got.Version, got.Players["p1"].Position)
	}
}

func TestMatchStore_旧版本补丁返回冲突且不修改(t *testing.T) {
	ctx := context.Background()
	r := NewMatchStore()
	_ = r.CreateState(ctx, newState("m1"))

	base, _ := r.GetState(ctx, "m1")
	a := base.Clone()
	a.Players["p1"].HP = 4
	b := base.Clone()
	b.Players["p1"].HP = 3

	if err := r.ApplyPatch(ctx, "m1", domain.Diff(base, a)); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	err := r.ApplyPatch(ctx, "m1", domain.Diff(base, b))
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
	got, _ := r.GetState(ctx, "m1")
	if got.Players["p1"].HP != 4 {
		t.Fatalf("conflicting patch must not apply: hp=%d", got.Players["p1"].HP)
	}
}

func TestMatchStore_重复创建与不存在(t *testing.T) {
	ctx := context.Background()
	r := NewMatchStore()
	_ = r.CreateState(ctx, newState("m1"))

	if err := r.CreateState(ctx, newState("m1")); domain.ReasonOf(err) != domain.ReasonMatchExists.Code {
		t.Fatalf("expected MATCH_EXISTS, got %v", err)
	}
	if _, err := r.GetState(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMatchStore_返回副本(t *testing.T) {
	ctx := context.Background()
	r := NewMatchStore()
	_ = r.CreateState(ctx, newState("m1"))

	s, _ := r.GetState(ctx, "m1")
	s.Players["p1"].HP = 0

	again, _ := r.GetState(ctx, "m1")
	if again.Players["p1"].HP != 5 {
		t.Fatalf("store leaked internal state")
	}
}

func TestMatchStore_日志取最近N条(t *testing.T) {
	ctx := context.Background()
	r := NewMatchStore()
	for i := 1; i <= 5; i++ {
		_ = r.AppendLog(ctx, "m1", domain.LogEntry{ID: int64(i), Action: "a"})
	}
	got, _ := r.ListLogs(ctx, "m1", 2)
	if len(got) != 2 || got[0].ID != 4 || got[1].ID != 5 {
		t.Fatalf("unexpected tail: %+v", got)
	}
}
