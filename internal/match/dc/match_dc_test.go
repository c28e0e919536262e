package dc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/infra/persistence/memory"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/utils"
)

func newState() *domain.GameState {
	return &domain.GameState{
		MatchID: "m1",
		Status:  domain.StatusActive,
		Order:   []domain.PlayerID{"p1", "p2"},
		Players: map[domain.PlayerID]*domain.Player{
			"p1": {ID: "p1", HP: 5, MaxHP: 5, Alive: true},
			"p2": {ID: "p2", HP: 5, MaxHP: 5, Alive: true},
		},
		Tiles: []domain.Tile{{Index: 0, Type: domain.TileStart}, {Index: 1, Type: domain.TileFinal}},
		Decks: map[string]*domain.Deck{},
		Turn:  domain.TurnState{Number: 1, Phase: domain.PhaseRolling},
	}
}

func newDC(t *testing.T, store *memory.MatchStore) *MatchDC {
	t.Helper()
	ids, err := utils.NewSnowflake(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	d := NewMatchDC(store, store, ids, nil)
	t.Cleanup(func() { _ = d.Close(context.Background()) })
	return d
}

func TestCommit_补丁提交后更新内存文档(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMatchStore()
	d := newDC(t, store)
	if err := d.Create(ctx, newState(), nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	next := d.State().Clone()
	next.Players["p1"].Position = 1
	patch, err := d.Commit(ctx, next, []domain.LogEntry{{Action: "move"}})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if patch.Version != 1 || len(patch.Players) != 1 {
		t.Fatalf("unexpected patch: %+v", patch)
	}
	if d.State().Version != 1 || d.State().Players["p1"].Position != 1 {
		t.Fatalf("memory doc not updated")
	}
	stored, _ := store.GetState(ctx, "m1")
	if stored.Version != 1 {
		t.Fatalf("store not updated: version=%d", stored.Version)
	}
}

func TestCommit_无变化不递增版本(t *testing.T) {
	ctx := context.Background()
	d := newDC(t, memory.NewMatchStore())
	_ = d.Create(ctx, newState(), nil)

	if _, err := d.Commit(ctx, d.State().Clone(), nil); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if d.State().Version != 0 {
		t.Fatalf("empty patch bumped version to %d", d.State().Version)
	}
}

func TestCommit_版本冲突不修改内存文档并可重载(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMatchStore()
	d := newDC(t, store)
	_ = d.Create(ctx, newState(), nil)

	// 绕过 dc 的写入
	base, _ := store.GetState(ctx, "m1")
	other := base.Clone()
	other.Players["p2"].HP = 1
	if err := store.ApplyPatch(ctx, "m1", domain.Diff(base, other)); err != nil {
		t.Fatalf("external apply: %v", err)
	}

	next := d.State().Clone()
	next.Players["p1"].HP = 2
	_, err := d.Commit(ctx, next, nil)
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if d.State().Players["p1"].HP != 5 {
		t.Fatalf("memory doc changed on conflict")
	}

	s, err := d.Reload(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if s.Version != 1 || s.Players["p2"].HP != 1 {
		t.Fatalf("reload returned stale doc")
	}
}

func TestLogs_异步落库并分配id(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMatchStore()
	d := newDC(t, store)
	_ = d.Create(ctx, newState(), []domain.LogEntry{{Action: "match.create"}})

	next := d.State().Clone()
	next.Turn.Number = 2
	_, _ = d.Commit(ctx, next, []domain.LogEntry{{Action: "turn.end"}})

	got, err := d.Logs(ctx, 0)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}

	closeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := d.Close(closeCtx); err != nil {
		t.Fatalf("close: %v", err)
	}
	stored, _ := store.ListLogs(ctx, "m1", 0)
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored entries, got %d", len(stored))
	}
	if stored[0].ID == 0 || stored[0].ID >= stored[1].ID || stored[1].MatchID != "m1" {
		t.Fatalf("ids not assigned in order: %+v", stored)
	}
}

type brokenLogs struct{ *memory.MatchStore }

func (brokenLogs) AppendLog(context.Context, domain.MatchID, ...domain.LogEntry) error {
	return errors.New("disk full")
}

func TestLogs_写失败重试后丢弃不阻塞关闭(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMatchStore()
	d := NewMatchDC(store, brokenLogs{store}, nil, nil)
	d.retryDelay = time.Millisecond
	_ = d.Create(ctx, newState(), []domain.LogEntry{{Action: "match.create"}})

	closeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := d.Close(closeCtx); err != nil {
		t.Fatalf("close blocked: %v", err)
	}
}
