package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/dc"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/infra/persistence/memory"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/turn"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/random"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/utils"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/errx"
)

type recorder struct {
	mu       sync.Mutex
	reveals  int
	combats  int
	choices  int
	finished []domain.PlayerID
}

func (r *recorder) RevealCards(context.Context, domain.MatchID, domain.PlayerID, []domain.Card) {
	r.mu.Lock()
	r.reveals++
	r.mu.Unlock()
}

func (r *recorder) ShowCombat(context.Context, domain.MatchID, *domain.CombatState) {
	r.mu.Lock()
	r.combats++
	r.mu.Unlock()
}

func (r *recorder) RequireChoice(context.Context, domain.MatchID, domain.PlayerID, *domain.PendingChoice) {
	r.mu.Lock()
	r.choices++
	r.mu.Unlock()
}

func (r *recorder) MatchFinished(_ context.Context, _ domain.MatchID, winner domain.PlayerID) {
	r.mu.Lock()
	r.finished = append(r.finished, winner)
	r.mu.Unlock()
}

var seats = []turn.Seat{
	{ID: "p1", Name: "Ann", Class: "warrior"},
	{ID: "p2", Name: "Bo", Class: "knight"},
}

type fixture struct {
	svc   *MatchService
	doc   *dc.MatchDC
	store *memory.MatchStore
	rec   *recorder
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewMatchStore()
	ids, err := utils.NewSnowflake(2)
	require.NoError(t, err)
	doc := dc.NewMatchDC(store, store, ids, nil)
	t.Cleanup(func() { _ = doc.Close(context.Background()) })

	rec := &recorder{}
	src := random.NewSeeded(42)
	svc := NewMatchService(turn.NewController(nil, src, turn.Config{}), rec, src)
	return &fixture{svc: svc, doc: doc, store: store, rec: rec}
}

// treasureRun 前四格都换成宝藏格，任何点数都会揭示一张宝藏
func (f *fixture) treasureRun(t *testing.T) {
	t.Helper()
	st, err := turn.NewGame("m1", seats, random.NewSeeded(1))
	require.NoError(t, err)
	for i := 1; i <= 4; i++ {
		st.Tiles[i].Type = domain.TileTreasure
		st.Tiles[i].Tier = 1
	}
	require.NoError(t, f.doc.Create(context.Background(), st, nil))
}

func TestCreateMatch_开局并拒绝重复创建(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	out, err := f.svc.CreateMatch(ctx, f.doc, "m1", seats)
	require.NoError(t, err)
	require.Equal(t, int64(0), out.State.Version)
	require.Equal(t, "seeded:42", out.State.RandomSource)
	require.Equal(t, []domain.PlayerID{"p1", "p2"}, out.State.Order)

	_, err = f.svc.CreateMatch(ctx, f.doc, "m1", seats)
	require.Equal(t, domain.ReasonMatchExists.Code, domain.ReasonOf(err))

	stored, err := f.store.GetState(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, stored.Players, 2)
}

func TestCreateMatch_名单不合法(t *testing.T) {
	f := setup(t)
	_, err := f.svc.CreateMatch(context.Background(), f.doc, "m1", seats[:1])
	require.Equal(t, domain.ReasonBadRoster.Code, domain.ReasonOf(err))
	require.False(t, f.doc.Loaded())
}

func TestRun_未加载返回不存在(t *testing.T) {
	f := setup(t)
	_, err := f.svc.RollAndMove(context.Background(), f.doc, "p1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRun_规则拒绝不修改文档(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.treasureRun(t)

	_, err := f.svc.RollAndMove(ctx, f.doc, "p2")
	require.Equal(t, domain.ReasonNotYourTurn.Code, domain.ReasonOf(err))
	require.Equal(t, int64(0), f.doc.State().Version)
	require.Zero(t, f.rec.reveals)

	stored, _ := f.store.GetState(ctx, "m1")
	require.Equal(t, int64(0), stored.Version)
}

func TestRun_提交补丁后推送事件(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.treasureRun(t)

	out, err := f.svc.RollAndMove(ctx, f.doc, "p1")
	require.NoError(t, err)
	require.Equal(t, int64(1), out.State.Version)
	require.Equal(t, int64(0), out.Patch.BaseVersion)
	require.Contains(t, out.Patch.Players, domain.PlayerID("p1"))
	require.Equal(t, 1, f.rec.reveals)

	p1 := out.State.Players["p1"]
	require.GreaterOrEqual(t, p1.Position, 1)
	require.LessOrEqual(t, p1.Position, 4)
	require.Len(t, p1.Items(), 1)

	// 返回的是副本
	out.State.Players["p1"].HP = 0
	require.NotZero(t, f.doc.State().Players["p1"].HP)

	logs, err := f.svc.Logs(ctx, f.doc, 0)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
}

func TestRun_版本冲突后重载可重试(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.treasureRun(t)

	// 另一个进程推进了文档
	base, _ := f.store.GetState(ctx, "m1")
	other := base.Clone()
	other.Players["p2"].HP = 3
	require.NoError(t, f.store.ApplyPatch(ctx, "m1", domain.Diff(base, other)))

	_, err := f.svc.RollAndMove(ctx, f.doc, "p1")
	require.ErrorIs(t, err, domain.ErrVersionConflict)
	require.Zero(t, f.rec.reveals)
	require.Equal(t, 3, f.doc.State().Players["p2"].HP)

	out, err := f.svc.RollAndMove(ctx, f.doc, "p1")
	require.NoError(t, err)
	require.Equal(t, int64(2), out.State.Version)
}

type downStore struct{ *memory.MatchStore }

func (downStore) ApplyPatch(context.Context, domain.MatchID, domain.Patch) error {
	return errors.New("connection refused")
}

func TestRun_存储不可用返回系统错误(t *testing.T) {
	store := memory.NewMatchStore()
	doc := dc.NewMatchDC(downStore{store}, store, nil, nil)
	t.Cleanup(func() { _ = doc.Close(context.Background()) })
	src := random.NewSeeded(3)
	svc := NewMatchService(nil, nil, src)

	ctx := context.Background()
	_, err := svc.CreateMatch(ctx, doc, "m1", seats)
	require.NoError(t, err)

	_, err = svc.RollAndMove(ctx, doc, "p1")
	e, ok := errx.From(err)
	require.True(t, ok)
	require.False(t, e.IsBiz())
	require.Equal(t, CodeUnavailable, e.Code())
	require.Equal(t, ReasonStateCommitFail.Code, e.Reason())
	require.Equal(t, int64(0), doc.State().Version)
}
