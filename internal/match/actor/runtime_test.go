package actor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/actors"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/app"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/infra/persistence/memory"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/turn"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/actor/messages"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/random"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/utils"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/tracex"
)

func newRuntime(t *testing.T, store *memory.MatchStore) *Runtime {
	t.Helper()
	ids, err := utils.NewSnowflake(3)
	require.NoError(t, err)
	src := random.NewSeeded(11)
	r := NewRuntime(actors.Deps{
		Store:   store,
		Logs:    store,
		IDs:     ids,
		Service: app.NewMatchService(nil, nil, src),
	}, 2*time.Second)
	t.Cleanup(r.Shutdown)
	return r
}

func create(t *testing.T, r *Runtime, id domain.MatchID) *domain.GameState {
	t.Helper()
	ctx := context.Background()
	resp, err := r.Ask(ctx, &messages.HMCreateMatch{
		MatchBaseMessage: r.Base(ctx, id, ""),
		Seats: []turn.Seat{
			{ID: "p1", Class: "warrior"},
			{ID: "p2", Class: "rogue"},
		},
	})
	require.NoError(t, err)
	return resp.State
}

func TestAsk_开局后可查询状态(t *testing.T) {
	store := memory.NewMatchStore()
	r := newRuntime(t, store)
	ctx := context.Background()

	st := create(t, r, "m1")
	require.Equal(t, domain.StatusActive, st.Status)

	resp, err := r.Ask(ctx, &messages.HMMatchState{MatchBaseMessage: r.Base(ctx, "m1", "p1")})
	require.NoError(t, err)
	require.Equal(t, st.MatchID, resp.State.MatchID)
}

func TestAsk_对局不存在(t *testing.T) {
	r := newRuntime(t, memory.NewMatchStore())
	ctx := context.Background()

	_, err := r.Ask(ctx, &messages.HMRollAndMove{MatchBaseMessage: r.Base(ctx, "ghost", "p1")})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Equal(t, transport.NotFound, CodeFromError(err))
}

func TestAsk_同一局命令串行执行(t *testing.T) {
	store := memory.NewMatchStore()
	r := newRuntime(t, store)
	create(t, r, "m1")

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		errs []error
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			ctx := tracex.Ensure(context.Background())
			_, err := r.Ask(ctx, &messages.HMRollAndMove{MatchBaseMessage: r.Base(ctx, "m1", "p1")})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				oks++
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	// 只有第一次掷骰成功，其余都看到已提交的状态而被拒绝
	require.Equal(t, 1, oks)
	for _, err := range errs {
		require.ErrorIs(t, err, domain.ErrRuleViolation)
		require.Equal(t, transport.RuleViolation, CodeFromError(err))
	}
	stored, err := store.GetState(context.Background(), "m1")
	require.NoError(t, err)
	require.Equal(t, int64(1), stored.Version)
}

func TestAsk_重启后从存储恢复(t *testing.T) {
	store := memory.NewMatchStore()
	r := newRuntime(t, store)
	create(t, r, "m1")
	r.Shutdown()

	r2 := newRuntime(t, store)
	ctx := context.Background()
	resp, err := r2.Ask(ctx, &messages.HMMatchState{MatchBaseMessage: r2.Base(ctx, "m1", "")})
	require.NoError(t, err)
	require.Len(t, resp.State.Players, 2)

	logs, err := store.ListLogs(ctx, "m1", 0)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
}

func TestCodeFromError_映射(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, transport.OK},
		{"规则", domain.Reject(domain.ReasonNotYourTurn), transport.RuleViolation},
		{"前置", domain.Missing("player", "x"), transport.Precondition},
		{"冲突", domain.ErrVersionConflict, transport.Conflict},
		{"参数", app.ErrInvalidCommand, transport.InvalidParam},
		{"存储", app.ErrUnavailable.WithCause(errors.New("down")), transport.Unavailable},
		{"运行时", &RuntimeError{Code: transport.Unavailable, Message: "timeout"}, transport.Unavailable},
		{"未知", errors.New("boom"), transport.SystemError},
	}
	for _, c := range cases {
		if got := CodeFromError(c.err); got != c.want {
			t.Fatalf("%s: got=%d want=%d", c.name, got, c.want)
		}
	}
}
