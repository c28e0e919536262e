package dc

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/app/port"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/utils"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/logx"

	"go.uber.org/zap"
)

const (
	defaultRetryDelay = 200 * time.Millisecond
	maxLogRetry       = 3
)

// MatchDC 一局比赛的数据中心。
//
// 状态补丁同步提交，存储确认后才更新内存文档；
// 行动日志异步追加，写失败重试几次后丢弃并记系统错误。
type MatchDC struct {
	store port.StateStore
	logs  port.LogStore
	ids   *utils.Snowflake
	log   logx.Logger

	state      *domain.GameState
	retryDelay time.Duration

	mu       sync.Mutex
	pending  []domain.LogEntry
	inflight []domain.LogEntry
	closed   bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewMatchDC(store port.StateStore, logs port.LogStore, ids *utils.Snowflake, l logx.Logger) *MatchDC {
	if l == nil {
		l = logx.Nop()
	}
	d := &MatchDC{
		store:      store,
		logs:       logs,
		ids:        ids,
		log:        l,
		retryDelay: defaultRetryDelay,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

// Load 从存储全量加载文档。
func (d *MatchDC) Load(ctx context.Context, id domain.MatchID) (*domain.GameState, error) {
	s, err := d.store.GetState(ctx, id)
	if err != nil {
		return nil, err
	}
	d.state = s
	return s, nil
}

// Create 写入新开局的文档并作为内存文档。
func (d *MatchDC) Create(ctx context.Context, s *domain.GameState, entries []domain.LogEntry) error {
	if err := d.store.CreateState(ctx, s); err != nil {
		return err
	}
	d.state = s.Clone()
	d.enqueue(entries)
	return nil
}

// State 当前已提交的文档，调用方不能修改，需要修改先 Clone。
func (d *MatchDC) State() *domain.GameState {
	return d.state
}

// Loaded 是否已有文档。
func (d *MatchDC) Loaded() bool {
	return d.state != nil
}

// Commit 把 next 与内存文档的差异作为补丁提交，成功后应用到内存文档并排队写日志。
// 没有变化时不递增版本，只写日志。
func (d *MatchDC) Commit(ctx context.Context, next *domain.GameState, entries []domain.LogEntry) (domain.Patch, error) {
	if d.state == nil {
		return domain.Patch{}, domain.ErrNotFound.WithReason(domain.ReasonMatchMissing)
	}
	patch := domain.Diff(d.state, next)
	if patch.Empty() {
		d.enqueue(entries)
		return patch, nil
	}
	if err := d.store.ApplyPatch(ctx, d.state.MatchID, patch); err != nil {
		return patch, err
	}
	if err := d.state.Apply(patch); err != nil {
		// 存储已接受，这里只可能是内存文档被绕过修改，重新加载兜底
		if _, lerr := d.Load(ctx, d.state.MatchID); lerr != nil {
			return patch, lerr
		}
	}
	d.enqueue(entries)
	return patch, nil
}

// Reload 版本冲突后丢弃内存文档重新加载。
func (d *MatchDC) Reload(ctx context.Context) (*domain.GameState, error) {
	if d.state == nil {
		return nil, domain.ErrNotFound.WithReason(domain.ReasonMatchMissing)
	}
	return d.Load(ctx, d.state.MatchID)
}

// Logs 最近 limit 条日志，包含尚未落库的部分。
func (d *MatchDC) Logs(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	if d.state == nil {
		return nil, domain.ErrNotFound.WithReason(domain.ReasonMatchMissing)
	}
	// 先取未落库部分再查库，期间写完的条目按 id 去重
	d.mu.Lock()
	unsaved := slices.Concat(d.inflight, d.pending)
	d.mu.Unlock()

	stored, err := d.logs.ListLogs(ctx, d.state.MatchID, 0)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(stored))
	for _, e := range stored {
		seen[e.ID] = struct{}{}
	}
	out := stored
	for _, e := range unsaved {
		if _, dup := seen[e.ID]; dup && e.ID != 0 {
			continue
		}
		out = append(out, e)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (d *MatchDC) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *MatchDC) enqueue(entries []domain.LogEntry) {
	if len(entries) == 0 {
		return
	}
	entries = slices.Clone(entries)
	for i := range entries {
		if entries[i].ID == 0 && d.ids != nil {
			entries[i].ID = d.ids.NextID()
		}
		if entries[i].MatchID == "" && d.state != nil {
			entries[i].MatchID = d.state.MatchID
		}
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.pending = append(d.pending, entries...)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *MatchDC) popPending() []domain.LogEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.pending
	d.pending = nil
	d.inflight = out
	return out
}

func (d *MatchDC) clearInflight() {
	d.mu.Lock()
	d.inflight = nil
	d.mu.Unlock()
}

func (d *MatchDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending()
		case <-d.stop:
			d.consumePending()
			return
		}
	}
}

func (d *MatchDC) consumePending() {
	for {
		batch := d.popPending()
		if len(batch) == 0 {
			return
		}
		d.write(batch)
		d.clearInflight()
	}
}

func (d *MatchDC) write(batch []domain.LogEntry) {
	id := batch[0].MatchID
	var err error
	for attempt := 0; attempt < maxLogRetry; attempt++ {
		if err = d.logs.AppendLog(context.TODO(), id, batch...); err == nil {
			return
		}
		time.Sleep(d.retryDelay)
	}
	// 日志丢失不影响对局文档，记下以便排障
	logx.ReportSysErrorWithLoggerContext(context.TODO(), d.log,
		logx.NewSysLog("match.log.append", domain.ErrSystemUnavailable.WithReason(domain.ReasonLogWriteFail).WithCause(err)),
		zap.String("match_id", string(id)),
		zap.Int("dropped", len(batch)),
	)
}
