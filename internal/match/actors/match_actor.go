package actors

import (
	"context"
	"errors"
	"time"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/app"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/app/port"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/dc"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/actor/messages"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/utils"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/logx"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/tracex"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

const (
	defaultOpTimeout = 3 * time.Second
	closeTimeout     = 3 * time.Second
)

// Deps 对局 actor 共用的依赖。
type Deps struct {
	Store   port.StateStore
	Logs    port.LogStore
	IDs     *utils.Snowflake
	Service *app.MatchService
	Log     logx.Logger
	// IdleTimeout 无命令多久后停止 actor 并释放内存文档，0 表示常驻
	IdleTimeout time.Duration
	OpTimeout   time.Duration
}

// MatchActor 一局比赛一个 actor，邮箱串行保证同一局的命令按到达顺序执行。
type MatchActor struct {
	state      State
	matchID    MatchID
	deps       Deps
	dc         *dc.MatchDC
	loadErr    error
	dispatcher *Dispatcher
	log        logx.Logger
}

func NewMatchActor(id MatchID, deps Deps) *MatchActor {
	l := deps.Log
	if l == nil {
		l = logx.Nop()
	}
	if deps.OpTimeout <= 0 {
		deps.OpTimeout = defaultOpTimeout
	}
	return &MatchActor{
		state:      None,
		matchID:    id,
		deps:       deps,
		dc:         dc.NewMatchDC(deps.Store, deps.Logs, deps.IDs, l),
		dispatcher: NewDispatcher(),
		log:        l.With(zap.String("match_id", string(id))),
	}
}

func (m *MatchActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		m.state = Init
		m.init(ctx)
		return
	case *actor.ReceiveTimeout:
		m.log.Debug("match actor idle, stopping")
		ctx.Stop(ctx.Self())
		return
	case *actor.Stopping:
		m.state = Stopping
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := m.dc.Close(closeCtx); err != nil {
			m.log.Error("match dc close failed", zap.Error(err))
		}
		return
	case *actor.Stopped:
		m.state = Offline
		return
	case *actor.Restarting:
		m.state = Init
		return
	case messages.MatchMessage:
		if m.state != Online {
			err := m.loadErr
			if err == nil {
				err = app.ErrUnavailable.WithReason(app.ReasonNoDocument)
			}
			ctx.Respond(fail(err))
			// 加载失败的 actor 不常驻，下一条命令重新创建
			ctx.Stop(ctx.Self())
			return
		}
		m.dispatcher.Dispatch(ctx, m, msg)
	default:
		return
	}
}

// init 从存储加载文档；对局不存在时保持空文档，只接受开局命令。
func (m *MatchActor) init(ctx actor.Context) {
	loadCtx, cancel := context.WithTimeout(context.Background(), m.deps.OpTimeout)
	defer cancel()

	_, err := m.dc.Load(loadCtx, m.matchID)
	switch {
	case err == nil, errors.Is(err, domain.ErrNotFound):
	default:
		m.loadErr = app.ErrUnavailable.WithReason(app.ReasonStateLoadFail).WithCause(err)
		m.state = Offline
		logx.ReportSysErrorWithLoggerContext(loadCtx, m.log, logx.NewSysLog("match.load", m.loadErr))
		return
	}
	m.state = Online
	if m.deps.IdleTimeout > 0 {
		ctx.SetReceiveTimeout(m.deps.IdleTimeout)
	}
}

// opContext 每条命令一个带超时的 context，并接上请求方的 trace。
func (m *MatchActor) opContext(req messages.MatchMessage) (context.Context, context.CancelFunc) {
	ctx := context.Background()
	if id := req.Trace(); id != "" {
		ctx = tracex.WithTraceID(ctx, id)
	}
	ctx = tracex.WithSpanID(tracex.Ensure(ctx), tracex.NewSpanID())
	return context.WithTimeout(ctx, m.deps.OpTimeout)
}

func (m *MatchActor) MatchID() MatchID {
	return m.matchID
}

func (m *MatchActor) DC() *dc.MatchDC {
	return m.dc
}

func (m *MatchActor) Service() *app.MatchService {
	return m.deps.Service
}
