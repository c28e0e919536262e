package actor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/actors"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/app"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/actor/messages"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/errx"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/tracex"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 3 * time.Second

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
	once    sync.Once
}

func NewRuntime(deps actors.Deps, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	// manager 只路由，不做重活；每局比赛的状态在它创建的子 actor 里
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(deps)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

// Shutdown 可重复调用。
func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		if r.root != nil && r.manager != nil {
			// 等子 actor 关闭数据中心，把排队的日志写完
			_ = r.root.StopFuture(r.manager).Wait()
		}
		if r.system != nil {
			r.system.Shutdown()
		}
	})
}

// Base 组装消息头，带上 ctx 里的 trace。
func (r *Runtime) Base(ctx context.Context, matchID domain.MatchID, playerID domain.PlayerID) messages.MatchBaseMessage {
	b := messages.MatchBaseMessage{Match: matchID, Player: playerID}
	if ctx != nil {
		if id, ok := tracex.TraceIDFrom(ctx); ok {
			b.TraceID = id
		}
	}
	return b
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		code := transport.SystemError
		if errors.Is(err, protoactor.ErrTimeout) {
			code = transport.Unavailable
		}
		return nil, &RuntimeError{
			Code:    code,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

// Ask 把命令投递到对局 actor 并等待回包；业务错误原样返回。
func (r *Runtime) Ask(ctx context.Context, msg messages.MatchMessage) (*messages.MHReply, error) {
	if msg == nil {
		return nil, &RuntimeError{
			Code:    transport.InvalidParam,
			Message: "match request 不能为空",
		}
	}

	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}

	resp, ok := res.(*messages.MHReply)
	if !ok || resp == nil {
		return nil, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor 返回类型非法",
		}
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp, nil
}

// CodeFromError 错误映射到对外业务码。
func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	e, ok := errx.From(err)
	if !ok {
		return transport.SystemError
	}
	switch e.Code() {
	case domain.CodeRuleViolation:
		return transport.RuleViolation
	case domain.CodeNotFound:
		return transport.NotFound
	case domain.CodePrecondition:
		return transport.Precondition
	case domain.CodeVersionConflict:
		return transport.Conflict
	case app.CodeInvalidCommand:
		return transport.InvalidParam
	case errx.CodeUnavailable, errx.CodeTimeout:
		return transport.Unavailable
	default:
		return transport.SystemError
	}
}
