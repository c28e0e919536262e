package transport

import (
	"context"
	"time"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/logx"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/tracex"

	"go.uber.org/zap"
)

// AccessLog 请求级日志上下文，HTTP 与 WS 共用。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	MatchID     string
	PlayerID    string
	startTime   time.Time
	action      string
}

type accessLogKey struct{}

// NewContext 以 background 为父 context 创建带 AccessLog 的 context。
func NewContext(action string) context.Context {
	return NewContextWithParent(context.Background(), action)
}

// NewContextWithParent 保留父 context 的取消信号，并补齐 trace/span。
func NewContextWithParent(parent context.Context, action string) context.Context {
	if action == "" {
		action = "unknown"
	}
	ctx := tracex.Ensure(parent)
	ctx = tracex.WithSpanID(ctx, tracex.NewSpanID())

	al := &AccessLog{
		// 先置系统错误，避免 handler 漏设时出现成功假象
		BizCode:   BizCode(SystemError),
		startTime: time.Now(),
		action:    action,
	}
	return context.WithValue(ctx, accessLogKey{}, al)
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// SetSubject 记录本次请求作用的对局与玩家。
func SetSubject(ctx context.Context, matchID, playerID string) {
	if al := FromContext(ctx); al != nil {
		al.MatchID = matchID
		al.PlayerID = playerID
	}
}

// WriteAccessLog 输出访问日志，一般在中间件里调用一次。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}

	fields := []zap.Field{zap.Duration("latency", time.Since(al.startTime))}
	if al.MatchID != "" {
		fields = append(fields, zap.String("match_id", al.MatchID))
	}
	if al.PlayerID != "" {
		fields = append(fields, zap.String("player_id", al.PlayerID))
	}
	if al.BizCode == BizCode(OK) {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	logx.ReportAccessWithLoggerContext(ctx, log, al.action, int(al.BizCode), fields...)
}
