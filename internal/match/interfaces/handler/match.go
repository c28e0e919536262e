package handler

import (
	"context"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/actor"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/actor/messages"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/errx"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/logx"
)

// Commands 接入层需要的 actor 运行时能力，测试里可替换。
type Commands interface {
	Base(ctx context.Context, matchID domain.MatchID, playerID domain.PlayerID) messages.MatchBaseMessage
	Ask(ctx context.Context, msg messages.MatchMessage) (*messages.MHReply, error)
}

var _ Commands = (*actor.Runtime)(nil)

const busyMessage = "系统繁忙，请稍后重试"

// Failure 对外的错误描述。
type Failure struct {
	Code    int
	Reason  string
	Message string
}

// HandleError 把错误映射成业务码并按类别上报：规则拒绝记 INFO，技术错误记 ERROR 带栈。
func HandleError(ctx context.Context, l logx.Logger, action string, err error) Failure {
	code := actor.CodeFromError(err)
	reason := domain.ReasonOf(err)
	transport.SetErrorReason(ctx, reason)

	if e, ok := errx.From(err); ok && e.IsBiz() {
		logx.ReportBizWithLoggerContext(ctx, l, logx.NewBizLog(action, reason, e.Msg()))
		return Failure{Code: code, Reason: reason, Message: e.Msg()}
	}

	logx.ReportSysErrorWithLoggerContext(ctx, l, logx.NewSysLog(action, err))
	return Failure{Code: code, Reason: reason, Message: busyMessage}
}
