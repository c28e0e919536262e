package logx

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// BizLog 业务拒绝日志的强类型输入，避免参数顺序误传。
type BizLog struct {
	Action  string
	Reason  string
	Message string
}

// SysLog 技术错误日志的强类型输入。
type SysLog struct {
	Action string
	Err    error
}

func NewBizLog(action, reason, message string) BizLog {
	return BizLog{Action: action, Reason: reason, Message: message}
}

func NewSysLog(action string, err error) SysLog {
	return SysLog{Action: action, Err: err}
}

// ReportAccessWithLoggerContext 记录访问日志：
// - biz_code == 0: INFO
// - biz_code  1~499: WARN
// - biz_code >= 500: ERROR
func ReportAccessWithLoggerContext(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	all := append([]zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	}, fields...)

	withCtx := l.WithContext(ctx)
	switch {
	case bizCode == 0:
		withCtx.Info("access", all...)
	case bizCode >= 500:
		withCtx.Error("access", all...)
	default:
		withCtx.Warn("access", all...)
	}
}

// ReportBizWithLoggerContext 记录业务拒绝：INFO、err_type=biz、不带堆栈。
func ReportBizWithLoggerContext(ctx context.Context, l Logger, biz BizLog, fields ...zap.Field) {
	if l == nil {
		return
	}
	action := orDefault(biz.Action, "biz_reject")
	all := []zap.Field{
		zap.String("err_type", "biz"),
		zap.String("action", action),
	}
	if biz.Reason != "" {
		all = append(all, zap.String("reason", biz.Reason))
	}
	if biz.Message != "" {
		all = append(all, zap.String("biz_message", biz.Message))
	}
	all = append(all, fields...)
	l.WithContext(ctx).Info(joinMsg(action, "reason", biz.Reason, "msg", biz.Message), all...)
}

// ReportSysErrorWithLoggerContext 记录技术错误：ERROR、err_type=sys，附带 cause 链和发生处栈。
func ReportSysErrorWithLoggerContext(ctx context.Context, l Logger, sys SysLog, fields ...zap.Field) {
	if sys.Err == nil || l == nil {
		return
	}
	action := orDefault(sys.Action, "sys_error")
	meta := BuildErrorLog(sys.Err)

	all := []zap.Field{
		zap.String("err_type", "sys"),
		zap.String("action", action),
	}
	if meta.Code != "" {
		all = append(all, zap.String("error_code", meta.Code))
	}
	if len(meta.CauseChain) != 0 {
		all = append(all, zap.Strings("cause_chain", meta.CauseChain))
	}
	if len(meta.Data) != 0 {
		all = append(all, zap.Any("error_data", meta.Data))
	}
	if meta.Origin != "" {
		all = append(all, zap.String("origin_caller", meta.Origin))
	}
	if meta.Stack != "" {
		all = append(all, zap.String("stack_origin", meta.Stack))
	}
	all = append(all, fields...)
	l.WithContext(ctx).Error(joinMsg(action, "reason", meta.Reason, "error", meta.Error), all...)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// joinMsg 拼出 "action, k1:v1, k2:v2"，空值跳过。
func joinMsg(action string, kv ...string) string {
	msg := action
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		msg = fmt.Sprintf("%s, %s:%s", msg, kv[i], kv[i+1])
	}
	return msg
}
