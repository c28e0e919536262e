package logx

import (
	"context"
	"errors"
	"testing"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/errx"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	e := errx.NewSys("SYS_STORE", "存储不可用").
		WithData("match_id", "m-1").
		WithCause(errors.New("mongo down"))

	meta := BuildErrorLog(e)
	if meta.Code != "SYS_STORE" || meta.Msg == "" {
		t.Fatalf("期望提取 code/msg，got=%+v", meta)
	}
	if meta.Data["match_id"] != "m-1" {
		t.Fatalf("期望 data 包含 match_id, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 cause 链非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望带发生处栈 origin=%q", meta.Origin)
	}
}

func TestReportBiz_INFO级别且带trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))
	ctx := tracex.WithTraceID(context.Background(), "t-9")

	ReportBizWithLoggerContext(ctx, l, NewBizLog("match.roll", "NOT_YOUR_TURN", "不是你的回合"))

	entries := logs.All()
	if len(entries) != 1 || entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("期望一条 INFO 日志, got=%v", entries)
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != "t-9" || fields["reason"] != "NOT_YOUR_TURN" {
		t.Fatalf("字段不符合预期: %v", fields)
	}
}

func TestReportAccess_按业务码分级(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ReportAccessWithLoggerContext(context.Background(), l, "GET /healthz", 0)
	ReportAccessWithLoggerContext(context.Background(), l, "POST /roll", 409)
	ReportAccessWithLoggerContext(context.Background(), l, "POST /roll", 503)

	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range logs.All() {
		if e.Level != want[i] {
			t.Fatalf("第 %d 条日志级别 got=%v want=%v", i, e.Level, want[i])
		}
	}
}
