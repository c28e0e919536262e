package logs

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/serverconfig"
)

func TestInit_写文件并可动态调级(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.log")
	if err := Init("match-test", serverconfig.LogConfig{FileDir: path, Level: "warn"}); err != nil {
		t.Fatalf("Init err=%v", err)
	}
	if Logger().Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("warn 级别下不应输出 info")
	}
	SetLevel("debug")
	if !Logger().Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("调级后应输出 debug")
	}
	SetLevel("not-a-level")
	if !Logger().Core().Enabled(zapcore.InfoLevel) || Logger().Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("非法级别应回退到 info")
	}
}
