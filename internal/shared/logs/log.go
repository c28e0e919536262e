package logs

import (
	"io"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/serverconfig"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/logx"
)

var (
	logger = zap.NewNop()
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init 初始化全局 logger：控制台彩色输出，配置了 file_dir 时另写一路 JSON 文件（lumberjack 切割）。
func Init(appName string, cfg serverconfig.LogConfig) error {
	SetLevel(cfg.Level)

	//    2026-01-28T10:00:00 INFO  match-server  turn ended  turn.go:12
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), level)

	// 文件单独一路 JSON core，不把 ANSI 颜色写进文件
	if w := fileWriter(cfg); w != nil {
		fileCfg := encoderCfg
		fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		core = zapcore.NewTee(core, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(w), level))
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	next := zap.New(core, opts...).Named(appName)
	_ = logger.Sync()
	logger = next
	return nil
}

func fileWriter(cfg serverconfig.LogConfig) io.Writer {
	if cfg.FileDir == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   cfg.FileDir,
		MaxSize:    max(1, cfg.MaxSize),
		MaxBackups: max(0, cfg.MaxBackups),
		MaxAge:     max(0, cfg.MaxAge),
		Compress:   cfg.Compress,
	}
}

// SetLevel 动态调整级别，配置热更新时调用；解析失败回退到 info。
func SetLevel(raw string) {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(raw))); err != nil {
		lvl = zapcore.InfoLevel
	}
	level.SetLevel(lvl)
}

// Logger 返回全局 zap logger。
func Logger() *zap.Logger {
	return logger
}

// Kit 返回 logx.Logger 形式的全局 logger，注入 app/actor 使用。
func Kit() logx.Logger {
	return logx.NewZapLogger(logger)
}

func Sync() error {
	return logger.Sync()
}

func Debug(msg string, fields ...zap.Field) { logger.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { logger.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { logger.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { logger.Error(msg, fields...) }

// Fatal 输出后退出进程（os.Exit(1)）。
func Fatal(msg string, fields ...zap.Field) { logger.Fatal(msg, fields...) }
