package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// 通过接口读取错误语义，logx 不直接依赖 errx。
type (
	codeTextProvider interface{ CodeText() string }
	msgProvider      interface{ Msg() string }
	dataProvider     interface{ Data() map[string]any }
	stackProvider    interface{ Stack() []uintptr }
	reasonProvider   interface{ Reason() string }
)

type ErrorLog struct {
	Error      string
	Code       string
	Msg        string
	Reason     string
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      string
}

// BuildErrorLog 把错误码、上下文、cause 链和发生处栈提取成可读结构。
func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error()}

	if p, ok := as[codeTextProvider](err); ok {
		out.Code = p.CodeText()
	}
	if p, ok := as[msgProvider](err); ok {
		out.Msg = p.Msg()
	}
	if p, ok := as[dataProvider](err); ok {
		out.Data = p.Data()
	}
	if p, ok := as[reasonProvider](err); ok {
		out.Reason = p.Reason()
	}
	if p, ok := as[stackProvider](err); ok {
		out.Origin, out.Stack = formatStack(p.Stack(), 32)
	}
	out.CauseChain = causeChain(err, 20)
	return out
}

func as[T any](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}

func causeChain(err error, maxDepth int) []string {
	var out []string
	for cur := errors.Unwrap(err); cur != nil && len(out) < maxDepth; cur = errors.Unwrap(cur) {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
	}
	return out
}

func formatStack(pcs []uintptr, maxFrames int) (origin string, stack string) {
	if len(pcs) == 0 || maxFrames <= 0 {
		return "", ""
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, maxFrames)
	for len(lines) < maxFrames {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" {
			break
		}
		lines = append(lines, fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line))
		if !more {
			break
		}
	}
	if len(lines) == 0 {
		return "", ""
	}
	return lines[0], strings.Join(lines, "\n")
}
