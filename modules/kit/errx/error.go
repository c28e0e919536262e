package errx

import (
	"errors"
	"fmt"
	"maps"
	"runtime"
	"slices"
)

// Code 错误码，对外语义的稳定标识。
type Code string

type kind uint8

const (
	kindBiz kind = iota
	kindSys
)

// Reason 只暴露 reason code 的最小接口。
type Reason interface {
	ReasonCode() string
}

// Error 是通用错误模型：
// - code/msg：对外语义
// - data：上下文，内部复制，外部无法修改
// - cause：原始错误链，只用于溯源
// - stack：系统类错误在第一次挂 cause 时捕获一次
type Error struct {
	code  Code
	msg   string
	data  map[string]any
	cause error
	stack []uintptr
	kind  kind
}

func NewBiz(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindBiz}
}

func NewSys(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindSys}
}

// From 沿错误链找到第一个 *Error。
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	head := string(e.code)
	if e.msg != "" {
		head = fmt.Sprintf("%s: %s", e.code, e.msg)
	}
	if e.cause == nil {
		return head
	}
	return fmt.Sprintf("%s: %v", head, e.cause)
}

// Unwrap 让 errors.Is / errors.As 可以沿着 cause 链溯源。
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is 只按错误码判断语义是否相同，忽略 msg/data/cause。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if e == nil || !ok || t == nil {
		return false
	}
	return e.code == t.code
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

func (e *Error) CodeText() string {
	return string(e.Code())
}

func (e *Error) Msg() string {
	if e == nil {
		return ""
	}
	return e.msg
}

// IsBiz 业务拒绝（规则不允许），不是系统故障。
func (e *Error) IsBiz() bool {
	return e != nil && e.kind == kindBiz
}

// Data 返回 data 的拷贝。
func (e *Error) Data() map[string]any {
	if e == nil || e.data == nil {
		return nil
	}
	return maps.Clone(e.data)
}

// Reason 返回 data.reason 中的原因码。
func (e *Error) Reason() string {
	if e == nil {
		return ""
	}
	s, _ := e.data["reason"].(string)
	return s
}

// Stack 返回错误最早被转换那一刻的调用栈。
func (e *Error) Stack() []uintptr {
	if e == nil || len(e.stack) == 0 {
		return nil
	}
	return slices.Clone(e.stack)
}

func (e *Error) WithData(key string, value any) *Error {
	next := e.derive()
	if next.data == nil {
		next.data = make(map[string]any, 1)
	}
	next.data[key] = value
	return next
}

// WithReason 等价于 WithData("reason", reason.ReasonCode())。
func (e *Error) WithReason(reason Reason) *Error {
	if reason == nil {
		return e.WithData("reason", "")
	}
	return e.WithData("reason", reason.ReasonCode())
}

func (e *Error) WithDataMap(data map[string]any) *Error {
	next := e.derive()
	if len(data) == 0 {
		return next
	}
	if next.data == nil {
		next.data = make(map[string]any, len(data))
	}
	maps.Copy(next.data, data)
	return next
}

func (e *Error) WithCause(cause error) *Error {
	next := e.derive()
	next.cause = cause
	// 下层已有栈时不重复捕获
	if next.kind == kindSys && cause != nil && len(next.stack) == 0 && !hasStackInChain(cause) {
		next.stack = captureStack(3)
	}
	return next
}

func (e *Error) derive() *Error {
	return &Error{
		code:  e.code,
		msg:   e.msg,
		data:  maps.Clone(e.data),
		cause: e.cause,
		stack: slices.Clone(e.stack),
		kind:  e.kind,
	}
}

func captureStack(skip int) []uintptr {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip, pcs)
	if n <= 0 {
		return nil
	}
	return pcs[:n]
}

func hasStackInChain(err error) bool {
	for i := 0; i < 32 && err != nil; i++ {
		if sp, ok := err.(interface{ Stack() []uintptr }); ok && len(sp.Stack()) != 0 {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
