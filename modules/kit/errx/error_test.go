package errx

import (
	"errors"
	"fmt"
	"testing"
)

type testReason string

func (r testReason) ReasonCode() string { return string(r) }

func TestError_Is_只按code比较语义(t *testing.T) {
	e1 := NewBiz("MATCH_RULE_VIOLATION", "不是你的回合").WithData("player_id", "p1")
	e2 := NewBiz("MATCH_RULE_VIOLATION", "").WithReason(testReason("ALREADY_ACTED"))
	if !errors.Is(e1, e2) {
		t.Fatalf("期望 errors.Is 只按 code 判断，e1=%v e2=%v", e1, e2)
	}
	if errors.Is(e1, ErrUnavailable) {
		t.Fatalf("不同 code 不应相等")
	}
}

func TestError_业务错误不捕获栈_但保留cause链(t *testing.T) {
	cause := errors.New("tile forbidden")
	err := NewBiz("MATCH_RULE_VIOLATION", "").WithCause(cause)
	if got := err.Stack(); got != nil {
		t.Fatalf("期望业务错误不捕获栈，got=%v", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("期望 cause 链不丢，err=%v", err)
	}
	if !err.IsBiz() {
		t.Fatalf("期望 IsBiz==true")
	}
}

func TestError_系统错误捕获一次栈_且不重复捕获(t *testing.T) {
	sys := ErrUnavailable.WithCause(errors.New("mongo down"))
	if len(sys.Stack()) == 0 {
		t.Fatalf("期望系统错误首次挂 cause 时捕获栈")
	}
	outer := NewSys("SYS_ACTOR", "actor 异常").WithCause(sys)
	if outer.Stack() != nil {
		t.Fatalf("cause 链里已有栈，上层不应重复捕获")
	}
	if ErrUnavailable.Stack() != nil {
		t.Fatalf("哨兵错误不应被派生对象污染")
	}
}

func TestError_Data_防止外部map污染(t *testing.T) {
	m := map[string]any{"tile": 3}
	err := NewBiz("X", "").WithDataMap(m)
	m["tile"] = 9
	if got := err.Data()["tile"]; got != 3 {
		t.Fatalf("期望构造时复制 data，got=%v", got)
	}
	err.Data()["tile"] = 7
	if got := err.Data()["tile"]; got != 3 {
		t.Fatalf("Data() 返回值被修改后不应影响原错误，got=%v", got)
	}
}

func TestFrom_能穿透fmt包装(t *testing.T) {
	base := NewBiz("MATCH_NOT_FOUND", "").WithReason(testReason("MATCH_MISSING"))
	wrapped := fmt.Errorf("load: %w", base)
	e, ok := From(wrapped)
	if !ok || e.Reason() != "MATCH_MISSING" {
		t.Fatalf("期望 From 找到 *Error，got=%v ok=%v", e, ok)
	}
	if _, ok := From(errors.New("plain")); ok {
		t.Fatalf("普通错误不应被识别为 *Error")
	}
}
