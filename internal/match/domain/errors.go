package domain

import "github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/errx"

// Code 对局领域错误码。
//
// 约定：
// - 规则拒绝与前置条件不满足是业务错误，只回给发起动作的玩家
// - 存储不可用复用 kit 的系统码
type Code = errx.Code

const (
	CodeRuleViolation     Code = "MATCH_RULE_VIOLATION"
	CodeNotFound          Code = "MATCH_NOT_FOUND"
	CodePrecondition      Code = "MATCH_PRECONDITION"
	CodeVersionConflict   Code = "MATCH_VERSION_CONFLICT"
	CodeSystemUnavailable Code = errx.CodeUnavailable
)

type Error = errx.Error

var (
	ErrRuleViolation     = errx.NewBiz(CodeRuleViolation, "规则不允许")
	ErrNotFound          = errx.NewBiz(CodeNotFound, "对局或实体不存在")
	ErrPrecondition      = errx.NewBiz(CodePrecondition, "前置条件不满足")
	ErrVersionConflict   = errx.NewBiz(CodeVersionConflict, "对局版本冲突")
	ErrSystemUnavailable = errx.ErrUnavailable
)

// Reject 规则拒绝，携带原因码。
func Reject(reason Reason) *Error {
	return ErrRuleViolation.WithReason(reason)
}

// Missing 引用的实体不存在。
func Missing(kind, id string) *Error {
	return ErrPrecondition.WithReason(ReasonEntityMissing).WithDataMap(map[string]any{"kind": kind, "id": id})
}

func fromErr(err error) (*Error, bool) {
	return errx.From(err)
}
