package app

import (
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/errx"
)

// Code 应用层错误码，规则与实体类错误直接沿用 domain。
type Code = errx.Code

const (
	CodeInvalidCommand Code = errx.CodeReqParamError
	// CodeUnavailable 复用 kit 的统一系统码
	CodeUnavailable Code = errx.CodeUnavailable
)

type Error = errx.Error

// Wrap 创建系统类错误并挂载 cause。
func Wrap(code Code, msg string, cause error) *Error {
	return errx.NewSys(code, msg).WithCause(cause)
}

// 哨兵错误：通过 WithData/WithCause 派生，不直接修改。
var (
	ErrInvalidCommand  = errx.NewBiz(CodeInvalidCommand, "命令参数有误")
	ErrUnavailable     = errx.ErrUnavailable
	ErrVersionConflict = domain.ErrVersionConflict
	ErrMatchNotFound   = domain.ErrNotFound.WithReason(domain.ReasonMatchMissing)
)
