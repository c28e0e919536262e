package errx

// 跨服务统一的系统类错误码。
//
// 业务域错误码（例如 MATCH_RULE_VIOLATION）由各业务包自行定义，kit 里只放技术类错误。
const (
	// CodeInternal 服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 依赖不可用（Mongo/MySQL/actor 运行时等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 请求/依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeReqParamError 请求参数错误。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

// 系统类哨兵错误，只允许通过 WithData/WithCause 派生新对象。
var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrReqParamERR = NewSys(CodeReqParamError, "请求参数错误")
)
