package transport

// BizCode 业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 对外业务码。数值沿用 HTTP 语义，access 日志按区间分级。
const (
	OK            = 0
	InvalidParam  = 400
	Unauthorized  = 401
	RuleViolation = 403
	NotFound      = 404
	Conflict      = 409
	Precondition  = 412
	SystemError   = 500
	Unavailable   = 503
)
