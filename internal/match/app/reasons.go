package app

import "github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"

type Reason = domain.Reason

var (
	// 请求参数类 reason
	ReasonNoDocument   = domain.NewReason("NO_DOCUMENT", "对局数据未加载")
	ReasonEmptyCommand = domain.NewReason("EMPTY_COMMAND", "命令为空")
)

var (
	// 技术错误 reason，用于日志与排障
	ReasonStateCommitFail = domain.NewReason("STATE_COMMIT_FAIL", "对局补丁提交失败")
	ReasonStateLoadFail   = domain.NewReason("STATE_LOAD_FAIL", "对局加载失败")
	ReasonLogReadFail     = domain.NewReason("LOG_READ_FAIL", "行动日志读取失败")
)
