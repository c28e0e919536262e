package domain

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{Code: c, Message: m}
}

// 规则拒绝原因，只回给发起动作的玩家。
var (
	ReasonNotYourTurn      = NewReason("NOT_YOUR_TURN", "不是你的回合")
	ReasonAlreadyActed     = NewReason("ALREADY_ACTED", "本回合已经行动过")
	ReasonMustRoll         = NewReason("MUST_ROLL", "结束回合前必须先掷骰")
	ReasonForbiddenTile    = NewReason("FORBIDDEN_TILE", "该格子不能放置")
	ReasonNoDuelTile       = NewReason("NO_DUEL_TILE", "该格子不能发起决斗")
	ReasonChallengeUsed    = NewReason("CHALLENGE_USED", "本回合已经挑战过")
	ReasonWrongSlot        = NewReason("WRONG_SLOT", "物品类别与装备栏不符")
	ReasonCombatActive     = NewReason("COMBAT_ACTIVE", "战斗进行中")
	ReasonNoCombat         = NewReason("NO_COMBAT", "当前没有战斗")
	ReasonChoicePending    = NewReason("CHOICE_PENDING", "有待完成的选择")
	ReasonNoPendingChoice  = NewReason("NO_PENDING_CHOICE", "没有待完成的选择")
	ReasonInvalidChoice    = NewReason("INVALID_CHOICE", "选择不合法")
	ReasonMatchFinished    = NewReason("MATCH_FINISHED", "对局已结束")
	ReasonTargetRequired   = NewReason("TARGET_REQUIRED", "需要指定目标")
	ReasonInvalidTarget    = NewReason("INVALID_TARGET", "目标不合法")
	ReasonNoBankedCard     = NewReason("NO_BANKED_CARD", "没有可放置的暗置牌")
	ReasonItemNotFound     = NewReason("ITEM_NOT_FOUND", "未持有该物品")
	ReasonRetreatForbidden = NewReason("RETREAT_FORBIDDEN", "本场战斗不能撤退")
	ReasonNotUsable        = NewReason("NOT_USABLE", "该物品不能使用")
	ReasonPlayerAsleep     = NewReason("PLAYER_ASLEEP", "玩家处于昏睡")
	ReasonInventoryFull    = NewReason("INVENTORY_FULL", "背包已满")
)

// 前置条件原因。
var (
	ReasonEntityMissing = NewReason("ENTITY_MISSING", "引用的实体不存在")
	ReasonUnknownEffect = NewReason("UNKNOWN_EFFECT", "未知效果")
	ReasonMatchMissing  = NewReason("MATCH_MISSING", "对局不存在")
	ReasonMatchExists   = NewReason("MATCH_EXISTS", "对局已存在")
	ReasonUnknownClass  = NewReason("UNKNOWN_CLASS", "未知职业")
	ReasonBadRoster     = NewReason("BAD_ROSTER", "玩家名单不合法")
)

// 技术错误原因，用于日志与排障。
var (
	ReasonStoreUnavailable = NewReason("STORE_UNAVAILABLE", "对局存储不可用")
	ReasonLogWriteFail     = NewReason("LOG_WRITE_FAIL", "行动日志写入失败")
)

// ReasonOf 取错误上的原因码，非 errx 错误返回空串。
func ReasonOf(err error) string {
	if e, ok := fromErr(err); ok {
		return e.Reason()
	}
	return ""
}
