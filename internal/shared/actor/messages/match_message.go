package messages

import (
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/turn"
)

// 命名约定：HM* 为接入层发往对局 actor 的请求，MH* 为回包。

type MatchMessage interface {
	MatchID() domain.MatchID
	PlayerID() domain.PlayerID
	Trace() string
}

type MatchBaseMessage struct {
	Match  domain.MatchID
	Player domain.PlayerID
	// TraceID 接入层的 trace，actor 内日志沿用
	TraceID string
}

func (m MatchBaseMessage) MatchID() domain.MatchID {
	return m.Match
}

func (m MatchBaseMessage) PlayerID() domain.PlayerID {
	return m.Player
}

func (m MatchBaseMessage) Trace() string {
	return m.TraceID
}

type HMCreateMatch struct {
	MatchBaseMessage
	Seats []turn.Seat
}

type HMMatchState struct {
	MatchBaseMessage
}

type HMMatchLogs struct {
	MatchBaseMessage
	Limit int
}

type HMRollAndMove struct {
	MatchBaseMessage
}

type HMCombatRound struct {
	MatchBaseMessage
	TargetID string
}

type HMRetreat struct {
	MatchBaseMessage
}

type HMChallenge struct {
	MatchBaseMessage
	TargetID domain.PlayerID
}

type HMPlaceTrap struct {
	MatchBaseMessage
	Tile int
}

type HMPlaceAmbush struct {
	MatchBaseMessage
	Tile int
}

type HMUseItem struct {
	MatchBaseMessage
	ItemID string
}

type HMEquip struct {
	MatchBaseMessage
	ItemID string
	Slot   domain.Slot
}

type HMUnequip struct {
	MatchBaseMessage
	Slot domain.Slot
}

type HMResolveChoice struct {
	MatchBaseMessage
	Choice turn.Choice
}

type HMEndTurn struct {
	MatchBaseMessage
}

// MHReply 对局 actor 的统一回包，Err 非空时其余字段无意义。
type MHReply struct {
	State  *domain.GameState
	Patch  domain.Patch
	Events []turn.Event
	Logs   []domain.LogEntry
	Err    error
}
