package turn

import (
	"time"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
)

type EventKind string

const (
	EventReveal   EventKind = "reveal"
	EventCombat   EventKind = "combat"
	EventChoice   EventKind = "choice"
	EventFinished EventKind = "finished"
)

// Event 需要推给展示层的事件，提交成功后才发送。
type Event struct {
	Kind     EventKind             `json:"kind"`
	PlayerID domain.PlayerID       `json:"player_id,omitempty"`
	Cards    []domain.Card         `json:"cards,omitempty"`
	Combat   *domain.CombatState   `json:"combat,omitempty"`
	Choice   *domain.PendingChoice `json:"choice,omitempty"`
	Message  string                `json:"message,omitempty"`
}

// Session 一条命令的工作区：文档副本 + 本次产生的日志与事件。
type Session struct {
	State  *domain.GameState
	Logs   []domain.LogEntry
	Events []Event

	now func() time.Time
}

func NewSession(state *domain.GameState) *Session {
	return &Session{State: state, now: time.Now}
}

func (s *Session) log(player domain.PlayerID, action, message string, data map[string]any) {
	s.Logs = append(s.Logs, domain.LogEntry{
		MatchID:  s.State.MatchID,
		PlayerID: player,
		Action:   action,
		Message:  message,
		Data:     data,
		Time:     s.now(),
	})
}

func (s *Session) emit(e Event) {
	s.Events = append(s.Events, e)
}
