package domain

import "time"

// LogEntry 对局行动日志，一条命令可以产生多条。
type LogEntry struct {
	ID       int64          `json:"id" bson:"_id"`
	MatchID  MatchID        `json:"match_id" bson:"match_id"`
	PlayerID PlayerID       `json:"player_id,omitempty" bson:"player_id,omitempty"`
	Action   string         `json:"action" bson:"action"`
	Message  string         `json:"message" bson:"message"`
	Data     map[string]any `json:"data,omitempty" bson:"data,omitempty"`
	Time     time.Time      `json:"time" bson:"time"`
}
