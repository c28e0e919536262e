package port

import (
	"context"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
)

// StateStore 对局文档存储。
//
// ApplyPatch 必须校验 patch.BaseVersion 与存储中的版本一致，不一致返回 domain.ErrVersionConflict。
type StateStore interface {
	CreateState(ctx context.Context, s *domain.GameState) error
	GetState(ctx context.Context, id domain.MatchID) (*domain.GameState, error)
	ApplyPatch(ctx context.Context, id domain.MatchID, patch domain.Patch) error
}

// LogStore 行动日志，只追加。
type LogStore interface {
	AppendLog(ctx context.Context, id domain.MatchID, entries ...domain.LogEntry) error
	ListLogs(ctx context.Context, id domain.MatchID, limit int) ([]domain.LogEntry, error)
}
