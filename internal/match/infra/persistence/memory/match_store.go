package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
)

// MatchStore 进程内存储，单机开发与测试使用，重启后数据丢失。
type MatchStore struct {
	mu     sync.RWMutex
	states map[domain.MatchID]*domain.GameState
	logs   map[domain.MatchID][]domain.LogEntry
}

func NewMatchStore() *MatchStore {
	return &MatchStore{
		states: make(map[domain.MatchID]*domain.GameState),
		logs:   make(map[domain.MatchID][]domain.LogEntry),
	}
}

func (r *MatchStore) CreateState(ctx context.Context, s *domain.GameState) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.states[s.MatchID]; ok {
		return domain.ErrPrecondition.WithReason(domain.ReasonMatchExists).WithData("match_id", string(s.MatchID))
	}
	r.states[s.MatchID] = s.Clone()
	return nil
}

func (r *MatchStore) GetState(ctx context.Context, id domain.MatchID) (*domain.GameState, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.states[id]
	if !ok {
		return nil, domain.ErrNotFound.WithReason(domain.ReasonMatchMissing).WithData("match_id", string(id))
	}
	return s.Clone(), nil
}

func (r *MatchStore) ApplyPatch(ctx context.Context, id domain.MatchID, patch domain.Patch) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[id]
	if !ok {
		return domain.ErrNotFound.WithReason(domain.ReasonMatchMissing).WithData("match_id", string(id))
	}
	// 在副本上应用，冲突时存储保持原样
	next := s.Clone()
	if err := next.Apply(patch); err != nil {
		return err
	}
	r.states[id] = next
	return nil
}

func (r *MatchStore) AppendLog(ctx context.Context, id domain.MatchID, entries ...domain.LogEntry) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[id] = append(r.logs[id], entries...)
	return nil
}

func (r *MatchStore) ListLogs(ctx context.Context, id domain.MatchID, limit int) ([]domain.LogEntry, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.logs[id]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return slices.Clone(all), nil
}
