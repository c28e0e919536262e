package domain

import "reflect"

// Patch 只携带变化的部分。内存文档和每种存储按同一份补丁更新。
type Patch struct {
	MatchID      MatchID              `json:"match_id"`
	BaseVersion  int64                `json:"base_version"`
	Version      int64                `json:"version"`
	Players      map[PlayerID]*Player `json:"players,omitempty"`
	Tiles        map[int]Tile         `json:"tiles,omitempty"`
	Decks        map[string]*Deck     `json:"decks,omitempty"`
	Turn         *TurnState           `json:"turn,omitempty"`
	Combat       *CombatState         `json:"combat,omitempty"`
	ClearCombat  bool                 `json:"clear_combat,omitempty"`
	Pending      *PendingChoice       `json:"pending,omitempty"`
	ClearPending bool                 `json:"clear_pending,omitempty"`
	Status       *Status              `json:"status,omitempty"`
	WinnerID     *PlayerID            `json:"winner_id,omitempty"`
}

// Empty 除版本号外没有任何变化。
func (p Patch) Empty() bool {
	return len(p.Players) == 0 && len(p.Tiles) == 0 && len(p.Decks) == 0 &&
		p.Turn == nil && p.Combat == nil && !p.ClearCombat &&
		p.Pending == nil && !p.ClearPending && p.Status == nil && p.WinnerID == nil
}

// Diff 比较两份文档生成补丁，Version = before.Version + 1。
func Diff(before, after *GameState) Patch {
	p := Patch{
		MatchID:     before.MatchID,
		BaseVersion: before.Version,
		Version:     before.Version + 1,
	}

	for id, np := range after.Players {
		if op, ok := before.Players[id]; !ok || !reflect.DeepEqual(op, np) {
			if p.Players == nil {
				p.Players = make(map[PlayerID]*Player)
			}
			p.Players[id] = np.Clone()
		}
	}
	for i, nt := range after.Tiles {
		if i >= len(before.Tiles) || !reflect.DeepEqual(before.Tiles[i], nt) {
			if p.Tiles == nil {
				p.Tiles = make(map[int]Tile)
			}
			p.Tiles[i] = nt.Clone()
		}
	}
	for k, nd := range after.Decks {
		if od, ok := before.Decks[k]; !ok || !reflect.DeepEqual(od, nd) {
			if p.Decks == nil {
				p.Decks = make(map[string]*Deck)
			}
			p.Decks[k] = nd.Clone()
		}
	}
	if before.Turn != after.Turn {
		t := after.Turn
		p.Turn = &t
	}
	switch {
	case after.Combat == nil && before.Combat != nil:
		p.ClearCombat = true
	case after.Combat != nil && !reflect.DeepEqual(before.Combat, after.Combat):
		p.Combat = after.Combat.Clone()
	}
	switch {
	case after.Pending == nil && before.Pending != nil:
		p.ClearPending = true
	case after.Pending != nil && !reflect.DeepEqual(before.Pending, after.Pending):
		p.Pending = after.Pending.Clone()
	}
	if before.Status != after.Status {
		st := after.Status
		p.Status = &st
	}
	if before.WinnerID != after.WinnerID {
		w := after.WinnerID
		p.WinnerID = &w
	}
	return p
}

// Apply 把补丁应用到文档上；BaseVersion 与当前版本不一致时返回版本冲突。
func (s *GameState) Apply(p Patch) error {
	if p.BaseVersion != s.Version {
		return ErrVersionConflict.WithDataMap(map[string]any{
			"match_id": string(s.MatchID),
			"base":     p.BaseVersion,
			"current":  s.Version,
		})
	}
	if s.Players == nil {
		s.Players = make(map[PlayerID]*Player, len(p.Players))
	}
	for id, pl := range p.Players {
		s.Players[id] = pl.Clone()
	}
	for i, t := range p.Tiles {
		if i >= 0 && i < len(s.Tiles) {
			s.Tiles[i] = t.Clone()
		}
	}
	if s.Decks == nil {
		s.Decks = make(map[string]*Deck, len(p.Decks))
	}
	for k, d := range p.Decks {
		s.Decks[k] = d.Clone()
	}
	if p.Turn != nil {
		s.Turn = *p.Turn
	}
	if p.ClearCombat {
		s.Combat = nil
	} else if p.Combat != nil {
		s.Combat = p.Combat.Clone()
	}
	if p.ClearPending {
		s.Pending = nil
	} else if p.Pending != nil {
		s.Pending = p.Pending.Clone()
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.WinnerID != nil {
		s.WinnerID = *p.WinnerID
	}
	s.Version = p.Version
	return nil
}
