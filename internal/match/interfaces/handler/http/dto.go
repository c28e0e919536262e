package http

import (
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/turn"
)

// Response 统一响应体；access 日志从 code/reason 取业务码。
type Response struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type OutcomeResp struct {
	State  *domain.GameState `json:"state"`
	Patch  domain.Patch      `json:"patch"`
	Events []turn.Event      `json:"events,omitempty"`
}

type CreateMatchReq struct {
	Seats []turn.Seat `json:"seats" binding:"required,min=1"`
}

type IssueTokenReq struct {
	PlayerID string `json:"player_id" binding:"required"`
}

type IssueTokenResp struct {
	Token string `json:"token"`
}

type TargetReq struct {
	TargetID string `json:"target_id" binding:"required"`
}

type TileReq struct {
	Tile *int `json:"tile" binding:"required"`
}

type ItemReq struct {
	ItemID string `json:"item_id" binding:"required"`
}

type EquipReq struct {
	ItemID string       `json:"item_id" binding:"required"`
	Slot   *domain.Slot `json:"slot" binding:"required"`
}

type SlotReq struct {
	Slot *domain.Slot `json:"slot" binding:"required"`
}
