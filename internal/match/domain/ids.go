package domain

type (
	PlayerID string
	MatchID  string
)

// Status 对局状态。
type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Phase 回合状态机的阶段。awaiting_choice 与 combat 是会打断回合的阶段。
type Phase string

const (
	PhaseRolling         Phase = "rolling"
	PhaseMoving          Phase = "moving"
	PhaseAmbushCheck     Phase = "ambush_check"
	PhaseTrapCheck       Phase = "trap_check"
	PhaseStepBackCheck   Phase = "step_back_check"
	PhaseTileDispatch    Phase = "tile_dispatch"
	PhaseCardReveal      Phase = "card_reveal"
	PhaseEffectExecution Phase = "effect_execution"
	PhaseCombat          Phase = "combat"
	PhaseAwaitingChoice  Phase = "awaiting_choice"
	PhaseEndTurn         Phase = "end_turn"
)
