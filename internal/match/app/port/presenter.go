package port

import (
	"context"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
)

// Presenter 展示层。只在补丁提交成功后调用，调用方不等待结果。
// 选择结果经 ResolveChoice 命令回到服务端。
type Presenter interface {
	RevealCards(ctx context.Context, id domain.MatchID, playerID domain.PlayerID, cards []domain.Card)
	ShowCombat(ctx context.Context, id domain.MatchID, combat *domain.CombatState)
	RequireChoice(ctx context.Context, id domain.MatchID, playerID domain.PlayerID, choice *domain.PendingChoice)
	MatchFinished(ctx context.Context, id domain.MatchID, winnerID domain.PlayerID)
}

// NopPresenter 不展示任何东西，用于测试与没有推送通道的部署。
type NopPresenter struct{}

func (NopPresenter) RevealCards(context.Context, domain.MatchID, domain.PlayerID, []domain.Card) {}
func (NopPresenter) ShowCombat(context.Context, domain.MatchID, *domain.CombatState)             {}
func (NopPresenter) RequireChoice(context.Context, domain.MatchID, domain.PlayerID, *domain.PendingChoice) {
}
func (NopPresenter) MatchFinished(context.Context, domain.MatchID, domain.PlayerID) {}
