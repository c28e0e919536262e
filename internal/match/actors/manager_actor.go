package actors

import (
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
)

type MatchID = domain.MatchID

// ManagerActor 只做路由：按 match id 找到或创建对局 actor 并转发。
type ManagerActor struct {
	deps         Deps
	matchActors  map[MatchID]*actor.PID
	matchByActor map[string]MatchID
}

func NewManagerActor(deps Deps) *ManagerActor {
	return &ManagerActor{
		deps:         deps,
		matchActors:  make(map[MatchID]*actor.PID),
		matchByActor: make(map[string]MatchID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		// 子 actor 停止后移除，下一条命令会重新创建并从存储加载
		if id, ok := m.matchByActor[msg.Who.String()]; ok {
			delete(m.matchByActor, msg.Who.String())
			if pid := m.matchActors[id]; pid != nil && pid.Equal(msg.Who) {
				delete(m.matchActors, id)
			}
		}
	case messages.MatchMessage:
		if msg.MatchID() == "" {
			ctx.Respond(fail(domain.ErrPrecondition.WithReason(domain.ReasonMatchMissing).WithData("match_id", "")))
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, msg.MatchID()))
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, id MatchID) *actor.PID {
	if pid, ok := m.matchActors[id]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMatchActor(id, m.deps)
	})
	pid := ctx.Spawn(props)
	m.matchActors[id] = pid
	m.matchByActor[pid.String()] = id
	return pid
}
