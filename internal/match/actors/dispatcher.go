package actors

import (
	"reflect"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/app"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, MH.HandleCreateMatch)
	register(d, MH.HandleMatchState)
	register(d, MH.HandleMatchLogs)
	register(d, MH.HandleRollAndMove)
	register(d, MH.HandleCombatRound)
	register(d, MH.HandleRetreat)
	register(d, MH.HandleChallenge)
	register(d, MH.HandlePlaceTrap)
	register(d, MH.HandlePlaceAmbush)
	register(d, MH.HandleUseItem)
	register(d, MH.HandleEquip)
	register(d, MH.HandleUnequip)
	register(d, MH.HandleResolveChoice)
	register(d, MH.HandleEndTurn)
}

func register[Req any](
	d *Dispatcher,
	fn func(ctx actor.Context, m *MatchActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType == nil {
		panic("dispatcher req type cannot be nil")
	}

	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, m *MatchActor, req messages.MatchMessage) {
	if req == nil {
		ctx.Respond(fail(app.ErrInvalidCommand.WithReason(app.ReasonEmptyCommand)))
		return
	}

	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		ctx.Respond(fail(app.ErrInvalidCommand.WithData("type", bodyType.String())))
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(m),
		reflect.ValueOf(req),
	})
}

// Has 是否注册了该请求类型的处理器。
func (d *Dispatcher) Has(req any) bool {
	_, ok := d.handlers[reflect.TypeOf(req)]
	return ok
}
