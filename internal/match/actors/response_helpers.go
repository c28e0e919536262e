package actors

import (
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/app"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/actor/messages"
)

func ok(o *app.Outcome) *messages.MHReply {
	if o == nil {
		return &messages.MHReply{}
	}
	return &messages.MHReply{State: o.State, Patch: o.Patch, Events: o.Events}
}

func fail(err error) *messages.MHReply {
	return &messages.MHReply{Err: err}
}

func reply(o *app.Outcome, err error) *messages.MHReply {
	if err != nil {
		return fail(err)
	}
	return ok(o)
}
