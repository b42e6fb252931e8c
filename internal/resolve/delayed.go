package resolve

import (
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/zone"
)

// DelayedTrickResolver places a delayed trick (Lightning, Distraction) into
// target's judgement zone; the Judge-phase resolver evaluates it on a later
// turn (spec.md §4.5 "Delayed-Trick placement resolver").
type DelayedTrickResolver struct {
	Source int
	Target int
	CardID model.CardID
}

func (r *DelayedTrickResolver) TypeName() string { return "DelayedTrickResolver" }

func (r *DelayedTrickResolver) Resolve(ctx *Context) Step {
	g := ctx.Game
	source := g.Player(r.Source)
	target := g.Player(r.Target)
	if source == nil || target == nil {
		return Done(Failure("INVALID_STATE", "unknown delayed-trick participant"))
	}
	if err := ctx.Services.Zone.Move(g, zone.Descriptor{
		Source: source.HandZone, Target: target.JudgeZone,
		Cards: []model.CardID{r.CardID}, Reason: event.ReasonJudgement, Ordering: model.ToTop,
	}); err != nil {
		return Done(Failure("INVALID_STATE", "delayed-trick placement failed"))
	}
	event.Publish(ctx.Services.Bus, event.DelayedTrickPlaced{Base: ctx.Services.Bus.Stamp(), Source: r.Source, Target: r.Target, CardID: r.CardID})
	return Done(Success())
}
