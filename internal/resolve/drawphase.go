package resolve

import (
	"github.com/sanguo/engine/internal/rules"
)

// DrawPhaseResolver computes count = 2 + sum(skillModifiers) clamped to
// max(0, count) and draws that many cards into the actor's hand (spec.md
// §4.5 DrawPhaseResolver). Pushed once per turn by the turn engine's
// PhaseStart(Draw) service.
type DrawPhaseResolver struct {
	Actor int
}

func (r *DrawPhaseResolver) TypeName() string { return "DrawPhaseResolver" }

func (r *DrawPhaseResolver) Resolve(ctx *Context) Step {
	g := ctx.Game
	actor := g.Player(r.Actor)
	if actor == nil {
		return Done(Failure(rules.ErrInvalidState, "unknown draw-phase actor"))
	}

	count := 2 + ctx.Services.Skills.DrawCountModifier(g, actor)
	if count < 0 {
		count = 0
	}
	if count == 0 {
		return Done(Success())
	}

	ids, err := ctx.Services.Zone.Draw(g, ctx.Services.Deck, actor, count)
	if err != nil || len(ids) < count {
		return Done(Failure(rules.ErrInvalidState, "draw-pile exhausted during draw phase"))
	}
	return Done(Success())
}
