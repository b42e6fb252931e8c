package resolve

import (
	"github.com/sanguo/engine/internal/choice"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/rules"
)

// DiscardPhaseResolver enforces the end-of-turn hand-size limit (spec.md
// §4.1: "Discard enforcer" reacting to PhaseStart(Discard)). The limit is
// the actor's current health; if their hand exceeds it they must choose
// exactly the excess to discard.
type DiscardPhaseResolver struct {
	Actor int
}

func (r *DiscardPhaseResolver) TypeName() string { return "DiscardPhaseResolver" }

func (r *DiscardPhaseResolver) Resolve(ctx *Context) Step {
	g := ctx.Game
	actor := g.Player(r.Actor)
	if actor == nil {
		return Done(Failure(rules.ErrInvalidState, "unknown discard-phase actor"))
	}
	hand := g.Zone(actor.HandZone)
	limit := actor.CurrentHealth
	if limit < 0 {
		limit = 0
	}
	excess := hand.Len() - limit
	if excess <= 0 {
		return Done(Success())
	}

	if ctx.ChoiceResult != nil {
		c := ctx.ChoiceResult
		if len(c.SelectedCards) != excess {
			return Done(Failure(rules.ErrInvalidState, "discard-phase selection did not match required excess"))
		}
		if err := ctx.Services.Zone.DiscardFromHand(g, actor, c.SelectedCards); err != nil {
			return Done(Failure(rules.ErrInvalidState, "discard-phase move failed"))
		}
		return Done(Success())
	}

	return Suspend(choice.Request{
		PlayerSeat: r.Actor,
		Kind:       choice.KindSelectCard,
		Prompt:     "turn.discardExcess",
		Constraints: choice.Constraints{
			AllowedCards: append([]model.CardID{}, hand.Cards...),
			CardFilter: func(id model.CardID) bool {
				return hand.Contains(id)
			},
		},
	})
}
