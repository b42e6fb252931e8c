package resolve

import (
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/rules"
)

// ForcedSlashResolver polls exactly one seat (Actor) for a Slash against
// Victim, resolving the Open Question #2 distinction between "cannot use"
// (no eligible Slash — or virtual Slash — in hand, so no choice is ever
// offered) and "declines" (a choice was offered and refused): both paths
// funnel through response.NextRequest/PollFrame, which already only emits a
// request when at least one literal or virtual candidate exists, so
// ForcedSlashResolver adds no extra gating of its own — it just names the
// "one seat, one required Slash, named fallback on failure" shape shared by
// Duel and Borrow-a-Blade-for-Murder (spec.md §9 Open Question #2, §6
// catalog).
//
// On success the Slash is pushed as a SlashResolver against Victim. On
// failure (decline or cannot-use) OnFailure runs instead, if set.
type ForcedSlashResolver struct {
	Actor     int
	Victim    int
	Prompt    string
	OnFailure func(ctx *Context) Step

	step      int
	satisfied bool
	cardID    model.CardID
}

func (r *ForcedSlashResolver) TypeName() string { return "ForcedSlashResolver" }

func (r *ForcedSlashResolver) Resolve(ctx *Context) Step {
	switch r.step {
	case 0:
		bus := ctx.Services.Bus
		event.Publish(bus, event.ForcedSlashRequested{Base: bus.Stamp(), Source: r.Actor, Target: r.Victim})

		window := OpenWindow(model.SubTypeSlash, []int{r.Actor}, 1, r.Prompt)
		var played model.CardID
		satisfied := false
		frame := &PollFrame{
			Window: window,
			Handler: func(ctx *Context, seat int, card *model.CardID) bool {
				if card != nil {
					satisfied = true
					played = *card
				}
				return true
			},
			Done: func(ctx *Context, anyPlayed bool) {
				r.satisfied = satisfied
				r.cardID = played
				r.step = 1
			},
		}
		return ContinueWith(frame)

	case 1:
		r.step = 2 // terminal: the child pushed below must not re-trigger this branch on its own completion
		bus := ctx.Services.Bus
		event.Publish(bus, event.ForcedSlashResolved{Base: bus.Stamp(), Target: r.Actor, Complied: r.satisfied})
		if r.satisfied {
			return ContinueWith(&SlashResolver{Source: r.Actor, Targets: []int{r.Victim}, CardID: r.cardID})
		}
		if r.OnFailure != nil {
			return r.OnFailure(ctx)
		}
		return Done(Success())

	case 2:
		return Done(Success())
	}
	return Done(Failure(rules.ErrInvalidState, "unreachable forced-slash step"))
}
