package resolve

import (
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/response"
	"github.com/sanguo/engine/internal/zone"
)

// PollHandler reacts to one responder's answer. played is nil if the
// responder declined or had nothing to offer. Returning true ends the
// window early (required count met); returning false continues to the next
// responder in poll order.
type PollHandler func(ctx *Context, seat int, played *model.CardID) (stop bool)

// PollFrame drives a response window (spec.md §4.6): it walks window's
// PollOrder in sequence, asking each eligible responder for a card of
// WantSubType, moving any played card to discard and emitting CardPlayed,
// then delegating to Handler to decide whether the window is done. When the
// poll order is exhausted (or Handler signals done), Done is invoked with
// whether any responder played a card. Grounded on the teacher's
// openResponseWindow (internal/game/timing.go), generalized from a fixed
// two-player alternation to an arbitrary ordered poll list.
type PollFrame struct {
	Window  response.Window
	Handler PollHandler
	Done    func(ctx *Context, anyPlayed bool)

	idx       int
	anyPlayed bool
}

func (f *PollFrame) TypeName() string { return "PollFrame" }

func (f *PollFrame) Resolve(ctx *Context) Step {
	if ctx.ChoiceResult != nil {
		r := ctx.ChoiceResult
		seat := f.Window.PollOrder[f.idx]
		f.idx++
		if r.Declined || len(r.SelectedCards) == 0 {
			if f.Handler(ctx, seat, nil) {
				f.finish(ctx)
				return Done(Success())
			}
		} else {
			cardID := r.SelectedCards[0]
			player := ctx.Game.Player(seat)
			if err := ctx.Services.Zone.Move(ctx.Game, zone.Descriptor{
				Source:   player.HandZone,
				Target:   model.ZoneDiscardPile,
				Cards:    []model.CardID{cardID},
				Reason:   event.ReasonPlay,
				Ordering: model.ToTop,
			}); err != nil {
				return Done(Failure("INVALID_STATE", "response card move failed"))
			}
			event.Publish(ctx.Services.Bus, event.CardPlayed{Base: ctx.Services.Bus.Stamp(), Seat: seat, CardID: cardID})
			f.anyPlayed = true
			if f.Handler(ctx, seat, &cardID) {
				f.finish(ctx)
				return Done(Success())
			}
		}
	}

	for f.idx < len(f.Window.PollOrder) {
		seat := f.Window.PollOrder[f.idx]
		req, ok := response.NextRequest(ctx.Game, f.Window, seat, ctx.Services.Skills)
		if !ok {
			f.idx++
			continue
		}
		return Suspend(req)
	}
	f.finish(ctx)
	return Done(Success())
}

func (f *PollFrame) finish(ctx *Context) {
	if f.Done != nil {
		f.Done(ctx, f.anyPlayed)
	}
}

// OpenWindow is a convenience constructor building a Window from a fixed
// poll order and required count (spec.md §4.6).
func OpenWindow(wantSubType model.CardSubType, pollOrder []int, requiredCount int, prompt string) response.Window {
	return response.Window{
		WantSubType:   wantSubType,
		PollOrder:     pollOrder,
		RequiredCount: requiredCount,
		Prompt:        prompt,
	}
}
