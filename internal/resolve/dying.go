package resolve

import (
	"github.com/sanguo/engine/internal/choice"
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/zone"
)

// DyingResolver implements the dying/rescue loop (spec.md §4.5): polls
// players in seat order starting from the dying player (self first, then
// clockwise) for a Peach-equivalent, looping while currentHealth ≤ 0. If no
// responder can or will rescue, the target dies; either way, AfterDamage
// (deferred from the damage frame) fires before resolution continues. No
// AfterHpLost event is published.
type DyingResolver struct {
	Target      int
	Killer      *int
	AfterDamage *event.AfterDamage

	started   bool
	pollOrder []int
	pollIdx   int
}

func (r *DyingResolver) TypeName() string { return "DyingResolver" }

func (r *DyingResolver) Resolve(ctx *Context) Step {
	bus := ctx.Services.Bus
	g := ctx.Game
	player := g.Player(r.Target)
	if player == nil {
		return Done(Failure("INVALID_STATE", "unknown dying target"))
	}

	if !r.started {
		event.Publish(bus, event.DyingStart{Base: bus.Stamp(), Seat: r.Target})
		r.pollOrder = seatOrderFrom(g, r.Target)
		r.started = true
	}

	if player.CurrentHealth > 0 {
		return r.finish(ctx, true)
	}

	if ctx.ChoiceResult != nil {
		c := ctx.ChoiceResult
		seat := r.pollOrder[r.pollIdx]
		r.pollIdx++
		if !c.Declined && len(c.SelectedCards) > 0 {
			cardID := c.SelectedCards[0]
			responder := g.Player(seat)
			if err := ctx.Services.Zone.Move(g, peachMoveDescriptor(responder.HandZone, cardID)); err != nil {
				return Done(Failure("INVALID_STATE", "peach move failed"))
			}
			event.Publish(bus, event.CardPlayed{Base: bus.Stamp(), Seat: seat, CardID: cardID})
			mod := event.PublishModifiers(bus, event.BeforeRecover{Base: bus.Stamp(), Seat: r.Target, Amount: 1}, event.RecoverModifier{}, func(acc, next event.RecoverModifier) event.RecoverModifier {
				return event.RecoverModifier{Prevent: acc.Prevent || next.Prevent, AmountDelta: acc.AmountDelta + next.AmountDelta}
			})
			if !mod.Prevent {
				player.CurrentHealth += 1 + mod.AmountDelta
			}
			if player.CurrentHealth > 0 {
				return r.finish(ctx, true)
			}
			r.pollIdx = 0 // another full round starting from target, per seat-order rule
		}
	}

	for r.pollIdx < len(r.pollOrder) {
		seat := r.pollOrder[r.pollIdx]
		responder := g.Player(seat)
		if responder == nil || !responder.Alive {
			r.pollIdx++
			continue
		}
		hand := g.Zone(responder.HandZone)
		var candidates []model.CardID
		if hand != nil {
			for _, id := range hand.Cards {
				if c := g.Card(id); c != nil && c.SubType == model.SubTypePeach {
					candidates = append(candidates, id)
				}
			}
		}
		if len(candidates) == 0 {
			r.pollIdx++
			continue
		}
		return Suspend(requestPeach(seat, candidates))
	}
	return r.finish(ctx, false)
}

func (r *DyingResolver) finish(ctx *Context, rescued bool) Step {
	bus := ctx.Services.Bus
	player := ctx.Game.Player(r.Target)
	if !rescued {
		player.Alive = false
		player.CurrentHealth = 0
		event.Publish(bus, event.PlayerDied{Base: bus.Stamp(), DeadSeat: r.Target, KillerSeat: r.Killer})
	}
	if r.AfterDamage != nil {
		event.Publish(bus, *r.AfterDamage)
	}
	return Done(Success())
}

func peachMoveDescriptor(hand model.ZoneID, cardID model.CardID) zone.Descriptor {
	return zone.Descriptor{
		Source:   hand,
		Target:   model.ZoneDiscardPile,
		Cards:    []model.CardID{cardID},
		Reason:   event.ReasonPlay,
		Ordering: model.ToTop,
	}
}

func requestPeach(seat int, candidates []model.CardID) choice.Request {
	return choice.Request{
		PlayerSeat: seat,
		Kind:       choice.KindSelectCard,
		Prompt:     "response.peach",
		Constraints: choice.Constraints{
			AllowedCards: candidates,
		},
	}
}

// seatOrderFrom returns alive seats starting at start and proceeding
// clockwise (seat order), wrapping around, per spec.md §4.5 "self first,
// then clockwise".
func seatOrderFrom(g *model.Game, start int) []int {
	alive := g.AlivePlayers()
	n := len(alive)
	startIdx := -1
	for i, s := range alive {
		if s == start {
			startIdx = i
			break
		}
	}
	if startIdx < 0 {
		// target already marked dead elsewhere; still poll everyone once.
		return alive
	}
	out := make([]int, 0, n)
	for k := 0; k < n; k++ {
		out = append(out, alive[(startIdx+k)%n])
	}
	return out
}
