package turn

import (
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/resolve"
)

// turnServiceSeat is the ownerSeat value phase-service subscriptions
// register under — they act on behalf of the engine, not any one player.
const turnServiceSeat = -1

// RegisterPhaseServices subscribes the Draw-phase, Judge-phase and Discard
// enforcer services to bus; each reacts to PhaseStart by pushing its
// resolver frame onto stack (spec.md §4.1: "the engine does not itself
// inspect cards or skills — it only emits PhaseStart/PhaseEnd events, and
// subscribers ... react"). g is the single game these services act on.
func RegisterPhaseServices(g *model.Game, bus *event.Bus, stack *resolve.Stack) {
	event.Subscribe(bus, turnServiceSeat, func(e event.PhaseStart) {
		switch e.Phase {
		case model.PhaseJudge:
			pushJudgementFrames(g, stack, e.Seat)
		case model.PhaseDraw:
			stack.Push(&resolve.DrawPhaseResolver{Actor: e.Seat})
		case model.PhaseDiscard:
			stack.Push(&resolve.DiscardPhaseResolver{Actor: e.Seat})
		}
	})
}

// pushJudgementFrames pushes one JudgementResolver per card currently in
// owner's judgement zone, in placement order (spec.md §4.5 "in placement
// order"). Placements insert at index 0, so the zone lists cards
// newest-first; the stack is LIFO, so frames are pushed front-to-back: the
// earliest-placed card ends up on top and resolves first.
func pushJudgementFrames(g *model.Game, stack *resolve.Stack, owner int) {
	player := g.Player(owner)
	if player == nil {
		return
	}
	zone := g.Zone(player.JudgeZone)
	if zone == nil {
		return
	}
	cards := zone.Clone()
	for i := 0; i < len(cards); i++ {
		stack.Push(&resolve.JudgementResolver{Owner: owner, CardID: cards[i]})
	}
}
