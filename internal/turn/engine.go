// Package turn implements the turn engine (spec.md §4.1): fixed phase order
// Start→Judge→Draw→Play→Discard→End, turn rotation skipping dead seats, and
// NO_ALIVE_PLAYERS termination. Grounded on the teacher's Duel.runTurn
// (internal/game/duel.go), which already drives a fixed per-turn phase
// sequence and rotates to the next player — generalized here from the
// teacher's two-phase draft/battle split to the spec's six-phase order, and
// from the teacher's implicit two-player alternation to N-player rotation
// over only the currently-alive seats.
//
// The engine itself never inspects cards or skills: it only emits
// PhaseStart/PhaseEnd, and separate phase services (see services.go) react
// by pushing resolver frames onto the resolution stack.
package turn

import (
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
)

// ErrNoAlivePlayers is the distinguished termination reason when turn
// rotation finds no alive seat to advance to.
const ErrNoAlivePlayers = "NO_ALIVE_PLAYERS"

// Engine drives phase order and turn rotation.
type Engine struct {
	bus *event.Bus
}

// NewEngine constructs a turn engine publishing to bus.
func NewEngine(bus *event.Bus) *Engine {
	return &Engine{bus: bus}
}

// InitializeTurn selects firstSeat's Start phase as the match's first turn
// (spec.md §4.1 "initialize-turn-state") and emits the opening TurnStart and
// PhaseStart.
func (e *Engine) InitializeTurn(g *model.Game, firstSeat int) {
	g.CurrentSeat = firstSeat
	g.CurrentPhase = model.PhaseStart
	g.TurnCounter = 1
	event.Publish(e.bus, event.TurnStart{Base: e.bus.Stamp(), Seat: firstSeat, Turn: g.TurnCounter})
	event.Publish(e.bus, event.PhaseStart{Base: e.bus.Stamp(), Seat: firstSeat, Phase: g.CurrentPhase})
}

// AdvancePhase moves to the next phase in Order (spec.md §4.1
// "advance-phase"); from End it rotates to the next alive seat's Start and
// increments the turn counter instead. Advancing from an unknown phase
// defaults to Start. Returns false once rotation finds no alive seat left
// (the game has already been marked Finished with ErrNoAlivePlayers).
func (e *Engine) AdvancePhase(g *model.Game) bool {
	event.Publish(e.bus, event.PhaseEnd{Base: e.bus.Stamp(), Seat: g.CurrentSeat, Phase: g.CurrentPhase})
	return e.enterPhaseAfter(g, g.CurrentPhase)
}

// enterPhaseAfter transitions g into the phase following from and publishes
// its PhaseStart, except when that phase is Play and the acting seat carries
// the distraction skip flag (spec.md §4.5): in that case g.CurrentPhase is
// never set to Play at all, and enterPhaseAfter recurses straight to the
// phase after Play, so the skip publishes neither a PhaseStart nor a
// PhaseEnd for Play.
func (e *Engine) enterPhaseAfter(g *model.Game, from model.Phase) bool {
	idx := indexOf(from)
	if idx < 0 || idx == len(model.Order)-1 {
		event.Publish(e.bus, event.TurnEnd{Base: e.bus.Stamp(), Seat: g.CurrentSeat, Turn: g.TurnCounter})
		return e.StartNextTurn(g)
	}

	next := model.Order[idx+1]
	if next == model.PhasePlay {
		if actor := g.Player(g.CurrentSeat); actor != nil && actor.BoolFlag("skipPlayPhase") {
			actor.ClearTurnFlags("skipPlayPhase")
			return e.enterPhaseAfter(g, next) // skip straight through, per the distraction judgement outcome
		}
	}

	g.CurrentPhase = next
	event.Publish(e.bus, event.PhaseStart{Base: e.bus.Stamp(), Seat: g.CurrentSeat, Phase: g.CurrentPhase})
	return true
}

// StartNextTurn rotates to the next alive seat's Start phase (spec.md §4.1
// "start-next-turn"). If no alive seat exists, the game is marked Finished
// with ErrNoAlivePlayers and false is returned.
func (e *Engine) StartNextTurn(g *model.Game) bool {
	next, ok := nextAliveSeat(g, g.CurrentSeat)
	if !ok {
		g.Finished = true
		if g.Winner == nil {
			g.Winner = &model.WinnerDescriptor{Reason: ErrNoAlivePlayers}
		}
		return false
	}
	g.CurrentSeat = next
	g.CurrentPhase = model.PhaseStart
	g.TurnCounter++
	event.Publish(e.bus, event.TurnStart{Base: e.bus.Stamp(), Seat: next, Turn: g.TurnCounter})
	event.Publish(e.bus, event.PhaseStart{Base: e.bus.Stamp(), Seat: next, Phase: g.CurrentPhase})
	return true
}

// CurrentPhase returns g's current phase (spec.md §4.1 "query-current").
func (e *Engine) CurrentPhase(g *model.Game) model.Phase { return g.CurrentPhase }

func indexOf(p model.Phase) int {
	for i, q := range model.Order {
		if q == p {
			return i
		}
	}
	return -1
}

// nextAliveSeat scans (current+k) mod N for k≥1 for an alive player
// (spec.md §4.1 "Turn rotation selects the next seat by scanning...").
func nextAliveSeat(g *model.Game, current int) (int, bool) {
	n := len(g.Players)
	if n == 0 {
		return 0, false
	}
	for k := 1; k <= n; k++ {
		seat := (current + k) % n
		if p := g.Player(seat); p != nil && p.Alive {
			return seat, true
		}
	}
	return 0, false
}
