package engine

import (
	"github.com/sanguo/engine/internal/choice"
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/identity"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/resolve"
	"github.com/sanguo/engine/internal/rules"
	"github.com/sanguo/engine/internal/skill"
	"github.com/sanguo/engine/internal/turn"
	"github.com/sanguo/engine/internal/zone"
)

// Engine is the top-level orchestrator: it owns the single Game and drives
// the suspend/resume loop a host pumps via Next/Submit, plus the two
// proactive Play-phase actions (UseCard, EndPlayPhase) the choice-suspension
// protocol doesn't model on its own, since nothing suspends the match until
// a card has actually been used (spec.md §4.8 only covers responses to
// something already in flight).
type Engine struct {
	game   *model.Game
	bus    *event.Bus
	stack  *resolve.Stack
	ctx    *resolve.Context
	turn   *turn.Engine
	zone   *zone.Service
	deck   *zone.DeckManager
	skills *skill.Manager
}

// Game exposes the authoritative state object for read-only inspection by
// the host (action-query UI, spectators, logging).
func (e *Engine) Game() *model.Game { return e.game }

// Bus exposes the event bus so a host can attach replaylog.Attach or its own
// observers before driving the match.
func (e *Engine) Bus() *event.Bus { return e.bus }

// History returns every resolver frame's completion record so far, in
// completion order — useful for inspecting the outcome of the action just
// submitted via UseCard.
func (e *Engine) History() []resolve.Record { return e.stack.History() }

// Outcome reports what the host must do after a Next call.
type Outcome struct {
	// PendingChoice is set when the resolution stack suspended on a player
	// decision; resolve it with Submit.
	PendingChoice *choice.Request
	// AwaitingPlay is set when the stack has drained and the current seat's
	// Play phase is waiting for a proactive UseCard or EndPlayPhase call.
	AwaitingPlay bool
	Actor        int
	// Finished is set once the match has a winner (or no players remain
	// alive); Winner is then non-nil.
	Finished bool
	Winner   *model.WinnerDescriptor
}

// Next drives the resolution stack and turn engine until the match needs
// external input: a suspended choice, a Play-phase action, or the end of the
// match (spec.md §4.5, §4.1). It is safe to call repeatedly; once Finished
// is true it keeps returning the same terminal Outcome.
func (e *Engine) Next() (Outcome, error) {
	for {
		if e.game.Finished {
			return Outcome{Finished: true, Winner: e.game.Winner}, nil
		}

		if !e.stack.Empty() {
			req, done, err := e.stack.Run(e.ctx)
			if err != nil {
				return Outcome{}, err
			}
			if !done {
				return Outcome{PendingChoice: req}, nil
			}
			if e.checkWin() {
				return Outcome{Finished: true, Winner: e.game.Winner}, nil
			}
			continue
		}

		if e.game.CurrentPhase == model.PhasePlay {
			return Outcome{AwaitingPlay: true, Actor: e.game.CurrentSeat}, nil
		}

		if !e.turn.AdvancePhase(e.game) {
			return Outcome{Finished: true, Winner: e.game.Winner}, nil
		}
		if e.checkWin() {
			return Outcome{Finished: true, Winner: e.game.Winner}, nil
		}
	}
}

// checkWin asks identity for the active win condition and, if met, finishes
// the match. Returns true if the match is now finished.
func (e *Engine) checkWin() bool {
	if winner, over := identity.CheckWinCondition(e.game); over {
		e.finish(winner)
		return true
	}
	return false
}

func (e *Engine) finish(winner *model.WinnerDescriptor) {
	if e.game.Finished {
		return
	}
	e.game.Finished = true
	e.game.Winner = winner
	event.Publish(e.bus, event.GameEnded{Base: e.bus.Stamp(), Winners: winner.Winners, Reason: winner.Reason})
}

// Submit answers the pending choice returned by the last Next call (spec.md
// §4.8). Call Next again afterward to resume driving the match.
func (e *Engine) Submit(r choice.Result) error {
	return e.stack.Submit(e.ctx, r)
}

// UseCard enqueues a Play-phase card use for resolution by the next Next
// call (spec.md §4.5 UseCardResolver). It only rejects structurally invalid
// requests (wrong phase, wrong seat, unknown card) up front — rule
// violations (ownership, range, per-turn limits) surface as a Failure
// Record in History() once Next drains the frame.
func (e *Engine) UseCard(actor int, cardID model.CardID, targets []int) error {
	if err := e.assertAwaitingPlay(actor); err != nil {
		return err
	}
	card := e.game.Card(cardID)
	if card == nil {
		return newError(ErrCardNotFound, "no such card %d", cardID)
	}
	flag, base, limitMods := e.actionLimits(card.SubType)
	e.stack.Push(&resolve.UseCardResolver{
		Actor:     actor,
		CardID:    cardID,
		SubType:   card.SubType,
		Targets:   targets,
		UsedFlag:  flag,
		BaseLimit: base,
		LimitMods: limitMods,
	})
	return nil
}

// EndPlayPhase advances past the current seat's Play phase with no further
// card use (spec.md §4.1 "advance-phase").
func (e *Engine) EndPlayPhase(actor int) error {
	if err := e.assertAwaitingPlay(actor); err != nil {
		return err
	}
	e.turn.AdvancePhase(e.game)
	return nil
}

func (e *Engine) assertAwaitingPlay(actor int) error {
	if e.game.Finished {
		return newError(ErrInvalidState, "match already finished")
	}
	if !e.stack.Empty() || e.game.CurrentPhase != model.PhasePlay {
		return newError(ErrInvalidState, "no Play-phase action is pending")
	}
	if e.game.CurrentSeat != actor {
		return newError(ErrInvalidState, "seat %d does not hold the turn", actor)
	}
	return nil
}

// actionLimits returns the per-turn usage-cap inputs UseCardResolver needs
// for a card of the given sub-type. Only Slash carries a per-turn cap
// (base 1, raised additively by skills, spec.md §4.4 Open Question #3);
// every other usable sub-type is capped only by ownership (a card leaves the
// hand once played), so a large base with no modifiers lets LimitRule always
// pass.
func (e *Engine) actionLimits(st model.CardSubType) (string, int, []rules.IntModifierProvider) {
	if st == model.SubTypeSlash {
		return "slashCountThisTurn", 1, []rules.IntModifierProvider{
			func(ctx rules.RuleContext) int {
				return e.skills.MaxSlashModifier(e.game, ctx.Actor)
			},
		}
	}
	return "", 1 << 30, nil
}
