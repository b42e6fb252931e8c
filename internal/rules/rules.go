// Package rules implements the rule-query layer (spec.md §4.4): pure,
// side-effect-free predicates over game state feeding legal-action
// enumeration and target selection. Grounded on the teacher's
// computeFastEffectActions/computeBattlePhaseActions pattern
// (internal/game/timing.go, internal/game/battle.go) of pure
// state-to-candidate-actions functions, generalized into composable
// predicates per spec.md's modifier-provider design.
package rules

import (
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
)

// Error codes surfaced through RuleResult.ErrorCode.
const (
	ErrWrongPhase     = "WRONG_PHASE"
	ErrLimitExceeded  = "LIMIT_EXCEEDED"
	ErrOutOfRange     = "OUT_OF_RANGE"
	ErrNotOwned       = "NOT_OWNED"
	ErrTargetRejected = "TARGET_REJECTED"
	ErrInvalidState   = "INVALID_STATE"
	ErrRuleValidation = "RULE_VALIDATION_FAILED"
)

// RuleResult is the uniform output of every card-usage predicate (spec.md
// §4.4).
type RuleResult struct {
	Allowed   bool
	ErrorCode string
	Details   string
}

func ok() RuleResult                           { return RuleResult{Allowed: true} }
func reject(code, details string) RuleResult { return RuleResult{Allowed: false, ErrorCode: code, Details: details} }

// ActionKind names the action a RuleContext is being evaluated for.
type ActionKind string

const (
	ActionUseSlash       ActionKind = "UseSlash"
	ActionUsePeach       ActionKind = "UsePeach"
	ActionUseEquip       ActionKind = "UseEquip"
	ActionUseImmediate   ActionKind = "UseImmediateTrick"
	ActionUseDelayed     ActionKind = "UseDelayedTrick"
	ActionEndPlayPhase   ActionKind = "EndPlayPhase"
	ActionRespondDodge   ActionKind = "RespondDodge"
	ActionRespondPeach   ActionKind = "RespondPeach"
	ActionRespondNullify ActionKind = "RespondNullify"
)

// RuleContext is the read-only view every predicate receives.
type RuleContext struct {
	Game    *model.Game
	Actor   *model.Player
	Action  ActionKind
	Card    model.CardID
	SubType model.CardSubType
}

// IntModifierProvider lets skills sum a delta onto a numeric rule result
// (spec.md §4.4 "numeric modifiers sum").
type IntModifierProvider func(ctx RuleContext) int

// VetoModifierProvider lets skills short-circuit-veto a target or action
// (spec.md §4.4 "target filters use short-circuit veto"). Returning true
// means "veto" — the candidate is rejected regardless of other checks.
type VetoModifierProvider func(ctx RuleContext, candidateSeat int) bool

// PhaseRule reports whether a card of the given type may be used in the
// actor's current phase. Basic and trick cards (except response-only cards)
// are usable only during Play; equip/delayed-trick placement is likewise a
// Play-phase action. Response cards (Dodge, the response-only Nullification
// use, Peach-as-rescue) are validated by the response system instead and
// always pass this predicate.
func PhaseRule(ctx RuleContext) RuleResult {
	if ctx.Action == ActionRespondDodge || ctx.Action == ActionRespondPeach || ctx.Action == ActionRespondNullify {
		return ok()
	}
	if ctx.Game.CurrentPhase != model.PhasePlay {
		return reject(ErrWrongPhase, "cards may only be played during the Play phase")
	}
	if ctx.Game.CurrentSeat != ctx.Actor.Seat {
		return reject(ErrWrongPhase, "not this player's turn")
	}
	return ok()
}

// RangeRule reports whether target is within attack range of actor for a
// Slash use. Base distance requirement is 1; offensive-horse lowers the
// actor's effective distance to targets by 1, defensive-horse raises a
// target's effective distance from attackers by 1 (spec.md §4.4), then any
// skill-supplied modifiers apply additively.
func RangeRule(ctx RuleContext, g *model.Game, actor, target *model.Player, mods []IntModifierProvider) RuleResult {
	dist := g.SeatDistance(actor.Seat, target.Seat)
	if dist < 0 {
		return reject(ErrOutOfRange, "target not reachable")
	}
	required := 1
	if hasEquip(g, actor, model.EquipSlotOffensiveHorse) {
		dist--
	}
	if hasEquip(g, target, model.EquipSlotDefensiveHorse) {
		dist++
	}
	for _, m := range mods {
		required += m(ctx)
	}
	if dist > required {
		return reject(ErrOutOfRange, "target out of attack range")
	}
	return ok()
}

func hasEquip(g *model.Game, p *model.Player, slot model.EquipSlot) bool {
	z := g.Zone(p.EquipZone)
	if z == nil {
		return false
	}
	for _, id := range z.Cards {
		if c := g.Card(id); c != nil && c.SubType.Slot() == slot {
			return true
		}
	}
	return false
}

// LimitRule reports whether actor may use another card of subType this turn,
// given the base per-turn cap and additive skill/equipment modifiers (spec.md
// §4.4: "base one Slash per turn; modifiers ... raise the cap", composed
// additively per Open Question #3, DESIGN.md).
func LimitRule(ctx RuleContext, actor *model.Player, subType model.CardSubType, usedFlag string, base int, mods []IntModifierProvider) RuleResult {
	limit := base
	for _, m := range mods {
		limit += m(ctx)
	}
	if actor.IntFlag(usedFlag) >= limit {
		return reject(ErrLimitExceeded, "per-turn usage cap reached")
	}
	return ok()
}

// OwnershipRule reports whether card is present in actor's hand.
func OwnershipRule(g *model.Game, actor *model.Player, card model.CardID) RuleResult {
	hand := g.Zone(actor.HandZone)
	if hand == nil || !hand.Contains(card) {
		return reject(ErrNotOwned, "card not in actor's hand")
	}
	return ok()
}

// Compose runs predicates in order, short-circuiting on the first rejection.
func Compose(results ...RuleResult) RuleResult {
	for _, r := range results {
		if !r.Allowed {
			return r
		}
	}
	return ok()
}

// TargetFilter reports whether candidateSeat is a legal target for ctx,
// after applying any veto modifier providers (spec.md §4.4 short-circuit
// veto semantics: any veto rejects regardless of the base predicate).
func TargetFilter(ctx RuleContext, candidateSeat int, base func(int) bool, vetoes []VetoModifierProvider) bool {
	if !base(candidateSeat) {
		return false
	}
	for _, v := range vetoes {
		if v(ctx, candidateSeat) {
			return false
		}
	}
	return true
}

// ActionDescriptor is a candidate action the action-query service offers for
// the current player (spec.md §4.4). It does not bind to specific cards or
// targets until a ChoiceResult returns.
type ActionDescriptor struct {
	ID         ActionKind
	MinTargets int
	MaxTargets int
	TargetFilter func(seat int) bool
	Candidates []model.CardID
}

// RequiredDodges returns the number of Dodge responses needed to negate a
// Slash, starting from 1 and folded additively with skill modifiers
// (spec.md §4.5 step 2) via the event bus.
func RequiredDodges(bus *event.Bus, target int, source int, cardID model.CardID) int {
	return 1 + event.PublishModifiers(bus, RequiredDodgesQuery{
		Base:   bus.Stamp(),
		Target: target,
		Source: source,
		CardID: cardID,
	}, 0, event.AdditiveInt)
}

// RequiredDodgesQuery is the modifier-event shape skills subscribe to in
// order to raise (or, via a negative delta, lower) the Dodge requirement for
// a Slash against target.
type RequiredDodgesQuery struct {
	event.Base
	Target int
	Source int
	CardID model.CardID
}
