package resolve

import (
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/rules"
)

// UseCardResolver is the entry point for any card-use action (spec.md §4.5):
// validates via the rule layer, emits CardUsed, then dispatches to the
// type-specific resolver. Grounded on the teacher's Duel.mainPhase dispatch
// switch (internal/game/duel.go), which likewise validates once at the top
// before branching into per-card-type handling.
type UseCardResolver struct {
	Actor     int
	CardID    model.CardID
	SubType   model.CardSubType
	Targets   []int
	UsedFlag  string // player flag key tracking this sub-type's per-turn count
	BaseLimit int
	LimitMods []rules.IntModifierProvider
	RangeMods []rules.IntModifierProvider

	dispatched bool
}

func (r *UseCardResolver) TypeName() string { return "UseCardResolver" }

func (r *UseCardResolver) Resolve(ctx *Context) Step {
	if r.dispatched {
		return Done(Success())
	}
	g := ctx.Game
	actor := g.Player(r.Actor)
	if actor == nil {
		return Done(Failure(rules.ErrInvalidState, "unknown actor seat"))
	}

	rctx := rules.RuleContext{Game: g, Actor: actor, Action: actionKindFor(r.SubType), Card: r.CardID, SubType: r.SubType}

	phaseResult := rules.PhaseRule(rctx)
	ownResult := rules.OwnershipRule(g, actor, r.CardID)
	limitResult := rules.LimitRule(rctx, actor, r.SubType, r.UsedFlag, r.BaseLimit, r.LimitMods)
	combined := rules.Compose(phaseResult, ownResult, limitResult)
	if !combined.Allowed {
		return Done(Failure(combined.ErrorCode, combined.Details))
	}

	for _, target := range r.Targets {
		tgt := g.Player(target)
		if tgt == nil || !tgt.Alive {
			return Done(Failure(rules.ErrTargetRejected, "target not alive"))
		}
		if r.SubType == model.SubTypeSlash {
			rangeResult := rules.RangeRule(rctx, g, actor, tgt, r.RangeMods)
			if !rangeResult.Allowed {
				return Done(Failure(rangeResult.ErrorCode, rangeResult.Details))
			}
		}
	}

	event.Publish(ctx.Services.Bus, event.CardUsed{Base: ctx.Services.Bus.Stamp(), Seat: r.Actor, CardID: r.CardID, SubType: r.SubType})
	actor.SetFlag(r.UsedFlag, actor.IntFlag(r.UsedFlag)+1)
	r.dispatched = true

	next := dispatchFrame(r)
	if next == nil {
		return Done(Failure(rules.ErrInvalidState, "no resolver registered for sub-type"))
	}
	return ContinueWith(next)
}

func actionKindFor(st model.CardSubType) rules.ActionKind {
	switch {
	case st == model.SubTypeSlash:
		return rules.ActionUseSlash
	case st == model.SubTypePeach:
		return rules.ActionUsePeach
	case st.Slot() != model.EquipSlotNone:
		return rules.ActionUseEquip
	case st.IsDelayedTrick():
		return rules.ActionUseDelayed
	default:
		return rules.ActionUseImmediate
	}
}

// dispatchFrame builds the type-specific resolver frame for r's sub-type.
// Delayed tricks and equips go straight to their placement resolvers;
// immediate tricks go through the shared nullification pre-window.
func dispatchFrame(r *UseCardResolver) Frame {
	switch {
	case r.SubType == model.SubTypeSlash:
		return &SlashResolver{Source: r.Actor, Targets: r.Targets, CardID: r.CardID}
	case r.SubType.Slot() != model.EquipSlotNone:
		return &EquipResolver{Owner: r.Actor, CardID: r.CardID, SubType: r.SubType}
	case r.SubType.IsDelayedTrick():
		target := r.Actor
		if len(r.Targets) > 0 {
			target = r.Targets[0]
		}
		return &DelayedTrickResolver{Source: r.Actor, Target: target, CardID: r.CardID}
	case r.SubType.IsImmediateTrick():
		spec, ok := immediateTrickSpecs[r.SubType]
		if !ok {
			return nil
		}
		return &NullificationGate{
			Source: r.Actor,
			Inner:  &ImmediateTrickResolver{Spec: spec, Source: r.Actor, Targets: r.Targets, CardID: r.CardID},
		}
	default:
		return nil
	}
}
