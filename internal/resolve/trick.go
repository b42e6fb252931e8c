package resolve

import (
	"github.com/sanguo/engine/internal/choice"
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/rules"
	"github.com/sanguo/engine/internal/zone"
)

// TrickKind distinguishes the eight immediate tricks' resolution shapes.
type TrickKind int

const (
	TrickDismantle TrickKind = iota
	TrickSeize
	TrickDrawFromDeck
	TrickHarvest
	TrickVolleyOfArrows
	TrickSouthernInvasion
	TrickDuel
	TrickBorrowABladeForMurder
)

// TrickSpec names one immediate trick's resolution shape.
type TrickSpec struct {
	Kind TrickKind
}

// immediateTrickSpecs maps each immediate-trick sub-type to its resolution
// shape (spec.md §6 catalog, §4.5 "one per card"). Nullification is
// deliberately absent: it is never dispatched through UseCardResolver's
// main-phase path, only played directly into a response window opened by
// NullificationGate, per spec.md §4.5.
var immediateTrickSpecs = map[model.CardSubType]TrickSpec{
	model.SubTypeDismantle:             {Kind: TrickDismantle},
	model.SubTypeSeize:                 {Kind: TrickSeize},
	model.SubTypeDrawFromDeck:          {Kind: TrickDrawFromDeck},
	model.SubTypeHarvest:               {Kind: TrickHarvest},
	model.SubTypeVolleyOfArrows:        {Kind: TrickVolleyOfArrows},
	model.SubTypeSouthernInvasion:      {Kind: TrickSouthernInvasion},
	model.SubTypeDuel:                  {Kind: TrickDuel},
	model.SubTypeBorrowABladeForMurder: {Kind: TrickBorrowABladeForMurder},
}

// ImmediateTrickResolver resolves one immediate trick's target-facing effect
// (spec.md §4.5 "Immediate-Trick resolvers"). Every use is wrapped by a
// NullificationGate. Targets is used exactly as passed to Engine.UseCard;
// nothing fills it in. The resolvers read it as: for the two area tricks,
// every other alive player in seat order; for Borrow-a-Blade,
// [wielder, victim]; for the rest, a single seat.
type ImmediateTrickResolver struct {
	Spec    TrickSpec
	Source  int
	Targets []int
	CardID  model.CardID

	step      int
	idx       int
	started   bool
	responder int
	other     int

	lastSatisfied bool
	lastCard      model.CardID
}

func (r *ImmediateTrickResolver) TypeName() string { return "ImmediateTrickResolver" }

func (r *ImmediateTrickResolver) Resolve(ctx *Context) Step {
	switch r.Spec.Kind {
	case TrickDismantle:
		return r.resolveForcedDiscard(ctx, false)
	case TrickSeize:
		return r.resolveForcedDiscard(ctx, true)
	case TrickDrawFromDeck:
		return r.resolveDrawFromDeck(ctx)
	case TrickHarvest:
		return r.resolveHarvest(ctx)
	case TrickVolleyOfArrows:
		return r.resolveAreaTrick(ctx, model.SubTypeDodge, "response.volleyOfArrows", "Volley of Arrows")
	case TrickSouthernInvasion:
		return r.resolveAreaTrick(ctx, model.SubTypeSlash, "response.southernInvasion", "Southern Invasion")
	case TrickDuel:
		return r.resolveDuel(ctx)
	case TrickBorrowABladeForMurder:
		return r.resolveBorrowABlade(ctx)
	}
	return Done(Failure(rules.ErrInvalidState, "unknown immediate-trick kind"))
}

// resolveForcedDiscard implements Dismantle (discard to the discard pile)
// and Seize (move to source's hand) — source picks one card from target's
// hand or equip zone, no response window (spec.md §6 catalog).
func (r *ImmediateTrickResolver) resolveForcedDiscard(ctx *Context, toHand bool) Step {
	g := ctx.Game
	target := r.Targets[0]
	tgtPlayer := g.Player(target)
	if tgtPlayer == nil {
		return Done(Failure(rules.ErrInvalidState, "unknown dismantle/seize target"))
	}

	if ctx.ChoiceResult != nil {
		c := ctx.ChoiceResult
		if c.Declined || len(c.SelectedCards) == 0 {
			return Done(Success())
		}
		cardID := c.SelectedCards[0]
		srcZone := cardZoneAmong(g, cardID, tgtPlayer.HandZone, tgtPlayer.EquipZone)
		if srcZone == "" {
			return Done(Failure(rules.ErrInvalidState, "selected card not in target's hand or equip"))
		}
		destZone := model.ZoneDiscardPile
		reason := event.ReasonDiscard
		ordering := model.ToTop
		if toHand {
			destZone = g.Player(r.Source).HandZone
			reason = event.ReasonPlay
			ordering = model.PreserveRelativeOrder
		}
		if err := ctx.Services.Zone.Move(g, zone.Descriptor{
			Source: srcZone, Target: destZone, Cards: []model.CardID{cardID}, Reason: reason, Ordering: ordering,
		}); err != nil {
			return Done(Failure(rules.ErrInvalidState, "dismantle/seize move failed"))
		}
		return Done(Success())
	}

	hand := g.Zone(tgtPlayer.HandZone)
	equip := g.Zone(tgtPlayer.EquipZone)
	candidates := append(append([]model.CardID{}, hand.Cards...), equip.Cards...)
	if len(candidates) == 0 {
		return Done(Success())
	}
	return Suspend(choice.Request{
		PlayerSeat:  r.Source,
		Kind:        choice.KindSelectCard,
		Prompt:      "response.forcedDiscard",
		Constraints: choice.Constraints{AllowedCards: candidates},
	})
}

// resolveDrawFromDeck implements draw-from-deck: source draws 2 cards
// (spec.md §6 catalog); no response window.
func (r *ImmediateTrickResolver) resolveDrawFromDeck(ctx *Context) Step {
	g := ctx.Game
	actor := g.Player(r.Source)
	if actor == nil {
		return Done(Failure(rules.ErrInvalidState, "unknown draw-from-deck actor"))
	}
	if _, err := ctx.Services.Zone.Draw(g, ctx.Services.Deck, actor, 2); err != nil {
		return Done(Failure(rules.ErrInvalidState, "draw-from-deck failed"))
	}
	return Done(Success())
}

// resolveHarvest implements the Peach-Garden-Oath-equivalent: every target
// (as passed to Engine.UseCard, normally the whole alive seating) recovers 1
// health, capped at MaxHealth, subject to the same BeforeRecover modifier
// fold a Peach uses (spec.md §6 catalog).
func (r *ImmediateTrickResolver) resolveHarvest(ctx *Context) Step {
	bus := ctx.Services.Bus
	g := ctx.Game
	for _, seat := range r.Targets {
		p := g.Player(seat)
		if p == nil || !p.Alive || p.CurrentHealth >= p.MaxHealth {
			continue
		}
		mod := event.PublishModifiers(bus, event.BeforeRecover{Base: bus.Stamp(), Seat: seat, Amount: 1}, event.RecoverModifier{}, func(acc, next event.RecoverModifier) event.RecoverModifier {
			return event.RecoverModifier{Prevent: acc.Prevent || next.Prevent, AmountDelta: acc.AmountDelta + next.AmountDelta}
		})
		if mod.Prevent {
			continue
		}
		p.CurrentHealth += 1 + mod.AmountDelta
		if p.CurrentHealth > p.MaxHealth {
			p.CurrentHealth = p.MaxHealth
		}
	}
	return Done(Success())
}

// resolveAreaTrick implements Volley-of-Arrows (Dodge) and
// Southern-Invasion (Slash): each target, in order, gets one chance to play
// want or takes 1 damage (spec.md §6 catalog, §4.5 "for the area-effect
// tricks, each non-source player in seat order may play a Dodge or a Slash
// as the window demands").
func (r *ImmediateTrickResolver) resolveAreaTrick(ctx *Context, want model.CardSubType, prompt, cause string) Step {
	if r.idx >= len(r.Targets) {
		return Done(Success())
	}
	target := r.Targets[r.idx]

	switch r.step {
	case 0:
		window := OpenWindow(want, []int{target}, 1, prompt)
		satisfied := false
		frame := &PollFrame{
			Window: window,
			Handler: func(ctx *Context, seat int, played *model.CardID) bool {
				satisfied = played != nil
				return true
			},
			Done: func(ctx *Context, anyPlayed bool) {
				r.lastSatisfied = satisfied
				r.step = 1
			},
		}
		return ContinueWith(frame)

	case 1:
		satisfied := r.lastSatisfied
		r.step = 0
		r.idx++
		if satisfied {
			return ContinueWith()
		}
		return ContinueWith(&DamageResolver{Target: target, Amount: 1, Type: event.DamageNormal, Cause: cause})
	}
	return Done(Failure(rules.ErrInvalidState, "unreachable area-trick step"))
}

// resolveDuel implements Duel: target and source alternate a forced Slash,
// starting with target; whoever fails to supply one when required takes 1
// damage and the duel ends (spec.md §6 catalog). Each round is one
// ForcedSlashResolver with its failure fallback wired to the damage instead
// of a surrendered weapon.
func (r *ImmediateTrickResolver) resolveDuel(ctx *Context) Step {
	if r.step == 1 {
		return Done(Success()) // a round's failure fallback already ended the duel
	}
	if !r.started {
		r.started = true
		r.responder = r.Targets[0]
		r.other = r.Source
	}

	responder, other := r.responder, r.other
	r.responder, r.other = other, responder // advances the alternation for the *next* round unconditionally

	return ContinueWith(&ForcedSlashResolver{
		Actor:  responder,
		Victim: other,
		Prompt: "response.duel",
		OnFailure: func(ctx *Context) Step {
			r.step = 1 // duel ends with this round
			return ContinueWith(&DamageResolver{Target: responder, Amount: 1, Type: event.DamageNormal, Cause: "Duel"})
		},
	})
}

// resolveBorrowABlade implements Borrow-a-Blade-for-Murder: Targets[0] (the
// wielder) must use a Slash against Targets[1] (the victim) or surrender
// their equipped weapon to the discard pile (spec.md §6 catalog).
func (r *ImmediateTrickResolver) resolveBorrowABlade(ctx *Context) Step {
	if r.step == 1 {
		return Done(Success()) // the one ForcedSlashResolver round below already ran to completion
	}
	r.step = 1
	wielder := r.Targets[0]
	victim := r.Targets[1]

	return ContinueWith(&ForcedSlashResolver{
		Actor:  wielder,
		Victim: victim,
		Prompt: "response.borrowABladeForMurder",
		OnFailure: func(ctx *Context) Step {
			g := ctx.Game
			owner := g.Player(wielder)
			equip := g.Zone(owner.EquipZone)
			for _, id := range append([]model.CardID{}, equip.Cards...) {
				c := g.Card(id)
				if c == nil || c.SubType != model.SubTypeWeapon {
					continue
				}
				if err := ctx.Services.Zone.Move(g, zone.Descriptor{
					Source: owner.EquipZone, Target: model.ZoneDiscardPile,
					Cards: []model.CardID{id}, Reason: event.ReasonDiscard, Ordering: model.ToTop,
				}); err != nil {
					return Done(Failure(rules.ErrInvalidState, "borrow-a-blade weapon surrender failed"))
				}
				break
			}
			return Done(Success())
		},
	})
}

// cardZoneAmong returns the first of zones that currently contains id, or
// the empty ZoneID if none does.
func cardZoneAmong(g *model.Game, id model.CardID, zones ...model.ZoneID) model.ZoneID {
	for _, zid := range zones {
		if z := g.Zone(zid); z != nil && z.Contains(id) {
			return zid
		}
	}
	return ""
}
