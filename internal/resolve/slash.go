package resolve

import (
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/rules"
)

type slashTargetStep int

const (
	slashStepDeclare slashTargetStep = iota
	slashStepDodgeWindow
	slashStepDamage
	slashStepAfterDamage
)

// SlashResolver resolves one Slash use against its declared targets in
// order (spec.md §4.5 SlashResolver). Per target it opens a Dodge window,
// and on failure to dodge pushes a DamageResolver, whose AfterDamage fires
// once damage (and any dying flow) settles.
type SlashResolver struct {
	Source  int
	Targets []int
	CardID  model.CardID

	targetIdx int
	step      slashTargetStep
	dodged    bool
}

func (r *SlashResolver) TypeName() string { return "SlashResolver" }

func (r *SlashResolver) Resolve(ctx *Context) Step {
	bus := ctx.Services.Bus

	if r.targetIdx >= len(r.Targets) {
		return Done(Success())
	}
	target := r.Targets[r.targetIdx]

	switch r.step {
	case slashStepDeclare:
		if r.targetIdx == 0 {
			event.Publish(bus, event.AfterCardTargetsDeclared{Base: bus.Stamp(), Seat: r.Source, CardID: r.CardID, Targets: append([]int{}, r.Targets...)})
		}
		resolved, exceeded := r.declareTarget(bus, target)
		if exceeded {
			return Done(Failure(rules.ErrRuleValidation, "slash redirect exceeded the recursion bound"))
		}
		r.Targets[r.targetIdx] = resolved
		r.step = slashStepDodgeWindow
		return ContinueWith()

	case slashStepDodgeWindow:
		required := rules.RequiredDodges(bus, target, r.Source, r.CardID)
		if required <= 0 {
			r.dodged = false
			r.step = slashStepDamage
			return ContinueWith()
		}
		window := OpenWindow(model.SubTypeDodge, []int{target}, required, "response.dodge")
		got := 0
		frame := &PollFrame{
			Window: window,
			Handler: func(ctx *Context, seat int, played *model.CardID) bool {
				if played != nil {
					got++
				}
				return got >= required
			},
			Done: func(ctx *Context, anyPlayed bool) {
				r.dodged = got >= required
				r.step = slashStepDamage
			},
		}
		return ContinueWith(frame)

	case slashStepDamage:
		if r.dodged {
			event.Publish(bus, event.SlashNegatedByJink{Base: bus.Stamp(), Source: r.Source, Target: target})
			event.Publish(bus, event.AfterSlashDodged{Base: bus.Stamp(), Source: r.Source, Target: target})
			r.step = slashStepAfterDamage
			return ContinueWith()
		}
		mod := event.PublishModifiers(bus, event.BeforeDamage{
			Base:   bus.Stamp(),
			Source: intPtr(r.Source),
			Target: target,
			Amount: 1,
			Type:   event.DamageNormal,
			Cause:  "Slash",
		}, event.DamageModifier{}, func(acc, next event.DamageModifier) event.DamageModifier {
			return event.DamageModifier{Prevent: acc.Prevent || next.Prevent, AmountDelta: acc.AmountDelta + next.AmountDelta}
		})
		amount := 1 + mod.AmountDelta
		r.step = slashStepAfterDamage
		if mod.Prevent || amount <= 0 {
			return ContinueWith()
		}
		return ContinueWith(&DamageResolver{
			Source: &r.Source,
			Target: target,
			Amount: amount,
			Type:   event.DamageNormal,
			Cause:  "Slash",
		})

	case slashStepAfterDamage:
		// AfterDamage for the non-dodged case is already emitted by
		// DamageResolver (or, if the target died, by DyingResolver once
		// rescue/death settles) — this step only advances to the next
		// declared target.
		r.targetIdx++
		r.step = slashStepDeclare
		r.dodged = false
		return ContinueWith()
	}
	return Done(Failure(rules.ErrInvalidState, "unreachable slash step"))
}

// maxSlashRedirects bounds how many times a single declared target may be
// redirected before the redirect itself is refused (spec.md §4.5; Open
// Question #1, DESIGN.md, ties the judgement-swap bound to this same value).
const maxSlashRedirects = 3

// declareTarget emits SlashTargeted against target and lets skills redirect
// it, re-emitting SlashTargeted against the new target each time, up to
// maxSlashRedirects redirects. A further redirect attempt beyond the bound
// reports exceeded=true so the caller can refuse with RULE_VALIDATION_FAILED.
func (r *SlashResolver) declareTarget(bus *event.Bus, target int) (resolvedTarget int, exceeded bool) {
	for redirects := 0; ; redirects++ {
		event.Publish(bus, event.SlashTargeted{Base: bus.Stamp(), Source: r.Source, Target: target, CardID: r.CardID})
		mod := event.PublishModifiers(bus, event.SlashTargeted{Base: bus.Stamp(), Source: r.Source, Target: target, CardID: r.CardID}, event.SlashRedirectModifier{}, firstSlashRedirect)
		if !mod.Redirected {
			return target, false
		}
		if redirects >= maxSlashRedirects {
			return 0, true
		}
		target = mod.NewTarget
	}
}

func firstSlashRedirect(acc, next event.SlashRedirectModifier) event.SlashRedirectModifier {
	if acc.Redirected {
		return acc
	}
	return next
}

func intPtr(v int) *int { return &v }
