package resolve

import (
	"github.com/sanguo/engine/internal/event"
)

// DamageResolver applies amount to target's health, clamped at 0, and
// pushes a DyingResolver if health reaches zero (spec.md §4.5
// DamageResolver). Source is nil for sourceless damage (e.g. self-inflicted
// judgement damage).
//
// AfterDamage is emitted here directly when the target survives; when the
// target is reduced to zero, emission is deferred to the DyingResolver
// (spec.md §4.5: "suspends AfterDamage until dying resolves" /
// DyingResolver "On successful rescue, emit AfterDamage (deferred from the
// damage frame)") so it reflects the post-rescue-or-death outcome.
type DamageResolver struct {
	Source *int
	Target int
	Amount int
	Type   event.DamageType
	Cause  string

	done bool
}

func (r *DamageResolver) TypeName() string { return "DamageResolver" }

func (r *DamageResolver) Resolve(ctx *Context) Step {
	if r.done {
		return Done(Success())
	}
	bus := ctx.Services.Bus
	player := ctx.Game.Player(r.Target)
	if player == nil {
		return Done(Failure("INVALID_STATE", "unknown damage target"))
	}

	event.Publish(bus, event.DamageCreated{Base: bus.Stamp(), Source: r.Source, Target: r.Target, Amount: r.Amount, Type: r.Type, Cause: r.Cause})
	before := player.CurrentHealth
	after := before - r.Amount
	if after < 0 {
		after = 0
	}
	player.CurrentHealth = after
	event.Publish(bus, event.DamageApplied{Base: bus.Stamp(), Target: r.Target, Amount: r.Amount, HealthBefore: before, HealthAfter: after})
	event.Publish(bus, event.DamageResolved{Base: bus.Stamp(), Target: r.Target, Amount: r.Amount})
	r.done = true

	if after <= 0 {
		return ContinueWith(&DyingResolver{
			Target: r.Target,
			Killer: r.Source,
			AfterDamage: &event.AfterDamage{
				Base: bus.Stamp(), Source: r.Source, Target: r.Target, Amount: r.Amount, Type: r.Type, Cause: r.Cause,
			},
		})
	}
	event.Publish(bus, event.AfterDamage{Base: bus.Stamp(), Source: r.Source, Target: r.Target, Amount: r.Amount, Type: r.Type, Cause: r.Cause})
	return Done(Success())
}
