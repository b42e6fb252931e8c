// Package skill implements the skill manager (spec.md §4.7): registration,
// attach/detach lifecycle, lord-skill gating, and equipment-skill wiring.
// Grounded directly on the teacher's CardEffect struct (internal/game/effect.go),
// which already represents a capability as a single record carrying optional
// function-pointer hooks rather than a family of overlapping interfaces —
// Design Notes §9 "Skill capability model" calls for exactly this shape,
// applied to skills instead of card effects.
package skill

import (
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
)

// Capability flags describe what a skill might do, for introspection by the
// action-query service and response system (spec.md §4.7) — they do not
// gate whether hooks fire, only what a caller should expect to ask for.
type Capability int

const (
	ProvidesActions Capability = 1 << iota
	ModifiesRules
	IntervenesResolution
	InitiatesChoices
)

// Kind is the broad skill type tag (spec.md §4.7).
type Kind int

const (
	KindActive Kind = iota
	KindTrigger
	KindLocked
)

// ModifyDrawCount alters the Draw-phase card count (spec.md §4.5
// DrawPhaseResolver: count = 2 + sum(modifiers)).
type ModifyDrawCount func(g *model.Game, owner *model.Player) int

// ModifyMaxSlashPerTurn alters the per-turn Slash cap (additive, Open
// Question #3 / DESIGN.md).
type ModifyMaxSlashPerTurn func(g *model.Game, owner *model.Player) int

// ModifyAttackDistance alters the effective distance an owner must reach a
// target (additive).
type ModifyAttackDistance func(g *model.Game, owner, target *model.Player) int

// ModifyTargetEligibility vetoes (true = reject) a candidate target for
// owner's pending action.
type ModifyTargetEligibility func(g *model.Game, owner *model.Player, candidateSeat int) bool

// VirtualCardProvider offers a literal hand card as a stand-in for
// wantSubType in a response window (spec.md §4.6), returning the proposal
// and true, or false if owner has nothing to offer.
type VirtualCardProvider func(g *model.Game, owner *model.Player, wantSubType model.CardSubType) (VirtualCardProposal, bool)

// Definition is the static shape of one skill, analogous to the teacher's
// CardEffect: a single record with optional hooks, most of them nil for any
// given skill.
type Definition struct {
	ID           string
	Kind         Kind
	Capabilities Capability
	LordOnly     bool

	// Attach/Detach wire event-bus subscriptions for Trigger/Locked skills.
	// Active skills need neither — the action-query service surfaces them
	// directly via Capabilities&ProvidesActions.
	Attach func(g *model.Game, owner *model.Player, bus *event.Bus) []event.Subscription
	Detach func(g *model.Game, owner *model.Player, bus *event.Bus, subs []event.Subscription)

	ModifyDrawCount         ModifyDrawCount
	ModifyMaxSlashPerTurn   ModifyMaxSlashPerTurn
	ModifyAttackDistance    ModifyAttackDistance
	ModifyTargetEligibility ModifyTargetEligibility
	VirtualCard             VirtualCardProvider
}

// instance is a registered skill bound to an owner, holding whatever
// subscriptions Attach returned so Detach can clean them up.
type instance struct {
	def   Definition
	owner int
	subs  []event.Subscription
}

// Manager tracks every skill currently registered to any player.
type Manager struct {
	bus       *event.Bus
	instances []*instance
}

// NewManager constructs a skill manager publishing to bus.
func NewManager(bus *event.Bus) *Manager {
	return &Manager{bus: bus}
}

// Register attaches def to owner. Lord-only skills are silently refused
// (return false) unless owner's role is RoleLord (spec.md §4.7 "Lord skills
// are conditionally registered").
func (m *Manager) Register(g *model.Game, owner *model.Player, def Definition) bool {
	if def.LordOnly && owner.Role != model.RoleLord {
		return false
	}
	inst := &instance{def: def, owner: owner.Seat}
	if def.Attach != nil {
		inst.subs = def.Attach(g, owner, m.bus)
	}
	m.instances = append(m.instances, inst)
	return true
}

// Unregister detaches and removes the named skill from owner, if present.
// Used for equipment skill removal on unequip (spec.md §4.5 EquipResolver).
func (m *Manager) Unregister(g *model.Game, owner *model.Player, skillID string) {
	for i, inst := range m.instances {
		if inst.owner != owner.Seat || inst.def.ID != skillID {
			continue
		}
		if inst.def.Detach != nil {
			inst.def.Detach(g, owner, m.bus, inst.subs)
		}
		m.instances = append(m.instances[:i], m.instances[i+1:]...)
		return
	}
}

// UnregisterAll detaches every skill owned by seat (used on player death or
// full equipment-zone teardown).
func (m *Manager) UnregisterAll(g *model.Game, owner *model.Player) {
	remaining := m.instances[:0]
	for _, inst := range m.instances {
		if inst.owner != owner.Seat {
			remaining = append(remaining, inst)
			continue
		}
		if inst.def.Detach != nil {
			inst.def.Detach(g, owner, m.bus, inst.subs)
		}
	}
	m.instances = remaining
}

// For returns every skill instance currently registered to seat, in
// registration order.
func (m *Manager) For(seat int) []Definition {
	var out []Definition
	for _, inst := range m.instances {
		if inst.owner == seat {
			out = append(out, inst.def)
		}
	}
	return out
}

// DrawCountModifier sums ModifyDrawCount across every skill owned by owner
// (spec.md §4.5: "count = 2 + sum(skillModifiers)").
func (m *Manager) DrawCountModifier(g *model.Game, owner *model.Player) int {
	total := 0
	for _, inst := range m.instances {
		if inst.owner != owner.Seat || inst.def.ModifyDrawCount == nil {
			continue
		}
		total += inst.def.ModifyDrawCount(g, owner)
	}
	return total
}

// MaxSlashModifier sums ModifyMaxSlashPerTurn across every registered skill
// owned by owner (Open Question #3: additive composition).
func (m *Manager) MaxSlashModifier(g *model.Game, owner *model.Player) int {
	total := 0
	for _, inst := range m.instances {
		if inst.owner != owner.Seat || inst.def.ModifyMaxSlashPerTurn == nil {
			continue
		}
		total += inst.def.ModifyMaxSlashPerTurn(g, owner)
	}
	return total
}

// AttackDistanceModifier sums ModifyAttackDistance across every skill owned
// by owner for a pending action against target.
func (m *Manager) AttackDistanceModifier(g *model.Game, owner, target *model.Player) int {
	total := 0
	for _, inst := range m.instances {
		if inst.owner != owner.Seat || inst.def.ModifyAttackDistance == nil {
			continue
		}
		total += inst.def.ModifyAttackDistance(g, owner, target)
	}
	return total
}

// VetoesTarget reports whether any skill owned by owner rejects candidateSeat
// (short-circuit veto, spec.md §4.4).
func (m *Manager) VetoesTarget(g *model.Game, owner *model.Player, candidateSeat int) bool {
	for _, inst := range m.instances {
		if inst.owner != owner.Seat || inst.def.ModifyTargetEligibility == nil {
			continue
		}
		if inst.def.ModifyTargetEligibility(g, owner, candidateSeat) {
			return true
		}
	}
	return false
}

// VirtualCardProposal is a skill-offered substitute for a literal hand card
// in a response window (spec.md §4.6, e.g. "treat a spade-hand-card as a
// Dodge").
type VirtualCardProposal struct {
	SkillID string
	CardID  model.CardID
	ActsAs  model.CardSubType
}

// ProposeVirtualCards asks every skill owned by responder whether it offers
// a virtual substitute for wantSubType, so the response window can present
// them alongside literal candidates (spec.md §4.6).
func (m *Manager) ProposeVirtualCards(g *model.Game, responder *model.Player, wantSubType model.CardSubType) []VirtualCardProposal {
	var out []VirtualCardProposal
	for _, inst := range m.instances {
		if inst.owner != responder.Seat || inst.def.VirtualCard == nil {
			continue
		}
		if p, ok := inst.def.VirtualCard(g, responder, wantSubType); ok {
			out = append(out, p)
		}
	}
	return out
}
