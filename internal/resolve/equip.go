package resolve

import (
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/skill"
	"github.com/sanguo/engine/internal/zone"
)

// EquipResolver moves an equip card from the actor's hand into their
// equipment zone's matching sub-slot, discarding any card it replaces first
// and, when SkillFor is set, deregistering that card's skill (spec.md §4.5
// EquipResolver).
type EquipResolver struct {
	Owner   int
	CardID  model.CardID
	SubType model.CardSubType

	// SkillFor resolves the skill definition an equip card grants (keyed by
	// definition id, with an id-override allowed per spec.md §4.7) and the
	// skill id a prior occupant of the same slot should be deregistered
	// under. When nil, no equipment skill is registered or deregistered.
	// UseCardResolver's dispatch builds EquipResolver without it, so equip
	// cards used through the engine grant no skill.
	SkillFor func(card *model.Card) (def skill.Definition, ok bool)

	replacedPrior bool
}

func (r *EquipResolver) TypeName() string { return "EquipResolver" }

func (r *EquipResolver) Resolve(ctx *Context) Step {
	g := ctx.Game
	owner := g.Player(r.Owner)
	if owner == nil {
		return Done(Failure("INVALID_STATE", "unknown equip owner"))
	}
	slot := r.SubType.Slot()
	equipZone := g.Zone(owner.EquipZone)

	if !r.replacedPrior {
		r.replacedPrior = true
		for _, id := range append([]model.CardID{}, equipZone.Cards...) {
			c := g.Card(id)
			if c == nil || c.SubType.Slot() != slot {
				continue
			}
			if err := ctx.Services.Zone.Move(g, zone.Descriptor{
				Source: owner.EquipZone, Target: model.ZoneDiscardPile,
				Cards: []model.CardID{id}, Reason: event.ReasonDiscard, Ordering: model.ToTop,
			}); err != nil {
				return Done(Failure("INVALID_STATE", "equip replacement discard failed"))
			}
			if r.SkillFor != nil {
				if def, ok := r.SkillFor(c); ok {
					ctx.Services.Skills.Unregister(g, owner, def.ID)
				}
			}
		}
	}

	if err := ctx.Services.Zone.Move(g, zone.Descriptor{
		Source: owner.HandZone, Target: owner.EquipZone,
		Cards: []model.CardID{r.CardID}, Reason: event.ReasonEquip, Ordering: model.ToTop,
	}); err != nil {
		return Done(Failure("INVALID_STATE", "equip move failed"))
	}

	if r.SkillFor != nil {
		if def, ok := r.SkillFor(g.Card(r.CardID)); ok {
			ctx.Services.Skills.Register(g, owner, def)
		}
	}

	return Done(Success())
}
