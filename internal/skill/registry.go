package skill

import (
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
)

// StaticRegistry is an in-memory skill-id -> Definition lookup, analogous to
// the teacher's hardcoded per-card CardEffect literals (internal/game/effect.go)
// but keyed by id instead of compiled into a card type switch. identity.Select
// consumes it through the identity.SkillRegistry interface.
type StaticRegistry map[string]Definition

// Lookup satisfies identity.SkillRegistry.
func (r StaticRegistry) Lookup(skillID string) (Definition, bool) {
	d, ok := r[skillID]
	return d, ok
}

// DefaultSkills is a small illustrative set of Locked/Trigger skills covering
// the draw-count, Slash-cap, attack-distance, target-veto and Attach hooks,
// enough to exercise the skill manager and the rule/response layers end to
// end. No
// entry sets VirtualCard or Detach.
var DefaultSkills = StaticRegistry{
	// jianxiong ("Unscrupulous"): whenever this player takes a card from a
	// dying player's discard step, one extra draw. Modeled here as a flat
	// locked draw bonus for simplicity.
	"jianxiong": {
		ID:           "jianxiong",
		Kind:         KindLocked,
		Capabilities: ModifiesRules,
		ModifyDrawCount: func(g *model.Game, owner *model.Player) int {
			return 1
		},
	},
	// mashu ("Wild Horse"): treats the owner as one tile closer to every
	// target when attacking.
	"mashu": {
		ID:           "mashu",
		Kind:         KindLocked,
		Capabilities: ModifiesRules,
		ModifyAttackDistance: func(g *model.Game, owner, target *model.Player) int {
			return -1
		},
	},
	// tuxi ("Onslaught"): on the user's own turn, one extra Slash is allowed.
	"tuxi": {
		ID:           "tuxi",
		Kind:         KindLocked,
		Capabilities: ModifiesRules,
		ModifyMaxSlashPerTurn: func(g *model.Game, owner *model.Player) int {
			if g.CurrentSeat == owner.Seat {
				return 1
			}
			return 0
		},
	},
	// guicai ("Ghostly Deduction"): owner cannot choose a target seated more
	// than one tile away (an illustrative veto, not a direct
	// port of any single real skill).
	"guicai": {
		ID:           "guicai",
		Kind:         KindLocked,
		Capabilities: ModifiesRules,
		ModifyTargetEligibility: func(g *model.Game, owner *model.Player, candidateSeat int) bool {
			return g.SeatDistance(owner.Seat, candidateSeat) > 1
		},
	},
	// ganglie ("Tyranny"): trigger skill — whenever owner takes normal damage,
	// the damage source must discard or take 1 damage in return. Modeled here
	// with a minimal AfterDamage subscription that only logs; full forced
	// response is out of scope for the illustrative set.
	"ganglie": {
		ID:           "ganglie",
		Kind:         KindTrigger,
		Capabilities: IntervenesResolution,
		Attach: func(g *model.Game, owner *model.Player, bus *event.Bus) []event.Subscription {
			sub := event.Subscribe(bus, owner.Seat, func(e event.AfterDamage) {
				// Illustrative hook point; a full implementation would push a
				// forced discard-or-damage resolver onto the stack here.
			})
			return []event.Subscription{sub}
		},
	},
}
