// Package identity implements role assignment, character selection, and
// win-condition checking (spec.md §1 "game-mode glue", §4.8 "Character
// definitions"). Grounded on the teacher's Duel setup flow
// (internal/game/duel.go NewDuel), which assigns per-seat state up front and
// then runs the match to a fixed win condition — generalized here to an
// externally-supplied role map and an injected character catalog instead of
// the teacher's hardcoded two-player duel.
package identity

import (
	"github.com/sanguo/engine/internal/catalog"
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/skill"
)

// AssignIdentities sets each player's Role from roles (seat -> RoleID),
// publishes IdentitiesAssigned, and immediately reveals the lord
// (spec.md §4.8: lord revealed on assignment, other roles hidden until a
// skill or death reveals them).
func AssignIdentities(g *model.Game, bus *event.Bus, roles map[int]model.RoleID) {
	for seat, role := range roles {
		if p := g.Player(seat); p != nil {
			p.Role = role
		}
	}
	event.Publish(bus, event.IdentitiesAssigned{Base: bus.Stamp(), Roles: roles})

	for seat, role := range roles {
		if role == model.RoleLord {
			event.Publish(bus, event.LordRevealed{Base: bus.Stamp(), Seat: seat})
			return
		}
	}
}

// SkillRegistry resolves a skill id to its Definition. Separate from
// catalog.CharacterCatalog because a skill definition carries live hook
// closures, not just static metadata — implementations are Go code, not
// data files.
type SkillRegistry interface {
	Lookup(skillID string) (skill.Definition, bool)
}

// Offer publishes the set of candidate character ids available to seat
// (spec.md §4.8: "The selection service offers candidates per seat").
func Offer(bus *event.Bus, seat int, candidates []catalog.CharacterDefinition) {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.CharacterID)
	}
	event.Publish(bus, event.CharactersOffered{Base: bus.Stamp(), Seat: seat, CharacterIDs: ids})
}

// Select binds characterID to seat: it copies HeroID/Gender/MaxHealth
// (resetting CurrentHealth to the new max) from characters, then registers
// every skill characters names via skills (spec.md §4.8: "binding creates the
// player's skills (lord skills are excluded unless the role is lord)" — the
// exclusion itself is enforced inside skill.Manager.Register, not here).
// Returns false if seat or characterID is unknown.
func Select(g *model.Game, bus *event.Bus, seat int, characterID string, characters catalog.CharacterCatalog, skills SkillRegistry, mgr *skill.Manager) bool {
	player := g.Player(seat)
	if player == nil {
		return false
	}
	def, ok := characters.LookupCharacter(characterID)
	if !ok {
		return false
	}

	player.HeroID = def.CharacterID
	player.Gender = def.Gender
	player.MaxHealth = def.MaxHP
	player.CurrentHealth = def.MaxHP
	if def.FactionID != "" {
		player.FactionID = def.FactionID
	}

	event.Publish(bus, event.CharacterSelected{Base: bus.Stamp(), Seat: seat, CharacterID: characterID})

	registered := make([]string, 0, len(def.Skills))
	for _, skillID := range def.Skills {
		sd, ok := skills.Lookup(skillID)
		if !ok {
			continue
		}
		if mgr.Register(g, player, sd) {
			registered = append(registered, skillID)
		}
	}
	if len(registered) > 0 {
		event.Publish(bus, event.SkillsRegistered{Base: bus.Stamp(), Seat: seat, SkillIDs: registered})
	}
	return true
}

// CheckWinCondition evaluates the standard lord/rebel/loyalist/renegade win
// condition (spec.md §4.8, implicit from the role set itself): the match ends
// the instant one side can no longer possibly contest it.
//
//   - Lord dead: rebels win (a renegade's goal requires the lord alive, so
//     the renegade loses along with the loyalists here).
//   - Lord alive, every rebel and renegade dead: lord and loyalists win.
//   - Lord alive, a renegade is the sole non-lord survivor (every rebel and
//     loyalist dead): the renegade wins alone.
//
// Returns (nil, false) while the match is undecided.
func CheckWinCondition(g *model.Game) (*model.WinnerDescriptor, bool) {
	var lord *model.Player
	var loyalistsAlive, rebelsAlive, renegadesAlive []int

	for _, p := range g.Players {
		switch p.Role {
		case model.RoleLord:
			if p.Alive {
				lord = p
			}
		case model.RoleLoyalist:
			if p.Alive {
				loyalistsAlive = append(loyalistsAlive, p.Seat)
			}
		case model.RoleRebel:
			if p.Alive {
				rebelsAlive = append(rebelsAlive, p.Seat)
			}
		case model.RoleRenegade:
			if p.Alive {
				renegadesAlive = append(renegadesAlive, p.Seat)
			}
		}
	}

	if lord == nil {
		return &model.WinnerDescriptor{Winners: rebelsAlive, Reason: "LORD_SLAIN"}, true
	}

	if len(rebelsAlive) == 0 && len(renegadesAlive) == 0 {
		winners := append([]int{lord.Seat}, loyalistsAlive...)
		return &model.WinnerDescriptor{Winners: winners, Reason: "REBELLION_CRUSHED"}, true
	}

	if len(renegadesAlive) == 1 && len(rebelsAlive) == 0 && len(loyalistsAlive) == 0 {
		return &model.WinnerDescriptor{Winners: renegadesAlive, Reason: "RENEGADE_LAST_STANDING"}, true
	}

	return nil, false
}
