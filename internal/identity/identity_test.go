package identity_test

import (
	"testing"
	"time"

	"github.com/sanguo/engine/internal/catalog"
	"github.com/sanguo/engine/internal/clock"
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/identity"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/skill"
)

type fakeCharacterCatalog struct {
	defs map[string]catalog.CharacterDefinition
}

func (f fakeCharacterCatalog) Candidates() []catalog.CharacterDefinition {
	out := make([]catalog.CharacterDefinition, 0, len(f.defs))
	for _, d := range f.defs {
		out = append(out, d)
	}
	return out
}

func (f fakeCharacterCatalog) LookupCharacter(id string) (catalog.CharacterDefinition, bool) {
	d, ok := f.defs[id]
	return d, ok
}

type fakeSkillRegistry struct {
	defs map[string]skill.Definition
}

func (f fakeSkillRegistry) Lookup(id string) (skill.Definition, bool) {
	d, ok := f.defs[id]
	return d, ok
}

func newIdentityGame(n int) (*model.Game, *event.Bus) {
	g := model.NewGame(1)
	g.Players = make([]*model.Player, n)
	for i := 0; i < n; i++ {
		g.Players[i] = model.NewPlayer(i, 4)
	}
	bus := event.NewBus(1, clock.FixedClock{At: time.Unix(0, 0)}, nil)
	return g, bus
}

func TestAssignIdentitiesRevealsLord(t *testing.T) {
	g, bus := newIdentityGame(4)
	var revealed []int
	event.Subscribe(bus, 0, func(e event.LordRevealed) { revealed = append(revealed, e.Seat) })

	identity.AssignIdentities(g, bus, map[int]model.RoleID{
		0: model.RoleLord,
		1: model.RoleRebel,
		2: model.RoleLoyalist,
		3: model.RoleRenegade,
	})

	if g.Player(0).Role != model.RoleLord {
		t.Fatalf("expected seat 0 to be lord, got %v", g.Player(0).Role)
	}
	if len(revealed) != 1 || revealed[0] != 0 {
		t.Fatalf("expected lord reveal for seat 0, got %v", revealed)
	}
}

func TestSelectBindsCharacterAndSkills(t *testing.T) {
	g, bus := newIdentityGame(2)
	mgr := skill.NewManager(bus)

	registered := false
	skillDef := skill.Definition{ID: "testSkill", Attach: func(g *model.Game, owner *model.Player, bus *event.Bus) []event.Subscription {
		registered = true
		return nil
	}}
	chars := fakeCharacterCatalog{defs: map[string]catalog.CharacterDefinition{
		"hero.a": {CharacterID: "hero.a", Gender: model.GenderMale, MaxHP: 5, Skills: []string{"testSkill"}},
	}}
	skills := fakeSkillRegistry{defs: map[string]skill.Definition{"testSkill": skillDef}}

	var skillsRegisteredEvt []string
	event.Subscribe(bus, 0, func(e event.SkillsRegistered) { skillsRegisteredEvt = e.SkillIDs })

	ok := identity.Select(g, bus, 0, "hero.a", chars, skills, mgr)
	if !ok {
		t.Fatal("expected Select to succeed for a known character")
	}
	p := g.Player(0)
	if p.MaxHealth != 5 || p.CurrentHealth != 5 || p.Gender != model.GenderMale {
		t.Fatalf("expected character stats bound, got %+v", p)
	}
	if !registered {
		t.Fatal("expected the character's skill to be attached")
	}
	if len(skillsRegisteredEvt) != 1 || skillsRegisteredEvt[0] != "testSkill" {
		t.Fatalf("expected SkillsRegistered event naming testSkill, got %v", skillsRegisteredEvt)
	}
}

func TestSelectUnknownCharacterFails(t *testing.T) {
	g, bus := newIdentityGame(2)
	mgr := skill.NewManager(bus)
	chars := fakeCharacterCatalog{defs: map[string]catalog.CharacterDefinition{}}
	skills := fakeSkillRegistry{defs: map[string]skill.Definition{}}

	if identity.Select(g, bus, 0, "nope", chars, skills, mgr) {
		t.Fatal("expected Select to fail for an unknown character id")
	}
}

func TestCheckWinConditionLordSlain(t *testing.T) {
	g, _ := newIdentityGame(4)
	g.Player(0).Role = model.RoleLord
	g.Player(0).Alive = false
	g.Player(1).Role = model.RoleRebel
	g.Player(2).Role = model.RoleLoyalist
	g.Player(3).Role = model.RoleRenegade

	winner, over := identity.CheckWinCondition(g)
	if !over || winner.Reason != "LORD_SLAIN" {
		t.Fatalf("expected LORD_SLAIN, got %+v over=%v", winner, over)
	}
}

func TestCheckWinConditionRebellionCrushed(t *testing.T) {
	g, _ := newIdentityGame(3)
	g.Player(0).Role = model.RoleLord
	g.Player(1).Role = model.RoleRebel
	g.Player(1).Alive = false
	g.Player(2).Role = model.RoleLoyalist

	winner, over := identity.CheckWinCondition(g)
	if !over || winner.Reason != "REBELLION_CRUSHED" {
		t.Fatalf("expected REBELLION_CRUSHED, got %+v over=%v", winner, over)
	}
}

func TestCheckWinConditionRenegadeLastStanding(t *testing.T) {
	g, _ := newIdentityGame(3)
	g.Player(0).Role = model.RoleLord
	g.Player(1).Role = model.RoleLoyalist
	g.Player(1).Alive = false
	g.Player(2).Role = model.RoleRenegade

	winner, over := identity.CheckWinCondition(g)
	if !over || winner.Reason != "RENEGADE_LAST_STANDING" {
		t.Fatalf("expected RENEGADE_LAST_STANDING, got %+v over=%v", winner, over)
	}
}

func TestCheckWinConditionUndecided(t *testing.T) {
	g, _ := newIdentityGame(4)
	g.Player(0).Role = model.RoleLord
	g.Player(1).Role = model.RoleRebel
	g.Player(2).Role = model.RoleLoyalist
	g.Player(3).Role = model.RoleRenegade

	_, over := identity.CheckWinCondition(g)
	if over {
		t.Fatal("expected the match to remain undecided with all factions alive")
	}
}
