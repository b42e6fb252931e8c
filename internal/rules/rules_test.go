package rules_test

import (
	"testing"
	"time"

	"github.com/sanguo/engine/internal/clock"
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/rules"
)

func fourPlayerGame() *model.Game {
	g := model.NewGame(1)
	g.Players = make([]*model.Player, 4)
	for i := 0; i < 4; i++ {
		p := model.NewPlayer(i, 4)
		g.Players[i] = p
		g.Zones[p.HandZone] = model.NewZone(p.HandZone, &p.Seat, false)
		g.Zones[p.EquipZone] = model.NewZone(p.EquipZone, &p.Seat, true)
	}
	g.CurrentSeat = 0
	g.CurrentPhase = model.PhasePlay
	return g
}

func TestPhaseRuleRejectsWrongPhase(t *testing.T) {
	g := fourPlayerGame()
	g.CurrentPhase = model.PhaseDraw
	res := rules.PhaseRule(rules.RuleContext{Game: g, Actor: g.Player(0), Action: rules.ActionUseSlash})
	if res.Allowed || res.ErrorCode != rules.ErrWrongPhase {
		t.Fatalf("expected WRONG_PHASE rejection, got %+v", res)
	}
}

func TestPhaseRuleRejectsWrongSeat(t *testing.T) {
	g := fourPlayerGame()
	res := rules.PhaseRule(rules.RuleContext{Game: g, Actor: g.Player(1), Action: rules.ActionUseSlash})
	if res.Allowed || res.ErrorCode != rules.ErrWrongPhase {
		t.Fatalf("expected WRONG_PHASE rejection for off-turn actor, got %+v", res)
	}
}

func TestPhaseRuleAlwaysAllowsResponses(t *testing.T) {
	g := fourPlayerGame()
	g.CurrentPhase = model.PhaseDiscard
	res := rules.PhaseRule(rules.RuleContext{Game: g, Actor: g.Player(2), Action: rules.ActionRespondDodge})
	if !res.Allowed {
		t.Fatalf("expected response actions to bypass the phase/seat check, got %+v", res)
	}
}

func TestRangeRuleBaseDistance(t *testing.T) {
	g := fourPlayerGame()
	actor, adjacent, opposite := g.Player(0), g.Player(1), g.Player(2)
	ctx := rules.RuleContext{Game: g, Actor: actor, Action: rules.ActionUseSlash}

	if res := rules.RangeRule(ctx, g, actor, adjacent, nil); !res.Allowed {
		t.Fatalf("adjacent seat should be in range, got %+v", res)
	}
	res := rules.RangeRule(ctx, g, actor, opposite, nil)
	if res.Allowed {
		t.Fatalf("seat at distance 2 should be out of range with no modifiers")
	}
	if res.ErrorCode != rules.ErrOutOfRange {
		t.Fatalf("expected OUT_OF_RANGE, got %+v", res)
	}
}

func TestRangeRuleOffensiveHorseExtendsReach(t *testing.T) {
	g := fourPlayerGame()
	actor, opposite := g.Player(0), g.Player(2)
	g.Cards[100] = &model.Card{ID: 100, SubType: model.SubTypeOffensiveHorse}
	g.Zone(actor.EquipZone).Insert([]model.CardID{100}, model.ToBottom)

	ctx := rules.RuleContext{Game: g, Actor: actor, Action: rules.ActionUseSlash}
	if res := rules.RangeRule(ctx, g, actor, opposite, nil); !res.Allowed {
		t.Fatalf("offensive horse should bring distance-2 seat into range, got %+v", res)
	}
}

func TestRangeRuleDefensiveHorseExtendsTargetDistance(t *testing.T) {
	g := fourPlayerGame()
	actor, adjacent := g.Player(0), g.Player(1)
	g.Cards[101] = &model.Card{ID: 101, SubType: model.SubTypeDefensiveHorse}
	g.Zone(adjacent.EquipZone).Insert([]model.CardID{101}, model.ToBottom)

	ctx := rules.RuleContext{Game: g, Actor: actor, Action: rules.ActionUseSlash}
	if res := rules.RangeRule(ctx, g, actor, adjacent, nil); res.Allowed {
		t.Fatalf("defensive horse should push an adjacent target out of base range")
	}
}

func TestRangeRuleSkillModifierExtendsRange(t *testing.T) {
	g := fourPlayerGame()
	actor, opposite := g.Player(0), g.Player(2)
	ctx := rules.RuleContext{Game: g, Actor: actor, Action: rules.ActionUseSlash}
	mods := []rules.IntModifierProvider{func(rules.RuleContext) int { return 1 }}
	if res := rules.RangeRule(ctx, g, actor, opposite, mods); !res.Allowed {
		t.Fatalf("a +1 range modifier should bring distance-2 into reach, got %+v", res)
	}
}

func TestLimitRuleCapsAtBaseWithNoModifiers(t *testing.T) {
	g := fourPlayerGame()
	actor := g.Player(0)
	ctx := rules.RuleContext{Game: g, Actor: actor, Action: rules.ActionUseSlash}

	actor.SetFlag("slashCountThisTurn", 1)
	res := rules.LimitRule(ctx, actor, model.SubTypeSlash, "slashCountThisTurn", 1, nil)
	if res.Allowed || res.ErrorCode != rules.ErrLimitExceeded {
		t.Fatalf("expected LIMIT_EXCEEDED once the base cap is reached, got %+v", res)
	}
}

func TestLimitRuleModifierRaisesCap(t *testing.T) {
	g := fourPlayerGame()
	actor := g.Player(0)
	ctx := rules.RuleContext{Game: g, Actor: actor, Action: rules.ActionUseSlash}
	actor.SetFlag("slashCountThisTurn", 1)

	mods := []rules.IntModifierProvider{func(rules.RuleContext) int { return 1 }}
	res := rules.LimitRule(ctx, actor, model.SubTypeSlash, "slashCountThisTurn", 1, mods)
	if !res.Allowed {
		t.Fatalf("a +1 limit modifier should allow a second use this turn, got %+v", res)
	}
}

func TestOwnershipRule(t *testing.T) {
	g := fourPlayerGame()
	actor := g.Player(0)
	g.Cards[1] = &model.Card{ID: 1, SubType: model.SubTypeSlash}
	g.Zone(actor.HandZone).Insert([]model.CardID{1}, model.ToBottom)

	if res := rules.OwnershipRule(g, actor, 1); !res.Allowed {
		t.Fatalf("card 1 is in hand, expected allowed, got %+v", res)
	}
	if res := rules.OwnershipRule(g, actor, 2); res.Allowed || res.ErrorCode != rules.ErrNotOwned {
		t.Fatalf("card 2 is not in hand, expected NOT_OWNED, got %+v", res)
	}
}

func TestComposeShortCircuitsOnFirstRejection(t *testing.T) {
	ok := rules.RuleResult{Allowed: true}
	reject := rules.RuleResult{Allowed: false, ErrorCode: rules.ErrOutOfRange}
	neverReached := rules.RuleResult{Allowed: false, ErrorCode: rules.ErrLimitExceeded}

	res := rules.Compose(ok, reject, neverReached)
	if res.ErrorCode != rules.ErrOutOfRange {
		t.Fatalf("expected the first rejection to win, got %+v", res)
	}
}

func TestTargetFilterVetoOverridesBase(t *testing.T) {
	ctx := rules.RuleContext{}
	alwaysTrue := func(int) bool { return true }
	veto := []rules.VetoModifierProvider{func(rules.RuleContext, int) bool { return true }}

	if rules.TargetFilter(ctx, 1, alwaysTrue, veto) {
		t.Fatal("a veto modifier should override an otherwise-passing base predicate")
	}
	if !rules.TargetFilter(ctx, 1, alwaysTrue, nil) {
		t.Fatal("with no vetoes the base predicate should decide")
	}
}

func TestRequiredDodgesFoldsModifiers(t *testing.T) {
	bus := event.NewBus(1, clock.FixedClock{At: time.Unix(0, 0)}, nil)
	event.SubscribeModifier(bus, 1, func(q rules.RequiredDodgesQuery) int { return 1 })

	n := rules.RequiredDodges(bus, 0, 1, 5)
	if n != 2 {
		t.Fatalf("expected base 1 + modifier 1 = 2, got %d", n)
	}
}

func TestRequiredDodgesDefaultsToOne(t *testing.T) {
	bus := event.NewBus(1, clock.FixedClock{At: time.Unix(0, 0)}, nil)
	if n := rules.RequiredDodges(bus, 0, 1, 5); n != 1 {
		t.Fatalf("expected default of 1 with no modifiers, got %d", n)
	}
}
