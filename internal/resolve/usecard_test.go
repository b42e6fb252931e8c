package resolve_test

import (
	"testing"
	"time"

	"github.com/sanguo/engine/internal/clock"
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/resolve"
	"github.com/sanguo/engine/internal/rules"
)

func twoPlayerContext() (*resolve.Context, *model.Game) {
	g := model.NewGame(1)
	g.Players = make([]*model.Player, 2)
	for i := 0; i < 2; i++ {
		p := model.NewPlayer(i, 4)
		g.Players[i] = p
		g.Zones[p.HandZone] = model.NewZone(p.HandZone, &p.Seat, false)
		g.Zones[p.EquipZone] = model.NewZone(p.EquipZone, &p.Seat, true)
	}
	g.CurrentSeat = 0
	g.CurrentPhase = model.PhasePlay
	bus := event.NewBus(1, clock.FixedClock{At: time.Unix(0, 0)}, nil)
	return &resolve.Context{Game: g, Services: &resolve.Services{Bus: bus}}, g
}

func TestUseCardResolverRejectsUnownedCard(t *testing.T) {
	ctx, g := twoPlayerContext()
	g.Cards[1] = &model.Card{ID: 1, SubType: model.SubTypeSlash}
	// card 1 deliberately left out of seat 0's hand

	r := &resolve.UseCardResolver{Actor: 0, CardID: 1, SubType: model.SubTypeSlash, Targets: []int{1}, UsedFlag: "slashCountThisTurn", BaseLimit: 1}
	step := r.Resolve(ctx)
	if step.Kind != resolve.StepDone || step.Result.Success {
		t.Fatalf("expected a failure result, got %+v", step)
	}
	if step.Result.ErrorCode != rules.ErrNotOwned {
		t.Fatalf("expected NOT_OWNED, got %s", step.Result.ErrorCode)
	}
}

func TestUseCardResolverRejectsWrongPhase(t *testing.T) {
	ctx, g := twoPlayerContext()
	g.CurrentPhase = model.PhaseDraw
	g.Cards[1] = &model.Card{ID: 1, SubType: model.SubTypeSlash}
	g.Zone(g.Player(0).HandZone).Insert([]model.CardID{1}, model.ToBottom)

	r := &resolve.UseCardResolver{Actor: 0, CardID: 1, SubType: model.SubTypeSlash, Targets: []int{1}, UsedFlag: "slashCountThisTurn", BaseLimit: 1}
	step := r.Resolve(ctx)
	if step.Result.ErrorCode != rules.ErrWrongPhase {
		t.Fatalf("expected WRONG_PHASE, got %+v", step)
	}
}

func TestUseCardResolverRejectsLimitExceeded(t *testing.T) {
	ctx, g := twoPlayerContext()
	g.Cards[1] = &model.Card{ID: 1, SubType: model.SubTypeSlash}
	g.Zone(g.Player(0).HandZone).Insert([]model.CardID{1}, model.ToBottom)
	g.Player(0).SetFlag("slashCountThisTurn", 1)

	r := &resolve.UseCardResolver{Actor: 0, CardID: 1, SubType: model.SubTypeSlash, Targets: []int{1}, UsedFlag: "slashCountThisTurn", BaseLimit: 1}
	step := r.Resolve(ctx)
	if step.Result.ErrorCode != rules.ErrLimitExceeded {
		t.Fatalf("expected LIMIT_EXCEEDED, got %+v", step)
	}
}

func TestUseCardResolverRejectsDeadTarget(t *testing.T) {
	ctx, g := twoPlayerContext()
	g.Cards[1] = &model.Card{ID: 1, SubType: model.SubTypeSlash}
	g.Zone(g.Player(0).HandZone).Insert([]model.CardID{1}, model.ToBottom)
	g.Player(1).Alive = false

	r := &resolve.UseCardResolver{Actor: 0, CardID: 1, SubType: model.SubTypeSlash, Targets: []int{1}, UsedFlag: "slashCountThisTurn", BaseLimit: 1}
	step := r.Resolve(ctx)
	if step.Result.ErrorCode != rules.ErrTargetRejected {
		t.Fatalf("expected TARGET_REJECTED for a dead target, got %+v", step)
	}
}

func TestUseCardResolverDispatchesOnSuccess(t *testing.T) {
	ctx, g := twoPlayerContext()
	g.Cards[1] = &model.Card{ID: 1, SubType: model.SubTypeSlash}
	g.Zone(g.Player(0).HandZone).Insert([]model.CardID{1}, model.ToBottom)

	r := &resolve.UseCardResolver{Actor: 0, CardID: 1, SubType: model.SubTypeSlash, Targets: []int{1}, UsedFlag: "slashCountThisTurn", BaseLimit: 1}
	step := r.Resolve(ctx)
	if step.Kind != resolve.StepContinue {
		t.Fatalf("expected the resolver to dispatch into a child frame, got %+v", step)
	}
	if len(step.Push) != 1 || step.Push[0].TypeName() != "SlashResolver" {
		t.Fatalf("expected a pushed SlashResolver, got %+v", step.Push)
	}
	if g.Player(0).IntFlag("slashCountThisTurn") != 1 {
		t.Fatal("expected the per-turn usage flag to be incremented")
	}

	// Re-entry after dispatch should just complete.
	again := r.Resolve(ctx)
	if again.Kind != resolve.StepDone || !again.Result.Success {
		t.Fatalf("expected the resolver to be a no-op on re-entry, got %+v", again)
	}
}
