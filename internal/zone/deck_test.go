package zone_test

import (
	"testing"
	"time"

	"github.com/sanguo/engine/internal/clock"
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/zone"
)

// stubRand returns 0 every time, so the shuffle is a fixed permutation
// ([2, 3] becomes [3, 2]); deck order tests only need determinism, not
// randomness quality.
type stubRand struct{}

func (stubRand) IntN(n int) int { return 0 }

func newTestDeckManager() (*model.Game, *event.Bus, *zone.Service, *zone.DeckManager) {
	g := model.NewGame(1)
	g.Zones[model.ZoneDrawPile] = model.NewZone(model.ZoneDrawPile, nil, false)
	g.Zones[model.ZoneDiscardPile] = model.NewZone(model.ZoneDiscardPile, nil, true)
	bus := event.NewBus(1, clock.FixedClock{At: time.Unix(0, 0)}, nil)
	svc := zone.NewService(bus)
	return g, bus, svc, zone.NewDeckManager(stubRand{}, svc)
}

func TestDeckManagerDrawWithinDrawPile(t *testing.T) {
	g, _, _, dm := newTestDeckManager()
	g.Zone(model.ZoneDrawPile).Insert([]model.CardID{1, 2, 3}, model.ToBottom)

	ids, err := dm.Draw(g, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("expected [1 2], got %v", ids)
	}
}

func TestDeckManagerReshufflesDiscardOnExhaustion(t *testing.T) {
	g, bus, _, dm := newTestDeckManager()
	g.Zone(model.ZoneDrawPile).Insert([]model.CardID{1}, model.ToBottom)
	g.Zone(model.ZoneDiscardPile).Insert([]model.CardID{2, 3}, model.ToBottom)

	var moved []event.CardMoved
	event.Subscribe(bus, 0, func(ev event.CardMoved) { moved = append(moved, ev) })

	ids, err := dm.Draw(g, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected to be able to draw 3 after reshuffle, got %v", ids)
	}
	if g.Zone(model.ZoneDiscardPile).Len() != 0 {
		t.Fatal("discard pile should be emptied by the reshuffle")
	}
	if len(moved) != 2 {
		t.Fatalf("expected the reshuffle to publish a Before/After CardMoved pair, got %d", len(moved))
	}
	if moved[0].SourceZone != model.ZoneDiscardPile || moved[0].TargetZone != model.ZoneDrawPile {
		t.Fatalf("expected a DiscardPile->DrawPile CardMoved, got %+v", moved[0])
	}
	if moved[0].Reason != event.ReasonReshuffle {
		t.Fatalf("expected ReasonReshuffle, got %v", moved[0].Reason)
	}
}

func TestDeckManagerExhaustionReturnsShort(t *testing.T) {
	g, _, _, dm := newTestDeckManager()
	g.Zone(model.ZoneDrawPile).Insert([]model.CardID{1}, model.ToBottom)

	ids, err := dm.Draw(g, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected only 1 card available, got %v", ids)
	}
}

func TestDeckManagerDrawZeroIsNoop(t *testing.T) {
	g, _, _, dm := newTestDeckManager()
	ids, err := dm.Draw(g, 0)
	if err != nil || ids != nil {
		t.Fatalf("expected nil, nil; got %v, %v", ids, err)
	}
}
