package event_test

import (
	"testing"
	"time"

	"github.com/sanguo/engine/internal/clock"
	"github.com/sanguo/engine/internal/event"
)

func newTestBus() *event.Bus {
	return event.NewBus(1, clock.FixedClock{At: time.Unix(0, 0)}, nil)
}

func TestSubscribeOrdering(t *testing.T) {
	bus := newTestBus()
	var order []string

	event.Subscribe(bus, 2, func(e event.TurnStart) { order = append(order, "seat2-a") })
	event.Subscribe(bus, 0, func(e event.TurnStart) { order = append(order, "seat0") })
	event.Subscribe(bus, 2, func(e event.TurnStart) { order = append(order, "seat2-b") })
	event.Subscribe(bus, 1, func(e event.TurnStart) { order = append(order, "seat1") })

	event.Publish(bus, event.TurnStart{Base: bus.Stamp(), Seat: 0, Turn: 1})

	want := []string{"seat0", "seat1", "seat2-a", "seat2-b"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestUnsubscribeRemovesHandler(t *testing.T) {
	bus := newTestBus()
	calls := 0
	sub := event.Subscribe(bus, 0, func(e event.TurnStart) { calls++ })
	event.Publish(bus, event.TurnStart{Base: bus.Stamp(), Seat: 0, Turn: 1})
	bus.Unsubscribe(sub)
	event.Publish(bus, event.TurnStart{Base: bus.Stamp(), Seat: 0, Turn: 2})
	if calls != 1 {
		t.Fatalf("expected 1 call before unsubscribe, got %d", calls)
	}
}

func TestHandlerPanicIsolatedAndReported(t *testing.T) {
	bus := newTestBus()
	sink := &event.RecordingSink{}
	bus2 := event.NewBus(1, clock.FixedClock{}, sink)

	event.Subscribe(bus2, 0, func(e event.TurnStart) { panic("boom") })
	ranAfter := false
	event.Subscribe(bus2, 1, func(e event.TurnStart) { ranAfter = true })

	event.Publish(bus2, event.TurnStart{Base: bus2.Stamp(), Seat: 0, Turn: 1})

	if !ranAfter {
		t.Fatal("expected later subscriber to still run after an earlier panic")
	}
	if len(sink.Panics) != 1 {
		t.Fatalf("expected 1 recorded panic, got %d", len(sink.Panics))
	}
	_ = bus
}

func TestObserveSeesEveryType(t *testing.T) {
	bus := newTestBus()
	var seen []string
	bus.Observe(func(e event.Event) { seen = append(seen, eventTypeName(e)) })

	event.Publish(bus, event.TurnStart{Base: bus.Stamp(), Seat: 0, Turn: 1})
	event.Publish(bus, event.PhaseStart{Base: bus.Stamp(), Seat: 0})

	if len(seen) != 2 {
		t.Fatalf("expected observer to see both publishes, got %v", seen)
	}
}

func eventTypeName(e event.Event) string {
	switch e.(type) {
	case event.TurnStart:
		return "TurnStart"
	case event.PhaseStart:
		return "PhaseStart"
	default:
		return "other"
	}
}

func TestPublishModifiersFoldsAdditively(t *testing.T) {
	bus := newTestBus()
	event.SubscribeModifier(bus, 0, func(e event.BeforeDamage) int { return 1 })
	event.SubscribeModifier(bus, 1, func(e event.BeforeDamage) int { return 2 })

	total := event.PublishModifiers(bus, event.BeforeDamage{Base: bus.Stamp(), Target: 0, Amount: 1}, 0, event.AdditiveInt)
	if total != 3 {
		t.Fatalf("expected additive fold of 3, got %d", total)
	}
}

func TestPublishModifiersFoldsOrBool(t *testing.T) {
	bus := newTestBus()
	event.SubscribeModifier(bus, 0, func(e event.BeforeDamage) bool { return false })
	event.SubscribeModifier(bus, 1, func(e event.BeforeDamage) bool { return true })

	prevented := event.PublishModifiers(bus, event.BeforeDamage{Base: bus.Stamp(), Target: 0, Amount: 1}, false, event.OrBool)
	if !prevented {
		t.Fatal("expected OR fold to be true when any handler returns true")
	}
}
