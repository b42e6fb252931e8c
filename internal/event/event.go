// Package event implements the synchronous, single-threaded event bus that is
// the sole skill-interposition surface (spec.md §4.7). It is modeled after
// the teacher's log.GameEvent/EventLogger pair (internal/log/event.go), but
// reworked per Design Notes §9 "Mutable event payloads": instead of public
// settable fields on a shared event struct, a mutable-style event carries a
// Modifier that subscribers return, and the bus folds all returned modifiers
// (additive for numeric fields, OR for boolean prevention) before applying
// the result — no shared mutable state survives a single publish.
package event

import (
	"reflect"
	"time"

	"github.com/sanguo/engine/internal/clock"
)

// Base is embedded in every concrete event type. It carries the owning
// game's opaque arena handle rather than a back-reference (Design Notes §9
// "Cycle-free object graph"), plus the injected-clock timestamp.
type Base struct {
	GameHandle int
	Timestamp  time.Time
}

func (b Base) eventBase() Base { return b }

// Event is the marker interface every published event type implements by
// embedding Base.
type Event interface {
	eventBase() Base
}

// Handler receives every event of the type it was subscribed for.
type Handler[E Event] func(E)

// handlerEntry carries enough to support unsubscribe and seat-based ordering
// without needing reflection on the stored handler itself.
type handlerEntry struct {
	ownerSeat int
	seq       int // registration order, for deterministic tie-breaking
	fn        any // Handler[E], invoked via a closure captured at Subscribe time
	call      func(Event)
	id        int
}

// DiagnosticSink receives handler panics so a buggy skill cannot take down
// the match (spec.md §4.7, §7). ZapSink (event/zap_sink.go) wraps a
// structured logger; NewBus falls back to a NoopSink when given nil, and
// tests may use a NoopSink or a RecordingSink.
type DiagnosticSink interface {
	HandlerPanic(eventType string, recovered any)
}

// NoopSink discards diagnostics. Useful in tests that don't care.
type NoopSink struct{}

func (NoopSink) HandlerPanic(string, any) {}

// RecordingSink records every panic it is handed, for test assertions.
type RecordingSink struct {
	Panics []string
}

func (r *RecordingSink) HandlerPanic(eventType string, recovered any) {
	r.Panics = append(r.Panics, eventType)
	_ = recovered
}

// Bus is the synchronous event dispatcher. It has no reentrancy protection
// beyond exception isolation (spec.md §5) — publishing from inside a handler
// is allowed and simply recurses.
type Bus struct {
	clock      clock.Clock
	sink       DiagnosticSink
	gameHandle int
	nextID     int
	nextSeq    int
	subs       map[reflect.Type][]*handlerEntry

	mods       map[modKey][]*modifierEntry
	modNextID  int
	modNextSeq int

	// observers run on every Publish regardless of concrete type — the
	// replay/event-log sink's hook point, since typed Subscribe[E] can only
	// ever see one event type at a time.
	observers []func(Event)
}

// Observe registers fn to run on every subsequently published event,
// regardless of concrete type (e.g. replaylog.Logger). Unlike Subscribe,
// observers cannot be unsubscribed — they are meant for whole-match sinks
// that live as long as the bus does.
func (b *Bus) Observe(fn func(Event)) {
	b.observers = append(b.observers, fn)
}

// modKey distinguishes modifier subscriptions by both the event type and the
// modifier value type, since the same event could in principle be paired
// with more than one modifier shape.
type modKey struct {
	t reflect.Type
	m reflect.Type
}

func typeOfM[M any]() reflect.Type {
	var zero M
	return reflect.TypeOf(zero)
}

// NewBus constructs a bus for one game. clk stamps every published event;
// sink receives any handler panic. If sink is nil, NoopSink is used.
func NewBus(gameHandle int, clk clock.Clock, sink DiagnosticSink) *Bus {
	if sink == nil {
		sink = NoopSink{}
	}
	return &Bus{
		clock:      clk,
		sink:       sink,
		gameHandle: gameHandle,
		subs:       make(map[reflect.Type][]*handlerEntry),
	}
}

func typeOf[E Event]() reflect.Type {
	var zero E
	return reflect.TypeOf(zero)
}

// Subscription identifies a registered handler so it can later be removed.
type Subscription struct {
	t  reflect.Type
	id int
}

// Subscribe registers handler for events of type E, owned by ownerSeat (used
// purely for deterministic ordering — the skill manager is the only expected
// caller that cares about seat, but the bus itself doesn't gate on it).
// Subscriber invocation order is (ownerSeat ascending, registration order)
// per spec.md §4.7.
func Subscribe[E Event](b *Bus, ownerSeat int, handler Handler[E]) Subscription {
	t := typeOf[E]()
	b.nextID++
	b.nextSeq++
	entry := &handlerEntry{
		ownerSeat: ownerSeat,
		seq:       b.nextSeq,
		fn:        handler,
		id:        b.nextID,
		call: func(e Event) {
			handler(e.(E))
		},
	}
	b.subs[t] = insertSorted(b.subs[t], entry)
	return Subscription{t: t, id: entry.id}
}

func insertSorted(list []*handlerEntry, entry *handlerEntry) []*handlerEntry {
	list = append(list, entry)
	// Stable sort by (ownerSeat, seq) — small N per event type, insertion
	// sort is plenty and keeps the order spec.md §4.7 demands explicit.
	for i := len(list) - 1; i > 0; i-- {
		a, b := list[i-1], list[i]
		if a.ownerSeat < b.ownerSeat || (a.ownerSeat == b.ownerSeat && a.seq <= b.seq) {
			break
		}
		list[i-1], list[i] = list[i], list[i-1]
	}
	return list
}

// Unsubscribe removes a previously registered handler.
func (b *Bus) Unsubscribe(sub Subscription) {
	list := b.subs[sub.t]
	for i, e := range list {
		if e.id == sub.id {
			b.subs[sub.t] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Publish dispatches e to every subscriber of its concrete type, in
// (ownerSeat, registration order). A handler panic is caught, reported to
// the diagnostic sink, and does not stop later subscribers from firing
// (spec.md §4.7, §7).
func Publish[E Event](b *Bus, e E) {
	t := typeOf[E]()
	for _, entry := range b.subs[t] {
		invoke(b, t.String(), entry, e)
	}
	for _, obs := range b.observers {
		obs(e)
	}
}

func invoke(b *Bus, typeName string, entry *handlerEntry, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.sink.HandlerPanic(typeName, r)
		}
	}()
	entry.call(e)
}

// Stamp fills in Base.GameHandle/Base.Timestamp for a new event. Call sites
// construct the concrete event with Stamp(bus) embedded as its Base.
func (b *Bus) Stamp() Base {
	return Base{GameHandle: b.gameHandle, Timestamp: b.clock.Now()}
}
