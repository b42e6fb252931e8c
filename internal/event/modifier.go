package event

// A modifier-style event lets skills answer a yes/no or numeric question
// about an in-flight effect without ever exposing shared mutable fields
// (Design Notes §9). Subscribers registered via SubscribeModifier return a
// value of type M; PublishModifiers folds every response into one answer
// using the supplied fold function — additive for numeric modifiers, OR for
// boolean prevention, per spec.md §4.4 "Modifier composition".

type modifierEntry struct {
	ownerSeat int
	seq       int
	call      func(Event) any
	id        int
}

// SubscribeModifier registers a modifier handler for events of type E,
// returning values of type M.
func SubscribeModifier[E Event, M any](b *Bus, ownerSeat int, handler func(E) M) Subscription {
	if b.mods == nil {
		b.mods = make(map[modKey][]*modifierEntry)
	}
	t := typeOf[E]()
	key := modKey{t: t, m: typeOfM[M]()}
	b.modNextID++
	b.modNextSeq++
	entry := &modifierEntry{
		ownerSeat: ownerSeat,
		seq:       b.modNextSeq,
		id:        b.modNextID,
		call: func(e Event) any {
			return handler(e.(E))
		},
	}
	b.mods[key] = insertModSorted(b.mods[key], entry)
	return Subscription{t: t, id: entry.id}
}

func insertModSorted(list []*modifierEntry, entry *modifierEntry) []*modifierEntry {
	list = append(list, entry)
	for i := len(list) - 1; i > 0; i-- {
		a, b := list[i-1], list[i]
		if a.ownerSeat < b.ownerSeat || (a.ownerSeat == b.ownerSeat && a.seq <= b.seq) {
			break
		}
		list[i-1], list[i] = list[i], list[i-1]
	}
	return list
}

// UnsubscribeModifier removes a previously registered modifier handler.
func (b *Bus) UnsubscribeModifier(sub Subscription) {
	for key, list := range b.mods {
		if key.t != sub.t {
			continue
		}
		for i, e := range list {
			if e.id == sub.id {
				b.mods[key] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// PublishModifiers invokes every modifier handler registered for (E, M) in
// (ownerSeat, registration order) and folds their answers starting from
// zero. A handler panic is isolated exactly like Publish.
func PublishModifiers[E Event, M any](b *Bus, e E, zero M, fold func(acc, next M) M) M {
	t := typeOf[E]()
	key := modKey{t: t, m: typeOfM[M]()}
	acc := zero
	for _, entry := range b.mods[key] {
		next := invokeModifier(b, t.String(), entry, e)
		if v, ok := next.(M); ok {
			acc = fold(acc, v)
		}
	}
	return acc
}

func invokeModifier(b *Bus, typeName string, entry *modifierEntry, e Event) (result any) {
	defer func() {
		if r := recover(); r != nil {
			b.sink.HandlerPanic(typeName, r)
			result = nil
		}
	}()
	return entry.call(e)
}

// AdditiveInt folds numeric modifiers by summation.
func AdditiveInt(acc, next int) int { return acc + next }

// OrBool folds boolean prevention/veto modifiers with logical OR.
func OrBool(acc, next bool) bool { return acc || next }
