// Package clock supplies the injected timestamp source events are stamped
// with (spec.md §4.7: "a UTC timestamp sourced from an injected clock so
// replay can override"). Real matches use SystemClock; replay and tests use
// FixedClock/SequenceClock so logs stay byte-identical across runs.
package clock

import "time"

// Clock returns the current time for event stamping.
type Clock interface {
	Now() time.Time
}

// SystemClock delegates to time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant — useful for byte-identical
// replay comparisons where wall-clock time must not leak into the log.
type FixedClock struct {
	At time.Time
}

func (f FixedClock) Now() time.Time { return f.At }

// SequenceClock advances by Step each call, starting at Start. Deterministic
// but distinguishable per-event, useful when tests assert ordering by
// timestamp rather than by sequence number.
type SequenceClock struct {
	Start time.Time
	Step  time.Duration
	n     int
}

func (s *SequenceClock) Now() time.Time {
	t := s.Start.Add(time.Duration(s.n) * s.Step)
	s.n++
	return t
}
