// Package replaylog implements the event-log sink and the persisted replay
// record contract (spec.md §1: "emitting a structured event log sufficient
// for replay, spectation, and regression testing"; §6 "replay record
// (seed + config + choice sequence)"). Grounded on the teacher's
// EventLogger/MemoryLogger/TextLogger pair (internal/log/logger.go), adapted
// from the teacher's single concrete GameEvent struct to this engine's
// open-ended typed event taxonomy by formatting each event generically
// rather than switching over a fixed EventType enum.
package replaylog

import (
	"fmt"
	"io"
	"strings"

	"github.com/sanguo/engine/internal/event"
)

// Entry is one formatted line of the match's event log.
type Entry struct {
	Seq       int
	Turn      int
	Phase     string
	EventType string
	Details   string
}

// EventLogger is the logging sink contract (teacher: log.EventLogger).
type EventLogger interface {
	Log(entry Entry)
	Events() []Entry
}

// MemoryLogger stores every entry in memory, for test assertions and for
// feeding a ReplayRecord's consumer. Mirrors the teacher's MemoryLogger.
type MemoryLogger struct {
	entries []Entry
	seq     int
}

// NewMemoryLogger constructs an empty in-memory logger.
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(entry Entry) {
	l.seq++
	entry.Seq = l.seq
	l.entries = append(l.entries, entry)
}

func (l *MemoryLogger) Events() []Entry {
	return l.entries
}

// EventsOfType filters by formatted event type name, e.g. "event.CardPlayed".
func (l *MemoryLogger) EventsOfType(t string) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.EventType == t {
			out = append(out, e)
		}
	}
	return out
}

// LastEntry returns the most recent entry, or a zero Entry if none.
func (l *MemoryLogger) LastEntry() Entry {
	if len(l.entries) == 0 {
		return Entry{}
	}
	return l.entries[len(l.entries)-1]
}

// TextLogger wraps MemoryLogger and additionally writes a formatted line per
// entry to w — mirrors the teacher's TextLogger exactly.
type TextLogger struct {
	MemoryLogger
	w io.Writer
}

// NewTextLogger constructs a logger that records in memory and writes
// formatted lines to w.
func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(entry Entry) {
	l.MemoryLogger.Log(entry)
	fmt.Fprintln(l.w, FormatEntry(entry))
}

// FormatEntry renders one entry as a human-readable line (teacher:
// log.FormatEvent).
func FormatEntry(e Entry) string {
	phase := e.Phase
	if phase == "" {
		phase = "          "
	}
	for len(phase) < 16 {
		phase += " "
	}
	return fmt.Sprintf("T%-2d %s| %s: %s", e.Turn, phase, e.EventType, e.Details)
}

// FormatAll renders every entry, one per line.
func FormatAll(entries []Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(FormatEntry(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Attach wires logger to every event bus publishes (spec.md §1), tracking
// the current turn/phase from TurnStart/PhaseStart so every entry carries
// its context without each concrete event needing to repeat it.
func Attach(bus *event.Bus, logger EventLogger) {
	var turn int
	var phase string
	bus.Observe(func(e event.Event) {
		switch ev := e.(type) {
		case event.TurnStart:
			turn = ev.Turn
		case event.PhaseStart:
			phase = ev.Phase.String()
		}
		logger.Log(Entry{
			Turn:      turn,
			Phase:     phase,
			EventType: fmt.Sprintf("%T", e),
			Details:   fmt.Sprintf("%+v", e),
		})
	})
}
