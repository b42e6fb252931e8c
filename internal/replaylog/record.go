package replaylog

import (
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/sanguo/engine/internal/choice"
	"github.com/sanguo/engine/internal/model"
)

// InputKind tags which of the engine's two external entry points one
// InputEvent replays: Submit (answering a suspended choice) or one of the
// proactive Play-phase actions (spec.md §6 only specifies the choice
// protocol explicitly; UseCard/EndPlayPhase are this engine's pragmatic
// proactive-action channel, so a full replay stream needs a tag
// distinguishing the two call shapes interleaved in call order).
type InputKind string

const (
	InputChoice       InputKind = "choice"
	InputUseCard      InputKind = "useCard"
	InputEndPlayPhase InputKind = "endPlayPhase"
)

// InputEvent is one call the host made against the running match, in the
// exact order it made it. Only the fields relevant to Kind are populated.
type InputEvent struct {
	Kind    InputKind      `yaml:"kind"`
	Choice  *choice.Result `yaml:"choice,omitempty"`
	Seat    int            `yaml:"seat,omitempty"`
	CardID  model.CardID   `yaml:"cardId,omitempty"`
	Targets []int          `yaml:"targets,omitempty"`
}

// ReplayRecord is the in-scope persisted contract (spec.md §6): given the
// same (seed, config, input sequence) a run must produce a bit-identical
// event log. InitialConfig is kept as an untyped yaml.Node rather than a
// concrete engine.GameConfig field so this package has no dependency on the
// top-level orchestrator — engine marshals/unmarshals its own config type
// into this slot.
type ReplayRecord struct {
	// MatchID is an opaque persisted-record identifier distinct from the
	// deterministic RequestID/Seed fields — it exists purely so a host can
	// address a stored record, never consumed by replay logic itself.
	MatchID uuid.UUID `yaml:"matchId"`

	Seed          *int64      `yaml:"seed"`
	InitialConfig yaml.Node   `yaml:"initialConfig"`
	Inputs        []InputEvent `yaml:"inputs"`
}

// NewReplayRecord starts a fresh record for one match. config is the
// engine's GameConfig already marshaled to a yaml.Node by the caller.
func NewReplayRecord(seed *int64, config yaml.Node) *ReplayRecord {
	return &ReplayRecord{
		MatchID:       uuid.New(),
		Seed:          seed,
		InitialConfig: config,
	}
}

// RecordChoice appends one submitted choice.Result, in the order it was
// submitted (spec.md §6 "choice sequence").
func (r *ReplayRecord) RecordChoice(result choice.Result) {
	r.Inputs = append(r.Inputs, InputEvent{Kind: InputChoice, Choice: &result})
}

// RecordUseCard appends one proactive UseCard call.
func (r *ReplayRecord) RecordUseCard(seat int, cardID model.CardID, targets []int) {
	r.Inputs = append(r.Inputs, InputEvent{Kind: InputUseCard, Seat: seat, CardID: cardID, Targets: targets})
}

// RecordEndPlayPhase appends one proactive EndPlayPhase call.
func (r *ReplayRecord) RecordEndPlayPhase(seat int) {
	r.Inputs = append(r.Inputs, InputEvent{Kind: InputEndPlayPhase, Seat: seat})
}

// Marshal serializes the record to YAML.
func (r *ReplayRecord) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}

// Unmarshal parses a persisted record. Storage format/location is a host
// concern (spec.md §6: "its storage format is not [mandated]"); this is just
// the YAML shape.
func Unmarshal(data []byte) (*ReplayRecord, error) {
	var r ReplayRecord
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
