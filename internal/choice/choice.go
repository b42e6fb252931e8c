// Package choice implements the suspension protocol (spec.md §4.8) that the
// resolution stack uses to pause a match at every interaction point. This
// package intentionally does NOT mirror the teacher's blocking
// PlayerController interface (internal/game/duel.go's
// ChooseAction/ChooseCards/ChooseYesNo) — Design Notes §9 "Choice suspension"
// calls for exactly the opposite: resolvers return a request value instead
// of calling back into a synchronous controller, so the engine can suspend
// and resume across process boundaries.
package choice

import "github.com/sanguo/engine/internal/model"

// Kind names the shape of an interaction.
type Kind int

const (
	KindSelectTargets Kind = iota
	KindSelectCard
	KindSelectOption
	KindConfirmOrDecline
)

// Constraints bounds a Request's legal answers.
type Constraints struct {
	MinTargets    int
	MaxTargets    int
	TargetFilter  func(seat int) bool
	AllowedCards  []model.CardID
	CardFilter    func(id model.CardID) bool
	Options       []string
}

// Request describes one suspension point. RequestID is monotone and
// replay-stable — it is assigned by the engine's request counter, never
// derived from wall-clock time or map iteration.
type Request struct {
	RequestID   int
	PlayerSeat  int
	Kind        Kind
	Constraints Constraints
	// Prompt is a message key for host-side localization, not for display
	// logic in this package.
	Prompt string
}

// Result is the caller's answer to a Request. Exactly the fields relevant to
// the originating Request's Kind should be set; the engine validates that
// against Constraints before resuming.
type Result struct {
	RequestID      int
	SelectedTargets []int
	SelectedCards  []model.CardID
	SelectedOption string
	Confirmed      bool
	Declined       bool
}

// Validate checks r against the constraints of the request that produced it.
// A violation is a programmer error per spec.md §4.8 ("a violating result is
// fatal") — callers are expected to only ever surface eligible options, so
// this should never fail in a production run.
func Validate(req Request, r Result) error {
	if r.RequestID != req.RequestID {
		return errMismatch(req.RequestID, r.RequestID)
	}
	switch req.Kind {
	case KindSelectTargets:
		if r.Declined {
			return nil
		}
		n := len(r.SelectedTargets)
		if n < req.Constraints.MinTargets || n > req.Constraints.MaxTargets {
			return errTargetCount(req.Constraints.MinTargets, req.Constraints.MaxTargets, n)
		}
		if req.Constraints.TargetFilter != nil {
			for _, s := range r.SelectedTargets {
				if !req.Constraints.TargetFilter(s) {
					return errIneligibleTarget(s)
				}
			}
		}
	case KindSelectCard:
		if r.Declined {
			return nil
		}
		for _, c := range r.SelectedCards {
			if req.Constraints.CardFilter != nil && !req.Constraints.CardFilter(c) {
				return errIneligibleCard(c)
			}
			if req.Constraints.AllowedCards != nil && !containsCard(req.Constraints.AllowedCards, c) {
				return errIneligibleCard(c)
			}
		}
	case KindSelectOption:
		if r.Declined {
			return nil
		}
		if !containsString(req.Constraints.Options, r.SelectedOption) {
			return errIneligibleOption(r.SelectedOption)
		}
	case KindConfirmOrDecline:
		// Confirmed/Declined are both legal answers by construction.
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsCard(list []model.CardID, c model.CardID) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}
