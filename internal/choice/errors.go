package choice

import (
	"github.com/pkg/errors"

	"github.com/sanguo/engine/internal/model"
)

func errMismatch(want, got int) error {
	return errors.Errorf("choice: result requestId %d does not match pending request %d", got, want)
}

func errTargetCount(min, max, got int) error {
	return errors.Errorf("choice: selected %d targets, want between %d and %d", got, min, max)
}

func errIneligibleTarget(seat int) error {
	return errors.Errorf("choice: seat %d is not an eligible target", seat)
}

func errIneligibleCard(id model.CardID) error {
	return errors.Errorf("choice: card %d is not an eligible candidate", id)
}

func errIneligibleOption(opt string) error {
	return errors.Errorf("choice: %q is not an eligible option", opt)
}
