// Package zone implements the card-move service (spec.md §4.2): the single
// entry point through which all inter-zone card movement happens. It is
// modeled on the teacher's Player zone-helper methods (internal/game/state.go
// had Draw/Discard/Scrap/etc. scattered across Player), consolidated here
// into one service per Design Notes §9 "Card-move service event channel" —
// a single event-bus publish per move, not a redundant callback-plus-event
// pair.
package zone

import (
	"github.com/pkg/errors"

	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
)

// Descriptor names one atomic inter-zone move.
type Descriptor struct {
	Source   model.ZoneID
	Target   model.ZoneID
	Cards    []model.CardID
	Reason   event.MoveReason
	Ordering model.Ordering
}

// Service is the card-move entry point. It owns no state of its own beyond
// the bus it publishes to; all mutation happens directly on the Game's
// zones.
type Service struct {
	bus *event.Bus
}

// NewService constructs a card-move service publishing to bus.
func NewService(bus *event.Bus) *Service {
	return &Service{bus: bus}
}

// Move performs an atomic move of descriptor.Cards from descriptor.Source to
// descriptor.Target. It is a programmer error (spec.md §4.2 "reported as a
// programmer error") for the source zone to be missing any referenced card,
// for the target zone to already contain one, or for a descriptor to name a
// card twice — these indicate a bug upstream, not a rule violation, so they
// return a wrapped error rather than a RuleResult.
//
// A CardMoved event is published twice: once with Before=true before any
// mutation, and once with Before=false after (spec.md §4.2). A descriptor
// with zero cards is a no-op and publishes nothing.
func (s *Service) Move(g *model.Game, d Descriptor) error {
	if len(d.Cards) == 0 {
		return nil
	}
	src := g.Zone(d.Source)
	if src == nil {
		return errors.Errorf("zone: unknown source zone %q", d.Source)
	}
	tgt := g.Zone(d.Target)
	if tgt == nil {
		return errors.Errorf("zone: unknown target zone %q", d.Target)
	}
	seen := make(map[model.CardID]bool, len(d.Cards))
	for _, c := range d.Cards {
		if seen[c] {
			return errors.Errorf("zone: descriptor names card %d more than once", c)
		}
		seen[c] = true
		if !src.Contains(c) {
			return errors.Errorf("zone: source zone %q does not contain card %d", d.Source, c)
		}
		if tgt.Contains(c) {
			return errors.Errorf("zone: target zone %q already contains card %d", d.Target, c)
		}
	}

	s.publish(d, true)

	for _, c := range d.Cards {
		src.Remove(c)
	}
	tgt.Insert(d.Cards, d.Ordering)

	s.publish(d, false)
	return nil
}

func (s *Service) publish(d Descriptor, before bool) {
	event.Publish(s.bus, event.CardMoved{
		Base:        s.bus.Stamp(),
		Before:      before,
		SourceZone:  d.Source,
		TargetZone:  d.Target,
		SourceOwner: nil,
		TargetOwner: nil,
		CardIDs:     append([]model.CardID{}, d.Cards...),
		Reason:      d.Reason,
		Ordering:    d.Ordering,
	})
}

// Draw moves up to count cards from the draw-pile into player's hand,
// drawing via deck so automatic reshuffle (spec.md §4.3) applies on
// exhaustion. It returns the ids actually drawn, which may be fewer than
// count if both piles are exhausted.
func (s *Service) Draw(g *model.Game, deck *DeckManager, player *model.Player, count int) ([]model.CardID, error) {
	ids, err := deck.Draw(g, count)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if err := s.Move(g, Descriptor{
		Source:   model.ZoneDrawPile,
		Target:   player.HandZone,
		Cards:    ids,
		Reason:   event.ReasonDraw,
		Ordering: model.PreserveRelativeOrder,
	}); err != nil {
		return nil, err
	}
	return ids, nil
}

// DiscardFromHand is a convenience wrapper for reason=discard,
// ordering=to-top (spec.md §4.2).
func (s *Service) DiscardFromHand(g *model.Game, player *model.Player, cards []model.CardID) error {
	return s.Move(g, Descriptor{
		Source:   player.HandZone,
		Target:   model.ZoneDiscardPile,
		Cards:    cards,
		Reason:   event.ReasonDiscard,
		Ordering: model.ToTop,
	})
}
