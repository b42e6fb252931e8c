package zone

import (
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
)

// RandSource is the injected randomness used for reshuffling, so matches
// stay reproducible under a fixed seed (spec.md §8 replay contract). Callers
// typically wrap math/rand/v2's Rand with this narrow interface.
type RandSource interface {
	IntN(n int) int
}

// DeckManager implements draw-with-automatic-reshuffle (spec.md §4.3): if the
// draw-pile has fewer than n cards, every remaining card is drawn, the
// discard-pile is Fisher-Yates-shuffled and moved to the bottom of the
// draw-pile, and drawing continues from there. Grounded on the teacher's
// deck-construction code (internal/game/deck.go) generalized from
// one-shot deck building to an ongoing draw/reshuffle cycle, since the
// teacher never needed mid-match deck replenishment. It holds the same
// *Service every other zone mutation goes through, so the reshuffle move is
// not a special case: it is only ever a discard→draw Move like any other
// (spec.md §3 "only mutable ... via the card-move service").
type DeckManager struct {
	rand RandSource
	zone *Service
}

// NewDeckManager constructs a deck manager using rand for reshuffles and svc
// for the reshuffle move itself.
func NewDeckManager(rand RandSource, svc *Service) *DeckManager {
	return &DeckManager{rand: rand, zone: svc}
}

// Draw identifies up to n card ids that the draw-pile can supply,
// reshuffling the discard-pile into the draw-pile's bottom on exhaustion
// (spec.md §4.3). It only reports which ids are next off the pile —
// removing them from DrawPile is the card-move service's job (Service.Draw
// wraps this with a Move so the zone mutation and its CardMoved event stay
// in one place, per Design Notes §9 "single channel"). If both piles run
// out, the returned slice is shorter than n — callers (the draw-phase
// resolver) must treat that as INVALID_STATE rather than silently
// proceeding.
func (dm *DeckManager) Draw(g *model.Game, n int) ([]model.CardID, error) {
	if n <= 0 {
		return nil, nil
	}
	draw := g.Zone(model.ZoneDrawPile)
	discard := g.Zone(model.ZoneDiscardPile)

	// Reshuffle up front until the draw-pile can (potentially) supply n
	// cards or both piles are exhausted; Draw never mutates DrawPile itself,
	// only DiscardPile→DrawPile via reshuffle.
	for draw.Len() < n && discard.Len() > 0 {
		if err := dm.reshuffleDiscardIntoDraw(g, discard); err != nil {
			return nil, err
		}
	}

	out := make([]model.CardID, 0, n)
	for i := 0; i < n && i < draw.Len(); i++ {
		out = append(out, draw.Cards[i])
	}
	return out, nil
}

// reshuffleDiscardIntoDraw Fisher-Yates shuffles discard's cards and moves
// them to the bottom of draw through Service.Move, so the reshuffle
// publishes a CardMoved pair like every other zone mutation (spec.md §4.2)
// instead of touching Zone.Cards directly.
func (dm *DeckManager) reshuffleDiscardIntoDraw(g *model.Game, discard *model.Zone) error {
	cards := discard.Clone()
	for i := len(cards) - 1; i > 0; i-- {
		j := dm.rand.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return dm.zone.Move(g, Descriptor{
		Source:   model.ZoneDiscardPile,
		Target:   model.ZoneDrawPile,
		Cards:    cards,
		Reason:   event.ReasonReshuffle,
		Ordering: model.ToBottom,
	})
}
