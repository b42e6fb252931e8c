// Package response implements response windows (spec.md §4.6): bounded
// polling of responders for a card of a given sub-type, in a fixed seat
// order, until a required count is fulfilled or every responder has
// declined. Grounded on the teacher's openResponseWindow
// (internal/game/timing.go), which already polls alternating priority with
// a pass-count termination condition — generalized here to arbitrary poll
// orders and required-count fulfillment instead of a fixed two-player
// alternation.
package response

import (
	"github.com/sanguo/engine/internal/choice"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/skill"
)

// Window describes one poll sequence. Running it to completion (tracking
// fulfillment and early termination) is the resolution stack's job — see
// internal/resolve.PollFrame — since that requires suspending across
// ChoiceRequest/ChoiceResult boundaries that this package doesn't model.
type Window struct {
	WantSubType   model.CardSubType
	PollOrder     []int // seats, in polling order
	RequiredCount int
	Prompt        string
}

// Candidates returns responder's hand cards eligible to answer this window,
// plus any virtual-card proposals the skill manager offers, per spec.md
// §4.6 "skills may inject virtual cards ... offers them alongside literal
// candidates".
func Candidates(g *model.Game, responder *model.Player, want model.CardSubType, skills *skill.Manager) ([]model.CardID, []skill.VirtualCardProposal) {
	hand := g.Zone(responder.HandZone)
	var literal []model.CardID
	if hand != nil {
		for _, id := range hand.Cards {
			c := g.Card(id)
			if c != nil && c.SubType == want {
				literal = append(literal, id)
			}
		}
	}
	virtual := skills.ProposeVirtualCards(g, responder, want)
	return literal, virtual
}

// NextRequest builds the ChoiceRequest for polling seat within w, or returns
// false if seat has no eligible literal or virtual candidate (spec.md §4.6:
// "if the rule layer finds at least one eligible card" — a responder with
// none is skipped silently, no suspension is spent on them). RequestID is
// left zero; the resolution stack assigns the real monotone id on
// suspension.
func NextRequest(g *model.Game, w Window, seat int, skills *skill.Manager) (choice.Request, bool) {
	responder := g.Player(seat)
	if responder == nil || !responder.Alive {
		return choice.Request{}, false
	}
	literal, virtual := Candidates(g, responder, w.WantSubType, skills)
	if len(literal) == 0 && len(virtual) == 0 {
		return choice.Request{}, false
	}
	allowed := append([]model.CardID{}, literal...)
	for _, v := range virtual {
		allowed = append(allowed, v.CardID)
	}
	return choice.Request{
		PlayerSeat: seat,
		Kind:       choice.KindSelectCard,
		Prompt:     w.Prompt,
		Constraints: choice.Constraints{
			AllowedCards: allowed,
		},
	}, true
}
