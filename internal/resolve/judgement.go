package resolve

import (
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/rules"
	"github.com/sanguo/engine/internal/zone"
)

// maxJudgementSwaps bounds how many times the revealed judgement card may
// be swapped before a further swap is refused (spec.md §4.5; Open Question
// #1, DESIGN.md, ties this to SlashResolver's redirect bound).
const maxJudgementSwaps = 3

// JudgementResolver runs one destiny draw for a single delayed-trick card
// in owner's judgement zone at the start of Judge phase (spec.md §4.5
// JudgementResolver). The turn engine is responsible for pushing one of
// these per judgement-zone card, in placement order.
type JudgementResolver struct {
	Owner  int
	CardID model.CardID

	step     int
	revealed model.CardID
}

func (r *JudgementResolver) TypeName() string { return "JudgementResolver" }

func (r *JudgementResolver) Resolve(ctx *Context) Step {
	bus := ctx.Services.Bus
	g := ctx.Game
	owner := g.Player(r.Owner)
	if owner == nil {
		return Done(Failure(rules.ErrInvalidState, "unknown judgement owner"))
	}

	switch r.step {
	case 0:
		event.Publish(bus, event.JudgementStarted{Base: bus.Stamp(), Owner: r.Owner, CardID: r.CardID})
		ids, err := ctx.Services.Deck.Draw(g, 1)
		if err != nil || len(ids) == 0 {
			return Done(Failure(rules.ErrInvalidState, "draw-pile exhausted during judgement"))
		}
		r.revealed = ids[0]
		// The destiny card is revealed face-up then discarded immediately —
		// it has no further zone role once the judgement condition is
		// evaluated (Open Question #1, DESIGN.md).
		if err := ctx.Services.Zone.Move(g, zone.Descriptor{
			Source: model.ZoneDrawPile, Target: model.ZoneDiscardPile,
			Cards: []model.CardID{r.revealed}, Reason: event.ReasonJudgement, Ordering: model.ToTop,
		}); err != nil {
			return Done(Failure(rules.ErrInvalidState, "judgement reveal move failed"))
		}
		if exceeded := r.revealCard(bus); exceeded {
			return Done(Failure(rules.ErrRuleValidation, "judgement swap exceeded the recursion bound"))
		}
		r.step = 1
		return ContinueWith()

	case 1:
		revealedCard := g.Card(r.revealed)
		card := g.Card(r.CardID)
		hit := evaluateJudgement(card.SubType, revealedCard)
		event.Publish(bus, event.JudgementCompleted{Base: bus.Stamp(), Owner: r.Owner, Hit: hit})

		switch card.SubType {
		case model.SubTypeLightning:
			if hit {
				if err := ctx.Services.Zone.Move(g, zone.Descriptor{
					Source: owner.JudgeZone, Target: model.ZoneDiscardPile,
					Cards: []model.CardID{r.CardID}, Reason: event.ReasonDiscard, Ordering: model.ToTop,
				}); err != nil {
					return Done(Failure(rules.ErrInvalidState, "lightning discard failed"))
				}
				return ContinueWith(&DamageResolver{
					Target: r.Owner, Amount: 3, Type: event.DamageThunder, Cause: "Lightning",
				})
			}
			nextSeat := nextAliveClockwise(g, r.Owner)
			nextPlayer := g.Player(nextSeat)
			if err := ctx.Services.Zone.Move(g, zone.Descriptor{
				Source: owner.JudgeZone, Target: nextPlayer.JudgeZone,
				Cards: []model.CardID{r.CardID}, Reason: event.ReasonJudgement, Ordering: model.ToTop,
			}); err != nil {
				return Done(Failure(rules.ErrInvalidState, "lightning pass failed"))
			}
			return Done(Success())

		case model.SubTypeDistraction:
			if hit {
				owner.SetFlag("skipPlayPhase", true)
			}
			if err := ctx.Services.Zone.Move(g, zone.Descriptor{
				Source: owner.JudgeZone, Target: model.ZoneDiscardPile,
				Cards: []model.CardID{r.CardID}, Reason: event.ReasonDiscard, Ordering: model.ToTop,
			}); err != nil {
				return Done(Failure(rules.ErrInvalidState, "distraction discard failed"))
			}
			return Done(Success())
		}
		return Done(Failure(rules.ErrInvalidState, "unknown delayed-trick sub-type"))
	}
	return Done(Failure(rules.ErrInvalidState, "unreachable judgement step"))
}

// revealCard emits JudgementCardRevealed and lets skills swap the revealed
// card for a full replacement, re-emitting JudgementCardRevealed against the
// new card each time, up to maxJudgementSwaps swaps (spec.md §4.5; Open
// Question #1's replace semantics). It reports exceeded=true once a further
// swap is attempted beyond the bound.
func (r *JudgementResolver) revealCard(bus *event.Bus) (exceeded bool) {
	for swaps := 0; ; swaps++ {
		event.Publish(bus, event.JudgementCardRevealed{Base: bus.Stamp(), Owner: r.Owner, CardID: r.CardID, Revealed: r.revealed})
		mod := event.PublishModifiers(bus, event.JudgementCardRevealed{Base: bus.Stamp(), Owner: r.Owner, CardID: r.CardID, Revealed: r.revealed}, event.JudgementSwapModifier{}, firstJudgementSwap)
		if !mod.Swapped {
			return false
		}
		if swaps >= maxJudgementSwaps {
			return true
		}
		r.revealed = mod.NewCard
	}
}

func firstJudgementSwap(acc, next event.JudgementSwapModifier) event.JudgementSwapModifier {
	if acc.Swapped {
		return acc
	}
	return next
}

// evaluateJudgement applies the specific trick's reveal condition (spec.md
// §4.5 step 2): lightning hits unless the revealed card is a heart;
// distraction hits unless the revealed card is a club.
func evaluateJudgement(subType model.CardSubType, revealed *model.Card) bool {
	if revealed == nil {
		return false
	}
	switch subType {
	case model.SubTypeLightning:
		return revealed.Suit != model.SuitHeart
	case model.SubTypeDistraction:
		return revealed.Suit != model.SuitClub
	}
	return false
}

func nextAliveClockwise(g *model.Game, from int) int {
	n := len(g.Players)
	for k := 1; k <= n; k++ {
		seat := (from + k) % n
		if p := g.Player(seat); p != nil && p.Alive {
			return seat
		}
	}
	return from
}
