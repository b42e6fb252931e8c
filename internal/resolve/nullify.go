package resolve

import "github.com/sanguo/engine/internal/model"

// NullificationGate wraps any immediate-trick resolver in a Nullification
// pre-window (spec.md §4.5: "All immediate tricks route through a
// Nullification pre-window ... nullification itself is a sub-window that
// can be nullified recursively, resolved last-declared-first"). Each round
// a Nullification is played flips whether the trick is ultimately negated;
// since a freshly played Nullification can itself be nullified, the gate
// reopens the poll after any play, converging once a round passes with no
// new Nullification.
type NullificationGate struct {
	Inner  Frame
	Source int // the card's user; poll order starts just after this seat

	negated     bool
	roundPlayed bool
	polling     bool
	innerPushed bool
}

func (g *NullificationGate) TypeName() string { return "NullificationGate" }

func (g *NullificationGate) Resolve(ctx *Context) Step {
	if g.innerPushed {
		return Done(Success()) // Inner has run to completion
	}
	if g.polling {
		g.polling = false
		if g.roundPlayed {
			g.negated = !g.negated
			return ContinueWith(g.openPoll(ctx))
		}
		if g.negated {
			return Done(Success())
		}
		g.innerPushed = true
		return ContinueWith(g.Inner)
	}
	return ContinueWith(g.openPoll(ctx))
}

// openPoll builds one round's response window: every alive seat other than
// Source, in seat order, each offered one chance to play a Nullification.
func (g *NullificationGate) openPoll(ctx *Context) *PollFrame {
	g.polling = true
	g.roundPlayed = false
	order := pollOrderAllAlive(ctx.Game, g.Source)
	window := OpenWindow(model.SubTypeNullification, order, 1, "response.nullify")
	return &PollFrame{
		Window: window,
		Handler: func(ctx *Context, seat int, played *model.CardID) bool {
			return played != nil // a play ends this round; a decline moves to the next seat
		},
		Done: func(ctx *Context, anyPlayed bool) {
			g.roundPlayed = anyPlayed
		},
	}
}

// pollOrderAllAlive returns every alive seat other than source, in seat
// order starting just after it (any eligible player may attempt to
// nullify).
func pollOrderAllAlive(g *model.Game, source int) []int {
	alive := g.AlivePlayers()
	n := len(alive)
	startIdx := 0
	for i, s := range alive {
		if s == source {
			startIdx = i
			break
		}
	}
	out := make([]int, 0, n)
	for k := 1; k <= n; k++ {
		seat := alive[(startIdx+k)%n]
		if seat == source {
			continue
		}
		out = append(out, seat)
	}
	return out
}
