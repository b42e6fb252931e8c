// Package resolve implements the resolution stack (spec.md §4.5): a LIFO of
// resolver frames, each either completing, pushing child frames and
// remaining for a later re-entry, or suspending on a player choice. This is
// the "coroutine-free" redesign called for in Design Notes §9 — rather than
// blocking a goroutine per frame (the obvious but non-resumable approach),
// every frame is a small explicit state machine (a `step` field) that
// resumes exactly where it left off when re-invoked, grounded on the
// teacher's Chain/ChainLink model (internal/game/chain.go) of a resolution
// sequence that can be re-entered after a response window completes.
package resolve

import (
	"github.com/pkg/errors"

	"github.com/sanguo/engine/internal/choice"
	"github.com/sanguo/engine/internal/event"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/skill"
	"github.com/sanguo/engine/internal/zone"
)

// Services bundles every collaborator a frame needs to do its work. It is
// passed by reference inside Context so all frames share one instance.
type Services struct {
	Zone   *zone.Service
	Deck   *zone.DeckManager
	Bus    *event.Bus
	Skills *skill.Manager
}

// Context is the read/write environment a frame's Resolve method runs in.
// Frames mutate Game directly through Services.Zone rather than holding
// their own copies (spec.md §4.5: "a ResolutionContext snapshot").
type Context struct {
	Game     *model.Game
	Services *Services

	// ChoiceResult is bound by the engine immediately before re-invoking a
	// frame that previously suspended; frames must consume it exactly once
	// per suspension and clear their own pending-request bookkeeping.
	ChoiceResult *choice.Result
}

// Result is what a frame reports on completion (spec.md §4.5: "success |
// failure(code, messageKey)").
type Result struct {
	Success    bool
	ErrorCode  string
	MessageKey string
}

func Success() Result { return Result{Success: true} }
func Failure(code, messageKey string) Result {
	return Result{ErrorCode: code, MessageKey: messageKey}
}

// StepKind tags which of the three outcomes a Frame.Resolve call produced.
type StepKind int

const (
	StepDone StepKind = iota
	StepContinue
	StepSuspend
)

// Step is the return value of Frame.Resolve.
type Step struct {
	Kind    StepKind
	Result  Result         // valid when Kind == StepDone
	Push    []Frame        // valid when Kind == StepContinue
	Request choice.Request // valid when Kind == StepSuspend
}

func Done(r Result) Step                { return Step{Kind: StepDone, Result: r} }
func ContinueWith(frames ...Frame) Step { return Step{Kind: StepContinue, Push: frames} }
func Suspend(req choice.Request) Step   { return Step{Kind: StepSuspend, Request: req} }

// Frame is one resolver. Implementations hold their own step state so a
// re-invocation after a suspension or after child frames complete continues
// from the right place.
type Frame interface {
	// TypeName identifies the resolver for ResolutionRecord/diagnostics.
	TypeName() string
	// Resolve runs (or resumes) this frame. ctx.ChoiceResult is non-nil only
	// on the call that resumes a suspension this exact frame issued.
	Resolve(ctx *Context) Step
}

// Record is one completed-or-suspended-then-resumed frame's audit entry
// (spec.md §4.5: "append a ResolutionRecord to history").
type Record struct {
	ResolverType string
	Result       Result
}

// Stack drives the LIFO resolution loop described in spec.md §4.5.
type Stack struct {
	frames      []Frame
	history     []Record
	nextReqID   int
	pending     *choice.Request // the request the top frame is currently suspended on, if any
}

// NewStack constructs an empty resolution stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push adds a frame to the top of the stack (it will run next).
func (s *Stack) Push(f Frame) {
	s.frames = append(s.frames, f)
}

// Empty reports whether the stack has no frames left to run.
func (s *Stack) Empty() bool { return len(s.frames) == 0 }

// History returns every completed frame's record so far, in completion
// order.
func (s *Stack) History() []Record { return append([]Record{}, s.history...) }

// Run drives frames until the stack empties or a frame suspends. It returns
// the pending request on suspension, or (nil, true) once the stack is
// empty. Submit must be called with the caller's answer before Run is
// called again after a suspension.
func (s *Stack) Run(ctx *Context) (*choice.Request, bool, error) {
	if s.pending != nil {
		return nil, false, errors.New("resolve: Run called while a request is pending; call Submit first")
	}
	for !s.Empty() {
		top := s.frames[len(s.frames)-1]
		step := top.Resolve(ctx)
		ctx.ChoiceResult = nil
		switch step.Kind {
		case StepDone:
			s.frames = s.frames[:len(s.frames)-1]
			s.history = append(s.history, Record{ResolverType: top.TypeName(), Result: step.Result})
		case StepContinue:
			for _, f := range step.Push {
				s.Push(f)
			}
		case StepSuspend:
			s.nextReqID++
			req := step.Request
			req.RequestID = s.nextReqID
			s.pending = &req
			return s.pending, false, nil
		default:
			return nil, false, errors.Errorf("resolve: frame %s returned unknown step kind %d", top.TypeName(), step.Kind)
		}
	}
	return nil, true, nil
}

// Submit resumes the suspended top frame with r bound, validating r against
// the pending request's constraints first (spec.md §4.8: a violating result
// is a fatal programmer error).
func (s *Stack) Submit(ctx *Context, r choice.Result) error {
	if s.pending == nil {
		return errors.New("resolve: Submit called with no pending request")
	}
	if err := choice.Validate(*s.pending, r); err != nil {
		return errors.Wrap(err, "resolve: choice result violates pending request constraints")
	}
	s.pending = nil
	ctx.ChoiceResult = &r
	return nil
}
