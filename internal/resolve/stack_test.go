package resolve_test

import (
	"testing"

	"github.com/sanguo/engine/internal/choice"
	"github.com/sanguo/engine/internal/model"
	"github.com/sanguo/engine/internal/resolve"
)

// doneFrame completes immediately with a fixed result.
type doneFrame struct {
	name string
	res  resolve.Result
}

func (f *doneFrame) TypeName() string          { return f.name }
func (f *doneFrame) Resolve(*resolve.Context) resolve.Step { return resolve.Done(f.res) }

// parentFrame pushes children once, then completes on its second entry.
type parentFrame struct {
	pushed   bool
	children []resolve.Frame
}

func (f *parentFrame) TypeName() string { return "parent" }
func (f *parentFrame) Resolve(*resolve.Context) resolve.Step {
	if !f.pushed {
		f.pushed = true
		return resolve.ContinueWith(f.children...)
	}
	return resolve.Done(resolve.Success())
}

// suspendingFrame suspends once, then completes reading back ctx.ChoiceResult.
type suspendingFrame struct {
	suspended bool
	got       *choice.Result
}

func (f *suspendingFrame) TypeName() string { return "suspending" }
func (f *suspendingFrame) Resolve(ctx *resolve.Context) resolve.Step {
	if !f.suspended {
		f.suspended = true
		return resolve.Suspend(choice.Request{
			PlayerSeat: 0,
			Kind:       choice.KindConfirmOrDecline,
		})
	}
	f.got = ctx.ChoiceResult
	return resolve.Done(resolve.Success())
}

func newTestContext() *resolve.Context {
	return &resolve.Context{Game: model.NewGame(1)}
}

func TestStackRunCompletesSingleFrame(t *testing.T) {
	s := resolve.NewStack()
	s.Push(&doneFrame{name: "a", res: resolve.Success()})

	req, done, err := s.Run(newTestContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done || req != nil {
		t.Fatalf("expected stack to drain with no pending request, got done=%v req=%v", done, req)
	}
	if !s.Empty() {
		t.Fatal("stack should be empty after completion")
	}
	hist := s.History()
	if len(hist) != 1 || hist[0].ResolverType != "a" {
		t.Fatalf("expected one history record for frame a, got %+v", hist)
	}
}

func TestStackRunPushesChildrenWithoutPoppingParent(t *testing.T) {
	s := resolve.NewStack()
	child := &doneFrame{name: "child", res: resolve.Success()}
	parent := &parentFrame{children: []resolve.Frame{child}}
	s.Push(parent)

	_, done, err := s.Run(newTestContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done {
		t.Fatal("expected the stack to fully drain")
	}
	hist := s.History()
	if len(hist) != 2 {
		t.Fatalf("expected 2 history records (child then parent), got %+v", hist)
	}
	if hist[0].ResolverType != "child" || hist[1].ResolverType != "parent" {
		t.Fatalf("expected child to complete before parent, got %+v", hist)
	}
}

func TestStackSuspendAndSubmit(t *testing.T) {
	s := resolve.NewStack()
	frame := &suspendingFrame{}
	s.Push(frame)
	ctx := newTestContext()

	req, done, err := s.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done || req == nil {
		t.Fatal("expected a pending request after suspension")
	}
	if req.RequestID == 0 {
		t.Fatal("expected a nonzero assigned RequestID")
	}

	result := choice.Result{RequestID: req.RequestID, Confirmed: true}
	if err := s.Submit(ctx, result); err != nil {
		t.Fatalf("unexpected error from Submit: %v", err)
	}

	_, done, err = s.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done {
		t.Fatal("expected the stack to drain after the suspended frame resumes")
	}
	if frame.got == nil || !frame.got.Confirmed {
		t.Fatal("expected the frame to observe the submitted choice result")
	}
}

func TestStackRunWhilePendingIsAnError(t *testing.T) {
	s := resolve.NewStack()
	s.Push(&suspendingFrame{})
	ctx := newTestContext()

	if _, _, err := s.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := s.Run(ctx); err == nil {
		t.Fatal("expected an error calling Run again before Submit")
	}
}

func TestStackSubmitWithNoPendingIsAnError(t *testing.T) {
	s := resolve.NewStack()
	ctx := newTestContext()
	if err := s.Submit(ctx, choice.Result{}); err == nil {
		t.Fatal("expected an error submitting with no pending request")
	}
}

func TestStackSubmitValidatesAgainstConstraints(t *testing.T) {
	s := resolve.NewStack()
	s.Push(&suspendingFrame{})
	ctx := newTestContext()

	req, _, err := s.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Wrong RequestID should fail validation.
	if err := s.Submit(ctx, choice.Result{RequestID: req.RequestID + 1}); err == nil {
		t.Fatal("expected Submit to reject a mismatched RequestID")
	}
}
