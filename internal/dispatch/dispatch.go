// Package dispatch implements the Action Dispatcher of spec.md section 4.1:
// the second half of the pipeline, downstream of the Key Handler
// Orchestrator and the Background Task Manager's result stream. Every
// Action, regardless of origin, flows through one Router to a single
// matching Dispatcher, which mutates the State Coordinator and may hand new
// work to the Task Manager.
package dispatch

import (
	"context"

	"github.com/connorleisz/pane/internal/action"
)

// Outcome reports what the event loop should do after a Handle call.
type Outcome int

const (
	// Continue keeps the event loop running.
	Continue Outcome = iota
	// Terminate stops the event loop cleanly. Only the System dispatcher's
	// handling of action.Quit ever returns this (spec.md section 4.1: "only
	// a Quit action... is permitted to stop the loop").
	Terminate
)

// Dispatcher is one link in the Router's chain. Handle may return follow-up
// actions (e.g. a submitted command expands into a CreateFile/Rename/Delete
// action) that the caller re-enters through the Router exactly as if they
// had arrived from the Key Handler Orchestrator or the Task Manager.
type Dispatcher interface {
	Priority() int
	CanHandle(a action.Action) bool
	Handle(ctx context.Context, a action.Action) ([]action.Action, Outcome)
}

// Router holds every Dispatcher sorted by ascending priority and routes one
// Action at a time to the first match.
type Router struct {
	dispatchers []Dispatcher
}

// NewRouter builds a Router over ds, sorted by ascending Priority with ties
// keeping insertion order.
func NewRouter(ds ...Dispatcher) *Router {
	r := &Router{dispatchers: append([]Dispatcher(nil), ds...)}
	for i := 1; i < len(r.dispatchers); i++ {
		for j := i; j > 0 && r.dispatchers[j].Priority() < r.dispatchers[j-1].Priority(); j-- {
			r.dispatchers[j], r.dispatchers[j-1] = r.dispatchers[j-1], r.dispatchers[j]
		}
	}
	return r
}

// Route finds the first Dispatcher whose CanHandle matches a and runs it. An
// Action with no match is silently dropped. None and NoOp are claimed by
// the System dispatcher like any other Kind.
func (r *Router) Route(ctx context.Context, a action.Action) ([]action.Action, Outcome) {
	for _, d := range r.dispatchers {
		if d.CanHandle(a) {
			return d.Handle(ctx, a)
		}
	}
	return nil, Continue
}

const (
	PriorityNavigation = 10
	PriorityFileOps    = 20
	PrioritySearch     = 30
	PriorityClipboard  = 40
	PriorityUIControl  = 50
	PriorityCommand    = 60
	PrioritySystem     = 5
)
