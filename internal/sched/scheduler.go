package sched

import (
	"log"
	"sync"

	"github.com/jask/tuido/internal/msg"
)

// Controller receives controller-targeted payloads. Dispatch must return;
// it may call Enqueue on the scheduler any number of times before it does.
type Controller interface {
	Dispatch(m msg.ControllerMsg)
}

// View receives view-targeted payloads under the same contract as
// Controller.
type View interface {
	Dispatch(m msg.ViewMsg)
}

// Enqueuer is the narrow handle collaborators get for producing new
// messages. The scheduler implements it; handing out the interface instead
// of the scheduler itself keeps collaborators from holding a back-reference
// they could misuse and breaks the construction cycle.
type Enqueuer interface {
	Enqueue(m msg.Message)
}

// Scheduler drains messages to a lazily bound Controller and View.
// Construct it with New before either collaborator exists, bind them with
// SetController and SetView during startup, then Enqueue freely. A message
// addressed to a collaborator that is not bound yet is dropped without
// effect.
//
// Not safe for use from multiple goroutines; that is the point. All state
// lives on one goroutine and the try-lock guards turn any violation of that
// assumption into a fatal diagnostic.
type Scheduler struct {
	controller Controller
	view       View

	events   []msg.Message
	eventsMu sync.Mutex

	running   bool
	runningMu sync.Mutex

	// fatalf reports a broken exclusivity invariant and must not return
	// control to the scheduler in normal builds. Tests swap it out.
	fatalf func(format string, args ...any)
}

// New returns an idle scheduler with no collaborators bound.
func New() *Scheduler {
	return &Scheduler{
		fatalf: log.Fatalf,
	}
}

// SetController binds the controller. Calling it again replaces the
// binding; messages dropped before the bind are not redelivered.
func (s *Scheduler) SetController(c Controller) {
	s.controller = c
}

// SetView binds the view under the same terms as SetController.
func (s *Scheduler) SetView(v View) {
	s.view = v
}

// Enqueue pushes m onto the stack and, when no drain is active, starts one.
// When a drain is already running somewhere up the call stack, Enqueue only
// pushes; the active drain will pop m before returning. Either way every
// message is dispatched (or dropped as unbound) before the outermost
// Enqueue call returns.
func (s *Scheduler) Enqueue(m msg.Message) {
	running := s.isRunning()
	s.push(m)
	if !running {
		s.run()
	}
}

// run is the loop body: it stops the session when the stack is empty and
// otherwise marks the session running and drains one message.
func (s *Scheduler) run() {
	if s.pending() == 0 {
		s.setRunning(false)
		return
	}
	s.setRunning(true)
	s.drainOne()
}

// drainOne pops the most recently pushed message, dispatches it to its
// collaborator, then recurses into run. Dispatch happens with no guard
// held, so handlers are free to Enqueue.
func (s *Scheduler) drainOne() {
	m, ok := s.pop()
	if !ok {
		// Cannot happen while run and drainOne alternate on one
		// goroutine, but an empty pop must still terminate the session.
		s.setRunning(false)
		return
	}
	switch m := m.(type) {
	case msg.ToController:
		if s.controller != nil {
			s.controller.Dispatch(m.Msg)
		}
	case msg.ToView:
		if s.view != nil {
			s.view.Dispatch(m.Msg)
		}
	}
	s.run()
}

// Running reports whether a drain session is active on the current call
// stack.
func (s *Scheduler) Running() bool {
	return s.isRunning()
}

func (s *Scheduler) isRunning() bool {
	if !s.runningMu.TryLock() {
		s.violation("running flag")
		return false
	}
	defer s.runningMu.Unlock()
	return s.running
}

func (s *Scheduler) setRunning(v bool) {
	if !s.runningMu.TryLock() {
		s.violation("running flag")
		return
	}
	defer s.runningMu.Unlock()
	s.running = v
}

func (s *Scheduler) push(m msg.Message) {
	if !s.eventsMu.TryLock() {
		s.violation("message stack")
		return
	}
	defer s.eventsMu.Unlock()
	s.events = append(s.events, m)
}

func (s *Scheduler) pop() (msg.Message, bool) {
	if !s.eventsMu.TryLock() {
		s.violation("message stack")
		return nil, false
	}
	defer s.eventsMu.Unlock()
	n := len(s.events)
	if n == 0 {
		return nil, false
	}
	m := s.events[n-1]
	s.events[n-1] = nil
	s.events = s.events[:n-1]
	return m, true
}

func (s *Scheduler) pending() int {
	if !s.eventsMu.TryLock() {
		s.violation("message stack")
		return 0
	}
	defer s.eventsMu.Unlock()
	return len(s.events)
}

func (s *Scheduler) violation(what string) {
	s.fatalf("sched: %s accessed while exclusively held; state is no longer trustworthy", what)
}
