// Package sched contains the message scheduler that serializes every
// mutation of shared application state.
//
// The scheduler owns a stack of messages and a running flag. Any producer
// (bootstrap, a key handler, or a collaborator invoked by the scheduler
// itself) may call Enqueue; if no drain is active one starts, otherwise the
// message is picked up by the drain already executing further down the call
// stack. Draining is strictly single-threaded and synchronous: a dispatch
// handler that enqueues re-enters the loop by direct recursion, never by a
// new goroutine.
//
// Messages are popped last-in-first-out. That is an inherited, deliberate
// contract: a message enqueued during the handling of another is processed
// before anything that was already waiting.
//
// The stack and the running flag are guarded by try-locks. Under correct
// single-threaded use a guard can never be contended, so a failed try-lock
// means the exclusivity invariant is broken and the process aborts with a
// diagnostic rather than continuing on untrustworthy state.
package sched
