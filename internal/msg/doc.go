// Package msg defines the message contracts routed through the scheduler.
//
// Allowed here:
// - the Message envelope and its two targets (controller, view)
// - controller and view payload variants
// - shared presentation types carried inside payloads (Item, Route)
//
// Not allowed here:
// - any behavior; payloads are plain data, handled by their collaborator
package msg
