// Package events defines the events emitted on the in-process bus.
//
// Available event types:
//   - CycleCompleted: a planning cycle finished, successfully or not
package events
