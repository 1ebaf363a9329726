package protocol

import (
	"bytes"
	"unsafe"
)

// Tracker is a type-erased mutation tracker around one decoded message.
// A tracker belongs to a single goroutine while handlers run.
type Tracker interface {
	// Message returns the live value. Changes made through it are what
	// IsDirty detects.
	Message() Message

	// IsDirty reports whether the live value differs from the snapshot
	// taken at construction (or at the last Clean).
	IsDirty() bool

	// Clean accepts the live value as the new snapshot.
	Clean()

	// Cancel marks the message as canceled. Forwarding decisions are left to
	// the caller.
	Cancel(reason string)

	// Canceled returns the cancel reason and whether Cancel was called.
	Canceled() (string, bool)
}

// Tracked owns a snapshot of a message and a live copy of it.
//
// The two are compared by their in-memory byte images, so float fields are
// compared by bit pattern (NaN equals itself, -0 differs from +0). Strings
// and pointers compare by header: assigning an equal string from another
// allocation counts as a change. Content behind a pointer or slice is not
// part of the image and is reported through Dirtier.
type Tracked[T any, P interface {
	*T
	Message
}] struct {
	snapshot T
	live     T
	reason   string
	canceled bool
}

// Track moves m into a new tracker. The tracker keeps two independent copies:
// the snapshot, never exposed mutably, and the live value handed to handlers.
func Track[T any, P interface {
	*T
	Message
}](m T) *Tracked[T, P] {
	return &Tracked[T, P]{snapshot: m, live: m}
}

// Live returns a pointer to the live value.
func (t *Tracked[T, P]) Live() *T {
	return &t.live
}

// Message returns the live value as a Message.
func (t *Tracked[T, P]) Message() Message {
	return P(&t.live)
}

// Original returns a copy of the snapshot.
func (t *Tracked[T, P]) Original() T {
	return t.snapshot
}

func (t *Tracked[T, P]) IsDirty() bool {
	if d, ok := any(P(&t.live)).(Dirtier); ok && d.Dirty() {
		return true
	}
	return !bytes.Equal(image(&t.live), image(&t.snapshot))
}

func (t *Tracked[T, P]) Clean() {
	if d, ok := any(P(&t.live)).(Dirtier); ok {
		d.ClearDirty()
	}
	t.snapshot = t.live
}

func (t *Tracked[T, P]) Cancel(reason string) {
	t.reason = reason
	t.canceled = true
}

func (t *Tracked[T, P]) Canceled() (string, bool) {
	return t.reason, t.canceled
}

// image returns the bytes backing *v.
func image[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}
