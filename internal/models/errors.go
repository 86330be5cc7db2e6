package models

import "errors"

// Precondition errors, returned by the validated order-construction path
// rather than panicking deep inside the matching loop. NewOrder only builds
// real orders, so it never returns ErrVirtualOrderCrossMatch; MatchOrPut
// reports that case as a PreconditionViolation panic instead.
var (
	ErrInvalidOutcomeIndex    = errors.New("outcome index out of range")
	ErrVirtualOrderCrossMatch = errors.New("virtual order submitted with cross-matching enabled")
	ErrNonPositiveStake       = errors.New("backer stake must be positive")
	ErrNonPositivePrice       = errors.New("price must be positive")
	ErrTooFewOutcomes         = errors.New("order book requires at least two outcomes")
)

// InvariantViolation is panicked when the book's internal state contradicts
// an invariant that must hold unconditionally (see the core invariants in
// the matching engine documentation) — a virtual order found resting
// partially matched, or two virtual orders matched against each other. The
// book is considered corrupt once this fires; nothing retries it.
type InvariantViolation struct {
	Reason string
}

func (e InvariantViolation) Error() string {
	return "matching engine invariant violated: " + e.Reason
}

// PreconditionViolation is panicked by OrderBook.MatchOrPut itself, for the
// two preconditions that are the caller's direct responsibility at the call
// site rather than at order construction: an out-of-range outcome index, and
// a virtual order submitted with cross-matching enabled. Both indicate a bug
// in the caller, not a reachable runtime condition.
type PreconditionViolation struct {
	Reason string
}

func (e PreconditionViolation) Error() string {
	return "matching engine precondition violated: " + e.Reason
}
