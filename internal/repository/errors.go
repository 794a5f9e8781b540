package repository

import "errors"

// Domain errors surfaced by the store layer. Driver-level failures are never
// leaked past this package; anything not recognized below propagates as an
// opaque internal error.
var (
	// ErrNotFound is a lookup miss; callers must not conflate it with a
	// version conflict.
	ErrNotFound = errors.New("record not found")

	// ErrRecordConflict is an optimistic-concurrency failure: the presented
	// record version no longer matches the stored one.
	ErrRecordConflict = errors.New("record version conflict")

	// ErrItemNotPending is returned when a decision targets an item that has
	// already been decided.
	ErrItemNotPending = errors.New("item has already been decided")

	// ErrPendingItemsRemain blocks closing a purchase order that still has
	// undecided items.
	ErrPendingItemsRemain = errors.New("purchase order has pending items")

	// ErrAlreadyClosed is returned on attempts to close a closed purchase
	// order; no transition out of Closed exists.
	ErrAlreadyClosed = errors.New("purchase order is already closed")
)
