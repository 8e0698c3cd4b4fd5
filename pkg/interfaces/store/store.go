// Package store is the interface a persistence layer for nostr events
// implements, composed so partial implementations can satisfy the parts
// they support.
package store

import (
	"errors"
	"io"

	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/filter"
	"lantern.dev/pkg/utils/context"
)

// Sentinel errors SaveEvent reports so the caller can phrase the OK
// response; none of them indicate a storage failure.
var (
	// ErrDuplicate means the event id is already stored.
	ErrDuplicate = errors.New("event already stored")
	// ErrSuperseded means a newer (or equal-timestamp, lower-id) version
	// of a replaceable or addressable event is already stored.
	ErrSuperseded = errors.New("superseded by a newer replacement")
	// ErrDeleted means the event id or its address carries a tombstone
	// from a prior deletion request.
	ErrDeleted = errors.New("blocked by a deletion tombstone")
)

// I is a persistence layer for nostr events handled by a relay.
type I interface {
	io.Closer
	Pather
	Saver
	Querent
	Counter
	Deleter
	Expirer
	Syncer
	Wiper
}

type Pather interface {
	// Path returns the directory of the database.
	Path() (s string)
}

type Saver interface {
	// SaveEvent persists an event, maintaining the replacement semantics
	// of its kind class. Rejections surface as the sentinel errors above.
	SaveEvent(c context.T, ev *event.E) (err error)
}

type Querent interface {
	// QueryEvents is invoked upon a client's REQ as described in NIP-01.
	// It returns the matching events in reverse chronological order.
	QueryEvents(c context.T, f *filter.F) (evs event.S, err error)
}

type Counter interface {
	// CountEvents returns the number of stored events matching a filter.
	CountEvents(c context.T, f *filter.F) (count int, approx bool, err error)
}

type Deleter interface {
	// ProcessDeletion applies a kind 5 deletion request: it removes the
	// referenced events owned by the deletion's author and records
	// tombstones so they cannot be resubmitted.
	ProcessDeletion(c context.T, ev *event.E) (err error)
}

type Expirer interface {
	// DeleteExpired removes events whose NIP-40 expiration timestamp has
	// passed.
	DeleteExpired() (err error)
}

type Syncer interface {
	// Sync flushes database buffers to disk.
	Sync() (err error)
}

type Wiper interface {
	// Wipe deletes everything in the database.
	Wipe() (err error)
}
