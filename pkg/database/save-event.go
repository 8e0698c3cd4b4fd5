package database

import (
	"bytes"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"lantern.dev/pkg/database/indexes"
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/interfaces/store"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/context"
	"lantern.dev/pkg/utils/log"
)

// SaveEvent persists an event and its indexes, applying the replacement
// rule of its kind class. A stored duplicate id returns
// store.ErrDuplicate; an event older than the stored version of its
// replaceable coordinate returns store.ErrSuperseded; a tombstoned id or
// address returns store.ErrDeleted.
func (d *D) SaveEvent(c context.T, ev *event.E) (err error) {
	err = d.Update(
		func(txn *badger.Txn) (err error) {
			var found bool
			if _, found, err = getSerialById(txn, ev.Id); chk.E(err) {
				return
			}
			if found {
				return store.ErrDuplicate
			}
			if found, err = hasTombstone(txn, ev); chk.E(err) {
				return
			}
			if found {
				return store.ErrDeleted
			}
			replaceable := ev.Kind.IsReplaceable() ||
				ev.Kind.IsParameterizedReplaceable()
			if replaceable {
				var curSer uint64
				var curEv *event.E
				if curSer, curEv, err = findCoordinate(
					txn, ev,
				); chk.E(err) {
					return
				}
				if curEv != nil {
					if !incomingWins(ev, curEv) {
						return store.ErrSuperseded
					}
					if err = deleteEventBySerial(
						txn, curSer, curEv,
					); chk.E(err) {
						return
					}
				}
			}
			var serial uint64
			if serial, err = d.seq.Next(); chk.E(err) {
				return
			}
			var rec []byte
			if rec, err = marshalRecord(ev); chk.E(err) {
				return
			}
			if err = txn.Set(
				indexes.IdKey(ev.Id), indexes.Uint64b(serial),
			); chk.E(err) {
				return
			}
			if err = txn.Set(indexes.EventKey(serial), rec); chk.E(err) {
				return
			}
			for _, key := range indexKeysForEvent(ev, serial) {
				if err = txn.Set(key, nil); chk.E(err) {
					return
				}
			}
			log.T.F("saved event %s serial %d", ev.IdString(), serial)
			return
		},
	)
	return
}

// hasTombstone reports whether the event id, or its address for
// replaceable kinds, was deleted at or after the event's timestamp. An id
// tombstone records the pubkey that requested the deletion and only binds
// an event by that author; a deletion naming an id the relay never stored
// cannot block another pubkey's event.
func hasTombstone(txn *badger.Txn, ev *event.E) (found bool, err error) {
	var item *badger.Item
	if item, err = txn.Get(indexes.TombstoneKey(ev.Id)); err == nil {
		err = item.Value(
			func(val []byte) (err error) {
				// timestamp, then the deletion author's pubkey
				found = len(val) >= indexes.SerialLen+32 &&
					bytes.Equal(val[len(val)-32:], ev.Pubkey)
				return
			},
		)
		return
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return
	}
	err = nil
	if !ev.Kind.IsReplaceable() && !ev.Kind.IsParameterizedReplaceable() {
		return
	}
	key := indexes.AddrTombstoneKey(ev.Kind.K, ev.Pubkey, ev.DTag())
	if item, err = txn.Get(key); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			err = nil
		}
		return
	}
	// events newer than the address deletion are allowed through
	err = item.Value(
		func(val []byte) (err error) {
			found = ev.CreatedAt.I64() <= int64(indexes.ParseUint64(val))
			return
		},
	)
	return
}

// findCoordinate locates the stored event occupying the replaceable
// coordinate of ev: same author and kind, and for addressable kinds the
// same d tag. Returns a nil event when the coordinate is empty.
func findCoordinate(txn *badger.Txn, ev *event.E) (
	ser uint64, cur *event.E, err error,
) {
	addressable := ev.Kind.IsParameterizedReplaceable()
	dTag := ev.DTag()
	prefix := indexes.PubkeyKindKey(ev.Pubkey, ev.Kind.K, 0, 0)
	prefix = prefix[:len(prefix)-indexes.SerialLen*2]
	it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
	defer it.Close()
	for it.Rewind(); it.Valid(); it.Next() {
		s := indexes.SerialFromKey(it.Item().Key())
		var cand *event.E
		if cand, err = fetchEventBySerial(txn, s); chk.E(err) {
			return
		}
		if addressable && !bytes.Equal(cand.DTag(), dTag) {
			continue
		}
		if cur == nil || incomingWins(cand, cur) {
			ser, cur = s, cand
		}
	}
	return
}

// incomingWins implements the replacement rule: the incoming event
// replaces the current one iff it is newer, or carries the
// lexicographically smaller id at the same timestamp.
func incomingWins(inc, cur *event.E) (wins bool) {
	if inc.CreatedAt.I64() != cur.CreatedAt.I64() {
		return inc.CreatedAt.I64() > cur.CreatedAt.I64()
	}
	return bytes.Compare(inc.Id, cur.Id) < 0
}
