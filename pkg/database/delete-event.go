package database

import (
	"bytes"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"lantern.dev/pkg/database/indexes"
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/context"
	"lantern.dev/pkg/utils/errorf"
	"lantern.dev/pkg/utils/log"
)

// ProcessDeletion applies a kind 5 deletion request. Referenced e tag ids
// owned by the deletion's author are removed and tombstoned; a tag
// coordinates owned by the author are tombstoned up to the deletion's
// timestamp and their stored events at or before it removed. References
// to other authors' events are ignored.
func (d *D) ProcessDeletion(c context.T, ev *event.E) (err error) {
	err = d.Update(
		func(txn *badger.Txn) (err error) {
			ts := indexes.Uint64b(uint64(ev.CreatedAt.I64()))
			for _, t := range ev.Tags.GetAll(tag.New("e")).ToSliceOfTags() {
				var id []byte
				if len(t.Value()) != 64 {
					continue
				}
				if id, err = hex.Dec(string(t.Value())); err != nil {
					err = nil
					continue
				}
				if err = deleteById(txn, id, ev.Pubkey, ts); chk.E(err) {
					return
				}
			}
			for _, t := range ev.Tags.GetAll(tag.New("a")).ToSliceOfTags() {
				var k uint16
				var pk, dTag []byte
				if k, pk, dTag, err = parseAddr(t.Value()); err != nil {
					err = nil
					continue
				}
				if !bytes.Equal(pk, ev.Pubkey) {
					continue
				}
				if err = deleteByAddr(
					txn, k, pk, dTag, ev.CreatedAt.I64(), ts,
				); chk.E(err) {
					return
				}
			}
			return
		},
	)
	return
}

// deleteById removes a stored event when the deletion author owns it, and
// tombstones the id so it cannot be stored later. The tombstone records
// the deletion author; ids never seen by this relay only take effect
// against a later submission by that same author, so a foreign pubkey
// cannot block an event it does not own. Deletion events themselves are
// not deletable.
func deleteById(txn *badger.Txn, id, author, ts []byte) (err error) {
	var ser uint64
	var found bool
	if ser, found, err = getSerialById(txn, id); chk.E(err) {
		return
	}
	if found {
		var target *event.E
		if target, err = fetchEventBySerial(txn, ser); chk.E(err) {
			return
		}
		if !bytes.Equal(target.Pubkey, author) {
			// not the author's event, leave it and write no tombstone
			return
		}
		if target.Kind.K == kind.Deletion.K {
			// deleting a deletion has no effect
			return
		}
		if err = deleteEventBySerial(txn, ser, target); chk.E(err) {
			return
		}
		log.D.F("deleted event %0x by deletion request", id)
	}
	val := make([]byte, 0, len(ts)+len(author))
	val = append(val, ts...)
	val = append(val, author...)
	return txn.Set(indexes.TombstoneKey(id), val)
}

// deleteByAddr tombstones an addressable or replaceable coordinate up to
// the deletion timestamp and removes stored events at or before it.
func deleteByAddr(
	txn *badger.Txn, k uint16, pk, dTag []byte, delTs int64, ts []byte,
) (err error) {
	prefix := indexes.PubkeyKindKey(pk, k, 0, 0)
	prefix = prefix[:len(prefix)-indexes.SerialLen*2]
	var sers []uint64
	var evs []*event.E
	it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
	for it.Rewind(); it.Valid(); it.Next() {
		s := indexes.SerialFromKey(it.Item().Key())
		var cand *event.E
		if cand, err = fetchEventBySerial(txn, s); chk.E(err) {
			it.Close()
			return
		}
		if !bytes.Equal(cand.DTag(), dTag) || cand.CreatedAt.I64() > delTs {
			continue
		}
		sers = append(sers, s)
		evs = append(evs, cand)
	}
	it.Close()
	for i, s := range sers {
		if err = deleteEventBySerial(txn, s, evs[i]); chk.E(err) {
			return
		}
	}
	return txn.Set(indexes.AddrTombstoneKey(k, pk, dTag), ts)
}

// deleteEventBySerial removes an event record, its id lookup and all of
// its index keys.
func deleteEventBySerial(txn *badger.Txn, ser uint64, ev *event.E) (
	err error,
) {
	if err = txn.Delete(indexes.EventKey(ser)); chk.E(err) {
		return
	}
	if err = txn.Delete(indexes.IdKey(ev.Id)); chk.E(err) {
		return
	}
	for _, key := range indexKeysForEvent(ev, ser) {
		if err = txn.Delete(key); chk.E(err) {
			return
		}
	}
	return
}

// parseAddr splits a kind:pubkey:dtag coordinate as found in a tags.
func parseAddr(v []byte) (k uint16, pk, dTag []byte, err error) {
	parts := bytes.SplitN(v, []byte{':'}, 3)
	if len(parts) != 3 {
		err = errorf.E("malformed address: '%s'", v)
		return
	}
	var ki int
	if ki, err = strconv.Atoi(string(parts[0])); err != nil {
		return
	}
	if ki < 0 || ki > 65535 {
		err = errorf.E("address kind out of range: %d", ki)
		return
	}
	k = uint16(ki)
	if len(parts[1]) != 64 {
		err = errorf.E("address pubkey must be 64 hex chars")
		return
	}
	if pk, err = hex.Dec(string(parts[1])); err != nil {
		return
	}
	dTag = parts[2]
	return
}
