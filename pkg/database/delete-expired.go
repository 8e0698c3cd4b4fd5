package database

import (
	"github.com/dgraph-io/badger/v4"

	"lantern.dev/pkg/database/indexes"
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/log"
)

// DeleteExpired sweeps the whole event table and removes events whose
// NIP-40 expiration timestamp has passed.
func (d *D) DeleteExpired() (err error) {
	var expired []uint64
	err = d.View(
		func(txn *badger.Txn) (err error) {
			it := txn.NewIterator(
				badger.IteratorOptions{Prefix: indexes.Event},
			)
			defer it.Close()
			for it.Rewind(); it.Valid(); it.Next() {
				var ev *event.E
				if err = it.Item().Value(
					func(val []byte) (err error) {
						ev, err = unmarshalRecord(val)
						return
					},
				); chk.E(err) {
					return
				}
				if isExpired(ev) {
					expired = append(
						expired,
						indexes.SerialFromKey(it.Item().Key()),
					)
				}
			}
			return
		},
	)
	if err != nil || len(expired) == 0 {
		return
	}
	log.D.F("purging %d expired events", len(expired))
	return d.deleteSerials(expired)
}
