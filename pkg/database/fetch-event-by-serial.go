package database

import (
	"github.com/dgraph-io/badger/v4"

	"lantern.dev/pkg/database/indexes"
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/utils/chk"
)

// FetchEventBySerial retrieves an event record by its serial. A missing
// record returns badger.ErrKeyNotFound.
func (d *D) FetchEventBySerial(ser uint64) (ev *event.E, err error) {
	err = d.View(
		func(txn *badger.Txn) (err error) {
			ev, err = fetchEventBySerial(txn, ser)
			return
		},
	)
	return
}

func fetchEventBySerial(txn *badger.Txn, ser uint64) (
	ev *event.E, err error,
) {
	var item *badger.Item
	if item, err = txn.Get(indexes.EventKey(ser)); err != nil {
		return
	}
	err = item.Value(
		func(val []byte) (err error) {
			ev, err = unmarshalRecord(val)
			return
		},
	)
	chk.E(err)
	return
}
