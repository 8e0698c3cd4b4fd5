package database

import (
	"errors"

	"github.com/dgraph-io/badger/v4"

	"lantern.dev/pkg/database/indexes"
)

// GetSerialById looks up the serial of an event id. found is false when
// the id is not stored.
func (d *D) GetSerialById(id []byte) (ser uint64, found bool, err error) {
	err = d.View(
		func(txn *badger.Txn) (err error) {
			ser, found, err = getSerialById(txn, id)
			return
		},
	)
	return
}

func getSerialById(txn *badger.Txn, id []byte) (
	ser uint64, found bool, err error,
) {
	var item *badger.Item
	if item, err = txn.Get(indexes.IdKey(id)); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			err = nil
		}
		return
	}
	err = item.Value(
		func(val []byte) (err error) {
			ser = indexes.ParseUint64(val)
			return
		},
	)
	found = err == nil
	return
}
