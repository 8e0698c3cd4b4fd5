package database

import (
	"github.com/dgraph-io/badger/v4"

	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/filter"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/context"
)

// CountEvents returns the number of stored events matching a filter. The
// count is exact, so approx is always false.
func (d *D) CountEvents(c context.T, f *filter.F) (
	count int, approx bool, err error,
) {
	err = d.View(
		func(txn *badger.Txn) (err error) {
			var sers []uint64
			if sers, err = queryForSerials(txn, f); chk.E(err) {
				return
			}
			for _, ser := range sers {
				var ev *event.E
				if ev, err = fetchEventBySerial(txn, ser); err != nil {
					err = nil
					continue
				}
				if isExpired(ev) {
					continue
				}
				if f.Matches(ev) {
					count++
				}
			}
			return
		},
	)
	return
}
