package database

import (
	"sort"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"

	"lantern.dev/pkg/database/indexes"
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/filter"
	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/context"
	"lantern.dev/pkg/utils/log"
)

// isExpired reports whether an event carries a NIP-40 expiration tag in
// the past.
func isExpired(ev *event.E) (expired bool) {
	t := ev.Tags.GetFirst(tag.New("expiration"))
	if t == nil || t.Len() < 2 {
		return
	}
	exp, err := strconv.ParseInt(string(t.Value()), 10, 64)
	if err != nil {
		return
	}
	return exp <= time.Now().Unix()
}

// QueryEvents returns the stored events matching a filter in reverse
// chronological order, ties broken by id ascending. Expired events are
// excluded from the results and purged afterwards.
func (d *D) QueryEvents(c context.T, f *filter.F) (
	evs event.S, err error,
) {
	var expired []uint64
	err = d.View(
		func(txn *badger.Txn) (err error) {
			var sers []uint64
			if sers, err = queryForSerials(txn, f); chk.E(err) {
				return
			}
			for _, ser := range sers {
				var ev *event.E
				if ev, err = fetchEventBySerial(txn, ser); err != nil {
					// index keys can outlive a record mid-replacement
					err = nil
					continue
				}
				if isExpired(ev) {
					expired = append(expired, ser)
					continue
				}
				if f.Matches(ev) {
					evs = append(evs, ev)
				}
			}
			return
		},
	)
	if err != nil {
		return
	}
	sort.Sort(evs)
	if f.Limit != nil && uint(len(evs)) > *f.Limit {
		evs = evs[:*f.Limit]
	}
	if len(expired) > 0 {
		go func() {
			chk.E(d.deleteSerials(expired))
		}()
	}
	return
}

// queryForSerials plans a filter into index scans and returns the
// deduplicated candidate serials. Candidates are a superset; the caller
// re-checks each event against the filter.
func queryForSerials(txn *badger.Txn, f *filter.F) (
	sers []uint64, err error,
) {
	seen := map[uint64]struct{}{}
	add := func(ser uint64) {
		if _, ok := seen[ser]; !ok {
			seen[ser] = struct{}{}
			sers = append(sers, ser)
		}
	}
	// ids override everything else
	if f.Ids.Len() > 0 {
		for _, p := range f.Ids.ToSliceOfBytes() {
			var raw []byte
			if raw, err = hex.Dec(string(p[:len(p)&^1])); err != nil {
				err = nil
				continue
			}
			prefix := append([]byte{}, indexes.Id...)
			prefix = append(prefix, raw...)
			it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
			for it.Rewind(); it.Valid(); it.Next() {
				var ser uint64
				if err = it.Item().Value(
					func(val []byte) (err error) {
						ser = indexes.ParseUint64(val)
						return
					},
				); chk.E(err) {
					it.Close()
					return
				}
				add(ser)
			}
			it.Close()
		}
		return
	}
	var since, until int64 = 0, 1<<63 - 1
	if f.Since != nil {
		since = f.Since.I64()
	}
	if f.Until != nil {
		until = f.Until.I64()
	}
	scan := func(prefix []byte) (err error) {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			ts := indexes.TsFromKey(key)
			if ts < since || ts > until {
				continue
			}
			add(indexes.SerialFromKey(key))
		}
		return
	}
	fullAuthors := rawAuthors(f)
	switch {
	case len(fullAuthors) > 0 && f.Kinds.Len() > 0:
		for _, pk := range fullAuthors {
			for _, k := range f.Kinds.K {
				p := indexes.PubkeyKindKey(pk, k.K, 0, 0)
				if err = scan(
					p[:len(p)-indexes.SerialLen*2],
				); chk.E(err) {
					return
				}
			}
		}
	case f.Authors.Len() > 0:
		for _, a := range f.Authors.ToSliceOfBytes() {
			var raw []byte
			if raw, err = hex.Dec(string(a[:len(a)&^1])); err != nil {
				err = nil
				continue
			}
			p := append([]byte{}, indexes.Pubkey...)
			p = append(p, raw...)
			if err = scan(p); chk.E(err) {
				return
			}
		}
	case f.Tags.Len() > 0 && firstIndexedTag(f) != nil:
		tf := firstIndexedTag(f)
		for _, v := range tf.ToSliceOfBytes()[1:] {
			p := indexes.TagKey(tf.Key()[0], v, 0, 0)
			if err = scan(p[:len(p)-indexes.SerialLen*2]); chk.E(err) {
				return
			}
		}
	case f.Kinds.Len() > 0:
		for _, k := range f.Kinds.K {
			p := indexes.KindKey(k.K, 0, 0)
			if err = scan(p[:len(p)-indexes.SerialLen*2]); chk.E(err) {
				return
			}
		}
	default:
		if err = scan(indexes.CreatedAt); chk.E(err) {
			return
		}
	}
	return
}

// rawAuthors returns the decoded authors of a filter when every entry is
// a full length pubkey, nil otherwise. Only full pubkeys can use the
// author+kind index.
func rawAuthors(f *filter.F) (raw [][]byte) {
	for _, a := range f.Authors.ToSliceOfBytes() {
		if len(a) != 64 {
			return nil
		}
		pk, err := hex.Dec(string(a))
		if err != nil {
			return nil
		}
		raw = append(raw, pk)
	}
	return
}

// firstIndexedTag returns the first tag filter with a single letter name
// and at least one value.
func firstIndexedTag(f *filter.F) (tf *tag.T) {
	for _, t := range f.Tags.ToSliceOfTags() {
		if t.Len() >= 2 && len(t.Key()) == 1 {
			return t
		}
	}
	return
}

// deleteSerials removes a batch of events by serial.
func (d *D) deleteSerials(sers []uint64) (err error) {
	err = d.Update(
		func(txn *badger.Txn) (err error) {
			for _, ser := range sers {
				var ev *event.E
				if ev, err = fetchEventBySerial(txn, ser); err != nil {
					err = nil
					continue
				}
				if err = deleteEventBySerial(txn, ser, ev); chk.E(err) {
					return
				}
				log.D.F("purged expired event %s", ev.IdString())
			}
			return
		},
	)
	return
}
