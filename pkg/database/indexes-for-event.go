package database

import (
	"lantern.dev/pkg/database/indexes"
	"lantern.dev/pkg/encoders/event"
)

// indexKeysForEvent generates every pure index key of an event. The
// record and id lookup keys are handled separately because they carry
// values. Only single letter tag names are indexed, matching the #x
// filter form.
func indexKeysForEvent(ev *event.E, ser uint64) (keys [][]byte) {
	ts := ev.CreatedAt.I64()
	keys = append(keys, indexes.CreatedAtKey(ts, ser))
	keys = append(keys, indexes.PubkeyKey(ev.Pubkey, ts, ser))
	keys = append(keys, indexes.KindKey(ev.Kind.K, ts, ser))
	keys = append(keys, indexes.PubkeyKindKey(ev.Pubkey, ev.Kind.K, ts, ser))
	for _, t := range ev.Tags.ToSliceOfTags() {
		if t.Len() < 2 || len(t.Key()) != 1 {
			continue
		}
		keys = append(keys, indexes.TagKey(t.Key()[0], t.Value(), ts, ser))
	}
	return
}
