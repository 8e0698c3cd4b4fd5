package database

import (
	"github.com/vmihailenco/msgpack/v5"

	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/encoders/tags"
	"lantern.dev/pkg/encoders/timestamp"
	"lantern.dev/pkg/utils/chk"
)

// record is the stored form of an event, msgpack with single letter keys.
type record struct {
	Id        []byte     `msgpack:"i"`
	Pubkey    []byte     `msgpack:"p"`
	CreatedAt int64      `msgpack:"t"`
	Kind      uint16     `msgpack:"k"`
	Tags      [][][]byte `msgpack:"g"`
	Content   []byte     `msgpack:"c"`
	Sig       []byte     `msgpack:"s"`
}

// marshalRecord encodes an event into its stored form.
func marshalRecord(ev *event.E) (b []byte, err error) {
	r := &record{
		Id:        ev.Id,
		Pubkey:    ev.Pubkey,
		CreatedAt: ev.CreatedAt.I64(),
		Kind:      ev.Kind.K,
		Content:   ev.Content,
		Sig:       ev.Sig,
	}
	for _, t := range ev.Tags.ToSliceOfTags() {
		r.Tags = append(r.Tags, t.ToSliceOfBytes())
	}
	if b, err = msgpack.Marshal(r); chk.E(err) {
		return
	}
	return
}

// unmarshalRecord decodes a stored record back into an event.
func unmarshalRecord(b []byte) (ev *event.E, err error) {
	r := &record{}
	if err = msgpack.Unmarshal(b, r); chk.E(err) {
		return
	}
	ev = &event.E{
		Id:        r.Id,
		Pubkey:    r.Pubkey,
		CreatedAt: timestamp.FromUnix(r.CreatedAt),
		Kind:      &kind.T{K: r.Kind},
		Tags:      tags.NewWithCap(len(r.Tags)),
		Content:   r.Content,
		Sig:       r.Sig,
	}
	for _, t := range r.Tags {
		ev.Tags.AppendTags(&tag.T{Field: t})
	}
	return
}
