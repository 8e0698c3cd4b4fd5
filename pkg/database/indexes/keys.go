// Package indexes defines the badger key layout of the event store.
//
// Every index key ends with the big-endian 8 byte serial of the event it
// refers to, so a prefix scan yields serials directly without touching
// values. Timestamps are big-endian so lexical key order is chronological
// order.
package indexes

import (
	"encoding/binary"

	"lantern.dev/pkg/crypto/sha256"
)

// Key prefixes. The event record and the id lookup are the only keys
// carrying values; all others are pure index keys.
var (
	// Event is the event record: ev: + serial -> msgpack event.
	Event = []byte("ev:")
	// Id is the id lookup: id: + id(32) -> serial.
	Id = []byte("id:")
	// CreatedAt orders all events by time: ca: + ts + serial.
	CreatedAt = []byte("ca:")
	// Pubkey orders an author's events by time: pk: + pubkey(32) + ts +
	// serial.
	Pubkey = []byte("pk:")
	// Kind orders a kind's events by time: ki: + kind(2) + ts + serial.
	Kind = []byte("ki:")
	// PubkeyKind orders an author's events of one kind by time:
	// pkk: + pubkey(32) + kind(2) + ts + serial.
	PubkeyKind = []byte("pkk:")
	// Tag orders events carrying an indexed tag value by time:
	// tg: + name(1) + valuehash(8) + ts + serial.
	Tag = []byte("tg:")
	// Tombstone marks an id as deleted: tomb: + id(32) -> deletion ts.
	Tombstone = []byte("tomb:")
	// AddrTombstone marks an address as deleted up to a timestamp:
	// atomb: + kind(2) + pubkey(32) + dtaghash(8) -> deletion ts.
	AddrTombstone = []byte("atomb:")
)

// SerialLen is the length of the big-endian serial suffix on index keys.
const SerialLen = 8

// ValueHashLen is the length of the truncated hash identifying a tag
// value or d tag inside a key.
const ValueHashLen = 8

// Uint64b encodes a uint64 big-endian.
func Uint64b(v uint64) (b []byte) {
	b = make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return
}

// ParseUint64 decodes a big-endian uint64.
func ParseUint64(b []byte) (v uint64) { return binary.BigEndian.Uint64(b) }

// ValueHash returns the truncated SHA256 of a tag value, fixing the key
// length regardless of how large the value is.
func ValueHash(v []byte) (h []byte) {
	s := sha256.Sum256(v)
	return s[:ValueHashLen]
}

// EventKey returns the record key of a serial.
func EventKey(ser uint64) (k []byte) {
	k = append(k, Event...)
	return append(k, Uint64b(ser)...)
}

// IdKey returns the id lookup key of an event id.
func IdKey(id []byte) (k []byte) {
	k = append(k, Id...)
	return append(k, id...)
}

// CreatedAtKey returns the time index key of an event.
func CreatedAtKey(ts int64, ser uint64) (k []byte) {
	k = append(k, CreatedAt...)
	k = append(k, Uint64b(uint64(ts))...)
	return append(k, Uint64b(ser)...)
}

// PubkeyKey returns the author index key of an event.
func PubkeyKey(pubkey []byte, ts int64, ser uint64) (k []byte) {
	k = append(k, Pubkey...)
	k = append(k, pubkey...)
	k = append(k, Uint64b(uint64(ts))...)
	return append(k, Uint64b(ser)...)
}

// KindKey returns the kind index key of an event.
func KindKey(kind uint16, ts int64, ser uint64) (k []byte) {
	k = append(k, Kind...)
	k = binary.BigEndian.AppendUint16(k, kind)
	k = append(k, Uint64b(uint64(ts))...)
	return append(k, Uint64b(ser)...)
}

// PubkeyKindKey returns the author+kind index key of an event.
func PubkeyKindKey(pubkey []byte, kind uint16, ts int64, ser uint64) (
	k []byte,
) {
	k = append(k, PubkeyKind...)
	k = append(k, pubkey...)
	k = binary.BigEndian.AppendUint16(k, kind)
	k = append(k, Uint64b(uint64(ts))...)
	return append(k, Uint64b(ser)...)
}

// TagKey returns the indexed tag key of one tag of an event.
func TagKey(name byte, value []byte, ts int64, ser uint64) (k []byte) {
	k = append(k, Tag...)
	k = append(k, name)
	k = append(k, ValueHash(value)...)
	k = append(k, Uint64b(uint64(ts))...)
	return append(k, Uint64b(ser)...)
}

// TombstoneKey returns the deleted-id tombstone key of an event id.
func TombstoneKey(id []byte) (k []byte) {
	k = append(k, Tombstone...)
	return append(k, id...)
}

// AddrTombstoneKey returns the deleted-address tombstone key of an
// addressable event coordinate.
func AddrTombstoneKey(kind uint16, pubkey, dTag []byte) (k []byte) {
	k = append(k, AddrTombstone...)
	k = binary.BigEndian.AppendUint16(k, kind)
	k = append(k, pubkey...)
	return append(k, ValueHash(dTag)...)
}

// SerialFromKey extracts the trailing serial of an index key.
func SerialFromKey(key []byte) (ser uint64) {
	return ParseUint64(key[len(key)-SerialLen:])
}

// TsFromKey extracts the timestamp preceding the trailing serial of an
// index key.
func TsFromKey(key []byte) (ts int64) {
	return int64(ParseUint64(key[len(key)-SerialLen*2 : len(key)-SerialLen]))
}
