// Package negentropy implements the NIP-77 set reconciliation dialogue
// from the relay's side: the id list codec exchanged in NEG messages and
// the per-connection session table.
package negentropy

import (
	"bytes"
	"sort"

	"lantern.dev/pkg/crypto/sha256"
	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/encoders/varint"
	"lantern.dev/pkg/utils/errorf"
)

// IdList is a set of event ids exchanged during reconciliation. The
// binary encoding is a varint count followed by the ids concatenated in
// ascending order; on the wire it travels hex encoded.
type IdList [][]byte

// Sort orders the list ascending, the canonical encoding order.
func (l IdList) Sort() {
	sort.Slice(l, func(i, j int) bool { return bytes.Compare(l[i], l[j]) < 0 })
}

// Marshal appends the binary encoding of the list to dst, sorting it
// first so equal sets encode identically.
func (l IdList) Marshal(dst []byte) (b []byte) {
	l.Sort()
	b = varint.Append(dst, uint64(len(l)))
	for _, id := range l {
		b = append(b, id...)
	}
	return
}

// MarshalHex renders the list in its wire form.
func (l IdList) MarshalHex() (b []byte) {
	return hex.EncAppend(nil, l.Marshal(nil))
}

// Unmarshal decodes a binary id list. The count must match the payload
// length exactly and every id must be 32 bytes. The count is compared by
// division so an absurd value cannot wrap the length check and drive an
// allocation.
func Unmarshal(b []byte) (l IdList, err error) {
	var count uint64
	if count, b, err = varint.Extract(b); err != nil {
		return
	}
	if uint64(len(b))%sha256.Size != 0 || count != uint64(len(b))/sha256.Size {
		err = errorf.E(
			"id list length %d does not match count %d", len(b), count,
		)
		return
	}
	l = make(IdList, 0, len(b)/sha256.Size)
	for len(b) > 0 {
		l = append(l, b[:sha256.Size])
		b = b[sha256.Size:]
	}
	return
}

// UnmarshalHex decodes an id list from its wire form.
func UnmarshalHex(b []byte) (l IdList, err error) {
	var raw []byte
	if raw, err = hex.Dec(string(b)); err != nil {
		err = errorf.E("id list is not valid hex: %v", err)
		return
	}
	return Unmarshal(raw)
}

// Diff returns the ids present in l but missing from other.
func (l IdList) Diff(other IdList) (needs IdList) {
	seen := make(map[string]struct{}, len(other))
	for _, id := range other {
		seen[string(id)] = struct{}{}
	}
	for _, id := range l {
		if _, ok := seen[string(id)]; !ok {
			needs = append(needs, id)
		}
	}
	return
}
