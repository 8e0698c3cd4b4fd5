package event

import (
	"encoding/json"

	"lantern.dev/pkg/crypto/sha256"
	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/encoders/tags"
	"lantern.dev/pkg/encoders/text"
	"lantern.dev/pkg/encoders/timestamp"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/errorf"
)

var (
	jId        = []byte("id")
	jPubkey    = []byte("pubkey")
	jCreatedAt = []byte("created_at")
	jKind      = []byte("kind")
	jTags      = []byte("tags")
	jContent   = []byte("content")
	jSig       = []byte("sig")
)

// Marshal appends the minified JSON wire form of the event to dst.
func (ev *E) Marshal(dst []byte) (b []byte) {
	b = append(dst, '{')
	b = text.JSONKey(b, jId)
	b = text.AppendQuote(b, ev.Id, hex.EncAppend)
	b = append(b, ',')
	b = text.JSONKey(b, jPubkey)
	b = text.AppendQuote(b, ev.Pubkey, hex.EncAppend)
	b = append(b, ',')
	b = text.JSONKey(b, jCreatedAt)
	b = ev.CreatedAt.Marshal(b)
	b = append(b, ',')
	b = text.JSONKey(b, jKind)
	b = ev.Kind.Marshal(b)
	b = append(b, ',')
	b = text.JSONKey(b, jTags)
	b = ev.Tags.Marshal(b)
	b = append(b, ',')
	b = text.JSONKey(b, jContent)
	b = text.AppendQuote(b, ev.Content, text.NostrEscape)
	b = append(b, ',')
	b = text.JSONKey(b, jSig)
	b = text.AppendQuote(b, ev.Sig, hex.EncAppend)
	b = append(b, '}')
	return
}

// J is an event expressed in the basic types that encoding/json works with
// directly. It is the decode side of the wire codec; the encode side is the
// hand-rolled Marshal above, which must stay byte-exact with the canonical
// serialization rules.
type J struct {
	Id        string     `json:"id"`
	Pubkey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int        `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig"`
}

// ToEventJ converts an event.E into an event.J.
func (ev *E) ToEventJ() (j *J) {
	return &J{
		Id:        ev.IdString(),
		Pubkey:    ev.PubKeyString(),
		CreatedAt: ev.CreatedAt.I64(),
		Kind:      int(ev.Kind.K),
		Tags:      ev.Tags.ToStringsSlice(),
		Content:   ev.ContentString(),
		Sig:       hex.Enc(ev.Sig),
	}
}

// ToEvent converts an event.J to the native form, validating field lengths
// and ranges.
func (j *J) ToEvent() (ev *E, err error) {
	ev = &E{}
	if len(j.Id) != 2*sha256.Size {
		err = errorf.E(
			"invalid id length, require %d got %d", 2*sha256.Size,
			len(j.Id),
		)
		return
	}
	if ev.Id, err = hex.Dec(j.Id); chk.D(err) {
		return
	}
	if len(j.Pubkey) != 64 {
		err = errorf.E(
			"invalid pubkey length, require 64 got %d", len(j.Pubkey),
		)
		return
	}
	if ev.Pubkey, err = hex.Dec(j.Pubkey); chk.D(err) {
		return
	}
	if j.CreatedAt < 0 {
		err = errorf.E("created_at may not be negative: %d", j.CreatedAt)
		return
	}
	ev.CreatedAt = timestamp.FromUnix(j.CreatedAt)
	if j.Kind < 0 || j.Kind > 65535 {
		err = errorf.E("kind out of range 0-65535: %d", j.Kind)
		return
	}
	ev.Kind = kind.New(j.Kind)
	ev.Tags = tags.NewWithCap(len(j.Tags))
	for _, t := range j.Tags {
		if len(t) == 0 {
			err = errorf.E("tags may not be empty lists")
			return
		}
		ev.Tags.AppendTags(tag.New(t...))
	}
	ev.Content = []byte(j.Content)
	if len(j.Sig) != 128 {
		err = errorf.E(
			"invalid sig length, require 128 got %d", len(j.Sig),
		)
		return
	}
	if ev.Sig, err = hex.Dec(j.Sig); chk.D(err) {
		return
	}
	return
}

// Unmarshal decodes the JSON wire form of an event into the event.E.
func (ev *E) Unmarshal(b []byte) (err error) {
	j := &J{}
	if err = json.Unmarshal(b, j); chk.D(err) {
		return
	}
	var decoded *E
	if decoded, err = j.ToEvent(); err != nil {
		return
	}
	*ev = *decoded
	return
}
