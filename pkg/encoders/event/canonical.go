package event

import (
	"lantern.dev/pkg/crypto/p256k"
	"lantern.dev/pkg/crypto/sha256"
	"lantern.dev/pkg/encoders/bytesbuf"
	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/encoders/text"
	"lantern.dev/pkg/interfaces/signer"
	"lantern.dev/pkg/utils"
	"lantern.dev/pkg/utils/chk"
)

// ToCanonical appends the canonical form of the event to dst: the JSON
// array
//
//	[0,"<pubkey>",<created_at>,<kind>,<tags>,"<content>"]
//
// with no whitespace between separators. The SHA256 of this form is the
// event id.
func (ev *E) ToCanonical(dst []byte) (b []byte) {
	b = append(dst, '[', '0', ',')
	b = text.AppendQuote(b, ev.Pubkey, hex.EncAppend)
	b = append(b, ',')
	b = ev.CreatedAt.Marshal(b)
	b = append(b, ',')
	b = ev.Kind.Marshal(b)
	b = append(b, ',')
	b = ev.Tags.Marshal(b)
	b = append(b, ',')
	b = text.AppendQuote(b, ev.Content, text.NostrEscape)
	b = append(b, ']')
	return
}

// GetIDBytes computes the event id from the canonical form. The scratch
// buffer is pooled; only the hash escapes.
func (ev *E) GetIDBytes() (id []byte) {
	buf := ev.ToCanonical(bytesbuf.Get())
	id = sha256.Hash(buf)
	bytesbuf.Put(buf)
	return
}

// Sign computes the id of the event and signs it with the provided signer,
// filling in the Pubkey, Id and Sig fields.
func (ev *E) Sign(sign signer.I) (err error) {
	ev.Pubkey = sign.Pub()
	ev.Id = ev.GetIDBytes()
	if ev.Sig, err = sign.Sign(ev.Id); chk.E(err) {
		return
	}
	return
}

// Verify checks that the event id matches the canonical form and that the
// signature verifies under the event pubkey. A malformed pubkey or
// signature yields ok=false rather than an error, as these are author
// mistakes, not failures of the relay.
func (ev *E) Verify() (ok bool, err error) {
	if !utils.FastEqual(ev.Id, ev.GetIDBytes()) {
		return
	}
	var v signer.I = &p256k.Signer{}
	if err = v.InitPub(ev.Pubkey); chk.D(err) {
		err = nil
		return
	}
	if ok, err = v.Verify(ev.Id, ev.Sig); chk.D(err) {
		err = nil
		return
	}
	return
}
