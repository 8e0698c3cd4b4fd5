// Package event provides a codec for nostr events: the JSON wire format
// with id and signature, and the canonical form that is hashed to produce
// the id.
package event

import (
	"lukechampine.com/frand"

	"lantern.dev/pkg/encoders/eventid"
	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/encoders/tags"
	"lantern.dev/pkg/encoders/timestamp"
	"lantern.dev/pkg/interfaces/signer"
	"lantern.dev/pkg/utils/chk"
)

// E is the primary datatype of nostr. Binary fields are held as raw bytes
// and only hex-encoded at the JSON boundary.
type E struct {

	// Id is the SHA256 hash of the canonical encoding of the event.
	Id []byte

	// Pubkey is the BIP-340 x-only public key of the event creator.
	Pubkey []byte

	// CreatedAt is the UNIX timestamp of the event according to the event
	// creator (never trust a timestamp!)
	CreatedAt *timestamp.T

	// Kind is the nostr protocol code for the type of event. See kind.T
	Kind *kind.T

	// Tags are a list of tags, which are a list of strings usually
	// structured as a 3 layer scheme indicating specific features of an
	// event.
	Tags *tags.T

	// Content is an arbitrary string, usually conforming to a
	// specification relating to the Kind and the Tags.
	Content []byte

	// Sig is the signature on the Id hash that validates as coming from
	// the Pubkey.
	Sig []byte
}

// S is a slice of events that sorts in reverse chronological order, ties
// broken by id ascending.
type S []*E

func (ev S) Len() int { return len(ev) }
func (ev S) Less(i, j int) bool {
	if ev[i].CreatedAt.I64() != ev[j].CreatedAt.I64() {
		return ev[i].CreatedAt.I64() > ev[j].CreatedAt.I64()
	}
	return ev[i].IdString() < ev[j].IdString()
}
func (ev S) Swap(i, j int) { ev[i], ev[j] = ev[j], ev[i] }

// C is a channel that carries event.E.
type C chan *E

// New makes a new event.E.
func New() (ev *E) { return &E{} }

// Serialize renders an event.E into minified JSON.
func (ev *E) Serialize() (b []byte) { return ev.Marshal(nil) }

// EventId returns the event.E Id as an eventid.T.
func (ev *E) EventId() (eid *eventid.T) { return eventid.NewWith(ev.Id) }

// IdString returns the event Id as a hex-encoded string.
func (ev *E) IdString() (s string) { return hex.Enc(ev.Id) }

// PubKeyString returns the pubkey as a hex-encoded string.
func (ev *E) PubKeyString() (s string) { return hex.Enc(ev.Pubkey) }

// ContentString returns the content field as a string.
func (ev *E) ContentString() (s string) { return string(ev.Content) }

// DTag returns the value of the first d tag, or an empty string when the
// event carries none. This is the discriminator of addressable events.
func (ev *E) DTag() (d []byte) {
	t := ev.Tags.GetFirst(tag.New([]byte("d")))
	if t == nil || t.Len() < 2 {
		return []byte{}
	}
	return t.Value()
}

// IsProtected reports whether the event carries the NIP-70 ["-"] tag.
func (ev *E) IsProtected() (is bool) {
	for _, t := range ev.Tags.ToSliceOfTags() {
		if t.Len() == 1 && len(t.Key()) == 1 && t.Key()[0] == '-' {
			return true
		}
	}
	return
}

// GenerateRandomTextNoteEvent creates a signed kind 1 event with random
// text content, for tests and benchmarks.
func GenerateRandomTextNoteEvent(sign signer.I, maxSize int) (
	ev *E, err error,
) {
	l := frand.Intn(maxSize)
	content := make([]byte, l)
	const alphabet = "abcdefghijklmnopqrstuvwxyz \n"
	for i := range content {
		content[i] = alphabet[frand.Intn(len(alphabet))]
	}
	ev = &E{
		Pubkey:    sign.Pub(),
		Kind:      kind.TextNote,
		CreatedAt: timestamp.Now(),
		Content:   content,
		Tags:      tags.New(),
	}
	if err = ev.Sign(sign); chk.E(err) {
		return
	}
	return
}
