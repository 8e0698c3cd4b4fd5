// Package auth implements the NIP-42 authentication handshake from the
// relay's side: challenge generation and validation of the kind 22242
// response event.
package auth

import (
	"net/url"
	"time"

	"lukechampine.com/frand"

	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/encoders/tags"
	"lantern.dev/pkg/encoders/timestamp"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/errorf"
	"lantern.dev/pkg/utils/normalize"
)

// ChallengeLen is the byte length of a generated challenge before hex
// encoding.
const ChallengeLen = 16

// DefaultMaxAge is how far an auth event's created_at may sit from now
// when no configured value applies.
const DefaultMaxAge = 10 * time.Minute

// Tags of a NIP-42 auth event.
var (
	// ChallengeTag carries the relay-issued challenge, preventing replay.
	ChallengeTag = []byte("challenge")
	// RelayTag carries the relay URL, preventing cross-relay replay.
	RelayTag = []byte("relay")
)

// GenerateChallenge creates a random hex challenge string.
func GenerateChallenge() (b []byte) {
	return hex.EncAppend(nil, frand.Bytes(ChallengeLen))
}

// CreateUnsigned creates the event a client should sign and send via an
// AUTH message to authenticate as a pubkey.
func CreateUnsigned(pubkey, challenge []byte, relayURL string) (ev *event.E) {
	return &event.E{
		Pubkey:    pubkey,
		CreatedAt: timestamp.Now(),
		Kind:      kind.ClientAuthentication,
		Tags: tags.New(
			tag.New("relay", relayURL),
			tag.New("challenge", string(challenge)),
		),
	}
}

func parseURL(input string) (u *url.URL, err error) {
	return url.Parse(normalize.URL(input))
}

// Validate checks whether an event is a valid NIP-42 auth response for
// the given challenge and one of the relay's configured URLs: correct
// kind, matching challenge tag, relay tag host matching a configured URL,
// created_at within maxAge of now, and a valid signature. The failure
// cause is returned in err with ok false.
func Validate(
	evt *event.E, challenge []byte, maxAge time.Duration, relayURLs ...string,
) (ok bool, err error) {
	if evt.Kind.K != kind.ClientAuthentication.K {
		err = errorf.E(
			"event has incorrect kind for auth: %d", evt.Kind.K,
		)
		return
	}
	if evt.Tags.GetFirst(tag.New(ChallengeTag, challenge)) == nil {
		err = errorf.E("challenge tag missing from auth response")
		return
	}
	rt := evt.Tags.GetFirst(tag.New(RelayTag, nil))
	if rt == nil || len(rt.Value()) == 0 {
		err = errorf.E("relay tag missing from auth response")
		return
	}
	var found *url.URL
	if found, err = parseURL(string(rt.Value())); chk.D(err) {
		err = errorf.E("error parsing relay tag url: %v", err)
		return
	}
	var matched bool
	for _, ru := range relayURLs {
		var expected *url.URL
		if expected, err = parseURL(ru); chk.D(err) {
			err = nil
			continue
		}
		if expected.Host == found.Host {
			matched = true
			break
		}
	}
	if !matched {
		err = errorf.E(
			"relay tag host '%s' does not match any relay url", found.Host,
		)
		return
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	now := time.Now()
	if evt.CreatedAt.Time().After(now.Add(maxAge)) ||
		evt.CreatedAt.Time().Before(now.Add(-maxAge)) {
		err = errorf.E(
			"auth event more than %v before or after current time", maxAge,
		)
		return
	}
	// save for last, as it is the most expensive operation
	return evt.Verify()
}
