package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern.dev/pkg/crypto/p256k"
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/encoders/tags"
	"lantern.dev/pkg/encoders/timestamp"
	"lantern.dev/pkg/interfaces/signer"
)

const relayURL = "wss://relay.example.com"

func signedResponse(
	t *testing.T, sign signer.I, challenge []byte, url string,
) (ev *event.E) {
	ev = CreateUnsigned(sign.Pub(), challenge, url)
	require.NoError(t, ev.Sign(sign))
	return
}

func TestValidateAccepts(t *testing.T) {
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	challenge := GenerateChallenge()
	ev := signedResponse(t, sign, challenge, relayURL)
	ok, err := Validate(ev, challenge, 0, relayURL)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidateAcceptsHostMatchAcrossSchemes(t *testing.T) {
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	challenge := GenerateChallenge()
	// clients commonly echo the URL with an https scheme or a trailing
	// slash; only the host is significant
	ev := signedResponse(
		t, sign, challenge, "https://relay.example.com/",
	)
	ok, err := Validate(ev, challenge, 0, relayURL)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidateRejectsWrongChallenge(t *testing.T) {
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	ev := signedResponse(t, sign, GenerateChallenge(), relayURL)
	ok, err := Validate(ev, GenerateChallenge(), 0, relayURL)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestValidateRejectsWrongRelay(t *testing.T) {
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	challenge := GenerateChallenge()
	ev := signedResponse(t, sign, challenge, "wss://other.example.com")
	ok, err := Validate(ev, challenge, 0, relayURL)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestValidateRejectsWrongKind(t *testing.T) {
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	challenge := GenerateChallenge()
	ev := signedResponse(t, sign, challenge, relayURL)
	ev.Kind = kind.TextNote
	require.NoError(t, ev.Sign(sign))
	ok, err := Validate(ev, challenge, 0, relayURL)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestValidateRejectsStale(t *testing.T) {
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	challenge := GenerateChallenge()
	ev := CreateUnsigned(sign.Pub(), challenge, relayURL)
	ev.CreatedAt = timestamp.New(time.Now().Add(-time.Hour).Unix())
	require.NoError(t, ev.Sign(sign))
	ok, err := Validate(ev, challenge, 10*time.Minute, relayURL)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestValidateRejectsBadSignature(t *testing.T) {
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	challenge := GenerateChallenge()
	ev := signedResponse(t, sign, challenge, relayURL)
	ev.Sig[0] ^= 0xff
	ok, err := Validate(ev, challenge, 0, relayURL)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPrivilege(t *testing.T) {
	author := &p256k.Signer{}
	require.NoError(t, author.Generate())
	recipient := &p256k.Signer{}
	require.NoError(t, recipient.Generate())
	other := &p256k.Signer{}
	require.NoError(t, other.Generate())
	dm := &event.E{
		Pubkey:    author.Pub(),
		Kind:      kind.EncryptedDirect,
		CreatedAt: timestamp.Now(),
		Tags: tags.New(
			tag.New("p", hex.Enc(recipient.Pub())),
		),
	}
	note := &event.E{
		Pubkey:    author.Pub(),
		Kind:      kind.TextNote,
		CreatedAt: timestamp.Now(),
		Tags:      tags.New(),
	}
	assert.True(t, CheckPrivilege(nil, note),
		"plain kinds are readable without auth")
	assert.False(t, CheckPrivilege(nil, dm))
	assert.True(t, CheckPrivilege(author.Pub(), dm))
	assert.True(t, CheckPrivilege(recipient.Pub(), dm))
	assert.False(t, CheckPrivilege(other.Pub(), dm))
}
