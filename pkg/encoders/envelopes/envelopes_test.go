package envelopes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern.dev/pkg/crypto/p256k"
	"lantern.dev/pkg/encoders/envelopes"
	"lantern.dev/pkg/encoders/envelopes/eventenvelope"
	"lantern.dev/pkg/encoders/envelopes/okenvelope"
	"lantern.dev/pkg/encoders/envelopes/reqenvelope"
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/filter"
	"lantern.dev/pkg/encoders/filters"
	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/tags"
	"lantern.dev/pkg/encoders/timestamp"
)

func signedNote(t *testing.T, content string) (ev *event.E) {
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	ev = &event.E{
		Kind:      kind.TextNote,
		CreatedAt: timestamp.New(1700000000),
		Content:   []byte(content),
		Tags:      tags.New(),
	}
	require.NoError(t, ev.Sign(sign))
	return
}

func TestIdentifyRejectsMalformed(t *testing.T) {
	for _, b := range []string{
		`{"not":"an array"}`,
		`[]`,
		`[42,"x"]`,
		`["THISLABELISFARTOOLONGTOBEREAL"]`,
	} {
		_, _, err := envelopes.Identify([]byte(b))
		assert.Error(t, err, b)
	}
}

func TestEventSubmissionRoundTrip(t *testing.T) {
	ev := signedNote(t, `quotes "inside" and a
newline`)
	b := eventenvelope.NewSubmissionWith(ev).Marshal(nil)
	label, rest, err := envelopes.Identify(b)
	require.NoError(t, err)
	assert.Equal(t, eventenvelope.L, label)
	en, err := eventenvelope.ParseSubmission(rest)
	require.NoError(t, err)
	assert.Equal(t, ev.Serialize(), en.Event.Serialize())
	ok, err := en.Event.Verify()
	require.NoError(t, err)
	assert.True(t, ok, "signature must survive the round trip")
}

func TestReqRoundTrip(t *testing.T) {
	f := filter.New()
	f.Kinds.Append(kind.TextNote)
	f.Authors.Append([]byte("aabb"))
	lim := uint(20)
	f.Limit = &lim
	b := reqenvelope.NewFrom("sub-1", filters.New(f)).Marshal(nil)
	label, rest, err := envelopes.Identify(b)
	require.NoError(t, err)
	assert.Equal(t, reqenvelope.L, label)
	en, err := reqenvelope.Parse(rest)
	require.NoError(t, err)
	assert.Equal(t, []byte("sub-1"), en.Subscription)
	require.Equal(t, 1, en.Filters.Len())
	assert.Equal(t, f.Serialize(), en.Filters.F[0].Serialize())
}

func TestOKEnvelopeForm(t *testing.T) {
	ev := signedNote(t, "x")
	b := okenvelope.NewFrom(
		ev.Id, false, []byte("invalid: created_at is implausible"),
	).Marshal(nil)
	label, rest, err := envelopes.Identify(b)
	require.NoError(t, err)
	assert.Equal(t, okenvelope.L, label)
	require.Len(t, rest, 3)
	assert.Equal(t, `"`+ev.IdString()+`"`, string(rest[0]))
	assert.Equal(t, "false", string(rest[1]))
}
