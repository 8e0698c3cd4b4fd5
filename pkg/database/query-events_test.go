package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern.dev/pkg/encoders/filter"
	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/kinds"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/encoders/timestamp"
	"lantern.dev/pkg/interfaces/signer"
)

func kindAuthorFilter(k *kind.T, sign signer.I) (f *filter.F) {
	f = filter.New()
	f.Kinds.Append(k)
	f.Authors.Append([]byte(hexPub(sign)))
	return
}

func hexPub(sign signer.I) (s string) { return hex.Enc(sign.Pub()) }

func TestQueryEventsById(t *testing.T) {
	d, c := newTestDB(t)
	sign := newTestSigner(t)
	ev := signedEvent(t, sign, kind.TextNote, 1000, "findable")
	require.NoError(t, d.SaveEvent(c, ev))
	f := filter.New()
	f.Ids.Append([]byte(ev.IdString()))
	evs, err := d.QueryEvents(c, f)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, ev.IdString(), evs[0].IdString())
}

func TestQueryEventsByIdPrefix(t *testing.T) {
	d, c := newTestDB(t)
	sign := newTestSigner(t)
	ev := signedEvent(t, sign, kind.TextNote, 1000, "prefix")
	require.NoError(t, d.SaveEvent(c, ev))
	f := filter.New()
	f.Ids.Append([]byte(ev.IdString()[:11]))
	evs, err := d.QueryEvents(c, f)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, ev.IdString(), evs[0].IdString())
}

func TestQueryEventsOrderingAndLimit(t *testing.T) {
	d, c := newTestDB(t)
	sign := newTestSigner(t)
	for i := int64(1); i <= 5; i++ {
		ev := signedEvent(t, sign, kind.TextNote, 1000*i, "note")
		require.NoError(t, d.SaveEvent(c, ev))
	}
	f := filter.New()
	f.Kinds.Append(kind.TextNote)
	evs, err := d.QueryEvents(c, f)
	require.NoError(t, err)
	require.Len(t, evs, 5)
	for i := 1; i < len(evs); i++ {
		assert.GreaterOrEqual(
			t, evs[i-1].CreatedAt.I64(), evs[i].CreatedAt.I64(),
		)
	}
	lim := uint(2)
	f.Limit = &lim
	evs, err = d.QueryEvents(c, f)
	require.NoError(t, err)
	require.Len(t, evs, 2)
	// the limit keeps the newest events
	assert.Equal(t, int64(5000), evs[0].CreatedAt.I64())
	assert.Equal(t, int64(4000), evs[1].CreatedAt.I64())
}

func TestQueryEventsTimeRange(t *testing.T) {
	d, c := newTestDB(t)
	sign := newTestSigner(t)
	for i := int64(1); i <= 5; i++ {
		ev := signedEvent(t, sign, kind.TextNote, 1000*i, "note")
		require.NoError(t, d.SaveEvent(c, ev))
	}
	f := filter.New()
	f.Since = timestamp.New(2000)
	f.Until = timestamp.New(4000)
	evs, err := d.QueryEvents(c, f)
	require.NoError(t, err)
	// since and until are inclusive
	require.Len(t, evs, 3)
}

func TestQueryEventsByTag(t *testing.T) {
	d, c := newTestDB(t)
	sign := newTestSigner(t)
	other := newTestSigner(t)
	tagged := signedEvent(
		t, sign, kind.TextNote, 1000, "reply",
		tag.New("p", hexPub(other)),
	)
	plain := signedEvent(t, sign, kind.TextNote, 2000, "standalone")
	require.NoError(t, d.SaveEvent(c, tagged))
	require.NoError(t, d.SaveEvent(c, plain))
	f := filter.New()
	f.Tags.AppendTags(tag.New("p", hexPub(other)))
	evs, err := d.QueryEvents(c, f)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, tagged.IdString(), evs[0].IdString())
}

func TestQueryEventsByAuthor(t *testing.T) {
	d, c := newTestDB(t)
	alice := newTestSigner(t)
	bob := newTestSigner(t)
	require.NoError(
		t, d.SaveEvent(c, signedEvent(t, alice, kind.TextNote, 1000, "a")),
	)
	require.NoError(
		t, d.SaveEvent(c, signedEvent(t, bob, kind.TextNote, 2000, "b")),
	)
	f := filter.New()
	f.Authors.Append([]byte(hexPub(alice)))
	evs, err := d.QueryEvents(c, f)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "a", evs[0].ContentString())
}

func TestQueryEventsSearch(t *testing.T) {
	d, c := newTestDB(t)
	sign := newTestSigner(t)
	require.NoError(
		t, d.SaveEvent(
			c, signedEvent(t, sign, kind.TextNote, 1000, "Nostr is Fun"),
		),
	)
	require.NoError(
		t, d.SaveEvent(
			c, signedEvent(t, sign, kind.TextNote, 2000, "something else"),
		),
	)
	f := filter.New()
	f.Search = []byte("nostr")
	evs, err := d.QueryEvents(c, f)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "Nostr is Fun", evs[0].ContentString())
}

func TestCountEvents(t *testing.T) {
	d, c := newTestDB(t)
	sign := newTestSigner(t)
	for i := int64(1); i <= 3; i++ {
		ev := signedEvent(t, sign, kind.TextNote, 1000*i, "note")
		require.NoError(t, d.SaveEvent(c, ev))
	}
	f := filter.New()
	f.Kinds = kinds.New(kind.TextNote)
	count, approx, err := d.CountEvents(c, f)
	require.NoError(t, err)
	assert.False(t, approx)
	assert.Equal(t, 3, count)
}
