package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern.dev/pkg/crypto/p256k"
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/encoders/tags"
	"lantern.dev/pkg/encoders/timestamp"
	"lantern.dev/pkg/interfaces/signer"
	"lantern.dev/pkg/interfaces/store"
	"lantern.dev/pkg/utils/context"
)

func newTestDB(t *testing.T) (d *D, c context.T) {
	c, cancel := context.Cancel(context.Bg())
	d, err := New(c, cancel, t.TempDir(), "off")
	require.NoError(t, err)
	t.Cleanup(
		func() {
			cancel()
			require.NoError(t, d.Close())
		},
	)
	return
}

func newTestSigner(t *testing.T) (sign signer.I) {
	sign = &p256k.Signer{}
	require.NoError(t, sign.Generate())
	return
}

func signedEvent(
	t *testing.T, sign signer.I, k *kind.T, ts int64, content string,
	tt ...*tag.T,
) (ev *event.E) {
	ev = &event.E{
		Kind:      k,
		CreatedAt: timestamp.New(ts),
		Content:   []byte(content),
		Tags:      tags.New(tt...),
	}
	require.NoError(t, ev.Sign(sign))
	return
}

func TestSaveEventDuplicate(t *testing.T) {
	d, c := newTestDB(t)
	sign := newTestSigner(t)
	ev := signedEvent(t, sign, kind.TextNote, 1000, "hello")
	require.NoError(t, d.SaveEvent(c, ev))
	assert.ErrorIs(t, d.SaveEvent(c, ev), store.ErrDuplicate)
}

func TestSaveEventReplaceable(t *testing.T) {
	d, c := newTestDB(t)
	sign := newTestSigner(t)
	older := signedEvent(t, sign, kind.ProfileMetadata, 1000, "v1")
	newer := signedEvent(t, sign, kind.ProfileMetadata, 2000, "v2")
	require.NoError(t, d.SaveEvent(c, older))
	require.NoError(t, d.SaveEvent(c, newer))
	// only the newer version remains visible
	evs, err := d.QueryEvents(c, kindAuthorFilter(kind.ProfileMetadata, sign))
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "v2", evs[0].ContentString())
	// an older incoming version must not displace it
	stale := signedEvent(t, sign, kind.ProfileMetadata, 1500, "v1.5")
	assert.ErrorIs(t, d.SaveEvent(c, stale), store.ErrSuperseded)
}

func TestSaveEventReplaceableTieBreak(t *testing.T) {
	d, c := newTestDB(t)
	sign := newTestSigner(t)
	// two versions at the same timestamp: the one with the smaller id wins
	a := signedEvent(t, sign, kind.FollowList, 1000, "a")
	b := signedEvent(t, sign, kind.FollowList, 1000, "b")
	lower, higher := a, b
	if b.IdString() < a.IdString() {
		lower, higher = b, a
	}
	require.NoError(t, d.SaveEvent(c, higher))
	require.NoError(t, d.SaveEvent(c, lower))
	evs, err := d.QueryEvents(c, kindAuthorFilter(kind.FollowList, sign))
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, lower.IdString(), evs[0].IdString())
	// resubmitting the loser at the same timestamp is superseded
	assert.ErrorIs(t, d.SaveEvent(c, higher), store.ErrSuperseded)
}

func TestSaveEventAddressable(t *testing.T) {
	d, c := newTestDB(t)
	sign := newTestSigner(t)
	k := kind.New(30023)
	art1 := signedEvent(
		t, sign, k, 1000, "first draft", tag.New("d", "my-article"),
	)
	art2 := signedEvent(
		t, sign, k, 2000, "second draft", tag.New("d", "my-article"),
	)
	other := signedEvent(
		t, sign, k, 1500, "unrelated", tag.New("d", "other-article"),
	)
	require.NoError(t, d.SaveEvent(c, art1))
	require.NoError(t, d.SaveEvent(c, other))
	require.NoError(t, d.SaveEvent(c, art2))
	// distinct d tags coexist; same d tag keeps only the newest
	evs, err := d.QueryEvents(c, kindAuthorFilter(k, sign))
	require.NoError(t, err)
	require.Len(t, evs, 2)
	for _, ev := range evs {
		if string(ev.DTag()) == "my-article" {
			assert.Equal(t, "second draft", ev.ContentString())
		}
	}
}

func TestProcessDeletion(t *testing.T) {
	d, c := newTestDB(t)
	sign := newTestSigner(t)
	ev := signedEvent(t, sign, kind.TextNote, 1000, "delete me")
	require.NoError(t, d.SaveEvent(c, ev))
	del := signedEvent(
		t, sign, kind.Deletion, 2000, "",
		tag.New("e", ev.IdString()),
	)
	require.NoError(t, d.SaveEvent(c, del))
	require.NoError(t, d.ProcessDeletion(c, del))
	evs, err := d.QueryEvents(c, kindAuthorFilter(kind.TextNote, sign))
	require.NoError(t, err)
	assert.Len(t, evs, 0)
	// the tombstone blocks resubmission
	assert.ErrorIs(t, d.SaveEvent(c, ev), store.ErrDeleted)
}

func TestProcessDeletionOtherAuthor(t *testing.T) {
	d, c := newTestDB(t)
	owner := newTestSigner(t)
	attacker := newTestSigner(t)
	ev := signedEvent(t, owner, kind.TextNote, 1000, "mine")
	require.NoError(t, d.SaveEvent(c, ev))
	del := signedEvent(
		t, attacker, kind.Deletion, 2000, "",
		tag.New("e", ev.IdString()),
	)
	require.NoError(t, d.ProcessDeletion(c, del))
	// someone else's deletion request must not remove the event
	evs, err := d.QueryEvents(c, kindAuthorFilter(kind.TextNote, owner))
	require.NoError(t, err)
	assert.Len(t, evs, 1)
}

func TestProcessDeletionByAddress(t *testing.T) {
	d, c := newTestDB(t)
	sign := newTestSigner(t)
	k := kind.New(30023)
	art := signedEvent(
		t, sign, k, 1000, "article", tag.New("d", "slug"),
	)
	require.NoError(t, d.SaveEvent(c, art))
	addr := "30023:" + art.PubKeyString() + ":slug"
	del := signedEvent(
		t, sign, kind.Deletion, 2000, "", tag.New("a", addr),
	)
	require.NoError(t, d.ProcessDeletion(c, del))
	evs, err := d.QueryEvents(c, kindAuthorFilter(k, sign))
	require.NoError(t, err)
	assert.Len(t, evs, 0)
	// versions older than the deletion stay blocked
	assert.ErrorIs(t, d.SaveEvent(c, art), store.ErrDeleted)
	// a version newer than the deletion is allowed through
	newer := signedEvent(
		t, sign, k, 3000, "rewritten", tag.New("d", "slug"),
	)
	assert.NoError(t, d.SaveEvent(c, newer))
}
