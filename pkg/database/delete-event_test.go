package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/interfaces/store"
	"lantern.dev/pkg/utils/context"
)

func TestDeletionEventsAreNotDeletable(t *testing.T) {
	d, c := newTestDB(t)
	sign := newTestSigner(t)
	ev := signedEvent(t, sign, kind.TextNote, 1000, "delete me")
	require.NoError(t, d.SaveEvent(c, ev))
	del := signedEvent(
		t, sign, kind.Deletion, 2000, "", tag.New("e", ev.IdString()),
	)
	require.NoError(t, d.SaveEvent(c, del))
	require.NoError(t, d.ProcessDeletion(c, del))
	// a deletion naming the prior deletion has no effect on it
	undo := signedEvent(
		t, sign, kind.Deletion, 3000, "", tag.New("e", del.IdString()),
	)
	require.NoError(t, d.SaveEvent(c, undo))
	require.NoError(t, d.ProcessDeletion(c, undo))
	evs, err := d.QueryEvents(c, kindAuthorFilter(kind.Deletion, sign))
	require.NoError(t, err)
	assert.Len(t, evs, 2, "both deletion events must survive")
	// and the original deletion's tombstone still stands
	assert.ErrorIs(t, d.SaveEvent(c, ev), store.ErrDeleted)
}

func TestTombstoneBindsDeletionAuthor(t *testing.T) {
	d, c := newTestDB(t)
	victim := newTestSigner(t)
	attacker := newTestSigner(t)
	// the victim's event exists but has not reached this relay yet
	ev := signedEvent(t, victim, kind.TextNote, 1000, "not yet published")
	del := signedEvent(
		t, attacker, kind.Deletion, 2000, "", tag.New("e", ev.IdString()),
	)
	require.NoError(t, d.ProcessDeletion(c, del))
	// a foreign deletion of an unseen id must not block the real author
	assert.NoError(t, d.SaveEvent(c, ev))
}

func TestCloseIsOwnedAndIdempotent(t *testing.T) {
	c, cancel := context.Cancel(context.Bg())
	d, err := New(c, cancel, t.TempDir(), "off")
	require.NoError(t, err)
	// cancelling the context does not tear the store down behind the
	// owner's back; Close does, exactly once
	cancel()
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
}

func TestTombstoneUnseenOwnId(t *testing.T) {
	d, c := newTestDB(t)
	sign := newTestSigner(t)
	ev := signedEvent(t, sign, kind.TextNote, 1000, "retracted early")
	del := signedEvent(
		t, sign, kind.Deletion, 2000, "", tag.New("e", ev.IdString()),
	)
	require.NoError(t, d.ProcessDeletion(c, del))
	// the author deleted the id before the relay ever saw the event, so
	// their own later submission stays blocked
	assert.ErrorIs(t, d.SaveEvent(c, ev), store.ErrDeleted)
}
