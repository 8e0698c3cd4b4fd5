package socketapi

import (
	"testing"

	"github.com/fasthttp/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern.dev/pkg/crypto/p256k"
	"lantern.dev/pkg/database"
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/filter"
	"lantern.dev/pkg/encoders/filters"
	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/encoders/tags"
	"lantern.dev/pkg/encoders/timestamp"
	"lantern.dev/pkg/interfaces/signer"
	"lantern.dev/pkg/utils/context"
)

func newHistoryDB(t *testing.T) (d *database.D, c context.T) {
	c, cancel := context.Cancel(context.Bg())
	d, err := database.New(c, cancel, t.TempDir(), "off")
	require.NoError(t, err)
	t.Cleanup(
		func() {
			cancel()
			require.NoError(t, d.Close())
		},
	)
	return
}

func saveNote(
	t *testing.T, d *database.D, c context.T, sign signer.I, ts int64,
	content string,
) (ev *event.E) {
	ev = &event.E{
		Kind:      kind.TextNote,
		CreatedAt: timestamp.New(ts),
		Content:   []byte(content),
		Tags:      tags.New(),
	}
	require.NoError(t, ev.Sign(sign))
	require.NoError(t, d.SaveEvent(c, ev))
	return
}

func kindFilter(limit uint) (f *filter.F) {
	f = filter.New()
	f.Kinds.Append(kind.TextNote)
	f.Limit = &limit
	return
}

func TestQueryHistorySmallestLimitWins(t *testing.T) {
	d, c := newHistoryDB(t)
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	for i := int64(1); i <= 5; i++ {
		saveNote(t, d, c, sign, i*1000, "note")
	}
	// two filters over the same events with disagreeing limits: the
	// smaller one caps the whole subscription
	wide := kindFilter(3)
	narrow := filter.New()
	narrow.Authors.Append([]byte(hex.Enc(sign.Pub())))
	lim := uint(1)
	narrow.Limit = &lim
	history := queryHistory(
		c, d, filters.New(wide, narrow), 512, nil,
	)
	require.Len(t, history, 1)
	assert.Equal(t, int64(5000), history[0].CreatedAt.I64())
}

func TestQueryHistoryMergesAndSorts(t *testing.T) {
	d, c := newHistoryDB(t)
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	for i := int64(1); i <= 4; i++ {
		saveNote(t, d, c, sign, i*1000, "note")
	}
	// overlapping filters produce each event once, newest first
	history := queryHistory(
		c, d, filters.New(kindFilter(10), kindFilter(10)), 512, nil,
	)
	require.Len(t, history, 4)
	for i := 1; i < len(history); i++ {
		assert.GreaterOrEqual(
			t, history[i-1].CreatedAt.I64(), history[i].CreatedAt.I64(),
		)
	}
}

func TestQueryHistoryZeroLimitFilterDoesNotCap(t *testing.T) {
	d, c := newHistoryDB(t)
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	for i := int64(1); i <= 3; i++ {
		saveNote(t, d, c, sign, i*1000, "note")
	}
	// a limit 0 filter contributes no history and no cap
	history := queryHistory(
		c, d, filters.New(kindFilter(2), kindFilter(0)), 512, nil,
	)
	assert.Len(t, history, 2)
}

func TestQueryHistoryClampsToRelayCap(t *testing.T) {
	d, c := newHistoryDB(t)
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	for i := int64(1); i <= 5; i++ {
		saveNote(t, d, c, sign, i*1000, "note")
	}
	history := queryHistory(c, d, filters.New(kindFilter(100)), 2, nil)
	assert.Len(t, history, 2)
}

func TestQueryHistorySkipsPrivilegedForStrangers(t *testing.T) {
	d, c := newHistoryDB(t)
	author := &p256k.Signer{}
	require.NoError(t, author.Generate())
	recipient := &p256k.Signer{}
	require.NoError(t, recipient.Generate())
	dm := &event.E{
		Kind:      kind.EncryptedDirect,
		CreatedAt: timestamp.New(1000),
		Content:   []byte("?iv"),
		Tags:      tags.New(tag.New("p", hex.Enc(recipient.Pub()))),
	}
	require.NoError(t, dm.Sign(author))
	require.NoError(t, d.SaveEvent(c, dm))
	f := filter.New()
	f.Kinds.Append(kind.EncryptedDirect)
	assert.Len(t, queryHistory(c, d, filters.New(f), 512, nil), 0)
	assert.Len(
		t, queryHistory(c, d, filters.New(f), 512, recipient.Pub()), 1,
	)
}

func TestFrameNotice(t *testing.T) {
	assert.Nil(t, frameNotice(websocket.TextMessage))
	assert.NotNil(t, frameNotice(websocket.BinaryMessage))
}
