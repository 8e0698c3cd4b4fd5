package negentropy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/frand"

	"lantern.dev/pkg/crypto/sha256"
	"lantern.dev/pkg/encoders/varint"
)

func randomIds(n int) (l IdList) {
	for i := 0; i < n; i++ {
		l = append(l, frand.Bytes(sha256.Size))
	}
	return
}

func TestIdListRoundTrip(t *testing.T) {
	l := randomIds(5)
	b := l.Marshal(nil)
	got, err := Unmarshal(b)
	require.NoError(t, err)
	require.Len(t, got, 5)
	// marshal sorts, so the decoded list is the canonical order
	assert.Equal(t, b, got.Marshal(nil))
}

func TestIdListHexRoundTrip(t *testing.T) {
	l := randomIds(3)
	got, err := UnmarshalHex(l.MarshalHex())
	require.NoError(t, err)
	assert.Equal(t, l.Marshal(nil), got.Marshal(nil))
}

func TestIdListCanonicalOrder(t *testing.T) {
	l := randomIds(8)
	shuffled := make(IdList, len(l))
	copy(shuffled, l)
	frand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	assert.Equal(t, l.Marshal(nil), shuffled.Marshal(nil),
		"equal sets must encode identically")
}

func TestIdListEmpty(t *testing.T) {
	var l IdList
	got, err := Unmarshal(l.Marshal(nil))
	require.NoError(t, err)
	assert.Len(t, got, 0)
}

func TestUnmarshalRejectsTruncated(t *testing.T) {
	l := randomIds(2)
	b := l.Marshal(nil)
	_, err := Unmarshal(b[:len(b)-1])
	assert.Error(t, err)
	_, err = UnmarshalHex([]byte("not hex"))
	assert.Error(t, err)
}

func TestUnmarshalRejectsAbsurdCount(t *testing.T) {
	// counts crafted so count*32 wraps uint64 must not reach the
	// allocation
	for _, count := range []uint64{
		1 << 59,
		math.MaxUint64/sha256.Size + 1,
		math.MaxUint64,
	} {
		_, err := Unmarshal(varint.Append(nil, count))
		assert.Error(t, err, "count %d", count)
	}
	// an honest count over an empty payload still fails
	_, err := Unmarshal(varint.Append(nil, 1))
	assert.Error(t, err)
}

func TestDiff(t *testing.T) {
	l := randomIds(4)
	client := IdList{l[0], l[2], frand.Bytes(sha256.Size)}
	needs := l.Diff(client)
	require.Len(t, needs, 2)
	assert.Equal(t, IdList{l[1], l[3]}.Marshal(nil), needs.Marshal(nil))
}

func TestSessionsCap(t *testing.T) {
	s := NewSessions(2, time.Minute)
	require.NoError(t, s.Open("a", nil))
	require.NoError(t, s.Open("b", nil))
	assert.ErrorIs(t, s.Open("c", nil), ErrTooManySessions)
	// re-opening an existing subscription is a replace, not a new slot
	require.NoError(t, s.Open("a", randomIds(1)))
	assert.Equal(t, 2, s.Len())
	s.Close("b")
	require.NoError(t, s.Open("c", nil))
}

func TestSessionsRound(t *testing.T) {
	have := randomIds(3)
	s := NewSessions(4, time.Minute)
	require.NoError(t, s.Open("sub", have))
	needs, err := s.Round("sub", IdList{have[0]})
	require.NoError(t, err)
	assert.Len(t, needs, 2)
	_, err = s.Round("unknown", nil)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionsReap(t *testing.T) {
	s := NewSessions(4, 10*time.Millisecond)
	require.NoError(t, s.Open("stale", nil))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Open("fresh", nil))
	expired := s.Reap()
	require.Len(t, expired, 1)
	assert.Equal(t, "stale", expired[0])
	assert.Equal(t, 1, s.Len())
}
