package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/encoders/tags"
	"lantern.dev/pkg/encoders/timestamp"
)

func testEvent(t *testing.T) (ev *event.E) {
	id, err := hex.Dec(
		"aabb0000000000000000000000000000" +
			"00000000000000000000000000000000",
	)
	require.NoError(t, err)
	pk, err := hex.Dec(
		"ccdd0000000000000000000000000000" +
			"00000000000000000000000000000000",
	)
	require.NoError(t, err)
	return &event.E{
		Id:        id,
		Pubkey:    pk,
		Kind:      kind.TextNote,
		CreatedAt: timestamp.New(1000),
		Content:   []byte("Hello Nostr World"),
		Tags: tags.New(
			tag.New("e", "1122"),
			tag.New("p", "3344"),
		),
	}
}

func TestMatchesEmptyFilter(t *testing.T) {
	f := New()
	assert.True(t, f.Matches(testEvent(t)))
	assert.False(t, f.Matches(nil))
}

func TestMatchesKinds(t *testing.T) {
	ev := testEvent(t)
	f := New()
	f.Kinds.Append(kind.TextNote)
	assert.True(t, f.Matches(ev))
	f = New()
	f.Kinds.Append(kind.ProfileMetadata)
	assert.False(t, f.Matches(ev))
}

func TestMatchesIdAndAuthorPrefixes(t *testing.T) {
	ev := testEvent(t)
	f := New()
	f.Ids.Append([]byte("aabb"))
	assert.True(t, f.Matches(ev))
	f = New()
	f.Ids.Append([]byte("ffff"))
	assert.False(t, f.Matches(ev))
	f = New()
	f.Authors.Append([]byte("cc"))
	assert.True(t, f.Matches(ev))
	f = New()
	f.Authors.Append([]byte("ee"))
	f.Authors.Append([]byte("ccdd"))
	assert.True(t, f.Matches(ev), "any prefix matching suffices")
}

func TestMatchesTimeBounds(t *testing.T) {
	ev := testEvent(t)
	f := New()
	f.Since = timestamp.New(1000)
	f.Until = timestamp.New(1000)
	assert.True(t, f.Matches(ev), "since and until are inclusive")
	f.Since = timestamp.New(1001)
	assert.False(t, f.Matches(ev))
	f.Since = nil
	f.Until = timestamp.New(999)
	assert.False(t, f.Matches(ev))
}

func TestMatchesTagFilters(t *testing.T) {
	ev := testEvent(t)
	f := New()
	f.Tags.AppendTags(tag.New("e", "1122"))
	assert.True(t, f.Matches(ev))
	f = New()
	f.Tags.AppendTags(tag.New("e", "9999"))
	assert.False(t, f.Matches(ev))
	f = New()
	f.Tags.AppendTags(tag.New("e", "1122"))
	f.Tags.AppendTags(tag.New("p", "9999"))
	assert.False(t, f.Matches(ev), "every tag filter must be satisfied")
}

func TestMatchesSearch(t *testing.T) {
	ev := testEvent(t)
	f := New()
	f.Search = []byte("nostr world")
	assert.True(t, f.Matches(ev), "search is case-insensitive")
	f.Search = []byte("bitcoin")
	assert.False(t, f.Matches(ev))
}

func TestUnmarshalMarshal(t *testing.T) {
	in := `{"ids":["aabb"],"kinds":[1,7],"authors":["ccdd"],` +
		`"#e":["1122"],"since":500,"until":2000,"search":"hello","limit":10}`
	f := New()
	require.NoError(t, f.Unmarshal([]byte(in)))
	assert.Equal(t, 1, f.Ids.Len())
	assert.Equal(t, 2, f.Kinds.Len())
	require.NotNil(t, f.Since)
	assert.Equal(t, int64(500), f.Since.I64())
	require.NotNil(t, f.Limit)
	assert.Equal(t, uint(10), *f.Limit)
	assert.True(t, f.Matches(testEvent(t)))
	// the rendered form must decode to an equivalent filter
	f2 := New()
	require.NoError(t, f2.Unmarshal(f.Marshal(nil)))
	assert.Equal(t, f.Serialize(), f2.Serialize())
}

func TestUnmarshalRejectsNonHexPrefixes(t *testing.T) {
	f := New()
	assert.Error(t, f.Unmarshal([]byte(`{"ids":["zzzz"]}`)))
	assert.Error(t, f.Unmarshal([]byte(`{"authors":["GG"]}`)))
	assert.Error(t, f.Unmarshal([]byte(`{"kinds":[-1]}`)))
}

func TestCloneIsIndependent(t *testing.T) {
	f := New()
	f.Authors.Append([]byte("aa"))
	lim := uint(5)
	f.Limit = &lim
	clone := f.Clone()
	clone.Authors.Append([]byte("bb"))
	*clone.Limit = 9
	assert.Equal(t, 1, f.Authors.Len())
	assert.Equal(t, uint(5), *f.Limit)
}
