package modules

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern.dev/pkg/crypto/p256k"
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/encoders/tags"
	"lantern.dev/pkg/encoders/timestamp"
	"lantern.dev/pkg/interfaces/signer"
	"lantern.dev/pkg/utils/context"
)

// fakeConn satisfies Conn for pipeline tests.
type fakeConn struct {
	authed []byte
}

func (f *fakeConn) AuthedPubkey() (pk []byte) { return f.authed }
func (f *fakeConn) Challenge() (b []byte)     { return []byte("challenge") }
func (f *fakeConn) RealRemote() (remote string) { return "127.0.0.1" }

func testRegistry(limits Limits, bans *Bans) (r *Registry) {
	if bans == nil {
		bans = NewBans()
	}
	r = NewRegistry()
	r.Register(
		Validation(limits, bans),
		Auth(),
		Protected(),
		Expiration(),
		Deletion(),
		Replaceable(),
	)
	return
}

func signedNote(
	t *testing.T, sign signer.I, k *kind.T, content string, tt ...*tag.T,
) (ev *event.E) {
	ev = &event.E{
		Kind:      k,
		CreatedAt: timestamp.Now(),
		Content:   []byte(content),
		Tags:      tags.New(tt...),
	}
	require.NoError(t, ev.Sign(sign))
	return
}

func hasPrefix(t *testing.T, reason []byte, prefix string) {
	t.Helper()
	assert.True(t, bytes.HasPrefix(reason, []byte(prefix)),
		"reason %q should start with %q", reason, prefix)
}

func TestAdmitAcceptsValidEvent(t *testing.T) {
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	r := testRegistry(Limits{}, nil)
	ev := signedNote(t, sign, kind.TextNote, "hello")
	res := r.Admit(context.Bg(), ev, &fakeConn{})
	assert.Equal(t, Accept, res.Action)
}

func TestAdmitRejectsOversizedContent(t *testing.T) {
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	r := testRegistry(Limits{MaxContentLength: 4}, nil)
	ev := signedNote(t, sign, kind.TextNote, "way too long")
	res := r.Admit(context.Bg(), ev, &fakeConn{})
	assert.Equal(t, Reject, res.Action)
	hasPrefix(t, res.Reason, "invalid:")
}

func TestAdmitRejectsFutureDrift(t *testing.T) {
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	r := testRegistry(Limits{MaxFutureSeconds: 60}, nil)
	ev := &event.E{
		Kind:      kind.TextNote,
		CreatedAt: timestamp.New(time.Now().Add(time.Hour).Unix()),
		Tags:      tags.New(),
	}
	require.NoError(t, ev.Sign(sign))
	res := r.Admit(context.Bg(), ev, &fakeConn{})
	assert.Equal(t, Reject, res.Action)
	hasPrefix(t, res.Reason, "invalid:")
}

func TestAdmitRejectsBannedPubkey(t *testing.T) {
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	bans := NewBans()
	r := testRegistry(Limits{}, bans)
	ev := signedNote(t, sign, kind.TextNote, "hello")
	bans.BanPubkey(ev.PubKeyString(), "spam")
	res := r.Admit(context.Bg(), ev, &fakeConn{})
	assert.Equal(t, Reject, res.Action)
	hasPrefix(t, res.Reason, "blocked:")
}

func TestAdmitRejectsTamperedSignature(t *testing.T) {
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	r := testRegistry(Limits{}, nil)
	ev := signedNote(t, sign, kind.TextNote, "hello")
	ev.Content = []byte("altered")
	res := r.Admit(context.Bg(), ev, &fakeConn{})
	assert.Equal(t, Reject, res.Action)
	hasPrefix(t, res.Reason, "invalid:")
}

func TestAdmitShadowsAuthKind(t *testing.T) {
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	r := testRegistry(Limits{}, nil)
	ev := signedNote(t, sign, kind.ClientAuthentication, "")
	res := r.Admit(context.Bg(), ev, &fakeConn{})
	assert.Equal(t, Shadow, res.Action)
}

func TestAdmitProtectedEvent(t *testing.T) {
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	other := &p256k.Signer{}
	require.NoError(t, other.Generate())
	r := testRegistry(Limits{}, nil)
	ev := signedNote(t, sign, kind.TextNote, "mine", tag.New("-"))
	res := r.Admit(context.Bg(), ev, &fakeConn{})
	assert.Equal(t, Reject, res.Action)
	hasPrefix(t, res.Reason, "auth-required:")
	res = r.Admit(context.Bg(), ev, &fakeConn{authed: other.Pub()})
	assert.Equal(t, Reject, res.Action)
	hasPrefix(t, res.Reason, "restricted:")
	res = r.Admit(context.Bg(), ev, &fakeConn{authed: sign.Pub()})
	assert.Equal(t, Accept, res.Action)
}

func TestAdmitRejectsExpired(t *testing.T) {
	sign := &p256k.Signer{}
	require.NoError(t, sign.Generate())
	r := testRegistry(Limits{}, nil)
	past := strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)
	ev := signedNote(
		t, sign, kind.TextNote, "gone", tag.New("expiration", past),
	)
	res := r.Admit(context.Bg(), ev, &fakeConn{})
	assert.Equal(t, Reject, res.Action)
	hasPrefix(t, res.Reason, "invalid:")
	future := strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
	ev = signedNote(
		t, sign, kind.TextNote, "still here", tag.New("expiration", future),
	)
	res = r.Admit(context.Bg(), ev, &fakeConn{})
	assert.Equal(t, Accept, res.Action)
}

func TestBansAllowList(t *testing.T) {
	bans := NewBans()
	bans.AllowPubkey("aa")
	assert.False(t, bans.PubkeyBanned("aa"))
	assert.True(t, bans.PubkeyBanned("bb"),
		"a non-empty allow list excludes everyone else")
	bans.UnbanPubkey("bb")
	assert.True(t, bans.PubkeyBanned("bb"),
		"unban does not add to the allow list")
}

func TestBansKindLists(t *testing.T) {
	bans := NewBans()
	bans.BlockKind(4)
	assert.True(t, bans.KindBanned(4))
	assert.False(t, bans.KindBanned(1))
	bans.AllowKind(1)
	assert.True(t, bans.KindBanned(7),
		"a non-empty kind allow list excludes unlisted kinds")
	assert.False(t, bans.KindBanned(1))
}

func TestRegistryNips(t *testing.T) {
	r := testRegistry(Limits{}, nil)
	nips := r.Nips()
	assert.Equal(t, []int{1, 9, 16, 33, 40, 42, 70}, nips)
}

func TestPreStoreClaiming(t *testing.T) {
	r := NewRegistry()
	var claimed bool
	r.Register(&Module{
		Name:  "claimer",
		Kinds: []*kind.T{kind.Deletion},
		PreStore: func(c context.T, ev *event.E) (StoreDirective, error) {
			claimed = true
			return Discard, nil
		},
	})
	d, err := r.PreStore(context.Bg(), &event.E{Kind: kind.Deletion})
	require.NoError(t, err)
	assert.Equal(t, Discard, d)
	assert.True(t, claimed)
	d, err = r.PreStore(context.Bg(), &event.E{Kind: kind.TextNote})
	require.NoError(t, err)
	assert.Equal(t, Store, d, "unclaimed kinds take the normal path")
}
