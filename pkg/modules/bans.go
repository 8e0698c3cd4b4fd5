package modules

import (
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
)

// Bans tracks pubkey and event admission lists. The allow list, when
// non-empty, restricts writes to its members; the block list always
// refuses. Event bans refuse a specific id. All sets are safe for
// concurrent use by the pipeline and the management API.
type Bans struct {
	blockedPubkeys *xsync.MapOf[string, string]
	allowedPubkeys *xsync.MapOf[string, struct{}]
	bannedEvents   *xsync.MapOf[string, string]
	blockedKinds   *xsync.MapOf[uint16, struct{}]
	allowedKinds   *xsync.MapOf[uint16, struct{}]
}

// NewBans creates empty admission lists.
func NewBans() (b *Bans) {
	return &Bans{
		blockedPubkeys: xsync.NewMapOf[string, string](),
		allowedPubkeys: xsync.NewMapOf[string, struct{}](),
		bannedEvents:   xsync.NewMapOf[string, string](),
		blockedKinds:   xsync.NewMapOf[uint16, struct{}](),
		allowedKinds:   xsync.NewMapOf[uint16, struct{}](),
	}
}

// BanPubkey blocks a hex pubkey from writing, with an operator-supplied
// reason for the listing.
func (b *Bans) BanPubkey(pk, reason string) { b.blockedPubkeys.Store(pk, reason) }

// UnbanPubkey removes a pubkey from the block list.
func (b *Bans) UnbanPubkey(pk string) { b.blockedPubkeys.Delete(pk) }

// AllowPubkey adds a hex pubkey to the allow list and lifts any ban.
func (b *Bans) AllowPubkey(pk string) {
	b.blockedPubkeys.Delete(pk)
	b.allowedPubkeys.Store(pk, struct{}{})
}

// BlockKind refuses writes of a kind.
func (b *Bans) BlockKind(k uint16) { b.blockedKinds.Store(k, struct{}{}) }

// AllowKind adds a kind to the allow list; a non-empty kind allow list
// restricts writes to its members.
func (b *Bans) AllowKind(k uint16) { b.allowedKinds.Store(k, struct{}{}) }

// BanEvent refuses a specific event id.
func (b *Bans) BanEvent(id, reason string) { b.bannedEvents.Store(id, reason) }

// AllowEvent lifts a ban on an event id.
func (b *Bans) AllowEvent(id string) { b.bannedEvents.Delete(id) }

// PubkeyBanned reports whether a hex pubkey is refused, either by an
// explicit ban or by exclusion from a non-empty allow list.
func (b *Bans) PubkeyBanned(pk string) (banned bool) {
	if _, banned = b.blockedPubkeys.Load(pk); banned {
		return
	}
	if b.allowedPubkeys.Size() == 0 {
		return
	}
	_, allowed := b.allowedPubkeys.Load(pk)
	return !allowed
}

// KindBanned reports whether a kind is refused.
func (b *Bans) KindBanned(k uint16) (banned bool) {
	if _, banned = b.blockedKinds.Load(k); banned {
		return
	}
	if b.allowedKinds.Size() == 0 {
		return
	}
	_, allowed := b.allowedKinds.Load(k)
	return !allowed
}

// EventBanned reports whether an event id is refused.
func (b *Bans) EventBanned(id string) (banned bool) {
	_, banned = b.bannedEvents.Load(id)
	return
}

// BannedEntry is one row of a management list response.
type BannedEntry struct {
	Key    string `json:"pubkey,omitempty"`
	Id     string `json:"id,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// ListBannedPubkeys returns the block list sorted by pubkey.
func (b *Bans) ListBannedPubkeys() (entries []BannedEntry) {
	b.blockedPubkeys.Range(
		func(pk, reason string) bool {
			entries = append(entries, BannedEntry{Key: pk, Reason: reason})
			return true
		},
	)
	sort.Slice(
		entries, func(i, j int) bool { return entries[i].Key < entries[j].Key },
	)
	return
}

// ListBannedEvents returns the banned event ids sorted by id.
func (b *Bans) ListBannedEvents() (entries []BannedEntry) {
	b.bannedEvents.Range(
		func(id, reason string) bool {
			entries = append(entries, BannedEntry{Id: id, Reason: reason})
			return true
		},
	)
	sort.Slice(
		entries, func(i, j int) bool { return entries[i].Id < entries[j].Id },
	)
	return
}

// ListAllowedPubkeys returns the allow list sorted by pubkey.
func (b *Bans) ListAllowedPubkeys() (pks []string) {
	b.allowedPubkeys.Range(
		func(pk string, _ struct{}) bool {
			pks = append(pks, pk)
			return true
		},
	)
	sort.Strings(pks)
	return
}
