// Package kind implements the event kind number and the storage-class
// predicates that drive the relay's persistence policy.
package kind

// T is a nostr event kind.
type T struct {
	K uint16
}

// New creates a kind.T from an integer.
func New[V uint16 | int | int32 | int64 | uint](k V) (t *T) {
	return &T{K: uint16(k)}
}

// Kinds with protocol-defined behaviour the relay itself cares about.
var (
	ProfileMetadata      = New(0)
	TextNote             = New(1)
	FollowList           = New(3)
	Deletion             = New(5)
	GiftWrap             = New(1059)
	EncryptedDirect      = New(4)
	ClientAuthentication = New(22242)
	HTTPAuth             = New(27235)
)

// Names for the kinds the relay logs about.
var names = map[uint16]string{
	0:     "profile-metadata",
	1:     "text-note",
	3:     "follow-list",
	5:     "deletion",
	4:     "encrypted-direct-message",
	1059:  "gift-wrap",
	22242: "client-authentication",
	27235: "http-auth",
}

// Name returns a human-readable name for the kind, or its decimal form.
func (k *T) Name() (s string) {
	if s = names[k.K]; s != "" {
		return
	}
	return k.String()
}

// String renders the kind number in decimal.
func (k *T) String() (s string) {
	b := make([]byte, 0, 5)
	return string(k.Marshal(b))
}

// Marshal appends the decimal rendering of the kind to dst.
func (k *T) Marshal(dst []byte) (b []byte) {
	b = dst
	if k.K == 0 {
		return append(b, '0')
	}
	var digits [5]byte
	i := len(digits)
	for n := k.K; n > 0; n /= 10 {
		i--
		digits[i] = byte('0' + n%10)
	}
	return append(b, digits[i:]...)
}

// Equal reports whether two kinds are the same number.
func (k *T) Equal(other *T) (same bool) { return k.K == other.K }

// IsReplaceable reports whether at most one event per (pubkey, kind) is
// stored: kinds 0 and 3 and the 10000-19999 range.
func (k *T) IsReplaceable() (is bool) {
	return k.K == 0 || k.K == 3 || (k.K >= 10000 && k.K < 20000)
}

// IsEphemeral reports whether the event is broadcast only and never stored:
// the 20000-29999 range.
func (k *T) IsEphemeral() (is bool) { return k.K >= 20000 && k.K < 30000 }

// IsParameterizedReplaceable reports whether at most one event per (pubkey,
// kind, d tag) is stored: the 30000-39999 range.
func (k *T) IsParameterizedReplaceable() (is bool) {
	return k.K >= 30000 && k.K < 40000
}

// IsRegular reports whether the event is stored and never replaced.
func (k *T) IsRegular() (is bool) {
	return !k.IsReplaceable() && !k.IsEphemeral() &&
		!k.IsParameterizedReplaceable()
}

// IsPrivileged reports whether events of this kind are only delivered to
// parties of the event (author and p-tagged pubkeys): DMs and gift wraps.
func (k *T) IsPrivileged() (is bool) {
	return k.K == EncryptedDirect.K || k.K == GiftWrap.K
}
