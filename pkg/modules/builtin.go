package modules

import (
	"context"
	"strconv"
	"time"

	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/reason"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/utils"
	"lantern.dev/pkg/utils/chk"
)

// Limits carries the admission caps the validation module enforces.
type Limits struct {
	// MaxContentLength caps the content field in bytes; zero disables.
	MaxContentLength int
	// MaxEventTags caps the number of tags; zero disables.
	MaxEventTags int
	// MaxTagValueLength caps any single tag field in bytes; zero
	// disables.
	MaxTagValueLength int
	// MaxFutureSeconds bounds created_at ahead of now.
	MaxFutureSeconds int64
	// MaxPastSeconds bounds created_at behind now; zero disables.
	MaxPastSeconds int64
}

// Validation builds the base module: schema caps, created_at drift,
// signature verification, and the admission lists.
func Validation(limits Limits, bans *Bans) (m *Module) {
	return &Module{
		Name: "validation",
		Nips: []int{1},
		Policies: []Policy{
			limitsPolicy(limits),
			driftPolicy(limits),
			bansPolicy(bans),
			signaturePolicy,
		},
	}
}

func limitsPolicy(limits Limits) (p Policy) {
	return func(c context.Context, ev *event.E, conn Conn) (r Result) {
		if limits.MaxContentLength > 0 &&
			len(ev.Content) > limits.MaxContentLength {
			return Rejected(
				reason.Invalid.F(
					"content longer than %d bytes", limits.MaxContentLength,
				),
			)
		}
		if limits.MaxEventTags > 0 && ev.Tags.Len() > limits.MaxEventTags {
			return Rejected(
				reason.Invalid.F(
					"more than %d tags", limits.MaxEventTags,
				),
			)
		}
		if limits.MaxTagValueLength > 0 {
			for _, t := range ev.Tags.ToSliceOfTags() {
				for _, f := range t.ToSliceOfBytes() {
					if len(f) > limits.MaxTagValueLength {
						return Rejected(
							reason.Invalid.F(
								"tag value longer than %d bytes",
								limits.MaxTagValueLength,
							),
						)
					}
				}
			}
		}
		return Ok
	}
}

func driftPolicy(limits Limits) (p Policy) {
	return func(c context.Context, ev *event.E, conn Conn) (r Result) {
		now := time.Now().Unix()
		if limits.MaxFutureSeconds > 0 &&
			ev.CreatedAt.I64() > now+limits.MaxFutureSeconds {
			return Rejected(
				reason.Invalid.F(
					"created_at more than %d seconds in the future",
					limits.MaxFutureSeconds,
				),
			)
		}
		if limits.MaxPastSeconds > 0 &&
			ev.CreatedAt.I64() < now-limits.MaxPastSeconds {
			return Rejected(
				reason.Invalid.F(
					"created_at more than %d seconds in the past",
					limits.MaxPastSeconds,
				),
			)
		}
		return Ok
	}
}

func bansPolicy(bans *Bans) (p Policy) {
	return func(c context.Context, ev *event.E, conn Conn) (r Result) {
		if bans.PubkeyBanned(ev.PubKeyString()) {
			return Rejected(reason.Blocked.S("pubkey not permitted to write"))
		}
		if bans.KindBanned(ev.Kind.K) {
			return Rejected(
				reason.Blocked.S("kind " + ev.Kind.String() + " not accepted"),
			)
		}
		if bans.EventBanned(ev.IdString()) {
			return Rejected(reason.Blocked.S("event is banned"))
		}
		return Ok
	}
}

// signaturePolicy runs last of the validation chain, as verification is
// by far the most expensive check.
func signaturePolicy(c context.Context, ev *event.E, conn Conn) (r Result) {
	ok, err := ev.Verify()
	if chk.D(err) {
		return Rejected(reason.Invalid.F("signature verification: %v", err))
	}
	if !ok {
		return Rejected(reason.Invalid.S("signature does not match id and pubkey"))
	}
	return Ok
}

// Deletion is the NIP-09 module. Admission is unconditional here; the
// deletion semantics run in the store.
func Deletion() (m *Module) {
	return &Module{
		Name:  "deletion",
		Nips:  []int{9},
		Kinds: []*kind.T{kind.Deletion},
	}
}

// Replaceable is the replaceable and addressable event routing module.
// The store performs the upsert; this module declares the NIPs.
func Replaceable() (m *Module) {
	return &Module{Name: "replaceable", Nips: []int{16, 33}}
}

// Expiration is the NIP-40 module: an event already past its expiration
// tag is refused on arrival.
func Expiration() (m *Module) {
	return &Module{
		Name: "expiration",
		Nips: []int{40},
		Policies: []Policy{
			func(c context.Context, ev *event.E, conn Conn) (r Result) {
				xt := ev.Tags.GetFirst(tag.New([]byte("expiration"), nil))
				if xt == nil || len(xt.Value()) == 0 {
					return Ok
				}
				exp, err := strconv.ParseInt(string(xt.Value()), 10, 64)
				if err != nil {
					return Rejected(
						reason.Invalid.S("expiration tag is not an integer"),
					)
				}
				if exp <= time.Now().Unix() {
					return Rejected(reason.Invalid.S("event has expired"))
				}
				return Ok
			},
		},
	}
}

// Auth is the NIP-42 module. Kind 22242 events are consumed by the
// socket layer's AUTH handler; one arriving via EVENT is shadowed so a
// confused client still gets an OK but nothing is stored.
func Auth() (m *Module) {
	return &Module{
		Name: "auth",
		Nips: []int{42},
		Policies: []Policy{
			func(c context.Context, ev *event.E, conn Conn) (r Result) {
				if ev.Kind.K == kind.ClientAuthentication.K {
					return Shadowed(nil)
				}
				return Ok
			},
		},
	}
}

// Protected is the NIP-70 module: an event tagged ["-"] may only be
// submitted over a connection authenticated as its author.
func Protected() (m *Module) {
	return &Module{
		Name: "protected",
		Nips: []int{70},
		Policies: []Policy{
			func(c context.Context, ev *event.E, conn Conn) (r Result) {
				if !ev.IsProtected() {
					return Ok
				}
				authed := conn.AuthedPubkey()
				if len(authed) == 0 {
					return Rejected(
						reason.AuthRequired.S(
							"protected event requires authentication",
						),
					)
				}
				if !utils.FastEqual(authed, ev.Pubkey) {
					return Rejected(
						reason.Restricted.S(
							"protected event may only be published by its author",
						),
					)
				}
				return Ok
			},
		},
	}
}

// Count declares NIP-45 support; COUNT is handled in the socket layer.
func Count() (m *Module) { return &Module{Name: "count", Nips: []int{45}} }

// Search declares NIP-50 support; matching happens in the filter.
func Search() (m *Module) { return &Module{Name: "search", Nips: []int{50}} }

// Negentropy declares NIP-77 support; reconciliation sessions live in
// the socket layer.
func Negentropy() (m *Module) {
	return &Module{Name: "negentropy", Nips: []int{77}}
}

// Info declares the NIPs the HTTP surface provides: the information
// document, management API and its HTTP auth.
func Info() (m *Module) {
	return &Module{Name: "info", Nips: []int{11, 86, 98}}
}
