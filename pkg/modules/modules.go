// Package modules implements the relay's policy pipeline. Behavior is
// bundled into named modules, each declaring the NIPs it provides, the
// kinds it claims, a chain of admission policies, and optional pre and
// post store hooks. The registry runs an inbound event through every
// module's policies in registration order; the first verdict that is not
// an accept decides the event's fate.
package modules

import (
	"context"
	"sort"

	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/kind"
)

// Conn is the slice of connection state policies may consult. It is
// implemented by the websocket listener.
type Conn interface {
	// AuthedPubkey returns the NIP-42 authenticated pubkey, nil when the
	// connection has not authenticated.
	AuthedPubkey() (pk []byte)
	// Challenge returns the challenge issued to the connection.
	Challenge() (b []byte)
	// RealRemote returns the client's address for logging and rate
	// accounting.
	RealRemote() (remote string)
}

// Action is a policy verdict.
type Action int

const (
	// Accept lets the event continue down the pipeline.
	Accept Action = iota
	// Reject refuses the event; its reason is sent in the OK envelope.
	Reject
	// Shadow acknowledges the event with OK true but neither stores nor
	// broadcasts it. Auth responses are consumed this way.
	Shadow
)

// Result is a policy verdict with its client-facing reason.
type Result struct {
	Action Action
	Reason []byte
}

// Ok is the accepting result.
var Ok = Result{Action: Accept}

// Rejected returns a rejecting result with the given reason.
func Rejected(reason []byte) (r Result) {
	return Result{Action: Reject, Reason: reason}
}

// Shadowed returns a shadow result with the given reason.
func Shadowed(reason []byte) (r Result) {
	return Result{Action: Shadow, Reason: reason}
}

// Policy examines an inbound event in the context of its connection and
// renders a verdict. Policies must not mutate the event.
type Policy func(c context.Context, ev *event.E, conn Conn) (r Result)

// StoreDirective tells the event handler how to route a write.
type StoreDirective int

const (
	// Store writes the event through the normal path.
	Store StoreDirective = iota
	// Discard skips storage entirely. Ephemeral kinds broadcast without
	// a write.
	Discard
)

// PreStoreHook runs after admission for the one module claiming the
// event's kind, and may redirect the write.
type PreStoreHook func(c context.Context, ev *event.E) (d StoreDirective, err error)

// PostStoreHook runs side effects after a successful store.
type PostStoreHook func(c context.Context, ev *event.E)

// Module is a named bundle of protocol behavior.
type Module struct {
	// Name identifies the module in logs.
	Name string
	// Nips lists the NIP numbers the module provides, for the
	// information document.
	Nips []int
	// Kinds lists the kinds the module claims with its PreStore hook.
	Kinds []*kind.T
	// Policies run in order on every inbound event.
	Policies []Policy
	// PreStore runs when an admitted event's kind is in Kinds.
	PreStore PreStoreHook
	// PostStore runs after an event the module claims is stored.
	PostStore PostStoreHook
}

// Claims reports whether the module's PreStore hook applies to a kind.
func (m *Module) Claims(k *kind.T) (has bool) {
	for _, mk := range m.Kinds {
		if mk.K == k.K {
			return true
		}
	}
	return
}

// Registry holds the registered modules and runs the pipeline.
type Registry struct {
	modules []*Module
}

// NewRegistry creates an empty registry.
func NewRegistry() (r *Registry) { return &Registry{} }

// Register appends modules to the pipeline. Order is significant: the
// earliest non-accepting policy decides.
func (r *Registry) Register(mods ...*Module) { r.modules = append(r.modules, mods...) }

// Nips returns the sorted union of NIP numbers across all registered
// modules, as published in the information document.
func (r *Registry) Nips() (nips []int) {
	seen := make(map[int]struct{})
	for _, m := range r.modules {
		for _, n := range m.Nips {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			nips = append(nips, n)
		}
	}
	sort.Ints(nips)
	return
}

// Admit runs every module's policies against an event. The first verdict
// other than Accept is returned as-is.
func (r *Registry) Admit(c context.Context, ev *event.E, conn Conn) (res Result) {
	for _, m := range r.modules {
		for _, p := range m.Policies {
			if res = p(c, ev, conn); res.Action != Accept {
				return
			}
		}
	}
	return Ok
}

// PreStore runs the pre-store hook of the module claiming the event's
// kind, if any. One module per kind; the first registered wins.
func (r *Registry) PreStore(c context.Context, ev *event.E) (
	d StoreDirective, err error,
) {
	for _, m := range r.modules {
		if m.PreStore == nil || !m.Claims(ev.Kind) {
			continue
		}
		return m.PreStore(c, ev)
	}
	return Store, nil
}

// PostStore runs the post-store hooks of every module claiming the
// event's kind.
func (r *Registry) PostStore(c context.Context, ev *event.E) {
	for _, m := range r.modules {
		if m.PostStore == nil || !m.Claims(ev.Kind) {
			continue
		}
		m.PostStore(c, ev)
	}
}
