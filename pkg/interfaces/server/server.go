// Package server defines the interface the websocket protocol handlers
// use to reach the application: configuration, storage, the policy
// pipeline, and the event ingestion entry point.
package server

import (
	"lantern.dev/pkg/app/config"
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/interfaces/publisher"
	"lantern.dev/pkg/interfaces/store"
	"lantern.dev/pkg/modules"
	"lantern.dev/pkg/utils/context"
)

// I is the application as seen from the protocol layer.
type I interface {
	// Context is the server's root context, cancelled on shutdown.
	Context() (c context.T)
	// Config returns the active configuration.
	Config() (cfg *config.C)
	// Storage returns the event store.
	Storage() (sto store.I)
	// Publisher returns the subscription fan-out.
	Publisher() (pub publisher.I)
	// Modules returns the policy pipeline registry.
	Modules() (reg *modules.Registry)
	// Bans returns the runtime admission lists shared between the
	// pipeline and the management API.
	Bans() (b *modules.Bans)
	// AuthRequired reports whether every verb requires NIP-42 auth.
	AuthRequired() (required bool)
	// AddEvent runs an inbound event through the pipeline, stores and
	// broadcasts it as its kind demands, and renders the OK verdict.
	AddEvent(c context.T, ev *event.E, conn modules.Conn) (
		accepted bool, message []byte,
	)
	// Shutdown releases the server's resources.
	Shutdown()
}
