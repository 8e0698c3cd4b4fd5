package relay

import (
	"lantern.dev/pkg/app/config"
	"lantern.dev/pkg/interfaces/publisher"
	"lantern.dev/pkg/interfaces/server"
	"lantern.dev/pkg/interfaces/store"
	"lantern.dev/pkg/modules"
	"lantern.dev/pkg/utils/context"
)

var _ server.I = &Server{}

// Context returns the server's root context.
func (s *Server) Context() (c context.T) { return s.Ctx }

// Config returns the active configuration.
func (s *Server) Config() (cfg *config.C) { return s.cfg }

// Storage returns the event store.
func (s *Server) Storage() (sto store.I) { return s.storage }

// Publisher returns the subscription fan-out.
func (s *Server) Publisher() (pub publisher.I) { return s.publishers }

// Modules returns the policy pipeline registry.
func (s *Server) Modules() (reg *modules.Registry) { return s.registry }

// Bans returns the runtime admission lists.
func (s *Server) Bans() (b *modules.Bans) { return s.bans }

// AuthRequired reports whether every verb requires NIP-42 auth.
func (s *Server) AuthRequired() (required bool) { return s.cfg.AuthRequired }
