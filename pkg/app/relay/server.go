// Package relay assembles the application: configuration, storage, the
// policy pipeline, the subscription fan-out and the HTTP surface with its
// websocket upgrade, information document and management API.
package relay

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"lantern.dev/pkg/app/config"
	"lantern.dev/pkg/interfaces/publisher"
	"lantern.dev/pkg/interfaces/store"
	"lantern.dev/pkg/modules"
	"lantern.dev/pkg/protocol/socketapi"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/context"
	"lantern.dev/pkg/utils/iptracker"
	"lantern.dev/pkg/utils/keys"
	"lantern.dev/pkg/utils/log"
)

// Server is the relay application: everything the protocol handlers
// reach through the server interface.
type Server struct {
	Ctx        context.T
	Cancel     context.F
	cfg        *config.C
	storage    store.I
	publishers publisher.Publishers
	registry   *modules.Registry
	bans       *modules.Bans
	tracker    *iptracker.T
	mux        *chi.Mux
	httpServer *http.Server
}

// NewServer wires up a relay from its configuration and an initialised
// event store: the admission lists, the built-in module pipeline, the
// websocket fan-out and the HTTP routes.
func NewServer(
	c context.T, cancel context.F, cfg *config.C, sto store.I,
) (s *Server) {
	s = &Server{
		Ctx:     c,
		Cancel:  cancel,
		cfg:     cfg,
		storage: sto,
		bans:    modules.NewBans(),
		tracker: iptracker.New(cfg.MaxInboundPerSec),
	}
	for _, pk := range cfg.BlockPubkeys {
		if _, err := keys.DecodeHexPubkey(pk); chk.E(err) {
			continue
		}
		s.bans.BanPubkey(pk, "blocked by configuration")
	}
	for _, pk := range cfg.AllowPubkeys {
		if _, err := keys.DecodeHexPubkey(pk); chk.E(err) {
			continue
		}
		s.bans.AllowPubkey(pk)
	}
	for _, k := range cfg.BlockKinds {
		s.bans.BlockKind(uint16(k))
	}
	for _, k := range cfg.AllowKinds {
		s.bans.AllowKind(uint16(k))
	}
	s.registry = modules.NewRegistry()
	s.registry.Register(
		modules.Validation(
			modules.Limits{
				MaxContentLength:  cfg.MaxContentLength,
				MaxEventTags:      cfg.MaxEventTags,
				MaxTagValueLength: cfg.MaxTagValueLength,
				MaxFutureSeconds:  cfg.MaxFutureSeconds,
				MaxPastSeconds:    cfg.MaxPastSeconds,
			},
			s.bans,
		),
		modules.Auth(),
		modules.Protected(),
		modules.Expiration(),
		modules.Deletion(),
		modules.Replaceable(),
		modules.Count(),
		modules.Search(),
		modules.Negentropy(),
		modules.Info(),
	)
	s.publishers = publisher.Publishers{socketapi.New()}
	s.mux = chi.NewRouter()
	s.mux.Get("/", s.handleRoot)
	s.mux.Post("/management", s.handleManagement)
	return
}

// handleRoot serves the standard nostr surface on the root path: the
// websocket upgrade and the NIP-11 information document.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Upgrade") == "websocket" {
		a := &socketapi.A{I: s, Tracker: s.tracker}
		a.Serve(w, r)
		return
	}
	if r.Header.Get("Accept") == "application/nostr+json" {
		s.HandleRelayInfo(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(s.cfg.AppName + " nostr relay; connect a nostr client here\n"))
}

// expirySweepInterval is how often events past their expiration tag are
// purged.
const expirySweepInterval = 10 * time.Minute

// sweepExpired periodically removes events whose expiration has passed.
func (s *Server) sweepExpired() {
	ticker := time.NewTicker(expirySweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.Ctx.Done():
			return
		case <-ticker.C:
			chk.E(s.storage.DeleteExpired())
		}
	}
}

// Start binds the listener and serves HTTP until shutdown.
func (s *Server) Start(host string, port int, started ...chan bool) (err error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	log.I.F("starting relay listener at %s", addr)
	var ln net.Listener
	if ln, err = net.Listen("tcp", addr); err != nil {
		return
	}
	s.httpServer = &http.Server{
		Handler:           cors.Default().Handler(s.mux),
		Addr:              addr,
		ReadHeaderTimeout: 7 * time.Second,
		IdleTimeout:       28 * time.Second,
	}
	go s.sweepExpired()
	for _, startedC := range started {
		close(startedC)
	}
	if err = s.httpServer.Serve(ln); errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return
}

// Shutdown cancels the root context, closes the event store and stops the
// HTTP listener.
func (s *Server) Shutdown() {
	log.I.Ln("shutting down relay")
	s.Cancel()
	log.W.Ln("closing event store")
	chk.E(s.storage.Close())
	if s.httpServer != nil {
		log.W.Ln("shutting down relay listener")
		chk.E(s.httpServer.Shutdown(context.Bg()))
	}
}
