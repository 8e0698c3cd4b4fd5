// Package socketapi implements the nostr wire protocol over a websocket
// connection: one reader loop dispatching verbs in receive order, the
// bounded writer living in the ws listener, and the subscription fan-out.
package socketapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/fasthttp/websocket"

	"lantern.dev/pkg/encoders/envelopes/authenvelope"
	"lantern.dev/pkg/encoders/envelopes/noticeenvelope"
	"lantern.dev/pkg/interfaces/server"
	"lantern.dev/pkg/protocol/negentropy"
	"lantern.dev/pkg/protocol/ws"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/context"
	"lantern.dev/pkg/utils/iptracker"
	"lantern.dev/pkg/utils/log"
	"lantern.dev/pkg/utils/units"
)

const (
	DefaultWriteWait      = 10 * time.Second
	DefaultPongWait       = 60 * time.Second
	DefaultPingWait       = DefaultPongWait / 2
	DefaultMaxMessageSize = 1 * units.Mb
)

// A serves one websocket connection: the listener, the connection scoped
// context, the reconciliation session table and the per-connection
// subscription registry.
type A struct {
	Ctx context.T
	*ws.Listener
	server.I
	Sessions *negentropy.Sessions
	Tracker  *iptracker.T

	// subs tracks this connection's subscription ids; only the reader
	// loop touches it, so no lock.
	subs map[string]struct{}
}

// Serve upgrades the request and runs the connection until it closes or
// the server shuts down. Inbound messages are dispatched synchronously
// so verbs take effect in receive order and OK frames come back in
// submission order.
func (a *A) Serve(w http.ResponseWriter, r *http.Request) {
	var err error
	cfg := a.I.Config()
	ticker := time.NewTicker(DefaultPingWait)
	var cancel context.F
	a.Ctx, cancel = context.Cancel(a.I.Context())
	var conn *websocket.Conn
	if conn, err = Upgrader.Upgrade(w, r, nil); chk.E(err) {
		log.E.F("failed to upgrade websocket: %v", err)
		return
	}
	a.Listener = ws.NewListener(conn, r, cfg.WriteQueueHighWater)
	a.Sessions = negentropy.NewSessions(
		cfg.NegMaxSessions, cfg.NegSessionTimeout,
	)
	a.subs = make(map[string]struct{})
	defer func() {
		cancel()
		ticker.Stop()
		a.Sessions.CloseAll()
		a.I.Publisher().Receive(&W{Cancel: true, Listener: a.Listener})
		chk.D(a.Listener.Close())
	}()
	maxMessage := int64(cfg.MaxMessageLength)
	if maxMessage <= 0 {
		maxMessage = DefaultMaxMessageSize
	}
	conn.SetReadLimit(maxMessage)
	chk.E(conn.SetReadDeadline(time.Now().Add(DefaultPongWait)))
	conn.SetPongHandler(
		func(string) error {
			chk.E(conn.SetReadDeadline(time.Now().Add(DefaultPongWait)))
			return nil
		},
	)
	if a.I.AuthRequired() {
		log.T.F("requesting auth from client at %s", a.Listener.RealRemote())
		a.Listener.RequestAuth()
		if err = authenvelope.NewChallengeWith(a.Listener.Challenge()).
			Write(a.Listener); chk.E(err) {
			return
		}
	}
	go a.Pinger(a.Ctx, ticker, cancel)
	var mt int
	var message []byte
	for {
		select {
		case <-a.Ctx.Done():
			return
		default:
		}
		if mt, message, err = conn.ReadMessage(); err != nil {
			if strings.Contains(
				err.Error(), "use of closed network connection",
			) {
				return
			}
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
				websocket.CloseAbnormalClosure,
			) {
				log.W.F(
					"unexpected close error from %s: %v",
					a.Listener.RealRemote(), err,
				)
			}
			return
		}
		if a.Tracker != nil && !a.Tracker.Allow(a.Listener.RealRemote()) {
			if a.Tracker.IsBlocked(a.Listener.RealRemote()) {
				log.W.F(
					"%s blocked for flooding, disconnecting",
					a.Listener.RealRemote(),
				)
				return
			}
			continue
		}
		if notice := frameNotice(mt); notice != nil {
			log.D.F(
				"rejected frame type %d from %s", mt,
				a.Listener.RealRemote(),
			)
			if err = noticeenvelope.NewFrom(notice).
				Write(a.Listener); chk.E(err) {
				return
			}
			continue
		}
		a.HandleMessage(message)
	}
}

// frameNotice returns the rejection notice for a websocket data frame
// that is not text; the protocol is JSON over text frames only.
func frameNotice(mt int) (notice []byte) {
	if mt == websocket.TextMessage {
		return
	}
	return []byte("invalid: only text frames are accepted")
}
