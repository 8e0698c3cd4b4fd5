// Package ws implements the server side of a nostr websocket: a listener
// carrying the connection's authentication state and a bounded outbound
// queue drained by a single writer goroutine.
package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/fasthttp/websocket"

	"lantern.dev/pkg/app/relay/helpers"
	"lantern.dev/pkg/protocol/auth"
	"lantern.dev/pkg/utils/atomic"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/log"
)

// Listener is a websocket connection from the relay's point of view. All
// outbound frames pass through Write, which enqueues onto a bounded
// channel; a dedicated writer goroutine owns the socket for data frames.
// Exceeding the queue's high water mark closes the connection, because a
// client that cannot keep up will resync with a fresh REQ anyway.
type Listener struct {
	Conn         *websocket.Conn
	Request      *http.Request
	remote       atomic.String
	authedPubkey atomic.Bytes
	challenge    atomic.Bytes
	authRequest  atomic.Bool
	out          chan []byte
	done         chan struct{}
	closeOnce    sync.Once
}

// NewListener wraps an upgraded websocket connection and starts its
// writer. Every connection gets a challenge so AUTH can begin at any
// time.
func NewListener(
	conn *websocket.Conn, req *http.Request, highWater int,
) (ws *Listener) {
	ws = &Listener{
		Conn:    conn,
		Request: req,
		out:     make(chan []byte, highWater),
		done:    make(chan struct{}),
	}
	ws.setRemoteFromReq(req)
	ws.SetChallenge(auth.GenerateChallenge())
	go ws.writer()
	return
}

func (ws *Listener) setRemoteFromReq(r *http.Request) {
	rr := helpers.GetRemoteFromReq(r)
	if rr == "" {
		// fall back to the socket remote, the proxy itself when one is
		// in front
		rr = ws.Conn.NetConn().RemoteAddr().String()
	}
	ws.remote.Store(rr)
}

// writer drains the outbound queue onto the socket until the listener
// closes.
func (ws *Listener) writer() {
	for {
		select {
		case <-ws.done:
			return
		case p := <-ws.out:
			if err := ws.Conn.WriteMessage(
				websocket.TextMessage, p,
			); err != nil {
				ws.Close()
				return
			}
		}
	}
}

// Write enqueues a text frame for the client. A full queue means the
// client has fallen too far behind; the connection is closed and the
// frame dropped.
func (ws *Listener) Write(p []byte) (n int, err error) {
	select {
	case <-ws.done:
		return
	case ws.out <- p:
		n = len(p)
		return
	default:
	}
	log.W.F(
		"%s outbound queue overflow, disconnecting", ws.RealRemote(),
	)
	ws.Close()
	return
}

// WriteControl sends a websocket control frame directly; the underlying
// implementation permits this concurrently with the writer goroutine.
func (ws *Listener) WriteControl(
	messageType int, data []byte, deadline time.Time,
) (err error) {
	return ws.Conn.WriteControl(messageType, data, deadline)
}

// QueueLen returns how many frames are waiting for the client.
func (ws *Listener) QueueLen() (n int) { return len(ws.out) }

// RealRemote returns the stored remote address of the client.
func (ws *Listener) RealRemote() (remote string) { return ws.remote.Load() }

// Req returns the http.Request that opened the connection.
func (ws *Listener) Req() (r *http.Request) { return ws.Request }

// Done is closed when the listener has shut down.
func (ws *Listener) Done() (done <-chan struct{}) { return ws.done }

// Close shuts the listener down once: the writer stops and the socket
// closes.
func (ws *Listener) Close() (err error) {
	ws.closeOnce.Do(
		func() {
			close(ws.done)
			err = ws.Conn.Close()
			chk.D(err)
		},
	)
	return
}

// AuthedPubkey returns the pubkey the connection authenticated as, nil
// when unauthenticated.
func (ws *Listener) AuthedPubkey() (pk []byte) {
	return ws.authedPubkey.Load()
}

// SetAuthedPubkey records a successful NIP-42 authentication.
func (ws *Listener) SetAuthedPubkey(b []byte) { ws.authedPubkey.Store(b) }

// IsAuthed reports whether the connection has authenticated.
func (ws *Listener) IsAuthed() (is bool) {
	return len(ws.authedPubkey.Load()) > 0
}

// Challenge returns the challenge issued to this connection.
func (ws *Listener) Challenge() (b []byte) { return ws.challenge.Load() }

// SetChallenge stores a new challenge for this connection.
func (ws *Listener) SetChallenge(b []byte) { ws.challenge.Store(b) }

// AuthRequested reports whether the relay has sent an AUTH challenge.
func (ws *Listener) AuthRequested() (requested bool) {
	return ws.authRequest.Load()
}

// RequestAuth records that the relay asked the client to authenticate.
func (ws *Listener) RequestAuth() { ws.authRequest.Store(true) }
