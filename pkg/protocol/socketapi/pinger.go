package socketapi

import (
	"time"

	"github.com/fasthttp/websocket"

	"lantern.dev/pkg/encoders/envelopes/negenvelope"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/context"
	"lantern.dev/pkg/utils/log"
)

// Pinger keeps the connection alive with periodic pings and reaps idle
// reconciliation sessions, emitting NEG-ERR for each one it closes. It
// cancels the connection when a ping cannot be written.
func (a *A) Pinger(ctx context.T, ticker *time.Ticker, cancel context.F) {
	defer func() {
		cancel()
		ticker.Stop()
		_ = a.Listener.Close()
	}()
	var err error
	for {
		select {
		case <-ticker.C:
			if err = a.Listener.WriteControl(
				websocket.PingMessage, nil,
				time.Now().Add(DefaultPingWait),
			); err != nil {
				log.D.F("error writing ping: %v; closing websocket", err)
				return
			}
			for _, sub := range a.Sessions.Reap() {
				if err = negenvelope.NewError(
					sub, []byte("closed: session timed out"),
				).Write(a.Listener); chk.D(err) {
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
