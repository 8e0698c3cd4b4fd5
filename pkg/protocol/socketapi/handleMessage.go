package socketapi

import (
	"encoding/json"
	"fmt"

	"lantern.dev/pkg/encoders/envelopes"
	"lantern.dev/pkg/encoders/envelopes/authenvelope"
	"lantern.dev/pkg/encoders/envelopes/closeenvelope"
	"lantern.dev/pkg/encoders/envelopes/countenvelope"
	"lantern.dev/pkg/encoders/envelopes/eventenvelope"
	"lantern.dev/pkg/encoders/envelopes/negenvelope"
	"lantern.dev/pkg/encoders/envelopes/noticeenvelope"
	"lantern.dev/pkg/encoders/envelopes/reqenvelope"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/log"
)

// HandleMessage identifies the envelope of one inbound message and routes
// it to the verb's handler. Handlers return a notice string when the
// client should be told why its message went nowhere.
func (a *A) HandleMessage(msg []byte) {
	log.T.C(
		func() string {
			return fmt.Sprintf(
				"%s received message:\n%s", a.Listener.RealRemote(), msg,
			)
		},
	)
	var notice []byte
	var err error
	var t string
	var rest []json.RawMessage
	if t, rest, err = envelopes.Identify(msg); chk.D(err) {
		notice = []byte(err.Error())
	}
	switch t {
	case eventenvelope.L:
		notice = a.HandleEvent(a.Ctx, rest)
	case reqenvelope.L:
		notice = a.HandleReq(a.Ctx, rest)
	case closeenvelope.L:
		notice = a.HandleClose(rest)
	case countenvelope.L:
		notice = a.HandleCount(a.Ctx, rest)
	case authenvelope.L:
		notice = a.HandleAuth(rest)
	case negenvelope.LOpen:
		notice = a.HandleNegOpen(a.Ctx, rest)
	case negenvelope.LMsg:
		notice = a.HandleNegMsg(rest)
	case negenvelope.LClose:
		notice = a.HandleNegClose(rest)
	case "":
	default:
		notice = []byte(fmt.Sprintf("unknown envelope type %s", t))
	}
	if len(notice) > 0 {
		log.D.F("notice->%s %s", a.Listener.RealRemote(), notice)
		if err = noticeenvelope.NewFrom(notice).Write(a.Listener); chk.D(err) {
			return
		}
	}
}
