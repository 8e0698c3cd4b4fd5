package socketapi

import (
	"encoding/json"

	"lantern.dev/pkg/encoders/envelopes/authenvelope"
	"lantern.dev/pkg/encoders/envelopes/eventenvelope"
	"lantern.dev/pkg/encoders/envelopes/okenvelope"
	"lantern.dev/pkg/encoders/reason"
	"lantern.dev/pkg/utils"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/context"
	"lantern.dev/pkg/utils/log"
)

// HandleEvent processes an EVENT submission: schema and id checks here,
// then the policy pipeline, storage routing and broadcast via AddEvent.
// The verdict always goes back as an OK envelope keyed by the event id.
func (a *A) HandleEvent(c context.T, rest []json.RawMessage) (notice []byte) {
	var err error
	var env *eventenvelope.Submission
	if env, err = eventenvelope.ParseSubmission(rest); chk.D(err) {
		return []byte(err.Error())
	}
	ev := env.Event
	log.T.F(
		"EVENT %0x from %s authed %0x", ev.Id, a.Listener.RealRemote(),
		a.Listener.AuthedPubkey(),
	)
	calculated := ev.GetIDBytes()
	if !utils.FastEqual(calculated, ev.Id) {
		if err = okenvelope.NewFrom(
			ev.Id, false,
			reason.Invalid.F(
				"event id is %0x but canonical serialization hashes to %0x",
				ev.Id, calculated,
			),
		).Write(a.Listener); chk.E(err) {
			return
		}
		return
	}
	if a.I.AuthRequired() && !a.Listener.IsAuthed() {
		a.Listener.RequestAuth()
		if err = okenvelope.NewFrom(
			ev.Id, false,
			reason.AuthRequired.S("this relay requires authentication"),
		).Write(a.Listener); chk.E(err) {
			return
		}
		if err = authenvelope.NewChallengeWith(a.Listener.Challenge()).
			Write(a.Listener); chk.E(err) {
			return
		}
		return
	}
	accepted, message := a.I.AddEvent(c, ev, a.Listener)
	if err = okenvelope.NewFrom(
		ev.Id, accepted, message,
	).Write(a.Listener); chk.E(err) {
		return
	}
	return
}
