package socketapi

import (
	"encoding/json"

	"lantern.dev/pkg/encoders/envelopes/authenvelope"
	"lantern.dev/pkg/encoders/envelopes/closedenvelope"
	"lantern.dev/pkg/encoders/envelopes/countenvelope"
	"lantern.dev/pkg/encoders/reason"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/context"
	"lantern.dev/pkg/utils/log"
)

// HandleCount processes a NIP-45 COUNT: the summed match count over the
// request's filters, flagged approximate if any store count was.
func (a *A) HandleCount(c context.T, rest []json.RawMessage) (notice []byte) {
	var err error
	var env *countenvelope.Request
	if env, err = countenvelope.ParseRequest(rest); chk.D(err) {
		return []byte(err.Error())
	}
	if a.I.AuthRequired() && !a.Listener.IsAuthed() {
		a.Listener.RequestAuth()
		if err = closedenvelope.NewFrom(
			env.Subscription,
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
	sto := a.I.Storage()
	var total int
	var approx bool
	for _, f := range env.Filters.F {
		var count int
		var app bool
		if count, app, err = sto.CountEvents(c, f); chk.E(err) {
			log.E.F("count failed: %v", err)
			continue
		}
		total += count
		approx = approx || app
	}
	if err = countenvelope.NewResponse(
		env.Subscription, total, approx,
	).Write(a.Listener); chk.E(err) {
		return
	}
	return
}
