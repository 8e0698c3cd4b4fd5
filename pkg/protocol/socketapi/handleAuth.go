package socketapi

import (
	"encoding/json"

	"lantern.dev/pkg/encoders/envelopes/authenvelope"
	"lantern.dev/pkg/encoders/envelopes/okenvelope"
	"lantern.dev/pkg/encoders/reason"
	"lantern.dev/pkg/protocol/auth"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/log"
)

// HandleAuth validates a NIP-42 auth response against this connection's
// challenge and the relay's configured URLs, and on success records the
// authenticated pubkey.
func (a *A) HandleAuth(rest []json.RawMessage) (notice []byte) {
	var err error
	var env *authenvelope.Response
	if env, err = authenvelope.ParseResponse(rest); chk.D(err) {
		return []byte(err.Error())
	}
	cfg := a.I.Config()
	var valid bool
	if valid, err = auth.Validate(
		env.Event, a.Listener.Challenge(), cfg.MaxAuthAge, cfg.URLs...,
	); err != nil || !valid {
		var why []byte
		if err != nil {
			why = reason.AuthRequired.F("%s", err)
		} else {
			why = reason.AuthRequired.S("auth response does not validate")
		}
		if err = okenvelope.NewFrom(
			env.Event.Id, false, why,
		).Write(a.Listener); chk.E(err) {
			return
		}
		// issue a fresh challenge so the client can try again
		a.Listener.SetChallenge(auth.GenerateChallenge())
		if err = authenvelope.NewChallengeWith(a.Listener.Challenge()).
			Write(a.Listener); chk.E(err) {
			return
		}
		return
	}
	a.Listener.SetAuthedPubkey(env.Event.Pubkey)
	log.D.F(
		"%s authed to pubkey %0x", a.Listener.RealRemote(), env.Event.Pubkey,
	)
	if a.Tracker != nil {
		a.Tracker.Forget(a.Listener.RealRemote())
	}
	if err = okenvelope.NewFrom(
		env.Event.Id, true, nil,
	).Write(a.Listener); chk.E(err) {
		return
	}
	return
}
