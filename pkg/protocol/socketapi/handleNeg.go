package socketapi

import (
	"encoding/json"

	"lantern.dev/pkg/encoders/envelopes/negenvelope"
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/protocol/auth"
	"lantern.dev/pkg/protocol/negentropy"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/context"
	"lantern.dev/pkg/utils/log"
)

func (a *A) negError(sub, why []byte) (notice []byte) {
	if err := negenvelope.NewError(sub, why).Write(a.Listener); chk.E(err) {
		return []byte(err.Error())
	}
	return
}

// HandleNegOpen starts a reconciliation session: the relay materialises
// the id set matching the filter, diffs it against the ids the client
// claims, and answers with a NEG-MSG carrying what the client is missing.
func (a *A) HandleNegOpen(c context.T, rest []json.RawMessage) (notice []byte) {
	var err error
	var env *negenvelope.Open
	if env, err = negenvelope.ParseOpen(rest); chk.D(err) {
		return []byte(err.Error())
	}
	if a.I.AuthRequired() && !a.Listener.IsAuthed() {
		return a.negError(
			env.Subscription,
			[]byte("auth-required: this relay requires authentication"),
		)
	}
	var client negentropy.IdList
	if client, err = negentropy.UnmarshalHex(env.Message); chk.D(err) {
		return a.negError(env.Subscription, []byte("error: "+err.Error()))
	}
	var evs event.S
	if evs, err = a.I.Storage().QueryEvents(c, env.Filter); chk.E(err) {
		return a.negError(env.Subscription, []byte("error: query failed"))
	}
	have := make(negentropy.IdList, 0, len(evs))
	for _, ev := range evs {
		if !auth.CheckPrivilege(a.Listener.AuthedPubkey(), ev) {
			continue
		}
		have = append(have, ev.Id)
	}
	sub := string(env.Subscription)
	if err = a.Sessions.Open(sub, have); err != nil {
		return a.negError(env.Subscription, []byte("blocked: "+err.Error()))
	}
	var needs negentropy.IdList
	if needs, err = a.Sessions.Round(sub, client); chk.E(err) {
		return a.negError(env.Subscription, []byte("error: "+err.Error()))
	}
	log.T.F(
		"NEG-OPEN %s from %s: have %d, client %d, needs %d",
		sub, a.Listener.RealRemote(), len(have), len(client), len(needs),
	)
	if err = negenvelope.NewMsgWith(
		env.Subscription, needs.MarshalHex(),
	).Write(a.Listener); chk.E(err) {
		return
	}
	return
}

// HandleNegMsg continues a session with the client's updated owned set,
// answering with the remaining diff.
func (a *A) HandleNegMsg(rest []json.RawMessage) (notice []byte) {
	var err error
	var env *negenvelope.Msg
	if env, err = negenvelope.ParseMsg(rest); chk.D(err) {
		return []byte(err.Error())
	}
	var client negentropy.IdList
	if client, err = negentropy.UnmarshalHex(env.Message); chk.D(err) {
		return a.negError(env.Subscription, []byte("error: "+err.Error()))
	}
	var needs negentropy.IdList
	if needs, err = a.Sessions.Round(string(env.Subscription), client); err != nil {
		return a.negError(env.Subscription, []byte("closed: "+err.Error()))
	}
	if err = negenvelope.NewMsgWith(
		env.Subscription, needs.MarshalHex(),
	).Write(a.Listener); chk.E(err) {
		return
	}
	return
}

// HandleNegClose ends a session; unknown sessions are a no-op.
func (a *A) HandleNegClose(rest []json.RawMessage) (notice []byte) {
	var err error
	var env *negenvelope.Close
	if env, err = negenvelope.ParseClose(rest); chk.D(err) {
		return []byte(err.Error())
	}
	a.Sessions.Close(string(env.Subscription))
	return
}
