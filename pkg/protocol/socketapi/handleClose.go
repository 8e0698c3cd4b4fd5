package socketapi

import (
	"encoding/json"

	"lantern.dev/pkg/encoders/envelopes/closeenvelope"
	"lantern.dev/pkg/utils/chk"
)

// HandleClose cancels one subscription by id.
func (a *A) HandleClose(rest []json.RawMessage) (notice []byte) {
	var err error
	var env *closeenvelope.T
	if env, err = closeenvelope.Parse(rest); chk.D(err) {
		return []byte(err.Error())
	}
	if len(env.Subscription) == 0 {
		return []byte("CLOSE has no subscription id")
	}
	delete(a.subs, string(env.Subscription))
	a.I.Publisher().Receive(
		&W{
			Cancel:   true,
			Listener: a.Listener,
			Id:       string(env.Subscription),
		},
	)
	return
}
