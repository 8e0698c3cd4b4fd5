package auth

import (
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/utils"
)

// CheckPrivilege reports whether an authed pubkey may read an event.
// Non-privileged kinds are readable by anyone; privileged kinds (DMs,
// gift wraps) only by their author or a p-tagged recipient.
func CheckPrivilege(authedPubkey []byte, ev *event.E) (privileged bool) {
	if !ev.Kind.IsPrivileged() {
		return true
	}
	if len(authedPubkey) == 0 {
		return
	}
	if utils.FastEqual(ev.Pubkey, authedPubkey) {
		return true
	}
	// a p tag bearing the authed pubkey means the author addressed the
	// event to them
	hexAuthedKey := hex.EncAppend(nil, authedPubkey)
	for _, t := range ev.Tags.GetAll(tag.New("p")).ToSliceOfTags() {
		if utils.FastEqual(t.Value(), hexAuthedKey) {
			return true
		}
	}
	return
}
