package relay

import (
	"errors"

	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/reason"
	"lantern.dev/pkg/interfaces/store"
	"lantern.dev/pkg/modules"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/context"
	"lantern.dev/pkg/utils/log"
)

// AddEvent runs an inbound event through the policy pipeline, applies
// deletion semantics, stores it as its kind class demands, and fans it
// out to matching subscriptions. The returned message is the reason part
// of the OK envelope.
func (s *Server) AddEvent(
	c context.T, ev *event.E, conn modules.Conn,
) (accepted bool, message []byte) {
	if ev == nil {
		return false, reason.Invalid.S("empty event")
	}
	res := s.registry.Admit(c, ev, conn)
	switch res.Action {
	case modules.Reject:
		return false, res.Reason
	case modules.Shadow:
		// acknowledged but consumed; nothing is stored or broadcast
		return true, res.Reason
	}
	directive, err := s.registry.PreStore(c, ev)
	if chk.E(err) {
		return false, reason.Error.F("%s", err)
	}
	if ev.Kind.K == kind.Deletion.K {
		if err = s.storage.ProcessDeletion(c, ev); err != nil {
			return false, reason.Blocked.F("%s", err)
		}
	}
	if directive == modules.Store && !ev.Kind.IsEphemeral() {
		if err = s.storage.SaveEvent(c, ev); err != nil {
			switch {
			case errors.Is(err, store.ErrDuplicate):
				// accepted but a no-op
				return true, reason.Duplicate.S("already have this event")
			case errors.Is(err, store.ErrSuperseded):
				return false, reason.Duplicate.S(
					"a newer version of this event is already stored",
				)
			case errors.Is(err, store.ErrDeleted):
				return false, reason.Deleted.S(
					"this event was deleted and may not be submitted again",
				)
			default:
				log.E.F("failed to store event %0x: %v", ev.Id, err)
				return false, reason.Error.F("failed to store event")
			}
		}
	}
	s.registry.PostStore(c, ev)
	s.publishers.Deliver(ev)
	return true, nil
}
