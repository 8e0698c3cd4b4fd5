package relay

import (
	"net/http"

	"lantern.dev/pkg/protocol/relayinfo"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/log"
	"lantern.dev/pkg/version"
)

// HandleRelayInfo serves the NIP-11 information document: identity from
// configuration, the supported NIP list from the module registry, and
// the enforced caps.
func (s *Server) HandleRelayInfo(w http.ResponseWriter, r *http.Request) {
	log.T.Ln("serving relay information document")
	name := s.cfg.Name
	if name == "" {
		name = s.cfg.AppName
	}
	desc := s.cfg.Description
	if desc == "" {
		desc = version.Description
	}
	info := &relayinfo.T{
		Name:        name,
		Description: desc,
		Pubkey:      s.cfg.RelayPubkey,
		Contact:     s.cfg.Contact,
		Nips:        s.registry.Nips(),
		Software:    version.URL,
		Version:     version.V,
		Icon:        s.cfg.Icon,
		Limitation: relayinfo.Limits{
			MaxMessageLength: s.cfg.MaxMessageLength,
			MaxSubscriptions: s.cfg.MaxSubscriptions,
			MaxFilters:       s.cfg.MaxFilters,
			MaxLimit:         int(s.cfg.MaxLimit),
			MaxSubidLength:   s.cfg.MaxSubidLength,
			MaxEventTags:     s.cfg.MaxEventTags,
			MaxContentLength: s.cfg.MaxContentLength,
			AuthRequired:     s.cfg.AuthRequired,
			RestrictedWrites: len(s.cfg.AllowPubkeys) > 0,
		},
	}
	var b []byte
	var err error
	if b, err = info.Marshal(); chk.E(err) {
		http.Error(w, "failed to render information document", 500)
		return
	}
	w.Header().Set("Content-Type", "application/nostr+json")
	_, _ = w.Write(b)
}
