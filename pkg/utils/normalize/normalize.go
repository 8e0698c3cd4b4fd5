// Package normalize canonicalizes relay URLs so the NIP-42 relay tag can be
// compared against the configured self URLs.
package normalize

import (
	"net/url"
	"strings"
)

// URL lowercases a relay URL, supplies a ws:// scheme when missing, maps
// http schemes to their websocket equivalents and strips the trailing slash.
func URL(u string) (s string) {
	u = strings.ToLower(strings.TrimSpace(u))
	if u == "" {
		return
	}
	if !strings.Contains(u, "://") {
		u = "wss://" + u
	}
	p, err := url.Parse(u)
	if err != nil {
		return
	}
	switch p.Scheme {
	case "http":
		p.Scheme = "ws"
	case "https":
		p.Scheme = "wss"
	}
	p.Path = strings.TrimRight(p.Path, "/")
	s = p.String()
	return
}
