// Package helpers holds small HTTP request utilities used by the relay
// server and the websocket listener.
package helpers

import (
	"net/http"
	"strings"
)

// GetRemoteFromReq retrieves the originating address of the client from
// an HTTP request, preferring the RFC 7239 Forwarded header, then
// X-Forwarded-For, then the socket's remote address. Proxies may stack
// several hops in one header; the first entry is the client.
func GetRemoteFromReq(r *http.Request) (rr string) {
	if fwd := r.Header.Get("Forwarded"); fwd != "" {
		for _, part := range strings.Split(strings.Split(fwd, ",")[0], ";") {
			k, v, found := strings.Cut(strings.TrimSpace(part), "=")
			if !found || !strings.EqualFold(k, "for") {
				continue
			}
			v = strings.Trim(v, `"`)
			// IPv6 addresses come bracketed
			return strings.Trim(v, "[]")
		}
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	return r.RemoteAddr
}
