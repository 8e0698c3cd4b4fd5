// Package httpauth implements NIP-98 HTTP authentication: a signed kind
// 27235 event carried base64 encoded in the Authorization header, bound
// to the request's URL and method.
package httpauth

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/encoders/tags"
	"lantern.dev/pkg/encoders/timestamp"
	"lantern.dev/pkg/interfaces/signer"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/errorf"
)

const (
	// HeaderKey is the HTTP header carrying the auth blob.
	HeaderKey = "Authorization"
	// Prefix is the scheme token preceding the base64 event.
	Prefix = "Nostr"
	// DefaultTolerance is how far the event's created_at may sit from
	// now when the caller does not specify.
	DefaultTolerance = time.Minute
)

// MakeEvent creates an unsigned NIP-98 event for a URL and method.
func MakeEvent(u, method string) (ev *event.E) {
	return &event.E{
		CreatedAt: timestamp.Now(),
		Kind:      kind.HTTPAuth,
		Tags: tags.New(
			tag.New("u", u),
			tag.New("method", strings.ToUpper(method)),
		),
	}
}

// CreateBlob signs a NIP-98 event and renders the header value payload.
func CreateBlob(u, method string, sign signer.I) (blob string, err error) {
	ev := MakeEvent(u, method)
	if err = ev.Sign(sign); chk.E(err) {
		return
	}
	blob = base64.URLEncoding.EncodeToString(ev.Serialize())
	return
}

// AddHeader signs a NIP-98 event for the request and attaches the
// Authorization header to it.
func AddHeader(
	r *http.Request, ur *url.URL, method string, sign signer.I,
) (err error) {
	var b64 string
	if b64, err = CreateBlob(ur.String(), method, sign); chk.E(err) {
		return
	}
	r.Header.Add(HeaderKey, Prefix+" "+b64)
	return
}

// Validate checks the Authorization header of a request: scheme, base64
// decode, kind 27235, u tag matching serviceURL, method tag matching the
// request method, created_at within tolerance, and a valid signature.
// The authenticated pubkey is returned on success.
func Validate(
	r *http.Request, serviceURL string, tolerance time.Duration,
) (pubkey []byte, err error) {
	h := r.Header.Get(HeaderKey)
	if h == "" {
		err = errorf.E("missing Authorization header")
		return
	}
	scheme, blob, found := strings.Cut(h, " ")
	if !found || scheme != Prefix {
		err = errorf.E("Authorization header is not a Nostr auth blob")
		return
	}
	var raw []byte
	if raw, err = base64.URLEncoding.DecodeString(blob); err != nil {
		err = errorf.E("auth blob is not valid base64: %v", err)
		return
	}
	ev := event.New()
	if err = ev.Unmarshal(raw); err != nil {
		err = errorf.E("auth blob is not a valid event: %v", err)
		return
	}
	if ev.Kind.K != kind.HTTPAuth.K {
		err = errorf.E("auth event has kind %d, want %d", ev.Kind.K, kind.HTTPAuth.K)
		return
	}
	ut := ev.Tags.GetFirst(tag.New([]byte("u"), nil))
	if ut == nil || !urlsEqual(string(ut.Value()), serviceURL) {
		err = errorf.E("auth event u tag does not match request URL")
		return
	}
	mt := ev.Tags.GetFirst(tag.New([]byte("method"), nil))
	if mt == nil || !strings.EqualFold(string(mt.Value()), r.Method) {
		err = errorf.E("auth event method tag does not match request method")
		return
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	now := time.Now()
	if ev.CreatedAt.Time().After(now.Add(tolerance)) ||
		ev.CreatedAt.Time().Before(now.Add(-tolerance)) {
		err = errorf.E("auth event created_at outside tolerance %v", tolerance)
		return
	}
	var ok bool
	if ok, err = ev.Verify(); chk.D(err) {
		return
	}
	if !ok {
		err = errorf.E("auth event signature invalid")
		return
	}
	pubkey = ev.Pubkey
	return
}

func urlsEqual(a, b string) (same bool) {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}
