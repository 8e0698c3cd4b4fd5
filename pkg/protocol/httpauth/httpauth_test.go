package httpauth

import (
	"encoding/base64"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern.dev/pkg/crypto/p256k"
	"lantern.dev/pkg/encoders/timestamp"
	"lantern.dev/pkg/interfaces/signer"
)

const serviceURL = "https://relay.example.com/management"

func newSigner(t *testing.T) (sign signer.I) {
	sign = &p256k.Signer{}
	require.NoError(t, sign.Generate())
	return
}

func TestValidateAccepts(t *testing.T) {
	sign := newSigner(t)
	r := httptest.NewRequest("POST", serviceURL, nil)
	u, err := url.Parse(serviceURL)
	require.NoError(t, err)
	require.NoError(t, AddHeader(r, u, "POST", sign))
	pubkey, err := Validate(r, serviceURL, 0)
	require.NoError(t, err)
	assert.Equal(t, sign.Pub(), pubkey)
}

func TestValidateTrailingSlash(t *testing.T) {
	sign := newSigner(t)
	r := httptest.NewRequest("POST", serviceURL, nil)
	u, err := url.Parse(serviceURL + "/")
	require.NoError(t, err)
	require.NoError(t, AddHeader(r, u, "POST", sign))
	_, err = Validate(r, serviceURL, 0)
	assert.NoError(t, err)
}

func TestValidateRejectsMissingHeader(t *testing.T) {
	r := httptest.NewRequest("POST", serviceURL, nil)
	_, err := Validate(r, serviceURL, 0)
	assert.Error(t, err)
}

func TestValidateRejectsWrongScheme(t *testing.T) {
	r := httptest.NewRequest("POST", serviceURL, nil)
	r.Header.Set(HeaderKey, "Bearer abcdef")
	_, err := Validate(r, serviceURL, 0)
	assert.Error(t, err)
}

func TestValidateRejectsWrongURL(t *testing.T) {
	sign := newSigner(t)
	r := httptest.NewRequest("POST", serviceURL, nil)
	u, err := url.Parse("https://other.example.com/management")
	require.NoError(t, err)
	require.NoError(t, AddHeader(r, u, "POST", sign))
	_, err = Validate(r, serviceURL, 0)
	assert.Error(t, err)
}

func TestValidateRejectsWrongMethod(t *testing.T) {
	sign := newSigner(t)
	r := httptest.NewRequest("POST", serviceURL, nil)
	u, err := url.Parse(serviceURL)
	require.NoError(t, err)
	require.NoError(t, AddHeader(r, u, "GET", sign))
	_, err = Validate(r, serviceURL, 0)
	assert.Error(t, err)
}

func TestValidateRejectsStale(t *testing.T) {
	sign := newSigner(t)
	ev := MakeEvent(serviceURL, "POST")
	ev.CreatedAt = timestamp.New(time.Now().Add(-time.Hour).Unix())
	require.NoError(t, ev.Sign(sign))
	blob := base64.URLEncoding.EncodeToString(ev.Serialize())
	r := httptest.NewRequest("POST", serviceURL, nil)
	r.Header.Set(HeaderKey, Prefix+" "+blob)
	_, err := Validate(r, serviceURL, time.Minute)
	assert.Error(t, err)
}
