package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/evtrading/evmarket-gateway/pkg/errors"
)

type samplePayload struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
}

func jsonRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestDecodeJSONBody(t *testing.T) {
	var dest samplePayload
	err := DecodeJSONBody(jsonRequest(`{"username":"seller","email":"seller@example.com"}`), &dest)
	require.NoError(t, err)
	assert.Equal(t, "seller", dest.Username)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	var dest samplePayload
	err := DecodeJSONBody(jsonRequest(`{"username":"seller","email":"a@b.co","extra":true}`), &dest)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDecodeJSONBodyReportsFieldErrorsByJSONName(t *testing.T) {
	var dest samplePayload
	err := DecodeJSONBody(jsonRequest(`{"username":"ab","email":"not-an-email"}`), &dest)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok, "details should be a field map, got %T", typed.Details())
	assert.Equal(t, "must be at least 3", details["username"])
	assert.Equal(t, "must be a valid email", details["email"])
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?days=7", nil)
	got, err := ParseQueryInt(r, "days", 1, 1, 30)
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	got, err = ParseQueryInt(r, "days", 1, 1, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	r = httptest.NewRequest(http.MethodGet, "/?days=31", nil)
	_, err = ParseQueryInt(r, "days", 1, 1, 30)
	require.Error(t, err)
}

func TestParsePathID(t *testing.T) {
	id, err := ParsePathID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "-5", "0"} {
		_, err := ParsePathID(raw)
		require.Error(t, err, "raw %q", raw)
	}
}
