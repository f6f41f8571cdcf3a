package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
)

func newIdentityServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != VerifyPath || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("X-Api-Key") != "svc-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var body verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch body.Token {
		case "good":
			_, _ = w.Write([]byte(`{"user_id":" u-42 ","email":"a@b.test","tenant_id":"t1"}`))
		case "anon":
			_, _ = w.Write([]byte(`{"user_id":""}`))
		case "boom":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestVerifier(t *testing.T, baseURL, apiKey string) *Verifier {
	t.Helper()
	c, err := NewClient(Config{BaseURL: baseURL, APIKey: apiKey})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewVerifier(c)
}

func TestVerify_ReturnsTrimmedClaims(t *testing.T) {
	ts := newIdentityServer(t)
	v := newTestVerifier(t, ts.URL, "svc-key")

	claims, err := v.Verify(context.Background(), "good")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "u-42" || claims.Email != "a@b.test" || claims.TenantID != "t1" {
		t.Fatalf("unexpected claims: %#v", claims)
	}
}

func TestVerify_UnauthorizedToken(t *testing.T) {
	ts := newIdentityServer(t)
	v := newTestVerifier(t, ts.URL, "svc-key")

	_, err := v.Verify(context.Background(), "expired")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerify_MissingUserIDIsUpstreamError(t *testing.T) {
	ts := newIdentityServer(t)
	v := newTestVerifier(t, ts.URL, "svc-key")

	_, err := v.Verify(context.Background(), "anon")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestVerify_UpstreamFailure(t *testing.T) {
	ts := newIdentityServer(t)
	v := newTestVerifier(t, ts.URL, "svc-key")

	_, err := v.Verify(context.Background(), "boom")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestVerify_EmptyTokenAndMissingConfig(t *testing.T) {
	v := newTestVerifier(t, "", "")

	if _, err := v.Verify(context.Background(), "  "); !errors.Is(err, ErrTokenEmpty) {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}
	if _, err := v.Verify(context.Background(), "good"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
