package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"autocatalog/config"
)

// fakeProvider simulates the identity provider's token and management
// endpoints.
type fakeProvider struct {
	existingEmails  map[string]bool
	rejectPassword  bool
	createdRequests []map[string]string
}

func (p *fakeProvider) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)

		if payload["grant_type"] == "password" && p.rejectPassword {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		token := "management-token"
		if payload["grant_type"] == "password" {
			token = "user-token"
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": token})
	})

	mux.HandleFunc("/api/v2/users-by-email", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer management-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if p.existingEmails[r.URL.Query().Get("email")] {
			_, _ = w.Write([]byte(`[{"user_id":"auth0|123"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	mux.HandleFunc("/api/v2/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer management-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		p.createdRequests = append(p.createdRequests, payload)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"user_id":"auth0|456"}`))
	})

	return mux
}

func newTestClient(t *testing.T, provider *fakeProvider) *Client {
	t.Helper()
	server := httptest.NewServer(provider.handler())
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Identity.Issuer = server.URL
	cfg.Identity.ClientID = "client-id"
	cfg.Identity.ClientSecret = "client-secret"
	cfg.Identity.Audience = server.URL + "/api/v2/"
	cfg.Identity.Connection = "Username-Password-Authentication"
	cfg.Identity.Timeout = 5 * time.Second

	return NewClient(cfg, zap.NewNop().Sugar())
}

func TestRegister_Success(t *testing.T) {
	provider := &fakeProvider{existingEmails: map[string]bool{}}
	client := newTestClient(t, provider)

	err := client.Register(context.Background(), "new@example.com", "s3cretpass")
	require.NoError(t, err)

	require.Len(t, provider.createdRequests, 1)
	created := provider.createdRequests[0]
	assert.Equal(t, "new@example.com", created["email"])
	assert.Equal(t, "Username-Password-Authentication", created["connection"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	provider := &fakeProvider{existingEmails: map[string]bool{"taken@example.com": true}}
	client := newTestClient(t, provider)

	err := client.Register(context.Background(), "taken@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Empty(t, provider.createdRequests)
}

func TestAuthenticate_Success(t *testing.T) {
	provider := &fakeProvider{existingEmails: map[string]bool{}}
	client := newTestClient(t, provider)

	token, err := client.Authenticate(context.Background(), "user@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, "user-token", token)
}

func TestAuthenticate_Rejected(t *testing.T) {
	provider := &fakeProvider{rejectPassword: true}
	client := newTestClient(t, provider)

	_, err := client.Authenticate(context.Background(), "user@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestRegister_ProviderDown(t *testing.T) {
	provider := &fakeProvider{existingEmails: map[string]bool{}}
	server := httptest.NewServer(provider.handler())
	server.Close() // connection refused from here on

	cfg := &config.Config{}
	cfg.Identity.Issuer = server.URL
	cfg.Identity.ClientID = "client-id"
	cfg.Identity.ClientSecret = "client-secret"
	cfg.Identity.Connection = "Username-Password-Authentication"
	cfg.Identity.Timeout = time.Second

	client := NewClient(cfg, zap.NewNop().Sugar())
	err := client.Register(context.Background(), "user@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrUpstream)
}
