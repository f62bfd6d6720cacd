// Package identity proxies user registration and authentication to a
// delegated OAuth2 identity provider. The catalog never stores
// credentials; it forwards them and hands back the provider's access
// token.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"autocatalog/config"
	"autocatalog/metrics"
)

const (
	managementUsersPath = "/api/v2/users"
	tokenPath           = "/oauth/token"
)

var (
	// ErrUserAlreadyExists is returned when the provider already has a
	// user registered under the given email.
	ErrUserAlreadyExists = errors.New("user with provided email already exists")
	// ErrAuthenticationFailed is returned when the provider rejects
	// the supplied credentials.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrUpstream is returned when the provider itself misbehaves;
	// details stay in the logs, never in responses.
	ErrUpstream = errors.New("identity provider request failed")
)

// Client talks to the identity provider's management and token APIs.
type Client struct {
	issuer       string
	clientID     string
	clientSecret string
	audience     string
	connection   string
	httpClient   *http.Client
	logger       *zap.SugaredLogger
}

// NewClient creates an identity client from the provider settings.
func NewClient(cfg *config.Config, logger *zap.SugaredLogger) *Client {
	return &Client{
		issuer:       cfg.Identity.Issuer,
		clientID:     cfg.Identity.ClientID,
		clientSecret: cfg.Identity.ClientSecret,
		audience:     cfg.Identity.Audience,
		connection:   cfg.Identity.Connection,
		httpClient:   &http.Client{Timeout: cfg.Identity.Timeout},
		logger:       logger,
	}
}

// Register creates a user at the identity provider. The email is
// checked for duplicates first so the caller can distinguish "already
// registered" from a provider failure.
func (c *Client) Register(ctx context.Context, email, password string) error {
	exists, err := c.userExists(ctx, email)
	if err != nil {
		metrics.IdentityRequests.WithLabelValues("register", "error").Inc()
		return err
	}
	if exists {
		metrics.IdentityRequests.WithLabelValues("register", "duplicate").Inc()
		return ErrUserAlreadyExists
	}

	token, err := c.managementToken(ctx)
	if err != nil {
		metrics.IdentityRequests.WithLabelValues("register", "error").Inc()
		return err
	}

	payload := map[string]string{
		"email":      email,
		"password":   password,
		"connection": c.connection,
	}
	status, body, err := c.postJSON(ctx, c.issuer+managementUsersPath, payload, token)
	if err != nil {
		metrics.IdentityRequests.WithLabelValues("register", "error").Inc()
		return err
	}
	if status < 200 || status > 299 {
		c.logger.Errorw("User creation rejected by identity provider", "status", status, "body", string(body))
		metrics.IdentityRequests.WithLabelValues("register", "error").Inc()
		return ErrUpstream
	}

	metrics.IdentityRequests.WithLabelValues("register", "ok").Inc()
	c.logger.Infof("Registered user %s with identity provider", email)
	return nil
}

// Authenticate exchanges credentials for an access token via the
// resource-owner password grant.
func (c *Client) Authenticate(ctx context.Context, email, password string) (string, error) {
	payload := map[string]string{
		"grant_type":    "password",
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"username":      email,
		"password":      password,
		"audience":      c.audience,
		"connection":    c.connection,
	}
	status, body, err := c.postJSON(ctx, c.issuer+tokenPath, payload, "")
	if err != nil {
		metrics.IdentityRequests.WithLabelValues("authenticate", "error").Inc()
		return "", err
	}
	if status < 200 || status > 299 {
		metrics.IdentityRequests.WithLabelValues("authenticate", "rejected").Inc()
		return "", ErrAuthenticationFailed
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		metrics.IdentityRequests.WithLabelValues("authenticate", "error").Inc()
		return "", fmt.Errorf("%w: malformed token response: %v", ErrUpstream, err)
	}
	if tokenResp.AccessToken == "" {
		metrics.IdentityRequests.WithLabelValues("authenticate", "error").Inc()
		return "", fmt.Errorf("%w: empty access token", ErrUpstream)
	}

	metrics.IdentityRequests.WithLabelValues("authenticate", "ok").Inc()
	return tokenResp.AccessToken, nil
}

// userExists queries the management API for users registered under the
// given email.
func (c *Client) userExists(ctx context.Context, email string) (bool, error) {
	token, err := c.managementToken(ctx)
	if err != nil {
		return false, err
	}

	lookup := c.issuer + "/api/v2/users-by-email?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookup, nil)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Errorw("User lookup failed", "error", err)
		return false, ErrUpstream
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Errorw("User lookup rejected by identity provider", "status", resp.StatusCode, "body", string(body))
		return false, ErrUpstream
	}

	var users []json.RawMessage
	if err := json.Unmarshal(body, &users); err != nil {
		return false, fmt.Errorf("%w: malformed user lookup response: %v", ErrUpstream, err)
	}
	return len(users) > 0, nil
}

// managementToken obtains a management API token via the
// client-credentials grant. Tokens are requested per operation; the
// provider's own caching keeps this cheap relative to catalog traffic.
func (c *Client) managementToken(ctx context.Context) (string, error) {
	payload := map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"audience":      c.issuer + "/api/v2/",
	}
	status, body, err := c.postJSON(ctx, c.issuer+tokenPath, payload, "")
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		c.logger.Errorw("Management token request rejected", "status", status)
		return "", ErrUpstream
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("%w: malformed management token response: %v", ErrUpstream, err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%w: empty management token", ErrUpstream)
	}
	return tokenResp.AccessToken, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload map[string]string, bearer string) (int, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Errorw("Identity provider request failed", "endpoint", endpoint, "error", err)
		return 0, nil, ErrUpstream
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return resp.StatusCode, body, nil
}
