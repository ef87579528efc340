package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoCredentials is returned when no stored credential exists.
var ErrNoCredentials = errors.New("auth: no stored credentials")

// ErrReauthRequired is returned when the refresh credential is missing or
// the refresh exchange failed. All stored credentials have been cleared
// by the time this is returned; the user must run the login flow again.
var ErrReauthRequired = errors.New("auth: re-authentication required")

// Credentials is a decrypted OAuth credential pair.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type"`
	Scope        string    `json:"scope,omitempty"`
	Expiry       time.Time `json:"expiry"`
}

// Expired reports whether the access token has expired, with a small
// safety margin.
func (c *Credentials) Expired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().After(c.Expiry.Add(-30 * time.Second))
}

// Config carries the OAuth client settings for token exchanges.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// TokenURL overrides the Google token endpoint, for tests.
	TokenURL string

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

func (c *Config) tokenURL() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return TokenEndpoint
}

func (c *Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Config) postToken(ctx context.Context, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL(),
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, errors.New("token response missing access_token")
	}
	return &tr, nil
}

func (tr *tokenResponse) credentials() *Credentials {
	creds := &Credentials{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		TokenType:    tr.TokenType,
		Scope:        tr.Scope,
	}
	if tr.ExpiresIn > 0 {
		creds.Expiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return creds
}

// Exchange trades an authorization code plus its PKCE verifier for
// credentials.
func (c *Config) Exchange(ctx context.Context, code, verifier string) (*Credentials, error) {
	tr, err := c.postToken(ctx, url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"code_verifier": {verifier},
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
		"redirect_uri":  {c.RedirectURI},
	})
	if err != nil {
		return nil, err
	}
	return tr.credentials(), nil
}

// Refresh trades a refresh token for a fresh access token. When the
// response omits a new refresh token, the original one is carried
// forward.
func (c *Config) Refresh(ctx context.Context, creds *Credentials) (*Credentials, error) {
	if creds == nil || creds.RefreshToken == "" {
		return nil, ErrNoCredentials
	}
	tr, err := c.postToken(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {creds.RefreshToken},
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
	})
	if err != nil {
		return nil, err
	}
	fresh := tr.credentials()
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = creds.RefreshToken
	}
	return fresh, nil
}
