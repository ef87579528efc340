// Package gmailclient wraps the Gmail API for searching and fetching
// card-notification emails. Authentication, including the
// refresh-once-and-retry behavior on 401 responses, lives in an
// http.RoundTripper so the rest of the client stays oblivious to it.
package gmailclient

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/HiraG-62/maillet/internal/auth"
	"github.com/HiraG-62/maillet/internal/logging"
)

// requestState tracks where a single request is in the auth retry
// machine. A request moves Requesting -> Refreshing -> Retrying on a 401
// and ends Failed only when the refresh path is exhausted; at most one
// refresh and one retry happen per request.
type requestState int

const (
	stateRequesting requestState = iota
	stateRefreshing
	stateRetrying
	stateFailed
)

// RefreshFunc exchanges a refresh credential for fresh credentials.
type RefreshFunc func(ctx context.Context, creds *auth.Credentials) (*auth.Credentials, error)

// AuthTransport injects the bearer token into outgoing requests and
// implements the 401 refresh-and-retry state machine. Once a terminal
// authentication failure occurs the transport is dead for the rest of
// the run: it clears all stored credentials and fails every subsequent
// request with auth.ErrReauthRequired without touching the network.
type AuthTransport struct {
	base    http.RoundTripper
	cache   *auth.SessionCache
	vault   *auth.Vault
	refresh RefreshFunc
	logger  logging.Logger

	mu   sync.Mutex
	dead bool
}

// NewAuthTransport builds an AuthTransport over base (nil means
// http.DefaultTransport).
func NewAuthTransport(base http.RoundTripper, cache *auth.SessionCache, vault *auth.Vault, refresh RefreshFunc, logger logging.Logger) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &AuthTransport{
		base:    base,
		cache:   cache,
		vault:   vault,
		refresh: refresh,
		logger:  logger,
	}
}

// Dead reports whether the transport has hit a terminal authentication
// failure this run.
func (t *AuthTransport) Dead() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dead
}

func (t *AuthTransport) markDead() {
	t.mu.Lock()
	t.dead = true
	t.mu.Unlock()
}

// terminalAuthFailure wipes every stored credential and kills the
// transport for the remainder of the run.
func (t *AuthTransport) terminalAuthFailure() error {
	t.cache.Clear()
	if t.vault != nil {
		if err := t.vault.Clear(); err != nil {
			t.logger.WithError(err).Warn("failed to clear credential vault")
		}
	}
	t.markDead()
	return auth.ErrReauthRequired
}

// credentials returns usable credentials from the session cache, falling
// back to decrypting the vault once.
func (t *AuthTransport) credentials() (*auth.Credentials, error) {
	if creds := t.cache.Get(); creds != nil {
		return creds, nil
	}
	if t.vault == nil {
		return nil, auth.ErrNoCredentials
	}
	creds, err := t.vault.Load()
	if err != nil {
		return nil, err
	}
	t.cache.Set(creds)
	return creds, nil
}

// RoundTrip implements http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Dead() {
		return nil, auth.ErrReauthRequired
	}

	creds, err := t.credentials()
	if err != nil {
		return nil, t.terminalAuthFailure()
	}

	state := stateRequesting
	for {
		switch state {
		case stateRequesting:
			resp, err := t.send(req, creds.AccessToken)
			if err != nil {
				return nil, err
			}
			if resp.StatusCode != http.StatusUnauthorized {
				return resp, nil
			}
			drain(resp)
			state = stateRefreshing

		case stateRefreshing:
			if creds.RefreshToken == "" {
				state = stateFailed
				continue
			}
			t.logger.Debug("access token rejected, refreshing")
			fresh, err := t.refresh(req.Context(), creds)
			if err != nil {
				t.logger.WithError(err).Warn("token refresh failed")
				state = stateFailed
				continue
			}
			t.cache.Set(fresh)
			if t.vault != nil {
				if err := t.vault.Save(fresh); err != nil {
					t.logger.WithError(err).Warn("failed to persist refreshed credentials")
				}
			}
			creds = fresh
			state = stateRetrying

		case stateRetrying:
			// Exactly one retry; a second 401 is returned as-is.
			retry := req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				retry.Body = body
			}
			return t.send(retry, creds.AccessToken)

		case stateFailed:
			return nil, t.terminalAuthFailure()
		}
	}
}

func (t *AuthTransport) send(req *http.Request, token string) (*http.Response, error) {
	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(authed)
}

func drain(resp *http.Response) {
	if resp.Body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		_ = resp.Body.Close()
	}
}
