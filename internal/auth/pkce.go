// Package auth implements the OAuth authorization-code flow with PKCE
// against Google, the encrypted on-disk credential vault, and the
// process-scoped decrypted-credential cache.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
)

// Google OAuth endpoints.
const (
	AuthEndpoint  = "https://accounts.google.com/o/oauth2/v2/auth"
	TokenEndpoint = "https://oauth2.googleapis.com/token"

	// GmailReadonlyScope is the only scope the sync pipeline needs.
	GmailReadonlyScope = "https://www.googleapis.com/auth/gmail.readonly"
)

// GenerateVerifier returns a fresh PKCE code verifier: 64 random bytes,
// base64url encoded without padding.
func GenerateVerifier() (string, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate code verifier: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Challenge derives the S256 code challenge from a verifier:
// base64url(SHA-256(verifier)), no padding.
func Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// AuthCodeURL builds the authorization request URL. access_type=offline
// asks Google for a refresh token alongside the access token.
func AuthCodeURL(clientID, redirectURI, state, challenge string) string {
	q := url.Values{
		"client_id":             {clientID},
		"redirect_uri":          {redirectURI},
		"response_type":         {"code"},
		"scope":                 {GmailReadonlyScope},
		"state":                 {state},
		"code_challenge":        {challenge},
		"code_challenge_method": {"S256"},
		"access_type":           {"offline"},
	}
	return AuthEndpoint + "?" + q.Encode()
}
