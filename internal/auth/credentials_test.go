package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials_Expired(t *testing.T) {
	assert.False(t, (&Credentials{Expiry: time.Now().Add(time.Hour)}).Expired())
	assert.True(t, (&Credentials{Expiry: time.Now().Add(-time.Minute)}).Expired())
	// Inside the safety margin counts as expired.
	assert.True(t, (&Credentials{Expiry: time.Now().Add(10 * time.Second)}).Expired())
	// Zero expiry never expires.
	assert.False(t, (&Credentials{}).Expired())
}

func tokenServer(t *testing.T, handler func(t *testing.T, r *http.Request) map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		resp := handler(t, r)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestExchange(t *testing.T) {
	srv := tokenServer(t, func(t *testing.T, r *http.Request) map[string]interface{} {
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "auth-code", r.PostForm.Get("code"))
		assert.Equal(t, "verifier-123", r.PostForm.Get("code_verifier"))
		assert.Equal(t, "client-1", r.PostForm.Get("client_id"))
		return map[string]interface{}{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"token_type":    "Bearer",
			"expires_in":    3600,
		}
	})
	defer srv.Close()

	cfg := &Config{ClientID: "client-1", ClientSecret: "secret", RedirectURI: "http://127.0.0.1/cb", TokenURL: srv.URL}
	creds, err := cfg.Exchange(context.Background(), "auth-code", "verifier-123")
	require.NoError(t, err)
	assert.Equal(t, "access-1", creds.AccessToken)
	assert.Equal(t, "refresh-1", creds.RefreshToken)
	assert.False(t, creds.Expired())
}

func TestRefresh_KeepsOldRefreshToken(t *testing.T) {
	srv := tokenServer(t, func(t *testing.T, r *http.Request) map[string]interface{} {
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "refresh-old", r.PostForm.Get("refresh_token"))
		// Google usually omits refresh_token on refresh responses.
		return map[string]interface{}{
			"access_token": "access-2",
			"token_type":   "Bearer",
			"expires_in":   3600,
		}
	})
	defer srv.Close()

	cfg := &Config{ClientID: "client-1", TokenURL: srv.URL}
	fresh, err := cfg.Refresh(context.Background(), &Credentials{
		AccessToken:  "access-old",
		RefreshToken: "refresh-old",
	})
	require.NoError(t, err)
	assert.Equal(t, "access-2", fresh.AccessToken)
	assert.Equal(t, "refresh-old", fresh.RefreshToken)
}

func TestRefresh_NoRefreshToken(t *testing.T) {
	cfg := &Config{ClientID: "client-1"}
	_, err := cfg.Refresh(context.Background(), &Credentials{AccessToken: "only-access"})
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = cfg.Refresh(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestPostToken_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := &Config{ClientID: "client-1", TokenURL: srv.URL}
	_, err := cfg.Refresh(context.Background(), &Credentials{RefreshToken: "r"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestPostToken_MissingAccessToken(t *testing.T) {
	srv := tokenServer(t, func(t *testing.T, r *http.Request) map[string]interface{} {
		return map[string]interface{}{"token_type": "Bearer"}
	})
	defer srv.Close()

	cfg := &Config{ClientID: "client-1", TokenURL: srv.URL}
	_, err := cfg.Exchange(context.Background(), "code", "verifier")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_token")
}
