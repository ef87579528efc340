// Package auth contains the login and logout commands for the OAuth
// flow.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/HiraG-62/maillet/cmd/root"
	"github.com/HiraG-62/maillet/internal/auth"
)

// loginTimeout bounds how long we wait for the browser redirect.
const loginTimeout = 3 * time.Minute

// Cmd is the parent auth command.
var Cmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Gmail authorization",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize access to the Gmail mailbox",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogin(cmd.Context())
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		vault := auth.NewVault(root.Cfg.OAuth.VaultPath, root.Cfg.OAuth.Passphrase)
		if err := vault.Clear(); err != nil {
			return fmt.Errorf("clear credentials: %w", err)
		}
		root.Log.Info("Stored credentials cleared")
		return nil
	},
}

func init() {
	Cmd.AddCommand(loginCmd)
	Cmd.AddCommand(logoutCmd)
}

// runLogin drives the PKCE authorization-code flow: print the consent
// URL, catch the redirect on a local listener, exchange the code, and
// persist the credentials encrypted.
func runLogin(ctx context.Context) error {
	cfg := root.Cfg
	if cfg.OAuth.ClientID == "" {
		return errors.New("oauth client_id is not configured (set GOOGLE_CLIENT_ID)")
	}

	verifier, err := auth.GenerateVerifier()
	if err != nil {
		return err
	}
	state, err := auth.GenerateVerifier()
	if err != nil {
		return err
	}

	authURL := auth.AuthCodeURL(cfg.OAuth.ClientID, cfg.OAuth.RedirectURI, state, auth.Challenge(verifier))
	fmt.Println("Open this URL in your browser to authorize access:")
	fmt.Println()
	fmt.Println("  " + authURL)
	fmt.Println()

	code, err := waitForCode(ctx, cfg.OAuth.RedirectURI, state)
	if err != nil {
		return err
	}

	oauthCfg := &auth.Config{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		RedirectURI:  cfg.OAuth.RedirectURI,
	}
	creds, err := oauthCfg.Exchange(ctx, code, verifier)
	if err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}

	vault := auth.NewVault(cfg.OAuth.VaultPath, cfg.OAuth.Passphrase)
	if err := vault.Save(creds); err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}
	root.Log.Info("Authorization complete; credentials stored")
	return nil
}

// waitForCode runs a one-shot HTTP listener on the redirect URI and
// returns the authorization code.
func waitForCode(ctx context.Context, redirectURI, wantState string) (string, error) {
	parsed, err := url.Parse(redirectURI)
	if err != nil {
		return "", fmt.Errorf("invalid redirect_uri: %w", err)
	}

	type outcome struct {
		code string
		err  error
	}
	results := make(chan outcome, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(parsed.Path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if errMsg := q.Get("error"); errMsg != "" {
			http.Error(w, "authorization failed", http.StatusBadRequest)
			results <- outcome{err: fmt.Errorf("authorization denied: %s", errMsg)}
			return
		}
		if q.Get("state") != wantState {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			results <- outcome{err: errors.New("authorization response state mismatch")}
			return
		}
		fmt.Fprintln(w, "Authorization received. You can close this tab.")
		results <- outcome{code: q.Get("code")}
	})

	server := &http.Server{Addr: parsed.Host, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			results <- outcome{err: fmt.Errorf("redirect listener: %w", err)}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	select {
	case res := <-results:
		return res.code, res.err
	case <-time.After(loginTimeout):
		return "", errors.New("timed out waiting for authorization")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
