// Package sync contains the command that runs one mailbox
// synchronization.
package sync

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HiraG-62/maillet/cmd/root"
	"github.com/HiraG-62/maillet/internal/auth"
	"github.com/HiraG-62/maillet/internal/gmailclient"
	"github.com/HiraG-62/maillet/internal/logging"
	"github.com/HiraG-62/maillet/internal/models"
	"github.com/HiraG-62/maillet/internal/parser"
	"github.com/HiraG-62/maillet/internal/store"
	syncer "github.com/HiraG-62/maillet/internal/sync"
)

var (
	afterFlag  string
	beforeFlag string
)

// Cmd is the sync command.
var Cmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch card-usage emails and record new transactions",
	Long: `sync searches the mailbox for card-usage notification emails in the
given date range (default: the current calendar month), parses the ones
from trusted issuers, and records new transactions in the local store.
Re-running over an unchanged mailbox records nothing twice.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd)
	},
}

func init() {
	Cmd.Flags().StringVar(&afterFlag, "after", "", "start of search range (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&beforeFlag, "before", "", "end of search range (YYYY-MM-DD)")
}

func runSync(cmd *cobra.Command) error {
	cfg := root.Cfg
	logger := logging.NewLogrusAdapterFromLogger(root.Log)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	opts := syncer.Options{}
	if opts.After, opts.Before, err = parseRange(afterFlag, beforeFlag, loc); err != nil {
		return err
	}

	st, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	oauthCfg := &auth.Config{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		RedirectURI:  cfg.OAuth.RedirectURI,
	}
	vault := auth.NewVault(cfg.OAuth.VaultPath, cfg.OAuth.Passphrase)
	cache := auth.NewSessionCache()

	client, err := gmailclient.NewClient(cmd.Context(), oauthCfg, cache, vault, logger)
	if err != nil {
		return err
	}

	registry := parser.NewRegistry(loc)
	orch := syncer.New(client, st, registry, loc, logger)
	orch.SetBatching(cfg.Sync.BatchSize, cfg.BatchDelay())
	orch.SetMaxResults(int64(cfg.Sync.MaxResults))

	opts.Progress = func(p models.SyncProgress) {
		if p.Status == models.SyncStatusSyncing {
			fmt.Printf("\r%s (%d%%)", p.Message, p.Percentage)
		}
	}

	result := orch.Run(cmd.Context(), opts)
	fmt.Println()
	printResult(result)
	return nil
}

func printResult(result *models.SyncResult) {
	fmt.Printf("Fetched:    %d\n", result.TotalFetched)
	fmt.Printf("New:        %d\n", result.NewTransactions)
	fmt.Printf("Duplicates: %d\n", result.DuplicatesSkipped)
	fmt.Printf("Parse errors: %d\n", result.ParseErrors)
	if len(result.Errors) > 0 {
		fmt.Println("Diagnostics:")
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}

// parseRange interprets the --after/--before flags as local dates in the
// issuer timezone. Both must be given together.
func parseRange(after, before string, loc *time.Location) (time.Time, time.Time, error) {
	if after == "" && before == "" {
		return time.Time{}, time.Time{}, nil
	}
	if after == "" || before == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--after and --before must be used together")
	}
	a, err := time.ParseInLocation("2006-01-02", after, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --after: %w", err)
	}
	b, err := time.ParseInLocation("2006-01-02", before, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --before: %w", err)
	}
	if !b.After(a) {
		return time.Time{}, time.Time{}, fmt.Errorf("--before must be after --after")
	}
	return a, b, nil
}
