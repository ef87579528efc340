// Package subscriptions contains the command that reports detected
// recurring payments.
package subscriptions

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/HiraG-62/maillet/cmd/root"
	"github.com/HiraG-62/maillet/internal/logging"
	"github.com/HiraG-62/maillet/internal/models"
	"github.com/HiraG-62/maillet/internal/store"
	"github.com/HiraG-62/maillet/internal/subscription"
)

var outputFlag string

// Cmd is the subscriptions command.
var Cmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "Detect recurring payments in the transaction history",
	Long: `subscriptions analyzes the full persisted transaction history and
reports merchant/amount pairs that recur on a monthly or yearly cadence.
Detection runs from scratch on each invocation; nothing is persisted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDetect(cmd)
	},
}

func init() {
	Cmd.Flags().StringVarP(&outputFlag, "output", "o", "table", "output format: table, json or yaml")
}

func runDetect(cmd *cobra.Command) error {
	cfg := root.Cfg
	logger := logging.NewLogrusAdapterFromLogger(root.Log)

	st, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Init(cmd.Context()); err != nil {
		return err
	}

	txs, err := st.ListTransactions(cmd.Context())
	if err != nil {
		return err
	}

	detected := subscription.NewDetector(logger).Detect(txs)
	return render(detected, outputFlag)
}

func render(subs []models.DetectedSubscription, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(subs)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(subs)
	case "table":
		if len(subs) == 0 {
			fmt.Println("No subscriptions detected.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MERCHANT\tAMOUNT\tFREQUENCY\tCONFIDENCE\tOCCURRENCES\tNEXT")
		for _, s := range subs {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\t%s\n",
				s.Merchant, s.Amount, s.Frequency, s.Confidence,
				s.Occurrences, s.NextEstimatedDate.Format("2006-01-02"))
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
