// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HiraG-62/maillet/internal/config"
	"github.com/HiraG-62/maillet/internal/jcbparser"
	"github.com/HiraG-62/maillet/internal/mufgparser"
	"github.com/HiraG-62/maillet/internal/rakutenparser"
	"github.com/HiraG-62/maillet/internal/smbcparser"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration, available to all
	// subcommands after PersistentPreRun.
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "maillet",
		Short: "Sync credit-card usage emails into a local transaction store.",
		Long: `maillet searches a Gmail mailbox for card-usage notification emails,
verifies their senders, extracts transaction details, and keeps a local
deduplicated transaction history. It can also derive recurring-payment
insights from the accumulated history.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			Log = config.ConfigureLogging()

			// Set the configured logger for all issuer parsers
			smbcparser.SetLogger(Log)
			jcbparser.SetLogger(Log)
			rakutenparser.SetLogger(Log)
			mufgparser.SetLogger(Log)

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg
			return nil
		},
	}
)

// Init binds persistent flags. Called once from main before subcommands
// are attached.
func Init() {
	Cmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	cobra.OnInitialize(func() {
		if verbose, _ := Cmd.PersistentFlags().GetBool("verbose"); verbose {
			Log.SetLevel(logrus.DebugLevel)
		}
	})
}
