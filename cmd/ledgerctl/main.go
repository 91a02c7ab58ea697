package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/ruralpay/webbank/internal/config"
	"github.com/ruralpay/webbank/internal/database"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once the config is loaded.
type app struct {
	cfg    *config.Config
	openDB func(cfg config.DatabaseConfig) (*sql.DB, error)
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

func preRun(a *app, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(*configFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		config.InitLogger(cfg.Log)
		a.cfg = cfg
		return nil
	}
}

// NewCLI builds the root command. out receives command output.
func NewCLI(a *app, out io.Writer) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Administer the web bank ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", ".env", "env file with DATABASE_* and ARGON2_* settings")
	rootCmd.PersistentPreRunE = preRun(a, &configFile)

	rootCmd.AddCommand(migrateCommands(a))
	rootCmd.AddCommand(customerCommands(a))
	rootCmd.AddCommand(passwordCommands(a))

	return rootCmd
}

func main() {
	defer recoverPanic()

	cli := NewCLI(&app{openDB: database.InitDB}, os.Stdout)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
