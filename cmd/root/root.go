// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"fjacquet/ledger-analytics/internal/config"
	"fjacquet/ledger-analytics/internal/container"
	"fjacquet/ledger-analytics/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to every command
type CommonFlags struct {
	ConfigFile   string
	LogLevel     string
	LogFormat    string
	Transactions string
	Accounts     string
	Snapshot     string
	Range        string
	Format       string
	Account      string
}

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ledger-analytics",
		Short: "Cached analytics and derived metrics for a personal-finance ledger.",
		Long: `ledger-analytics computes spending breakdowns, income vs spending, monthly
totals, period trends, top categories and net worth over a ledger snapshot
loaded from CSV or YAML files. Results are memoized per operation, range and
account scope.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Prepare()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			Shutdown()
		},
	}

	// SharedFlags holds the persistent flag values
	SharedFlags = CommonFlags{}

	mu           sync.Mutex
	appContainer *container.Container
	initOnce     sync.Once
)

// Init registers the persistent flags. It is safe to call more than once.
func Init() {
	initOnce.Do(func() {
		flags := Cmd.PersistentFlags()
		flags.StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default: search $HOME/.ledger-analytics, .ledger-analytics, .)")
		flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level override (debug, info, warn, error)")
		flags.StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format override (text, json)")
		flags.StringVarP(&SharedFlags.Transactions, "transactions", "t", "", "Transactions file (CSV or YAML)")
		flags.StringVarP(&SharedFlags.Accounts, "accounts", "a", "", "Accounts file (CSV or YAML)")
		flags.StringVarP(&SharedFlags.Snapshot, "snapshot", "s", "", "Combined YAML snapshot with transactions and accounts")
		flags.StringVarP(&SharedFlags.Range, "range", "r", "", "Time range: all, week, month, quarter, year (default from config)")
		flags.StringVarP(&SharedFlags.Format, "format", "f", "text", "Output format: text, json, yaml")
		flags.StringVar(&SharedFlags.Account, "account", "", "Restrict analytics to one account id")
	})
}

// Prepare loads the configuration, applies flag overrides and builds the container.
func Prepare() error {
	cfg, err := config.Load(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.LogFormat != "" {
		cfg.Log.Format = SharedFlags.LogFormat
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	SetContainer(c)
	return nil
}

// SetContainer replaces the active container, closing the previous one.
func SetContainer(c *container.Container) {
	mu.Lock()
	defer mu.Unlock()
	if appContainer != nil && appContainer != c {
		_ = appContainer.Close()
	}
	appContainer = c
}

// GetContainer returns the active container, or nil before Prepare.
func GetContainer() *container.Container {
	mu.Lock()
	defer mu.Unlock()
	return appContainer
}

// GetLogger returns the container logger, or a discarding logger before Prepare.
func GetLogger() logging.Logger {
	if c := GetContainer(); c != nil {
		return c.GetLogger()
	}
	return logging.NewNopLogger()
}

// Shutdown closes the active container.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	if appContainer != nil {
		_ = appContainer.Close()
		appContainer = nil
	}
}
