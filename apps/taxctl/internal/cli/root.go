// Package cli implements taxctl, a command line front end to the tax service.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/cyphera/cyphera-tax/libs/go/config"
	"github.com/cyphera/cyphera-tax/libs/go/constants"
	"github.com/cyphera/cyphera-tax/libs/go/interfaces"
	"github.com/cyphera/cyphera-tax/libs/go/logger"
	"github.com/cyphera/cyphera-tax/libs/go/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	appName               = "taxctl"
	defaultCommandTimeout = 2 * time.Minute
)

// ServiceFactory builds the tax service a command runs against
type ServiceFactory func(cfg config.Config) (interfaces.TaxService, error)

func defaultServiceFactory(cfg config.Config) (interfaces.TaxService, error) {
	return services.NewTaxService(cfg)
}

type rootOptions struct {
	configFile string
	jsonOutput bool
	verbose    bool
	logFile    string
	timeout    time.Duration
	newService ServiceFactory
}

// NewRootCommand wires every subcommand. A nil factory uses services.NewTaxService.
func NewRootCommand(factory ServiceFactory) *cobra.Command {
	if factory == nil {
		factory = defaultServiceFactory
	}
	opts := &rootOptions{newService: factory}

	rootCmd := &cobra.Command{
		Use:   "taxctl",
		Short: "Fetch tax bracket schedules and compute progressive tax",
		Long: `taxctl fetches published income tax bracket tables and computes the tax
owed on an income with exact decimal arithmetic.

Fetch behaviour is tuned with the TAX_* environment variables or a YAML
config file passed with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initLogger()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "YAML config file overriding the built-in defaults")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Print results as JSON")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log fetch attempts and cache activity to stderr")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stderr")
	flags.DurationVar(&opts.timeout, "timeout", defaultCommandTimeout, "Overall deadline for the command")

	rootCmd.AddCommand(newRatesCommand(opts))
	rootCmd.AddCommand(newCalcCommand(opts))
	return rootCmd
}

// Execute runs taxctl with the process arguments
func Execute(version string) error {
	rootCmd := NewRootCommand(nil)
	rootCmd.Version = version
	defer func() { _ = logger.Sync() }()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (o *rootOptions) initLogger() error {
	level := constants.WarnLevel
	if o.verbose {
		level = constants.DebugLevel
	}
	log, err := logger.NewLogger(logger.LoggerConfig{
		Level:      level,
		Stage:      constants.LocalEnvironment,
		App:        appName,
		OutputPath: o.logFile,
		// A log file is read later by tools, not a terminal
		EnableJSON:  o.logFile != "",
		EnableColor: o.logFile == "",
	})
	if err != nil {
		return err
	}
	logger.Log = log
	return nil
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	if o.configFile != "" {
		return config.LoadFile(o.configFile)
	}
	return config.FromEnv()
}

func (o *rootOptions) service() (interfaces.TaxService, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger.Log.Debug("Loaded tax pipeline configuration",
		zap.String("config_file", o.configFile),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("timeout", cfg.Timeout),
		zap.Duration("cache_ttl", cfg.CacheTTL))
	return o.newService(cfg)
}
