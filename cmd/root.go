package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/splitstats/config"
	"github.com/s0up4200/splitstats/splitsio"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
	logger   zerolog.Logger
	client   *splitsio.Client

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "splitstats",
	Short: "Browse speedrun statistics from splits.io",
	Long: `splitstats is a CLI for the splits.io speedrunning statistics API.
It looks up games, categories, runners and runs, lists a game's run history,
and inspects the per-attempt histories of an uploaded run.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion records build information for the version command and the
// default user agent.
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging level (debug, info, warn, error)")
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override log level from command line if specified
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}

	logger = setupLogger(cfg.Logging)

	userAgent := cfg.API.UserAgent
	if userAgent == "splitstats" && version != "dev" {
		userAgent = "splitstats/" + version
	}

	client, err = splitsio.NewClient(cfg.API.BaseURL, logger,
		splitsio.WithTimeout(cfg.API.Timeout),
		splitsio.WithUserAgent(userAgent),
		splitsio.WithPageSize(cfg.API.PageSize),
	)
	if err != nil {
		return fmt.Errorf("failed to create splits.io client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	noColor := !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd())
	output := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}
	return zerolog.New(output).With().Timestamp().Logger()
}

// resourceIdentifier treats an all-digit argument as a canonical numeric id
// and anything else as an alternate key.
func resourceIdentifier(arg string) splitsio.Identifier {
	for _, r := range arg {
		if r < '0' || r > '9' {
			return splitsio.Key(arg)
		}
	}
	return splitsio.ID(arg)
}
