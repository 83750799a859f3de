package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"tagscrape/pkg/config"
	"tagscrape/pkg/logger"
	"tagscrape/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool
)

// errInterrupted marks a step stopped by the user. The checkpoint has been
// saved and the command exits 0.
var errInterrupted = errors.New("interrupted")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tagscrape",
	Short: "Build a Magic: The Gathering card database labelled with functional tags",
	Long: `tagscrape builds a card database from Scryfall's functional (oracle) tags.

For every tag it pages through the card search API, merges the cards into a
single database keyed by card id and records which tags each card carries.
Progress is checkpointed, so an interrupted build resumes where it stopped.

Commands:
  tags      Scrape the list of functional tags
  build     Fetch every tag's cards and export the database as CSV
  stats     Report tag frequencies for an exported database
  sample    Draw a random training sample from an exported database
  pipeline  Run tags, build, stats and sample in order
  config    Create, show or validate a configuration file`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || !ui.IsTerminal() {
			ui.SetColor(false)
		}
		if quiet {
			ui.Output = io.Discard
		}

		switch cmd.Name() {
		case "version", "help", "config", "init", "show", "validate":
		default:
			ui.PrintLogo()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Output = os.Stdout
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./tagscrape.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`tagscrape {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig resolves configuration from every source and initializes the
// global logger from it
func loadConfig(flags map[string]interface{}) (*config.Config, error) {
	if flags == nil {
		flags = make(map[string]interface{})
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if quiet {
		cfg.Logging.Level = "error"
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

// setFlag copies a flag into the override map only when the user set it
func setFlag(cmd *cobra.Command, flags map[string]interface{}, name string, value interface{}) {
	if cmd.Flags().Changed(name) {
		flags[name] = value
	}
}
