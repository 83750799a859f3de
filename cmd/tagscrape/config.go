package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"tagscrape/pkg/config"
	"tagscrape/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage tagscrape configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (TAGSCRAPE_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'tagscrape.yaml'
unless a different path is specified with the --config flag.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile
		if path == "" {
			path = "tagscrape.yaml"
		}
		return runConfigInit(path)
	},
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging every source.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile, nil)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return runConfigShow(cfg)
	},
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Path accessibility`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigValidate(configFile)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# tagscrape configuration file
#
# Every option can also be set with a TAGSCRAPE_ environment variable,
# for example TAGSCRAPE_REQUEST_DELAY=250ms or TAGSCRAPE_OUTPUT=cards.csv.

# Upstream endpoints
api:
  # Card search API root
  base_url: "https://api.scryfall.com"

  # Tagger documentation page listing the functional tags
  tagger_url: "https://scryfall.com/docs/tagger-tags"

  # User-Agent sent with every request
  user_agent: "tagscrape/1.0"

  # Per request timeout
  timeout: 30s

# Request pacing
rate_limit:
  # Delay before every request
  request_delay: 100ms

  # First wait after a 429 response, doubled on every further 429
  retry_delay: 1s
  backoff_multiplier: 2.0
  max_retry_delay: 60s

  # 429 retries per request, 0 retries forever
  max_retries: 10

# Resume state
checkpoint:
  path: "data/scraper_checkpoint.json"

  # Save after this many processed tags
  interval: 500

  # Copy the checkpoint aside before resuming
  backup: false

# Output files
output:
  tags_file: "data/functional_tags.json"
  database: "data/mtg_cards_database.csv"

  # Optional SQLite copy of the database, empty to skip
  sqlite: ""

  sample: "data/mtg_ml_sample.csv"
  sample_size: 5000

  # Rows shown by 'tagscrape stats'
  top_n: 100

# Logging
logging:
  # debug, info, warn, error
  level: "info"

  # Optional file that receives a copy of every record
  file: ""
`

// runConfigInit writes the example configuration to path
func runConfigInit(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s (remove it first to overwrite)", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + path)
	fmt.Fprintln(ui.Output, "\nNext steps:")
	fmt.Fprintln(ui.Output, "1. Edit the configuration file to taste")
	fmt.Fprintln(ui.Output, "2. Run 'tagscrape config validate' to check it")
	fmt.Fprintln(ui.Output, "3. Run 'tagscrape pipeline' to build everything")
	return nil
}

// runConfigShow prints cfg as YAML along with the source order
func runConfigShow(cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Fprintln(ui.Output)
	fmt.Fprint(ui.Output, string(data))

	fmt.Fprintln(ui.Output, "\nConfiguration sources (in order of priority):")
	fmt.Fprintln(ui.Output, "1. Command line flags")
	fmt.Fprintln(ui.Output, "2. Environment variables (TAGSCRAPE_*)")
	fmt.Fprintln(ui.Output, "3. .env files")
	if configFile != "" {
		fmt.Fprintf(ui.Output, "4. Configuration file: %s\n", configFile)
	} else {
		fmt.Fprintln(ui.Output, "4. Configuration file: (searched in default locations)")
	}
	fmt.Fprintln(ui.Output, "5. Default values")
	return nil
}

// runConfigValidate loads path, then checks that every output location is
// writable
func runConfigValidate(path string) error {
	if path == "" {
		return fmt.Errorf("no configuration file given, specify one with --config")
	}
	ui.PrintInfo("Validating configuration", path)

	cfg, err := config.Load(path, nil)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	var problems, warnings []string

	dirs := map[string]string{
		"checkpoint": cfg.Checkpoint.Path,
		"database":   cfg.Output.Database,
		"sample":     cfg.Output.Sample,
		"tags file":  cfg.Output.TagsFile,
	}
	if cfg.Logging.File != "" {
		dirs["log file"] = cfg.Logging.File
	}
	for _, name := range []string{"checkpoint", "database", "sample", "tags file", "log file"} {
		p, ok := dirs[name]
		if !ok || p == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("cannot create %s directory: %v", name, err))
		}
	}

	if _, err := os.Stat(cfg.Output.TagsFile); err != nil {
		warnings = append(warnings, fmt.Sprintf("tags file %s does not exist yet, run 'tagscrape tags'", cfg.Output.TagsFile))
	}
	if cfg.RateLimit.MaxRetries == 0 {
		warnings = append(warnings, "max_retries is 0, rate limited requests are retried forever")
	}

	if len(problems) > 0 {
		ui.PrintError("Configuration has errors")
		for _, p := range problems {
			fmt.Fprintf(ui.Output, "  - %s\n", p)
		}
		return fmt.Errorf("configuration has %d error(s)", len(problems))
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings")
		for _, w := range warnings {
			fmt.Fprintf(ui.Output, "  - %s\n", w)
		}
		fmt.Fprintln(ui.Output)
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Fprintln(ui.Output, "\nConfiguration summary:")
	fmt.Fprintf(ui.Output, "  Search API: %s\n", cfg.API.BaseURL)
	fmt.Fprintf(ui.Output, "  Request delay: %s\n", cfg.RateLimit.RequestDelay)
	fmt.Fprintf(ui.Output, "  Max retries: %d\n", cfg.RateLimit.MaxRetries)
	fmt.Fprintf(ui.Output, "  Checkpoint: %s (every %d tags)\n", cfg.Checkpoint.Path, cfg.Checkpoint.Interval)
	fmt.Fprintf(ui.Output, "  Database: %s\n", cfg.Output.Database)
	fmt.Fprintf(ui.Output, "  Log level: %s\n", cfg.Logging.Level)
	return nil
}
