package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"tagscrape/pkg/checkpoint"
	"tagscrape/pkg/config"
	"tagscrape/pkg/export"
	"tagscrape/pkg/logger"
	"tagscrape/pkg/scraper"
	"tagscrape/pkg/scryfall"
	"tagscrape/pkg/tags"
	"tagscrape/pkg/ui"
	"tagscrape/pkg/ui/tui"
)

var (
	// Build command flags
	outputFile         string
	sqliteFile         string
	checkpointFile     string
	checkpointInterval int
	requestDelay       time.Duration
	maxRetries         int
	baseURL            string
	forceRestart       bool
	backupCheckpoint   bool
	verboseBuild       bool
	useTUI             bool
	notifyDone         bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build [tags-file]",
	Short: "Fetch every tag's cards and export the card database",
	Long: `Fetch the cards of every functional tag and merge them into one database.

Each card appears once and lists every tag it was found under. Progress is
checkpointed every --checkpoint-interval tags and on interrupt; running the
same command again skips the tags already done. When every tag has been
handled the database is exported as CSV.

The tags file is the JSON written by 'tagscrape tags'. It defaults to
output.tags_file from the configuration.`,
	Example: `  # Build from the default tags file
  tagscrape build

  # Build from a specific tags file into a specific CSV
  tagscrape build data/functional_tags.json --output cards.csv

  # Start over, ignoring the existing checkpoint
  tagscrape build --force-restart

  # Also write a SQLite copy with a card_labels table
  tagscrape build --sqlite data/cards.db

  # Watch the build in a full screen dashboard
  tagscrape build --tui`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := make(map[string]interface{})
		setFlag(cmd, flags, "output", outputFile)
		setFlag(cmd, flags, "sqlite", sqliteFile)
		setFlag(cmd, flags, "checkpoint", checkpointFile)
		setFlag(cmd, flags, "checkpoint-interval", checkpointInterval)
		setFlag(cmd, flags, "request-delay", requestDelay)
		setFlag(cmd, flags, "max-retries", maxRetries)
		setFlag(cmd, flags, "base-url", baseURL)
		setFlag(cmd, flags, "backup", backupCheckpoint)
		if len(args) == 1 {
			flags["tags-file"] = args[0]
		}

		cfg, err := loadConfig(flags)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		_, err = runBuild(ctx, cfg, buildOptions{
			forceRestart: forceRestart,
			verbose:      verboseBuild || !ui.IsTerminal(),
			useTUI:       useTUI,
			notify:       notifyDone,
		})
		if errors.Is(err, errInterrupted) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&outputFile, "output", "o", "", "CSV file to export the database to")
	buildCmd.Flags().StringVar(&sqliteFile, "sqlite", "", "also export the database to this SQLite file")
	buildCmd.Flags().StringVar(&checkpointFile, "checkpoint", "", "checkpoint file used to resume")
	buildCmd.Flags().IntVar(&checkpointInterval, "checkpoint-interval", 0, "save a checkpoint every N processed tags")
	buildCmd.Flags().DurationVar(&requestDelay, "request-delay", 0, "delay before every API request")
	buildCmd.Flags().IntVar(&maxRetries, "max-retries", 0, "retries after a 429 response (0 retries forever)")
	buildCmd.Flags().StringVar(&baseURL, "base-url", "", "search API root")
	buildCmd.Flags().BoolVar(&forceRestart, "force-restart", false, "delete the checkpoint and start over")
	buildCmd.Flags().BoolVar(&backupCheckpoint, "backup", false, "copy the checkpoint aside before resuming")
	buildCmd.Flags().BoolVarP(&verboseBuild, "verbose", "v", false, "print a block per tag instead of a progress line")
	buildCmd.Flags().BoolVar(&useTUI, "tui", false, "show a full screen dashboard")
	buildCmd.Flags().BoolVar(&notifyDone, "notify", false, "send a desktop notification when the build ends")
}

type buildOptions struct {
	forceRestart bool
	verbose      bool
	useTUI       bool
	notify       bool

	// client overrides the search client built from cfg
	client scraper.PageFetcher
}

// runBuild loads the tag list and checkpoint, runs the engine and exports
// the database once every tag has been handled. An interrupted build
// returns errInterrupted after its checkpoint is saved.
func runBuild(ctx context.Context, cfg *config.Config, opts buildOptions) (scraper.Summary, error) {
	log := logger.GetLogger().WithField("command", "build")

	tagList, err := tags.Load(cfg.Output.TagsFile)
	if err != nil {
		return scraper.Summary{}, err
	}
	ui.PrintInfo("Loaded functional tags", fmt.Sprintf("%s from %s", humanize.Comma(int64(len(tagList))), cfg.Output.TagsFile))

	store := checkpoint.NewManager(cfg.Checkpoint.Path)
	switch {
	case opts.forceRestart:
		if err := store.Delete(); err != nil {
			return scraper.Summary{}, err
		}
	case cfg.Checkpoint.Backup:
		if err := store.Backup(); err != nil {
			return scraper.Summary{}, err
		}
	}

	state, err := store.Load()
	if err != nil {
		return scraper.Summary{}, err
	}
	if len(state.Processed) > 0 {
		ui.PrintInfo("Resuming from checkpoint", fmt.Sprintf("%s tags done, %s cards",
			humanize.Comma(int64(len(state.Processed))), humanize.Comma(int64(state.Cards.Len()))))
	}

	var (
		reporter  scraper.Reporter
		dashboard *tui.TUI
		uiDone    chan error
	)
	if opts.useTUI && ui.IsTerminal() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()

		dashboard = tui.NewTUI(cancel)
		dashLogger, err := logger.NewWithWriter(dashboard, cfg.Logging.Level)
		if err != nil {
			return scraper.Summary{}, err
		}
		prevLogger := logger.GetLogger()
		logger.SetLogger(dashLogger)
		defer logger.SetLogger(prevLogger)
		log = dashLogger.WithField("command", "build")
		store.WithLogger(dashLogger)

		uiDone = make(chan error, 1)
		go func() {
			uiDone <- dashboard.Start()
		}()
		reporter = dashboard
	} else {
		if opts.useTUI {
			ui.PrintWarning("Dashboard needs a terminal, falling back to plain progress")
		}
		reporter = ui.NewTagProgress(nil, opts.verbose)
	}

	client := opts.client
	if client == nil {
		client = scryfall.NewClient(scryfall.OptionsFromConfig(cfg))
	}

	engine := scraper.New(client, store, state, scraper.Options{
		BaseURL:            cfg.API.BaseURL,
		CheckpointInterval: cfg.Checkpoint.Interval,
		Reporter:           reporter,
		Logger:             log,
	})

	logger.LogComponentStart("build", map[string]interface{}{
		"tags":       len(tagList),
		"checkpoint": cfg.Checkpoint.Path,
		"interval":   cfg.Checkpoint.Interval,
	})
	summary, runErr := engine.Run(ctx, tagList)
	logger.LogComponentStop("build", summary.State.String())

	if dashboard != nil {
		dashboard.Done(summary, runErr)
		if err := <-uiDone; err != nil {
			ui.PrintWarning("Dashboard failed", err)
		}
	}
	fmt.Fprintln(ui.Output)

	if runErr != nil {
		ui.PrintError("Fatal error", runErr)
		return summary, runErr
	}

	if opts.notify {
		ui.NewNotifier().NotifyBuild(summary)
	}

	if summary.State == scraper.Aborted {
		ui.RenderBuildSummary(ui.Output, summary, "")
		ui.PrintResumeNotice(cfg.Checkpoint.Path)
		return summary, errInterrupted
	}

	ui.PrintInfo("Exporting to CSV", cfg.Output.Database)
	written, err := export.WriteFile(cfg.Output.Database, engine.Progress().Cards)
	if err != nil {
		return summary, err
	}
	if written == 0 {
		log.Warn("No cards to export")
		ui.PrintWarning("Warning: no cards to export!")
	} else {
		ui.PrintSuccess(fmt.Sprintf("Exported %s cards to %s", humanize.Comma(int64(written)), cfg.Output.Database))
	}

	if cfg.Output.SQLite != "" && written > 0 {
		ui.PrintInfo("Exporting to SQLite", cfg.Output.SQLite)
		if _, err := export.WriteSQLite(ctx, cfg.Output.SQLite, engine.Progress().Cards); err != nil {
			return summary, err
		}
		ui.PrintSuccess(fmt.Sprintf("Exported %s cards to %s", humanize.Comma(int64(written)), cfg.Output.SQLite))
	}

	ui.RenderBuildSummary(ui.Output, summary, cfg.Output.Database)
	return summary, nil
}
