package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"tagscrape/pkg/config"
	"tagscrape/pkg/ui"
)

// Pipeline command flags
var startFrom int

// pipelineStep is one stage of the full run
type pipelineStep struct {
	name string
	run  func(ctx context.Context, cfg *config.Config) error
}

// pipelineSteps returns the stages in order
func pipelineSteps(build buildOptions) []pipelineStep {
	return []pipelineStep{
		{"Scrape functional tags", runTags},
		{"Build card database", func(ctx context.Context, cfg *config.Config) error {
			_, err := runBuild(ctx, cfg, build)
			return err
		}},
		{"Analyze tag frequency", func(_ context.Context, cfg *config.Config) error {
			return runStats(cfg)
		}},
		{"Sample cards for ML", func(_ context.Context, cfg *config.Config) error {
			return runSample(cfg, nil)
		}},
	}
}

// pipelineCmd represents the pipeline command
var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run tags, build, stats and sample in order",
	Long: `Run the whole pipeline end to end:

  1. Scrape functional tags
  2. Build card database
  3. Analyze tag frequency
  4. Sample cards for ML

The pipeline stops at the first failing step. An interrupted build saves
its checkpoint and stops the pipeline; rerun with --start-from 2 to resume.`,
	Example: `  tagscrape pipeline
  tagscrape pipeline --start-from 3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := make(map[string]interface{})
		setFlag(cmd, flags, "tags-file", tagsOutput)
		setFlag(cmd, flags, "sample-output", sampleOutput)
		setFlag(cmd, flags, "sample-size", sampleSize)
		if cmd.Flags().Changed("database") {
			flags["output"] = outputFile
		}

		cfg, err := loadConfig(flags)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err = runPipeline(ctx, cfg, startFrom, pipelineSteps(buildOptions{verbose: !ui.IsTerminal()}))
		if errors.Is(err, errInterrupted) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(pipelineCmd)

	pipelineCmd.Flags().IntVar(&startFrom, "start-from", 1, "step number to start from (1-4)")
	pipelineCmd.Flags().StringVar(&tagsOutput, "tags-file", "", "path for the scraped tags JSON")
	pipelineCmd.Flags().StringVar(&outputFile, "database", "", "path for the card database CSV")
	pipelineCmd.Flags().StringVar(&sampleOutput, "sample-output", "", "path for the ML sample CSV")
	pipelineCmd.Flags().IntVar(&sampleSize, "sample-size", 0, "number of cards to sample for ML")
}

// runPipeline runs steps from start (1-based) to the end
func runPipeline(ctx context.Context, cfg *config.Config, start int, steps []pipelineStep) error {
	if start < 1 || start > len(steps) {
		return fmt.Errorf("--start-from must be between 1 and %d, got %d", len(steps), start)
	}

	ui.PrintHighlight("tagscrape pipeline")
	fmt.Fprintf(ui.Output, "Running steps %d-%d\n", start, len(steps))

	begin := time.Now()
	for i := start; i <= len(steps); i++ {
		step := steps[i-1]

		fmt.Fprintln(ui.Output)
		ui.PrintRule()
		ui.PrintHighlight(fmt.Sprintf("[%d/%d] %s", i, len(steps), step.name))
		ui.PrintRule()
		fmt.Fprintln(ui.Output)

		stepStart := time.Now()
		err := step.run(ctx, cfg)
		elapsed := time.Since(stepStart).Seconds()

		if errors.Is(err, errInterrupted) {
			ui.PrintWarning(fmt.Sprintf("\nPipeline interrupted at step %d (%.1fs)", i, elapsed))
			return err
		}
		if err != nil {
			ui.PrintError(fmt.Sprintf("\nStep failed (%.1fs)", elapsed), err)
			return fmt.Errorf("pipeline aborted at step %d: %w", i, err)
		}
		ui.PrintSuccess(fmt.Sprintf("\nStep completed (%.1fs)", elapsed))
	}

	fmt.Fprintln(ui.Output)
	ui.PrintRule()
	ui.PrintSuccess(fmt.Sprintf("Pipeline complete (%.1fs)", time.Since(begin).Seconds()))
	ui.PrintRule()
	return nil
}
