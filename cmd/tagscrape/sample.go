package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"tagscrape/pkg/config"
	"tagscrape/pkg/logger"
	"tagscrape/pkg/sample"
	"tagscrape/pkg/ui"
)

var (
	// Sample command flags
	sampleOutput string
	sampleSize   int
	sampleSeed   uint64
)

// sampleCmd represents the sample command
var sampleCmd = &cobra.Command{
	Use:   "sample [database-csv]",
	Short: "Draw a random training sample from an exported database",
	Long: `Randomly sample cards from an exported database without replacement,
keeping only the columns useful for model training: id, name, mana cost,
cmc, type line, oracle text, colors, color identity, keywords, power,
toughness, loyalty and labels.`,
	Example: `  tagscrape sample
  tagscrape sample data/mtg_cards_database.csv -n 1000 --seed 42 -o sample.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := make(map[string]interface{})
		setFlag(cmd, flags, "sample-output", sampleOutput)
		setFlag(cmd, flags, "sample-size", sampleSize)
		if len(args) == 1 {
			flags["output"] = args[0]
		}

		cfg, err := loadConfig(flags)
		if err != nil {
			return err
		}

		var seed *uint64
		if cmd.Flags().Changed("seed") {
			seed = &sampleSeed
		}
		return runSample(cfg, seed)
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().StringVarP(&sampleOutput, "output", "o", "", "CSV file to write the sample to")
	sampleCmd.Flags().IntVarP(&sampleSize, "sample-size", "n", 0, "number of cards to sample")
	sampleCmd.Flags().Uint64VarP(&sampleSeed, "seed", "s", 0, "random seed for a reproducible sample")
}

// runSample draws output.sample_size cards from output.database into
// output.sample
func runSample(cfg *config.Config, seed *uint64) error {
	input := cfg.Output.Database
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("database not found: %w", err)
	}
	if seed != nil {
		ui.PrintInfo("Using random seed", fmt.Sprintf("%d", *seed))
	}

	ui.PrintInfo("Reading cards from", input)
	ds, err := sample.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}

	total, labelled := ds.Len(), ds.Labelled()
	fmt.Fprintln(ui.Output, "\nDatabase statistics:")
	fmt.Fprintf(ui.Output, "  Total cards:      %s\n", humanize.Comma(int64(total)))
	fmt.Fprintf(ui.Output, "  Cards with tags:  %s\n", humanize.Comma(int64(labelled)))
	fmt.Fprintf(ui.Output, "  Cards without:    %s\n", humanize.Comma(int64(total-labelled)))
	fmt.Fprintf(ui.Output, "  Tag coverage:     %.2f%%\n\n", ui.Percent(labelled, total))

	rows, clamped := ds.Sample(cfg.Output.SampleSize, sample.NewRand(seed))
	if clamped {
		logger.GetLogger().WarnWithFields("Sample size exceeds database", map[string]interface{}{
			"requested": cfg.Output.SampleSize,
			"available": total,
		})
		ui.PrintWarning(fmt.Sprintf("Warning: requested %s but only %s cards available.",
			humanize.Comma(int64(cfg.Output.SampleSize)), humanize.Comma(int64(total))))
	}

	size := len(rows)
	tagged := sample.CountLabelled(rows)
	fmt.Fprintln(ui.Output, "Sample statistics:")
	fmt.Fprintf(ui.Output, "  Size:           %s\n", humanize.Comma(int64(size)))
	fmt.Fprintf(ui.Output, "  With tags:      %s (%.2f%%)\n", humanize.Comma(int64(tagged)), ui.Percent(tagged, size))
	fmt.Fprintf(ui.Output, "  Without tags:   %s\n", humanize.Comma(int64(size-tagged)))

	if err := sample.WriteFile(cfg.Output.Sample, rows); err != nil {
		return fmt.Errorf("failed to write sample: %w", err)
	}
	ui.PrintSuccess(fmt.Sprintf("\nWrote %s cards to %s", humanize.Comma(int64(size)), cfg.Output.Sample))

	fmt.Fprintln(ui.Output, "\nPreview (first 3 cards):")
	ui.PrintRule()
	for _, line := range sample.Preview(rows, 3) {
		fmt.Fprintf(ui.Output, "  %s\n", line)
	}
	return nil
}
