package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"tagscrape/pkg/config"
	"tagscrape/pkg/report"
	"tagscrape/pkg/ui"
)

// Stats command flags
var topN int

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats [database-csv]",
	Short: "Report tag frequencies for an exported database",
	Long: `Count how often each functional tag occurs in an exported card database.

Prints overall statistics, the most common tags and a short summary of the
distribution, then writes the full frequency list next to the CSV as
<name>_tag_frequency.txt.`,
	Example: `  tagscrape stats
  tagscrape stats data/mtg_cards_database.csv --top-n 25`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := make(map[string]interface{})
		setFlag(cmd, flags, "top-n", topN)
		if len(args) == 1 {
			flags["output"] = args[0]
		}

		cfg, err := loadConfig(flags)
		if err != nil {
			return err
		}
		return runStats(cfg)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().IntVarP(&topN, "top-n", "n", 0, "number of top tags to display")
}

// runStats analyses output.database and writes its frequency list
func runStats(cfg *config.Config) error {
	path := cfg.Output.Database
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("database not found: %w", err)
	}

	ui.PrintInfo("Analyzing tag frequencies from", path)
	rep, err := report.AnalyzeFile(path)
	if err != nil {
		return fmt.Errorf("failed to analyze %s: %w", path, err)
	}

	fmt.Fprintln(ui.Output)
	report.Render(ui.Output, rep, cfg.Output.TopN)

	freqPath := report.FrequencyPath(path)
	if err := report.WriteFrequencyFile(freqPath, rep); err != nil {
		return err
	}
	ui.PrintSuccess("\nFull frequency list saved to: " + freqPath)
	return nil
}
