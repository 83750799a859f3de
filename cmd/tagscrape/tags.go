package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"tagscrape/pkg/config"
	"tagscrape/pkg/tags"
	"tagscrape/pkg/taxonomy"
	"tagscrape/pkg/ui"
)

var (
	// Tags command flags
	tagsOutput string
	taggerURL  string
)

// tagsCmd represents the tags command
var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Scrape the list of functional tags",
	Long: `Download Scryfall's tagger documentation page and extract every
functional tag, grouped by category. The result is the tags file read by
'tagscrape build'.`,
	Example: `  tagscrape tags
  tagscrape tags --output data/functional_tags.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := make(map[string]interface{})
		setFlag(cmd, flags, "tags-file", tagsOutput)

		cfg, err := loadConfig(flags)
		if err != nil {
			return err
		}
		if taggerURL != "" {
			cfg.API.TaggerURL = taggerURL
		}

		return runTags(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)

	tagsCmd.Flags().StringVarP(&tagsOutput, "output", "o", "", "JSON file to write the tags to")
	tagsCmd.Flags().StringVar(&taggerURL, "url", "", "tagger documentation page")
}

// runTags scrapes the functional tags and saves them to output.tags_file
func runTags(ctx context.Context, cfg *config.Config) error {
	ui.PrintInfo("Fetching", cfg.API.TaggerURL)

	tagger := taxonomy.NewScraper(cfg.API.TaggerURL, cfg.API.UserAgent, cfg.API.Timeout)
	groups, err := tagger.Scrape(ctx)
	if err != nil {
		return fmt.Errorf("failed to scrape functional tags: %w", err)
	}
	if len(groups) == 0 {
		return fmt.Errorf("no functional tags found at %s", cfg.API.TaggerURL)
	}

	if err := tags.Save(cfg.Output.TagsFile, groups); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Saved %d categories (%d tags) to %s", len(groups), groups.Count(), cfg.Output.TagsFile))

	fmt.Fprintln(ui.Output, "\nSummary:")
	for _, line := range taxonomy.Summary(groups) {
		fmt.Fprintf(ui.Output, "  %s\n", line)
	}
	return nil
}
