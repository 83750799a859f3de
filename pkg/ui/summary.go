package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"tagscrape/pkg/scraper"
)

// maxFailedShown bounds the failed tags listed in a summary
const maxFailedShown = 10

// RenderBuildSummary writes the end-of-run statistics as a table
func RenderBuildSummary(w io.Writer, s scraper.Summary, output string) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleRounded)

	switch s.State {
	case scraper.Completed:
		tbl.SetTitle("Database Build Complete")
	case scraper.Aborted:
		tbl.SetTitle("Database Build Interrupted")
	default:
		tbl.SetTitle("Database Build")
	}

	tbl.AppendRows([]table.Row{
		{"Unique cards", humanize.Comma(int64(s.Cards))},
		{"New this run", humanize.Comma(int64(s.NewCards))},
		{"Tags processed", fmt.Sprintf("%s / %s",
			humanize.Comma(int64(s.AlreadyProcessed+s.Processed)), humanize.Comma(int64(s.TotalTags)))},
		{"Failed tags", humanize.Comma(int64(s.Failed))},
		{"API requests", humanize.Comma(s.Requests)},
		{"Checkpoints", s.Checkpoints},
		{"Duration", FormatDuration(s.Duration)},
	})
	if output != "" {
		tbl.AppendRow(table.Row{"Output file", output})
	}
	tbl.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	tbl.Render()

	if len(s.FailedTags) > 0 {
		shown := s.FailedTags
		if len(shown) > maxFailedShown {
			shown = shown[:maxFailedShown]
		}
		fmt.Fprintf(w, "%s %s", Yellow("Failed tags (retried on next run):"), strings.Join(shown, ", "))
		if more := len(s.FailedTags) - len(shown); more > 0 {
			fmt.Fprintf(w, " ... and %d more", more)
		}
		fmt.Fprintln(w)
	}
}

// PrintResumeNotice tells the user how to continue an interrupted build
func PrintResumeNotice(checkpointPath string) {
	fmt.Fprintln(Output)
	PrintWarning("Interrupted by user!")
	PrintInfo("Progress saved to", checkpointPath)
	fmt.Fprintln(Output, "Run the same command again to resume from where you left off.")
}
