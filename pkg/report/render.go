package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"tagscrape/pkg/storage"
)

const barGlyph = "█"

// Bar draws one block per two percent
func Bar(percent float64) string {
	if percent <= 0 {
		return ""
	}
	return strings.Repeat(barGlyph, int(percent/2))
}

// Render writes the statistics, the top n labels and the distribution
// insights as tables
func Render(w io.Writer, r *Report, n int) {
	stats := table.NewWriter()
	stats.SetOutputMirror(w)
	stats.SetStyle(table.StyleRounded)
	stats.SetTitle("Tag frequency analysis")
	stats.AppendRows([]table.Row{
		{"Total cards", humanize.Comma(int64(r.TotalCards))},
		{"Cards with tags", humanize.Comma(int64(r.CardsWithTags))},
		{"Cards without tags", humanize.Comma(int64(r.CardsWithoutTags()))},
		{"Tag occurrences", humanize.Comma(int64(r.TotalOccurrences))},
		{"Unique tags", humanize.Comma(int64(r.UniqueTags()))},
		{"Avg tags per card", fmt.Sprintf("%.2f", r.Average())},
	})
	stats.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	stats.Render()

	top := r.Top(n)
	if len(top) > 0 {
		fmt.Fprintln(w)
		tbl := table.NewWriter()
		tbl.SetOutputMirror(w)
		tbl.SetStyle(table.StyleLight)
		tbl.SetTitle(fmt.Sprintf("Top %d most common tags", len(top)))
		tbl.AppendHeader(table.Row{"Rank", "Tag", "Count", "% of Cards", ""})
		for i, tc := range top {
			pct := r.Percent(tc.Count)
			tbl.AppendRow(table.Row{i + 1, tc.Tag, humanize.Comma(int64(tc.Count)), fmt.Sprintf("%.2f%%", pct), Bar(pct)})
		}
		tbl.SetColumnConfigs([]table.ColumnConfig{
			{Number: 3, Align: text.AlignRight},
			{Number: 4, Align: text.AlignRight},
		})
		tbl.Render()
	}

	in := r.Insights()
	fmt.Fprintln(w)
	insights := table.NewWriter()
	insights.SetOutputMirror(w)
	insights.SetStyle(table.StyleRounded)
	insights.SetTitle("Distribution insights")
	insights.AppendRows([]table.Row{
		{"Tags on >10% of cards", in.Common},
		{"Tags on <1% of cards", in.Rare},
		{"Median tag frequency", in.Median},
		{"Tags on only 1 card", in.Singletons},
	})
	insights.Render()
}

// WriteFrequencyFile writes every label with its rank, count and share as
// tab separated lines under a short statistics header
func WriteFrequencyFile(path string, r *Report) error {
	return storage.WriteFileAtomic(path, func(w io.Writer) error {
		return writeFrequencyList(w, r)
	})
}

func writeFrequencyList(w io.Writer, r *Report) error {
	var b strings.Builder
	b.WriteString("MTG TAG FREQUENCY ANALYSIS\n")
	b.WriteString(strings.Repeat("=", 80) + "\n\n")
	fmt.Fprintf(&b, "Total cards: %s\n", humanize.Comma(int64(r.TotalCards)))
	fmt.Fprintf(&b, "Cards with tags: %s\n", humanize.Comma(int64(r.CardsWithTags)))
	fmt.Fprintf(&b, "Unique tags: %s\n", humanize.Comma(int64(r.UniqueTags())))
	fmt.Fprintf(&b, "Average tags per card: %.2f\n\n", r.Average())
	b.WriteString("Rank\tTag\tCount\t% of Cards\n")
	for i, tc := range r.Counts {
		fmt.Fprintf(&b, "%d\t%s\t%d\t%.2f%%\n", i+1, tc.Tag, tc.Count, r.Percent(tc.Count))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
