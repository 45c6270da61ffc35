package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pb33f/harview/motor"
	"github.com/pb33f/harview/motor/model"
	"github.com/spf13/cobra"
)

const maxNameWidth = 60

// EntriesReport is the machine readable form of the entries command
type EntriesReport struct {
	Filter  string          `json:"filter" yaml:"filter"`
	Search  string          `json:"search,omitempty" yaml:"search,omitempty"`
	Total   int             `json:"total" yaml:"total"`
	Count   int             `json:"count" yaml:"count"`
	Entries []*model.Record `json:"entries" yaml:"entries"`
}

var entriesCmd = &cobra.Command{
	Use:   "entries <har-file>",
	Short: "List requests, narrowed by a filter and a search term",
	Long: `List the requests of a HAR file in capture order. --filter selects a
built-in class (all, 4xx, 5xx, other-errors) or a custom filter id from the
config file; --search keeps requests whose name or url contains the term.`,
	Args: cobra.ExactArgs(1),
	Example: `  harview entries recording.har --filter 5xx
  harview entries recording.har --filter custom-api --search users -o json`,
	RunE: runEntries,
}

func init() {
	rootCmd.AddCommand(entriesCmd)
	addSelectionFlags(entriesCmd)
	addOutputFlag(entriesCmd)
	entriesCmd.Flags().Int("limit", 0, "Show at most this many requests (0 = all)")
}

// addSelectionFlags registers --filter and --search
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("filter", "f", string(model.FilterAll), "Filter id: all, 4xx, 5xx, other-errors or a custom filter id")
	cmd.Flags().StringP("search", "s", "", "Case-insensitive text to look for in request names and urls")
}

// selectRecords applies --filter and --search, falling back to all for an unknown filter
func selectRecords(cmd *cobra.Command, capture *motor.Capture) (string, string, []*model.Record) {
	requested, _ := cmd.Flags().GetString("filter")
	search, _ := cmd.Flags().GetString("search")

	filters := newFilterStore().List()
	selection := motor.ResolveSelection(requested, filters)
	if requested != "" && selection != requested {
		GetLogger().Warn("unknown filter, showing all requests", "filter", requested)
	}

	return selection, search, motor.ApplyFilters(capture.Records, selection, filters, search)
}

func runEntries(cmd *cobra.Command, args []string) error {
	capture, err := LoadCapture(args[0], GetLogger())
	if err != nil {
		return err
	}

	selection, search, records := selectRecords(cmd, capture)
	report := EntriesReport{
		Filter:  selection,
		Search:  search,
		Total:   len(capture.Records),
		Count:   len(records),
		Entries: records,
	}

	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(report.Entries) > limit {
		report.Entries = report.Entries[:limit]
	}

	return render(cmd, report, func(w io.Writer) error {
		t := newTable("#", "Method", "Status", "Type", "Size", "Time", "Domain", "Name")
		for _, r := range report.Entries {
			t.Row(
				strconv.Itoa(r.Index),
				r.Method,
				formatStatus(r.Status),
				string(r.ResourceType),
				motor.FormatBytes(r.ContentSize),
				motor.FormatDuration(r.Time),
				r.Domain,
				truncate(r.DisplayName, maxNameWidth),
			)
		}

		_, err := fmt.Fprintf(w, "%s\n%s\n", t.String(),
			labelStyle.Render(fmt.Sprintf("%d of %d requests (filter: %s)", report.Count, report.Total, report.Filter)))
		return err
	})
}

// truncate shortens s to n runes, marking the cut with an ellipsis
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n || n < 1 {
		return s
	}
	return string(runes[:n-1]) + "…"
}
