package cmd

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/pb33f/harview/motor"
	"github.com/pb33f/harview/motor/model"
	"github.com/spf13/cobra"
)

// SummaryReport is the machine readable form of the summary command
type SummaryReport struct {
	File          string        `json:"file" yaml:"file"`
	Hash          string        `json:"hash" yaml:"hash"`
	Entries       int           `json:"entries" yaml:"entries"`
	UniqueURLs    int           `json:"uniqueUrls" yaml:"uniqueUrls"`
	UniqueDomains int           `json:"uniqueDomains" yaml:"uniqueDomains"`
	DurationMs    float64       `json:"durationMs" yaml:"durationMs"`
	Summary       motor.Summary `json:"summary" yaml:"summary"`
}

var summaryCmd = &cobra.Command{
	Use:   "summary <har-file>",
	Short: "Summarise a HAR file: sizes, timings, resource types and statuses",
	Args:  cobra.ExactArgs(1),
	Example: `  harview summary recording.har
  harview summary recording.har -o yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printSummary(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	addOutputFlag(summaryCmd)
}

func printSummary(cmd *cobra.Command, harFile string) error {
	capture, err := LoadCapture(harFile, GetLogger())
	if err != nil {
		return err
	}

	report := SummaryReport{
		File:          capture.FilePath,
		Hash:          capture.Hash,
		Entries:       len(capture.Records),
		UniqueURLs:    capture.UniqueURLs,
		UniqueDomains: capture.UniqueDomains,
		DurationMs:    float64(capture.TimeRange.Duration()) / float64(time.Millisecond),
		Summary:       motor.ComputeSummary(capture.Records),
	}

	return render(cmd, report, func(w io.Writer) error {
		return writeSummaryTable(w, report)
	})
}

func writeSummaryTable(w io.Writer, report SummaryReport) error {
	s := report.Summary

	overview := newTable().Rows(
		[]string{labelStyle.Render("File"), report.File},
		[]string{labelStyle.Render("Requests"), strconv.Itoa(s.TotalRequests)},
		[]string{labelStyle.Render("Unique URLs"), strconv.Itoa(report.UniqueURLs)},
		[]string{labelStyle.Render("Domains"), strconv.Itoa(report.UniqueDomains)},
		[]string{labelStyle.Render("Transferred"), motor.FormatBytes(s.TotalSize)},
		[]string{labelStyle.Render("Compressed"), motor.FormatBytes(s.TotalCompressedSize)},
		[]string{labelStyle.Render("Timeline"), motor.FormatDuration(report.DurationMs)},
		[]string{labelStyle.Render("Request time"), motor.FormatDuration(s.TotalTime)},
	)

	phases := newTable("Phase", "Total")
	for _, phase := range model.PhaseOrder {
		phases.Row(phaseColors[phase].Render(string(phase)), motor.FormatDuration(phaseTotal(s.Phases, phase)))
	}

	types := newTable("Type", "Requests")
	for _, rc := range s.TopResourceTypes(-1) {
		types.Row(string(rc.Type), strconv.Itoa(rc.Count))
	}

	codes := make([]int, 0, len(s.RequestsByStatus))
	for code := range s.RequestsByStatus {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	statuses := newTable("Status", "Category", "Requests")
	for _, code := range codes {
		statuses.Row(formatStatus(code), motor.StatusCategory(code), strconv.Itoa(s.RequestsByStatus[code]))
	}

	for _, section := range []struct {
		title string
		body  fmt.Stringer
	}{
		{"Capture", overview},
		{"Timings", phases},
		{"Resource types", types},
		{"Status codes", statuses},
	} {
		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", headingStyle.Render(section.title), section.body.String()); err != nil {
			return err
		}
	}
	return nil
}

func phaseTotal(totals motor.PhaseTotals, phase model.Phase) float64 {
	switch phase {
	case model.PhaseBlocked:
		return totals.Blocked
	case model.PhaseDNS:
		return totals.DNS
	case model.PhaseConnect:
		return totals.Connect
	case model.PhaseSSL:
		return totals.SSL
	case model.PhaseSend:
		return totals.Send
	case model.PhaseWait:
		return totals.Wait
	default:
		return totals.Receive
	}
}
