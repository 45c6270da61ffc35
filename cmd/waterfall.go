package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pb33f/harview/motor"
	"github.com/pb33f/harview/motor/model"
	"github.com/spf13/cobra"
)

const (
	defaultBarWidth = 60
	barRune         = "█"
	zeroSpanRune    = "░"
)

// WaterfallRow ties a bar back to the request it was laid out for
type WaterfallRow struct {
	Index int                `json:"index" yaml:"index"`
	Name  string             `json:"name" yaml:"name"`
	URL   string             `json:"url" yaml:"url"`
	Time  float64            `json:"time" yaml:"time"`
	Bar   motor.WaterfallBar `json:"bar" yaml:"bar"`
}

// WaterfallReport is the machine readable form of the waterfall command
type WaterfallReport struct {
	Filter        string             `json:"filter" yaml:"filter"`
	Search        string             `json:"search,omitempty" yaml:"search,omitempty"`
	StartTime     float64            `json:"startTime" yaml:"startTime"`
	EndTime       float64            `json:"endTime" yaml:"endTime"`
	TotalDuration float64            `json:"totalDuration" yaml:"totalDuration"`
	Markers       []motor.TimeMarker `json:"markers" yaml:"markers"`
	Rows          []WaterfallRow     `json:"rows" yaml:"rows"`
}

var waterfallCmd = &cobra.Command{
	Use:   "waterfall <har-file>",
	Short: "Lay requests out on a shared timeline",
	Long: `Compute the waterfall of a HAR file: every request is placed on a timeline
spanning the earliest start to the latest end, split into its timing phases
(blocked, dns, connect, ssl, send, wait, receive). Phases a capture does not
report are left out.`,
	Args: cobra.ExactArgs(1),
	Example: `  harview waterfall recording.har
  harview waterfall recording.har --filter 4xx --width 100
  harview waterfall recording.har -o json`,
	RunE: runWaterfall,
}

func init() {
	rootCmd.AddCommand(waterfallCmd)
	addSelectionFlags(waterfallCmd)
	addOutputFlag(waterfallCmd)
	waterfallCmd.Flags().Int("width", defaultBarWidth, "Width of the timeline in columns")
}

func runWaterfall(cmd *cobra.Command, args []string) error {
	capture, err := LoadCapture(args[0], GetLogger())
	if err != nil {
		return err
	}

	width, _ := cmd.Flags().GetInt("width")
	if width < 10 {
		return fmt.Errorf("width must be at least 10, got %d", width)
	}

	selection, search, records := selectRecords(cmd, capture)
	result := motor.ComputeWaterfall(records)

	report := WaterfallReport{
		Filter:        selection,
		Search:        search,
		StartTime:     result.StartTime,
		EndTime:       result.EndTime,
		TotalDuration: result.TotalDuration,
		Markers:       motor.ComputeTimeMarkers(result.TotalDuration),
		Rows:          make([]WaterfallRow, len(records)),
	}
	for i, r := range records {
		report.Rows[i] = WaterfallRow{
			Index: r.Index,
			Name:  r.DisplayName,
			URL:   r.URL,
			Time:  r.Time,
			Bar:   result.Bars[i],
		}
	}

	return render(cmd, report, func(w io.Writer) error {
		return writeWaterfall(w, report, width)
	})
}

func writeWaterfall(w io.Writer, report WaterfallReport, width int) error {
	var b strings.Builder

	nameWidth := 0
	for _, row := range report.Rows {
		nameWidth = max(nameWidth, len([]rune(truncate(row.Name, 40))))
	}
	pad := strings.Repeat(" ", nameWidth+1)

	b.WriteString(pad + labelStyle.Render(markerAxis(report.Markers, width)) + "\n")
	for _, row := range report.Rows {
		name := truncate(row.Name, 40)
		b.WriteString(name + strings.Repeat(" ", nameWidth-len([]rune(name))+1))
		b.WriteString(drawBar(row.Bar, width, report.TotalDuration <= 0))
		b.WriteString(" " + labelStyle.Render(motor.FormatDuration(row.Time)) + "\n")
	}

	legend := make([]string, 0, len(model.PhaseOrder))
	for _, phase := range model.PhaseOrder {
		legend = append(legend, phaseColors[phase].Render(barRune)+" "+string(phase))
	}
	b.WriteString("\n" + strings.Join(legend, "  ") + "\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%d requests over %s (filter: %s)",
		len(report.Rows), motor.FormatDuration(report.TotalDuration), report.Filter)) + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// drawBar renders one bar as width columns: leading space, then each phase
func drawBar(bar motor.WaterfallBar, width int, zeroSpan bool) string {
	if zeroSpan {
		return lipgloss.NewStyle().Foreground(RGBGrey).Render(strings.Repeat(zeroSpanRune, width))
	}

	offset := min(max(columns(bar.Offset, width), 0), width)
	used := offset

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", offset))
	for _, segment := range bar.Segments {
		n := min(columns(segment.Width, width), width-used)
		if n <= 0 {
			continue
		}
		b.WriteString(phaseColors[segment.Type].Render(strings.Repeat(barRune, n)))
		used += n
	}

	// keep very short requests visible
	if used == offset && offset < width {
		b.WriteString(lipgloss.NewStyle().Foreground(RGBGrey).Render("▏"))
		used++
	}

	b.WriteString(strings.Repeat(" ", width-used))
	return b.String()
}

// columns converts a percentage of the timeline into whole columns
func columns(percent float64, width int) int {
	return int(math.Round(percent / 100 * float64(width)))
}

// markerAxis places marker labels along the timeline, skipping any that would overlap
func markerAxis(markers []motor.TimeMarker, width int) string {
	axis := []rune(strings.Repeat(" ", width+8))
	next := 0
	for _, m := range markers {
		col := columns(m.Position, width)
		label := []rune("|" + m.Label)
		if col < next || col+len(label) > len(axis) {
			continue
		}
		copy(axis[col:], label)
		next = col + len(label) + 1
	}
	return strings.TrimRight(string(axis), " ")
}
