package motor

import (
	"fmt"
	"math"

	"github.com/pb33f/harview/motor/model"
)

// WaterfallSegment is one timing phase inside a bar.
type WaterfallSegment struct {
	Type     model.Phase `json:"type" yaml:"type"`
	Width    float64     `json:"width" yaml:"width"`       // percent of the whole timeline
	Duration float64     `json:"duration" yaml:"duration"` // milliseconds
}

// WaterfallBar places one record on the shared timeline.
type WaterfallBar struct {
	Offset     float64            `json:"offset" yaml:"offset"`         // percent from timeline start
	TotalWidth float64            `json:"totalWidth" yaml:"totalWidth"` // percent of the whole timeline
	Segments   []WaterfallSegment `json:"segments" yaml:"segments"`
}

// WaterfallResult is the layout of a set of records. Times are milliseconds;
// StartTime and EndTime are milliseconds since the unix epoch.
type WaterfallResult struct {
	Bars          []WaterfallBar `json:"bars" yaml:"bars"`
	StartTime     float64        `json:"startTime" yaml:"startTime"`
	EndTime       float64        `json:"endTime" yaml:"endTime"`
	TotalDuration float64        `json:"totalDuration" yaml:"totalDuration"`
}

// TimeMarker is an axis tick.
type TimeMarker struct {
	Position float64 `json:"position" yaml:"position"`
	Label    string  `json:"label" yaml:"label"`
}

// ComputeWaterfall lays out records on a timeline spanning the earliest start to the
// latest end. Bars are returned in input order.
//
// When the span is zero (every record starts and ends at the same instant) percentages
// are undefined: each bar is drawn at offset 0 across the full width (100) and its
// segments keep their durations with a width of 0.
func ComputeWaterfall(records []*model.Record) WaterfallResult {
	if len(records) == 0 {
		return WaterfallResult{Bars: []WaterfallBar{}}
	}

	starts := make([]float64, len(records))
	startTime := math.Inf(1)
	endTime := math.Inf(-1)

	for i, r := range records {
		starts[i] = r.StartMillis()
		startTime = math.Min(startTime, starts[i])
		endTime = math.Max(endTime, starts[i]+r.Time)
	}

	totalDuration := endTime - startTime
	degenerate := totalDuration <= 0

	bars := make([]WaterfallBar, len(records))
	for i, r := range records {
		bar := WaterfallBar{
			Offset:     0,
			TotalWidth: 100,
			Segments:   buildSegments(r.Timings, totalDuration, degenerate),
		}
		if !degenerate {
			bar.Offset = percentOf(starts[i]-startTime, totalDuration)
			bar.TotalWidth = percentOf(r.Time, totalDuration)
		}
		bars[i] = bar
	}

	return WaterfallResult{
		Bars:          bars,
		StartTime:     startTime,
		EndTime:       endTime,
		TotalDuration: totalDuration,
	}
}

// buildSegments walks the phases in order, skipping any that are unknown (negative).
// Widths are relative to the whole timeline, not the bar.
func buildSegments(timings model.Timings, totalDuration float64, degenerate bool) []WaterfallSegment {
	segments := make([]WaterfallSegment, 0, len(model.PhaseOrder))

	for _, phase := range model.PhaseOrder {
		duration := timings.Duration(phase)
		if duration < 0 {
			continue
		}

		width := 0.0
		if !degenerate {
			width = percentOf(duration, totalDuration)
		}

		segments = append(segments, WaterfallSegment{
			Type:     phase,
			Width:    width,
			Duration: duration,
		})
	}

	return segments
}

func percentOf(value, total float64) float64 {
	return value / total * 100
}

// ComputeTimeMarkers returns axis ticks from 0 up to and including totalDuration, at
// an interval chosen by the magnitude of the span. A non-positive span has no ticks.
func ComputeTimeMarkers(totalDuration float64) []TimeMarker {
	markers := []TimeMarker{}
	if totalDuration <= 0 || math.IsNaN(totalDuration) || math.IsInf(totalDuration, 0) {
		return markers
	}

	interval := markerInterval(totalDuration)
	for i := 0; ; i++ {
		t := float64(i) * interval
		if t > totalDuration {
			break
		}
		markers = append(markers, TimeMarker{
			Position: percentOf(t, totalDuration),
			Label:    FormatMarkerTime(t),
		})
	}

	return markers
}

func markerInterval(totalDuration float64) float64 {
	switch {
	case totalDuration < 1000:
		return 100
	case totalDuration < 5000:
		return 500
	case totalDuration < 10000:
		return 1000
	case totalDuration < 30000:
		return 5000
	default:
		return 10000
	}
}

// FormatMarkerTime renders a millisecond offset as "123ms" below a second, else "1.2s".
func FormatMarkerTime(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", int64(math.Round(ms)))
	}
	return fmt.Sprintf("%.1fs", ms/1000)
}
