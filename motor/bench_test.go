package motor

import (
	"testing"

	"github.com/pb33f/harview/hargen"
	"github.com/pb33f/harview/motor/model"
	"github.com/stretchr/testify/require"
)

// benchmark configurations for small, medium, and large captures
type benchConfig struct {
	name            string
	entryCount      int
	skipInShortMode bool
}

var benchConfigs = []benchConfig{
	{name: "Small", entryCount: 100},
	{name: "Medium", entryCount: 5_000},
	{name: "Large", entryCount: 50_000, skipInShortMode: true},
}

var benchFilters = []model.CustomFilter{
	{ID: "custom-api", Pattern: "/api/", PatternType: model.PatternPath},
	{ID: "custom-static", Pattern: "/static/", PatternType: model.PatternPath},
	{ID: "custom-images", Pattern: `\.(png|svg)$`, PatternType: model.PatternRegex},
	{ID: "custom-cdn", Pattern: `^https://cdn\.`, PatternType: model.PatternRegex},
}

func loadBenchCapture(b *testing.B, cfg benchConfig) *Capture {
	if cfg.skipInShortMode && testing.Short() {
		b.Skip("skipping large benchmark in short mode")
	}

	data, err := hargen.GenerateBytes(hargen.GenerateOptions{
		EntryCount:       cfg.entryCount,
		Seed:             42,
		MissingPhaseRate: 0.25,
	})
	require.NoError(b, err)

	capture, err := LoadCaptureBytes(data)
	require.NoError(b, err)
	return capture
}

func BenchmarkComputeWaterfall(b *testing.B) {
	for _, cfg := range benchConfigs {
		b.Run(cfg.name, func(b *testing.B) {
			capture := loadBenchCapture(b, cfg)
			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				ComputeWaterfall(capture.Records)
			}
		})
	}
}

func BenchmarkComputeFilterCounts(b *testing.B) {
	for _, cfg := range benchConfigs {
		b.Run(cfg.name, func(b *testing.B) {
			capture := loadBenchCapture(b, cfg)
			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				ComputeFilterCounts(capture.Records, benchFilters)
			}
		})
	}
}

func BenchmarkApplyFilters_Search(b *testing.B) {
	for _, cfg := range benchConfigs {
		b.Run(cfg.name, func(b *testing.B) {
			capture := loadBenchCapture(b, cfg)
			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				ApplyFilters(capture.Records, "custom-api", benchFilters, "v1")
			}
		})
	}
}

func BenchmarkLoadCaptureBytes(b *testing.B) {
	data, err := hargen.GenerateBytes(hargen.GenerateOptions{EntryCount: 5_000, Seed: 42})
	require.NoError(b, err)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := LoadCaptureBytes(data); err != nil {
			b.Fatal(err)
		}
	}
}
