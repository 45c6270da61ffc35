package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pb33f/harview/hargen"
	"github.com/spf13/cobra"
)

var (
	entryCount  int
	outputFile  string
	seed        int64
	dictPath    string
	missingRate float64
	hosts       []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hargen",
		Short: "Generate synthetic HAR files",
		Long: `hargen is a tool for generating HAR (HTTP Archive) files of various sizes,
with overlapping requests, mixed status codes and partially reported timings.`,
		Example: `  hargen -n 100 -o test.har
  hargen -n 10000 --seed 7 --missing-rate 0.4 -o big.har
  hargen -n 20 --hosts api.local,cdn.local`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().IntVarP(&entryCount, "entries", "n", 10, "Number of HAR entries to generate")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (default: a temp file)")
	rootCmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Random seed for reproducibility (0 = use current time)")
	rootCmd.Flags().StringVarP(&dictPath, "dict", "d", "", "YAML dictionary of url words: resources, assetDirs, assetNames (default: built-in)")
	rootCmd.Flags().Float64Var(&missingRate, "missing-rate", hargen.DefaultGenerateOptions.MissingPhaseRate, "Chance an optional timing phase is left out (0-1)")
	rootCmd.Flags().StringSliceVar(&hosts, "hosts", nil, "Hosts to spread requests across")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	opts := hargen.GenerateOptions{
		EntryCount:       entryCount,
		Seed:             seed,
		DictionaryPath:   dictPath,
		MissingPhaseRate: missingRate,
	}
	for _, h := range hosts {
		if h = strings.TrimSpace(h); h != "" {
			opts.Hosts = append(opts.Hosts, h)
		}
	}

	var result *hargen.GenerateResult
	var err error
	if outputFile != "" {
		result, err = hargen.GenerateToFile(outputFile, opts)
	} else {
		result, err = hargen.Generate(opts)
	}
	if err != nil {
		return fmt.Errorf("failed to generate HAR: %w", err)
	}

	fmt.Printf("✓ Generated %s (%d entries, %d bytes)\n", result.HARFilePath, result.TotalEntries, result.Size)
	return nil
}
