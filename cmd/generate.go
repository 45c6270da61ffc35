package cmd

import (
	"fmt"
	"strings"

	"github.com/pb33f/harview/hargen"
	"github.com/spf13/cobra"
)

var (
	genEntryCount  int
	genOutputFile  string
	genSeed        int64
	genDictPath    string
	genMissingRate float64
	genHosts       string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic HAR files for testing",
	Long: `Generate HAR (HTTP Archive) files of any size for testing. Entries overlap
in time, mix every status class (including failed requests and non-standard
codes) and randomly leave out optional timing phases, so the waterfall and the
filters have something to work with.

Examples:
  harview generate -n 100 -o test.har
  harview generate -n 5000 --seed 42 --missing-rate 0.5
  harview generate -n 20 --hosts api.local,cdn.local`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVarP(&genEntryCount, "entries", "n", 10, "Number of HAR entries to generate")
	generateCmd.Flags().StringVarP(&genOutputFile, "output", "o", "", "Output file path (default: a temp file)")
	generateCmd.Flags().Int64VarP(&genSeed, "seed", "s", 0, "Random seed for reproducibility (0 = use current time)")
	generateCmd.Flags().StringVarP(&genDictPath, "dict", "d", "", "YAML dictionary of url words: resources, assetDirs, assetNames (default: built-in)")
	generateCmd.Flags().Float64Var(&genMissingRate, "missing-rate", hargen.DefaultGenerateOptions.MissingPhaseRate, "Chance an optional timing phase is left out (0-1)")
	generateCmd.Flags().StringVar(&genHosts, "hosts", "", "Comma separated hosts to spread requests across")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genEntryCount < 0 {
		return fmt.Errorf("entries must not be negative, got %d", genEntryCount)
	}

	opts := hargen.GenerateOptions{
		EntryCount:       genEntryCount,
		Seed:             genSeed,
		DictionaryPath:   genDictPath,
		MissingPhaseRate: genMissingRate,
	}
	for _, host := range strings.Split(genHosts, ",") {
		if host = strings.TrimSpace(host); host != "" {
			opts.Hosts = append(opts.Hosts, host)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generating HAR file with %d entries...\n", genEntryCount)

	var result *hargen.GenerateResult
	var err error
	if genOutputFile != "" {
		result, err = hargen.GenerateToFile(genOutputFile, opts)
	} else {
		result, err = hargen.Generate(opts)
	}
	if err != nil {
		return fmt.Errorf("failed to generate HAR: %w", err)
	}

	fmt.Fprintf(out, "\n✓ Generated HAR file: %s\n", result.HARFilePath)
	fmt.Fprintf(out, "  Total entries: %d\n", result.TotalEntries)
	fmt.Fprintf(out, "  Size: %d bytes\n", result.Size)

	return nil
}
