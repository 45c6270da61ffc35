package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pb33f/harview/motor"
	"github.com/pb33f/harview/motor/model"
	"github.com/spf13/cobra"
)

// FilterCount is one row of the filters counts command
type FilterCount struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// FilterExport is the config file shape of the custom filters
type FilterExport struct {
	Filters []model.CustomFilter `json:"filters" yaml:"filters"`
}

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Work with built-in and custom request filters",
	Long: `Custom filters are read from the filters section of the config file.
Each has an id, a name, a pattern and a patternType: "path" matches a
case-insensitive substring of the url path, "regex" a case-insensitive
regular expression against the full url.`,
}

var filterCountsCmd = &cobra.Command{
	Use:   "counts <har-file>",
	Short: "Count the requests matching every filter",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilterCounts,
}

var filterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and configured custom filters",
	Args:  cobra.NoArgs,
	RunE:  runFilterList,
}

var filterValidateCmd = &cobra.Command{
	Use:   "validate <pattern>",
	Short: "Check a custom filter pattern before saving it",
	Args:  cobra.ExactArgs(1),
	Example: `  harview filters validate '/api/v1/'
  harview filters validate '^https://cdn\..*\.png$' --type regex`,
	RunE: runFilterValidate,
}

var filterExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the custom filters in config file form",
	Args:  cobra.NoArgs,
	RunE:  runFilterExport,
}

func init() {
	rootCmd.AddCommand(filtersCmd)
	filtersCmd.AddCommand(filterCountsCmd, filterListCmd, filterValidateCmd, filterExportCmd)

	addOutputFlag(filterCountsCmd)
	addOutputFlag(filterListCmd)
	addOutputFlag(filterValidateCmd)
	filterValidateCmd.Flags().StringP("type", "t", string(model.PatternPath), "Pattern type: path or regex")
	filterExportCmd.Flags().StringP("output", "o", outputYAML, "Output format: yaml or json")
}

func runFilterCounts(cmd *cobra.Command, args []string) error {
	capture, err := LoadCapture(args[0], GetLogger())
	if err != nil {
		return err
	}

	filters := newFilterStore().List()
	counts := motor.ComputeFilterCounts(capture.Records, filters)

	rows := make([]FilterCount, 0, len(counts))
	for _, option := range model.BuiltInFilterOptions {
		rows = append(rows, FilterCount{ID: string(option.ID), Label: option.Label, Count: counts[string(option.ID)]})
	}
	for _, f := range filters {
		rows = append(rows, FilterCount{ID: f.ID, Label: f.Name, Count: counts[f.ID]})
	}

	return render(cmd, rows, func(w io.Writer) error {
		t := newTable("Filter", "Label", "Requests")
		for _, row := range rows {
			t.Row(row.ID, row.Label, strconv.Itoa(row.Count))
		}
		_, err := fmt.Fprintln(w, t.String())
		return err
	})
}

func runFilterList(cmd *cobra.Command, args []string) error {
	filters := newFilterStore().List()
	listing := struct {
		BuiltIn []model.FilterOption `json:"builtIn" yaml:"builtIn"`
		Custom  []model.CustomFilter `json:"custom" yaml:"custom"`
	}{model.BuiltInFilterOptions, filters}

	return render(cmd, listing, func(w io.Writer) error {
		t := newTable("ID", "Name", "Type", "Pattern", "Description")
		for _, option := range model.BuiltInFilterOptions {
			t.Row(string(option.ID), option.Icon+" "+option.Label, "built-in", "", option.Description)
		}
		for _, f := range filters {
			t.Row(f.ID, f.Icon+" "+f.Name, string(f.PatternType), f.Pattern, f.Description)
		}
		_, err := fmt.Fprintln(w, t.String())
		return err
	})
}

func runFilterValidate(cmd *cobra.Command, args []string) error {
	patternType, _ := cmd.Flags().GetString("type")
	result := motor.ValidatePattern(args[0], model.PatternType(patternType))

	err := render(cmd, result, func(w io.Writer) error {
		if result.IsValid {
			_, err := fmt.Fprintln(w, statusStyle(200).Render("✓ valid "+patternType+" pattern"))
			return err
		}
		_, err := fmt.Fprintln(w, statusStyle(500).Render("✗ "+result.Error))
		return err
	})
	if err != nil {
		return err
	}

	if !result.IsValid {
		return fmt.Errorf("%w: %s", motor.ErrInvalidPattern, result.Error)
	}
	return nil
}

func runFilterExport(cmd *cobra.Command, args []string) error {
	export := FilterExport{Filters: newFilterStore().List()}
	return render(cmd, export, func(w io.Writer) error {
		return fmt.Errorf("export supports yaml or json output")
	})
}
