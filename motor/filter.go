package motor

import (
	"regexp"
	"strings"

	"github.com/pb33f/harview/motor/model"
)

const emptyPatternMessage = "Pattern cannot be empty"

// ValidationResult reports whether a filter pattern can be saved.
type ValidationResult struct {
	IsValid bool   `json:"isValid" yaml:"isValid"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// MatchesFilter reports whether a single record passes a built-in or custom filter.
// Bad urls and bad patterns never match; they are logged, not returned.
func MatchesFilter(record *model.Record, filter model.Filter) bool {
	if filter.IsCustom() {
		cp := compileFilter(filter.Custom)
		return cp.matches(&recordURL{raw: record.URL})
	}
	return matchesBuiltIn(record.Status, filter.BuiltIn)
}

func matchesBuiltIn(status int, class model.BuiltInFilter) bool {
	switch class {
	case model.Filter4xx:
		return is4xx(status)
	case model.Filter5xx:
		return is5xx(status)
	case model.FilterOtherErrors:
		return isOtherError(status)
	default:
		return true
	}
}

func is4xx(status int) bool {
	return status >= 400 && status < 500
}

func is5xx(status int) bool {
	return status >= 500 && status < 600
}

// 1xx lands here and in no other class.
func isOtherError(status int) bool {
	return status < 200 || (status >= 300 && status < 400) || status >= 600
}

// ApplyFilters narrows records to the selected filter and then to the search term.
// An unknown selection leaves the records unfiltered. Order is preserved and the
// returned slice is always freshly allocated.
func ApplyFilters(records []*model.Record, selection string, customFilters []model.CustomFilter, searchTerm string) []*model.Record {
	var keep func(*model.Record) bool

	switch {
	case selection == string(model.FilterAll):
	case model.IsBuiltIn(selection):
		class := model.BuiltInFilter(selection)
		keep = func(r *model.Record) bool {
			return matchesBuiltIn(r.Status, class)
		}
	default:
		if cf := findCustomFilter(customFilters, selection); cf != nil {
			cp := compileFilter(cf)
			keep = func(r *model.Record) bool {
				return cp.matches(&recordURL{raw: r.URL})
			}
		}
	}

	filtered := make([]*model.Record, 0, len(records))
	for _, r := range records {
		if keep == nil || keep(r) {
			filtered = append(filtered, r)
		}
	}

	if strings.TrimSpace(searchTerm) == "" {
		return filtered
	}

	term := strings.ToLower(searchTerm)
	searched := filtered[:0:0]
	for _, r := range filtered {
		if strings.Contains(strings.ToLower(r.DisplayName), term) ||
			strings.Contains(strings.ToLower(r.URL), term) {
			searched = append(searched, r)
		}
	}
	return searched
}

// ComputeFilterCounts counts matches for every built-in and custom filter in a single
// traversal of records. Every known filter id is present in the result, zero or not.
func ComputeFilterCounts(records []*model.Record, customFilters []model.CustomFilter) map[string]int {
	counts := make(map[string]int, len(model.BuiltInFilters)+len(customFilters))
	counts[string(model.FilterAll)] = len(records)
	counts[string(model.Filter4xx)] = 0
	counts[string(model.Filter5xx)] = 0
	counts[string(model.FilterOtherErrors)] = 0

	// a custom id shadowed by a built-in or an earlier filter is never selectable,
	// so it must not add to that counter either
	compiled := make([]compiledFilter, 0, len(customFilters))
	for i := range customFilters {
		if _, taken := counts[customFilters[i].ID]; taken {
			continue
		}
		counts[customFilters[i].ID] = 0
		compiled = append(compiled, compileFilter(&customFilters[i]))
	}

	for _, r := range records {
		if is4xx(r.Status) {
			counts[string(model.Filter4xx)]++
		}
		if is5xx(r.Status) {
			counts[string(model.Filter5xx)]++
		}
		if isOtherError(r.Status) {
			counts[string(model.FilterOtherErrors)]++
		}

		u := recordURL{raw: r.URL}
		for i := range compiled {
			if compiled[i].matches(&u) {
				counts[compiled[i].id]++
			}
		}
	}

	return counts
}

// ValidatePattern checks a pattern before a custom filter is saved. Regex compile
// errors are surfaced verbatim.
func ValidatePattern(pattern string, patternType model.PatternType) ValidationResult {
	if strings.TrimSpace(pattern) == "" {
		return ValidationResult{IsValid: false, Error: emptyPatternMessage}
	}

	switch patternType {
	case model.PatternRegex:
		if _, err := regexp.Compile(pattern); err != nil {
			return ValidationResult{IsValid: false, Error: err.Error()}
		}
		return ValidationResult{IsValid: true}
	case model.PatternPath:
		return ValidationResult{IsValid: true}
	default:
		return ValidationResult{IsValid: false, Error: "unknown pattern type \"" + string(patternType) + "\""}
	}
}

// ResolveSelection returns selection, or "all" when it names a custom filter that
// no longer exists. Callers use it to reset an active selection after a delete.
func ResolveSelection(selection string, customFilters []model.CustomFilter) string {
	if selection == "" {
		return string(model.FilterAll)
	}
	if model.IsBuiltIn(selection) || findCustomFilter(customFilters, selection) != nil {
		return selection
	}
	return string(model.FilterAll)
}

func findCustomFilter(filters []model.CustomFilter, id string) *model.CustomFilter {
	for i := range filters {
		if filters[i].ID == id {
			return &filters[i]
		}
	}
	return nil
}
