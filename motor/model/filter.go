package model

// BuiltInFilter is one of the non-editable status class filters.
type BuiltInFilter string

const (
	FilterAll         BuiltInFilter = "all"
	Filter4xx         BuiltInFilter = "4xx"
	Filter5xx         BuiltInFilter = "5xx"
	FilterOtherErrors BuiltInFilter = "other-errors"
)

// BuiltInFilters lists the built-in filters in badge order.
var BuiltInFilters = []BuiltInFilter{
	FilterAll,
	Filter4xx,
	Filter5xx,
	FilterOtherErrors,
}

// IsBuiltIn reports whether id names a built-in filter.
func IsBuiltIn(id string) bool {
	for _, b := range BuiltInFilters {
		if string(b) == id {
			return true
		}
	}
	return false
}

// FilterOption describes a built-in filter for display.
type FilterOption struct {
	ID          BuiltInFilter `json:"id" yaml:"id"`
	Label       string        `json:"label" yaml:"label"`
	Description string        `json:"description" yaml:"description"`
	Icon        string        `json:"icon" yaml:"icon"`
}

// BuiltInFilterOptions carries the display metadata of every built-in filter.
var BuiltInFilterOptions = []FilterOption{
	{ID: FilterAll, Label: "All Requests", Description: "Show all network requests", Icon: "📋"},
	{ID: Filter4xx, Label: "4xx Errors", Description: "Client errors (400-499)", Icon: "⚠️"},
	{ID: Filter5xx, Label: "5xx Errors", Description: "Server errors (500-599)", Icon: "❌"},
	{ID: FilterOtherErrors, Label: "Other Errors", Description: "Other failed requests", Icon: "🔴"},
}

// PatternType selects how a custom filter pattern is interpreted.
type PatternType string

const (
	// PatternPath matches a case-insensitive substring of the url path.
	PatternPath PatternType = "path"
	// PatternRegex matches a case-insensitive regular expression against the full url.
	PatternRegex PatternType = "regex"
)

// CustomFilter is a user authored url matching rule.
type CustomFilter struct {
	ID          string      `json:"id" yaml:"id" mapstructure:"id"`
	Name        string      `json:"name" yaml:"name" mapstructure:"name"`
	Pattern     string      `json:"pattern" yaml:"pattern" mapstructure:"pattern"`
	PatternType PatternType `json:"patternType" yaml:"patternType" mapstructure:"patternType"`
	Icon        string      `json:"icon" yaml:"icon" mapstructure:"icon"`
	Description string      `json:"description" yaml:"description" mapstructure:"description"`
	CreatedAt   int64       `json:"createdAt" yaml:"createdAt" mapstructure:"createdAt"`
}

// Filter is either a built-in class or a custom filter. A non-nil Custom wins.
type Filter struct {
	BuiltIn BuiltInFilter
	Custom  *CustomFilter
}

// BuiltIn wraps a built-in class as a Filter.
func BuiltIn(b BuiltInFilter) Filter {
	return Filter{BuiltIn: b}
}

// Custom wraps a custom filter as a Filter.
func Custom(cf CustomFilter) Filter {
	return Filter{Custom: &cf}
}

// IsCustom reports whether the filter carries a custom rule.
func (f Filter) IsCustom() bool {
	return f.Custom != nil
}
