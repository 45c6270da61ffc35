package motor

import (
	"testing"

	"github.com/pb33f/harview/hargen"
	"github.com/pb33f/harview/motor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var threeURLs = []string{
	"https://a.com/api/foo/1",
	"https://a.com/other",
	"https://a.com/api/foo/2",
}

func pathFilter(id, pattern string) model.CustomFilter {
	return model.CustomFilter{ID: id, Name: id, Pattern: pattern, PatternType: model.PatternPath}
}

func regexFilter(id, pattern string) model.CustomFilter {
	return model.CustomFilter{ID: id, Name: id, Pattern: pattern, PatternType: model.PatternRegex}
}

func TestMatchesFilter_BuiltIn(t *testing.T) {
	tests := []struct {
		status int
		want   map[model.BuiltInFilter]bool
	}{
		{0, map[model.BuiltInFilter]bool{model.Filter4xx: false, model.Filter5xx: false, model.FilterOtherErrors: true}},
		{101, map[model.BuiltInFilter]bool{model.Filter4xx: false, model.Filter5xx: false, model.FilterOtherErrors: true}},
		{200, map[model.BuiltInFilter]bool{model.Filter4xx: false, model.Filter5xx: false, model.FilterOtherErrors: false}},
		{304, map[model.BuiltInFilter]bool{model.Filter4xx: false, model.Filter5xx: false, model.FilterOtherErrors: true}},
		{404, map[model.BuiltInFilter]bool{model.Filter4xx: true, model.Filter5xx: false, model.FilterOtherErrors: false}},
		{599, map[model.BuiltInFilter]bool{model.Filter4xx: false, model.Filter5xx: true, model.FilterOtherErrors: false}},
		{600, map[model.BuiltInFilter]bool{model.Filter4xx: false, model.Filter5xx: false, model.FilterOtherErrors: true}},
	}

	for _, tt := range tests {
		r := rec("https://a.com/", tt.status, 0, 1)
		assert.True(t, MatchesFilter(r, model.BuiltIn(model.FilterAll)), "status %d", tt.status)
		for class, want := range tt.want {
			assert.Equal(t, want, MatchesFilter(r, model.BuiltIn(class)), "status %d class %s", tt.status, class)
		}
	}
}

func TestMatchesFilter_Custom(t *testing.T) {
	r := rec("https://a.com/API/Foo/1?x=1", 200, 0, 1)

	assert.True(t, MatchesFilter(r, model.Custom(pathFilter("p", "/api/foo/"))))
	assert.False(t, MatchesFilter(r, model.Custom(pathFilter("p", "x=1"))), "path filters ignore the query")
	assert.True(t, MatchesFilter(r, model.Custom(regexFilter("r", `x=\d$`))), "regex filters see the full url")
	assert.False(t, MatchesFilter(r, model.Custom(regexFilter("r", "(unclosed"))))
	assert.False(t, MatchesFilter(r, model.Custom(model.CustomFilter{ID: "u", Pattern: "a", PatternType: "glob"})))
}

func TestMatchesFilter_MalformedURL(t *testing.T) {
	for _, raw := range []string{"not a url", "/relative/api", "http://[::1"} {
		r := rec(raw, 200, 0, 1)
		assert.False(t, MatchesFilter(r, model.Custom(pathFilter("p", "api"))), raw)
	}
}

func TestApplyFilters_PathScenario(t *testing.T) {
	records := urlRecords(threeURLs...)
	filters := []model.CustomFilter{pathFilter("custom-foo", "/api/foo/")}

	got := ApplyFilters(records, "custom-foo", filters, "")

	assert.Equal(t, []*model.Record{records[0], records[2]}, got)
	assert.Equal(t, 2, ComputeFilterCounts(records, filters)["custom-foo"])
}

func TestApplyFilters_RegexScenario(t *testing.T) {
	records := urlRecords(threeURLs...)
	filters := []model.CustomFilter{
		regexFilter("custom-re", `^https://a\.com/api/.*$`),
		regexFilter("custom-bad", "(unclosed"),
	}

	assert.Equal(t, []*model.Record{records[0], records[2]}, ApplyFilters(records, "custom-re", filters, ""))
	assert.Empty(t, ApplyFilters(records, "custom-bad", filters, ""))

	counts := ComputeFilterCounts(records, filters)
	assert.Equal(t, 2, counts["custom-re"])
	assert.Equal(t, 0, counts["custom-bad"])

	assert.False(t, ValidatePattern("(unclosed", model.PatternRegex).IsValid)
}

func TestApplyFilters_StatusScenario(t *testing.T) {
	records := statusRecords(150, 250, 404, 500, 302, 650)

	counts := ComputeFilterCounts(records, nil)

	assert.Equal(t, 6, counts["all"])
	assert.Equal(t, 1, counts["4xx"])
	// 650 sits outside 500-599 so it is only an other error
	assert.Equal(t, 1, counts["5xx"])
	assert.Equal(t, 3, counts["other-errors"])

	others := ApplyFilters(records, "other-errors", nil, "")
	require.Len(t, others, 3)
	assert.Equal(t, 150, others[0].Status)
	assert.Equal(t, 302, others[1].Status)
	assert.Equal(t, 650, others[2].Status)
}

func TestApplyFilters_UnknownSelection(t *testing.T) {
	records := urlRecords(threeURLs...)

	got := ApplyFilters(records, "nonexistent-id", nil, "")

	assert.Equal(t, records, got)
	// fresh slice, never the caller's
	got[0] = nil
	assert.NotNil(t, records[0])
}

func TestApplyFilters_Search(t *testing.T) {
	records := urlRecords(
		"https://cdn.example.com/static/app.js",
		"https://api.example.com/v1/users?id=7",
		"https://example.com/index.html",
	)

	tests := []struct {
		term string
		want []int
	}{
		{"", []int{0, 1, 2}},
		{"   ", []int{0, 1, 2}},
		{"USERS", []int{1}},
		{"example.com", []int{0, 1, 2}},
		{"cdn.", []int{0}},
		{"id=7", []int{1}},
		{" app", []int{}},
		{"missing", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := ApplyFilters(records, "all", nil, tt.term)
			want := make([]*model.Record, 0, len(tt.want))
			for _, i := range tt.want {
				want = append(want, records[i])
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestApplyFilters_SearchAfterFilter(t *testing.T) {
	records := urlRecords(threeURLs...)
	records[2].Status = 404

	got := ApplyFilters(records, "4xx", nil, "foo")
	assert.Equal(t, []*model.Record{records[2]}, got)

	assert.Empty(t, ApplyFilters(records, "4xx", nil, "other"))
}

func TestApplyFilters_Properties(t *testing.T) {
	data, err := hargen.GenerateBytes(hargen.GenerateOptions{EntryCount: 300, Seed: 11})
	require.NoError(t, err)
	capture, err := LoadCaptureBytes(data)
	require.NoError(t, err)
	records := capture.Records

	filters := []model.CustomFilter{
		pathFilter("custom-api", "/api/"),
		pathFilter("custom-png", ".png"),
		regexFilter("custom-cdn", `^https://cdn\.`),
		regexFilter("custom-bad", "[z-a]"),
	}

	counts := ComputeFilterCounts(records, filters)

	ids := []string{"all", "4xx", "5xx", "other-errors"}
	for _, f := range filters {
		ids = append(ids, f.ID)
	}
	require.Len(t, counts, len(ids))

	for _, id := range ids {
		plain := ApplyFilters(records, id, filters, "")
		assert.Equal(t, counts[id], len(plain), "count for %s", id)

		for _, term := range []string{"a", "api", "png", "zzzz"} {
			narrowed := ApplyFilters(records, id, filters, term)
			assert.LessOrEqual(t, len(narrowed), len(plain), "%s / %s", id, term)
		}
	}

	assert.Equal(t, counts["all"], len(records))
	assert.Zero(t, counts["custom-bad"])
}

func TestApplyFilters_Idempotent(t *testing.T) {
	records := urlRecords(threeURLs...)
	filters := []model.CustomFilter{pathFilter("custom-foo", "/api/foo/")}
	snapshot := make([]model.Record, len(records))
	for i, r := range records {
		snapshot[i] = *r
	}
	filterSnapshot := append([]model.CustomFilter{}, filters...)

	first := ApplyFilters(records, "custom-foo", filters, "1")
	second := ApplyFilters(records, "custom-foo", filters, "1")
	assert.Equal(t, first, second)

	assert.Equal(t, ComputeFilterCounts(records, filters), ComputeFilterCounts(records, filters))
	for i, r := range records {
		assert.Equal(t, snapshot[i], *r)
	}
	assert.Equal(t, filterSnapshot, filters)
}

func TestComputeFilterCounts_Empty(t *testing.T) {
	filters := []model.CustomFilter{pathFilter("custom-a", "/a"), regexFilter("custom-b", "b")}

	counts := ComputeFilterCounts(nil, filters)

	assert.Equal(t, map[string]int{
		"all":          0,
		"4xx":          0,
		"5xx":          0,
		"other-errors": 0,
		"custom-a":     0,
		"custom-b":     0,
	}, counts)
}

func TestComputeFilterCounts_ShadowedIDs(t *testing.T) {
	records := urlRecords(threeURLs...)
	filters := []model.CustomFilter{
		pathFilter("custom-foo", "/api/foo/"),
		pathFilter("custom-foo", "/other"),
		pathFilter("4xx", "/"),
		regexFilter("all", "foo"),
	}

	counts := ComputeFilterCounts(records, filters)

	assert.Len(t, counts, 5)
	assert.Equal(t, 3, counts["all"])
	assert.Zero(t, counts["4xx"])
	assert.Equal(t, 2, counts["custom-foo"])

	for id, count := range counts {
		assert.Len(t, ApplyFilters(records, id, filters, ""), count, id)
	}
}

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		patternType model.PatternType
		valid       bool
		errContains string
	}{
		{"empty path", "", model.PatternPath, false, "Pattern cannot be empty"},
		{"blank regex", "  \t", model.PatternRegex, false, "Pattern cannot be empty"},
		{"path", "/api/", model.PatternPath, true, ""},
		{"path with regex chars", "(unclosed", model.PatternPath, true, ""},
		{"regex", `^https://.*\.png$`, model.PatternRegex, true, ""},
		{"bad regex", "(unclosed", model.PatternRegex, false, "missing closing )"},
		{"bad range", "[z-a]", model.PatternRegex, false, "invalid character class range"},
		{"unknown type", "x", "glob", false, `unknown pattern type "glob"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidatePattern(tt.pattern, tt.patternType)
			assert.Equal(t, tt.valid, result.IsValid)
			if tt.valid {
				assert.Empty(t, result.Error)
			} else {
				assert.Contains(t, result.Error, tt.errContains)
			}
		})
	}
}

func TestResolveSelection(t *testing.T) {
	filters := []model.CustomFilter{pathFilter("custom-a", "/a")}

	assert.Equal(t, "all", ResolveSelection("", filters))
	assert.Equal(t, "5xx", ResolveSelection("5xx", filters))
	assert.Equal(t, "custom-a", ResolveSelection("custom-a", filters))
	assert.Equal(t, "all", ResolveSelection("custom-deleted", filters))
}

func TestPatternCache(t *testing.T) {
	cache := newPatternCache(2)

	first, err := cache.get("API")
	require.NoError(t, err)
	assert.True(t, first.MatchString("https://a.com/api"), "patterns are case-insensitive")

	again, err := cache.get("API")
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, cache.size())

	_, err = cache.get("(unclosed")
	assert.Error(t, err)
	assert.Equal(t, 1, cache.size())

	_, err = cache.get("b")
	require.NoError(t, err)
	assert.Equal(t, 2, cache.size())

	// full, so the next new pattern starts a fresh cache
	_, err = cache.get("c")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.size())
}
