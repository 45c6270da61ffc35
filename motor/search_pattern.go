package motor

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/pb33f/harview/motor/model"
)

const maxCachedPatterns = 256

// compiledFilter holds a custom filter prepared for repeated matching
type compiledFilter struct {
	id      string
	kind    model.PatternType
	needle  string // lowercased path pattern
	regex   *regexp.Regexp
	invalid bool // unusable pattern, matches nothing
}

// compileFilter compiles a custom filter once (not per record!)
func compileFilter(cf *model.CustomFilter) compiledFilter {
	cp := compiledFilter{
		id:   cf.ID,
		kind: cf.PatternType,
	}

	var err error
	switch cf.PatternType {
	case model.PatternPath:
		cp.needle = strings.ToLower(cf.Pattern)
	case model.PatternRegex:
		cp.regex, err = patterns.get(cf.Pattern)
		if err != nil {
			err = fmt.Errorf("invalid regex pattern: %w", err)
		}
	default:
		err = fmt.Errorf("unknown pattern type %q", cf.PatternType)
	}

	if err != nil {
		cp.invalid = true
		logger().Warn("filter pattern error", "filter", cf.Name, "id", cf.ID, "error", err)
	}

	return cp
}

// matches checks a record url against the compiled filter
func (cp *compiledFilter) matches(u *recordURL) bool {
	if cp.invalid {
		return false
	}

	if cp.kind == model.PatternRegex {
		return cp.regex.MatchString(u.raw)
	}

	path, err := u.escapedPath()
	if err != nil {
		return false
	}
	// plain text: use strings.contains (faster than regex)
	return strings.Contains(strings.ToLower(path), cp.needle)
}

// patternCache memoises case-insensitive regexps keyed by a hash of the pattern.
// entries keep the source pattern so a hash collision is never served.
type patternCache struct {
	mu      sync.RWMutex
	entries map[uint64]cachedPattern
	max     int
}

type cachedPattern struct {
	pattern string
	regex   *regexp.Regexp
}

var patterns = newPatternCache(maxCachedPatterns)

func newPatternCache(max int) *patternCache {
	return &patternCache{
		entries: make(map[uint64]cachedPattern),
		max:     max,
	}
}

func (c *patternCache) get(pattern string) (*regexp.Regexp, error) {
	key := xxhash.Sum64String(pattern)

	c.mu.RLock()
	hit, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && hit.pattern == pattern {
		return hit.regex, nil
	}

	regex, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.max {
		c.entries = make(map[uint64]cachedPattern)
	}
	c.entries[key] = cachedPattern{pattern: pattern, regex: regex}

	return regex, nil
}

func (c *patternCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
