package motor

import (
	"fmt"
	"net/url"
)

// parseAbsoluteURL parses raw and rejects relative references, which a capture never contains.
func parseAbsoluteURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("url %q is not absolute", raw)
	}
	return u, nil
}

// urlPath returns the escaped path of u, "/" when empty. Opaque urls (data:, mailto:)
// report their opaque part.
func urlPath(u *url.URL) string {
	if u.Opaque != "" {
		return u.Opaque
	}
	p := u.EscapedPath()
	if p == "" {
		return "/"
	}
	return p
}

// displayName is the path plus query string, the name a request is listed under.
func displayName(u *url.URL) string {
	name := urlPath(u)
	if u.RawQuery != "" {
		name += "?" + u.RawQuery
	}
	return name
}

// recordURL parses a record url at most once, for matching against many path filters.
type recordURL struct {
	raw    string
	path   string
	err    error
	parsed bool
}

func (u *recordURL) escapedPath() (string, error) {
	if !u.parsed {
		u.parsed = true
		parsed, err := parseAbsoluteURL(u.raw)
		if err != nil {
			u.err = err
			logger().Warn("unable to parse url for path filter", "url", u.raw, "error", err)
		} else {
			u.path = urlPath(parsed)
		}
	}
	return u.path, u.err
}
