package hargen

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// api resource nouns, always served under /api/ so path filters have something to find.
// "example" lines up with the default custom filter on /api/example/.
var defaultResources = []string{
	"users", "orders", "products", "sessions", "search", "carts",
	"payments", "inventory", "reviews", "notifications", "example",
	"auth", "graphql", "metrics", "settings",
}

// directories static assets are spread across
var defaultAssetDirs = []string{
	"static", "assets", "img", "fonts", "js", "css", "vendor",
	"bundles", "media", "icons", "build",
}

// base names of static files, the extension comes from the resource kind
var defaultAssetNames = []string{
	"app", "main", "runtime", "vendor", "chunk", "logo", "hero",
	"sprite", "favicon", "inter", "roboto", "theme", "intro",
}

// Dictionary holds the words generated urls are built from.
type Dictionary struct {
	Resources  []string `yaml:"resources"`
	AssetDirs  []string `yaml:"assetDirs"`
	AssetNames []string `yaml:"assetNames"`
}

// DefaultDictionary returns the built-in words.
func DefaultDictionary() *Dictionary {
	return &Dictionary{
		Resources:  defaultResources,
		AssetDirs:  defaultAssetDirs,
		AssetNames: defaultAssetNames,
	}
}

// LoadDictionary reads a yaml dictionary with resources, assetDirs and assetNames
// lists. Lists left out of the file keep the built-in words; an empty path
// selects the built-in dictionary.
func LoadDictionary(path string) (*Dictionary, error) {
	dict := DefaultDictionary()
	if path == "" {
		return dict, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}

	var loaded Dictionary
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %w", err)
	}

	sections := []struct {
		name   string
		words  []string
		target *[]string
	}{
		{"resources", loaded.Resources, &dict.Resources},
		{"assetDirs", loaded.AssetDirs, &dict.AssetDirs},
		{"assetNames", loaded.AssetNames, &dict.AssetNames},
	}

	replaced := 0
	for _, s := range sections {
		if s.words == nil {
			continue
		}
		words := pathSegments(s.words)
		if len(words) == 0 {
			return nil, fmt.Errorf("dictionary %s has no usable words", s.name)
		}
		*s.target = words
		replaced++
	}

	if replaced == 0 {
		return nil, fmt.Errorf("dictionary %s sets none of resources, assetDirs or assetNames", path)
	}

	return dict, nil
}

// pathSegments keeps lowercased words that can sit in a url path unescaped
func pathSegments(words []string) []string {
	var kept []string
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if len(w) >= 2 && len(w) <= 24 && isSegment(w) {
			kept = append(kept, w)
		}
	}
	return kept
}

func isSegment(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

// Resource picks an api resource noun
func (d *Dictionary) Resource(rng *rand.Rand) string {
	return pick(d.Resources, rng, "items")
}

// AssetPath builds a static file path of 1-3 directories and a base name, without extension
func (d *Dictionary) AssetPath(rng *rand.Rand) string {
	dirs := make([]string, rng.Intn(3)+1)
	for i := range dirs {
		dirs[i] = pick(d.AssetDirs, rng, "static")
	}
	return "/" + strings.Join(dirs, "/") + "/" + pick(d.AssetNames, rng, "file")
}

func pick(words []string, rng *rand.Rand, fallback string) string {
	if len(words) == 0 {
		return fallback
	}
	return words[rng.Intn(len(words))]
}
