package hargen

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/tidwall/sjson"
)

const (
	creatorName    = "hargen"
	creatorVersion = "1.0.0"

	harSkeleton = `{"log":{"version":"1.2","creator":{},"pages":[],"entries":[]}}`
)

// GenerateOptions configures har generation
type GenerateOptions struct {
	EntryCount       int       // number of entries to generate
	Seed             int64     // random seed for reproducibility (0 = use time)
	StartTime        time.Time // start of the first request (zero = DefaultStartTime)
	Hosts            []string  // hosts requests are spread across
	MissingPhaseRate float64   // chance an optional timing phase is left out entirely
	DictionaryPath   string    // yaml dictionary of url words (empty = built-in words)
}

// DefaultStartTime keeps seeded output stable across runs.
var DefaultStartTime = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

// DefaultGenerateOptions provides sensible defaults
var DefaultGenerateOptions = GenerateOptions{
	EntryCount: 10,
	Hosts: []string{
		"www.example.com",
		"api.example.com",
		"cdn.example.com",
		"fonts.example.net",
		"analytics.tracker.io",
	},
	MissingPhaseRate: 0.25,
}

// GenerateResult describes a generated har file
type GenerateResult struct {
	HARFilePath  string // path to generated har file
	TotalEntries int    // number of entries generated
	Size         int64  // bytes written
}

// Generate writes a synthetic har to a temp file
func Generate(opts GenerateOptions) (*GenerateResult, error) {
	tmpFile, err := os.CreateTemp("", "hargen-*.har")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmpFile.Name()
	tmpFile.Close()

	result, err := GenerateToFile(path, opts)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	return result, nil
}

// GenerateToFile writes a synthetic har to path
func GenerateToFile(path string, opts GenerateOptions) (*GenerateResult, error) {
	data, err := GenerateBytes(opts)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write har: %w", err)
	}

	return &GenerateResult{
		HARFilePath:  path,
		TotalEntries: opts.EntryCount,
		Size:         int64(len(data)),
	}, nil
}

// GenerateBytes creates a har document in memory. A zero EntryCount is honored
// and yields a har with an empty entries array.
func GenerateBytes(opts GenerateOptions) ([]byte, error) {
	opts = withDefaults(opts)

	// local rng, never the global one
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	dict, err := LoadDictionary(opts.DictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}

	entryGen := NewEntryGenerator(dict, rng, opts.Hosts, opts.MissingPhaseRate, opts.StartTime)

	var entries bytes.Buffer
	entries.WriteByte('[')
	for i := 0; i < opts.EntryCount; i++ {
		entry, err := entryGen.GenerateEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to generate entry %d: %w", i, err)
		}
		if i > 0 {
			entries.WriteByte(',')
		}
		entries.Write(entry)
	}
	entries.WriteByte(']')

	doc := []byte(harSkeleton)
	if doc, err = sjson.SetBytes(doc, "log.creator.name", creatorName); err != nil {
		return nil, err
	}
	if doc, err = sjson.SetBytes(doc, "log.creator.version", creatorVersion); err != nil {
		return nil, err
	}
	if doc, err = sjson.SetRawBytes(doc, "log.entries", entries.Bytes()); err != nil {
		return nil, err
	}

	return doc, nil
}

func withDefaults(opts GenerateOptions) GenerateOptions {
	if opts.StartTime.IsZero() {
		opts.StartTime = DefaultStartTime
	}
	if len(opts.Hosts) == 0 {
		opts.Hosts = DefaultGenerateOptions.Hosts
	}
	if opts.MissingPhaseRate < 0 {
		opts.MissingPhaseRate = 0
	}
	if opts.MissingPhaseRate > 1 {
		opts.MissingPhaseRate = 1
	}
	return opts
}
