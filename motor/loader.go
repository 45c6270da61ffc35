package motor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pb33f/harhar"
	"github.com/pb33f/harview/motor/model"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	keyLog      = "log"
	keyVersion  = "version"
	keyCreator  = "creator"
	keyBrowser  = "browser"
	keyEntries  = "entries"
	keyRequest  = "request"
	keyResponse = "response"
	keyTimings  = "timings"

	pathCompression = "response.content.compression"

	// only the first few entries are checked for required sections
	validatedEntrySample = 5
)

var (
	// ErrInvalidCapture wraps every structural problem found in a HAR document.
	ErrInvalidCapture = errors.New("invalid HAR file")

	// ErrEmptyCapture is returned for a well formed HAR document without entries.
	ErrEmptyCapture = errors.New("HAR file is empty: no entries found")
)

var startedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
}

// LoadCaptureFile reads and loads a HAR file from disk.
func LoadCaptureFile(path string) (*Capture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read har file: %w", err)
	}

	capture, err := LoadCaptureBytes(data)
	if err != nil {
		return nil, err
	}
	capture.FilePath = path
	return capture, nil
}

// LoadCapture reads a HAR document from r and loads it.
func LoadCapture(r io.Reader) (*Capture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read har file: %w", err)
	}
	return LoadCaptureBytes(data)
}

// LoadCaptureBytes validates a HAR document and converts every entry into an
// annotated record, indexed in capture order.
func LoadCaptureBytes(data []byte) (*Capture, error) {
	startTime := time.Now()

	if err := ValidateCapture(data); err != nil {
		return nil, err
	}

	log := gjson.GetBytes(data, keyLog)
	capture := &Capture{
		Size:    int64(len(data)),
		Hash:    fmt.Sprintf("%016x", xxhash.Sum64(data)),
		Version: log.Get(keyVersion).String(),
	}

	var err error
	if capture.Creator, err = decodeCreator(log.Get(keyCreator)); err != nil {
		return nil, fmt.Errorf("failed to parse creator: %w", err)
	}
	if capture.Browser, err = decodeCreator(log.Get(keyBrowser)); err != nil {
		return nil, fmt.Errorf("failed to parse browser: %w", err)
	}

	entries := log.Get(keyEntries).Array()
	capture.Records = make([]*model.Record, 0, len(entries))

	urls := make(map[string]struct{}, len(entries))
	domains := make(map[string]struct{})

	for i, raw := range entries {
		record, err := decodeRecord(i, raw)
		if err != nil {
			return nil, err
		}
		capture.Records = append(capture.Records, record)

		urls[record.URL] = struct{}{}
		if record.Domain != "" {
			domains[record.Domain] = struct{}{}
		}

		end := record.Started.Add(time.Duration(record.Time * float64(time.Millisecond)))
		if i == 0 || record.Started.Before(capture.TimeRange.Start) {
			capture.TimeRange.Start = record.Started
		}
		if i == 0 || end.After(capture.TimeRange.End) {
			capture.TimeRange.End = end
		}
	}

	capture.UniqueURLs = len(urls)
	capture.UniqueDomains = len(domains)
	capture.BuildTime = time.Since(startTime)

	return capture, nil
}

// ValidateCapture checks the structural shape of a HAR document: a log object with a
// non-empty entries array, whose first entries carry request, response and timings.
func ValidateCapture(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: not valid JSON", ErrInvalidCapture)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return fmt.Errorf("%w: not a valid JSON object", ErrInvalidCapture)
	}

	log := root.Get(keyLog)
	if !log.IsObject() {
		return fmt.Errorf("%w: missing \"log\" property", ErrInvalidCapture)
	}

	entries := log.Get(keyEntries)
	if !entries.IsArray() {
		return fmt.Errorf("%w: missing or invalid \"entries\" array", ErrInvalidCapture)
	}

	all := entries.Array()
	if len(all) == 0 {
		return ErrEmptyCapture
	}

	for i := 0; i < len(all) && i < validatedEntrySample; i++ {
		entry := all[i]
		if !entry.Get(keyRequest).IsObject() ||
			!entry.Get(keyResponse).IsObject() ||
			!entry.Get(keyTimings).IsObject() {
			return fmt.Errorf("%w: entry %d is missing required fields", ErrInvalidCapture, i)
		}
	}

	return nil
}

func decodeCreator(value gjson.Result) (*harhar.Creator, error) {
	if !value.IsObject() {
		return nil, nil
	}
	var creator harhar.Creator
	if err := json.Unmarshal([]byte(value.Raw), &creator); err != nil {
		return nil, err
	}
	return &creator, nil
}

func decodeRecord(index int, raw gjson.Result) (*model.Record, error) {
	// timings are decoded on their own, phases may be missing or not numbers
	stripped, err := sjson.DeleteBytes([]byte(raw.Raw), keyTimings)
	if err != nil {
		return nil, fmt.Errorf("failed to parse entry %d: %w", index, err)
	}

	var entry harhar.Entry
	if err := json.Unmarshal(stripped, &entry); err != nil {
		return nil, fmt.Errorf("failed to parse entry %d: %w", index, err)
	}

	started, err := parseStarted(entry.Start)
	if err != nil {
		return nil, fmt.Errorf("%w: entry %d has invalid startedDateTime %q", ErrInvalidCapture, index, entry.Start)
	}

	record := &model.Record{
		Index:           index,
		StartedDateTime: entry.Start,
		Started:         started,
		Time:            entry.Time,
		URL:             entry.Request.URL,
		Method:          entry.Request.Method,
		Status:          entry.Response.StatusCode,
		StatusText:      entry.Response.StatusText,
		MimeType:        entry.Response.Body.MIMEType,
		ContentSize:     int64(entry.Response.Body.Size),
		Compression:     raw.Get(pathCompression).Int(),
		Timings:         decodeTimings(raw.Get(keyTimings)),
	}

	if u, err := parseAbsoluteURL(record.URL); err != nil {
		logger().Warn("unable to resolve domain for entry", "index", index, "url", record.URL, "error", err)
		record.DisplayName = record.URL
		if record.DisplayName == "" {
			record.DisplayName = "/"
		}
	} else {
		record.Domain = u.Hostname()
		record.DisplayName = displayName(u)
	}

	record.ResourceType = model.DetectResourceType(record.MimeType, record.URL, record.Status)

	return record, nil
}

// decodeTimings reads phases straight from the json so a missing phase can be told
// apart from a zero one.
func decodeTimings(timings gjson.Result) model.Timings {
	phase := func(key model.Phase) float64 {
		v := timings.Get(string(key))
		if v.Type != gjson.Number {
			return model.NotApplicable
		}
		return v.Float()
	}

	return model.Timings{
		Blocked: phase(model.PhaseBlocked),
		DNS:     phase(model.PhaseDNS),
		Connect: phase(model.PhaseConnect),
		SSL:     phase(model.PhaseSSL),
		Send:    phase(model.PhaseSend),
		Wait:    phase(model.PhaseWait),
		Receive: phase(model.PhaseReceive),
	}
}

func parseStarted(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range startedLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
