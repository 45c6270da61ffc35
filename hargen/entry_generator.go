package hargen

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pb33f/harhar"
	"github.com/tidwall/sjson"
)

const startedLayout = "2006-01-02T15:04:05.000Z07:00"

// resourceKind shapes the url, mime type and size of a generated entry
type resourceKind struct {
	mimeType string
	ext      string
	minSize  int
	maxSize  int
	api      bool
}

var resourceKinds = []resourceKind{
	{mimeType: "text/html; charset=utf-8", ext: ".html", minSize: 2_000, maxSize: 60_000},
	{mimeType: "text/css", ext: ".css", minSize: 500, maxSize: 40_000},
	{mimeType: "application/javascript", ext: ".js", minSize: 1_000, maxSize: 400_000},
	{mimeType: "application/javascript", ext: ".js", minSize: 1_000, maxSize: 400_000},
	{mimeType: "image/png", ext: ".png", minSize: 200, maxSize: 250_000},
	{mimeType: "image/svg+xml", ext: ".svg", minSize: 200, maxSize: 8_000},
	{mimeType: "font/woff2", ext: ".woff2", minSize: 10_000, maxSize: 90_000},
	{mimeType: "video/mp4", ext: ".mp4", minSize: 100_000, maxSize: 2_000_000},
	{mimeType: "application/json", minSize: 20, maxSize: 20_000, api: true},
	{mimeType: "application/json", minSize: 20, maxSize: 20_000, api: true},
	{mimeType: "application/json", minSize: 20, maxSize: 20_000, api: true},
}

var queryKeys = []string{"page", "limit", "offset", "sort", "q", "include"}

// weighted towards success, with every class a filter can pick out
var statuses = []int{
	200, 200, 200, 200, 200, 200, 200, 200, 200, 200,
	201, 204, 206,
	301, 302, 304, 304,
	101,
	400, 401, 403, 404, 404, 429,
	500, 502, 503,
	0, 600,
}

// EntryGenerator creates synthetic har entries, each starting a little after the last
type EntryGenerator struct {
	dict             *Dictionary
	rng              *rand.Rand
	hosts            []string
	missingPhaseRate float64
	clock            time.Time
}

// NewEntryGenerator creates a new entry generator
func NewEntryGenerator(dict *Dictionary, rng *rand.Rand, hosts []string, missingPhaseRate float64, start time.Time) *EntryGenerator {
	return &EntryGenerator{
		dict:             dict,
		rng:              rng,
		hosts:            hosts,
		missingPhaseRate: missingPhaseRate,
		clock:            start,
	}
}

// GenerateEntry returns the json of the next entry. Its time is always the sum of
// the timing phases it reports.
func (eg *EntryGenerator) GenerateEntry() ([]byte, error) {
	kind := resourceKinds[eg.rng.Intn(len(resourceKinds))]
	status := statuses[eg.rng.Intn(len(statuses))]
	secure := eg.rng.Float64() < 0.85
	host, rawURL := eg.generateURL(kind, secure)

	timings, total, err := eg.generateTimings(secure)
	if err != nil {
		return nil, err
	}

	entry := harhar.Entry{
		Start:    eg.clock.Format(startedLayout),
		Time:     total,
		Request:  eg.generateRequest(kind, host, rawURL),
		Response: eg.generateResponse(kind, status),
		ServerIP: eg.generateIP(),
	}

	// requests overlap; the next one starts before most finish
	eg.clock = eg.clock.Add(time.Duration(eg.rng.Intn(120)) * time.Millisecond)

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}

	if data, err = sjson.SetRawBytes(data, "timings", timings); err != nil {
		return nil, err
	}

	if eg.rng.Float64() < 0.5 {
		saved := int64(entry.Response.Body.Size) / int64(eg.rng.Intn(4)+2)
		if data, err = sjson.SetBytes(data, "response.content.compression", saved); err != nil {
			return nil, err
		}
	}

	return data, nil
}

// generateTimings builds the timings object. Optional phases are either dropped,
// reported as -1 (reused connection), or given a duration.
func (eg *EntryGenerator) generateTimings(secure bool) ([]byte, float64, error) {
	timings := []byte(`{}`)
	total := 0.0
	reused := eg.rng.Float64() < 0.4

	set := func(phase string, value float64) error {
		var err error
		timings, err = sjson.SetBytes(timings, phase, value)
		if value >= 0 {
			total += value
		}
		return err
	}

	optional := []struct {
		phase string
		max   float64
		skip  bool
	}{
		{phase: "blocked", max: 40},
		{phase: "dns", max: 60, skip: reused},
		{phase: "connect", max: 120, skip: reused},
		{phase: "ssl", max: 90, skip: reused || !secure},
	}

	for _, p := range optional {
		if eg.rng.Float64() < eg.missingPhaseRate {
			continue
		}
		value := -1.0
		if !p.skip {
			value = eg.duration(0, p.max)
		}
		if err := set(p.phase, value); err != nil {
			return nil, 0, err
		}
	}

	if err := set("send", eg.duration(0, 3)); err != nil {
		return nil, 0, err
	}
	if err := set("wait", eg.duration(5, 600)); err != nil {
		return nil, 0, err
	}
	if err := set("receive", eg.duration(0, 250)); err != nil {
		return nil, 0, err
	}

	return timings, total, nil
}

// duration picks a value in [min, max) rounded to microseconds
func (eg *EntryGenerator) duration(min, max float64) float64 {
	v := min + eg.rng.Float64()*(max-min)
	return math.Round(v*1000) / 1000
}

func (eg *EntryGenerator) generateRequest(kind resourceKind, host, rawURL string) harhar.Request {
	method := "GET"
	if kind.api {
		methods := []string{"GET", "GET", "POST", "PUT", "DELETE", "PATCH"}
		method = methods[eg.rng.Intn(len(methods))]
	}

	return harhar.Request{
		Method:      method,
		URL:         rawURL,
		HTTPVersion: "HTTP/2",
		Headers: []harhar.NameValuePair{
			{Name: "Host", Value: host},
			{Name: "User-Agent", Value: "hargen/" + creatorVersion},
			{Name: "Accept", Value: kind.mimeType},
		},
		QueryParams: eg.queryParams(rawURL),
		Cookies:     []harhar.Cookie{},
		HeadersSize: -1,
		BodySize:    0,
	}
}

func (eg *EntryGenerator) generateResponse(kind resourceKind, status int) harhar.Response {
	size := kind.minSize + eg.rng.Intn(kind.maxSize-kind.minSize+1)
	mimeType := kind.mimeType
	if status == 0 || status == http.StatusNoContent || status == http.StatusNotModified {
		size = 0
	}
	if status == 0 {
		mimeType = ""
	}

	return harhar.Response{
		StatusCode:  status,
		StatusText:  http.StatusText(status),
		HTTPVersion: "HTTP/2",
		Headers: []harhar.NameValuePair{
			{Name: "Content-Type", Value: mimeType},
			{Name: "Content-Length", Value: strconv.Itoa(size)},
			{Name: "Cache-Control", Value: "max-age=3600"},
		},
		Cookies: []harhar.Cookie{},
		Body: harhar.BodyResponseType{
			Size:     size,
			MIMEType: mimeType,
		},
		HeadersSize: -1,
		BodySize:    size,
	}
}

func (eg *EntryGenerator) generateURL(kind resourceKind, secure bool) (string, string) {
	scheme := "https"
	if !secure {
		scheme = "http"
	}
	host := eg.hosts[eg.rng.Intn(len(eg.hosts))]

	var path string
	if kind.api {
		// half the api is versioned, the rest sits directly under /api/
		path = "/api/"
		if eg.rng.Float64() < 0.5 {
			path += fmt.Sprintf("v%d/", eg.rng.Intn(2)+1)
		}
		path += fmt.Sprintf("%s/%d", eg.dict.Resource(eg.rng), eg.rng.Intn(10000))
		if eg.rng.Float64() < 0.4 {
			key := queryKeys[eg.rng.Intn(len(queryKeys))]
			path += fmt.Sprintf("?%s=%d", key, eg.rng.Intn(100))
		}
	} else {
		path = eg.dict.AssetPath(eg.rng) + kind.ext
	}

	return host, scheme + "://" + host + path
}

func (eg *EntryGenerator) queryParams(rawURL string) []harhar.NameValuePair {
	params := []harhar.NameValuePair{}
	i := strings.IndexByte(rawURL, '?')
	if i < 0 {
		return params
	}
	for _, pair := range strings.Split(rawURL[i+1:], "&") {
		name, value, _ := strings.Cut(pair, "=")
		params = append(params, harhar.NameValuePair{Name: name, Value: value})
	}
	return params
}

func (eg *EntryGenerator) generateIP() string {
	return fmt.Sprintf("%d.%d.%d.%d",
		eg.rng.Intn(256), eg.rng.Intn(256), eg.rng.Intn(256), eg.rng.Intn(256))
}
