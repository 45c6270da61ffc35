package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectResourceType(t *testing.T) {
	tests := []struct {
		name     string
		mime     string
		url      string
		status   int
		expected ResourceType
	}{
		{"html", "text/html; charset=utf-8", "https://a.com/", 200, ResourceHTML},
		{"css", "text/css", "https://a.com/site.css", 200, ResourceCSS},
		{"javascript", "application/javascript", "https://a.com/app.js", 200, ResourceJavaScript},
		{"ecmascript", "application/ecmascript", "https://a.com/app.js", 200, ResourceJavaScript},
		{"json", "application/json", "https://a.com/api", 200, ResourceXHR},
		{"xml", "application/xml", "https://a.com/feed", 200, ResourceXHR},
		{"image", "image/png", "https://a.com/logo.png", 200, ResourceImage},
		{"font prefix", "font/woff2", "https://a.com/f.woff2", 200, ResourceFont},
		{"font woff", "application/font-woff", "https://a.com/f.woff", 200, ResourceFont},
		{"video", "video/mp4", "https://a.com/v.mp4", 206, ResourceMedia},
		{"audio", "audio/ogg", "https://a.com/a.ogg", 200, ResourceMedia},
		{"manifest url", "application/octet-stream", "https://a.com/manifest.json", 200, ResourceManifest},
		{"websocket status", "", "wss://a.com/socket", 101, ResourceWebSocket},
		{"websocket url", "", "https://a.com/websocket/connect", 200, ResourceWebSocket},
		{"fetch", "x-fetch", "https://a.com/x", 200, ResourceFetch},
		{"other", "application/octet-stream", "https://a.com/blob", 200, ResourceOther},
		{"mime case", "TEXT/HTML", "https://a.com/", 200, ResourceHTML},
		// json mime wins over a manifest url
		{"precedence", "application/json", "https://a.com/manifest.json", 200, ResourceXHR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectResourceType(tt.mime, tt.url, tt.status))
		})
	}
}

func TestTimings_Duration(t *testing.T) {
	timings := Timings{
		Blocked: 1, DNS: 2, Connect: 3, SSL: NotApplicable,
		Send: 5, Wait: 6, Receive: 7,
	}

	assert.Equal(t, 1.0, timings.Duration(PhaseBlocked))
	assert.Equal(t, 2.0, timings.Duration(PhaseDNS))
	assert.Equal(t, 3.0, timings.Duration(PhaseConnect))
	assert.Equal(t, NotApplicable, timings.Duration(PhaseSSL))
	assert.Equal(t, 5.0, timings.Duration(PhaseSend))
	assert.Equal(t, 6.0, timings.Duration(PhaseWait))
	assert.Equal(t, 7.0, timings.Duration(PhaseReceive))
	assert.Equal(t, NotApplicable, timings.Duration(Phase("bogus")))
}

func TestIsBuiltIn(t *testing.T) {
	assert.True(t, IsBuiltIn("all"))
	assert.True(t, IsBuiltIn("4xx"))
	assert.True(t, IsBuiltIn("5xx"))
	assert.True(t, IsBuiltIn("other-errors"))
	assert.False(t, IsBuiltIn("custom-123"))
	assert.False(t, IsBuiltIn(""))
}

func TestFilterVariant(t *testing.T) {
	b := BuiltIn(Filter4xx)
	assert.False(t, b.IsCustom())
	assert.Equal(t, Filter4xx, b.BuiltIn)

	cf := CustomFilter{ID: "custom-1", Pattern: "/api/", PatternType: PatternPath}
	c := Custom(cf)
	assert.True(t, c.IsCustom())
	assert.Equal(t, "custom-1", c.Custom.ID)

	// the variant holds its own copy
	cf.Pattern = "/changed/"
	assert.Equal(t, "/api/", c.Custom.Pattern)
}
