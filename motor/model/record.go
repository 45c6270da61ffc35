package model

import "time"

// NotApplicable marks a timing phase that was absent or unknown in the capture.
const NotApplicable = -1.0

// Phase names one step of a request round trip.
type Phase string

const (
	PhaseBlocked Phase = "blocked"
	PhaseDNS     Phase = "dns"
	PhaseConnect Phase = "connect"
	PhaseSSL     Phase = "ssl"
	PhaseSend    Phase = "send"
	PhaseWait    Phase = "wait"
	PhaseReceive Phase = "receive"
)

// PhaseOrder is the order phases are laid out in a waterfall bar.
var PhaseOrder = []Phase{
	PhaseBlocked,
	PhaseDNS,
	PhaseConnect,
	PhaseSSL,
	PhaseSend,
	PhaseWait,
	PhaseReceive,
}

// Timings holds the per-phase durations of a request, in milliseconds.
// Any phase may hold NotApplicable (or another negative value) when unknown.
type Timings struct {
	Blocked float64 `json:"blocked" yaml:"blocked"`
	DNS     float64 `json:"dns" yaml:"dns"`
	Connect float64 `json:"connect" yaml:"connect"`
	SSL     float64 `json:"ssl" yaml:"ssl"`
	Send    float64 `json:"send" yaml:"send"`
	Wait    float64 `json:"wait" yaml:"wait"`
	Receive float64 `json:"receive" yaml:"receive"`
}

// Duration returns the raw value recorded for a phase.
func (t Timings) Duration(p Phase) float64 {
	switch p {
	case PhaseBlocked:
		return t.Blocked
	case PhaseDNS:
		return t.DNS
	case PhaseConnect:
		return t.Connect
	case PhaseSSL:
		return t.SSL
	case PhaseSend:
		return t.Send
	case PhaseWait:
		return t.Wait
	case PhaseReceive:
		return t.Receive
	default:
		return NotApplicable
	}
}

// Record is one captured HTTP exchange, annotated at load time.
type Record struct {
	// Index is the position of the entry in the capture, assigned once at load time.
	Index int `json:"index" yaml:"index"`

	// StartedDateTime is the raw ISO 8601 start of the request.
	StartedDateTime string `json:"startedDateTime" yaml:"startedDateTime"`

	// Started is StartedDateTime parsed.
	Started time.Time `json:"-" yaml:"-"`

	// Time is the total elapsed time in milliseconds.
	Time float64 `json:"time" yaml:"time"`

	URL        string `json:"url" yaml:"url"`
	Method     string `json:"method" yaml:"method"`
	Status     int    `json:"status" yaml:"status"`
	StatusText string `json:"statusText,omitempty" yaml:"statusText,omitempty"`

	MimeType    string `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
	ContentSize int64  `json:"contentSize" yaml:"contentSize"`
	Compression int64  `json:"compression,omitempty" yaml:"compression,omitempty"`

	Timings Timings `json:"timings" yaml:"timings"`

	// Domain is the hostname of URL, empty when URL could not be parsed.
	Domain string `json:"domain" yaml:"domain"`

	// DisplayName is the escaped path plus query string of URL.
	DisplayName string `json:"displayName" yaml:"displayName"`

	ResourceType ResourceType `json:"resourceType" yaml:"resourceType"`
}

// StartMillis returns the start of the record as milliseconds since the unix epoch.
// Whole milliseconds are exact; only the sub-millisecond part is fractional.
func (r *Record) StartMillis() float64 {
	sub := r.Started.Nanosecond() % int(time.Millisecond)
	return float64(r.Started.UnixMilli()) + float64(sub)/float64(time.Millisecond)
}
