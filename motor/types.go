package motor

import (
	"time"

	"github.com/pb33f/harhar"
	"github.com/pb33f/harview/motor/model"
)

// Capture is a loaded HAR document: its records plus document level metadata.
type Capture struct {
	FilePath      string
	Size          int64
	Hash          string
	Version       string
	Creator       *harhar.Creator
	Browser       *harhar.Creator
	Records       []*model.Record
	TimeRange     TimeRange
	UniqueURLs    int
	UniqueDomains int
	BuildTime     time.Duration
}

// TimeRange spans the earliest request start to the latest request end.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Duration of the range.
func (tr TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}
