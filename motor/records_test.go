package motor

import (
	"time"

	"github.com/pb33f/harview/motor/model"
)

var testEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// rec builds a record starting offsetMs after testEpoch.
func rec(url string, status int, offsetMs, total float64) *model.Record {
	r := &model.Record{
		URL:     url,
		Method:  "GET",
		Status:  status,
		Started: testEpoch.Add(time.Duration(offsetMs * float64(time.Millisecond))),
		Time:    total,
		Timings: model.Timings{
			Blocked: model.NotApplicable,
			DNS:     model.NotApplicable,
			Connect: model.NotApplicable,
			SSL:     model.NotApplicable,
			Send:    0,
			Wait:    total,
			Receive: 0,
		},
	}
	r.StartedDateTime = r.Started.Format(time.RFC3339Nano)
	if u, err := parseAbsoluteURL(url); err == nil {
		r.Domain = u.Hostname()
		r.DisplayName = displayName(u)
	} else {
		r.DisplayName = url
	}
	return r
}

func urlRecords(urls ...string) []*model.Record {
	records := make([]*model.Record, len(urls))
	for i, u := range urls {
		records[i] = rec(u, 200, float64(i*10), 50)
		records[i].Index = i
	}
	return records
}

func statusRecords(statuses ...int) []*model.Record {
	records := make([]*model.Record, len(statuses))
	for i, s := range statuses {
		records[i] = rec("https://example.com/r", s, float64(i), 10)
		records[i].Index = i
	}
	return records
}
