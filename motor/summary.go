package motor

import (
	"sort"

	"github.com/pb33f/harview/motor/model"
)

// PhaseTotals sums each timing phase across records, in milliseconds.
type PhaseTotals struct {
	Blocked float64 `json:"blocked" yaml:"blocked"`
	DNS     float64 `json:"dns" yaml:"dns"`
	Connect float64 `json:"connect" yaml:"connect"`
	SSL     float64 `json:"ssl" yaml:"ssl"`
	Send    float64 `json:"send" yaml:"send"`
	Wait    float64 `json:"wait" yaml:"wait"`
	Receive float64 `json:"receive" yaml:"receive"`
}

// Summary aggregates a set of records.
type Summary struct {
	TotalRequests       int                        `json:"totalRequests" yaml:"totalRequests"`
	TotalSize           int64                      `json:"totalSize" yaml:"totalSize"`
	TotalCompressedSize int64                      `json:"totalCompressedSize" yaml:"totalCompressedSize"`
	TotalTime           float64                    `json:"totalTime" yaml:"totalTime"`
	Phases              PhaseTotals                `json:"phases" yaml:"phases"`
	RequestsByType      map[model.ResourceType]int `json:"requestsByType" yaml:"requestsByType"`
	RequestsByStatus    map[int]int                `json:"requestsByStatus" yaml:"requestsByStatus"`
	Domains             []string                   `json:"domains" yaml:"domains"`
}

// ResourceCount pairs a resource type with how many requests it had.
type ResourceCount struct {
	Type  model.ResourceType `json:"type" yaml:"type"`
	Count int                `json:"count" yaml:"count"`
}

// ComputeSummary aggregates records in one pass. Every resource type is present in
// RequestsByType; domains are listed in the order first seen.
func ComputeSummary(records []*model.Record) Summary {
	summary := Summary{
		TotalRequests:    len(records),
		RequestsByType:   make(map[model.ResourceType]int, len(model.ResourceTypes)),
		RequestsByStatus: make(map[int]int),
		Domains:          []string{},
	}
	for _, rt := range model.ResourceTypes {
		summary.RequestsByType[rt] = 0
	}

	seen := make(map[string]struct{})

	for _, r := range records {
		summary.TotalSize += r.ContentSize
		if r.Compression != 0 {
			summary.TotalCompressedSize += r.ContentSize
		}
		summary.TotalTime += r.Time

		t := r.Timings
		// connection phases report 0 when reused, only count real work
		if t.Blocked > 0 {
			summary.Phases.Blocked += t.Blocked
		}
		if t.DNS > 0 {
			summary.Phases.DNS += t.DNS
		}
		if t.Connect > 0 {
			summary.Phases.Connect += t.Connect
		}
		if t.SSL > 0 {
			summary.Phases.SSL += t.SSL
		}
		if t.Send >= 0 {
			summary.Phases.Send += t.Send
		}
		if t.Wait >= 0 {
			summary.Phases.Wait += t.Wait
		}
		if t.Receive >= 0 {
			summary.Phases.Receive += t.Receive
		}

		summary.RequestsByType[r.ResourceType]++
		summary.RequestsByStatus[r.Status]++

		if _, ok := seen[r.Domain]; !ok {
			seen[r.Domain] = struct{}{}
			summary.Domains = append(summary.Domains, r.Domain)
		}
	}

	return summary
}

// TopResourceTypes returns up to n resource types with at least one request, busiest first.
func (s Summary) TopResourceTypes(n int) []ResourceCount {
	counts := make([]ResourceCount, 0, len(s.RequestsByType))
	for rt, count := range s.RequestsByType {
		if count > 0 {
			counts = append(counts, ResourceCount{Type: rt, Count: count})
		}
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Type < counts[j].Type
	})

	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
