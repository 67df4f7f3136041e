package pricing

import "sync"

// Call outcomes tracked per service and region
const (
	statSuccess = "success"
	statFailure = "failure"
	statCache   = "cache"
)

// CallStats holds the counters for one service and region
type CallStats struct {
	Success int
	Failure int
	Cache   int
}

// Total returns the number of API calls made (cache hits excluded)
func (s CallStats) Total() int {
	return s.Success + s.Failure
}

// SuccessRate returns the percentage of successful API calls
func (s CallStats) SuccessRate() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.Success) / float64(s.Total()) * 100.0
}

// Stats tracks Pricing API calls by service and region
type Stats struct {
	mu    sync.RWMutex
	calls map[string]map[string]*CallStats // service -> region -> counters
}

// NewStats creates an empty statistics tracker
func NewStats() *Stats {
	return &Stats{calls: make(map[string]map[string]*CallStats)}
}

func (s *Stats) record(service, region, kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.calls[service]; !exists {
		s.calls[service] = make(map[string]*CallStats)
	}
	cs, exists := s.calls[service][region]
	if !exists {
		cs = &CallStats{}
		s.calls[service][region] = cs
	}

	switch kind {
	case statSuccess:
		cs.Success++
	case statFailure:
		cs.Failure++
	case statCache:
		cs.Cache++
	}
}

// Snapshot returns a copy of the current statistics
func (s *Stats) Snapshot() map[string]map[string]CallStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]map[string]CallStats, len(s.calls))
	for service, regions := range s.calls {
		out[service] = make(map[string]CallStats, len(regions))
		for region, cs := range regions {
			out[service][region] = *cs
		}
	}
	return out
}
