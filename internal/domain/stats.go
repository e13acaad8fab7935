package domain

import "time"

// RunStats is recomputed after every completed probe and finalized at run end.
type RunStats struct {
	Total       int           `json:"total"`
	Completed   int           `json:"completed"`
	Reachable   int           `json:"reachable"`
	Unreachable int           `json:"unreachable"`
	Malformed   int           `json:"malformed"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

// Add counts one outcome.
func (s *RunStats) Add(o Outcome) {
	s.Completed++
	switch o.Kind {
	case KindReachable:
		s.Reachable++
	case KindUnreachable:
		s.Unreachable++
	default:
		s.Malformed++
	}
}

// Throughput is completed probes per second.
func (s RunStats) Throughput() float64 {
	sec := s.Elapsed.Seconds()
	if sec <= 0 {
		return 0
	}
	return float64(s.Completed) / sec
}

// ETA estimates the remaining time as remaining × mean time per completed item.
func (s RunStats) ETA() time.Duration {
	if s.Completed == 0 || s.Completed >= s.Total {
		return 0
	}
	perItem := s.Elapsed / time.Duration(s.Completed)
	return time.Duration(s.Total-s.Completed) * perItem
}

// Summary is the frozen Result Set of one run, partitioned in first-seen order.
type Summary struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	Inputs      int       `json:"inputs"`
	Reachable   []Result  `json:"reachable"`
	Unreachable []Result  `json:"unreachable"`
	Malformed   []Result  `json:"malformed"`
	Stats       RunStats  `json:"stats"`
}

// ReachableTargets returns the reachable bucket as plain targets.
func (s Summary) ReachableTargets() []Target {
	out := make([]Target, 0, len(s.Reachable))
	for _, r := range s.Reachable {
		out = append(out, r.Target)
	}
	return out
}

// Failures returns unreachable then malformed results, each in first-seen order.
func (s Summary) Failures() []Result {
	out := make([]Result, 0, len(s.Unreachable)+len(s.Malformed))
	out = append(out, s.Unreachable...)
	return append(out, s.Malformed...)
}
