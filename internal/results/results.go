// Package results owns the Result Set of a run: the single place outcomes
// are written to, and the only source of the final Summary.
package results

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hamed0406/sitecheck/internal/domain"
)

var (
	ErrUnknownTarget = errors.New("target not part of this run")
	ErrDuplicate     = errors.New("target already has an outcome")
	ErrFrozen        = errors.New("result set is frozen")
	ErrIncomplete    = errors.New("result set incomplete")
)

type Set struct {
	mu        sync.Mutex
	runID     string
	startedAt time.Time
	inputs    int
	index     map[domain.Target]int
	results   []*domain.Result
	recorded  int
	frozen    *domain.Summary
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string { return uuid.NewString() }

// New registers the expected targets in first-seen order; repeats are
// ignored. inputs is the
// raw line count before normalization and dedup. An empty runID gets a
// generated one.
func New(runID string, targets []domain.Target, inputs int) *Set {
	if runID == "" {
		runID = NewRunID()
	}
	s := &Set{
		runID:     runID,
		startedAt: time.Now().UTC(),
		inputs:    inputs,
		index:     make(map[domain.Target]int, len(targets)),
	}
	for _, t := range targets {
		if _, ok := s.index[t]; !ok {
			s.index[t] = len(s.index)
		}
	}
	s.results = make([]*domain.Result, len(s.index))
	return s
}

func (s *Set) RunID() string { return s.runID }

func (s *Set) StartedAt() time.Time { return s.startedAt }

// Record stores the outcome for one target.
func (s *Set) Record(r domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen != nil {
		return ErrFrozen
	}
	i, ok := s.index[r.Target]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTarget, r.Target)
	}
	if s.results[i] != nil {
		return fmt.Errorf("%w: %s", ErrDuplicate, r.Target)
	}
	r.Index = i
	if r.CheckedAt.IsZero() {
		r.CheckedAt = time.Now().UTC()
	}
	s.results[i] = &r
	s.recorded++
	return nil
}

// Pending is the number of registered targets still without an outcome.
func (s *Set) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results) - s.recorded
}

// Finalize freezes the set and returns the partitioned Summary. Once frozen
// it keeps returning the same Summary; stats is only used on the first call.
// Each call gets its own copy of the buckets.
func (s *Set) Finalize(stats domain.RunStats) (domain.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen != nil {
		return cloneSummary(*s.frozen), nil
	}
	if missing := len(s.results) - s.recorded; missing > 0 {
		return domain.Summary{}, fmt.Errorf("%w: %d of %d targets pending", ErrIncomplete, missing, len(s.results))
	}

	sum := domain.Summary{
		RunID:       s.runID,
		StartedAt:   s.startedAt,
		Inputs:      s.inputs,
		Reachable:   make([]domain.Result, 0, len(s.results)),
		Unreachable: []domain.Result{},
		Malformed:   []domain.Result{},
	}
	counts := domain.RunStats{Total: len(s.results), Elapsed: stats.Elapsed}
	for _, r := range s.results {
		counts.Add(r.Outcome)
		switch r.Outcome.Kind {
		case domain.KindReachable:
			sum.Reachable = append(sum.Reachable, *r)
		case domain.KindUnreachable:
			sum.Unreachable = append(sum.Unreachable, *r)
		default:
			sum.Malformed = append(sum.Malformed, *r)
		}
	}
	if counts.Elapsed == 0 {
		counts.Elapsed = time.Since(s.startedAt)
	}
	sum.Stats = counts
	s.frozen = &sum
	return cloneSummary(sum), nil
}

func cloneSummary(sum domain.Summary) domain.Summary {
	sum.Reachable = slices.Clone(sum.Reachable)
	sum.Unreachable = slices.Clone(sum.Unreachable)
	sum.Malformed = slices.Clone(sum.Malformed)
	return sum
}
