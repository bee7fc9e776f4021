// Package commission implements the quarterly commission reporting core:
// period selection, the aggregation over raw sales, and the display
// projections.
package commission

import (
	"fmt"
	"sync"

	"cyclebay/backend/internal/domain"
)

// Period is a (year, quarter) pair defining a three-calendar-month
// reporting window. Q1 = Jan-Mar ... Q4 = Oct-Dec.
type Period struct {
	Year    int `json:"year"`
	Quarter int `json:"quarter"`
}

// QuarterOf derives the quarter (1..4) a calendar date falls in.
func QuarterOf(d domain.Date) int {
	return (int(d.Month())-1)/3 + 1
}

func PeriodOf(d domain.Date) Period {
	return Period{Year: d.Year(), Quarter: QuarterOf(d)}
}

// CurrentPeriod is the period containing today's date.
func CurrentPeriod() Period {
	return PeriodOf(domain.Today())
}

func (p Period) Validate() error {
	if p.Year < 1 {
		return fmt.Errorf("year is required")
	}
	if p.Quarter < 1 || p.Quarter > 4 {
		return fmt.Errorf("quarter must be between 1 and 4")
	}
	return nil
}

// Contains reports whether the date falls inside the period. Membership is
// decided by calendar year and derived quarter only, so boundary days (the
// first and last day of a quarter) always classify into their own quarter.
func (p Period) Contains(d domain.Date) bool {
	if d.IsZero() {
		return false
	}
	return d.Year() == p.Year && QuarterOf(d) == p.Quarter
}

func (p Period) String() string {
	return fmt.Sprintf("Q%d %d", p.Quarter, p.Year)
}

// Selector keeps the period being edited (pending) separate from the period
// driving report computation (applied). The two diverge until Apply copies
// pending over applied; Clear resets both to the current period.
type Selector struct {
	mu      sync.Mutex
	pending Period
	applied Period
}

func NewSelector() *Selector {
	now := CurrentPeriod()
	return &Selector{pending: now, applied: now}
}

func (s *Selector) Stage(p Period) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = p
	return nil
}

func (s *Selector) Apply() Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = s.pending
	return s.applied
}

func (s *Selector) Clear() Period {
	now := CurrentPeriod()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = now
	s.applied = now
	return now
}

func (s *Selector) Pending() Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Selector) Applied() Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied
}
