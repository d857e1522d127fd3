// Package id generates the human-readable record identifiers shown on every
// page, e.g. CASE-2024-013 or USR-007.
package id

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Sequence hands out monotonically increasing ids for one prefix. An id
// handed out once is never produced again by the same Sequence.
type Sequence struct {
	mu       sync.Mutex
	prefix   string
	width    int
	withYear bool
	last     int
	now      func() time.Time
}

// NewSequence builds a sequence formatting counters to width digits. When
// withYear is set the current year is embedded: PREFIX-YYYY-NNN.
func NewSequence(prefix string, width int, withYear bool) *Sequence {
	if width <= 0 {
		width = 3
	}
	return &Sequence{prefix: prefix, width: width, withYear: withYear, now: time.Now}
}

// WithClock overrides the clock used for the year segment.
func (s *Sequence) WithClock(now func() time.Time) *Sequence {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now != nil {
		s.now = now
	}
	return s
}

// Observe advances the counter past an existing id so seeded records are
// never reissued. Ids that do not belong to the sequence are ignored.
func (s *Sequence) Observe(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, raw := range ids {
		if !strings.HasPrefix(raw, s.prefix+"-") {
			continue
		}
		idx := strings.LastIndex(raw, "-")
		n, err := strconv.Atoi(raw[idx+1:])
		if err != nil {
			continue
		}
		if n > s.last {
			s.last = n
		}
	}
}

// Next returns a fresh id.
func (s *Sequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	if s.withYear {
		return fmt.Sprintf("%s-%d-%0*d", s.prefix, s.now().Year(), s.width, s.last)
	}
	return fmt.Sprintf("%s-%0*d", s.prefix, s.width, s.last)
}
