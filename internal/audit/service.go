package audit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/platform/id"
	"github.com/casetrail/casetrail/internal/platform/ledger"
	"github.com/casetrail/casetrail/internal/records"
	"github.com/casetrail/casetrail/internal/shared"
)

// Service appends to and reads the audit trail.
type Service struct {
	entries *records.Collection[Entry]
	ids     *id.Sequence
	blocks  *ledger.Blocks
	now     func() time.Time
}

// NewService builds a trail seeded with entries, newest first.
func NewService(seed []Entry) (*Service, error) {
	entries, err := records.NewCollection(seed)
	if err != nil {
		return nil, fmt.Errorf("audit: seed: %w", err)
	}
	s := &Service{
		entries: entries,
		ids:     id.NewSequence("AUD", 5, false),
		blocks:  ledger.NewBlocks(18_400_000),
		now:     time.Now,
	}
	for _, e := range seed {
		s.ids.Observe(e.ID)
		s.blocks.Observe(e.BlockNumber)
	}
	return s, nil
}

// WithClock overrides the clock used for new entries.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Record appends log to the trail.
func (s *Service) Record(ctx context.Context, log shared.AuditLog) error {
	if err := log.Validate(); err != nil {
		return fmt.Errorf("audit: %w: %v", httpx.ErrValidation, err)
	}
	at := log.At
	if at.IsZero() {
		at = s.now()
	}
	at = at.UTC()
	actor := log.Actor
	if actor == "" {
		actor = "system"
	}
	entry := Entry{
		ID:          s.ids.Next(),
		Action:      log.Action,
		Entity:      log.Entity,
		EntityID:    log.EntityID,
		Actor:       actor,
		Role:        log.Role,
		Details:     log.Details,
		Timestamp:   at,
		BlockNumber: s.blocks.Next(),
	}
	entry.TxHash = ledger.TxHash(entry.ID, entry.Action, entry.Entity, entry.EntityID, entry.Actor,
		at.Format(time.RFC3339Nano), strconv.FormatInt(entry.BlockNumber, 10))
	if err := s.entries.Prepend(entry); err != nil {
		return fmt.Errorf("audit: append: %w", err)
	}
	return nil
}

// Records returns the trail, newest first.
func (s *Service) Records(ctx context.Context) []Entry {
	return s.entries.Snapshot()
}

// Get returns one entry.
func (s *Service) Get(ctx context.Context, entryID string) (Entry, error) {
	e, err := s.entries.Get(entryID)
	if err != nil {
		return Entry{}, fmt.Errorf("audit: get: %w", err)
	}
	return e, nil
}

// ForEntity returns the entries about one record, newest first.
func (s *Service) ForEntity(ctx context.Context, entity, entityID string) []Entry {
	return s.entries.Filter(func(e Entry) bool {
		return e.Entity == entity && e.EntityID == entityID
	})
}

var _ shared.AuditRecorder = (*Service)(nil)
