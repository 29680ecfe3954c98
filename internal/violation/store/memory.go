package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"trafficdesk/internal/violation/models"
	"trafficdesk/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store. It enforces the same referential
// rules as the Postgres implementation so tests exercise identical behavior.
type InMemory struct {
	mu         sync.RWMutex
	owners     map[uuid.UUID]*models.Owner
	ownerByCar map[string]uuid.UUID
	officers   map[uuid.UUID]*models.Officer
	violations map[uuid.UUID]*violationEntry
	seq        uint64
}

// violationEntry tracks insertion order so listings are stable when two
// violations share a timestamp.
type violationEntry struct {
	v   models.Violation
	seq uint64
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		owners:     make(map[uuid.UUID]*models.Owner),
		ownerByCar: make(map[string]uuid.UUID),
		officers:   make(map[uuid.UUID]*models.Officer),
		violations: make(map[uuid.UUID]*violationEntry),
	}
}

// SeedOwner registers an owner record. Car numbers are unique; re-seeding the
// same car number replaces the previous mapping.
func (s *InMemory) SeedOwner(o models.Owner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[o.ID] = &o
	s.ownerByCar[o.CarNumber] = o.ID
}

// SeedOfficer registers an officer record.
func (s *InMemory) SeedOfficer(o models.Officer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.officers[o.ID] = &o
}

func (s *InMemory) FindOwnerByCarNumber(ctx context.Context, carNumber string) (*models.Owner, error) {
	carNumber = strings.TrimSpace(carNumber)
	if carNumber == "" {
		return nil, sentinel.ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.ownerByCar[carNumber]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	owner := *s.owners[id]
	return &owner, nil
}

func (s *InMemory) InsertViolation(ctx context.Context, params InsertViolationParams) (*models.Violation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.owners[params.OwnerID]; !ok {
		return nil, sentinel.ErrReferential
	}
	if _, ok := s.officers[params.OfficerID]; !ok {
		return nil, sentinel.ErrReferential
	}

	s.seq++
	v := models.Violation{
		ID:            uuid.New(),
		OwnerID:       params.OwnerID,
		OfficerID:     params.OfficerID,
		ViolationType: params.ViolationType,
		Amount:        params.Amount,
		Location:      params.Location,
		Status:        models.StatusUnpaid,
		ViolationDate: time.Now().UTC(),
	}
	s.violations[v.ID] = &violationEntry{v: v, seq: s.seq}

	out := v
	return &out, nil
}

func (s *InMemory) ListViolations(ctx context.Context, filter models.Filter) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*violationEntry, 0, len(s.violations))
	for _, e := range s.violations {
		if filter == models.FilterUnpaid && e.v.Status != models.StatusUnpaid {
			continue
		}
		entries = append(entries, e)
	}

	// Newest first; insertion order breaks timestamp ties.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].v.ViolationDate.Equal(entries[j].v.ViolationDate) {
			return entries[i].seq > entries[j].seq
		}
		return entries[i].v.ViolationDate.After(entries[j].v.ViolationDate)
	})

	records := make([]*models.Record, 0, len(entries))
	for _, e := range entries {
		rec := &models.Record{Violation: e.v}
		if owner, ok := s.owners[e.v.OwnerID]; ok {
			rec.OwnerName = owner.FullName
			rec.CarNumber = owner.CarNumber
		}
		if officer, ok := s.officers[e.v.OfficerID]; ok {
			rec.OfficerName = officer.FullName
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *InMemory) MarkPaid(ctx context.Context, id uuid.UUID) (*models.Violation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.violations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	// Unconditional transition: re-paying an already-paid violation succeeds
	// and returns the row unchanged.
	e.v.Status = models.StatusPaid

	out := e.v
	return &out, nil
}
