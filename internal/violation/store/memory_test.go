package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"trafficdesk/internal/violation/models"
	"trafficdesk/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store     *InMemory
	ctx       context.Context
	ownerID   uuid.UUID
	officerID uuid.UUID
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.ownerID = uuid.New()
	s.officerID = uuid.New()

	s.store.SeedOwner(models.Owner{
		ID:        s.ownerID,
		FullName:  "Jane Doe",
		CarNumber: "CAR-123",
		CreatedAt: time.Now(),
	})
	s.store.SeedOfficer(models.Officer{ID: s.officerID, FullName: "System Officer"})
}

func (s *InMemoryStoreSuite) insert(violationType string, amount float64) *models.Violation {
	v, err := s.store.InsertViolation(s.ctx, InsertViolationParams{
		OwnerID:       s.ownerID,
		OfficerID:     s.officerID,
		ViolationType: violationType,
		Amount:        amount,
		Location:      "Main St",
	})
	s.Require().NoError(err)
	return v
}

func (s *InMemoryStoreSuite) TestFindOwnerByCarNumber() {
	s.Run("finds seeded owner", func() {
		owner, err := s.store.FindOwnerByCarNumber(s.ctx, "CAR-123")
		s.Require().NoError(err)
		s.Equal("Jane Doe", owner.FullName)
		s.Equal(s.ownerID, owner.ID)
	})

	s.Run("trims input before lookup", func() {
		owner, err := s.store.FindOwnerByCarNumber(s.ctx, "  CAR-123  ")
		s.Require().NoError(err)
		s.Equal(s.ownerID, owner.ID)
	})

	s.Run("empty after trim is not found without a query", func() {
		_, err := s.store.FindOwnerByCarNumber(s.ctx, "   ")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("unknown car number is not found", func() {
		_, err := s.store.FindOwnerByCarNumber(s.ctx, "CAR-999")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestInsertViolation() {
	s.Run("assigns id, timestamp, and unpaid status", func() {
		v := s.insert("Speeding", 150)
		s.NotEqual(uuid.Nil, v.ID)
		s.False(v.ViolationDate.IsZero())
		s.Equal(models.StatusUnpaid, v.Status)
		s.Equal(150.0, v.Amount)
	})

	s.Run("rejects unknown owner", func() {
		_, err := s.store.InsertViolation(s.ctx, InsertViolationParams{
			OwnerID:       uuid.New(),
			OfficerID:     s.officerID,
			ViolationType: "Speeding",
			Amount:        150,
			Location:      "Main St",
		})
		s.Require().ErrorIs(err, sentinel.ErrReferential)
	})

	s.Run("rejects unknown officer", func() {
		_, err := s.store.InsertViolation(s.ctx, InsertViolationParams{
			OwnerID:       s.ownerID,
			OfficerID:     uuid.New(),
			ViolationType: "Speeding",
			Amount:        150,
			Location:      "Main St",
		})
		s.Require().ErrorIs(err, sentinel.ErrReferential)
	})
}

func (s *InMemoryStoreSuite) TestListViolations() {
	s.Run("returns newest first with joined names", func() {
		first := s.insert("Speeding", 150)
		second := s.insert("Red light", 300)

		records, err := s.store.ListViolations(s.ctx, models.FilterAll)
		s.Require().NoError(err)
		s.Require().Len(records, 2)
		s.Equal(second.ID, records[0].ID)
		s.Equal(first.ID, records[1].ID)
		s.Equal("Jane Doe", records[0].OwnerName)
		s.Equal("CAR-123", records[0].CarNumber)
		s.Equal("System Officer", records[0].OfficerName)
	})

	s.Run("unpaid filter excludes paid violations", func() {
		kept := s.insert("Speeding", 150)
		paid := s.insert("Parking", 50)

		_, err := s.store.MarkPaid(s.ctx, paid.ID)
		s.Require().NoError(err)

		records, err := s.store.ListViolations(s.ctx, models.FilterUnpaid)
		s.Require().NoError(err)
		s.Require().Len(records, 1)
		s.Equal(kept.ID, records[0].ID)

		all, err := s.store.ListViolations(s.ctx, models.FilterAll)
		s.Require().NoError(err)
		s.Len(all, 2)
	})

	s.Run("empty store lists nothing", func() {
		records, err := NewInMemory().ListViolations(s.ctx, models.FilterAll)
		s.Require().NoError(err)
		s.Empty(records)
	})
}

func (s *InMemoryStoreSuite) TestMarkPaid() {
	s.Run("transitions unpaid to paid", func() {
		v := s.insert("Speeding", 150)

		updated, err := s.store.MarkPaid(s.ctx, v.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusPaid, updated.Status)
		s.Equal(v.ID, updated.ID)
	})

	s.Run("is idempotent", func() {
		v := s.insert("Speeding", 150)

		once, err := s.store.MarkPaid(s.ctx, v.ID)
		s.Require().NoError(err)
		twice, err := s.store.MarkPaid(s.ctx, v.ID)
		s.Require().NoError(err)
		s.Equal(once, twice)
		s.Equal(models.StatusPaid, twice.Status)
	})

	s.Run("unknown id is not found and mutates nothing", func() {
		_, err := s.store.MarkPaid(s.ctx, uuid.New())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		records, listErr := s.store.ListViolations(s.ctx, models.FilterAll)
		s.Require().NoError(listErr)
		s.Empty(records)
	})
}
