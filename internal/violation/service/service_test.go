package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"trafficdesk/internal/platform/metrics"
	"trafficdesk/internal/violation/models"
	"trafficdesk/internal/violation/store"
	dErrors "trafficdesk/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	store          *store.InMemory
	service        *Service
	ctx            context.Context
	ownerID        uuid.UUID
	systemOfficer  uuid.UUID
	specialOfficer uuid.UUID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()
	s.ownerID = uuid.New()
	s.systemOfficer = uuid.New()
	s.specialOfficer = uuid.New()

	s.store.SeedOwner(models.Owner{
		ID:        s.ownerID,
		FullName:  "Jane Doe",
		CarNumber: "CAR-123",
		CreatedAt: time.Now(),
	})
	s.store.SeedOfficer(models.Officer{ID: s.systemOfficer, FullName: "System Officer"})
	s.store.SeedOfficer(models.Officer{ID: s.specialOfficer, FullName: "Officer Reyes"})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(s.store, s.systemOfficer, logger, metrics.NewForTesting())
}

func (s *ServiceSuite) TestCreateViolation() {
	s.Run("defaults officer to the configured system officer", func() {
		v, err := s.service.CreateViolation(s.ctx, CreateViolationInput{
			OwnerID:       s.ownerID,
			ViolationType: "Speeding",
			Amount:        150,
			Location:      "Main St",
		})
		s.Require().NoError(err)
		s.Equal(s.systemOfficer, v.OfficerID)
		s.Equal(models.StatusUnpaid, v.Status)
	})

	s.Run("honors an explicit officer", func() {
		v, err := s.service.CreateViolation(s.ctx, CreateViolationInput{
			OwnerID:       s.ownerID,
			ViolationType: "Speeding",
			Amount:        150,
			Location:      "Main St",
			OfficerID:     s.specialOfficer,
		})
		s.Require().NoError(err)
		s.Equal(s.specialOfficer, v.OfficerID)
	})

	s.Run("trims violation type and location", func() {
		v, err := s.service.CreateViolation(s.ctx, CreateViolationInput{
			OwnerID:       s.ownerID,
			ViolationType: "  Speeding  ",
			Amount:        150,
			Location:      "  Main St  ",
		})
		s.Require().NoError(err)
		s.Equal("Speeding", v.ViolationType)
		s.Equal("Main St", v.Location)
	})

	s.Run("unknown owner surfaces as conflict", func() {
		_, err := s.service.CreateViolation(s.ctx, CreateViolationInput{
			OwnerID:       uuid.New(),
			ViolationType: "Speeding",
			Amount:        150,
			Location:      "Main St",
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *ServiceSuite) TestGetOwnerByCarNumber() {
	s.Run("resolves a known car number", func() {
		owner, err := s.service.GetOwnerByCarNumber(s.ctx, "CAR-123")
		s.Require().NoError(err)
		s.Equal(s.ownerID, owner.ID)
	})

	s.Run("unknown car number surfaces as not found", func() {
		_, err := s.service.GetOwnerByCarNumber(s.ctx, "CAR-999")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestListings() {
	first, err := s.service.CreateViolation(s.ctx, CreateViolationInput{
		OwnerID: s.ownerID, ViolationType: "Speeding", Amount: 150, Location: "Main St",
	})
	s.Require().NoError(err)
	second, err := s.service.CreateViolation(s.ctx, CreateViolationInput{
		OwnerID: s.ownerID, ViolationType: "Parking", Amount: 50, Location: "5th Ave",
	})
	s.Require().NoError(err)

	s.Run("all violations newest first", func() {
		records, err := s.service.GetAllViolations(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(records, 2)
		s.Equal(second.ID, records[0].ID)
		s.Equal(first.ID, records[1].ID)
	})

	s.Run("paid violations leave the unpaid listing but not the full one", func() {
		_, err := s.service.MarkViolationPaid(s.ctx, second.ID)
		s.Require().NoError(err)

		unpaid, err := s.service.GetUnpaidViolations(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(unpaid, 1)
		s.Equal(first.ID, unpaid[0].ID)

		all, err := s.service.GetAllViolations(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(all, 2)
		s.Equal(models.StatusPaid, all[0].Status)
	})
}

func (s *ServiceSuite) TestMarkViolationPaid() {
	s.Run("unknown id surfaces as not found", func() {
		_, err := s.service.MarkViolationPaid(s.ctx, uuid.New())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("re-paying succeeds unchanged", func() {
		v, err := s.service.CreateViolation(s.ctx, CreateViolationInput{
			OwnerID: s.ownerID, ViolationType: "Speeding", Amount: 150, Location: "Main St",
		})
		s.Require().NoError(err)

		once, err := s.service.MarkViolationPaid(s.ctx, v.ID)
		s.Require().NoError(err)
		twice, err := s.service.MarkViolationPaid(s.ctx, v.ID)
		s.Require().NoError(err)
		s.Equal(once, twice)
	})
}
