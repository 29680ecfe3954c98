package store

import (
	"time"

	"github.com/google/uuid"

	"trafficdesk/internal/violation/models"
)

// SeedDemoData populates an in-memory store with the system officer and a
// couple of owners so database-less development runs have something to look up.
func SeedDemoData(s *InMemory, officerID uuid.UUID) {
	now := time.Now().UTC()

	s.SeedOfficer(models.Officer{ID: officerID, FullName: "System Officer"})

	s.SeedOwner(models.Owner{
		ID:         uuid.New(),
		FullName:   "Jane Doe",
		NationalID: "1990123456",
		CarNumber:  "CAR-123",
		Email:      "jane.doe@example.com",
		Phone:      "+10000000001",
		CreatedAt:  now,
	})
	s.SeedOwner(models.Owner{
		ID:         uuid.New(),
		FullName:   "Omar Haddad",
		NationalID: "1985654321",
		CarNumber:  "CAR-456",
		Email:      "omar.haddad@example.com",
		Phone:      "+10000000002",
		CreatedAt:  now,
	})
}
