// Package store provides the persistence layer for owners and violations.
// Two implementations exist: Postgres for deployments and InMemory for tests
// and database-less development runs.
package store

import (
	"github.com/google/uuid"
)

// InsertViolationParams carries the caller-supplied fields of a new violation.
// The store assigns the identifier, timestamp, and initial status itself.
type InsertViolationParams struct {
	OwnerID       uuid.UUID
	OfficerID     uuid.UUID
	ViolationType string
	Amount        float64
	Location      string
}
