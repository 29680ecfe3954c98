// Package models holds the violation domain entities shared by stores,
// services, and transports.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the payment state of a violation.
type Status string

const (
	StatusUnpaid Status = "unpaid"
	StatusPaid   Status = "paid"
)

// Filter selects which violations a listing returns.
type Filter int

const (
	FilterAll Filter = iota
	FilterUnpaid
)

// Owner is a registered person/vehicle record, looked up by car number.
// Read-only here; registration is owned by an external process.
type Owner struct {
	ID         uuid.UUID `json:"id"`
	FullName   string    `json:"full_name"`
	NationalID string    `json:"national_id"`
	CarNumber  string    `json:"car_number"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
}

// Officer is the entity attributed as having issued a violation.
type Officer struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}

// Violation is one recorded infraction. Created unpaid; the only mutation it
// ever sees is the unpaid -> paid transition.
type Violation struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	OfficerID     uuid.UUID `json:"officer_id"`
	ViolationType string    `json:"violation_type"`
	Amount        float64   `json:"amount"`
	Location      string    `json:"location"`
	Status        Status    `json:"status"`
	ViolationDate time.Time `json:"violation_date"`
}

// Record is the listing projection: a violation joined with its owner's name
// and car number and the issuing officer's name.
type Record struct {
	Violation
	OwnerName   string `json:"owner_name"`
	CarNumber   string `json:"car_number"`
	OfficerName string `json:"officer_name"`
}
