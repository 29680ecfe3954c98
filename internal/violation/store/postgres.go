package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"trafficdesk/internal/violation/models"
	"trafficdesk/pkg/platform/sentinel"
)

// foreignKeyViolation is the Postgres error class for a failed referential
// constraint (owner or officer id that does not exist).
const foreignKeyViolation = "23503"

// Postgres persists owners and violations in PostgreSQL. Every operation is a
// single statement against the pooled *sql.DB, so record-level atomicity comes
// from the database itself.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) FindOwnerByCarNumber(ctx context.Context, carNumber string) (*models.Owner, error) {
	carNumber = strings.TrimSpace(carNumber)
	if carNumber == "" {
		return nil, sentinel.ErrNotFound
	}

	query := `
		SELECT id, full_name, national_id, car_number, email, phone, created_at
		FROM owners
		WHERE car_number = $1
	`
	var o models.Owner
	err := s.db.QueryRowContext(ctx, query, carNumber).Scan(
		&o.ID, &o.FullName, &o.NationalID, &o.CarNumber, &o.Email, &o.Phone, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find owner by car number: %w", err)
	}
	return &o, nil
}

func (s *Postgres) InsertViolation(ctx context.Context, params InsertViolationParams) (*models.Violation, error) {
	query := `
		INSERT INTO violations (id, owner_id, officer_id, violation_type, amount, location, status, violation_date)
		VALUES ($1, $2, $3, $4, $5, $6, 'unpaid', NOW())
		RETURNING id, owner_id, officer_id, violation_type, amount, location, status, violation_date
	`
	var v models.Violation
	err := s.db.QueryRowContext(ctx, query,
		uuid.New(), params.OwnerID, params.OfficerID, params.ViolationType, params.Amount, params.Location,
	).Scan(
		&v.ID, &v.OwnerID, &v.OfficerID, &v.ViolationType, &v.Amount, &v.Location, &v.Status, &v.ViolationDate,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolation {
			return nil, fmt.Errorf("insert violation: %w", sentinel.ErrReferential)
		}
		return nil, fmt.Errorf("insert violation: %w", err)
	}
	return &v, nil
}

func (s *Postgres) ListViolations(ctx context.Context, filter models.Filter) ([]*models.Record, error) {
	query := `
		SELECT v.id, v.owner_id, v.officer_id, v.violation_type, v.amount, v.location, v.status, v.violation_date,
		       o.full_name, o.car_number, ofc.full_name
		FROM violations v
		JOIN owners o ON v.owner_id = o.id
		JOIN officers ofc ON v.officer_id = ofc.id
	`
	if filter == models.FilterUnpaid {
		query += ` WHERE v.status = 'unpaid'`
	}
	query += ` ORDER BY v.violation_date DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list violations: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		var rec models.Record
		if err := rows.Scan(
			&rec.ID, &rec.OwnerID, &rec.OfficerID, &rec.ViolationType, &rec.Amount, &rec.Location, &rec.Status, &rec.ViolationDate,
			&rec.OwnerName, &rec.CarNumber, &rec.OfficerName,
		); err != nil {
			return nil, fmt.Errorf("scan violation row: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate violation rows: %w", err)
	}
	return records, nil
}

func (s *Postgres) MarkPaid(ctx context.Context, id uuid.UUID) (*models.Violation, error) {
	// Unconditional update: re-paying an already-paid violation succeeds and
	// returns the row unchanged.
	query := `
		UPDATE violations
		SET status = 'paid'
		WHERE id = $1
		RETURNING id, owner_id, officer_id, violation_type, amount, location, status, violation_date
	`
	var v models.Violation
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.OwnerID, &v.OfficerID, &v.ViolationType, &v.Amount, &v.Location, &v.Status, &v.ViolationDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("mark violation paid: %w", err)
	}
	return &v, nil
}
