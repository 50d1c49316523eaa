// Package pgstore provides a PostgreSQL implementation of records.Store.
package pgstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/wardline/internal/records"
)

var tracer = otel.Tracer("github.com/linnemanlabs/wardline/internal/records/pgstore")

//go:embed schema.sql
var schema string

// pgUniqueViolation is the SQLSTATE for a unique constraint violation.
const pgUniqueViolation = "23505"

// Store persists patient and staff records in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema on the given pool and returns a ready Store.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// CreatePatient admits a patient. A duplicate id maps to records.ErrDuplicate.
func (s *Store) CreatePatient(ctx context.Context, p *records.Patient) error {
	ctx, span := tracer.Start(ctx, "pgstore.CreatePatient", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "INSERT"),
	))
	defer span.End()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO patients (patient_id, name, ward, condition, age, goal_steps, goal_water, goal_sleep, admitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.PatientID, p.Name, p.Ward, p.Condition, p.Age,
		p.Goals.Steps, p.Goals.Water, p.Goals.Sleep, p.AdmittedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return records.ErrDuplicate
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

const patientColumns = `patient_id, name, ward, condition, age, goal_steps, goal_water, goal_sleep, admitted_at`

// GetPatient retrieves a single patient record by id.
func (s *Store) GetPatient(ctx context.Context, patientID string) (*records.Patient, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.GetPatient", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	row := s.pool.QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE patient_id = $1`, patientID)

	p, err := scanPatient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	return p, true, nil
}

// ListPatients returns all patients in admission order.
func (s *Store) ListPatients(ctx context.Context) ([]records.Patient, error) {
	ctx, span := tracer.Start(ctx, "pgstore.ListPatients", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	rows, err := s.pool.Query(ctx,
		`SELECT `+patientColumns+` FROM patients ORDER BY admitted_at, patient_id`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	var out []records.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}
	return out, nil
}

// UpdateGoals replaces a patient's goals.
func (s *Store) UpdateGoals(ctx context.Context, patientID string, g records.Goals) (bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.UpdateGoals", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPDATE"),
	))
	defer span.End()

	tag, err := s.pool.Exec(ctx,
		`UPDATE patients SET goal_steps = $2, goal_water = $3, goal_sleep = $4 WHERE patient_id = $1`,
		patientID, g.Steps, g.Water, g.Sleep,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("update goals: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CreateStaff adds a roster entry. A duplicate id maps to records.ErrDuplicate.
func (s *Store) CreateStaff(ctx context.Context, m *records.StaffMember) error {
	ctx, span := tracer.Start(ctx, "pgstore.CreateStaff", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "INSERT"),
	))
	defer span.End()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO staff (staff_id, name, role, shift, contact) VALUES ($1, $2, $3, $4, $5)`,
		m.StaffID, m.Name, m.Role, m.Shift, m.Contact,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return records.ErrDuplicate
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("insert staff: %w", err)
	}
	return nil
}

// ListStaff returns the full roster.
func (s *Store) ListStaff(ctx context.Context) ([]records.StaffMember, error) {
	ctx, span := tracer.Start(ctx, "pgstore.ListStaff", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	rows, err := s.pool.Query(ctx,
		`SELECT staff_id, name, role, shift, contact FROM staff ORDER BY staff_id`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query staff: %w", err)
	}
	defer rows.Close()

	var out []records.StaffMember
	for rows.Next() {
		var m records.StaffMember
		if err := rows.Scan(&m.StaffID, &m.Name, &m.Role, &m.Shift, &m.Contact); err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate staff: %w", err)
	}
	return out, nil
}

func scanPatient(row pgx.Row) (*records.Patient, error) {
	var p records.Patient
	err := row.Scan(
		&p.PatientID, &p.Name, &p.Ward, &p.Condition, &p.Age,
		&p.Goals.Steps, &p.Goals.Water, &p.Goals.Sleep, &p.AdmittedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan patient: %w", err)
	}
	return &p, nil
}
