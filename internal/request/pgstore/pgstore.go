// Package pgstore provides a PostgreSQL implementation of request.Store.
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

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/wardline/internal/request"
)

var tracer = otel.Tracer("github.com/linnemanlabs/wardline/internal/request/pgstore")

//go:embed schema.sql
var schema string

// pgUniqueViolation is the SQLSTATE for a unique constraint violation.
const pgUniqueViolation = "23505"

// Store persists pending requests in PostgreSQL.
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

// Insert adds a request row. The primary key enforces id uniqueness across
// the live set.
func (s *Store) Insert(ctx context.Context, r *request.Request) error {
	ctx, span := tracer.Start(ctx, "pgstore.Insert", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "INSERT"),
	))
	defer span.End()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO doctor_requests (id, patient_id, patient_name, reason, type, criticality, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.PatientID, r.PatientName, r.Reason, string(r.Type), string(r.Criticality), r.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("insert %s: %w", r.ID, request.ErrDuplicateID)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// List returns all live requests. No ordering is promised; the triage pass
// sorts its own copy.
func (s *Store) List(ctx context.Context) ([]request.Request, error) {
	ctx, span := tracer.Start(ctx, "pgstore.List", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	rows, err := s.pool.Query(ctx,
		`SELECT id, patient_id, patient_name, reason, type, criticality, created_at FROM doctor_requests`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	var out []request.Request
	for rows.Next() {
		var (
			r           request.Request
			typ         string
			criticality string
		)
		if err := rows.Scan(&r.ID, &r.PatientID, &r.PatientName, &r.Reason, &typ, &criticality, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		r.Type = request.Type(typ)
		r.Criticality = request.Criticality(criticality)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("iterate requests: %w", err)
	}
	return out, nil
}

// Delete removes the request row if present and reports whether it existed.
// A single DELETE is atomic per id, so concurrent resolves of the same
// request see one row affected exactly once.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Delete", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "DELETE"),
	))
	defer span.End()

	tag, err := s.pool.Exec(ctx, `DELETE FROM doctor_requests WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("delete request: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
