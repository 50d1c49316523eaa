// Package seed populates empty stores with demo records for trials and
// local development.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/wardline/internal/records"
)

// Apply inserts the demo patients and staff roster if the stores are empty.
// Non-empty stores are left untouched so a restart never duplicates data.
func Apply(ctx context.Context, store records.Store, logger log.Logger) error {
	if logger == nil {
		logger = log.Nop()
	}

	patients, err := store.ListPatients(ctx)
	if err != nil {
		return fmt.Errorf("seed: list patients: %w", err)
	}
	staff, err := store.ListStaff(ctx)
	if err != nil {
		return fmt.Errorf("seed: list staff: %w", err)
	}
	if len(patients) > 0 || len(staff) > 0 {
		logger.Info(ctx, "seed skipped, stores not empty",
			"patients", len(patients),
			"staff", len(staff),
		)
		return nil
	}

	now := time.Now().UTC()
	for _, p := range demoPatients(now) {
		p := p
		if err := store.CreatePatient(ctx, &p); err != nil {
			return fmt.Errorf("seed: create patient %s: %w", p.PatientID, err)
		}
	}
	for _, m := range demoStaff() {
		m := m
		if err := store.CreateStaff(ctx, &m); err != nil {
			return fmt.Errorf("seed: create staff %s: %w", m.StaffID, err)
		}
	}

	logger.Info(ctx, "seeded demo data",
		"patients", len(demoPatients(now)),
		"staff", len(demoStaff()),
	)
	return nil
}

func demoPatients(admittedAt time.Time) []records.Patient {
	return []records.Patient{
		{
			PatientID:  "P1001",
			Name:       "Karan S.",
			Ward:       "A-101",
			Condition:  "Critical",
			Age:        34,
			Goals:      records.DefaultGoals(),
			AdmittedAt: admittedAt,
		},
		{
			PatientID:  "P1002",
			Name:       "Ria V.",
			Ward:       "B-205",
			Condition:  "Stable",
			Age:        67,
			Goals:      records.DefaultGoals(),
			AdmittedAt: admittedAt,
		},
		{
			PatientID:  "P1003",
			Name:       "Manish R.",
			Ward:       "C-310",
			Condition:  "Serious",
			Age:        55,
			Goals:      records.DefaultGoals(),
			AdmittedAt: admittedAt,
		},
	}
}

func demoStaff() []records.StaffMember {
	return []records.StaffMember{
		{
			StaffID: "HOSP001",
			Name:    "Hospital Admin",
			Role:    "Admin",
			Shift:   "Day",
		},
	}
}
