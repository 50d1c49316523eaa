package records

import (
	"context"

	"github.com/linnemanlabs/go-core/xerrors"
)

// ErrDuplicate is returned when admitting a patient or staff member whose id
// is already on record.
var ErrDuplicate = xerrors.New("id already exists")

// Store is the persistence interface for patient records and the staff
// roster.
type Store interface {
	CreatePatient(ctx context.Context, p *Patient) error
	GetPatient(ctx context.Context, patientID string) (*Patient, bool, error)
	ListPatients(ctx context.Context) ([]Patient, error)
	// UpdateGoals replaces a patient's goals and reports whether the patient
	// exists.
	UpdateGoals(ctx context.Context, patientID string, g Goals) (bool, error)

	CreateStaff(ctx context.Context, m *StaffMember) error
	ListStaff(ctx context.Context) ([]StaffMember, error)
}
