// Package memstore provides an in-memory implementation of records.Store.
package memstore

import (
	"context"
	"sync"

	"github.com/linnemanlabs/wardline/internal/records"
)

// Store holds patient and staff records in memory. Suitable for dev/testing.
type Store struct {
	mu       sync.RWMutex
	patients map[string]*records.Patient // patient ID -> record
	staff    map[string]*records.StaffMember
	order    []string // patient insertion order, for stable listings
	roster   []string
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		patients: make(map[string]*records.Patient),
		staff:    make(map[string]*records.StaffMember),
	}
}

// CreatePatient admits a patient. Duplicate ids are rejected.
func (s *Store) CreatePatient(_ context.Context, p *records.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[p.PatientID]; ok {
		return records.ErrDuplicate
	}
	cp := *p
	s.patients[p.PatientID] = &cp
	s.order = append(s.order, p.PatientID)
	return nil
}

// GetPatient retrieves a patient record by id. Returns a copy.
func (s *Store) GetPatient(_ context.Context, patientID string) (*records.Patient, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[patientID]
	if !ok {
		return nil, false, nil
	}
	cp := *p
	return &cp, true, nil
}

// ListPatients returns copies of all patients in admission order.
func (s *Store) ListPatients(_ context.Context) ([]records.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]records.Patient, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.patients[id])
	}
	return out, nil
}

// UpdateGoals replaces a patient's goals and reports whether the patient
// exists.
func (s *Store) UpdateGoals(_ context.Context, patientID string, g records.Goals) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[patientID]
	if !ok {
		return false, nil
	}
	p.Goals = g
	return true, nil
}

// CreateStaff adds a roster entry. Duplicate ids are rejected.
func (s *Store) CreateStaff(_ context.Context, m *records.StaffMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.staff[m.StaffID]; ok {
		return records.ErrDuplicate
	}
	cp := *m
	s.staff[m.StaffID] = &cp
	s.roster = append(s.roster, m.StaffID)
	return nil
}

// ListStaff returns copies of the roster in insertion order.
func (s *Store) ListStaff(_ context.Context) ([]records.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]records.StaffMember, 0, len(s.roster))
	for _, id := range s.roster {
		out = append(out, *s.staff[id])
	}
	return out, nil
}
